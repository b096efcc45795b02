package handler

import (
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/ashrafosamaa/gym-management-sys/internal/middleware"
	"github.com/ashrafosamaa/gym-management-sys/internal/service"
	"github.com/gofiber/fiber/v2"
)

// MembershipHandler exposes the admin membership group and the member /my
// group. Admins address any membership; members only their own.
type MembershipHandler struct {
	memberships *service.MembershipService
	userRepo    domain.UserRepository
}

func NewMembershipHandler(memberships *service.MembershipService, userRepo domain.UserRepository) *MembershipHandler {
	return &MembershipHandler{
		memberships: memberships,
		userRepo:    userRepo,
	}
}

type membershipCreateRequest struct {
	BranchID  string `json:"branch_id"`
	Duration  int    `json:"duration"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

type membershipPatchRequest struct {
	Duration  *int    `json:"duration"`
	StartDate *string `json:"start_date"`
	IsActive  *bool   `json:"is_active"`
	IsPaid    *bool   `json:"is_paid"`
}

func (r *membershipPatchRequest) toPatch() (domain.MembershipPatch, error) {
	patch := domain.MembershipPatch{
		Duration: r.Duration,
		IsActive: r.IsActive,
		IsPaid:   r.IsPaid,
	}
	if r.StartDate != nil {
		start, err := parseStartDate(*r.StartDate)
		if err != nil {
			return patch, err
		}
		patch.StartDate = &start
	}
	return patch, nil
}

// Create POST /v1/memberships (admin). The member is addressed by phone
// number, matching how front-desk staff identify walk-ins.
func (h *MembershipHandler) Create(c *fiber.Ctx) error {
	var req struct {
		membershipCreateRequest
		PhoneNumber string `json:"phone_number"`
		IsPaid      bool   `json:"is_paid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.PhoneNumber == "" {
		return badRequest(c, "phone_number is required")
	}
	if !hexIDPattern.MatchString(req.BranchID) {
		return badRequest(c, "branch_id must be a 24 character hex string")
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		return badRequest(c, "start_date must be a future YYYY-MM-DD date")
	}

	user, err := h.userRepo.GetByPhone(c.UserContext(), req.PhoneNumber)
	if err != nil {
		return respondError(c, err)
	}

	membership, err := h.memberships.Create(c.UserContext(), user.ID, req.BranchID, req.Duration, start, req.IsPaid)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(membership)
}

// List GET /v1/memberships (admin)
func (h *MembershipHandler) List(c *fiber.Ctx) error {
	memberships, err := h.memberships.List(c.UserContext(), parseListOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(memberships)
}

// ListByUser GET /v1/memberships/user/:id (admin)
func (h *MembershipHandler) ListByUser(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	memberships, err := h.memberships.ListByUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(memberships)
}

// ListByBranch GET /v1/memberships/branch/:id (admin)
func (h *MembershipHandler) ListByBranch(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	memberships, err := h.memberships.ListByBranch(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(memberships)
}

// Get GET /v1/memberships/:id (admin)
func (h *MembershipHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	membership, err := h.memberships.Get(c.UserContext(), id, "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(membership)
}

// Update PATCH /v1/memberships/:id (admin)
func (h *MembershipHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	var req membershipPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	patch, err := req.toPatch()
	if err != nil {
		return badRequest(c, "start_date must be a future YYYY-MM-DD date")
	}

	membership, err := h.memberships.Update(c.UserContext(), id, "", patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(membership)
}

// Delete DELETE /v1/memberships/:id (admin)
func (h *MembershipHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	if err := h.memberships.Delete(c.UserContext(), id, ""); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Membership deleted"})
}

// --- Member self-service (/v1/memberships/my) ---

// CreateMy POST /v1/memberships/my
func (h *MembershipHandler) CreateMy(c *fiber.Ctx) error {
	var req membershipCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if !hexIDPattern.MatchString(req.BranchID) {
		return badRequest(c, "branch_id must be a 24 character hex string")
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		return badRequest(c, "start_date must be a future YYYY-MM-DD date")
	}

	membership, err := h.memberships.Create(c.UserContext(), middleware.AccountID(c), req.BranchID, req.Duration, start, false)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(membership)
}

// ListMy GET /v1/memberships/my
func (h *MembershipHandler) ListMy(c *fiber.Ctx) error {
	memberships, err := h.memberships.ListByUser(c.UserContext(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(memberships)
}

// GetMy GET /v1/memberships/my/:id
func (h *MembershipHandler) GetMy(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	membership, err := h.memberships.Get(c.UserContext(), id, middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(membership)
}

// UpdateMy PATCH /v1/memberships/my/:id. Members may reschedule an inactive
// contract but cannot flip the payment or activation flags.
func (h *MembershipHandler) UpdateMy(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	var req membershipPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.IsActive = nil
	req.IsPaid = nil
	patch, err := req.toPatch()
	if err != nil {
		return badRequest(c, "start_date must be a future YYYY-MM-DD date")
	}

	membership, err := h.memberships.Update(c.UserContext(), id, middleware.AccountID(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(membership)
}

// DeleteMy DELETE /v1/memberships/my/:id
func (h *MembershipHandler) DeleteMy(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	if err := h.memberships.Delete(c.UserContext(), id, middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Membership deleted"})
}
