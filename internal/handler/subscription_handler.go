package handler

import (
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/ashrafosamaa/gym-management-sys/internal/middleware"
	"github.com/ashrafosamaa/gym-management-sys/internal/service"
	"github.com/gofiber/fiber/v2"
)

// SubscriptionHandler exposes the admin subscription group, the member /my
// group and the one-shot rating endpoint.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
	userRepo      domain.UserRepository
}

func NewSubscriptionHandler(subscriptions *service.SubscriptionService, userRepo domain.UserRepository) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		userRepo:      userRepo,
	}
}

type subscriptionCreateRequest struct {
	TrainerID string `json:"trainer_id"`
	Duration  int    `json:"duration"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

type subscriptionPatchRequest struct {
	Duration  *int    `json:"duration"`
	StartDate *string `json:"start_date"`
	IsActive  *bool   `json:"is_active"`
	IsPaid    *bool   `json:"is_paid"`
}

func (r *subscriptionPatchRequest) toPatch() (domain.SubscriptionPatch, error) {
	patch := domain.SubscriptionPatch{
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

// Create POST /v1/subscriptions (admin, member addressed by phone)
func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var req struct {
		subscriptionCreateRequest
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.PhoneNumber == "" {
		return badRequest(c, "phone_number is required")
	}
	if !hexIDPattern.MatchString(req.TrainerID) {
		return badRequest(c, "trainer_id must be a 24 character hex string")
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		return badRequest(c, "start_date must be a future YYYY-MM-DD date")
	}

	user, err := h.userRepo.GetByPhone(c.UserContext(), req.PhoneNumber)
	if err != nil {
		return respondError(c, err)
	}

	sub, err := h.subscriptions.Create(c.UserContext(), user.ID, req.TrainerID, req.Duration, start)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// List GET /v1/subscriptions (admin)
func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	subs, err := h.subscriptions.List(c.UserContext(), parseListOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}

// ListByTrainer GET /v1/subscriptions/trainer/:id (admin)
func (h *SubscriptionHandler) ListByTrainer(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	subs, err := h.subscriptions.ListByTrainer(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}

// ListByUser GET /v1/subscriptions/user/:id (admin)
func (h *SubscriptionHandler) ListByUser(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	subs, err := h.subscriptions.ListByUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}

// ListByBranch GET /v1/subscriptions/branch/:id (admin)
func (h *SubscriptionHandler) ListByBranch(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	subs, err := h.subscriptions.ListByBranch(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}

// Get GET /v1/subscriptions/:id (admin)
func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	sub, err := h.subscriptions.Get(c.UserContext(), id, "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sub)
}

// Update PATCH /v1/subscriptions/:id (admin)
func (h *SubscriptionHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	var req subscriptionPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	patch, err := req.toPatch()
	if err != nil {
		return badRequest(c, "start_date must be a future YYYY-MM-DD date")
	}

	sub, err := h.subscriptions.Update(c.UserContext(), id, "", patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sub)
}

// Delete DELETE /v1/subscriptions/:id (admin)
func (h *SubscriptionHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	if err := h.subscriptions.Delete(c.UserContext(), id, ""); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subscription deleted"})
}

// --- Member self-service (/v1/subscriptions/my) ---

// CreateMy POST /v1/subscriptions/my
func (h *SubscriptionHandler) CreateMy(c *fiber.Ctx) error {
	var req subscriptionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if !hexIDPattern.MatchString(req.TrainerID) {
		return badRequest(c, "trainer_id must be a 24 character hex string")
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		return badRequest(c, "start_date must be a future YYYY-MM-DD date")
	}

	sub, err := h.subscriptions.Create(c.UserContext(), middleware.AccountID(c), req.TrainerID, req.Duration, start)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// ListMy GET /v1/subscriptions/my
func (h *SubscriptionHandler) ListMy(c *fiber.Ctx) error {
	subs, err := h.subscriptions.ListByUser(c.UserContext(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}

// GetMy GET /v1/subscriptions/my/:id
func (h *SubscriptionHandler) GetMy(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	sub, err := h.subscriptions.Get(c.UserContext(), id, middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sub)
}

// UpdateMy PATCH /v1/subscriptions/my/:id
func (h *SubscriptionHandler) UpdateMy(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	var req subscriptionPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.IsActive = nil
	req.IsPaid = nil
	patch, err := req.toPatch()
	if err != nil {
		return badRequest(c, "start_date must be a future YYYY-MM-DD date")
	}

	sub, err := h.subscriptions.Update(c.UserContext(), id, middleware.AccountID(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sub)
}

// DeleteMy DELETE /v1/subscriptions/my/:id
func (h *SubscriptionHandler) DeleteMy(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	if err := h.subscriptions.Delete(c.UserContext(), id, middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subscription deleted"})
}

// Rate POST /v1/subscriptions/:id/rate. One rating and comment per
// subscription, folded into the trainer's average.
func (h *SubscriptionHandler) Rate(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	var req struct {
		Rate    float64 `json:"rate"`
		Comment string  `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Comment == "" {
		return badRequest(c, "comment is required")
	}

	sub, err := h.subscriptions.Rate(c.UserContext(), id, middleware.AccountID(c), req.Rate, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sub)
}
