package handler

import (
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/ashrafosamaa/gym-management-sys/internal/middleware"
	"github.com/ashrafosamaa/gym-management-sys/internal/service"
	"github.com/gofiber/fiber/v2"
)

// UserHandler exposes admin-side user management and the member /me group.
type UserHandler struct {
	users          *service.UserService
	maxUploadBytes int64
}

func NewUserHandler(users *service.UserService, maxUploadMB int64) *UserHandler {
	return &UserHandler{
		users:          users,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}
}

// List GET /v1/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext(), parseListOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// Search GET /v1/users/search
func (h *UserHandler) Search(c *fiber.Ctx) error {
	users, err := h.users.Search(c.UserContext(), domain.UserSearch{
		FirstName:   c.Query("first_name"),
		LastName:    c.Query("last_name"),
		Email:       c.Query("email"),
		PhoneNumber: c.Query("phone_number"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// Get GET /v1/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

type userPatchRequest struct {
	FirstName    *string  `json:"first_name"`
	LastName     *string  `json:"last_name"`
	PhoneNumber  *string  `json:"phone_number"`
	Gender       *string  `json:"gender"`
	MemberStatus *string  `json:"member_status"`
	Weight       *float64 `json:"weight"`
	Height       *float64 `json:"height"`
}

func (r *userPatchRequest) toPatch() domain.UserPatch {
	return domain.UserPatch{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PhoneNumber:  r.PhoneNumber,
		Gender:       r.Gender,
		MemberStatus: r.MemberStatus,
		Weight:       r.Weight,
		Height:       r.Height,
	}
}

// Update PATCH /v1/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	var req userPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.users.Update(c.UserContext(), id, req.toPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Delete DELETE /v1/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// --- Member self-service (/v1/users/me) ---

// Me GET /v1/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMe PATCH /v1/users/me
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req userPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	// Members cannot promote their own tier.
	req.MemberStatus = nil

	user, err := h.users.Update(c.UserContext(), middleware.AccountID(c), req.toPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// ChangePassword PATCH /v1/users/me/password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.NewPassword) < 8 {
		return badRequest(c, "new password must be at least 8 characters")
	}

	if err := h.users.ChangePassword(c.UserContext(), middleware.AccountID(c), req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

// UploadImage POST /v1/users/me/image
func (h *UserHandler) UploadImage(c *fiber.Ctx) error {
	data, contentType, err := readImageUpload(c, h.maxUploadBytes)
	if err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.users.UploadImage(c.UserContext(), middleware.AccountID(c), data, contentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteMe DELETE /v1/users/me
func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
