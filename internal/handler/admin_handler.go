package handler

import (
	"github.com/ashrafosamaa/gym-management-sys/internal/middleware"
	"github.com/ashrafosamaa/gym-management-sys/internal/service"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the king-scoped admin account management.
type AdminHandler struct {
	admins *service.AdminService
}

func NewAdminHandler(admins *service.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// Create POST /v1/admins
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Username == "" || len(req.Password) < 8 {
		return badRequest(c, "username and a password of at least 8 characters are required")
	}

	admin, err := h.admins.Create(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(admin)
}

// List GET /v1/admins
func (h *AdminHandler) List(c *fiber.Ctx) error {
	admins, err := h.admins.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(admins)
}

// Get GET /v1/admins/:id
func (h *AdminHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	admin, err := h.admins.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(admin)
}

// ChangePassword PATCH /v1/admins/me/password
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
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

	if err := h.admins.ChangePassword(c.UserContext(), middleware.AccountID(c), req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

// Delete DELETE /v1/admins/:id
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	if err := h.admins.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Admin deleted"})
}
