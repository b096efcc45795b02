package handler

import (
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/ashrafosamaa/gym-management-sys/internal/service"
	"github.com/gofiber/fiber/v2"
)

// BranchHandler exposes branch CRUD plus the lifecycle transitions.
type BranchHandler struct {
	branches *service.BranchService
}

func NewBranchHandler(branches *service.BranchService) *BranchHandler {
	return &BranchHandler{branches: branches}
}

// Create POST /v1/branches
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Address     string `json:"address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.Address == "" {
		return badRequest(c, "name and address are required")
	}

	branch, err := h.branches.Create(c.UserContext(), req.Name, req.Description, req.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(branch)
}

// List GET /v1/branches
func (h *BranchHandler) List(c *fiber.Ctx) error {
	branches, err := h.branches.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(branches)
}

// Get GET /v1/branches/:id
func (h *BranchHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	details, err := h.branches.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(details)
}

// Update PATCH /v1/branches/:id
func (h *BranchHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	branch, err := h.branches.Update(c.UserContext(), id, domain.BranchPatch{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(branch)
}

// Delete DELETE /v1/branches/:id
func (h *BranchHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	if err := h.branches.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Branch deleted"})
}
