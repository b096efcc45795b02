package handler

import (
	"io"

	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/ashrafosamaa/gym-management-sys/internal/service"
	"github.com/gofiber/fiber/v2"
)

// TrainerHandler exposes the public trainer directory and the admin-side
// trainer lifecycle.
type TrainerHandler struct {
	trainers            *service.TrainerService
	maxUploadBytes      int64
	listEmptyAsNotFound bool
}

func NewTrainerHandler(trainers *service.TrainerService, maxUploadMB int64, listEmptyAsNotFound bool) *TrainerHandler {
	return &TrainerHandler{
		trainers:            trainers,
		maxUploadBytes:      maxUploadMB * 1024 * 1024,
		listEmptyAsNotFound: listEmptyAsNotFound,
	}
}

// Register POST /v1/trainers
func (h *TrainerHandler) Register(c *fiber.Ctx) error {
	var req struct {
		UserName       string  `json:"user_name"`
		Description    string  `json:"description"`
		Experience     int     `json:"experience"`
		BranchID       string  `json:"branch_id"`
		PhoneNumber    string  `json:"phone_number"`
		Gender         string  `json:"gender"`
		Specialization string  `json:"specialization"`
		PricePerMonth  float64 `json:"price_per_month"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserName == "" || req.PhoneNumber == "" {
		return badRequest(c, "user_name and phone_number are required")
	}
	if !hexIDPattern.MatchString(req.BranchID) {
		return badRequest(c, "branch_id must be a 24 character hex string")
	}
	if req.PricePerMonth <= 0 {
		return badRequest(c, "price_per_month must be positive")
	}
	if !validSpecialization(req.Specialization) {
		return badRequest(c, "unknown specialization")
	}

	trainer, err := h.trainers.Register(c.UserContext(), service.RegisterInput{
		UserName:       req.UserName,
		Description:    req.Description,
		Experience:     req.Experience,
		BranchID:       req.BranchID,
		PhoneNumber:    req.PhoneNumber,
		Gender:         req.Gender,
		Specialization: req.Specialization,
		PricePerMonth:  req.PricePerMonth,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(trainer)
}

// List GET /v1/trainers
func (h *TrainerHandler) List(c *fiber.Ctx) error {
	trainers, err := h.trainers.ListActive(c.UserContext(), parseListOptions(c), h.listEmptyAsNotFound)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trainers)
}

// Search GET /v1/trainers/search
func (h *TrainerHandler) Search(c *fiber.Ctx) error {
	trainers, err := h.trainers.Search(c.UserContext(), domain.TrainerSearch{
		UserName:       c.Query("user_name"),
		Specialization: c.Query("specialization"),
		PhoneNumber:    c.Query("phone_number"),
		Experience:     c.QueryInt("experience", 0),
	}, h.listEmptyAsNotFound)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trainers)
}

// Get GET /v1/trainers/:id
func (h *TrainerHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	trainer, err := h.trainers.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trainer)
}

// Update PATCH /v1/trainers/:id
func (h *TrainerHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	var req struct {
		UserName       *string  `json:"user_name"`
		Description    *string  `json:"description"`
		Experience     *int     `json:"experience"`
		BranchID       *string  `json:"branch_id"`
		PhoneNumber    *string  `json:"phone_number"`
		Gender         *string  `json:"gender"`
		Specialization *string  `json:"specialization"`
		PricePerMonth  *float64 `json:"price_per_month"`
		IsActive       *bool    `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.BranchID != nil && !hexIDPattern.MatchString(*req.BranchID) {
		return badRequest(c, "branch_id must be a 24 character hex string")
	}
	if req.PricePerMonth != nil && *req.PricePerMonth <= 0 {
		return badRequest(c, "price_per_month must be positive")
	}
	if req.Specialization != nil && !validSpecialization(*req.Specialization) {
		return badRequest(c, "unknown specialization")
	}

	trainer, err := h.trainers.Update(c.UserContext(), id, domain.TrainerPatch{
		UserName:       req.UserName,
		Description:    req.Description,
		Experience:     req.Experience,
		BranchID:       req.BranchID,
		PhoneNumber:    req.PhoneNumber,
		Gender:         req.Gender,
		Specialization: req.Specialization,
		PricePerMonth:  req.PricePerMonth,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trainer)
}

// UploadImage POST /v1/trainers/:id/image
func (h *TrainerHandler) UploadImage(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	data, contentType, err := readImageUpload(c, h.maxUploadBytes)
	if err != nil {
		return badRequest(c, err.Error())
	}

	trainer, err := h.trainers.UploadImage(c.UserContext(), id, data, contentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trainer)
}

// Delete DELETE /v1/trainers/:id
func (h *TrainerHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be a 24 character hex string")
	}

	if err := h.trainers.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Trainer deleted"})
}

func validSpecialization(s string) bool {
	if s == "" {
		return true
	}
	for _, known := range domain.TrainerSpecializations {
		if s == known {
			return true
		}
	}
	return false
}

// readImageUpload pulls the "image" part out of a multipart form, enforcing
// the configured size cap.
func readImageUpload(c *fiber.Ctx, maxBytes int64) ([]byte, string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}
	if fileHeader.Size > maxBytes {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "image exceeds the upload size limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
