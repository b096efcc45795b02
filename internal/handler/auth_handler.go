package handler

import (
	"github.com/ashrafosamaa/gym-management-sys/internal/service"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes the sign-in and signup endpoints for all account kinds.
type AuthHandler struct {
	admins   *service.AdminService
	users    *service.UserService
	trainers *service.TrainerService
	tokens   *service.TokenService
}

func NewAuthHandler(admins *service.AdminService, users *service.UserService, trainers *service.TrainerService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{
		admins:   admins,
		users:    users,
		trainers: trainers,
		tokens:   tokens,
	}
}

// AdminLogin POST /v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}

	token, err := h.admins.SignIn(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(token)
}

// UserSignUp POST /v1/auth/user/signup
func (h *AuthHandler) UserSignUp(c *fiber.Ctx) error {
	var req struct {
		FirstName   string  `json:"first_name"`
		LastName    string  `json:"last_name"`
		Email       string  `json:"email"`
		PhoneNumber string  `json:"phone_number"`
		Password    string  `json:"password"`
		Gender      string  `json:"gender"`
		Weight      float64 `json:"weight"`
		Height      float64 `json:"height"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.PhoneNumber == "" {
		return badRequest(c, "first_name, email, phone_number and password are required")
	}

	user, err := h.users.SignUp(c.UserContext(), service.SignUpInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Gender:      req.Gender,
		Weight:      req.Weight,
		Height:      req.Height,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created. Check your email for the activation code.",
		"user":    user,
	})
}

// UserConfirm POST /v1/auth/user/confirm
func (h *AuthHandler) UserConfirm(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return badRequest(c, "email and code are required")
	}

	if err := h.users.Confirm(c.UserContext(), req.Email, req.Code); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account activated"})
}

// UserLogin POST /v1/auth/user/login
func (h *AuthHandler) UserLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email and password are required")
	}

	token, err := h.users.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(token)
}

// TrainerFirstLogin POST /v1/auth/trainer/first-login
func (h *AuthHandler) TrainerFirstLogin(c *fiber.Ctx) error {
	var req struct {
		UserName       string `json:"user_name"`
		OneUsePassword string `json:"one_use_password"`
		NewPassword    string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserName == "" || req.OneUsePassword == "" || req.NewPassword == "" {
		return badRequest(c, "user_name, one_use_password and new_password are required")
	}

	token, err := h.trainers.FirstLogin(c.UserContext(), req.UserName, req.OneUsePassword, req.NewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(token)
}

// TrainerLogin POST /v1/auth/trainer/login
func (h *AuthHandler) TrainerLogin(c *fiber.Ctx) error {
	var req struct {
		UserName string `json:"user_name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserName == "" || req.Password == "" {
		return badRequest(c, "user_name and password are required")
	}

	token, err := h.trainers.SignIn(c.UserContext(), req.UserName, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(token)
}

// Refresh POST /v1/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	token, err := h.tokens.Refresh(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired refresh token",
		})
	}
	return c.JSON(token)
}
