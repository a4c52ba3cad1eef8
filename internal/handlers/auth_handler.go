package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roamly/roamly-backend/internal/httpx"
	"github.com/roamly/roamly-backend/internal/service"
	"github.com/roamly/roamly-backend/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if err := validation.Validate.Struct(input); err != nil {
		return httpx.BadRequest(c, "invalid_input", err.Error())
	}

	result, err := h.authService.Register(input)
	if err != nil {
		return httpx.BadRequest(c, "register_failed", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if err := validation.Validate.Struct(input); err != nil {
		return httpx.BadRequest(c, "invalid_input", err.Error())
	}

	result, err := h.authService.Login(input)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_credentials", "Invalid credentials")
	}

	return c.JSON(result)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := c.Locals("token").(string)
	if !ok || token == "" {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if err := h.authService.Logout(token); err != nil {
		return httpx.BadRequest(c, "logout_failed", err.Error())
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
