package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roamly/roamly-backend/internal/httpx"
	"github.com/roamly/roamly-backend/internal/service"
	"github.com/roamly/roamly-backend/internal/validation"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		return mapServiceError(c, err, "fetch_profile_failed")
	}

	return c.JSON(user.ToResponse())
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if err := validation.Validate.Struct(input); err != nil {
		return httpx.BadRequest(c, "invalid_input", err.Error())
	}

	user, err := h.userService.UpdateProfile(userID, input)
	if err != nil {
		return mapServiceError(c, err, "update_profile_failed")
	}

	return c.JSON(user.ToResponse())
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user", "Invalid user ID")
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		return mapServiceError(c, err, "fetch_user_failed")
	}

	return c.JSON(user.ToResponse())
}
