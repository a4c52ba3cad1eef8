package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roamly/roamly-backend/internal/httpx"
	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/service"
	"github.com/roamly/roamly-backend/internal/validation"
	"github.com/samber/lo"
)

type CommunityHandler struct {
	communityService *service.CommunityService
}

func NewCommunityHandler(communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

type CreateCommunityRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"max=1000"`
}

func (h *CommunityHandler) CreateCommunity(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var req CreateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if err := validation.Validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "invalid_input", err.Error())
	}

	community, err := h.communityService.CreateCommunity(req.Name, req.Description, userID)
	if err != nil {
		return mapServiceError(c, err, "create_community_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(community.ToResponse())
}

func (h *CommunityHandler) ListCommunities(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	communities, err := h.communityService.ListCommunities(limit)
	if err != nil {
		return mapServiceError(c, err, "list_communities_failed")
	}

	return c.JSON(lo.Map(communities, func(cm models.Community, _ int) models.CommunityResponse {
		return cm.ToResponse()
	}))
}

func (h *CommunityHandler) GetCommunity(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", "Invalid community ID")
	}

	community, err := h.communityService.GetCommunity(id)
	if err != nil {
		return mapServiceError(c, err, "fetch_community_failed")
	}

	return c.JSON(community.ToResponse())
}

func (h *CommunityHandler) GetMyCommunities(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	communities, err := h.communityService.GetUserCommunities(userID)
	if err != nil {
		return mapServiceError(c, err, "list_communities_failed")
	}

	return c.JSON(lo.Map(communities, func(cm models.Community, _ int) models.CommunityResponse {
		return cm.ToResponse()
	}))
}

func (h *CommunityHandler) JoinCommunity(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", "Invalid community ID")
	}

	if err := h.communityService.JoinCommunity(id, userID); err != nil {
		return mapServiceError(c, err, "join_community_failed")
	}

	return c.JSON(fiber.Map{"message": "Joined community successfully"})
}

func (h *CommunityHandler) LeaveCommunity(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", "Invalid community ID")
	}

	if err := h.communityService.LeaveCommunity(id, userID); err != nil {
		return mapServiceError(c, err, "leave_community_failed")
	}

	return c.JSON(fiber.Map{"message": "Left community successfully"})
}

func (h *CommunityHandler) GetMembers(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", "Invalid community ID")
	}

	members, err := h.communityService.GetMembers(id)
	if err != nil {
		return mapServiceError(c, err, "fetch_members_failed")
	}

	return c.JSON(lo.Map(members, func(u models.User, _ int) models.UserResponse {
		return u.ToResponse()
	}))
}
