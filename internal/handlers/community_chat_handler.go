package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roamly/roamly-backend/internal/httpx"
	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/service"
	"github.com/roamly/roamly-backend/internal/validation"
	"github.com/samber/lo"
)

// CommunityChatHandler is the request/response adapter for community chat.
type CommunityChatHandler struct {
	chatService      *service.ChatService
	maxContentLength int
}

func NewCommunityChatHandler(chatService *service.ChatService, maxContentLength int) *CommunityChatHandler {
	return &CommunityChatHandler{
		chatService:      chatService,
		maxContentLength: maxContentLength,
	}
}

func (h *CommunityChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.SendCommunityInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Content = validation.TrimAndLimit(input.Content, h.maxContentLength)
	if input.Content == "" {
		return httpx.BadRequest(c, "missing_content", "Content is required")
	}
	if input.CommunityID == 0 {
		return httpx.BadRequest(c, "missing_community", "community_id is required")
	}

	message, err := h.chatService.SendCommunity(userID, input, nil)
	if err != nil {
		return mapServiceError(c, err, "send_message_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

func (h *CommunityChatHandler) GetHistory(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	communityID, err := paramUint(c, "communityId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", "Invalid community ID")
	}

	limit, before, err := pageParams(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_cursor", "Invalid pagination parameters")
	}

	messages, err := h.chatService.CommunityHistory(userID, communityID, limit, before)
	if err != nil {
		return mapServiceError(c, err, "fetch_history_failed")
	}

	return c.JSON(lo.Map(messages, func(m models.Message, _ int) models.MessageResponse {
		return m.ToResponse()
	}))
}

func (h *CommunityChatHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	communityID, err := paramUint(c, "communityId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", "Invalid community ID")
	}

	updated, err := h.chatService.MarkCommunityRead(userID, communityID)
	if err != nil {
		return mapServiceError(c, err, "mark_read_failed")
	}

	return c.JSON(fiber.Map{
		"message":       "Community messages marked as read",
		"updated_count": updated,
	})
}

func (h *CommunityChatHandler) GetUnreadCount(c *fiber.Ctx) error {
	requesterID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	communityID, err := paramUint(c, "communityId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", "Invalid community ID")
	}
	userID, err := paramUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user", "Invalid user ID")
	}
	if requesterID != userID {
		return httpx.Forbidden(c, "not_participant", "Cannot read another user's unread count")
	}

	count, err := h.chatService.CommunityUnreadCount(communityID, userID)
	if err != nil {
		return mapServiceError(c, err, "unread_count_failed")
	}

	return c.JSON(fiber.Map{"unread_count": count})
}

func (h *CommunityChatHandler) DeleteMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	messageID, err := paramUint(c, "messageId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_message", "Invalid message ID")
	}

	message, err := h.chatService.Delete(messageID, userID)
	if err != nil {
		return mapServiceError(c, err, "delete_message_failed")
	}

	return c.JSON(fiber.Map{"message": message.ToResponse()})
}
