package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/roamly/roamly-backend/internal/httpx"
	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/service"
	"github.com/roamly/roamly-backend/internal/validation"
	"github.com/samber/lo"
)

// ChatHandler is the request/response adapter for private chat. Sends go
// through the same service path as WebSocket sends; the 201 body is the
// sender's acknowledgment.
type ChatHandler struct {
	chatService      *service.ChatService
	maxContentLength int
}

func NewChatHandler(chatService *service.ChatService, maxContentLength int) *ChatHandler {
	return &ChatHandler{
		chatService:      chatService,
		maxContentLength: maxContentLength,
	}
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.SendPrivateInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Content = validation.TrimAndLimit(input.Content, h.maxContentLength)
	if input.Content == "" {
		return httpx.BadRequest(c, "missing_content", "Content is required")
	}
	if input.ReceiverID == 0 {
		return httpx.BadRequest(c, "missing_receiver", "receiver_id is required")
	}

	message, err := h.chatService.SendPrivate(userID, input, nil)
	if err != nil {
		return mapServiceError(c, err, "send_message_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

// GetHistory returns the conversation page in chronological order. When the
// caller is the reader in the path, unread messages from the counterpart are
// marked read as part of the fetch.
func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	requesterID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	userID, err := paramUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user", "Invalid user ID")
	}
	otherUserID, err := paramUint(c, "otherUserId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user", "Invalid user ID")
	}
	if requesterID != userID {
		return httpx.Forbidden(c, "not_participant", "Cannot read another user's conversation")
	}

	limit, before, err := pageParams(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_cursor", "Invalid pagination parameters")
	}

	messages, _, err := h.chatService.FetchAndMarkRead(userID, otherUserID, limit, before)
	if err != nil {
		return mapServiceError(c, err, "fetch_history_failed")
	}

	return c.JSON(lo.Map(messages, func(m models.Message, _ int) models.MessageResponse {
		return m.ToResponse()
	}))
}

func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	requesterID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	userID, err := paramUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user", "Invalid user ID")
	}
	otherUserID, err := paramUint(c, "otherUserId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user", "Invalid user ID")
	}
	if requesterID != userID {
		return httpx.Forbidden(c, "not_participant", "Cannot mark another user's messages")
	}

	updated, err := h.chatService.MarkConversationRead(userID, otherUserID)
	if err != nil {
		return mapServiceError(c, err, "mark_read_failed")
	}

	return c.JSON(fiber.Map{
		"message":       "Messages marked as read",
		"updated_count": updated,
	})
}

func (h *ChatHandler) GetUnreadCount(c *fiber.Ctx) error {
	requesterID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	userID, err := paramUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user", "Invalid user ID")
	}
	if requesterID != userID {
		return httpx.Forbidden(c, "not_participant", "Cannot read another user's unread count")
	}

	count, err := h.chatService.UnreadCount(userID)
	if err != nil {
		return mapServiceError(c, err, "unread_count_failed")
	}

	return c.JSON(fiber.Map{"unread_count": count})
}

func (h *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
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

func paramUint(c *fiber.Ctx, key string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(key), 10, 32)
	if err != nil || v == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(v), nil
}

func pageParams(c *fiber.Ctx) (int, *time.Time, error) {
	limit := service.DefaultHistoryLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			return 0, nil, errors.New("invalid limit")
		}
		limit = l
	}

	var before *time.Time
	if beforeStr := c.Query("before"); beforeStr != "" {
		t, err := time.Parse(time.RFC3339, beforeStr)
		if err != nil {
			return 0, nil, errors.New("invalid before cursor")
		}
		before = &t
	}
	return limit, before, nil
}

// mapServiceError translates the service error taxonomy to the HTTP envelope.
func mapServiceError(c *fiber.Ctx, err error, internalCode string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return httpx.BadRequest(c, "invalid_request", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return httpx.NotFound(c, "not_found", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return httpx.Forbidden(c, "forbidden", err.Error())
	default:
		return httpx.Internal(c, internalCode)
	}
}
