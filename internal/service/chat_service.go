package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roamly/roamly-backend/internal/cache"
	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/realtime"
	"github.com/roamly/roamly-backend/internal/repository"
	"gorm.io/gorm"
)

const DefaultHistoryLimit = 50

// Deliverer pushes a persisted message to connected room members. Implemented
// by the realtime hub; mocked in tests.
type Deliverer interface {
	Deliver(message *models.Message, origin realtime.Endpoint)
}

// ChatService owns the message store operations and the authoritative send
// path. Both transports (HTTP handler and WebSocket event) call SendPrivate /
// SendCommunity, so a message is persisted once and fanned out exactly once.
type ChatService struct {
	messageRepo   repository.MessageRepositoryInterface
	userRepo      repository.UserRepositoryInterface
	communityRepo repository.CommunityRepositoryInterface
	chatCache     *cache.ChatCache
	deliverer     Deliverer
}

func NewChatService(
	messageRepo repository.MessageRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	communityRepo repository.CommunityRepositoryInterface,
	chatCache *cache.ChatCache,
	deliverer Deliverer,
) *ChatService {
	return &ChatService{
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		communityRepo: communityRepo,
		chatCache:     chatCache,
		deliverer:     deliverer,
	}
}

type SendPrivateInput struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
	ClientID   string `json:"client_id"`
}

type SendCommunityInput struct {
	CommunityID uint   `json:"community_id"`
	Content     string `json:"content"`
	ClientID    string `json:"client_id"`
}

// SendPrivate persists a private message and fans it out to the receiver's
// room. origin may be nil (HTTP sends acknowledge via the response body). A
// repeated client_id from the same sender returns the already-persisted
// message without a second delivery.
func (s *ChatService) SendPrivate(senderID uint, input SendPrivateInput, origin realtime.Endpoint) (*models.Message, error) {
	if input.Content == "" {
		return nil, fmt.Errorf("content is required: %w", ErrValidation)
	}
	if input.ReceiverID == 0 {
		return nil, fmt.Errorf("receiver_id is required: %w", ErrValidation)
	}

	if _, err := s.userRepo.FindByID(input.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("receiver %d: %w", input.ReceiverID, ErrNotFound)
		}
		return nil, err
	}

	if existing, ok := s.findByClientID(input.ClientID, senderID); ok {
		return existing, nil
	}

	message := &models.Message{
		ClientID:   clientIDOrNew(input.ClientID),
		SenderID:   senderID,
		ReceiverID: &input.ReceiverID,
		Content:    input.Content,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	_ = s.chatCache.InvalidateConversation(senderID, input.ReceiverID)
	s.deliverer.Deliver(message, origin)

	return message, nil
}

// SendCommunity persists a community message and fans it out to the community
// room. Membership is re-verified on every send; it can change between room
// join and send.
func (s *ChatService) SendCommunity(senderID uint, input SendCommunityInput, origin realtime.Endpoint) (*models.Message, error) {
	if input.Content == "" {
		return nil, fmt.Errorf("content is required: %w", ErrValidation)
	}
	if input.CommunityID == 0 {
		return nil, fmt.Errorf("community_id is required: %w", ErrValidation)
	}

	if _, err := s.communityRepo.FindByID(input.CommunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("community %d: %w", input.CommunityID, ErrNotFound)
		}
		return nil, err
	}

	isMember, err := s.communityRepo.IsMember(input.CommunityID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("not a member of community %d: %w", input.CommunityID, ErrForbidden)
	}

	if existing, ok := s.findByClientID(input.ClientID, senderID); ok {
		return existing, nil
	}

	message := &models.Message{
		ClientID:    clientIDOrNew(input.ClientID),
		SenderID:    senderID,
		CommunityID: &input.CommunityID,
		Content:     input.Content,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	_ = s.chatCache.InvalidateCommunity(input.CommunityID)
	s.deliverer.Deliver(message, origin)

	return message, nil
}

// History returns a chronological page of the private conversation. It has no
// side effects; FetchAndMarkRead is the variant the receiver's history
// endpoint uses.
func (s *ChatService) History(userID, otherUserID uint, limit int, before *time.Time) ([]models.Message, error) {
	limit = clampLimit(limit)

	// Only first pages are cached; cursor pages go to the store.
	if before == nil {
		if cached, ok := s.chatCache.GetConversation(userID, otherUserID); ok {
			if page, ok := cachedPage(cached, limit); ok {
				return page, nil
			}
		}
	}

	messages, err := s.messageRepo.FindConversation(userID, otherUserID, limit, before)
	if err != nil {
		return nil, err
	}
	if before == nil && len(messages) > 0 {
		_ = s.chatCache.SetConversation(userID, otherUserID, messages)
	}
	return messages, nil
}

// FetchAndMarkRead returns the history page and marks the counterpart's
// unread messages to the reader as read, reporting how many rows flipped.
func (s *ChatService) FetchAndMarkRead(readerID, otherUserID uint, limit int, before *time.Time) ([]models.Message, int64, error) {
	messages, err := s.History(readerID, otherUserID, limit, before)
	if err != nil {
		return nil, 0, err
	}

	updated, err := s.MarkConversationRead(readerID, otherUserID)
	if err != nil {
		return nil, 0, err
	}
	if updated > 0 {
		for i := range messages {
			if messages[i].SenderID == otherUserID {
				messages[i].IsRead = true
			}
		}
	}
	return messages, updated, nil
}

func (s *ChatService) CommunityHistory(userID, communityID uint, limit int, before *time.Time) ([]models.Message, error) {
	limit = clampLimit(limit)

	isMember, err := s.communityRepo.IsMember(communityID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("not a member of community %d: %w", communityID, ErrForbidden)
	}

	if before == nil {
		if cached, ok := s.chatCache.GetCommunityConversation(communityID); ok {
			if page, ok := cachedPage(cached, limit); ok {
				return page, nil
			}
		}
	}

	messages, err := s.messageRepo.FindCommunityMessages(communityID, limit, before)
	if err != nil {
		return nil, err
	}
	if before == nil && len(messages) > 0 {
		_ = s.chatCache.SetCommunityConversation(communityID, messages)
	}
	return messages, nil
}

// MarkConversationRead is idempotent: a second consecutive call reports 0.
func (s *ChatService) MarkConversationRead(readerID, peerID uint) (int64, error) {
	updated, err := s.messageRepo.MarkConversationRead(readerID, peerID)
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		_ = s.chatCache.InvalidateConversation(readerID, peerID)
	}
	return updated, nil
}

// MarkCommunityRead requires membership: is_read is shared across readers, so
// a non-member flipping it would hide unread state from actual members.
func (s *ChatService) MarkCommunityRead(readerID, communityID uint) (int64, error) {
	isMember, err := s.communityRepo.IsMember(communityID, readerID)
	if err != nil {
		return 0, err
	}
	if !isMember {
		return 0, fmt.Errorf("not a member of community %d: %w", communityID, ErrForbidden)
	}

	updated, err := s.messageRepo.MarkCommunityRead(readerID, communityID)
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		_ = s.chatCache.InvalidateCommunity(communityID)
	}
	return updated, nil
}

// UnreadCount counts private messages addressed to the user still unread.
// The user's own sent messages never contribute.
func (s *ChatService) UnreadCount(userID uint) (int64, error) {
	if cached, ok := s.chatCache.GetUnreadCount(userID); ok {
		return cached, nil
	}
	count, err := s.messageRepo.CountUnread(userID)
	if err != nil {
		return 0, err
	}
	_ = s.chatCache.SetUnreadCount(userID, count)
	return count, nil
}

func (s *ChatService) CommunityUnreadCount(communityID, userID uint) (int64, error) {
	isMember, err := s.communityRepo.IsMember(communityID, userID)
	if err != nil {
		return 0, err
	}
	if !isMember {
		return 0, fmt.Errorf("not a member of community %d: %w", communityID, ErrForbidden)
	}

	return s.messageRepo.CountCommunityUnread(communityID, userID)
}

// Delete removes a message; only the sender may delete.
func (s *ChatService) Delete(messageID, requesterID uint) (*models.Message, error) {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("message %d: %w", messageID, ErrNotFound)
		}
		return nil, err
	}
	if message.SenderID != requesterID {
		return nil, fmt.Errorf("message %d: %w", messageID, ErrForbidden)
	}

	if err := s.messageRepo.Delete(message); err != nil {
		return nil, err
	}

	if message.IsCommunity() {
		_ = s.chatCache.InvalidateCommunity(*message.CommunityID)
	} else {
		_ = s.chatCache.InvalidateConversation(message.SenderID, *message.ReceiverID)
	}
	return message, nil
}

func (s *ChatService) findByClientID(clientID string, senderID uint) (*models.Message, bool) {
	if clientID == "" {
		return nil, false
	}
	existing, err := s.messageRepo.FindByClientID(clientID, senderID)
	if err != nil {
		return nil, false
	}
	return existing, true
}

func clientIDOrNew(clientID string) string {
	if clientID != "" {
		return clientID
	}
	return uuid.NewString()
}

// cachedPage trims a cached first page to the newest limit messages. A cached
// page shorter than the request cannot prove the conversation has no more
// history, so it is not served and the caller falls through to the store.
func cachedPage(cached []models.Message, limit int) ([]models.Message, bool) {
	if len(cached) < limit {
		return nil, false
	}
	return cached[len(cached)-limit:], true
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > 100 {
		return 100
	}
	return limit
}
