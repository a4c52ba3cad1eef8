package repository

import (
	"time"

	"github.com/roamly/roamly-backend/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, id).Error
	return &message, err
}

func (r *MessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Where("client_id = ? AND sender_id = ?", clientID, senderID).First(&message).Error
	return &message, err
}

// FindConversation returns the page of private messages between the two users
// in chronological order. Ordering is by created_at with id as tie-break;
// before is an exclusive timestamp cursor for backward pagination.
func (r *MessageRepository) FindConversation(userID, otherUserID uint, limit int, before *time.Time) ([]models.Message, error) {
	q := r.db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, otherUserID, otherUserID, userID,
	)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}

	var messages []models.Message
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	reverse(messages)
	return messages, nil
}

func (r *MessageRepository) FindCommunityMessages(communityID uint, limit int, before *time.Time) ([]models.Message, error) {
	q := r.db.Where("community_id = ?", communityID)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}

	var messages []models.Message
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	reverse(messages)
	return messages, nil
}

// MarkConversationRead flips unread private messages from peerID to readerID.
// Only rows with is_read = false match, so repeated calls report 0 rows.
func (r *MessageRepository) MarkConversationRead(readerID, peerID uint) (int64, error) {
	res := r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", peerID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkCommunityRead flips unread community messages not authored by the reader.
// There is no per-member read cursor; the flag is shared across readers.
func (r *MessageRepository) MarkCommunityRead(readerID, communityID uint) (int64, error) {
	res := r.db.Model(&models.Message{}).
		Where("community_id = ? AND sender_id <> ? AND is_read = ?", communityID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *MessageRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *MessageRepository) CountCommunityUnread(communityID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("community_id = ? AND sender_id <> ? AND is_read = ?", communityID, userID, false).
		Count(&count).Error
	return count, err
}

func (r *MessageRepository) Delete(message *models.Message) error {
	return r.db.Delete(message).Error
}

func reverse(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
