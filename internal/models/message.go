package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a chat message. Exactly one of ReceiverID (private chat) or
// CommunityID (community chat) is set. Sender, receiver/community and content
// are immutable once persisted; only IsRead transitions afterwards.
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index:idx_message_created_at" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// ClientID deduplicates resends across transports.
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender;not null" json:"client_id"`

	SenderID    uint       `gorm:"not null;uniqueIndex:idx_client_sender;index" json:"sender_id"`
	Sender      User       `gorm:"foreignKey:SenderID" json:"-"`
	ReceiverID  *uint      `gorm:"index" json:"receiver_id"`  // null for community messages
	CommunityID *uint      `gorm:"index" json:"community_id"` // null for private messages
	Community   *Community `gorm:"foreignKey:CommunityID" json:"-"`

	Content string `gorm:"type:text;not null" json:"content"`
	IsRead  bool   `gorm:"default:false;index" json:"is_read"`
}

// IsCommunity reports whether the message targets a community room.
func (m *Message) IsCommunity() bool {
	return m.CommunityID != nil
}

type MessageResponse struct {
	ID          uint      `json:"id"`
	ClientID    string    `json:"client_id"`
	SenderID    uint      `json:"sender_id"`
	ReceiverID  *uint     `json:"receiver_id,omitempty"`
	CommunityID *uint     `json:"community_id,omitempty"`
	Content     string    `json:"content"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ClientID:    m.ClientID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		CommunityID: m.CommunityID,
		Content:     m.Content,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
