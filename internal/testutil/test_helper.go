package testutil

import (
	"fmt"
	"time"

	"github.com/roamly/roamly-backend/internal/models"
)

// NewTestUser creates a user fixture with sensible defaults.
func NewTestUser(id uint, name string) *models.User {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "testuser"
	}

	return &models.User{
		ID:           id,
		Name:         name,
		Email:        fmt.Sprintf("%s%d@example.com", name, id),
		PasswordHash: "hashed_password_123",
		Location:     "Lisbon",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// NewTestCommunity creates a community fixture.
func NewTestCommunity(id, creatorID uint, name string) *models.Community {
	if id == 0 {
		id = 1
	}
	if creatorID == 0 {
		creatorID = 1
	}
	if name == "" {
		name = "Backpackers"
	}

	return &models.Community{
		ID:        id,
		Name:      name,
		CreatorID: creatorID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// NewTestPrivateMessage creates a private message fixture.
func NewTestPrivateMessage(id, senderID, receiverID uint, content string) *models.Message {
	if content == "" {
		content = "Test message"
	}

	return &models.Message{
		ID:         id,
		ClientID:   fmt.Sprintf("client-%d", id),
		SenderID:   senderID,
		ReceiverID: &receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// NewTestCommunityMessage creates a community message fixture.
func NewTestCommunityMessage(id, senderID, communityID uint, content string) *models.Message {
	if content == "" {
		content = "Test message"
	}

	return &models.Message{
		ID:          id,
		ClientID:    fmt.Sprintf("client-%d", id),
		SenderID:    senderID,
		CommunityID: &communityID,
		Content:     content,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}
