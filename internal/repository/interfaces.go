package repository

import (
	"time"

	"github.com/roamly/roamly-backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
}

// CommunityRepositoryInterface defines the contract for community repository operations
type CommunityRepositoryInterface interface {
	Create(community *models.Community) error
	FindByID(id uint) (*models.Community, error)
	List(limit int) ([]models.Community, error)
	Update(community *models.Community) error
	AddMember(communityID, userID uint) error
	RemoveMember(communityID, userID uint) error
	GetMembers(communityID uint) ([]models.User, error)
	IsMember(communityID, userID uint) (bool, error)
	GetUserCommunities(userID uint) ([]models.Community, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindByClientID(clientID string, senderID uint) (*models.Message, error)
	FindConversation(userID, otherUserID uint, limit int, before *time.Time) ([]models.Message, error)
	FindCommunityMessages(communityID uint, limit int, before *time.Time) ([]models.Message, error)
	MarkConversationRead(readerID, peerID uint) (int64, error)
	MarkCommunityRead(readerID, communityID uint) (int64, error)
	CountUnread(userID uint) (int64, error)
	CountCommunityUnread(communityID, userID uint) (int64, error)
	Delete(message *models.Message) error
}

// TokenBlocklistRepositoryInterface defines the contract for revoked token storage
type TokenBlocklistRepositoryInterface interface {
	Add(jti string, expiresAt time.Time) error
	Contains(jti string) (bool, error)
	DeleteExpired() error
}
