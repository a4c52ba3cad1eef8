package models

import (
	"time"

	"gorm.io/gorm"
)

type Community struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `json:"image_url"`

	CreatorID uint  `gorm:"not null;index" json:"creator_id"`
	Creator   *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	Members []User `gorm:"many2many:community_members" json:"members,omitempty"`
}

// CommunityMember is the join row for community membership.
type CommunityMember struct {
	CommunityID uint      `gorm:"primaryKey" json:"community_id"`
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommunityResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatorID   uint      `json:"creator_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Community) ToResponse() CommunityResponse {
	return CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatorID:   c.CreatorID,
		MemberCount: len(c.Members),
		CreatedAt:   c.CreatedAt,
	}
}
