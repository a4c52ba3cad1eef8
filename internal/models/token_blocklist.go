package models

import "time"

// TokenBlocklist stores the JTI of revoked access tokens until they expire.
// The auth middleware rejects any token whose JTI appears here.
type TokenBlocklist struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	JTI       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"jti"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}
