package repository

import (
	"time"

	"github.com/roamly/roamly-backend/internal/models"
	"gorm.io/gorm"
)

type TokenBlocklistRepository struct {
	db *gorm.DB
}

func NewTokenBlocklistRepository(db *gorm.DB) *TokenBlocklistRepository {
	return &TokenBlocklistRepository{db: db}
}

func (r *TokenBlocklistRepository) Add(jti string, expiresAt time.Time) error {
	entry := models.TokenBlocklist{
		JTI:       jti,
		ExpiresAt: expiresAt,
	}
	return r.db.Create(&entry).Error
}

func (r *TokenBlocklistRepository) Contains(jti string) (bool, error) {
	var count int64
	err := r.db.Model(&models.TokenBlocklist{}).
		Where("jti = ? AND expires_at > ?", jti, time.Now()).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired prunes entries whose tokens have expired anyway.
func (r *TokenBlocklistRepository) DeleteExpired() error {
	return r.db.Where("expires_at <= ?", time.Now()).
		Delete(&models.TokenBlocklist{}).Error
}
