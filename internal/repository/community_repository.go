package repository

import (
	"github.com/roamly/roamly-backend/internal/models"
	"gorm.io/gorm"
)

type CommunityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

func (r *CommunityRepository) Create(community *models.Community) error {
	return r.db.Create(community).Error
}

func (r *CommunityRepository) FindByID(id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.Preload("Members").Preload("Creator").First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *CommunityRepository) List(limit int) ([]models.Community, error) {
	var communities []models.Community
	err := r.db.Preload("Creator").Limit(limit).Order("created_at DESC").Find(&communities).Error
	return communities, err
}

func (r *CommunityRepository) Update(community *models.Community) error {
	return r.db.Save(community).Error
}

func (r *CommunityRepository) AddMember(communityID, userID uint) error {
	member := models.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
	}
	return r.db.Create(&member).Error
}

func (r *CommunityRepository) RemoveMember(communityID, userID uint) error {
	return r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{}).Error
}

func (r *CommunityRepository) GetMembers(communityID uint) ([]models.User, error) {
	var members []models.User
	err := r.db.Joins("JOIN community_members ON community_members.user_id = users.id").
		Where("community_members.community_id = ?", communityID).
		Find(&members).Error
	return members, err
}

func (r *CommunityRepository) IsMember(communityID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CommunityRepository) GetUserCommunities(userID uint) ([]models.Community, error) {
	var communities []models.Community
	err := r.db.Joins("JOIN community_members ON community_members.community_id = communities.id").
		Where("community_members.user_id = ?", userID).
		Preload("Creator").
		Find(&communities).Error
	return communities, err
}
