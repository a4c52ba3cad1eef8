package service

import (
	"errors"
	"fmt"

	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/repository"
	"gorm.io/gorm"
)

// CommunityService manages communities and the membership that authorizes
// community chat.
type CommunityService struct {
	communityRepo repository.CommunityRepositoryInterface
	userRepo      repository.UserRepositoryInterface
}

func NewCommunityService(
	communityRepo repository.CommunityRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		userRepo:      userRepo,
	}
}

func (s *CommunityService) CreateCommunity(name, description string, creatorID uint) (*models.Community, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	community := &models.Community{
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
	}
	if err := s.communityRepo.Create(community); err != nil {
		return nil, err
	}

	// Creator joins automatically.
	if err := s.communityRepo.AddMember(community.ID, creatorID); err != nil {
		return nil, err
	}

	return s.communityRepo.FindByID(community.ID)
}

func (s *CommunityService) GetCommunity(id uint) (*models.Community, error) {
	community, err := s.communityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("community %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return community, nil
}

func (s *CommunityService) ListCommunities(limit int) ([]models.Community, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.communityRepo.List(limit)
}

func (s *CommunityService) JoinCommunity(communityID, userID uint) error {
	if _, err := s.GetCommunity(communityID); err != nil {
		return err
	}

	isMember, err := s.communityRepo.IsMember(communityID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return fmt.Errorf("already a member: %w", ErrValidation)
	}

	return s.communityRepo.AddMember(communityID, userID)
}

func (s *CommunityService) LeaveCommunity(communityID, userID uint) error {
	isMember, err := s.communityRepo.IsMember(communityID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return fmt.Errorf("not a member: %w", ErrValidation)
	}

	return s.communityRepo.RemoveMember(communityID, userID)
}

func (s *CommunityService) GetMembers(communityID uint) ([]models.User, error) {
	if _, err := s.GetCommunity(communityID); err != nil {
		return nil, err
	}
	return s.communityRepo.GetMembers(communityID)
}

// IsMember is the live membership check the chat layer runs at room join and
// again at every send.
func (s *CommunityService) IsMember(communityID, userID uint) (bool, error) {
	return s.communityRepo.IsMember(communityID, userID)
}

func (s *CommunityService) GetUserCommunities(userID uint) ([]models.Community, error) {
	return s.communityRepo.GetUserCommunities(userID)
}

func (s *CommunityService) UpdateImage(communityID, userID uint, imageURL string) (*models.Community, error) {
	community, err := s.GetCommunity(communityID)
	if err != nil {
		return nil, err
	}
	if community.CreatorID != userID {
		return nil, fmt.Errorf("community %d: %w", communityID, ErrForbidden)
	}

	community.ImageURL = imageURL
	if err := s.communityRepo.Update(community); err != nil {
		return nil, err
	}
	return community, nil
}
