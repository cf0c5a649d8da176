package services

import (
	"context"
	"errors"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidRole = errors.New("role must be farmer or buyer")
)

// ProfileService manages marketplace identities. The role is fixed at
// creation; credential handling lives with the out-of-band identity
// provider, not here.
type ProfileService struct {
	profileRepo *repository.ProfileRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

type ProfileInput struct {
	FullName  string
	Email     string
	Role      models.Role
	Location  string
	Phone     string
	Bio       string
	AvatarURL string
}

func (s *ProfileService) CreateProfile(ctx context.Context, input ProfileInput) (*models.Profile, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.profileRepo.FindByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	profile := &models.Profile{
		FullName:  input.FullName,
		Email:     input.Email,
		Role:      input.Role,
		Location:  input.Location,
		Phone:     input.Phone,
		Bio:       input.Bio,
		AvatarURL: input.AvatarURL,
	}

	if err := s.profileRepo.Create(profile); err != nil {
		// Two concurrent creates can both pass the FindByEmail check; the
		// unique index decides the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateContact edits the mutable contact fields. FullName, Email and Role
// stay as created.
func (s *ProfileService) UpdateContact(ctx context.Context, id uuid.UUID, location, phone, bio, avatarURL string) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	profile.Location = location
	profile.Phone = phone
	profile.Bio = bio
	profile.AvatarURL = avatarURL

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) ListByRole(ctx context.Context, role models.Role) ([]models.Profile, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.profileRepo.FindByRole(role)
}
