package repository

import (
	"errors"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepository) FindByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("email = ?", email).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *ProfileRepository) FindByRole(role models.Role) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Where("role = ?", role).Order("full_name ASC").Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepository) FindAll() ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}
