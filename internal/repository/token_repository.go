package repository

import (
	"errors"
	"time"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(token *models.AuthToken) error {
	return r.db.Create(token).Error
}

func (r *TokenRepository) FindByToken(tokenStr string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.Where("token = ? AND expires_at > ?", tokenStr, time.Now()).
		Preload("Profile").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepository) FindByProfileID(profileID uuid.UUID) ([]models.AuthToken, error) {
	var tokens []models.AuthToken
	err := r.db.Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

func (r *TokenRepository) Delete(id, profileID uuid.UUID) error {
	return r.db.Where("id = ? AND profile_id = ?", id, profileID).
		Delete(&models.AuthToken{}).Error
}

func (r *TokenRepository) DeleteExpired() error {
	return r.db.Where("expires_at < ?", time.Now()).Delete(&models.AuthToken{}).Error
}
