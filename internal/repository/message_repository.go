package repository

import (
	"errors"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").Preload("Recipient").
		First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) Update(message *models.Message) error {
	return r.db.Save(message).Error
}

// FindByProfile returns sent and received messages in one query, newest
// first.
func (r *MessageRepository) FindByProfile(profileID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", profileID, profileID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) CountUnread(profileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", profileID, false).
		Count(&count).Error
	return count, err
}

func (r *MessageRepository) DetachHarvest(tx *gorm.DB, harvestID uuid.UUID) error {
	return tx.Model(&models.Message{}).
		Where("harvest_id = ?", harvestID).
		Update("harvest_id", nil).Error
}
