package repository

import (
	"errors"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HarvestRepository struct {
	db *gorm.DB
}

func NewHarvestRepository(db *gorm.DB) *HarvestRepository {
	return &HarvestRepository{db: db}
}

func (r *HarvestRepository) Create(harvest *models.Harvest) error {
	return r.db.Create(harvest).Error
}

func (r *HarvestRepository) FindByID(id uuid.UUID) (*models.Harvest, error) {
	var harvest models.Harvest
	err := r.db.Preload("Owner").First(&harvest, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &harvest, nil
}

// FindByIDForUpdate takes the row lock that serializes all quantity
// mutations for one harvest. Must be called inside a transaction.
func (r *HarvestRepository) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Harvest, error) {
	var harvest models.Harvest
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&harvest, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &harvest, nil
}

func (r *HarvestRepository) Update(harvest *models.Harvest) error {
	return r.db.Save(harvest).Error
}

func (r *HarvestRepository) UpdateInTx(tx *gorm.DB, harvest *models.Harvest) error {
	return tx.Save(harvest).Error
}

func (r *HarvestRepository) DeleteInTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&models.Harvest{}, "id = ?", id).Error
}

func (r *HarvestRepository) FindByOwner(ownerID uuid.UUID) ([]models.Harvest, error) {
	var harvests []models.Harvest
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&harvests).Error
	return harvests, err
}

// Browse returns available listings with stock left, newest first,
// optionally narrowed by a title/description search term and a category.
func (r *HarvestRepository) Browse(search, category string) ([]models.Harvest, error) {
	var harvests []models.Harvest

	db := r.db.Preload("Owner").
		Where("status = ?", models.HarvestAvailable).
		Where("quantity_available > 0")

	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	if category != "" && category != "all" {
		db = db.Where("category = ?", category)
	}

	err := db.Order("created_at DESC").Find(&harvests).Error
	return harvests, err
}
