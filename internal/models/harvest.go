package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type HarvestStatus string

const (
	HarvestAvailable HarvestStatus = "available"
	HarvestSoldOut   HarvestStatus = "sold_out"
)

// Harvest is a sellable lot owned by a farmer. QuantityAvailable and Status
// are mutated only through the reservation path; edits through the listing
// path never touch them.
type Harvest struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner             *Profile        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title             string          `gorm:"not null;size:200" json:"title"`
	Description       string          `gorm:"type:text" json:"description"`
	Category          string          `gorm:"size:100;index" json:"category"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Unit              string          `gorm:"size:50" json:"unit"`
	QuantityAvailable decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity_available"`
	Status            HarvestStatus   `gorm:"not null;size:16;index" json:"status"`
	ImageURL          string          `gorm:"size:500" json:"image_url,omitempty"`
	HarvestDate       *time.Time      `json:"harvest_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (h *Harvest) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
