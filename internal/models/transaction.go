package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

var validNext = map[TransactionStatus]map[TransactionStatus]bool{
	TransactionPending:   {TransactionCompleted: true, TransactionCancelled: true},
	TransactionCompleted: {},
	TransactionCancelled: {},
}

// CanTransition reports whether a status change is allowed. Completed and
// cancelled are terminal.
func CanTransition(from, to TransactionStatus) bool {
	return validNext[from][to]
}

// Transaction records a purchase. HarvestTitle, UnitPrice and SellerID are
// snapshots taken when the reservation succeeded; later edits to the harvest,
// or its deletion, do not touch them. HarvestID goes nil when the harvest is
// deleted.
type Transaction struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	HarvestID       *uuid.UUID        `gorm:"type:uuid;index" json:"harvest_id,omitempty"`
	Harvest         *Harvest          `gorm:"foreignKey:HarvestID" json:"harvest,omitempty"`
	HarvestTitle    string            `gorm:"not null;size:200" json:"harvest_title"`
	BuyerID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"buyer_id"`
	Buyer           *Profile          `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	SellerID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"seller_id"`
	Seller          *Profile          `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Quantity        decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitPrice       decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice      decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status          TransactionStatus `gorm:"not null;size:16;index" json:"status"`
	TransactionDate time.Time         `gorm:"not null;index" json:"transaction_date"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
