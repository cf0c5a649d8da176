package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a directed note between two profiles, optionally tied to a
// harvest for context. IsRead only ever flips false to true.
type Message struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender      *Profile   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   *Profile   `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	HarvestID   *uuid.UUID `gorm:"type:uuid;index" json:"harvest_id,omitempty"`
	Harvest     *Harvest   `gorm:"foreignKey:HarvestID" json:"harvest,omitempty"`
	Subject     string     `gorm:"not null;size:200" json:"subject"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	IsRead      bool       `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
