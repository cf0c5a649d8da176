package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account types. It is fixed at sign-up and
// never changes afterwards.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

func (r Role) Valid() bool {
	return r == RoleFarmer || r == RoleBuyer
}

type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string    `gorm:"not null;size:100" json:"full_name"`
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Role      Role      `gorm:"not null;size:16" json:"role"`
	Location  string    `gorm:"size:255" json:"location,omitempty"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	Bio       string    `gorm:"size:1000" json:"bio,omitempty"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Harvests         []Harvest     `gorm:"foreignKey:OwnerID" json:"-"`
	SentMessages     []Message     `gorm:"foreignKey:SenderID" json:"-"`
	ReceivedMessages []Message     `gorm:"foreignKey:RecipientID" json:"-"`
	Purchases        []Transaction `gorm:"foreignKey:BuyerID" json:"-"`
	Sales            []Transaction `gorm:"foreignKey:SellerID" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
