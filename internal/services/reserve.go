package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agrolink/farm-exchange/internal/authz"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrHarvestNotFound      = errors.New("harvest not found")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrInsufficientQuantity = errors.New("insufficient quantity available")
	ErrBusy                 = errors.New("harvest is locked, retry later")
)

const reserveAttempts = 3

// Reservation is the snapshot handed to the transaction engine after a
// successful check-and-decrement. UnitPrice and SellerID are the values
// observed under the lock.
type Reservation struct {
	HarvestID    uuid.UUID       `json:"harvest_id"`
	HarvestTitle string          `json:"harvest_title"`
	SellerID     uuid.UUID       `json:"seller_id"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     decimal.Decimal `json:"quantity"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// reserveLocked performs the check-and-decrement against a row held under
// SELECT ... FOR UPDATE. The read and the write share one critical section;
// callers must invoke it inside a transaction so a later failure rolls the
// decrement back.
func reserveLocked(tx *gorm.DB, harvests *repository.HarvestRepository, harvestID uuid.UUID, quantity decimal.Decimal) (*models.Harvest, error) {
	if quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}

	harvest, err := harvests.FindByIDForUpdate(tx, harvestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHarvestNotFound
		}
		return nil, err
	}

	if harvest.Status != models.HarvestAvailable || harvest.QuantityAvailable.LessThan(quantity) {
		return nil, ErrInsufficientQuantity
	}

	harvest.QuantityAvailable = harvest.QuantityAvailable.Sub(quantity)
	if harvest.QuantityAvailable.IsZero() {
		harvest.Status = models.HarvestSoldOut
	}

	if err := harvests.UpdateInTx(tx, harvest); err != nil {
		return nil, err
	}

	return harvest, nil
}

// authorizePurchase runs the capability gate ahead of the critical section.
// The availability it observes is advisory; reserveLocked re-checks under
// the lock.
func authorizePurchase(profiles *repository.ProfileRepository, harvests *repository.HarvestRepository, harvestID, buyerID uuid.UUID, quantity decimal.Decimal) error {
	buyer, err := profiles.FindByID(buyerID)
	if err != nil {
		return err
	}
	if buyer == nil {
		return ErrProfileNotFound
	}

	harvest, err := harvests.FindByID(harvestID)
	if err != nil {
		return err
	}
	if harvest == nil {
		return ErrHarvestNotFound
	}

	err = authz.Authorize(buyer, authz.ActionPurchase, authz.Resource{Harvest: harvest, Quantity: quantity})
	if err != nil {
		var denial *authz.Denial
		if errors.As(err, &denial) && denial.Code == authz.CodeInvalidQuantity {
			if quantity.Sign() <= 0 {
				return ErrInvalidQuantity
			}
			return ErrInsufficientQuantity
		}
		return err
	}
	return nil
}

// runSerialized executes fn as a DB transaction under a bounded deadline,
// retrying a few times when the serialization point itself is the failure.
func runSerialized(ctx context.Context, db *gorm.DB, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for attempt := 0; attempt < reserveAttempts; attempt++ {
		err := db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return ErrBusy
		}
		if !isLockContention(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ErrBusy
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
	return ErrBusy
}

func isLockContention(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not obtain lock")
}
