package services

import (
	"context"
	"errors"
	"time"

	"github.com/agrolink/farm-exchange/internal/authz"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidState        = errors.New("invalid status transition")
)

// TransactionService drives purchase records through their lifecycle:
// pending at creation, then a single seller-driven move to completed or
// cancelled.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	harvestRepo     *repository.HarvestRepository
	profileRepo     *repository.ProfileRepository
	db              *gorm.DB
	reserveTimeout  time.Duration
}

func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	harvestRepo *repository.HarvestRepository,
	profileRepo *repository.ProfileRepository,
	db *gorm.DB,
	reserveTimeout time.Duration,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		harvestRepo:     harvestRepo,
		profileRepo:     profileRepo,
		db:              db,
		reserveTimeout:  reserveTimeout,
	}
}

// CreateFromReservation reserves quantity and records the purchase as one
// DB transaction, so a failed insert rolls the decrement back and never
// strands inventory. The total price uses the unit price observed under
// the lock; later price edits do not touch existing transactions.
func (s *TransactionService) CreateFromReservation(ctx context.Context, harvestID, buyerID uuid.UUID, quantity decimal.Decimal) (*models.Transaction, error) {
	if err := authorizePurchase(s.profileRepo, s.harvestRepo, harvestID, buyerID, quantity); err != nil {
		return nil, err
	}

	var transaction *models.Transaction
	err := runSerialized(ctx, s.db, s.reserveTimeout, func(tx *gorm.DB) error {
		harvest, err := reserveLocked(tx, s.harvestRepo, harvestID, quantity)
		if err != nil {
			return err
		}

		harvestID := harvest.ID
		transaction = &models.Transaction{
			HarvestID:       &harvestID,
			HarvestTitle:    harvest.Title,
			BuyerID:         buyerID,
			SellerID:        harvest.OwnerID,
			Quantity:        quantity,
			UnitPrice:       harvest.Price,
			TotalPrice:      quantity.Mul(harvest.Price),
			Status:          models.TransactionPending,
			TransactionDate: time.Now().UTC(),
		}
		return s.transactionRepo.Create(tx, transaction)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// UpdateStatus moves a pending transaction to completed or cancelled.
// Only the seller recorded at purchase time may do this; terminal states
// are final. Cancelling does not restock the harvest.
func (s *TransactionService) UpdateStatus(ctx context.Context, transactionID, callerID uuid.UUID, newStatus models.TransactionStatus) (*models.Transaction, error) {
	caller, err := s.profileRepo.FindByID(callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrProfileNotFound
	}

	transaction, err := s.transactionRepo.FindByID(transactionID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}

	if transaction.SellerID == callerID && !models.CanTransition(transaction.Status, newStatus) {
		return nil, ErrInvalidState
	}

	if err := authz.Authorize(caller, authz.ActionTransactionUpdate, authz.Resource{Transaction: transaction}); err != nil {
		return nil, err
	}

	transaction.Status = newStatus
	if err := s.transactionRepo.Update(transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// List returns the caller's side of the ledger: sales for farmers,
// purchases for buyers, newest first.
func (s *TransactionService) List(ctx context.Context, callerID uuid.UUID, statusFilter models.TransactionStatus) ([]models.Transaction, error) {
	caller, err := s.profileRepo.FindByID(callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrProfileNotFound
	}

	if caller.Role == models.RoleFarmer {
		return s.transactionRepo.FindBySeller(callerID, statusFilter)
	}
	return s.transactionRepo.FindByBuyer(callerID, statusFilter)
}

// TransactionStats summarizes the caller's side of the ledger. Revenue
// counts completed transactions only.
type TransactionStats struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Completed int             `json:"completed"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
}

func (s *TransactionService) Stats(ctx context.Context, callerID uuid.UUID) (*TransactionStats, error) {
	transactions, err := s.List(ctx, callerID, "")
	if err != nil {
		return nil, err
	}

	stats := &TransactionStats{Total: len(transactions), Revenue: decimal.Zero}
	for _, t := range transactions {
		switch t.Status {
		case models.TransactionPending:
			stats.Pending++
		case models.TransactionCompleted:
			stats.Completed++
			stats.Revenue = stats.Revenue.Add(t.TotalPrice)
		case models.TransactionCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func (s *TransactionService) Get(ctx context.Context, transactionID, callerID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.FindByID(transactionID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	if transaction.BuyerID != callerID && transaction.SellerID != callerID {
		return nil, ErrTransactionNotFound
	}
	return transaction, nil
}
