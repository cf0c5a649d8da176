package services

import (
	"context"
	"time"

	"github.com/agrolink/farm-exchange/internal/authz"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListingService is the inventory ledger: the only write path for harvest
// records, and the sole owner of the quantity/status pair.
type ListingService struct {
	harvestRepo     *repository.HarvestRepository
	profileRepo     *repository.ProfileRepository
	transactionRepo *repository.TransactionRepository
	messageRepo     *repository.MessageRepository
	db              *gorm.DB
	reserveTimeout  time.Duration
}

func NewListingService(
	harvestRepo *repository.HarvestRepository,
	profileRepo *repository.ProfileRepository,
	transactionRepo *repository.TransactionRepository,
	messageRepo *repository.MessageRepository,
	db *gorm.DB,
	reserveTimeout time.Duration,
) *ListingService {
	return &ListingService{
		harvestRepo:     harvestRepo,
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
		messageRepo:     messageRepo,
		db:              db,
		reserveTimeout:  reserveTimeout,
	}
}

// ListingInput carries the fields a farmer controls. Quantity is only
// honored at creation; afterwards the reservation path owns it.
type ListingInput struct {
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
	Unit        string
	Quantity    decimal.Decimal
	ImageURL    string
	HarvestDate *time.Time
}

func (s *ListingService) CreateListing(ctx context.Context, ownerID uuid.UUID, input ListingInput) (*models.Harvest, error) {
	owner, err := s.profileRepo.FindByID(ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrProfileNotFound
	}

	if err := authz.Authorize(owner, authz.ActionListingCreate, authz.Resource{}); err != nil {
		return nil, err
	}

	if input.Price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.Quantity.Sign() < 0 {
		return nil, ErrInvalidQuantity
	}

	status := models.HarvestAvailable
	if input.Quantity.IsZero() {
		status = models.HarvestSoldOut
	}

	harvest := &models.Harvest{
		OwnerID:           ownerID,
		Title:             input.Title,
		Description:       input.Description,
		Category:          input.Category,
		Price:             input.Price,
		Unit:              input.Unit,
		QuantityAvailable: input.Quantity,
		Status:            status,
		ImageURL:          input.ImageURL,
		HarvestDate:       input.HarvestDate,
	}

	if err := s.harvestRepo.Create(harvest); err != nil {
		return nil, err
	}
	return harvest, nil
}

// UpdateListing mutates the editable fields. QuantityAvailable and Status
// never change through this path.
func (s *ListingService) UpdateListing(ctx context.Context, harvestID, callerID uuid.UUID, input ListingInput) (*models.Harvest, error) {
	caller, err := s.profileRepo.FindByID(callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrProfileNotFound
	}

	harvest, err := s.harvestRepo.FindByID(harvestID)
	if err != nil {
		return nil, err
	}
	if harvest == nil {
		return nil, ErrHarvestNotFound
	}

	if err := authz.Authorize(caller, authz.ActionListingEdit, authz.Resource{Harvest: harvest}); err != nil {
		return nil, err
	}

	if input.Price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}

	harvest.Title = input.Title
	harvest.Description = input.Description
	harvest.Category = input.Category
	harvest.Price = input.Price
	harvest.Unit = input.Unit
	harvest.ImageURL = input.ImageURL
	harvest.HarvestDate = input.HarvestDate

	if err := s.harvestRepo.Update(harvest); err != nil {
		return nil, err
	}
	return harvest, nil
}

// DeleteListing removes a harvest. Dependent transactions and messages
// keep their snapshot fields and lose only the harvest reference, in the
// same transaction as the delete.
func (s *ListingService) DeleteListing(ctx context.Context, harvestID, callerID uuid.UUID) error {
	caller, err := s.profileRepo.FindByID(callerID)
	if err != nil {
		return err
	}
	if caller == nil {
		return ErrProfileNotFound
	}

	harvest, err := s.harvestRepo.FindByID(harvestID)
	if err != nil {
		return err
	}
	if harvest == nil {
		return ErrHarvestNotFound
	}

	if err := authz.Authorize(caller, authz.ActionListingDelete, authz.Resource{Harvest: harvest}); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.DetachHarvest(tx, harvestID); err != nil {
			return err
		}
		if err := s.messageRepo.DetachHarvest(tx, harvestID); err != nil {
			return err
		}
		return s.harvestRepo.DeleteInTx(tx, harvestID)
	})
}

// Reserve atomically checks and decrements a harvest's available quantity
// on behalf of a buyer. Reservations against one harvest are fully
// serialized by the row lock; different harvests do not contend.
func (s *ListingService) Reserve(ctx context.Context, harvestID, buyerID uuid.UUID, quantity decimal.Decimal) (*Reservation, error) {
	if err := authorizePurchase(s.profileRepo, s.harvestRepo, harvestID, buyerID, quantity); err != nil {
		return nil, err
	}

	var reservation *Reservation
	err := runSerialized(ctx, s.db, s.reserveTimeout, func(tx *gorm.DB) error {
		harvest, err := reserveLocked(tx, s.harvestRepo, harvestID, quantity)
		if err != nil {
			return err
		}
		reservation = &Reservation{
			HarvestID:    harvest.ID,
			HarvestTitle: harvest.Title,
			SellerID:     harvest.OwnerID,
			UnitPrice:    harvest.Price,
			Quantity:     quantity,
			Remaining:    harvest.QuantityAvailable,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *ListingService) GetListing(ctx context.Context, harvestID uuid.UUID) (*models.Harvest, error) {
	harvest, err := s.harvestRepo.FindByID(harvestID)
	if err != nil {
		return nil, err
	}
	if harvest == nil {
		return nil, ErrHarvestNotFound
	}
	return harvest, nil
}

func (s *ListingService) Browse(ctx context.Context, search, category string) ([]models.Harvest, error) {
	return s.harvestRepo.Browse(search, category)
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Harvest, error) {
	return s.harvestRepo.FindByOwner(ownerID)
}
