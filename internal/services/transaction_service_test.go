package services

import (
	"context"
	"testing"
	"time"

	"github.com/agrolink/farm-exchange/internal/authz"
	"github.com/agrolink/farm-exchange/internal/database"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTransactionTest(t *testing.T) (*repository.ProfileRepository, *repository.HarvestRepository, *ListingService, *TransactionService) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	profileRepo := repository.NewProfileRepository(db)
	harvestRepo := repository.NewHarvestRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	listingService := NewListingService(harvestRepo, profileRepo, transactionRepo, messageRepo, db, 5*time.Second)
	transactionService := NewTransactionService(transactionRepo, harvestRepo, profileRepo, db, 5*time.Second)

	return profileRepo, harvestRepo, listingService, transactionService
}

func TestTransactionService_CreateFromReservation(t *testing.T) {
	profileRepo, harvestRepo, listingService, transactionService := setupTransactionTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyerA := createBuyer(t, profileRepo, "alice@example.com")
	buyerB := createBuyer(t, profileRepo, "bob@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)

	// Alice buys 4 of 10 at 2.00: pending transaction for 8.00, 6 remain.
	transaction, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyerA.ID, decimal.RequireFromString("4"))
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionPending, transaction.Status)
	assert.Equal(t, buyerA.ID, transaction.BuyerID)
	assert.Equal(t, farmer.ID, transaction.SellerID)
	assert.Equal(t, "Carrots", transaction.HarvestTitle)
	assert.True(t, transaction.UnitPrice.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, transaction.TotalPrice.Equal(decimal.RequireFromString("8.00")))
	require.NotNil(t, transaction.HarvestID)
	assert.Equal(t, harvest.ID, *transaction.HarvestID)

	stored, err := harvestRepo.FindByID(harvest.ID)
	require.NoError(t, err)
	assert.True(t, stored.QuantityAvailable.Equal(decimal.RequireFromString("6")))

	// Bob wants 7 but only 6 remain; nothing is decremented.
	_, err = transactionService.CreateFromReservation(context.Background(), harvest.ID, buyerB.ID, decimal.RequireFromString("7"))
	assert.ErrorIs(t, err, ErrInsufficientQuantity)

	stored, err = harvestRepo.FindByID(harvest.ID)
	require.NoError(t, err)
	assert.True(t, stored.QuantityAvailable.Equal(decimal.RequireFromString("6")))
}

func TestTransactionService_CreateFromReservation_PriceSnapshot(t *testing.T) {
	profileRepo, _, listingService, transactionService := setupTransactionTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)

	transaction, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("2"))
	require.NoError(t, err)

	// A later price edit leaves the recorded totals alone.
	input := listingInput("9.99", "10")
	_, err = listingService.UpdateListing(context.Background(), harvest.ID, farmer.ID, input)
	require.NoError(t, err)

	stored, err := transactionService.Get(context.Background(), transaction.ID, buyer.ID)
	require.NoError(t, err)
	assert.True(t, stored.UnitPrice.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, stored.TotalPrice.Equal(decimal.RequireFromString("4.00")))
}

func TestTransactionService_UpdateStatus(t *testing.T) {
	profileRepo, harvestRepo, listingService, transactionService := setupTransactionTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)

	transaction, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("4"))
	require.NoError(t, err)

	// The buyer cannot drive the lifecycle.
	_, err = transactionService.UpdateStatus(context.Background(), transaction.ID, buyer.ID, models.TransactionCompleted)
	var denial *authz.Denial
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.CodeNotSeller, denial.Code)

	updated, err := transactionService.UpdateStatus(context.Background(), transaction.ID, farmer.ID, models.TransactionCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionCompleted, updated.Status)

	// Terminal states are final for the seller.
	_, err = transactionService.UpdateStatus(context.Background(), transaction.ID, farmer.ID, models.TransactionCancelled)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Cancelling never restocks, so completing a different transaction
	// leaves the ledger where the reservations put it.
	stored, err := harvestRepo.FindByID(harvest.ID)
	require.NoError(t, err)
	assert.True(t, stored.QuantityAvailable.Equal(decimal.RequireFromString("6")))
}

func TestTransactionService_UpdateStatus_CancelDoesNotRestock(t *testing.T) {
	profileRepo, harvestRepo, listingService, transactionService := setupTransactionTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)

	transaction, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("4"))
	require.NoError(t, err)

	_, err = transactionService.UpdateStatus(context.Background(), transaction.ID, farmer.ID, models.TransactionCancelled)
	assert.NoError(t, err)

	stored, err := harvestRepo.FindByID(harvest.ID)
	require.NoError(t, err)
	assert.True(t, stored.QuantityAvailable.Equal(decimal.RequireFromString("6")))
}

func TestTransactionService_UpdateStatus_RejectsInvalidTargets(t *testing.T) {
	profileRepo, _, listingService, transactionService := setupTransactionTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)

	transaction, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("1"))
	require.NoError(t, err)

	_, err = transactionService.UpdateStatus(context.Background(), transaction.ID, farmer.ID, models.TransactionPending)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Targets outside the status set are rejected the same way.
	_, err = transactionService.UpdateStatus(context.Background(), transaction.ID, farmer.ID, models.TransactionStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidState)

	// Nothing above changed the row.
	stored, err := transactionService.Get(context.Background(), transaction.ID, farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionPending, stored.Status)
}

func TestTransactionService_List(t *testing.T) {
	profileRepo, _, listingService, transactionService := setupTransactionTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")
	otherBuyer := createBuyer(t, profileRepo, "other@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)

	first, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("2"))
	require.NoError(t, err)
	second, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, otherBuyer.ID, decimal.RequireFromString("3"))
	require.NoError(t, err)

	_, err = transactionService.UpdateStatus(context.Background(), first.ID, farmer.ID, models.TransactionCompleted)
	require.NoError(t, err)

	// The farmer sees both sales; each buyer sees only their own purchase.
	sales, err := transactionService.List(context.Background(), farmer.ID, "")
	assert.NoError(t, err)
	assert.Len(t, sales, 2)

	purchases, err := transactionService.List(context.Background(), buyer.ID, "")
	assert.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, first.ID, purchases[0].ID)

	pending, err := transactionService.List(context.Background(), farmer.ID, models.TransactionPending)
	assert.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestTransactionService_Stats(t *testing.T) {
	profileRepo, _, listingService, transactionService := setupTransactionTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "20"))
	require.NoError(t, err)

	completed, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("5"))
	require.NoError(t, err)
	cancelled, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("3"))
	require.NoError(t, err)
	_, err = transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("2"))
	require.NoError(t, err)

	_, err = transactionService.UpdateStatus(context.Background(), completed.ID, farmer.ID, models.TransactionCompleted)
	require.NoError(t, err)
	_, err = transactionService.UpdateStatus(context.Background(), cancelled.ID, farmer.ID, models.TransactionCancelled)
	require.NoError(t, err)

	stats, err := transactionService.Stats(context.Background(), farmer.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Cancelled)
	// Revenue only counts completed sales.
	assert.True(t, stats.Revenue.Equal(decimal.RequireFromString("10.00")))
}

func TestTransactionService_Get_ParticipantsOnly(t *testing.T) {
	profileRepo, _, listingService, transactionService := setupTransactionTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")
	stranger := createBuyer(t, profileRepo, "stranger@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)

	transaction, err := transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("2"))
	require.NoError(t, err)

	got, err := transactionService.Get(context.Background(), transaction.ID, farmer.ID)
	assert.NoError(t, err)
	assert.Equal(t, transaction.ID, got.ID)

	// Outsiders cannot tell the transaction exists.
	_, err = transactionService.Get(context.Background(), transaction.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
