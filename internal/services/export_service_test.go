package services

import (
	"context"
	"testing"
	"time"

	"github.com/agrolink/farm-exchange/internal/database"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExportTest(t *testing.T) (*repository.ProfileRepository, *ListingService, *TransactionService, *ExportService) {
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
	exportService := NewExportService(profileRepo, transactionRepo, "test-signing-key")

	return profileRepo, listingService, transactionService, exportService
}

func TestExportService_ExportAndVerify(t *testing.T) {
	profileRepo, listingService, transactionService, exportService := setupExportTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)
	_, err = transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("4"))
	require.NoError(t, err)

	export, err := exportService.ExportTransactions(farmer.ID)
	assert.NoError(t, err)
	assert.Equal(t, farmer.ID, export.ProfileID)
	assert.Equal(t, models.RoleFarmer, export.Role)
	require.Len(t, export.Transactions, 1)
	assert.True(t, export.Transactions[0].TotalPrice.Equal(decimal.RequireFromString("8.00")))
	assert.NotEmpty(t, export.Signature)

	assert.NoError(t, exportService.VerifyExport(export))
}

func TestExportService_VerifyExport_Tampered(t *testing.T) {
	profileRepo, listingService, transactionService, exportService := setupExportTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)
	_, err = transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("4"))
	require.NoError(t, err)

	export, err := exportService.ExportTransactions(farmer.ID)
	require.NoError(t, err)

	export.Transactions[0].TotalPrice = decimal.RequireFromString("800.00")
	assert.ErrorIs(t, exportService.VerifyExport(export), ErrInvalidSignature)
}

func TestExportService_VerifyExport_WrongKey(t *testing.T) {
	profileRepo, listingService, transactionService, exportService := setupExportTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	harvest, err := listingService.CreateListing(context.Background(), farmer.ID, listingInput("2.00", "10"))
	require.NoError(t, err)
	_, err = transactionService.CreateFromReservation(context.Background(), harvest.ID, buyer.ID, decimal.RequireFromString("4"))
	require.NoError(t, err)

	export, err := exportService.ExportTransactions(farmer.ID)
	require.NoError(t, err)

	other := NewExportService(profileRepo, nil, "another-key")
	assert.ErrorIs(t, other.VerifyExport(export), ErrInvalidSignature)
}

func TestExportService_VerifyExport_Nil(t *testing.T) {
	_, _, _, exportService := setupExportTest(t)
	assert.ErrorIs(t, exportService.VerifyExport(nil), ErrInvalidExport)
}
