package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidExport    = errors.New("invalid export data")
)

// TransactionExport is a signed dump of one profile's transaction history.
// The signature lets the profile hand the export to a third party who can
// verify it against the marketplace without DB access.
type TransactionExport struct {
	ProfileID    uuid.UUID               `json:"profile_id"`
	FullName     string                  `json:"full_name"`
	Email        string                  `json:"email"`
	Role         models.Role             `json:"role"`
	Transactions []TransactionExportItem `json:"transactions"`
	ExportedAt   time.Time               `json:"exported_at"`
	Signature    string                  `json:"signature"`
}

type TransactionExportItem struct {
	ID              uuid.UUID                `json:"id"`
	HarvestTitle    string                   `json:"harvest_title"`
	Quantity        decimal.Decimal          `json:"quantity"`
	UnitPrice       decimal.Decimal          `json:"unit_price"`
	TotalPrice      decimal.Decimal          `json:"total_price"`
	Status          models.TransactionStatus `json:"status"`
	TransactionDate time.Time                `json:"transaction_date"`
}

type ExportService struct {
	profileRepo     *repository.ProfileRepository
	transactionRepo *repository.TransactionRepository
	signingKey      string
}

func NewExportService(profileRepo *repository.ProfileRepository, transactionRepo *repository.TransactionRepository, signingKey string) *ExportService {
	return &ExportService{
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
		signingKey:      signingKey,
	}
}

func (s *ExportService) ExportTransactions(profileID uuid.UUID) (*TransactionExport, error) {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	var transactions []models.Transaction
	if profile.Role == models.RoleFarmer {
		transactions, err = s.transactionRepo.FindBySeller(profileID, "")
	} else {
		transactions, err = s.transactionRepo.FindByBuyer(profileID, "")
	}
	if err != nil {
		return nil, err
	}

	items := make([]TransactionExportItem, len(transactions))
	for i, t := range transactions {
		items[i] = TransactionExportItem{
			ID:              t.ID,
			HarvestTitle:    t.HarvestTitle,
			Quantity:        t.Quantity,
			UnitPrice:       t.UnitPrice,
			TotalPrice:      t.TotalPrice,
			Status:          t.Status,
			TransactionDate: t.TransactionDate,
		}
	}

	export := &TransactionExport{
		ProfileID:    profile.ID,
		FullName:     profile.FullName,
		Email:        profile.Email,
		Role:         profile.Role,
		Transactions: items,
		ExportedAt:   time.Now().UTC(),
	}

	signature, err := s.sign(export)
	if err != nil {
		return nil, err
	}
	export.Signature = signature

	return export, nil
}

func (s *ExportService) VerifyExport(export *TransactionExport) error {
	if export == nil {
		return ErrInvalidExport
	}

	expected, err := s.sign(export)
	if err != nil {
		return err
	}

	if !hmac.Equal([]byte(expected), []byte(export.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// sign computes the HMAC over the export with the signature field blanked.
func (s *ExportService) sign(export *TransactionExport) (string, error) {
	unsigned := *export
	unsigned.Signature = ""

	payload, err := json.Marshal(unsigned)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(s.signingKey))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
