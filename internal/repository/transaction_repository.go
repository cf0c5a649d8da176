package repository

import (
	"errors"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(tx *gorm.DB, transaction *models.Transaction) error {
	return tx.Create(transaction).Error
}

func (r *TransactionRepository) FindByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.Preload("Buyer").Preload("Seller").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *TransactionRepository) Update(transaction *models.Transaction) error {
	return r.db.Save(transaction).Error
}

// FindBySeller and FindByBuyer order by transaction date, newest first,
// with the id as a stable tie-break.
func (r *TransactionRepository) FindBySeller(sellerID uuid.UUID, status models.TransactionStatus) ([]models.Transaction, error) {
	return r.find("seller_id = ?", sellerID, status)
}

func (r *TransactionRepository) FindByBuyer(buyerID uuid.UUID, status models.TransactionStatus) ([]models.Transaction, error) {
	return r.find("buyer_id = ?", buyerID, status)
}

func (r *TransactionRepository) find(cond string, id uuid.UUID, status models.TransactionStatus) ([]models.Transaction, error) {
	var transactions []models.Transaction

	db := r.db.Preload("Buyer").Preload("Seller").Where(cond, id)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	err := db.Order("transaction_date DESC, id DESC").Find(&transactions).Error
	return transactions, err
}

func (r *TransactionRepository) DetachHarvest(tx *gorm.DB, harvestID uuid.UUID) error {
	return tx.Model(&models.Transaction{}).
		Where("harvest_id = ?", harvestID).
		Update("harvest_id", nil).Error
}
