package repository

import (
	"context"

	"dellasoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository is append-only: ledger entries have no update or
// delete path.
type TransactionRepository interface {
	CreateTx(tx *gorm.DB, t *model.Transaction) error
	ListByPOS(ctx context.Context, posID uuid.UUID) ([]model.Transaction, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Transaction, error)
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) ListByPOS(ctx context.Context, posID uuid.UUID) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).Where("pos_id = ?", posID).Order("transaction_date ASC").Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("transaction_date ASC").Find(&txs).Error
	return txs, err
}
