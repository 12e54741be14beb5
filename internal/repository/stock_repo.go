package repository

import (
	"context"

	"dellasoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Stock, error)
	FindByOwner(ctx context.Context, kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error)
	ListAll(ctx context.Context) ([]model.Stock, error)
	// ListLow returns the rows whose quantity is at or below min_quantity.
	ListLow(ctx context.Context) ([]model.Stock, error)
	ListMovements(ctx context.Context, stockID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error)

	// Used inside transactions; callers must pass the tx instance
	FindByOwnerTx(tx *gorm.DB, kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Stock, error)
	CreateTx(tx *gorm.DB, s *model.Stock) error
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int64) error
	CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func ownerColumn(kind model.StockOwner) string {
	if kind == model.StockOwnerIngredient {
		return "ingredient_id"
	}
	return "product_id"
}

func (r *stockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *stockRepo) FindByOwner(ctx context.Context, kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error) {
	return r.FindByOwnerTx(r.db.WithContext(ctx), kind, ownerID)
}

func (r *stockRepo) ListAll(ctx context.Context) ([]model.Stock, error) {
	var rows []model.Stock
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (r *stockRepo) ListLow(ctx context.Context) ([]model.Stock, error) {
	var rows []model.Stock
	err := r.db.WithContext(ctx).Where("quantity <= min_quantity").Order("quantity ASC").Find(&rows).Error
	return rows, err
}

func (r *stockRepo) ListMovements(ctx context.Context, stockID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Where("stock_id = ?", stockID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(page, limit, 100, 500)
	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}

func (r *stockRepo) FindByOwnerTx(tx *gorm.DB, kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := tx.Where(ownerColumn(kind)+" = ?", ownerID).First(&s).Error
	return &s, err
}

func (r *stockRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := tx.Clauses(forUpdate()).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *stockRepo) CreateTx(tx *gorm.DB, s *model.Stock) error {
	return tx.Create(s).Error
}

func (r *stockRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int64) error {
	return tx.Model(&model.Stock{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *stockRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}
