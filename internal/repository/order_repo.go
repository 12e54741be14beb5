package repository

import (
	"context"
	"time"

	"dellasoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter defines filters for the paginated order listing.
type OrderFilter struct {
	Search string
	From   *time.Time // inclusive
	To     *time.Time // exclusive
	Page   int
	Limit  int
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	// ListByOrderDate returns orders with order_date in [from, to) and their items.
	ListByOrderDate(ctx context.Context, from, to time.Time) ([]model.Order, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, observation string, deliveryDate *time.Time) error

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	AddPaidTx(tx *gorm.DB, id uuid.UUID, amount int64) error

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Customer").Preload("Items.Product").First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("customers.name ILIKE ? OR customers.last_name ILIKE ?", like, like)
	}
	if filter.From != nil {
		q = q.Where("orders.order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("orders.order_date < ?", *filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(filter.Page, filter.Limit, 20, 200)
	err := q.Preload("Customer").Preload("Items.Product").
		Order("orders.order_date DESC NULLS LAST").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) ListByOrderDate(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("order_date >= ? AND order_date < ?", from, to).
		Order("order_date ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdateDetails(ctx context.Context, id uuid.UUID, observation string, deliveryDate *time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"observation":   observation,
		"delivery_date": deliveryDate,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.Clauses(forUpdate()).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) AddPaidTx(tx *gorm.DB, id uuid.UUID, amount int64) error {
	res := tx.Model(&model.Order{}).Where("id = ?", id).
		Update("total_paid", gorm.Expr("total_paid + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
