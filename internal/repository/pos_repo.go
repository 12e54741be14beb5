package repository

import (
	"context"
	"time"

	"dellasoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type POSRepository interface {
	FindByDate(ctx context.Context, date time.Time) (*model.POS, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.POS, error)
	List(ctx context.Context, page, limit int) ([]model.POS, int64, error)

	// Used inside transactions; callers must pass the tx instance
	FindByDateTx(tx *gorm.DB, date time.Time) (*model.POS, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.POS, error)
	CreateTx(tx *gorm.DB, p *model.POS) error
	// IncrementFinalAmountTx adds delta with a single UPDATE so concurrent
	// payments never lose an increment. Returns gorm.ErrRecordNotFound when
	// no row matched.
	IncrementFinalAmountTx(tx *gorm.DB, id uuid.UUID, delta int64) error

	DB() *gorm.DB
}

type posRepo struct{ db *gorm.DB }

func NewPOSRepository(db *gorm.DB) POSRepository { return &posRepo{db: db} }

func (r *posRepo) DB() *gorm.DB { return r.db }

func (r *posRepo) FindByDate(ctx context.Context, date time.Time) (*model.POS, error) {
	return r.FindByDateTx(r.db.WithContext(ctx), date)
}

func (r *posRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.POS, error) {
	var p model.POS
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *posRepo) List(ctx context.Context, page, limit int) ([]model.POS, int64, error) {
	var sessions []model.POS
	var total int64
	q := r.db.WithContext(ctx).Model(&model.POS{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := Page(page, limit, 20, 100)
	err := q.Order("pos_date DESC").Offset(offset).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

func (r *posRepo) FindByDateTx(tx *gorm.DB, date time.Time) (*model.POS, error) {
	var p model.POS
	err := tx.Where("pos_date = ?", date.Format("2006-01-02")).First(&p).Error
	return &p, err
}

func (r *posRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.POS, error) {
	var p model.POS
	err := tx.Clauses(forUpdate()).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *posRepo) CreateTx(tx *gorm.DB, p *model.POS) error {
	return tx.Create(p).Error
}

func (r *posRepo) IncrementFinalAmountTx(tx *gorm.DB, id uuid.UUID, delta int64) error {
	res := tx.Model(&model.POS{}).Where("id = ?", id).
		Update("final_amount", gorm.Expr("final_amount + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
