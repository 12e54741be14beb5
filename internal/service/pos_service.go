package service

import (
	"context"
	"time"

	"dellasoft/internal/model"
	"dellasoft/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// POSService manages the daily till session. A session is either absent or
// open for a calendar date; there is no closed state.
type POSService interface {
	// FindSessionForDate returns nil, nil when no session exists for date.
	FindSessionForDate(ctx context.Context, date time.Time) (*model.POS, error)
	OpenSession(ctx context.Context, userID uuid.UUID, initialAmount int64, date time.Time) (*model.POS, error)
	RecordCashIncrease(ctx context.Context, posID uuid.UUID, delta int64) (*model.POS, error)
	// RecordCashIncreaseTx is the same increment, joined to the caller's transaction.
	RecordCashIncreaseTx(tx *gorm.DB, posID uuid.UUID, delta int64) error

	Today(ctx context.Context) (*model.POS, error)
	Get(ctx context.Context, id uuid.UUID) (*model.POS, error)
	List(ctx context.Context, page, limit int) ([]model.POS, int64, error)
	Transactions(ctx context.Context, posID uuid.UUID) ([]model.Transaction, error)
}

type posService struct {
	repo         repository.POSRepository
	transactions repository.TransactionRepository
	clock        Clock
}

func NewPOSService(repo repository.POSRepository, transactions repository.TransactionRepository, clock Clock) POSService {
	return &posService{repo: repo, transactions: transactions, clock: clock}
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *posService) FindSessionForDate(ctx context.Context, date time.Time) (*model.POS, error) {
	p, err := s.repo.FindByDate(ctx, DateOf(date))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, storageErr("buscar caja", err)
	}
	return p, nil
}

func (s *posService) Today(ctx context.Context) (*model.POS, error) {
	return s.FindSessionForDate(ctx, Today(s.clock))
}

// Transactions lists the payments collected by a session, oldest first.
func (s *posService) Transactions(ctx context.Context, posID uuid.UUID) ([]model.Transaction, error) {
	if _, err := s.Get(ctx, posID); err != nil {
		return nil, err
	}
	list, err := s.transactions.ListByPOS(ctx, posID)
	if err != nil {
		return nil, storageErr("listar transacciones", err)
	}
	return list, nil
}

func (s *posService) Get(ctx context.Context, id uuid.UUID) (*model.POS, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("caja")
		}
		return nil, storageErr("buscar caja", err)
	}
	return p, nil
}

func (s *posService) List(ctx context.Context, page, limit int) ([]model.POS, int64, error) {
	sessions, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, storageErr("listar cajas", err)
	}
	return sessions, total, nil
}

// ── OpenSession ───────────────────────────────────────────────────────────────
// The existence check runs inside the transaction; the unique index on
// pos_date backstops two concurrent opens for the same day.

func (s *posService) OpenSession(ctx context.Context, userID uuid.UUID, initialAmount int64, date time.Time) (*model.POS, error) {
	if initialAmount < 0 {
		return nil, ErrInvalidAmount
	}
	day := DateOf(date)
	session := &model.POS{
		InitialAmount: initialAmount,
		FinalAmount:   initialAmount,
		PosDate:       day,
		OpenedBy:      userID,
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindByDateTx(tx, day); err == nil {
			return ErrAlreadyOpen
		} else if !repository.IsNotFound(err) {
			return storageErr("buscar caja", err)
		}
		if err := s.repo.CreateTx(tx, session); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrAlreadyOpen
			}
			return storageErr("abrir caja", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify("abrir caja", err)
	}

	log.Info().
		Str("pos_id", session.ID.String()).
		Str("pos_date", day.Format("2006-01-02")).
		Int64("initial_amount", initialAmount).
		Msg("caja abierta")
	return session, nil
}

// ── RecordCashIncrease ────────────────────────────────────────────────────────

func (s *posService) RecordCashIncrease(ctx context.Context, posID uuid.UUID, delta int64) (*model.POS, error) {
	if delta <= 0 {
		return nil, ErrInvalidAmount
	}
	var session *model.POS
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.RecordCashIncreaseTx(tx, posID, delta); err != nil {
			return err
		}
		p, err := s.repo.FindByIDForUpdateTx(tx, posID)
		if err != nil {
			return storageErr("leer caja", err)
		}
		session = p
		return nil
	})
	if err != nil {
		return nil, classify("incrementar caja", err)
	}
	return session, nil
}

func (s *posService) RecordCashIncreaseTx(tx *gorm.DB, posID uuid.UUID, delta int64) error {
	if delta <= 0 {
		return ErrInvalidAmount
	}
	if err := s.repo.IncrementFinalAmountTx(tx, posID, delta); err != nil {
		if repository.IsNotFound(err) {
			return notFound("caja")
		}
		return storageErr("incrementar caja", err)
	}
	return nil
}
