package service

import (
	"context"

	"dellasoft/internal/model"
	"dellasoft/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockService tracks on-hand quantities of products and ingredients.
// Quantities never go negative; every adjustment leaves a StockMovement.
type StockService interface {
	// GetStock returns nil, nil when the owner has no stock row yet.
	GetStock(ctx context.Context, kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Stock, error)
	CreateStock(ctx context.Context, kind model.StockOwner, ownerID uuid.UUID, quantity, minQuantity int64) (*model.Stock, error)
	AdjustQuantity(ctx context.Context, stockID uuid.UUID, delta int64, reason string) (*model.Stock, error)
	// ListLowStock lists rows at or below their min_quantity. Read only.
	ListLowStock(ctx context.Context) ([]model.Stock, error)
	ListMovements(ctx context.Context, stockID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error)
}

type stockService struct {
	repo    repository.StockRepository
	catalog repository.CatalogRepository
}

func NewStockService(repo repository.StockRepository, catalog repository.CatalogRepository) StockService {
	return &stockService{repo: repo, catalog: catalog}
}

func (s *stockService) GetStock(ctx context.Context, kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error) {
	if !kind.Valid() {
		return nil, ErrValidation
	}
	row, err := s.repo.FindByOwner(ctx, kind, ownerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, storageErr("buscar stock", err)
	}
	return row, nil
}

func (s *stockService) GetByID(ctx context.Context, id uuid.UUID) (*model.Stock, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("stock")
		}
		return nil, storageErr("buscar stock", err)
	}
	return row, nil
}

// ── CreateStock ───────────────────────────────────────────────────────────────

func (s *stockService) CreateStock(ctx context.Context, kind model.StockOwner, ownerID uuid.UUID, quantity, minQuantity int64) (*model.Stock, error) {
	if !kind.Valid() {
		return nil, ErrValidation
	}
	if quantity < 0 || minQuantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.ownerExists(ctx, kind, ownerID); err != nil {
		return nil, err
	}

	row := &model.Stock{Quantity: quantity, MinQuantity: minQuantity}
	owner := ownerID
	if kind == model.StockOwnerProduct {
		row.ProductID = &owner
	} else {
		row.IngredientID = &owner
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindByOwnerTx(tx, kind, ownerID); err == nil {
			return ErrDuplicateStock
		} else if !repository.IsNotFound(err) {
			return storageErr("buscar stock", err)
		}
		if err := s.repo.CreateTx(tx, row); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrDuplicateStock
			}
			return storageErr("crear stock", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify("crear stock", err)
	}
	return row, nil
}

func (s *stockService) ownerExists(ctx context.Context, kind model.StockOwner, ownerID uuid.UUID) error {
	var err error
	if kind == model.StockOwnerProduct {
		_, err = s.catalog.FindProductByID(ctx, ownerID)
	} else {
		_, err = s.catalog.FindIngredientByID(ctx, ownerID)
	}
	if err == nil {
		return nil
	}
	if repository.IsNotFound(err) {
		if kind == model.StockOwnerProduct {
			return notFound("producto")
		}
		return notFound("ingrediente")
	}
	return storageErr("buscar "+string(kind), err)
}

// ── AdjustQuantity ────────────────────────────────────────────────────────────
// The row is locked for the whole check-then-write so two concurrent
// decrements cannot both pass the non-negative check.

func (s *stockService) AdjustQuantity(ctx context.Context, stockID uuid.UUID, delta int64, reason string) (*model.Stock, error) {
	if delta == 0 {
		return nil, ErrInvalidQuantity
	}

	var row *model.Stock
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		current, err := s.repo.FindByIDForUpdateTx(tx, stockID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("stock")
			}
			return storageErr("leer stock", err)
		}

		before := current.Quantity
		after := before + delta
		if after < 0 {
			return ErrInsufficientStock
		}
		if err := s.repo.SetQuantityTx(tx, current.ID, after); err != nil {
			return storageErr("actualizar stock", err)
		}
		mov := &model.StockMovement{
			StockID:        current.ID,
			Delta:          delta,
			QuantityBefore: before,
			QuantityAfter:  after,
			Reason:         reason,
		}
		if err := s.repo.CreateMovementTx(tx, mov); err != nil {
			return storageErr("registrar movimiento", err)
		}

		current.Quantity = after
		row = current
		return nil
	})
	if err != nil {
		return nil, classify("ajustar stock", err)
	}

	ev := log.Info()
	if row.Quantity <= row.MinQuantity {
		ev = log.Warn()
	}
	ev.Str("stock_id", row.ID.String()).Int64("delta", delta).Int64("quantity", row.Quantity).Msg("stock ajustado")
	return row, nil
}

func (s *stockService) ListLowStock(ctx context.Context) ([]model.Stock, error) {
	rows, err := s.repo.ListLow(ctx)
	if err != nil {
		return nil, storageErr("listar stock bajo", err)
	}
	return rows, nil
}

func (s *stockService) ListMovements(ctx context.Context, stockID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	if _, err := s.GetByID(ctx, stockID); err != nil {
		return nil, 0, err
	}
	movs, total, err := s.repo.ListMovements(ctx, stockID, page, limit)
	if err != nil {
		return nil, 0, storageErr("listar movimientos", err)
	}
	return movs, total, nil
}
