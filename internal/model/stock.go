package model

import (
	"time"

	"github.com/google/uuid"
)

// StockOwner identifies what kind of catalog entity a stock row belongs to.
type StockOwner string

const (
	StockOwnerProduct    StockOwner = "product"
	StockOwnerIngredient StockOwner = "ingredient"
)

// Valid reports whether k is a known owner kind.
func (k StockOwner) Valid() bool {
	return k == StockOwnerProduct || k == StockOwnerIngredient
}

// Stock holds the on-hand quantity of exactly one product or one ingredient.
// Exactly one of ProductID / IngredientID is set; each is unique.
type Stock struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	IngredientID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Quantity     int64      `gorm:"not null;default:0"`
	MinQuantity  int64      `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Owner returns the owner kind and id of the row.
func (s *Stock) Owner() (StockOwner, uuid.UUID) {
	if s.ProductID != nil {
		return StockOwnerProduct, *s.ProductID
	}
	if s.IngredientID != nil {
		return StockOwnerIngredient, *s.IngredientID
	}
	return "", uuid.Nil
}
