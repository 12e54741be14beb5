package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every quantity change applied to a stock row.
// Delta is positive for incoming goods and negative for consumption.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StockID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Delta          int64     `gorm:"not null"`
	QuantityBefore int64     `gorm:"not null"`
	QuantityAfter  int64     `gorm:"not null"`
	Reason         string
	CreatedAt      time.Time
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
