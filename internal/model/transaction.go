package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatusPaid is the status recorded for every reconciled payment.
const TransactionStatusPaid = "PAGO"

// Transaction is an immutable ledger entry.
// Entries are NEVER modified or deleted; there is no update path in the repository.
type Transaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Observation     string
	Amount          int64     `gorm:"not null"`
	TransactionDate time.Time `gorm:"not null;index"`
	Status          string    `gorm:"type:varchar(20);not null"`
	POSID           uuid.UUID `gorm:"column:pos_id;type:uuid;not null;index"`
	// UserID is the employee who registered the payment.
	UserID uuid.UUID `gorm:"type:uuid;not null"`
	// OrderID is nil for movements not linked to an order.
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
}
