package model

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses.
const (
	InvoicePending = "pendiente"
	InvoiceIssued  = "emitido"
	InvoiceError   = "error"
)

// Invoice tracks the PDF rendered for an order after a payment.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID       uuid.UUID `gorm:"type:uuid;index;not null"`
	TransactionID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath *string `gorm:"column:pdf_path"`
	// Retry fields used by the retry cron to re-render failed invoices
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
