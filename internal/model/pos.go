package model

import (
	"time"

	"github.com/google/uuid"
)

// POS is the cash-register session of one calendar day.
// A row existing for PosDate means the till is open for that day; there is no
// closed state, a new day requires a new session.
type POS struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InitialAmount int64     `gorm:"not null"`
	// FinalAmount starts at InitialAmount and only grows with reconciled payments.
	FinalAmount int64     `gorm:"not null"`
	PosDate     time.Time `gorm:"type:date;uniqueIndex;not null"`
	OpenedBy    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName keeps the historical table name of the bakery database.
func (POS) TableName() string { return "pos" }
