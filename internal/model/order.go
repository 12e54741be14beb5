package model

import (
	"time"

	"github.com/google/uuid"
)

// Order is a customer purchase. TotalOrder is what is owed and TotalPaid what
// has already been paid, both in minor currency units.
// Invariant: 0 <= TotalPaid <= TotalOrder.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Observation string
	TotalOrder  int64 `gorm:"not null"`
	TotalPaid   int64 `gorm:"not null;default:0"`
	// OrderDate may be missing on legacy rows; reports skip those orders.
	OrderDate    *time.Time `gorm:"index"`
	DeliveryDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Customer *Customer     `gorm:"foreignKey:CustomerID"`
	Items    []ProductOrder `gorm:"foreignKey:OrderID"`
}

// Pending returns the amount still owed on the order.
func (o *Order) Pending() int64 { return o.TotalOrder - o.TotalPaid }

// ProductOrder is an order line item. UnitPrice is a snapshot of the product
// price when the order was placed.
type ProductOrder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int64     `gorm:"not null"`
	UnitPrice int64     `gorm:"not null"`
	Subtotal  int64     `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
