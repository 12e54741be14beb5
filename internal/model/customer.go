package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a bakery client that places orders.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index;not null"`
	LastName  string    `gorm:"index"`
	Contact   string
	Email     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins name and last name.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.Name
	}
	return c.Name + " " + c.LastName
}
