package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is an item of the bakery catalog. Price is in minor currency units.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       int64  `gorm:"not null"`
	Unit        string `gorm:"not null;default:'unidad'"`
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ingredient is a raw material used by recipes.
type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	Unit        string `gorm:"not null;default:'gr'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeItem is the quantity of one ingredient needed to produce one unit of a product.
type RecipeItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product_ingredient"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product_ingredient"`
	Quantity     int64     `gorm:"not null"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}
