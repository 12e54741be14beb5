package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Price       int64   `json:"price"       validate:"min=0"`
	Unit        string  `json:"unit"        validate:"omitempty,max=20"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Price       *int64  `json:"price"       validate:"omitempty,min=0"`
	Unit        *string `json:"unit"        validate:"omitempty,max=20"`
	Active      *bool   `json:"active"`
}

type CreateIngredientRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Unit        string  `json:"unit"        validate:"omitempty,max=20"`
}

type RecipeItemRequest struct {
	IngredientID string `json:"ingredient_id" validate:"required,uuid"`
	Quantity     int64  `json:"quantity"      validate:"required,gt=0"`
}

type SetRecipeRequest struct {
	Items []RecipeItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ListFilter is shared by the catalog and customer listings.
type ListFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	Unit        string  `json:"unit"`
	Active      bool    `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type IngredientResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Unit        string  `json:"unit"`
}

type RecipeItemResponse struct {
	IngredientID string `json:"ingredient_id"`
	Ingredient   string `json:"ingredient"`
	Unit         string `json:"unit"`
	Quantity     int64  `json:"quantity"`
}
