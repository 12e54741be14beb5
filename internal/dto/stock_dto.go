package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateStockRequest struct {
	OwnerKind   string `json:"owner_kind"   validate:"required,oneof=product ingredient"`
	OwnerID     string `json:"owner_id"     validate:"required,uuid"`
	Quantity    int64  `json:"quantity"     validate:"min=0"`
	MinQuantity int64  `json:"min_quantity" validate:"min=0"`
}

type AdjustStockRequest struct {
	Delta  int64  `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"max=255"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockResponse struct {
	ID          string `json:"id"`
	OwnerKind   string `json:"owner_kind"`
	OwnerID     string `json:"owner_id"`
	Quantity    int64  `json:"quantity"`
	MinQuantity int64  `json:"min_quantity"`
	BelowMin    bool   `json:"below_min"`
}

type StockMovementResponse struct {
	ID             string `json:"id"`
	Delta          int64  `json:"delta"`
	QuantityBefore int64  `json:"quantity_before"`
	QuantityAfter  int64  `json:"quantity_after"`
	Reason         string `json:"reason"`
	CreatedAt      string `json:"created_at"`
}
