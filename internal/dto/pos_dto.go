package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenPOSRequest struct {
	InitialAmount int64 `json:"initial_amount" validate:"min=0"`
	// PosDate defaults to today when empty (format YYYY-MM-DD)
	PosDate string `json:"pos_date" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type POSResponse struct {
	ID            string `json:"id"`
	InitialAmount int64  `json:"initial_amount"`
	FinalAmount   int64  `json:"final_amount"`
	// Collected is FinalAmount - InitialAmount
	Collected int64  `json:"collected"`
	PosDate   string `json:"pos_date"`
	OpenedBy  string `json:"opened_by"`
	CreatedAt string `json:"created_at"`
}

type TransactionResponse struct {
	ID              string  `json:"id"`
	Observation     string  `json:"observation"`
	Amount          int64   `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	Status          string  `json:"status"`
	POSID           string  `json:"pos_id"`
	UserID          string  `json:"user_id"`
	OrderID         *string `json:"order_id"`
}
