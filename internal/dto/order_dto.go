package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity"   validate:"required,gt=0,max=100000"`
}

type CreateOrderRequest struct {
	CustomerID   string             `json:"customer_id"   validate:"required,uuid"`
	Observation  string             `json:"observation"   validate:"max=500"`
	DeliveryDate *string            `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Items        []OrderItemRequest `json:"items"         validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	Observation  *string `json:"observation"   validate:"omitempty,max=500"`
	DeliveryDate *string `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
}

// PaymentRequest registers a partial or total payment against an order.
// The till session is today's open one unless POSID is given.
type PaymentRequest struct {
	Amount      int64  `json:"amount"`
	POSID       string `json:"pos_id"      validate:"omitempty,uuid"`
	Observation string `json:"observation" validate:"max=255"`
}

// OrderFilter drives the paginated order listing.
type OrderFilter struct {
	Search string `form:"search"` // contains-match on customer name / last name
	From   string `form:"from"`   // YYYY-MM-DD inclusive
	To     string `form:"to"`     // YYYY-MM-DD inclusive
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Product   string `json:"product"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	Customer     string              `json:"customer"`
	Observation  string              `json:"observation"`
	TotalOrder   int64               `json:"total_order"`
	TotalPaid    int64               `json:"total_paid"`
	Pending      int64               `json:"pending"`
	OrderDate    *string             `json:"order_date"`
	DeliveryDate *string             `json:"delivery_date"`
	Items        []OrderItemResponse `json:"items"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type PaymentResponse struct {
	Order       OrderResponse       `json:"order"`
	Transaction TransactionResponse `json:"transaction"`
	POS         POSResponse         `json:"pos"`
}
