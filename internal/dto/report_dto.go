package dto

import "github.com/shopspring/decimal"

type RotationResponse struct {
	ProductID   string          `json:"product_id"`
	Product     string          `json:"product"`
	StockOnHand int64           `json:"stock_on_hand"`
	UnitsSold   int64           `json:"units_sold"`
	Rotation    decimal.Decimal `json:"rotation"`
}

type TopProductResponse struct {
	ProductID string `json:"product_id"`
	Product   string `json:"product"`
	UnitsSold int64  `json:"units_sold"`
}

type DayCountResponse struct {
	Date  string `json:"date"` // DD/MM
	Count int    `json:"count"`
}

type DashboardResponse struct {
	Month         int                  `json:"month"`
	Year          int                  `json:"year"`
	StockRotation []RotationResponse   `json:"stock_rotation"`
	TopProducts   []TopProductResponse `json:"top_products"`
	OrdersPerDay  []DayCountResponse   `json:"orders_per_day"`
}
