// Package reporting computes the monthly dashboard figures from in-memory
// collections. Nothing here touches storage and nothing here fails: rows
// with unusable dates are left out of the month instead.
package reporting

import (
	"sort"
	"time"

	"dellasoft/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTopN is used when TopProducts receives topN <= 0.
const DefaultTopN = 5

type RotationRow struct {
	ProductID   uuid.UUID
	Product     string
	StockOnHand int64
	UnitsSold   int64
	// Rotation is UnitsSold / StockOnHand, zero when there is no stock.
	Rotation decimal.Decimal
}

type TopProductRow struct {
	ProductID uuid.UUID
	Product   string
	UnitsSold int64
}

type DayCount struct {
	Day   time.Time
	Label string // DD/MM
	Count int
}

func inMonth(t *time.Time, month, year int) bool {
	if t == nil || t.IsZero() {
		return false
	}
	return t.Year() == year && int(t.Month()) == month
}

// unitsSoldByProduct sums line item quantities of orders placed in the month.
// Items pointing at orders that are not in the collection are skipped.
func unitsSoldByProduct(items []model.ProductOrder, orders []model.Order, month, year int) map[uuid.UUID]int64 {
	inRange := make(map[uuid.UUID]bool, len(orders))
	for i := range orders {
		if inMonth(orders[i].OrderDate, month, year) {
			inRange[orders[i].ID] = true
		}
	}
	sold := make(map[uuid.UUID]int64)
	for _, it := range items {
		if inRange[it.OrderID] {
			sold[it.ProductID] += it.Quantity
		}
	}
	return sold
}

// StockRotation returns one row per product, in catalog order.
func StockRotation(products []model.Product, stocks []model.Stock, items []model.ProductOrder, orders []model.Order, month, year int) []RotationRow {
	onHand := make(map[uuid.UUID]int64, len(stocks))
	for _, s := range stocks {
		if s.ProductID != nil {
			onHand[*s.ProductID] = s.Quantity
		}
	}
	sold := unitsSoldByProduct(items, orders, month, year)

	rows := make([]RotationRow, 0, len(products))
	for _, p := range products {
		row := RotationRow{
			ProductID:   p.ID,
			Product:     p.Name,
			StockOnHand: onHand[p.ID],
			UnitsSold:   sold[p.ID],
			Rotation:    decimal.Zero,
		}
		if row.StockOnHand > 0 {
			row.Rotation = decimal.NewFromInt(row.UnitsSold).
				DivRound(decimal.NewFromInt(row.StockOnHand), 2)
		}
		rows = append(rows, row)
	}
	return rows
}

// TopProducts ranks products by units sold in the month, descending. Ties keep
// catalog order. The result has at most topN rows.
func TopProducts(products []model.Product, items []model.ProductOrder, orders []model.Order, month, year, topN int) []TopProductRow {
	if topN <= 0 {
		topN = DefaultTopN
	}
	sold := unitsSoldByProduct(items, orders, month, year)

	rows := make([]TopProductRow, len(products))
	for i, p := range products {
		rows[i] = TopProductRow{ProductID: p.ID, Product: p.Name, UnitsSold: sold[p.ID]}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UnitsSold > rows[j].UnitsSold
	})
	if len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}

// OrdersPerDay returns one entry for every day of the month, zero included,
// in date order.
func OrdersPerDay(orders []model.Order, month, year int) []DayCount {
	if month < 1 || month > 12 {
		return []DayCount{}
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	counts := make([]int, days+1)
	for i := range orders {
		if inMonth(orders[i].OrderDate, month, year) {
			counts[orders[i].OrderDate.Day()]++
		}
	}

	out := make([]DayCount, days)
	for d := 1; d <= days; d++ {
		day := first.AddDate(0, 0, d-1)
		out[d-1] = DayCount{Day: day, Label: day.Format("02/01"), Count: counts[d]}
	}
	return out
}

// ItemsOf flattens the line items of the given orders.
func ItemsOf(orders []model.Order) []model.ProductOrder {
	var items []model.ProductOrder
	for i := range orders {
		items = append(items, orders[i].Items...)
	}
	return items
}
