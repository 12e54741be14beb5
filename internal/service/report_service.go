package service

import (
	"context"
	"fmt"
	"time"

	"dellasoft/internal/dto"
	"dellasoft/internal/infra"
	"dellasoft/internal/reporting"
	"dellasoft/internal/repository"
)

// ReportService loads the month's data and hands it to the reporting
// aggregator. month == 0 means the clock's current month.
type ReportService interface {
	Dashboard(ctx context.Context, month, year int) (*dto.DashboardResponse, error)
	MonthlyPDF(ctx context.Context, month, year int) ([]byte, error)
	MonthlyXLSX(ctx context.Context, month, year int) ([]byte, error)
}

type reportService struct {
	catalog  repository.CatalogRepository
	stock    repository.StockRepository
	orders   repository.OrderRepository
	clock    Clock
	business string
}

func NewReportService(
	catalog repository.CatalogRepository,
	stock repository.StockRepository,
	orders repository.OrderRepository,
	clock Clock,
	business string,
) ReportService {
	return &reportService{catalog: catalog, stock: stock, orders: orders, clock: clock, business: business}
}

func (s *reportService) period(month, year int) (int, int, error) {
	now := s.clock.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: mes fuera de rango", ErrValidation)
	}
	if year < 2000 || year > 9999 {
		return 0, 0, fmt.Errorf("%w: año fuera de rango", ErrValidation)
	}
	return month, year, nil
}

func (s *reportService) Dashboard(ctx context.Context, month, year int) (*dto.DashboardResponse, error) {
	month, year, err := s.period(month, year)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.AllProducts(ctx)
	if err != nil {
		return nil, storageErr("listar productos", err)
	}
	stocks, err := s.stock.ListAll(ctx)
	if err != nil {
		return nil, storageErr("listar stock", err)
	}

	loc := s.clock.Now().Location()
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	orders, err := s.orders.ListByOrderDate(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, storageErr("listar pedidos", err)
	}
	// Order dates come back in the driver's zone; the month boundaries are the bakery's.
	for i := range orders {
		if orders[i].OrderDate != nil {
			local := orders[i].OrderDate.In(loc)
			orders[i].OrderDate = &local
		}
	}
	items := reporting.ItemsOf(orders)

	resp := &dto.DashboardResponse{Month: month, Year: year}
	for _, r := range reporting.StockRotation(products, stocks, items, orders, month, year) {
		resp.StockRotation = append(resp.StockRotation, dto.RotationResponse{
			ProductID:   r.ProductID.String(),
			Product:     r.Product,
			StockOnHand: r.StockOnHand,
			UnitsSold:   r.UnitsSold,
			Rotation:    r.Rotation,
		})
	}
	for _, r := range reporting.TopProducts(products, items, orders, month, year, reporting.DefaultTopN) {
		resp.TopProducts = append(resp.TopProducts, dto.TopProductResponse{
			ProductID: r.ProductID.String(),
			Product:   r.Product,
			UnitsSold: r.UnitsSold,
		})
	}
	for _, d := range reporting.OrdersPerDay(orders, month, year) {
		resp.OrdersPerDay = append(resp.OrdersPerDay, dto.DayCountResponse{Date: d.Label, Count: d.Count})
	}
	return resp, nil
}

func (s *reportService) MonthlyPDF(ctx context.Context, month, year int) ([]byte, error) {
	report, err := s.Dashboard(ctx, month, year)
	if err != nil {
		return nil, err
	}
	out, err := infra.RenderMonthlyReportPDF(s.business, *report)
	if err != nil {
		return nil, storageErr("generar PDF", err)
	}
	return out, nil
}

func (s *reportService) MonthlyXLSX(ctx context.Context, month, year int) ([]byte, error) {
	report, err := s.Dashboard(ctx, month, year)
	if err != nil {
		return nil, err
	}
	out, err := infra.RenderMonthlyReportXLSX(*report)
	if err != nil {
		return nil, storageErr("generar XLSX", err)
	}
	return out, nil
}
