package service

import (
	"context"
	"fmt"
	"math"

	"dellasoft/internal/dto"
	"dellasoft/internal/model"
	"dellasoft/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	// UpdateDetails edits observation and delivery date; totals are never touched here.
	UpdateDetails(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error)
	Pending(ctx context.Context, id uuid.UUID) (int64, error)
	Transactions(ctx context.Context, id uuid.UUID) ([]dto.TransactionResponse, error)
}

type orderService struct {
	repo         repository.OrderRepository
	customers    repository.CustomerRepository
	catalog      repository.CatalogRepository
	transactions repository.TransactionRepository
	clock        Clock
}

func NewOrderService(
	repo repository.OrderRepository,
	customers repository.CustomerRepository,
	catalog repository.CatalogRepository,
	transactions repository.TransactionRepository,
	clock Clock,
) OrderService {
	return &orderService{
		repo:         repo,
		customers:    customers,
		catalog:      catalog,
		transactions: transactions,
		clock:        clock,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// Line item prices are a snapshot of the catalog price at order time.

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: customer_id inválido", ErrValidation)
	}
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("cliente")
		}
		return nil, storageErr("buscar cliente", err)
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: product_id inválido", ErrValidation)
		}
		ids = append(ids, id)
	}
	products, err := s.catalog.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, storageErr("buscar productos", err)
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	now := s.clock.Now()
	order := &model.Order{
		CustomerID:  customer.ID,
		Observation: req.Observation,
		OrderDate:   &now,
	}
	if req.DeliveryDate != nil && *req.DeliveryDate != "" {
		d, err := parseDate(*req.DeliveryDate)
		if err != nil {
			return nil, err
		}
		order.DeliveryDate = &d
	}

	for i, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		p, ok := byID[ids[i]]
		if !ok {
			return nil, notFound("producto " + it.ProductID)
		}
		if !p.Active {
			return nil, fmt.Errorf("%w: el producto %s está inactivo", ErrValidation, p.Name)
		}
		if p.Price > 0 && it.Quantity > math.MaxInt64/p.Price {
			return nil, fmt.Errorf("%w: el subtotal de %s excede el máximo", ErrInvalidQuantity, p.Name)
		}
		subtotal := p.Price * it.Quantity
		if order.TotalOrder > math.MaxInt64-subtotal {
			return nil, fmt.Errorf("%w: el total del pedido excede el máximo", ErrInvalidQuantity)
		}
		order.Items = append(order.Items, model.ProductOrder{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			Subtotal:  subtotal,
		})
		order.TotalOrder += subtotal
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, order); err != nil {
			return storageErr("crear pedido", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify("crear pedido", err)
	}

	order.Customer = customer
	for i := range order.Items {
		order.Items[i].Product = byID[order.Items[i].ProductID]
	}
	log.Info().Str("order_id", order.ID.String()).Int64("total_order", order.TotalOrder).Msg("pedido creado")
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *orderService) find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("pedido")
		}
		return nil, storageErr("buscar pedido", err)
	}
	return order, nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *orderService) Pending(ctx context.Context, id uuid.UUID) (int64, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return 0, err
	}
	return PendingAmount(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	f := repository.OrderFilter{Search: filter.Search, Page: filter.Page, Limit: filter.Limit}
	if filter.From != "" {
		from, err := parseDate(filter.From)
		if err != nil {
			return nil, err
		}
		f.From = &from
	}
	if filter.To != "" {
		to, err := parseDate(filter.To)
		if err != nil {
			return nil, err
		}
		// inclusive day in the request, exclusive bound in the query
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}

	orders, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storageErr("listar pedidos", err)
	}

	page, limit, _ := repository.Page(filter.Page, filter.Limit, 20, 200)
	resp := &dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, len(orders)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range orders {
		resp.Data[i] = ToOrderResponse(&orders[i])
	}
	return resp, nil
}

func (s *orderService) Transactions(ctx context.Context, id uuid.UUID) ([]dto.TransactionResponse, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	txs, err := s.transactions.ListByOrder(ctx, id)
	if err != nil {
		return nil, storageErr("listar transacciones", err)
	}
	resp := make([]dto.TransactionResponse, len(txs))
	for i := range txs {
		resp[i] = ToTransactionResponse(&txs[i])
	}
	return resp, nil
}

// ── UpdateDetails ─────────────────────────────────────────────────────────────

func (s *orderService) UpdateDetails(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	observation := order.Observation
	if req.Observation != nil {
		observation = *req.Observation
	}
	delivery := order.DeliveryDate
	if req.DeliveryDate != nil {
		if *req.DeliveryDate == "" {
			delivery = nil
		} else {
			d, err := parseDate(*req.DeliveryDate)
			if err != nil {
				return nil, err
			}
			delivery = &d
		}
	}

	if err := s.repo.UpdateDetails(ctx, id, observation, delivery); err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("pedido")
		}
		return nil, storageErr("actualizar pedido", err)
	}
	order.Observation = observation
	order.DeliveryDate = delivery
	resp := ToOrderResponse(order)
	return &resp, nil
}
