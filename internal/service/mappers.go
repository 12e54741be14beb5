package service

import (
	"fmt"
	"time"

	"dellasoft/internal/dto"
	"dellasoft/internal/model"
)

const dateLayout = "2006-01-02"

// parseDate reads a YYYY-MM-DD value as a calendar date.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q", ErrValidation, s)
	}
	return t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// ── Till / transactions ───────────────────────────────────────────────────────

func ToPOSResponse(p *model.POS) dto.POSResponse {
	return dto.POSResponse{
		ID:            p.ID.String(),
		InitialAmount: p.InitialAmount,
		FinalAmount:   p.FinalAmount,
		Collected:     p.FinalAmount - p.InitialAmount,
		PosDate:       p.PosDate.Format(dateLayout),
		OpenedBy:      p.OpenedBy.String(),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func ToTransactionResponse(t *model.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:              t.ID.String(),
		Observation:     t.Observation,
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate.Format(time.RFC3339),
		Status:          t.Status,
		POSID:           t.POSID.String(),
		UserID:          t.UserID.String(),
	}
	if t.OrderID != nil {
		id := t.OrderID.String()
		resp.OrderID = &id
	}
	return resp
}

func ToPaymentResponse(r *PaymentResult) dto.PaymentResponse {
	return dto.PaymentResponse{
		Order:       ToOrderResponse(r.Order),
		Transaction: ToTransactionResponse(r.Transaction),
		POS:         ToPOSResponse(r.POS),
	}
}

// ── Orders ────────────────────────────────────────────────────────────────────

func ToOrderResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:           o.ID.String(),
		CustomerID:   o.CustomerID.String(),
		Observation:  o.Observation,
		TotalOrder:   o.TotalOrder,
		TotalPaid:    o.TotalPaid,
		Pending:      PendingAmount(o),
		OrderDate:    formatDate(o.OrderDate),
		DeliveryDate: formatDate(o.DeliveryDate),
		Items:        make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	if o.Customer != nil {
		resp.Customer = o.Customer.FullName()
	}
	for _, it := range o.Items {
		item := dto.OrderItemResponse{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
		if it.Product != nil {
			item.Product = it.Product.Name
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func ToStockResponse(s *model.Stock) dto.StockResponse {
	resp := dto.StockResponse{
		ID:          s.ID.String(),
		Quantity:    s.Quantity,
		MinQuantity: s.MinQuantity,
		BelowMin:    s.Quantity <= s.MinQuantity,
	}
	kind, owner := s.Owner()
	resp.OwnerKind = string(kind)
	resp.OwnerID = owner.String()
	return resp
}

func ToStockMovementResponse(m *model.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:             m.ID.String(),
		Delta:          m.Delta,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Unit:        p.Unit,
		Active:      p.Active,
	}
}

func ingredientToResponse(i *model.Ingredient) dto.IngredientResponse {
	return dto.IngredientResponse{
		ID:          i.ID.String(),
		Name:        i.Name,
		Description: i.Description,
		Unit:        i.Unit,
	}
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		LastName: c.LastName,
		Contact:  c.Contact,
		Email:    c.Email,
		Address:  c.Address,
	}
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		Active:   u.Active,
	}
}
