package service

import (
	"context"
	"time"

	"dellasoft/internal/model"
	"dellasoft/internal/repository"
	"dellasoft/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PaymentRequest is a partial or total payment against an order.
// POSID may be uuid.Nil, meaning today's session.
type PaymentRequest struct {
	OrderID     uuid.UUID
	POSID       uuid.UUID
	UserID      uuid.UUID
	Amount      int64
	Observation string
}

// PaymentResult holds the three entities touched by a reconciled payment,
// as they are after the commit.
type PaymentResult struct {
	Order       *model.Order
	Transaction *model.Transaction
	POS         *model.POS
}

// InvoiceQueue receives the invoice job emitted after each committed payment.
type InvoiceQueue interface {
	EnqueueInvoice(ctx context.Context, job worker.InvoiceJob) error
}

type PaymentService interface {
	ApplyPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

type paymentService struct {
	orders       repository.OrderRepository
	posRepo      repository.POSRepository
	transactions repository.TransactionRepository
	pos          POSService
	clock        Clock
	invoices     InvoiceQueue
}

func NewPaymentService(
	orders repository.OrderRepository,
	posRepo repository.POSRepository,
	transactions repository.TransactionRepository,
	pos POSService,
	clock Clock,
	invoices InvoiceQueue,
) PaymentService {
	return &paymentService{
		orders:       orders,
		posRepo:      posRepo,
		transactions: transactions,
		pos:          pos,
		clock:        clock,
		invoices:     invoices,
	}
}

// PendingAmount is what is still owed on the order.
func PendingAmount(o *model.Order) int64 {
	return o.Pending()
}

// ── ApplyPayment ──────────────────────────────────────────────────────────────
// One transaction:
//   1. lock the order row, check it can absorb the amount
//   2. lock the till session, check it is today's
//   3. append the PAGO transaction
//   4. total_paid += amount, final_amount += amount (SQL increments)
// The invoice job is enqueued after COMMIT and never affects the result.

func (s *paymentService) ApplyPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := s.clock.Now()
	today := DateOf(now)
	var result PaymentResult

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDForUpdateTx(tx, req.OrderID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("pedido")
			}
			return storageErr("leer pedido", err)
		}
		if order.TotalPaid+req.Amount > order.TotalOrder {
			return ErrOverpayment
		}

		session, err := s.lockSession(tx, req.POSID, today)
		if err != nil {
			return err
		}

		orderID := order.ID
		trx := &model.Transaction{
			Observation:     req.Observation,
			Amount:          req.Amount,
			TransactionDate: now,
			Status:          model.TransactionStatusPaid,
			POSID:           session.ID,
			UserID:          req.UserID,
			OrderID:         &orderID,
		}
		if err := s.transactions.CreateTx(tx, trx); err != nil {
			return storageErr("registrar transacción", err)
		}
		if err := s.orders.AddPaidTx(tx, order.ID, req.Amount); err != nil {
			return storageErr("actualizar pedido", err)
		}
		if err := s.pos.RecordCashIncreaseTx(tx, session.ID, req.Amount); err != nil {
			return err
		}

		// Both rows are locked, so the in-memory values match what was written.
		order.TotalPaid += req.Amount
		session.FinalAmount += req.Amount
		result = PaymentResult{Order: order, Transaction: trx, POS: session}
		return nil
	})
	if txErr != nil {
		err := classify("registrar pago", txErr)
		if isStorage(err) {
			log.Error().Err(txErr).Str("order_id", req.OrderID.String()).Int64("amount", req.Amount).Msg("pago no aplicado")
		}
		return nil, err
	}

	log.Info().
		Str("order_id", result.Order.ID.String()).
		Str("transaction_id", result.Transaction.ID.String()).
		Int64("amount", req.Amount).
		Int64("pending", PendingAmount(result.Order)).
		Msg("pago registrado")

	if s.invoices != nil {
		job := worker.InvoiceJob{
			OrderID:       result.Order.ID.String(),
			TransactionID: result.Transaction.ID.String(),
		}
		if err := s.invoices.EnqueueInvoice(ctx, job); err != nil {
			log.Warn().Err(err).Str("order_id", job.OrderID).Msg("no se pudo encolar la factura")
		}
	}
	return &result, nil
}

// lockSession resolves and locks the till session a payment goes to.
// Anything other than today's session counts as a closed till.
func (s *paymentService) lockSession(tx *gorm.DB, posID uuid.UUID, today time.Time) (*model.POS, error) {
	if posID == uuid.Nil {
		current, err := s.posRepo.FindByDateTx(tx, today)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrTillClosed
			}
			return nil, storageErr("buscar caja", err)
		}
		posID = current.ID
	}

	session, err := s.posRepo.FindByIDForUpdateTx(tx, posID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTillClosed
		}
		return nil, storageErr("leer caja", err)
	}
	if !DateOf(session.PosDate).Equal(today) {
		return nil, ErrTillClosed
	}
	return session, nil
}
