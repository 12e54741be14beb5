package worker

// invoice_worker.go
// Processes invoice jobs from QueueInvoice. Each committed payment produces
// one job; the worker renders the order invoice PDF, records it in the
// invoices table and, when the customer has an email, enqueues an email job.
// A Redis lock per order keeps two workers from rendering the same order at
// once. Render failures are scheduled for the retry cron with backoff.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"dellasoft/internal/infra"
	"dellasoft/internal/model"
	"dellasoft/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// MaxInvoiceRetries is the number of failed renders after which an
	// invoice is marked as error and sent to the DLQ.
	MaxInvoiceRetries = 5

	retryBaseDelay = 30 * time.Second
	retryMaxDelay  = 30 * time.Minute
)

// errPaymentMissing means the invoiced transaction is not in the order's ledger.
var errPaymentMissing = errors.New("invoice_worker: transaction not in order ledger")

// InvoiceJob is the payload sent to QueueInvoice.
type InvoiceJob struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
}

// Locker serializes work per key across worker instances. infra.Locker
// satisfies it.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// EmailQueue receives the follow-up email job.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, job EmailJob) error
}

type InvoiceWorkerConfig struct {
	Orders       repository.OrderRepository
	Transactions repository.TransactionRepository
	Invoices     repository.InvoiceRepository
	Locker       Locker
	Emails       EmailQueue
	// DLQ receives invoices that ran out of retries; nil only logs them
	DLQ         *redis.Client
	StoragePath string
	Business    string
	// Render defaults to infra.GenerateInvoicePDF
	Render func(doc infra.InvoiceDocument, storagePath string) (string, error)
	Now    func() time.Time
}

type InvoiceWorker struct {
	cfg InvoiceWorkerConfig
}

func NewInvoiceWorker(cfg InvoiceWorkerConfig) *InvoiceWorker {
	if cfg.Render == nil {
		cfg.Render = infra.GenerateInvoicePDF
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &InvoiceWorker{cfg: cfg}
}

// Process handles one invoice job. It is idempotent per transaction: an
// already issued invoice is left alone.
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job InvoiceJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return nil
	}
	orderID, err1 := uuid.Parse(job.OrderID)
	txID, err2 := uuid.Parse(job.TransactionID)
	if err1 != nil || err2 != nil {
		log.Error().Str("order_id", job.OrderID).Str("transaction_id", job.TransactionID).Msg("invoice_worker: invalid ids")
		return nil
	}

	return w.locked(ctx, orderID, func(ctx context.Context) error {
		inv, err := w.cfg.Invoices.FindByTransactionID(ctx, txID)
		switch {
		case err == nil:
			if inv.Status != model.InvoicePending {
				return nil
			}
		case repository.IsNotFound(err):
			inv = &model.Invoice{OrderID: orderID, TransactionID: txID, Status: model.InvoicePending}
			if err := w.cfg.Invoices.Create(ctx, inv); err != nil {
				if repository.IsUniqueViolation(err) {
					return nil // another worker got here first
				}
				return fmt.Errorf("invoice_worker: create invoice: %w", err)
			}
		default:
			return fmt.Errorf("invoice_worker: find invoice: %w", err)
		}
		return w.issue(ctx, inv)
	})
}

// RetryPending re-renders pending invoices whose next attempt is due.
// Returns how many were processed.
func (w *InvoiceWorker) RetryPending(ctx context.Context, batch int) int {
	due, err := w.cfg.Invoices.ListPendingRetries(ctx, w.cfg.Now(), batch)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending invoices")
		return 0
	}
	for i := range due {
		inv := &due[i]
		err := w.locked(ctx, inv.OrderID, func(ctx context.Context) error {
			return w.issue(ctx, inv)
		})
		if err != nil {
			log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("retry_cron: invoice retry skipped")
		}
	}
	return len(due)
}

func (w *InvoiceWorker) locked(ctx context.Context, orderID uuid.UUID, fn func(ctx context.Context) error) error {
	if w.cfg.Locker == nil {
		return fn(ctx)
	}
	return w.cfg.Locker.WithLock(ctx, "invoice:"+orderID.String(), fn)
}

// issue renders inv and persists the outcome. Render failures are recorded on
// the invoice and do not return an error; only storage failures do.
func (w *InvoiceWorker) issue(ctx context.Context, inv *model.Invoice) error {
	order, err := w.cfg.Orders.FindByID(ctx, inv.OrderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return w.fail(ctx, inv, fmt.Errorf("pedido %s no encontrado", inv.OrderID), true)
		}
		return fmt.Errorf("invoice_worker: load order: %w", err)
	}
	payment, paidToDate, err := w.payment(ctx, inv)
	if err != nil {
		if errors.Is(err, errPaymentMissing) {
			return w.fail(ctx, inv, fmt.Errorf("transacción %s no encontrada", inv.TransactionID), true)
		}
		return fmt.Errorf("invoice_worker: load transaction: %w", err)
	}

	doc := BuildInvoiceDocument(w.cfg.Business, order, payment, paidToDate, w.cfg.Now())
	fileName, err := w.cfg.Render(doc, w.cfg.StoragePath)
	if err != nil {
		return w.fail(ctx, inv, err, false)
	}

	inv.Status = model.InvoiceIssued
	inv.PDFPath = &fileName
	inv.NextRetryAt = nil
	inv.LastError = nil
	if err := w.cfg.Invoices.Update(ctx, inv); err != nil {
		return fmt.Errorf("invoice_worker: update invoice: %w", err)
	}
	log.Info().Str("order_id", order.ID.String()).Str("pdf", fileName).Msg("invoice_worker: invoice issued")

	if order.Customer != nil && order.Customer.Email != nil && *order.Customer.Email != "" && w.cfg.Emails != nil {
		job := EmailJob{
			ToEmail: *order.Customer.Email,
			Subject: fmt.Sprintf("%s: comprobante de pago", w.cfg.Business),
			Body: fmt.Sprintf("Hola %s,\nAdjuntamos el comprobante de tu pago de %s.\nSaldo pendiente: %s",
				order.Customer.Name, infra.FormatMoney(payment.Amount), infra.FormatMoney(doc.TotalOrder-doc.TotalPaid)),
			PDFPath: filepath.Join(w.cfg.StoragePath, fileName),
		}
		if err := w.cfg.Emails.EnqueueEmail(ctx, job); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("invoice_worker: failed to enqueue email")
		}
	}
	return nil
}

// payment returns the invoiced transaction and what the order had paid once
// it was recorded, so a late retry still prints the balance of that moment.
func (w *InvoiceWorker) payment(ctx context.Context, inv *model.Invoice) (*model.Transaction, int64, error) {
	txs, err := w.cfg.Transactions.ListByOrder(ctx, inv.OrderID)
	if err != nil {
		return nil, 0, err
	}
	var payment *model.Transaction
	for i := range txs {
		if txs[i].ID == inv.TransactionID {
			payment = &txs[i]
			break
		}
	}
	if payment == nil {
		return nil, 0, errPaymentMissing
	}
	return payment, PaidUpTo(txs, payment), nil
}

// PaidUpTo sums the order's transactions recorded no later than payment,
// payment included.
func PaidUpTo(txs []model.Transaction, payment *model.Transaction) int64 {
	var paid int64
	for i := range txs {
		if txs[i].ID == payment.ID || !txs[i].TransactionDate.After(payment.TransactionDate) {
			paid += txs[i].Amount
		}
	}
	return paid
}

// fail schedules the next attempt, or gives up when retries are exhausted
// (or permanent is set) and moves the job to the DLQ.
func (w *InvoiceWorker) fail(ctx context.Context, inv *model.Invoice, cause error, permanent bool) error {
	inv.RetryCount++
	msg := cause.Error()
	inv.LastError = &msg

	if permanent || inv.RetryCount >= MaxInvoiceRetries {
		inv.Status = model.InvoiceError
		inv.NextRetryAt = nil
		job := InvoiceJob{OrderID: inv.OrderID.String(), TransactionID: inv.TransactionID.String()}
		SendToDLQ(ctx, w.cfg.DLQ, deadInvoice(job, msg, inv.RetryCount, w.cfg.Now()))
	} else {
		next := w.cfg.Now().Add(RetryBackoff(inv.RetryCount))
		inv.NextRetryAt = &next
		log.Warn().
			Err(cause).
			Str("invoice_id", inv.ID.String()).
			Int("retry_count", inv.RetryCount).
			Time("next_retry_at", next).
			Msg("invoice_worker: render failed, scheduled retry")
	}

	if err := w.cfg.Invoices.Update(ctx, inv); err != nil {
		return fmt.Errorf("invoice_worker: update invoice: %w", err)
	}
	return nil
}

// RetryBackoff doubles from 30s per attempt, capped at 30 minutes.
func RetryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := retryBaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= retryMaxDelay {
			return retryMaxDelay
		}
	}
	return d
}

// BuildInvoiceDocument maps an order and the payment being invoiced to the
// printable document. paidToDate is the order's paid total right after payment.
func BuildInvoiceDocument(business string, order *model.Order, payment *model.Transaction, paidToDate int64, issuedAt time.Time) infra.InvoiceDocument {
	doc := infra.InvoiceDocument{
		Business:      business,
		OrderID:       order.ID.String(),
		TransactionID: payment.ID.String(),
		IssuedAt:      issuedAt,
		DeliveryDate:  order.DeliveryDate,
		TotalOrder:    order.TotalOrder,
		Payment:       payment.Amount,
		TotalPaid:     paidToDate,
	}
	if order.Customer != nil {
		doc.Customer = order.Customer.FullName()
	}
	for _, it := range order.Items {
		line := infra.InvoiceLine{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Subtotal: it.Subtotal}
		if it.Product != nil {
			line.Product = it.Product.Name
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc
}
