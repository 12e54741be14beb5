package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dellasoft/internal/infra"
	"dellasoft/internal/model"
	"dellasoft/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

// Embedding the interfaces leaves unused methods nil; the worker only calls
// the ones overridden here.
type fakeOrders struct {
	repository.OrderRepository
	order *model.Order
}

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f.order
	return &cp, nil
}

type fakeTransactions struct {
	repository.TransactionRepository
	rows []model.Transaction
}

func (f *fakeTransactions) ListByOrder(_ context.Context, _ uuid.UUID) ([]model.Transaction, error) {
	return f.rows, nil
}

type fakeInvoices struct {
	repository.InvoiceRepository
	rows map[uuid.UUID]*model.Invoice // by transaction id
}

func (f *fakeInvoices) Create(_ context.Context, inv *model.Invoice) error {
	if _, ok := f.rows[inv.TransactionID]; ok {
		return gorm.ErrDuplicatedKey
	}
	inv.ID = uuid.New()
	f.rows[inv.TransactionID] = inv
	return nil
}

func (f *fakeInvoices) FindByTransactionID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (f *fakeInvoices) Update(_ context.Context, inv *model.Invoice) error {
	f.rows[inv.TransactionID] = inv
	return nil
}

func (f *fakeInvoices) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range f.rows {
		if inv.Status == model.InvoicePending && inv.NextRetryAt != nil && !inv.NextRetryAt.After(now) && len(out) < limit {
			out = append(out, *inv)
		}
	}
	return out, nil
}

type fakeLocker struct{ keys []string }

func (l *fakeLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.keys = append(l.keys, key)
	return fn(ctx)
}

type fakeEmails struct{ jobs []EmailJob }

func (e *fakeEmails) EnqueueEmail(_ context.Context, job EmailJob) error {
	e.jobs = append(e.jobs, job)
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

var issuedAt = time.Date(2026, time.March, 14, 11, 0, 0, 0, time.UTC)

type invoiceFixture struct {
	order    *model.Order
	payment  model.Transaction
	ledger   *fakeTransactions
	invoices *fakeInvoices
	locker   *fakeLocker
	emails   *fakeEmails
	renders  int
	failWith error
	worker   *InvoiceWorker
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	email := "marta@example.com"
	f := &invoiceFixture{
		order: &model.Order{
			ID:         uuid.New(),
			TotalOrder: 10000,
			TotalPaid:  4000,
			Customer:   &model.Customer{Name: "Marta", LastName: "Gómez", Email: &email},
			Items: []model.ProductOrder{
				{Quantity: 2, UnitPrice: 5000, Subtotal: 10000, Product: &model.Product{Name: "Torta"}},
			},
		},
		invoices: &fakeInvoices{rows: map[uuid.UUID]*model.Invoice{}},
		locker:   &fakeLocker{},
		emails:   &fakeEmails{},
	}
	f.payment = model.Transaction{ID: uuid.New(), Amount: 4000, TransactionDate: issuedAt.Add(-time.Hour)}
	f.ledger = &fakeTransactions{rows: []model.Transaction{f.payment}}
	f.worker = NewInvoiceWorker(InvoiceWorkerConfig{
		Orders:       &fakeOrders{order: f.order},
		Transactions: f.ledger,
		Invoices:     f.invoices,
		Locker:       f.locker,
		Emails:       f.emails,
		StoragePath:  "/tmp/pdfs",
		Business:     "Panadería Della",
		Render: func(doc infra.InvoiceDocument, _ string) (string, error) {
			f.renders++
			if f.failWith != nil {
				return "", f.failWith
			}
			return infra.InvoiceFileName(doc.OrderID, doc.TransactionID), nil
		},
		Now: func() time.Time { return issuedAt },
	})
	return f
}

func (f *invoiceFixture) job(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(InvoiceJob{OrderID: f.order.ID.String(), TransactionID: f.payment.ID.String()})
	require.NoError(t, err)
	return raw
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestInvoiceWorker_IssuesAndEnqueuesEmail(t *testing.T) {
	f := newInvoiceFixture(t)

	require.NoError(t, f.worker.Process(context.Background(), f.job(t)))

	inv := f.invoices.rows[f.payment.ID]
	require.NotNil(t, inv)
	assert.Equal(t, model.InvoiceIssued, inv.Status)
	require.NotNil(t, inv.PDFPath)
	assert.Contains(t, *inv.PDFPath, "factura_")
	assert.Equal(t, []string{"invoice:" + f.order.ID.String()}, f.locker.keys)

	require.Len(t, f.emails.jobs, 1)
	assert.Equal(t, "marta@example.com", f.emails.jobs[0].ToEmail)
	assert.Contains(t, f.emails.jobs[0].Body, "$60.00")
}

func TestInvoiceWorker_IdempotentPerTransaction(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.worker.Process(ctx, f.job(t)))
	require.NoError(t, f.worker.Process(ctx, f.job(t)))
	assert.Equal(t, 1, f.renders)
	assert.Len(t, f.emails.jobs, 1)
}

func TestInvoiceWorker_RenderFailureSchedulesRetry(t *testing.T) {
	f := newInvoiceFixture(t)
	f.failWith = errors.New("disk full")
	ctx := context.Background()

	require.NoError(t, f.worker.Process(ctx, f.job(t)))
	inv := f.invoices.rows[f.payment.ID]
	assert.Equal(t, model.InvoicePending, inv.Status)
	assert.Equal(t, 1, inv.RetryCount)
	require.NotNil(t, inv.NextRetryAt)
	assert.Equal(t, issuedAt.Add(30*time.Second), *inv.NextRetryAt)
	assert.Empty(t, f.emails.jobs)

	// not due yet
	assert.Equal(t, 0, f.worker.RetryPending(ctx, 10))

	f.worker.cfg.Now = func() time.Time { return issuedAt.Add(time.Minute) }
	f.failWith = nil
	assert.Equal(t, 1, f.worker.RetryPending(ctx, 10))
	assert.Equal(t, model.InvoiceIssued, f.invoices.rows[f.payment.ID].Status)
	assert.Nil(t, f.invoices.rows[f.payment.ID].NextRetryAt)
}

func TestInvoiceWorker_GivesUpAfterMaxRetries(t *testing.T) {
	f := newInvoiceFixture(t)
	f.failWith = errors.New("font missing")
	ctx := context.Background()

	require.NoError(t, f.worker.Process(ctx, f.job(t)))
	for i := 1; i < MaxInvoiceRetries; i++ {
		inv := f.invoices.rows[f.payment.ID]
		require.NoError(t, f.worker.issue(ctx, inv))
	}
	inv := f.invoices.rows[f.payment.ID]
	assert.Equal(t, model.InvoiceError, inv.Status)
	assert.Equal(t, MaxInvoiceRetries, inv.RetryCount)
	assert.Nil(t, inv.NextRetryAt)
	require.NotNil(t, inv.LastError)
	assert.Equal(t, "font missing", *inv.LastError)
}

func TestInvoiceWorker_UnknownOrderIsPermanent(t *testing.T) {
	f := newInvoiceFixture(t)
	raw, _ := json.Marshal(InvoiceJob{OrderID: uuid.NewString(), TransactionID: uuid.NewString()})

	require.NoError(t, f.worker.Process(context.Background(), raw))
	require.Len(t, f.invoices.rows, 1)
	for _, inv := range f.invoices.rows {
		assert.Equal(t, model.InvoiceError, inv.Status)
	}
	assert.Zero(t, f.renders)
}

func TestInvoiceWorker_MissingTransactionIsPermanent(t *testing.T) {
	f := newInvoiceFixture(t)
	f.ledger.rows = nil

	require.NoError(t, f.worker.Process(context.Background(), f.job(t)))
	inv := f.invoices.rows[f.payment.ID]
	require.NotNil(t, inv)
	assert.Equal(t, model.InvoiceError, inv.Status)
	assert.Nil(t, inv.PDFPath)
	assert.Zero(t, f.renders)
	assert.Empty(t, f.emails.jobs)
}

func TestInvoiceWorker_RetryPrintsBalanceAtPaymentTime(t *testing.T) {
	f := newInvoiceFixture(t)
	var printed infra.InvoiceDocument
	f.worker.cfg.Render = func(doc infra.InvoiceDocument, _ string) (string, error) {
		printed = doc
		return "factura.pdf", nil
	}
	// a second payment landed before this invoice got rendered
	f.order.TotalPaid = 7000
	f.ledger.rows = append(f.ledger.rows, model.Transaction{ID: uuid.New(), Amount: 3000, TransactionDate: issuedAt.Add(-time.Minute)})

	require.NoError(t, f.worker.Process(context.Background(), f.job(t)))
	assert.Equal(t, int64(4000), printed.Payment)
	assert.Equal(t, int64(4000), printed.TotalPaid)
	require.Len(t, f.emails.jobs, 1)
	assert.Contains(t, f.emails.jobs[0].Body, "Saldo pendiente: $60.00")
}

func TestPaidUpTo(t *testing.T) {
	base := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	first := model.Transaction{ID: uuid.New(), Amount: 1000, TransactionDate: base}
	second := model.Transaction{ID: uuid.New(), Amount: 2500, TransactionDate: base.Add(time.Hour)}
	third := model.Transaction{ID: uuid.New(), Amount: 500, TransactionDate: base.Add(2 * time.Hour)}
	ledger := []model.Transaction{third, first, second}

	assert.Equal(t, int64(1000), PaidUpTo(ledger, &first))
	assert.Equal(t, int64(3500), PaidUpTo(ledger, &second))
	assert.Equal(t, int64(4000), PaidUpTo(ledger, &third))
}

func TestDeadInvoice(t *testing.T) {
	job := InvoiceJob{OrderID: uuid.NewString(), TransactionID: uuid.NewString()}
	dead := deadInvoice(job, "font missing", MaxInvoiceRetries, issuedAt)

	assert.Equal(t, QueueInvoice, dead.Queue)
	assert.Equal(t, JobInvoice, dead.JobType)
	assert.Equal(t, job.OrderID, dead.OrderID)
	assert.Equal(t, job.TransactionID, dead.TransactionID)
	assert.Equal(t, MaxInvoiceRetries, dead.Attempts)
	assert.Equal(t, issuedAt, dead.FailedAt)

	var back InvoiceJob
	require.NoError(t, json.Unmarshal(dead.Payload, &back))
	assert.Equal(t, job, back)

	raw, err := json.Marshal(dead)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"transaction_id":"`+job.TransactionID+`"`)
}

func TestInvoiceWorker_MalformedPayloadIsDropped(t *testing.T) {
	f := newInvoiceFixture(t)
	assert.NoError(t, f.worker.Process(context.Background(), json.RawMessage(`{"order_id":"x"}`)))
	assert.NoError(t, f.worker.Process(context.Background(), json.RawMessage(`not json`)))
	assert.Empty(t, f.invoices.rows)
}

func TestRetryBackoff(t *testing.T) {
	cases := map[int]time.Duration{
		0:  30 * time.Second,
		1:  30 * time.Second,
		2:  time.Minute,
		3:  2 * time.Minute,
		5:  8 * time.Minute,
		6:  16 * time.Minute,
		7:  30 * time.Minute,
		20: 30 * time.Minute,
	}
	for attempt, want := range cases {
		assert.Equal(t, want, RetryBackoff(attempt), "attempt %d", attempt)
	}
}

func TestBuildInvoiceDocument(t *testing.T) {
	delivery := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	order := &model.Order{
		ID:           uuid.New(),
		TotalOrder:   3600,
		TotalPaid:    3600,
		DeliveryDate: &delivery,
		Customer:     &model.Customer{Name: "Julio"},
		Items:        []model.ProductOrder{{Quantity: 3, UnitPrice: 1200, Subtotal: 3600}},
	}
	payment := &model.Transaction{ID: uuid.New(), Amount: 3600}

	doc := BuildInvoiceDocument("Della", order, payment, 3600, issuedAt)
	assert.Equal(t, "Julio", doc.Customer)
	assert.Equal(t, int64(3600), doc.Payment)
	assert.Equal(t, int64(3600), doc.TotalPaid)
	assert.Equal(t, &delivery, doc.DeliveryDate)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "", doc.Lines[0].Product)
	assert.Equal(t, int64(3), doc.Lines[0].Quantity)
}
