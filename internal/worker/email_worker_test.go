package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dellasoft/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []EmailJob
	err  error
}

func (m *fakeMailer) SendInvoice(to, subject, body, pdfPath string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, EmailJob{ToEmail: to, Subject: subject, Body: body, PDFPath: pdfPath})
	return nil
}

func emailPayload(t *testing.T, job EmailJob) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(job)
	require.NoError(t, err)
	return raw
}

func TestEmailWorker_Sends(t *testing.T) {
	m := &fakeMailer{}
	w := NewEmailWorker(m)
	job := EmailJob{ToEmail: "a@b.com", Subject: "s", Body: "b", PDFPath: "/tmp/x.pdf"}

	require.NoError(t, w.Process(context.Background(), emailPayload(t, job)))
	assert.Equal(t, []EmailJob{job}, m.sent)
}

func TestEmailWorker_DropsUnusableJobs(t *testing.T) {
	m := &fakeMailer{}
	w := NewEmailWorker(m)

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{bad`)))
	assert.NoError(t, w.Process(context.Background(), emailPayload(t, EmailJob{Subject: "no recipient"})))
	assert.Empty(t, m.sent)
}

func TestEmailWorker_SendFailureIsReturned(t *testing.T) {
	m := &fakeMailer{err: infra.ErrCircuitOpen}
	w := NewEmailWorker(m)

	err := w.Process(context.Background(), emailPayload(t, EmailJob{ToEmail: "a@b.com"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, infra.ErrCircuitOpen))
}

type countingHandler struct {
	calls int
	err   error
}

func (h *countingHandler) Process(context.Context, json.RawMessage) error {
	h.calls++
	return h.err
}

func encodeJob(t *testing.T, job Job) string {
	t.Helper()
	raw, err := json.Marshal(job)
	require.NoError(t, err)
	return string(raw)
}

// With a nil client the DLQ only logs, so these paths never touch Redis.
func TestProcessJob_Dispatch(t *testing.T) {
	ctx := context.Background()
	h := &countingHandler{}
	handlers := Handlers{JobEmail: h}

	processJob(ctx, nil, QueueEmail, encodeJob(t, Job{Type: JobEmail, Payload: json.RawMessage(`{}`)}), handlers)
	assert.Equal(t, 1, h.calls)

	processJob(ctx, nil, QueueEmail, encodeJob(t, Job{Type: "unknown", Payload: json.RawMessage(`{}`)}), handlers)
	processJob(ctx, nil, QueueEmail, "not json", handlers)
	assert.Equal(t, 1, h.calls)
}

func TestProcessJob_ExhaustedJobGoesToDLQ(t *testing.T) {
	h := &countingHandler{err: errors.New("smtp down")}
	job := Job{Type: JobEmail, Payload: json.RawMessage(`{}`), Attempts: maxJobAttempts - 1}

	processJob(context.Background(), nil, QueueEmail, encodeJob(t, job), Handlers{JobEmail: h})
	assert.Equal(t, 1, h.calls)
}

func TestNextPollBackoff(t *testing.T) {
	var d time.Duration
	var seen []time.Duration
	for i := 0; i < 7; i++ {
		d = nextPollBackoff(d)
		seen = append(seen, d)
	}
	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 30 * time.Second, 30 * time.Second,
	}, seen)
}

func TestDispatcher_NilClientDropsJobs(t *testing.T) {
	var d *Dispatcher
	assert.NoError(t, d.EnqueueInvoice(context.Background(), InvoiceJob{OrderID: "x"}))
	assert.NoError(t, NewDispatcher(nil).EnqueueEmail(context.Background(), EmailJob{ToEmail: "a@b.com"}))
}
