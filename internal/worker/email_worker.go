package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the invoice PDF to the customer.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dellasoft/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJob is the payload sent to QueueEmail.
type EmailJob struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// InvoiceMailer is satisfied by infra.Mailer.
type InvoiceMailer interface {
	SendInvoice(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer InvoiceMailer
}

func NewEmailWorker(mailer InvoiceMailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends one email. Invalid payloads are dropped; send failures are
// returned so the pool re-queues the job.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if job.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	if err := w.mailer.SendInvoice(job.ToEmail, job.Subject, job.Body, job.PDFPath); err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Str("to", job.ToEmail).Msg("email_worker: SMTP circuit open")
		}
		return fmt.Errorf("email_worker: send to %s: %w", job.ToEmail, err)
	}
	log.Info().Str("to", job.ToEmail).Msg("email_worker: invoice sent")
	return nil
}
