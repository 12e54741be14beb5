package worker

// retry_cron.go
// Background goroutine that periodically re-renders invoices stuck in
// status 'pendiente' with a next_retry_at in the past.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// StartRetryCron ticks every 30s until ctx is cancelled.
func StartRetryCron(ctx context.Context, w *InvoiceWorker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				if n := w.RetryPending(ctx, retryBatchSize); n > 0 {
					log.Info().Int("count", n).Msg("retry_cron: processed pending invoices")
				}
			}
		}
	}()
}
