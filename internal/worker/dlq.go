package worker

// dlq.go: dead letter queue
// Jobs that run out of attempts are kept in a Redis list per source queue
// (dlq:{queue}) for manual inspection and replay.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DeadJob is one entry of a dead letter queue. OrderID and TransactionID are
// set for invoice jobs so an operator can find the payment without decoding
// the payload.
type DeadJob struct {
	Queue         string          `json:"queue"`
	JobType       string          `json:"job_type"`
	OrderID       string          `json:"order_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	Attempts      int             `json:"attempts"`
	FailedAt      time.Time       `json:"failed_at"`
}

// deadInvoice builds the entry for an invoice that could not be issued.
func deadInvoice(job InvoiceJob, reason string, attempts int, at time.Time) DeadJob {
	payload, _ := json.Marshal(job)
	return DeadJob{
		Queue:         QueueInvoice,
		JobType:       JobInvoice,
		OrderID:       job.OrderID,
		TransactionID: job.TransactionID,
		Payload:       payload,
		Reason:        reason,
		Attempts:      attempts,
		FailedAt:      at.UTC(),
	}
}

// SendToDLQ stores a dead job. A nil client only logs it.
func SendToDLQ(ctx context.Context, rdb *redis.Client, dead DeadJob) {
	if dead.FailedAt.IsZero() {
		dead.FailedAt = time.Now().UTC()
	}
	ev := log.Warn().
		Str("queue", dead.Queue).
		Str("job_type", dead.JobType).
		Str("reason", dead.Reason).
		Int("attempts", dead.Attempts)
	if dead.TransactionID != "" {
		ev = ev.Str("transaction_id", dead.TransactionID)
	}
	if rdb == nil {
		ev.Msg("dlq: no redis client, job dropped")
		return
	}

	data, err := json.Marshal(dead)
	if err != nil {
		log.Error().Err(err).Str("queue", dead.Queue).Msg("dlq: failed to marshal entry")
		return
	}
	key := DLQPrefix + dead.Queue
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed")
		return
	}
	ev.Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a queue's DLQ.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
