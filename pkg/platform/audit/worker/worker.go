// Package worker relays audit outbox rows to Kafka.
package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nyaya/internal/platform/kafka/producer"
	audit "nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/audit/store/postgres"
	txcontext "nyaya/pkg/platform/tx"
)

// Outbox is the subset of the postgres audit store the relay needs.
type Outbox interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
	FetchUnpublished(ctx context.Context, limit int) ([]postgres.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Publisher sends records to the broker.
type Publisher interface {
	PublishSync(ctx context.Context, msgs ...producer.Message) error
}

// Topics maps event categories to Kafka topics.
type Topics map[audit.EventCategory]string

// Worker polls the outbox and publishes pending rows. Each batch is fetched,
// published and marked inside one transaction, so a crash before commit
// republishes rather than loses events.
type Worker struct {
	outbox    Outbox
	publisher Publisher
	topics    Topics
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

type Option func(*Worker)

// WithInterval sets the poll period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithBatchSize caps rows relayed per transaction. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func NewWorker(outbox Outbox, publisher Publisher, topics Topics, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		publisher: publisher,
		topics:    topics,
		interval:  time.Second,
		batchSize: 100,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := w.RelayOnce(ctx)
			if err != nil {
				w.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
				continue
			}
			if n > 0 {
				w.logger.DebugContext(ctx, "outbox relayed", "count", n)
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many rows it relayed.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	relayed := 0
	err := txcontext.Run(ctx, w.outbox, func(txCtx context.Context) error {
		entries, err := w.outbox.FetchUnpublished(txCtx, w.batchSize)
		if err != nil || len(entries) == 0 {
			return err
		}

		msgs := make([]producer.Message, 0, len(entries))
		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			msgs = append(msgs, producer.Message{
				Topic:   w.topicFor(e.EventType),
				Key:     []byte(e.ID.String()),
				Value:   e.Payload,
				Headers: map[string]string{"aggregate_id": e.AggregateID, "event_type": e.EventType},
			})
			ids = append(ids, e.ID)
		}

		if err := w.publisher.PublishSync(ctx, msgs...); err != nil {
			return err
		}
		if err := w.outbox.MarkPublished(txCtx, ids); err != nil {
			return err
		}
		relayed = len(entries)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("relay outbox: %w", err)
	}
	return relayed, nil
}

// topicFor routes by event category; unknown categories go to the operations topic.
func (w *Worker) topicFor(eventType string) string {
	if topic, ok := w.topics[audit.AuditEvent(eventType).Category()]; ok {
		return topic
	}
	return w.topics[audit.CategoryOperations]
}
