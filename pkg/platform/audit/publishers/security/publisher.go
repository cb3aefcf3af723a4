// Package security publishes integrity alerts (hash mismatches, ledger
// corruption, simulated tampering) without blocking the caller.
//
// Events go into a bounded ring buffer and a background loop flushes them to
// the audit store. Under pressure the oldest alerts are dropped and counted;
// the request path never waits on the store.
package security

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "nyaya/pkg/platform/audit"
)

const (
	defaultFlushInterval = 250 * time.Millisecond
	defaultBatchSize     = 64
)

// Publisher buffers security events and flushes them asynchronously.
type Publisher struct {
	store         audit.Store
	buffer        *alertQueue
	logger        *slog.Logger
	flushInterval time.Duration
	batchSize     int
	now           func() time.Time

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithBufferSize bounds the number of pending alerts.
func WithBufferSize(n int) Option {
	return func(p *Publisher) { p.buffer = newAlertQueue(n) }
}

func WithFlushInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.flushInterval = d
		}
	}
}

// New starts the flush loop. Call Close to drain and stop it.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:         store,
		buffer:        newAlertQueue(0),
		logger:        slog.Default(),
		flushInterval: defaultFlushInterval,
		batchSize:     defaultBatchSize,
		now:           time.Now,
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

// Emit enqueues the event and returns immediately.
func (p *Publisher) Emit(_ context.Context, event audit.SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Severity == "" {
		event.Severity = audit.SeverityWarning
	}
	p.buffer.Enqueue(event)
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Dropped reports how many alerts were discarded because the buffer was full.
func (p *Publisher) Dropped() int64 {
	return p.buffer.Dropped()
}

// Close flushes pending events and stops the loop.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
	return nil
}

func (p *Publisher) loop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			p.flush()
			return
		case <-ticker.C:
			p.flush()
		case <-p.wake:
			p.flush()
		}
	}
}

func (p *Publisher) flush() {
	ctx := context.Background()
	for {
		batch := p.buffer.DequeueBatch(p.batchSize)
		if len(batch) == 0 {
			return
		}
		for _, event := range batch {
			if err := p.store.Append(ctx, event.ToEvent()); err != nil {
				p.logger.Error("security audit write failed",
					"action", event.Action,
					"subject", event.Subject,
					"error", err,
				)
			}
		}
	}
}
