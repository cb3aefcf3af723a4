// Package compliance writes legally significant case events to the audit
// store and fails the caller when the write fails. In production the store is
// the postgres outbox, so an accepted event is guaranteed to reach Kafka.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "nyaya/pkg/platform/audit"
	"nyaya/pkg/requestcontext"
)

// Publisher is the fail-closed sink for case, override, charge sheet and bail
// events. Integrity alerts belong to the security publisher and are refused.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit persists event before returning. A non-nil error means nothing was
// written and the caller's operation must not be reported as done.
// Missing timestamps come from the request clock.
func (p *Publisher) Emit(ctx context.Context, event audit.ComplianceEvent) error {
	start := time.Now()

	switch {
	case event.CaseID.IsNil():
		return fmt.Errorf("compliance event %q requires a case id", event.Action)
	case event.Action == "":
		return fmt.Errorf("compliance event for case %s requires an action", event.CaseID)
	case event.Action.Category() != audit.CategoryCompliance:
		return fmt.Errorf("event %q is %s, not compliance", event.Action, event.Action.Category())
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}

	if err := p.store.Append(ctx, event.ToEvent()); err != nil {
		p.metrics.IncPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: compliance audit failed",
				"action", event.Action,
				"case_id", event.CaseID,
				"error", err,
			)
		}
		return fmt.Errorf("compliance audit persistence failed: %w", err)
	}

	p.metrics.ObservePersistDuration(time.Since(start).Seconds())
	p.metrics.IncEventsEmitted()
	return nil
}
