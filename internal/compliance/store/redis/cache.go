// Package redis caches compliance records in front of a durable store.
// Writes go through to the backing store first; the cache is refreshed only
// after the durable write succeeds and, inside a unit of work, only once the
// unit commits.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"nyaya/internal/compliance"
	"nyaya/pkg/domain"
	txcontext "nyaya/pkg/platform/tx"
)

const (
	recordKeyPrefix = "nyaya:compliance:"
	defaultTTL      = 10 * time.Minute
)

// Backing is the durable store being cached.
type Backing interface {
	FindCompliance(ctx context.Context, caseID domain.CaseID) (*compliance.Compliance, error)
	SaveCompliance(ctx context.Context, record *compliance.Compliance) error
	ListJudicialReview(ctx context.Context) ([]*compliance.Compliance, error)
}

// Cache is a read-through, write-through compliance record cache.
type Cache struct {
	client  *redis.Client
	backing Backing
	ttl     time.Duration
	logger  *slog.Logger
	lookups *prometheus.CounterVec
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithRegisterer exposes hit and miss counters on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Cache) {
		c.lookups = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "nyaya_compliance_cache_lookups_total",
			Help: "Compliance record cache lookups by outcome",
		}, []string{"outcome"})
	}
}

func New(client *redis.Client, backing Backing, opts ...Option) *Cache {
	c := &Cache{client: client, backing: backing, ttl: defaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// FindCompliance serves from Redis when possible. A Redis failure falls back
// to the backing store; it never fails the read.
func (c *Cache) FindCompliance(ctx context.Context, caseID domain.CaseID) (*compliance.Compliance, error) {
	raw, err := c.client.Get(ctx, recordKey(caseID)).Bytes()
	switch {
	case err == nil:
		var record compliance.Compliance
		jsonErr := json.Unmarshal(raw, &record)
		if jsonErr == nil {
			c.observe("hit")
			return &record, nil
		}
		c.warn(ctx, "discarding undecodable cached compliance record", caseID, jsonErr)
	case errors.Is(err, redis.Nil):
	default:
		c.warn(ctx, "compliance cache read failed", caseID, err)
	}
	c.observe("miss")

	record, err := c.backing.FindCompliance(ctx, caseID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, record)
	return record, nil
}

// SaveCompliance writes through to the backing store, then refreshes the cache.
func (c *Cache) SaveCompliance(ctx context.Context, record *compliance.Compliance) error {
	if err := c.backing.SaveCompliance(ctx, record); err != nil {
		// Drop the entry so readers cannot see a record newer than the store.
		c.client.Del(ctx, recordKey(record.CaseID))
		return err
	}
	// Readers fall through to the store until the write is durable.
	c.client.Del(ctx, recordKey(record.CaseID))
	saved := record.Clone()
	txcontext.AfterCommit(ctx, func() {
		c.store(context.WithoutCancel(ctx), saved)
	})
	return nil
}

// ListJudicialReview always reads the backing store.
func (c *Cache) ListJudicialReview(ctx context.Context) ([]*compliance.Compliance, error) {
	return c.backing.ListJudicialReview(ctx)
}

func (c *Cache) store(ctx context.Context, record *compliance.Compliance) {
	body, err := json.Marshal(record)
	if err != nil {
		c.warn(ctx, "compliance cache encode failed", record.CaseID, err)
		return
	}
	if err := c.client.Set(ctx, recordKey(record.CaseID), body, c.ttl).Err(); err != nil {
		c.warn(ctx, "compliance cache write failed", record.CaseID, err)
	}
}

func (c *Cache) observe(outcome string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(outcome).Inc()
	}
}

func (c *Cache) warn(ctx context.Context, msg string, caseID domain.CaseID, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "case_id", caseID, "error", err)
	}
}

func recordKey(caseID domain.CaseID) string {
	return recordKeyPrefix + caseID.String()
}
