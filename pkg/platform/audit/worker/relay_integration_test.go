//go:build integration

package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkaconsumer "nyaya/internal/platform/kafka/consumer"
	"nyaya/internal/platform/kafka/producer"
	"nyaya/pkg/domain"
	audit "nyaya/pkg/platform/audit"
	auditconsumer "nyaya/pkg/platform/audit/consumer"
	compliancepub "nyaya/pkg/platform/audit/publishers/compliance"
	"nyaya/pkg/platform/audit/store/postgres"
	"nyaya/pkg/platform/audit/worker"
	"nyaya/pkg/testutil/containers"
)

// The full audit path: fail-closed emit into the outbox, relay to Kafka,
// consume and materialize into audit_events.
func TestOutboxRelayMaterializesEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pg := containers.GetManager().GetPostgres(t)
	require.NoError(t, pg.TruncateTables(ctx, "outbox", "audit_events"))
	broker := containers.GetManager().GetRedpanda(t)

	store := postgres.New(pg.DB)
	caseID := domain.CaseID("FIR-RELAY-" + uuid.NewString()[:8])
	require.NoError(t, compliancepub.New(store).Emit(ctx, audit.ComplianceEvent{
		CaseID:   caseID,
		Action:   audit.EventOverrideRequested,
		Decision: "OVERRIDE_PENDING",
		ActorID:  "IO-7",
	}))

	topic := "nyaya.audit.compliance." + uuid.NewString()[:8]
	prod, err := producer.New(ctx, broker.Brokers)
	require.NoError(t, err)
	defer prod.Close()
	require.NoError(t, prod.EnsureTopics(ctx, producer.TopicSpec{Name: topic}))

	relay := worker.NewWorker(store, prod, worker.Topics{
		audit.CategoryCompliance: topic,
		audit.CategorySecurity:   topic,
		audit.CategoryOperations: topic,
	}, logger)

	n, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "published rows must not be relayed twice")

	router := auditconsumer.NewRouter(logger).Route(topic, auditconsumer.NewComplianceHandler(store, logger))
	cons, err := kafkaconsumer.New(kafkaconsumer.Config{
		Brokers: broker.Brokers,
		GroupID: "relay-test-" + uuid.NewString(),
		Topics:  router.Topics(),
	}, router, logger)
	require.NoError(t, err)
	defer cons.Close()

	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = cons.Run(consumeCtx) }()

	require.Eventually(t, func() bool {
		events, err := store.ListByCase(ctx, caseID)
		return err == nil && len(events) == 1
	}, 30*time.Second, 250*time.Millisecond)

	events, err := store.ListByCase(ctx, caseID)
	require.NoError(t, err)
	assert.Equal(t, string(audit.EventOverrideRequested), events[0].Action)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, "IO-7", events[0].ActorID)
}
