package worker

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyaya/internal/platform/kafka/producer"
	audit "nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/audit/store/postgres"
	txcontext "nyaya/pkg/platform/tx"
)

type fakeOutbox struct {
	db      *sql.DB
	entries []postgres.OutboxEntry
	marked  []uuid.UUID
	sawTx   bool
}

func (o *fakeOutbox) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return o.db.BeginTx(ctx, nil)
}

func (o *fakeOutbox) FetchUnpublished(ctx context.Context, limit int) ([]postgres.OutboxEntry, error) {
	_, o.sawTx = txcontext.From(ctx)
	return o.entries[:min(limit, len(o.entries))], nil
}

func (o *fakeOutbox) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	o.marked = append(o.marked, ids...)
	return nil
}

type fakePublisher struct {
	msgs []producer.Message
	err  error
}

func (p *fakePublisher) PublishSync(_ context.Context, msgs ...producer.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

var topics = Topics{
	audit.CategoryCompliance: "nyaya.audit.compliance",
	audit.CategorySecurity:   "nyaya.audit.security",
	audit.CategoryOperations: "nyaya.audit.compliance",
}

func newOutbox(t *testing.T) (*fakeOutbox, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &fakeOutbox{db: db, entries: []postgres.OutboxEntry{
		{ID: uuid.New(), AggregateID: "FIR-1", EventType: string(audit.EventVideoRecorded), Payload: []byte(`{}`)},
		{ID: uuid.New(), AggregateID: "FIR-1", EventType: string(audit.EventVideoHashMismatch), Payload: []byte(`{}`)},
		{ID: uuid.New(), AggregateID: "FIR-2", EventType: "something_new", Payload: []byte(`{}`)},
	}}, mock
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRelayOnceRoutesByCategory(t *testing.T) {
	outbox, mock := newOutbox(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	pub := &fakePublisher{}

	n, err := NewWorker(outbox, pub, topics, discard()).RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, outbox.sawTx)
	require.Len(t, pub.msgs, 3)
	assert.Equal(t, "nyaya.audit.compliance", pub.msgs[0].Topic)
	assert.Equal(t, "nyaya.audit.security", pub.msgs[1].Topic)
	assert.Equal(t, "nyaya.audit.compliance", pub.msgs[2].Topic)
	assert.Equal(t, "FIR-1", pub.msgs[0].Headers["aggregate_id"])
	assert.Len(t, outbox.marked, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelayOnceHonoursBatchSize(t *testing.T) {
	outbox, mock := newOutbox(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	pub := &fakePublisher{}

	n, err := NewWorker(outbox, pub, topics, discard(), WithBatchSize(2)).RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, pub.msgs, 2)
}

func TestRelayOncePublishFailureRollsBack(t *testing.T) {
	outbox, mock := newOutbox(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	n, err := NewWorker(outbox, &fakePublisher{err: errors.New("broker down")}, topics, discard()).
		RelayOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.Empty(t, outbox.marked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelayOnceEmptyOutboxCommits(t *testing.T) {
	outbox, mock := newOutbox(t)
	outbox.entries = nil
	mock.ExpectBegin()
	mock.ExpectCommit()

	n, err := NewWorker(outbox, &fakePublisher{}, topics, discard()).RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
