package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/audit/store/memory"
)

func TestPublisherDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := New(store)

	for i := 0; i < 10; i++ {
		pub.Emit(context.Background(), audit.SecurityEvent{
			Subject: "FIR-9",
			Action:  audit.EventVideoHashMismatch,
		})
	}
	require.NoError(t, pub.Close())

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 10)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
	assert.Equal(t, string(audit.SeverityWarning), events[0].Decision)
}

func TestAlertQueueEvictsWarningsBeforeCritical(t *testing.T) {
	q := newAlertQueue(2)
	q.Enqueue(audit.SecurityEvent{Subject: "1", Severity: audit.SeverityCritical})
	q.Enqueue(audit.SecurityEvent{Subject: "2", Severity: audit.SeverityWarning})
	q.Enqueue(audit.SecurityEvent{Subject: "3", Severity: audit.SeverityWarning})

	assert.Equal(t, int64(1), q.Dropped())
	batch := q.DequeueBatch(10)
	require.Len(t, batch, 2)
	assert.Equal(t, "1", batch[0].Subject)
	assert.Equal(t, "3", batch[1].Subject)
	assert.Zero(t, q.Len())
}

func TestAlertQueueAllCriticalDropsOldest(t *testing.T) {
	q := newAlertQueue(2)
	for _, s := range []string{"1", "2", "3"} {
		q.Enqueue(audit.SecurityEvent{Subject: s, Severity: audit.SeverityCritical})
	}

	batch := q.DequeueBatch(1)
	require.Len(t, batch, 1)
	assert.Equal(t, "2", batch[0].Subject)
	assert.Equal(t, 1, q.Len())
	assert.Nil(t, newAlertQueue(0).DequeueBatch(5))
}
