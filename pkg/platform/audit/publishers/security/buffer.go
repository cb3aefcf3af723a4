package security

import (
	"sync"

	audit "nyaya/pkg/platform/audit"
)

const defaultQueueCapacity = 1024

// alertQueue is a bounded FIFO of integrity alerts. When full it evicts the
// oldest non-critical alert; critical alerts are evicted only when nothing
// else is queued.
type alertQueue struct {
	mu       sync.Mutex
	events   []audit.SecurityEvent
	capacity int
	dropped  int64
}

func newAlertQueue(capacity int) *alertQueue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &alertQueue{
		events:   make([]audit.SecurityEvent, 0, capacity),
		capacity: capacity,
	}
}

func (q *alertQueue) Enqueue(event audit.SecurityEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) >= q.capacity {
		q.evictLocked()
	}
	q.events = append(q.events, event)
}

func (q *alertQueue) evictLocked() {
	victim := 0
	for i, e := range q.events {
		if e.Severity != audit.SeverityCritical {
			victim = i
			break
		}
	}
	q.events = append(q.events[:victim], q.events[victim+1:]...)
	q.dropped++
}

// DequeueBatch removes up to n alerts in arrival order.
func (q *alertQueue) DequeueBatch(n int) []audit.SecurityEvent {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}
	n = min(n, len(q.events))
	batch := make([]audit.SecurityEvent, n)
	copy(batch, q.events[:n])
	q.events = append(q.events[:0], q.events[n:]...)
	return batch
}

func (q *alertQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped counts evictions since construction.
func (q *alertQueue) Dropped() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
