package memory

import (
	"context"
	"slices"
	"sync"

	"nyaya/pkg/domain"
	audit "nyaya/pkg/platform/audit"
	txcontext "nyaya/pkg/platform/tx"
)

// InMemoryStore keeps events in process, in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	byCase map[domain.CaseID][]int
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.byCase = make(map[domain.CaseID][]int)
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byCase: make(map[domain.CaseID][]int)}
}

// Append records event. Inside a unit of work the event becomes visible only
// once the unit commits, the way an outbox row does.
func (s *InMemoryStore) Append(ctx context.Context, event audit.Event) error {
	txcontext.AfterCommit(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.events = append(s.events, event)
		if !event.CaseID.IsNil() {
			s.byCase[event.CaseID] = append(s.byCase[event.CaseID], len(s.events)-1)
		}
	})
	return nil
}

// ListByCase returns a case's events oldest first.
func (s *InMemoryStore) ListByCase(_ context.Context, caseID domain.CaseID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.byCase[caseID]
	out := make([]audit.Event, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.events[i])
	}
	return out, nil
}

// ListAll returns every event oldest first.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events), nil
}

// ListRecent returns the most recent N events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.events) - limit
	if start < 0 || limit <= 0 {
		start = 0
	}
	out := slices.Clone(s.events[start:])
	slices.Reverse(out)
	return out, nil
}
