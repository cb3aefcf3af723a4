// Package store keeps bail contracts in process memory.
package store

import (
	"context"
	"sort"
	"sync"

	"nyaya/internal/bail"
	"nyaya/pkg/domain"
	"nyaya/pkg/platform/sentinel"
	txcontext "nyaya/pkg/platform/tx"
)

// InMemory holds contracts by transaction id. Writes made inside a unit of
// work are undone if it fails.
type InMemory struct {
	mu        sync.RWMutex
	contracts map[string]*bail.Contract
}

func New() *InMemory {
	return &InMemory{contracts: make(map[string]*bail.Contract)}
}

func (s *InMemory) Create(ctx context.Context, c *bail.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[c.TransactionID]; ok {
		return sentinel.ErrConflict
	}
	txID := c.TransactionID
	s.contracts[txID] = c.Clone()
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.contracts, txID)
	})
	return nil
}

func (s *InMemory) Update(ctx context.Context, c *bail.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior, ok := s.contracts[c.TransactionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	txID := c.TransactionID
	s.contracts[txID] = c.Clone()
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.contracts[txID] = prior
	})
	return nil
}

func (s *InMemory) Find(_ context.Context, txID string) (*bail.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[txID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

// ListByCase returns the contracts for a case, oldest first.
func (s *InMemory) ListByCase(_ context.Context, caseID domain.CaseID) ([]*bail.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*bail.Contract
	for _, c := range s.contracts {
		if c.CaseID == caseID {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TransactionID < out[j].TransactionID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
