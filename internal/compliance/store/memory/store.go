// Package memory keeps case facts, evidence and compliance records in process
// memory. It backs local development, the CLI and unit tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"nyaya/internal/compliance"
	"nyaya/pkg/domain"
	"nyaya/pkg/platform/sentinel"
	txcontext "nyaya/pkg/platform/tx"
)

// InMemory implements the service evidence and compliance stores.
// Values are copied on the way in and out so callers never share memory with
// the store. Writes made inside a unit of work are undone if it fails.
type InMemory struct {
	mu         sync.RWMutex
	facts      map[domain.CaseID]compliance.CaseFacts
	videos     map[string]compliance.Video
	caseVideos map[domain.CaseID][]string
	tokens     map[string]compliance.VisitToken
	caseTokens map[domain.CaseID][]string
	records    map[domain.CaseID]*compliance.Compliance
}

func New() *InMemory {
	return &InMemory{
		facts:      make(map[domain.CaseID]compliance.CaseFacts),
		videos:     make(map[string]compliance.Video),
		caseVideos: make(map[domain.CaseID][]string),
		tokens:     make(map[string]compliance.VisitToken),
		caseTokens: make(map[domain.CaseID][]string),
		records:    make(map[domain.CaseID]*compliance.Compliance),
	}
}

func (s *InMemory) SaveFacts(ctx context.Context, facts *compliance.CaseFacts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facts[facts.CaseID]; ok {
		return sentinel.ErrConflict
	}
	f := *facts
	f.Sections = append([]string(nil), facts.Sections...)
	s.facts[facts.CaseID] = f
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.facts, f.CaseID)
	})
	return nil
}

func (s *InMemory) FindFacts(_ context.Context, caseID domain.CaseID) (*compliance.CaseFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facts[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	f.Sections = append([]string(nil), f.Sections...)
	return &f, nil
}

// SaveVideo appends a new recording. The latest saved video is the one
// evaluated for its case.
func (s *InMemory) SaveVideo(ctx context.Context, video *compliance.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[video.ID]; ok {
		return sentinel.ErrConflict
	}
	s.videos[video.ID] = *video
	s.caseVideos[video.CaseID] = append(s.caseVideos[video.CaseID], video.ID)
	caseID, id := video.CaseID, video.ID
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.videos, id)
		s.caseVideos[caseID] = dropLast(s.caseVideos[caseID], id)
	})
	return nil
}

func (s *InMemory) FindVideo(_ context.Context, videoID string) (*compliance.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[videoID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &v, nil
}

func (s *InMemory) LatestVideo(_ context.Context, caseID domain.CaseID) (*compliance.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.caseVideos[caseID]
	if len(ids) == 0 {
		return nil, sentinel.ErrNotFound
	}
	v := s.videos[ids[len(ids)-1]]
	return &v, nil
}

func (s *InMemory) SaveVisitToken(ctx context.Context, token *compliance.VisitToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.ID]; ok {
		return sentinel.ErrConflict
	}
	s.tokens[token.ID] = *token
	s.caseTokens[token.CaseID] = append(s.caseTokens[token.CaseID], token.ID)
	caseID, id := token.CaseID, token.ID
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.tokens, id)
		s.caseTokens[caseID] = dropLast(s.caseTokens[caseID], id)
	})
	return nil
}

func (s *InMemory) LatestVisitToken(_ context.Context, caseID domain.CaseID) (*compliance.VisitToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.caseTokens[caseID]
	if len(ids) == 0 {
		return nil, sentinel.ErrNotFound
	}
	t := s.tokens[ids[len(ids)-1]]
	return &t, nil
}

func (s *InMemory) FindCompliance(_ context.Context, caseID domain.CaseID) (*compliance.Compliance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.Clone(), nil
}

// SaveCompliance replaces the record for its case. Last write wins.
func (s *InMemory) SaveCompliance(ctx context.Context, record *compliance.Compliance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	caseID := record.CaseID
	prior, existed := s.records[caseID]
	s.records[caseID] = record.Clone()
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.records[caseID] = prior
			return
		}
		delete(s.records, caseID)
	})
	return nil
}

// ListJudicialReview returns flagged records ordered by case id.
func (s *InMemory) ListJudicialReview(_ context.Context) ([]*compliance.Compliance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*compliance.Compliance
	for _, r := range s.records {
		if r.NeedsJudicialReview() {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CaseID < out[j].CaseID })
	return out, nil
}

// dropLast removes id from the end of ids, where a rolled back append left it.
func dropLast(ids []string, id string) []string {
	if n := len(ids); n > 0 && ids[n-1] == id {
		return ids[:n-1]
	}
	return ids
}
