package service

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"

	"nyaya/internal/compliance"
	"nyaya/internal/compliance/metrics"
	"nyaya/internal/ledger"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	txcontext "nyaya/pkg/platform/tx"
	"nyaya/pkg/requestcontext"
)

// EvidenceStore holds case facts and the evidence records attached to a case.
// Video and token records are immutable; saving an existing id is a conflict.
type EvidenceStore interface {
	SaveFacts(ctx context.Context, facts *compliance.CaseFacts) error
	FindFacts(ctx context.Context, caseID domain.CaseID) (*compliance.CaseFacts, error)
	SaveVideo(ctx context.Context, video *compliance.Video) error
	FindVideo(ctx context.Context, videoID string) (*compliance.Video, error)
	LatestVideo(ctx context.Context, caseID domain.CaseID) (*compliance.Video, error)
	SaveVisitToken(ctx context.Context, token *compliance.VisitToken) error
	LatestVisitToken(ctx context.Context, caseID domain.CaseID) (*compliance.VisitToken, error)
}

// ComplianceStore persists the per-case compliance record. Save replaces.
type ComplianceStore interface {
	FindCompliance(ctx context.Context, caseID domain.CaseID) (*compliance.Compliance, error)
	SaveCompliance(ctx context.Context, record *compliance.Compliance) error
	ListJudicialReview(ctx context.Context) ([]*compliance.Compliance, error)
}

// Ledger anchors evidence and submissions in the hash chain. The transaction
// id is chosen up front so records can carry it before the block exists.
type Ledger interface {
	AppendWithID(ctx context.Context, transactionID string, payload map[string]any) (ledger.AppendResult, error)
}

// StoreTx provides the transactional boundary for store writes and the audit
// rows that record them. Implementations may wrap a database transaction or,
// in memory, undo the writes of a failed unit.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// AuditPublisher records legally significant actions. Failures abort the
// operation and roll back its writes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}

// SecurityAuditor receives integrity alerts. Delivery is best effort.
type SecurityAuditor interface {
	Emit(ctx context.Context, event audit.SecurityEvent)
}

var tracer = otel.Tracer("nyaya/internal/compliance/service")

// numCaseShards bounds the lock table; cases hashing to one shard serialize.
const numCaseShards = 64

// Service orchestrates evidence intake, evaluation, the override workflow and
// charge sheet submission around the pure rules in package compliance.
type Service struct {
	evidence EvidenceStore
	records  ComplianceStore
	ledger   Ledger
	tx       StoreTx

	logger          *slog.Logger
	auditPublisher  AuditPublisher
	securityAuditor SecurityAuditor
	metrics         *metrics.Metrics

	shards [numCaseShards]sync.Mutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithSecurityAuditor(auditor SecurityAuditor) Option {
	return func(s *Service) {
		s.securityAuditor = auditor
	}
}

// WithStoreTx sets the transaction runner. Without one, writes to in-memory
// stores are undone when a unit fails.
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(evidence EvidenceStore, records ComplianceStore, chain Ledger, opts ...Option) *Service {
	s := &Service{evidence: evidence, records: records, ledger: chain}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = txcontext.MemoryRunner{}
	}
	return s
}

// lockCase serializes read-modify-write cycles on one compliance record.
func (s *Service) lockCase(caseID domain.CaseID) func() {
	mu := &s.shards[caseShard(caseID)]
	mu.Lock()
	return mu.Unlock
}

func caseShard(caseID domain.CaseID) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(caseID))
	return h.Sum32() % numCaseShards
}

// inTx runs fn as one unit of work. Errors from outside the domain, such as a
// failed commit, surface as internal errors.
func (s *Service) inTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	err := s.tx.RunInTx(ctx, fn)
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit changes")
}

func (s *Service) emit(ctx context.Context, event audit.ComplianceEvent) error {
	if s.auditPublisher == nil {
		return nil
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ActorID == "" {
		event.ActorID = requestcontext.Actor(ctx).String()
	}
	return s.auditPublisher.Emit(ctx, event)
}

func (s *Service) alert(ctx context.Context, event audit.SecurityEvent) {
	if s.securityAuditor == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	s.securityAuditor.Emit(ctx, event)
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	args := append(attributes, "event", event, "request_id", requestcontext.RequestID(ctx))
	s.logger.InfoContext(ctx, event, args...)
}
