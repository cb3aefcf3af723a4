// Package service runs smart bail contracts against the store, the ledger and
// the compliance audit trail.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"nyaya/internal/bail"
	"nyaya/internal/ledger"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/sentinel"
	txcontext "nyaya/pkg/platform/tx"
	"nyaya/pkg/requestcontext"
)

// Ledger payload types.
const (
	PayloadBailContract = "SMART_BAIL_CONTRACT"
	PayloadBailRefund   = "BAIL_REFUND"
)

// ContractRecordID is the ledger record id of a contract's block. Bail blocks
// never use the bare case id, which belongs to the case's charge sheet.
func ContractRecordID(txID string) string {
	return "BAIL-" + txID
}

// RefundRecordID is the ledger record id of a contract's refund block.
func RefundRecordID(txID string) string {
	return "BAIL-" + txID + "-REFUND"
}

type Store interface {
	Create(ctx context.Context, c *bail.Contract) error
	Update(ctx context.Context, c *bail.Contract) error
	Find(ctx context.Context, txID string) (*bail.Contract, error)
	ListByCase(ctx context.Context, caseID domain.CaseID) ([]*bail.Contract, error)
}

type Ledger interface {
	AppendWithID(ctx context.Context, transactionID string, payload map[string]any) (ledger.AppendResult, error)
}

// StoreTx provides the transactional boundary for contract writes and their
// audit rows.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}

// CreateRequest carries the terms set by the court.
type CreateRequest struct {
	CaseID       domain.CaseID  `json:"case_id"`
	AccusedID    domain.ActorID `json:"accused_id"`
	Amount       int64          `json:"amount"`
	CourtDates   []string       `json:"court_dates"`
	Jurisdiction string         `json:"jurisdiction,omitempty"`
}

type Service struct {
	store  Store
	ledger Ledger
	tx     StoreTx

	logger         *slog.Logger
	auditPublisher AuditPublisher

	mu sync.Mutex // serializes read-modify-write on contracts
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

func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func New(store Store, chain Ledger, opts ...Option) *Service {
	s := &Service{store: store, ledger: chain}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = txcontext.MemoryRunner{}
	}
	return s
}

// Create locks the bail amount under a new contract and anchors it on the
// ledger. The contract id doubles as the ledger transaction id. The block is
// appended once the contract and its audit row are written.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*bail.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := bail.NewContract(uuid.NewString(), req.CaseID, req.AccusedID, req.Amount, req.CourtDates, req.Jurisdiction, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Create(txCtx, c); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "bail contract already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save bail contract")
		}
		if err := s.emit(txCtx, audit.ComplianceEvent{
			CaseID:   c.CaseID,
			Action:   audit.EventBailContractCreated,
			Decision: string(c.Status),
			Reason:   c.TransactionID,
		}); err != nil {
			return err
		}
		res, err := s.ledger.AppendWithID(txCtx, c.TransactionID, map[string]any{
			"id":           ContractRecordID(c.TransactionID),
			"type":         PayloadBailContract,
			"case_id":      c.CaseID.String(),
			"accused_id":   c.AccusedID.String(),
			"amount":       c.Amount,
			"currency":     c.Currency,
			"court_dates":  c.CourtDates,
			"jurisdiction": c.Jurisdiction,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record bail contract on ledger")
		}
		c.LedgerBlockHash = res.BlockHash
		if err := s.store.Update(txCtx, c); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save bail contract")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// VerifyAppearance records the accused's attendance on a court date. A date
// that is unscheduled, already verified or lacks a biometric hash yields an
// unsuccessful result rather than an error.
func (s *Service) VerifyAppearance(ctx context.Context, txID, date, biometricHash string) (*bail.AppearanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.find(ctx, txID)
	if err != nil {
		return nil, err
	}
	next, res := bail.VerifyAppearance(c, date, biometricHash)
	if !res.Success {
		return &res, nil
	}
	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Update(txCtx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save bail contract")
		}
		return s.emit(txCtx, audit.ComplianceEvent{
			CaseID:       next.CaseID,
			Action:       audit.EventBailAppearance,
			Decision:     string(next.Status),
			Reason:       next.VerifiedAppearances[len(next.VerifiedAppearances)-1],
			EvidenceHash: next.BiometricHashes[len(next.BiometricHashes)-1],
		})
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Release refunds the bail amount when every appearance has been verified
// and writes the refund to the ledger after the contract and audit row.
func (s *Service) Release(ctx context.Context, txID string) (*bail.ReleaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.find(ctx, txID)
	if err != nil {
		return nil, err
	}
	next, res := bail.Release(c)
	if !res.Success {
		s.logAudit(ctx, "bail_release_refused", "transaction_id", txID, "status", c.Status)
		return &res, nil
	}

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Update(txCtx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save bail contract")
		}
		if err := s.emit(txCtx, audit.ComplianceEvent{
			CaseID:       c.CaseID,
			Action:       audit.EventBailReleased,
			Decision:     string(next.Status),
			Reason:       res.Message,
			EvidenceHash: c.LedgerBlockHash,
		}); err != nil {
			return err
		}
		if _, err := s.ledger.AppendWithID(txCtx, "", map[string]any{
			"id":             RefundRecordID(c.TransactionID),
			"type":           PayloadBailRefund,
			"case_id":        c.CaseID.String(),
			"transaction_id": c.TransactionID,
			"refund_amount":  res.RefundAmount,
			"currency":       c.Currency,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record refund on ledger")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Status returns the current contract.
func (s *Service) Status(ctx context.Context, txID string) (*bail.Contract, error) {
	return s.find(ctx, txID)
}

// ListByCase returns every contract for a case.
func (s *Service) ListByCase(ctx context.Context, caseID domain.CaseID) ([]*bail.Contract, error) {
	out, err := s.store.ListByCase(ctx, caseID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bail contracts")
	}
	return out, nil
}

func (s *Service) find(ctx context.Context, txID string) (*bail.Contract, error) {
	c, err := s.store.Find(ctx, txID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "bail contract not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bail contract")
	}
	return c, nil
}

// inTx runs fn as one unit of work; a failure outside the domain, such as a
// failed commit, is internal.
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
	event.RequestID = requestcontext.RequestID(ctx)
	event.ActorID = requestcontext.Actor(ctx).String()
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	args := append(attributes, "event", event, "request_id", requestcontext.RequestID(ctx))
	s.logger.InfoContext(ctx, event, args...)
}
