package service

import (
	"context"
	"errors"
	"strings"

	"nyaya/internal/compliance"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/sentinel"
	"nyaya/pkg/requestcontext"
)

// Override workflow actions, used for metrics labels.
const (
	actionRequest = "request"
	actionApprove = "approve"
	actionReject  = "reject"
)

// RequestOverride asks a supervisor to let a locked mandatory case proceed
// without full compliance.
func (s *Service) RequestOverride(ctx context.Context, caseID domain.CaseID, requestedBy domain.ActorID, reason compliance.OverrideReason, details string) (*View, error) {
	if !reason.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unsupported override reason: "+string(reason))
	}
	details = strings.TrimSpace(details)
	if reason == compliance.ReasonOther && details == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "reason_details is required when reason is OTHER")
	}
	if requestedBy.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "actor is required")
	}
	return s.transition(ctx, caseID, actionRequest, audit.EventOverrideRequested, reason.Label(),
		func(c *compliance.Compliance) (*compliance.Compliance, bool) {
			return compliance.RequestOverride(c, requestedBy, reason, details, requestcontext.Now(ctx))
		},
		"override can only be requested for a locked mandatory case")
}

// ApproveOverride unlocks a case with a pending override and flags it for
// judicial review.
func (s *Service) ApproveOverride(ctx context.Context, caseID domain.CaseID, approvedBy domain.ActorID) (*View, error) {
	if approvedBy.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "actor is required")
	}
	return s.transition(ctx, caseID, actionApprove, audit.EventOverrideApproved, "",
		func(c *compliance.Compliance) (*compliance.Compliance, bool) {
			return compliance.ApproveOverride(c, approvedBy, requestcontext.Now(ctx))
		},
		"no pending override to approve")
}

// RejectOverride turns down a pending override; the case stays locked.
func (s *Service) RejectOverride(ctx context.Context, caseID domain.CaseID, rejectedBy domain.ActorID, note string) (*View, error) {
	if rejectedBy.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "actor is required")
	}
	note = strings.TrimSpace(note)
	return s.transition(ctx, caseID, actionReject, audit.EventOverrideRejected, note,
		func(c *compliance.Compliance) (*compliance.Compliance, bool) {
			return compliance.RejectOverride(c, rejectedBy, note, requestcontext.Now(ctx))
		},
		"no pending override to reject")
}

// transition loads the record, applies fn and persists the result with its
// audit row as one unit. A transition that does not apply is reported as a
// conflict and nothing is written.
func (s *Service) transition(
	ctx context.Context,
	caseID domain.CaseID,
	action string,
	event audit.AuditEvent,
	reason string,
	fn func(*compliance.Compliance) (*compliance.Compliance, bool),
	conflictMsg string,
) (*View, error) {
	unlock := s.lockCase(caseID)
	defer unlock()

	current, err := s.records.FindCompliance(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "compliance record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load compliance record")
	}

	next, applied := fn(current)
	s.metrics.IncrementOverrideAction(action, applied)
	if !applied {
		return nil, dErrors.New(dErrors.CodeConflict, conflictMsg)
	}

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.records.SaveCompliance(txCtx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save compliance record")
		}
		if err := s.emit(txCtx, audit.ComplianceEvent{
			CaseID:   caseID,
			Action:   event,
			Decision: string(next.InterlockStatus),
			Reason:   reason,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newView(next), nil
}
