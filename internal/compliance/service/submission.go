package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"nyaya/internal/compliance"
	"nyaya/internal/ledger"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/sentinel"
	"nyaya/pkg/requestcontext"
)

// SubmitChargeSheet files the charge sheet for a case if the gate allows it.
// A case takes one charge sheet; the filing is stored on the record, audited
// and then written to the ledger, where its block is keyed by the case id.
// Overridden submissions carry the judicial review flag.
func (s *Service) SubmitChargeSheet(ctx context.Context, caseID domain.CaseID, submittedBy domain.ActorID) (*Submission, error) {
	unlock := s.lockCase(caseID)
	defer unlock()

	record, err := s.records.FindCompliance(ctx, caseID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load compliance record")
	}
	if record != nil && record.ChargeSheet != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "charge sheet already submitted for this case")
	}

	decision := compliance.CanSubmitChargeSheet(record)
	s.metrics.IncrementGateDecision(decision.Allowed, decision.IsOverride)
	if !decision.Allowed {
		if err := s.emit(ctx, audit.ComplianceEvent{
			CaseID:   caseID,
			Action:   audit.EventChargeSheetBlocked,
			Decision: "denied",
			Reason:   decision.Reason,
			ActorID:  submittedBy.String(),
		}); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		return nil, dErrors.New(dErrors.CodeForbidden, decision.Reason)
	}

	filing := &compliance.ChargeSheet{
		TransactionID:  uuid.NewString(),
		SubmittedBy:    submittedBy,
		SubmittedAt:    requestcontext.Now(ctx),
		IsOverride:     decision.IsOverride,
		JudicialReview: decision.IsOverride || record.NeedsJudicialReview(),
	}
	next := record.Clone()
	next.ChargeSheet = filing

	var res ledger.AppendResult
	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.records.SaveCompliance(txCtx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save compliance record")
		}
		if err := s.emit(txCtx, audit.ComplianceEvent{
			CaseID:   caseID,
			Action:   audit.EventChargeSheetSubmitted,
			Decision: "allowed",
			Reason:   decision.Reason,
			ActorID:  submittedBy.String(),
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		appended, err := s.ledger.AppendWithID(txCtx, filing.TransactionID, map[string]any{
			"id":              caseID.String(),
			"type":            PayloadChargeSheet,
			"cnr":             record.CNRNumber,
			"submitted_by":    submittedBy.String(),
			"is_override":     filing.IsOverride,
			"judicial_review": filing.JudicialReview,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record submission on ledger")
		}
		res = appended
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Submission{
		SubmissionID:   uuid.NewString(),
		CaseID:         caseID.String(),
		BlockIndex:     res.Index,
		BlockHash:      res.BlockHash,
		TransactionID:  res.TransactionID,
		IsOverride:     filing.IsOverride,
		JudicialReview: filing.JudicialReview,
	}, nil
}

// PendingJudicialReview lists every case submitted or submittable under an
// approved override, for the judge dashboard.
func (s *Service) PendingJudicialReview(ctx context.Context) ([]*View, error) {
	records, err := s.records.ListJudicialReview(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list judicial review queue")
	}
	views := make([]*View, 0, len(records))
	for _, r := range records {
		views = append(views, newView(r))
	}
	s.logAudit(ctx, string(audit.EventJudicialReviewListed), "count", len(views))
	return views, nil
}
