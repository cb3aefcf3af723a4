package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"nyaya/internal/compliance"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/sentinel"
	pkgstrings "nyaya/pkg/platform/strings"
	"nyaya/pkg/requestcontext"
)

// RegisterCase stores the facts of a new case and runs its first evaluation.
// The facts, the first record and both audit rows are written as one unit.
func (s *Service) RegisterCase(ctx context.Context, facts compliance.CaseFacts) (*View, error) {
	law, err := compliance.ParseLawCode(string(facts.LawCode))
	if err != nil {
		return nil, err
	}
	facts.LawCode = law
	facts.Sections = pkgstrings.DedupeAndTrimUpper(facts.Sections)
	if facts.RegisteredAt.IsZero() {
		facts.RegisteredAt = requestcontext.Now(ctx)
	}
	if err := facts.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockCase(facts.CaseID)
	defer unlock()

	switch _, err := s.evidence.FindFacts(ctx, facts.CaseID); {
	case err == nil:
		return nil, errCaseExists
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load case facts")
	}

	// A new case has no evidence and no prior record.
	next := s.assess(ctx, facts.CaseID, &gathered{facts: &facts})
	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.evidence.SaveFacts(txCtx, &facts); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return errCaseExists
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save case facts")
		}
		if err := s.emit(txCtx, audit.ComplianceEvent{
			CaseID: facts.CaseID,
			Action: audit.EventCaseRegistered,
			Reason: string(facts.LawCode),
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		return s.saveEvaluation(txCtx, next)
	})
	if err != nil {
		return nil, err
	}
	return newView(next), nil
}

// RecordVideo stores a forensic video as the current recording for its case,
// re-evaluates and anchors the video on the ledger. The integrity status is
// always derived from the two digests, never taken from the caller. The
// ledger cannot roll back, so the block is appended after every other write
// of the unit has succeeded.
func (s *Service) RecordVideo(ctx context.Context, video compliance.Video) (*View, error) {
	video = video.Sealed()
	if err := video.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockCase(video.CaseID)
	defer unlock()

	ev, err := s.loadEvidence(ctx, video.CaseID)
	if err != nil {
		return nil, err
	}
	switch _, err := s.evidence.FindVideo(ctx, video.ID); {
	case err == nil:
		return nil, errVideoExists
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load video")
	}

	video.LedgerBlockID = uuid.NewString()
	ev.video = &video
	next := s.assess(ctx, video.CaseID, ev)

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.evidence.SaveVideo(txCtx, &video); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return errVideoExists
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save video")
		}
		if err := s.emit(txCtx, audit.ComplianceEvent{
			CaseID:       video.CaseID,
			Action:       audit.EventVideoRecorded,
			Decision:     string(video.IntegrityStatus),
			Reason:       string(video.UploadStatus),
			EvidenceHash: video.SourceHash,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		if err := s.saveEvaluation(txCtx, next); err != nil {
			return err
		}
		if _, err := s.ledger.AppendWithID(txCtx, video.LedgerBlockID, map[string]any{
			"id":               video.ID,
			"type":             PayloadForensicVideo,
			"case_id":          video.CaseID.String(),
			"source_hash":      video.SourceHash,
			"server_hash":      video.ServerHash,
			"hash_algorithm":   video.HashAlgorithm,
			"integrity_status": string(video.IntegrityStatus),
			"captured_at":      video.CapturedAt,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to anchor video on ledger")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if video.IntegrityStatus == compliance.IntegrityMismatch {
		s.alert(ctx, audit.SecurityEvent{
			Subject:      video.CaseID.String(),
			Action:       audit.EventVideoHashMismatch,
			Reason:       "server digest differs from capture digest for video " + video.ID,
			EvidenceHash: video.SourceHash,
			ActorID:      requestcontext.Actor(ctx).String(),
			Severity:     audit.SeverityCritical,
		})
	}
	return newView(next), nil
}

// RecordVisitToken stores the expert presence proof for a case and re-evaluates.
func (s *Service) RecordVisitToken(ctx context.Context, token compliance.VisitToken) (*View, error) {
	if err := token.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockCase(token.CaseID)
	defer unlock()

	ev, err := s.loadEvidence(ctx, token.CaseID)
	if err != nil {
		return nil, err
	}
	if token.VisitedAt.IsZero() {
		token.VisitedAt = requestcontext.Now(ctx)
	}
	ev.token = &token
	next := s.assess(ctx, token.CaseID, ev)

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.evidence.SaveVisitToken(txCtx, &token); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "visit token already recorded")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save visit token")
		}
		if err := s.emit(txCtx, audit.ComplianceEvent{
			CaseID:   token.CaseID,
			Action:   audit.EventVisitTokenRecorded,
			Decision: verifiedDecision(token.IsVerified),
			Reason:   string(token.HandshakeMethod),
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
		return s.saveEvaluation(txCtx, next)
	})
	if err != nil {
		return nil, err
	}
	return newView(next), nil
}

var (
	errCaseExists  = dErrors.New(dErrors.CodeConflict, "case already registered")
	errVideoExists = dErrors.New(dErrors.CodeConflict, "video already recorded; upload a new recording instead")
)

func verifiedDecision(ok bool) string {
	if ok {
		return "verified"
	}
	return "unverified"
}
