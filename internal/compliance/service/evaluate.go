package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"nyaya/internal/compliance"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/sentinel"
	txcontext "nyaya/pkg/platform/tx"
	"nyaya/pkg/requestcontext"
)

const evidenceTimeout = 5 * time.Second

// gathered is everything one evaluation reads.
type gathered struct {
	facts *compliance.CaseFacts
	video *compliance.Video
	token *compliance.VisitToken
	prior *compliance.Compliance
}

// gatherEvidence loads facts, evidence and the prior record in parallel. Only
// missing facts are an error; absent evidence is simply absent.
func (s *Service) gatherEvidence(ctx context.Context, caseID domain.CaseID) (*gathered, error) {
	ctx, cancel := context.WithTimeout(ctx, evidenceTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	ev := &gathered{}

	g.Go(func() error {
		start := time.Now()
		facts, err := s.evidence.FindFacts(ctx, caseID)
		s.metrics.ObserveEvidenceLatency("facts", time.Since(start))
		if err != nil {
			return err
		}
		ev.facts = facts
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		video, err := s.evidence.LatestVideo(ctx, caseID)
		s.metrics.ObserveEvidenceLatency("video", time.Since(start))
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		ev.video = video
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		token, err := s.evidence.LatestVisitToken(ctx, caseID)
		s.metrics.ObserveEvidenceLatency("visit_token", time.Since(start))
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		ev.token = token
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		prior, err := s.records.FindCompliance(ctx, caseID)
		s.metrics.ObserveEvidenceLatency("compliance", time.Since(start))
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		ev.prior = prior
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Evaluate re-runs the compliance check for a case against its current
// evidence and persists the result.
func (s *Service) Evaluate(ctx context.Context, caseID domain.CaseID) (*View, error) {
	unlock := s.lockCase(caseID)
	defer unlock()

	ev, err := s.loadEvidence(ctx, caseID)
	if err != nil {
		return nil, err
	}
	next := s.assess(ctx, caseID, ev)
	if err := s.inTx(ctx, func(txCtx context.Context) error {
		return s.saveEvaluation(txCtx, next)
	}); err != nil {
		return nil, err
	}
	return newView(next), nil
}

// loadEvidence wraps gatherEvidence with the error codes callers see.
func (s *Service) loadEvidence(ctx context.Context, caseID domain.CaseID) (*gathered, error) {
	ev, err := s.gatherEvidence(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "case not found")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "evidence loading timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load evidence")
	}
	return ev, nil
}

// assess runs the rules over gathered evidence. Nothing is written.
func (s *Service) assess(ctx context.Context, caseID domain.CaseID, ev *gathered) *compliance.Compliance {
	_, span := tracer.Start(ctx, "compliance.evaluate",
		trace.WithAttributes(attribute.String("case.id", caseID.String())))
	defer span.End()

	start := time.Now()
	mandatory := compliance.IsForensicVideoMandatory(ev.facts.Sections, ev.facts.LawCode)
	next := compliance.Evaluate(caseID, ev.video, ev.token, mandatory.IsMandatory, ev.prior, requestcontext.Now(ctx))
	next.CNRNumber = ev.facts.CNRNumber
	next.MandatoryReason = mandatory.Reason
	next.MaxPunishment = mandatory.MaxPunishment

	span.SetAttributes(
		attribute.String("compliance.result", string(next.CheckResult)),
		attribute.String("compliance.status", string(next.InterlockStatus)),
		attribute.Bool("compliance.mandatory", next.IsMandatory),
	)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	return next
}

// saveEvaluation persists an assessed record together with its audit row.
// It must run inside a unit of work.
func (s *Service) saveEvaluation(ctx context.Context, next *compliance.Compliance) (err error) {
	ctx, span := tracer.Start(ctx, "compliance.save_evaluation",
		trace.WithAttributes(attribute.String("case.id", next.CaseID.String())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := s.records.SaveCompliance(ctx, next); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save compliance record")
	}
	latest, _ := next.LatestCheck()
	if err := s.emit(ctx, audit.ComplianceEvent{
		CaseID:   next.CaseID,
		Action:   audit.EventComplianceEvaluated,
		Decision: string(next.CheckResult),
		Reason:   latest.Details,
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	txcontext.AfterCommit(ctx, func() {
		s.metrics.IncrementCheck(string(next.CheckResult), string(next.InterlockStatus))
	})
	return nil
}

// Get returns the stored record for a case with its gate and display state.
func (s *Service) Get(ctx context.Context, caseID domain.CaseID) (*View, error) {
	record, err := s.records.FindCompliance(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "compliance record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load compliance record")
	}
	s.logAudit(ctx, string(audit.EventComplianceViewed), "case_id", caseID)
	return newView(record), nil
}

// Gate returns only the submission decision for a case.
func (s *Service) Gate(ctx context.Context, caseID domain.CaseID) (compliance.GateDecision, error) {
	view, err := s.Get(ctx, caseID)
	if err != nil {
		return compliance.GateDecision{}, err
	}
	return view.Gate, nil
}
