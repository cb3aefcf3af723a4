package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"nyaya/internal/compliance"
	"nyaya/internal/compliance/service"
	"nyaya/internal/platform/middleware"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/httputil"
	"nyaya/pkg/requestcontext"
)

// Service is the compliance workflow the handler drives.
type Service interface {
	RegisterCase(ctx context.Context, facts compliance.CaseFacts) (*service.View, error)
	RecordVideo(ctx context.Context, video compliance.Video) (*service.View, error)
	RecordVisitToken(ctx context.Context, token compliance.VisitToken) (*service.View, error)
	Evaluate(ctx context.Context, caseID domain.CaseID) (*service.View, error)
	Get(ctx context.Context, caseID domain.CaseID) (*service.View, error)
	Gate(ctx context.Context, caseID domain.CaseID) (compliance.GateDecision, error)
	RequestOverride(ctx context.Context, caseID domain.CaseID, requestedBy domain.ActorID, reason compliance.OverrideReason, details string) (*service.View, error)
	ApproveOverride(ctx context.Context, caseID domain.CaseID, approvedBy domain.ActorID) (*service.View, error)
	RejectOverride(ctx context.Context, caseID domain.CaseID, rejectedBy domain.ActorID, note string) (*service.View, error)
	SubmitChargeSheet(ctx context.Context, caseID domain.CaseID, submittedBy domain.ActorID) (*service.Submission, error)
	PendingJudicialReview(ctx context.Context) ([]*service.View, error)
}

// Handler serves the case compliance endpoints. Routes expect RequireAuth to
// have run; role checks are applied per route.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	officers := middleware.RequireRole(h.logger, domain.RolePolice, domain.RoleAdmin)
	approvers := middleware.RequireRole(h.logger, domain.RoleSupervisor, domain.RoleAdmin)
	reviewers := middleware.RequireRole(h.logger, domain.RoleSupervisor, domain.RoleJudge, domain.RoleAdmin)

	r.Get("/mandatory", h.HandleMandatory)
	r.Get("/override-reasons", h.HandleOverrideReasons)
	r.With(reviewers).Get("/judicial-review", h.HandleJudicialReview)

	r.With(officers).Post("/cases", h.HandleRegisterCase)
	r.Get("/cases/{caseID}/compliance", h.HandleGet)
	r.Get("/cases/{caseID}/gate", h.HandleGate)
	r.With(officers).Post("/cases/{caseID}/video", h.HandleRecordVideo)
	r.With(officers).Post("/cases/{caseID}/visit-token", h.HandleRecordVisitToken)
	r.With(officers).Post("/cases/{caseID}/evaluate", h.HandleEvaluate)
	r.With(officers).Post("/cases/{caseID}/override", h.HandleRequestOverride)
	r.With(approvers).Post("/cases/{caseID}/override/approve", h.HandleApproveOverride)
	r.With(reviewers).Post("/cases/{caseID}/override/reject", h.HandleRejectOverride)
	r.With(officers).Post("/cases/{caseID}/charge-sheet", h.HandleSubmitChargeSheet)
}

func (h *Handler) HandleRegisterCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterCaseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.svc.RegisterCase(ctx, req.toFacts())
	if err != nil {
		h.fail(ctx, w, "failed to register case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) HandleRecordVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordVideoRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	video := req.Video
	video.CaseID = caseID
	view, err := h.svc.RecordVideo(ctx, video)
	if err != nil {
		h.fail(ctx, w, "failed to record video", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) HandleRecordVisitToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VisitTokenRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	token := req.VisitToken
	token.CaseID = caseID
	view, err := h.svc.RecordVisitToken(ctx, token)
	if err != nil {
		h.fail(ctx, w, "failed to record visit token", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Evaluate(r.Context(), caseID)
	if err != nil {
		h.fail(r.Context(), w, "failed to evaluate compliance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Get(r.Context(), caseID)
	if err != nil {
		h.fail(r.Context(), w, "failed to load compliance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleGate(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	decision, err := h.svc.Gate(r.Context(), caseID)
	if err != nil {
		h.fail(r.Context(), w, "failed to load gate decision", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decision)
}

func (h *Handler) HandleRequestOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[OverrideRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.svc.RequestOverride(ctx, caseID, requestcontext.Actor(ctx), req.reason, req.ReasonDetails)
	if err != nil {
		h.fail(ctx, w, "failed to request override", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleApproveOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.ApproveOverride(ctx, caseID, requestcontext.Actor(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to approve override", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleRejectOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RejectOverrideRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.svc.RejectOverride(ctx, caseID, requestcontext.Actor(ctx), req.Note)
	if err != nil {
		h.fail(ctx, w, "failed to reject override", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleSubmitChargeSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	sub, err := h.svc.SubmitChargeSheet(ctx, caseID, requestcontext.Actor(ctx))
	if err != nil {
		h.fail(ctx, w, "charge sheet submission refused", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Handler) HandleJudicialReview(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.PendingJudicialReview(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "failed to list judicial review queue", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"cases": views})
}

// HandleMandatory answers whether videography is mandatory for a section
// list, e.g. /mandatory?law=BNS&section=103&section=309.
func (h *Handler) HandleMandatory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	law, err := compliance.ParseLawCode(q.Get("law"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var sections []string
	for _, s := range q["section"] {
		sections = append(sections, strings.Split(s, ",")...)
	}
	if len(sections) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "at least one section is required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, compliance.IsForensicVideoMandatory(sections, law))
}

func (h *Handler) HandleOverrideReasons(w http.ResponseWriter, _ *http.Request) {
	type reason struct {
		Code  compliance.OverrideReason `json:"code"`
		Label string                    `json:"label"`
	}
	reasons := compliance.OverrideReasons()
	out := make([]reason, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, reason{Code: r, Label: r.Label()})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"reasons": out})
}

func (h *Handler) caseID(w http.ResponseWriter, r *http.Request) (domain.CaseID, bool) {
	id, err := domain.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return id, true
}

// fail logs at warn for client errors and at error for internal ones.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal || de.Code == dErrors.CodeTimeout {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"actor", requestcontext.Actor(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
