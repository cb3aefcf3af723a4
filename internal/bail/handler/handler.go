// Package handler exposes smart bail contracts over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"nyaya/internal/bail"
	"nyaya/internal/bail/service"
	"nyaya/internal/platform/middleware"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/httputil"
	"nyaya/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, req service.CreateRequest) (*bail.Contract, error)
	VerifyAppearance(ctx context.Context, txID, date, biometricHash string) (*bail.AppearanceResult, error)
	Release(ctx context.Context, txID string) (*bail.ReleaseResult, error)
	Status(ctx context.Context, txID string) (*bail.Contract, error)
	ListByCase(ctx context.Context, caseID domain.CaseID) ([]*bail.Contract, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts /bail. Judges set and release bail; court officers record
// appearances.
func (h *Handler) Register(r chi.Router) {
	court := middleware.RequireRole(h.logger, domain.RoleJudge, domain.RoleAdmin)
	clerks := middleware.RequireRole(h.logger, domain.RoleJudge, domain.RolePolice, domain.RoleAdmin)

	r.Route("/bail", func(r chi.Router) {
		r.Get("/", h.HandleListByCase)
		r.With(court).Post("/", h.HandleCreate)
		r.Get("/{txID}", h.HandleStatus)
		r.With(clerks).Post("/{txID}/appearances", h.HandleVerifyAppearance)
		r.With(court).Post("/{txID}/release", h.HandleRelease)
	})
}

type CreateRequest struct {
	service.CreateRequest
}

func (r *CreateRequest) Validate() error {
	if r.CaseID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "case_id is required")
	}
	if _, err := domain.ParseCaseID(r.CaseID.String()); err != nil {
		return err
	}
	if r.AccusedID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "accused_id is required")
	}
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	if len(r.CourtDates) == 0 {
		return dErrors.New(dErrors.CodeValidation, "court_dates is required")
	}
	return nil
}

type AppearanceRequest struct {
	Date          string `json:"date"`
	BiometricHash string `json:"biometric_hash"`
}

func (r *AppearanceRequest) Validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return dErrors.New(dErrors.CodeValidation, "date is required")
	}
	return nil
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.svc.Create(ctx, req.CreateRequest)
	if err != nil {
		h.fail(ctx, w, "failed to create bail contract", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleVerifyAppearance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AppearanceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.svc.VerifyAppearance(ctx, chi.URLParam(r, "txID"), req.Date, req.BiometricHash)
	if err != nil {
		h.fail(ctx, w, "failed to verify appearance", err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	httputil.WriteJSON(w, status, res)
}

func (h *Handler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.svc.Release(ctx, chi.URLParam(r, "txID"))
	if err != nil {
		h.fail(ctx, w, "failed to release bail", err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusConflict
	}
	httputil.WriteJSON(w, status, res)
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Status(r.Context(), chi.URLParam(r, "txID"))
	if err != nil {
		h.fail(r.Context(), w, "failed to load bail contract", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleListByCase serves GET /bail?case_id=...
func (h *Handler) HandleListByCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := domain.ParseCaseID(r.URL.Query().Get("case_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	contracts, err := h.svc.ListByCase(r.Context(), caseID)
	if err != nil {
		h.fail(r.Context(), w, "failed to list bail contracts", err)
		return
	}
	if contracts == nil {
		contracts = []*bail.Contract{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"contracts": contracts})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"actor", requestcontext.Actor(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
