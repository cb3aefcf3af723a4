package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nyaya/internal/ledger"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/httputil"
	"nyaya/pkg/requestcontext"
)

// Ledger is the subset of *ledger.Ledger the audit view needs.
type Ledger interface {
	Blocks() []ledger.Block
	VerifyChain() ledger.IntegrityReport
	VerifyRecord(recordID string) ledger.RecordVerification
	Tamper(index int) bool
}

// SecurityAuditor receives integrity alerts.
type SecurityAuditor interface {
	Emit(ctx context.Context, event audit.SecurityEvent)
}

// Handler exposes the integrity audit endpoints.
type Handler struct {
	ledger  Ledger
	logger  *slog.Logger
	auditor SecurityAuditor
}

type Option func(*Handler)

// WithSecurityAuditor raises alerts for tamper simulation and for
// verifications that find corruption.
func WithSecurityAuditor(a SecurityAuditor) Option {
	return func(h *Handler) {
		h.auditor = a
	}
}

func New(l Ledger, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{ledger: l, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts read-only ledger endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/ledger/blocks", h.HandleBlocks)
	r.Get("/ledger/verify", h.HandleVerifyChain)
	r.Get("/ledger/records/{recordID}/verify", h.HandleVerifyRecord)
}

// RegisterAdmin mounts the tamper simulation endpoint; callers guard it.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/ledger/{index}/tamper", h.HandleTamper)
}

func (h *Handler) HandleBlocks(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"blocks": h.ledger.Blocks()})
}

func (h *Handler) HandleVerifyChain(w http.ResponseWriter, r *http.Request) {
	report := h.ledger.VerifyChain()
	if !report.IsValid {
		h.alert(r.Context(), audit.SecurityEvent{
			Subject:  "ledger",
			Action:   audit.EventLedgerCorrupted,
			Reason:   fmt.Sprintf("corrupted blocks %v", report.CorruptedBlocks),
			Severity: audit.SeverityCritical,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleVerifyRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	if recordID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "record id is required"))
		return
	}
	result := h.ledger.VerifyRecord(recordID)
	if result.Found && result.Tampered {
		h.alert(r.Context(), audit.SecurityEvent{
			Subject:      recordID,
			Action:       audit.EventLedgerCorrupted,
			Reason:       fmt.Sprintf("block %d hash mismatch", result.BlockIndex),
			EvidenceHash: result.OriginalHash,
			Severity:     audit.SeverityCritical,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleTamper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "index must be an integer"))
		return
	}
	if index == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "genesis block cannot be tampered"))
		return
	}
	if !h.ledger.Tamper(index) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "block not found"))
		return
	}
	h.logger.WarnContext(ctx, "ledger tampering simulated",
		"request_id", requestcontext.RequestID(ctx),
		"actor", requestcontext.Actor(ctx),
		"index", index,
	)
	h.alert(ctx, audit.SecurityEvent{
		Subject:  strconv.Itoa(index),
		Action:   audit.EventLedgerTamperSimulate,
		Reason:   "admin tamper simulation",
		Severity: audit.SeverityWarning,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tampered": index})
}

func (h *Handler) alert(ctx context.Context, event audit.SecurityEvent) {
	if h.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ActorID = requestcontext.Actor(ctx).String()
	h.auditor.Emit(ctx, event)
}
