package report

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nyaya/internal/platform/middleware"
	"nyaya/pkg/domain"
	"nyaya/pkg/platform/httputil"
	"nyaya/pkg/requestcontext"
)

type generator interface {
	Generate(ctx context.Context, caseID domain.CaseID) (*Report, error)
}

type Handler struct {
	gen    generator
	logger *slog.Logger
}

func NewHandler(gen generator, logger *slog.Logger) *Handler {
	return &Handler{gen: gen, logger: logger}
}

// Register mounts GET /cases/{caseID}/review.pdf for reviewers.
func (h *Handler) Register(r chi.Router) {
	reviewers := middleware.RequireRole(h.logger, domain.RoleSupervisor, domain.RoleJudge, domain.RoleAdmin)
	r.With(reviewers).Get("/cases/{caseID}/review.pdf", h.HandleReviewPDF)
}

func (h *Handler) HandleReviewPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := domain.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rep, err := h.gen.Generate(ctx, caseID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to generate review report",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+caseFileName(caseID)+`-review.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.PDF)))
	w.Header().Set("X-Content-SHA256", rep.SHA256)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.PDF)
}

// caseFileName replaces path separators allowed in case ids.
func caseFileName(id domain.CaseID) string {
	out := []byte(id.String())
	for i, c := range out {
		if c == '/' {
			out[i] = '_'
		}
	}
	return string(out)
}
