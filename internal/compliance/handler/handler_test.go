package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"nyaya/internal/compliance"
	"nyaya/internal/compliance/handler/mocks"
	"nyaya/internal/compliance/service"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/testutil"
)

const (
	testCase   = domain.CaseID("FIR-2025-0107")
	sourceHash = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
)

type HandlerSuite struct {
	suite.Suite
	svc *mocks.MockService
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.svc = mocks.NewMockService(ctrl)
}

// router mounts the handler behind a stand-in for RequireAuth.
func (s *HandlerSuite) router(actor domain.ActorID, role domain.Role) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Use(testutil.ActorMiddleware(actor, role))
	New(s.svc, logger).Register(r)
	return r
}

func (s *HandlerSuite) do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func lockedView() *service.View {
	rec := compliance.Evaluate(testCase, nil, nil, true, nil, time.Date(2025, 4, 2, 11, 0, 0, 0, time.UTC))
	return &service.View{Record: rec, Gate: compliance.CanSubmitChargeSheet(rec), Display: compliance.DisplayStatus(rec)}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *HandlerSuite) TestRegisterCase() {
	h := s.router("IO-7", domain.RolePolice)

	s.Run("derives law code from offence date", func() {
		s.svc.EXPECT().RegisterCase(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, facts compliance.CaseFacts) (*service.View, error) {
				s.Equal(compliance.LawIPC, facts.LawCode)
				s.Equal([]string{"302"}, facts.Sections)
				return lockedView(), nil
			})
		offence := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		rec := s.do(h, http.MethodPost, "/cases", map[string]any{
			"case_id":      "FIR-2025-0107",
			"sections":     []string{"302", " 302"},
			"offence_date": offence,
		})
		s.Equal(http.StatusCreated, rec.Code)
		body := decode(s.T(), rec)
		s.Equal("LOCKED", body["compliance"].(map[string]any)["interlock_status"])
		s.Equal(false, body["gate"].(map[string]any)["allowed"])
	})

	s.Run("rejects missing sections", func() {
		rec := s.do(h, http.MethodPost, "/cases", map[string]any{"case_id": "FIR-1", "law_code": "BNS"})
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("validation_error", decode(s.T(), rec)["error"])
	})

	s.Run("citizens cannot register cases", func() {
		rec := s.do(s.router("C-1", domain.RoleCitizen), http.MethodPost, "/cases",
			map[string]any{"case_id": "FIR-1", "law_code": "BNS", "sections": []string{"103"}})
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *HandlerSuite) TestRecordVideoUsesPathCaseID() {
	h := s.router("IO-7", domain.RolePolice)
	s.svc.EXPECT().RecordVideo(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, v compliance.Video) (*service.View, error) {
			s.Equal(testCase, v.CaseID)
			s.Equal("VID-1", v.ID)
			s.Equal(compliance.UploadUploaded, v.UploadStatus)
			return lockedView(), nil
		})

	rec := s.do(h, http.MethodPost, "/cases/FIR-2025-0107/video", map[string]any{
		"video_id":      "VID-1",
		"case_id":       "SOMETHING-ELSE",
		"source_hash":   sourceHash,
		"upload_status": "UPLOADED",
	})
	s.Equal(http.StatusCreated, rec.Code)

	s.Run("malformed digest is rejected before the service", func() {
		rec := s.do(h, http.MethodPost, "/cases/FIR-2025-0107/video", map[string]any{
			"video_id": "VID-2", "source_hash": "abc", "upload_status": "UPLOADED",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestOverrideRoutes() {
	s.Run("officer requests with actor from token", func() {
		s.svc.EXPECT().RequestOverride(gomock.Any(), testCase, domain.ActorID("IO-7"),
			compliance.ReasonTechnicalFailure, "camera failure").Return(lockedView(), nil)
		rec := s.do(s.router("IO-7", domain.RolePolice), http.MethodPost, "/cases/FIR-2025-0107/override",
			map[string]string{"reason": "technical_failure", "reason_details": " camera failure "})
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("unknown reason is a validation error", func() {
		rec := s.do(s.router("IO-7", domain.RolePolice), http.MethodPost, "/cases/FIR-2025-0107/override",
			map[string]string{"reason": "BORED"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("police cannot approve", func() {
		rec := s.do(s.router("IO-7", domain.RolePolice), http.MethodPost, "/cases/FIR-2025-0107/override/approve", nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("supervisor approval conflict maps to 409", func() {
		s.svc.EXPECT().ApproveOverride(gomock.Any(), testCase, domain.ActorID("SP-1")).
			Return(nil, dErrors.New(dErrors.CodeConflict, "no pending override to approve"))
		rec := s.do(s.router("SP-1", domain.RoleSupervisor), http.MethodPost, "/cases/FIR-2025-0107/override/approve", nil)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("no pending override to approve", decode(s.T(), rec)["error_description"])
	})

	s.Run("judge rejects with a note", func() {
		s.svc.EXPECT().RejectOverride(gomock.Any(), testCase, domain.ActorID("JM-2"), "expert available").
			Return(lockedView(), nil)
		rec := s.do(s.router("JM-2", domain.RoleJudge), http.MethodPost, "/cases/FIR-2025-0107/override/reject",
			map[string]string{"note": "expert available"})
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *HandlerSuite) TestChargeSheet() {
	h := s.router("IO-7", domain.RolePolice)

	s.Run("blocked submission is 403 with the gate reason", func() {
		s.svc.EXPECT().SubmitChargeSheet(gomock.Any(), testCase, domain.ActorID("IO-7")).
			Return(nil, dErrors.New(dErrors.CodeForbidden, compliance.BlockReason(compliance.ResultFailNoVideo)))
		rec := s.do(h, http.MethodPost, "/cases/FIR-2025-0107/charge-sheet", nil)
		s.Equal(http.StatusForbidden, rec.Code)
		s.Contains(decode(s.T(), rec)["error_description"], "not uploaded")
	})

	s.Run("accepted submission returns the receipt", func() {
		s.svc.EXPECT().SubmitChargeSheet(gomock.Any(), testCase, domain.ActorID("IO-7")).
			Return(&service.Submission{SubmissionID: "sub-1", BlockHash: "beef", IsOverride: true, JudicialReview: true}, nil)
		rec := s.do(h, http.MethodPost, "/cases/FIR-2025-0107/charge-sheet", nil)
		s.Equal(http.StatusCreated, rec.Code)
		body := decode(s.T(), rec)
		s.Equal("beef", body["block_hash"])
		s.Equal(true, body["judicial_review"])
	})

	s.Run("internal errors hide their description", func() {
		s.svc.EXPECT().SubmitChargeSheet(gomock.Any(), testCase, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "ledger exploded"))
		rec := s.do(h, http.MethodPost, "/cases/FIR-2025-0107/charge-sheet", nil)
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "ledger exploded")
	})
}

func (s *HandlerSuite) TestJudicialReviewRequiresReviewerRole() {
	rec := s.do(s.router("IO-7", domain.RolePolice), http.MethodGet, "/judicial-review", nil)
	s.Equal(http.StatusForbidden, rec.Code)

	s.svc.EXPECT().PendingJudicialReview(gomock.Any()).Return([]*service.View{}, nil)
	rec = s.do(s.router("JM-2", domain.RoleJudge), http.MethodGet, "/judicial-review", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func TestHandleMandatory(t *testing.T) {
	h := New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)

	tests := []struct {
		name      string
		query     string
		status    int
		mandatory bool
	}{
		{"BNS murder", "law=BNS&section=101", http.StatusOK, true},
		{"comma list", "law=bns&section=420,309", http.StatusOK, true},
		{"cheating only", "law=BNS&section=318", http.StatusOK, false},
		{"missing law", "section=101", http.StatusBadRequest, false},
		{"missing sections", "law=IPC", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mandatory?"+tt.query, nil))
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.mandatory, decode(t, rec)["is_mandatory"])
			}
		})
	}
}

func TestRequestValidation(t *testing.T) {
	t.Run("register normalizes law code", func(t *testing.T) {
		req := RegisterCaseRequest{CaseID: " FIR-9 ", Sections: []string{"103"}, LawCode: "bns"}
		require.NoError(t, req.Validate())
		assert.Equal(t, "BNS", req.LawCode)
		assert.Equal(t, "FIR-9", req.CaseID)
	})

	t.Run("visit token needs a handshake method", func(t *testing.T) {
		req := VisitTokenRequest{VisitToken: compliance.VisitToken{ID: "T", OfficerID: "IO-7", ExpertID: "FSL-3"}}
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("reject needs a note", func(t *testing.T) {
		req := RejectOverrideRequest{Note: "   "}
		assert.Error(t, req.Validate())
	})
}
