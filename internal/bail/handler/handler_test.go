package handler

import (
	"bytes"
	"context"
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

	"nyaya/internal/bail"
	"nyaya/internal/bail/service"
	"nyaya/internal/bail/store"
	"nyaya/internal/digest"
	"nyaya/internal/ledger"
	"nyaya/pkg/domain"
	"nyaya/pkg/requestcontext"
)

func newRouter(t *testing.T, role domain.Role) http.Handler {
	t.Helper()
	chain, err := ledger.New(digest.SHA256())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithActor(req.Context(), "JUDGE-3", role)
			ctx = requestcontext.WithTime(ctx, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	New(service.New(store.New(), chain), logger).Register(r)
	return r
}

func call(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
	h.ServeHTTP(rec, req)
	return rec
}

func TestBailLifecycleOverHTTP(t *testing.T) {
	h := newRouter(t, domain.RoleJudge)

	rec := call(t, h, http.MethodPost, "/bail", map[string]any{
		"case_id":     "FIR-2025-0107",
		"accused_id":  "ACC-12",
		"amount":      25000,
		"court_dates": []string{"2025-04-01"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c bail.Contract
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, bail.StatusLocked, c.Status)
	assert.Equal(t, bail.DefaultJurisdiction, c.Jurisdiction)

	rec = call(t, h, http.MethodPost, "/bail/"+c.TransactionID+"/release", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h, http.MethodPost, "/bail/"+c.TransactionID+"/appearances", AppearanceRequest{Date: "2025-04-02", BiometricHash: "bio"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(t, h, http.MethodPost, "/bail/"+c.TransactionID+"/appearances", AppearanceRequest{Date: "2025-04-01", BiometricHash: "bio"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var appearance bail.AppearanceResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appearance))
	assert.Equal(t, bail.StatusActive, appearance.Status)

	rec = call(t, h, http.MethodPost, "/bail/"+c.TransactionID+"/release", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var released bail.ReleaseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &released))
	assert.Equal(t, bail.MessageReleased, released.Message)

	rec = call(t, h, http.MethodGet, "/bail?case_id=FIR-2025-0107", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"REFUNDED"`)
}

func TestBailHandlerRejections(t *testing.T) {
	t.Run("police cannot set bail", func(t *testing.T) {
		h := newRouter(t, domain.RolePolice)
		rec := call(t, h, http.MethodPost, "/bail", map[string]any{
			"case_id": "FIR-1", "accused_id": "ACC-1", "amount": 10, "court_dates": []string{"2025-04-01"},
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid terms", func(t *testing.T) {
		h := newRouter(t, domain.RoleJudge)
		rec := call(t, h, http.MethodPost, "/bail", map[string]any{
			"case_id": "FIR-1", "accused_id": "ACC-1", "amount": 0, "court_dates": []string{"2025-04-01"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown contract", func(t *testing.T) {
		h := newRouter(t, domain.RoleJudge)
		rec := call(t, h, http.MethodGet, "/bail/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list requires case id", func(t *testing.T) {
		h := newRouter(t, domain.RoleJudge)
		rec := call(t, h, http.MethodGet, "/bail", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
