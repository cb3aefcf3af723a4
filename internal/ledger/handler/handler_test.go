package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyaya/internal/digest"
	"nyaya/internal/ledger"
	"nyaya/pkg/platform/audit"
)

type alerts struct{ events []audit.SecurityEvent }

func (a *alerts) Emit(_ context.Context, e audit.SecurityEvent) { a.events = append(a.events, e) }

func newRouter(t *testing.T, opts ...Option) (*ledger.Ledger, http.Handler) {
	t.Helper()
	l, err := ledger.New(digest.SHA256())
	require.NoError(t, err)
	_, err = l.Append(context.Background(), map[string]any{"id": "FIR-1", "type": "CHARGE_SHEET"})
	require.NoError(t, err)
	_, err = l.Append(context.Background(), map[string]any{"id": "FIR-2", "type": "CHARGE_SHEET"})
	require.NoError(t, err)

	h := New(l, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAdmin(r)
	return l, r
}

func do(t *testing.T, router http.Handler, method, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec.Code
}

func TestVerifyChainEndpoint(t *testing.T) {
	_, router := newRouter(t)

	var report ledger.IntegrityReport
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/ledger/verify", &report))
	assert.True(t, report.IsValid)
	assert.Equal(t, 3, report.TotalBlocks)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/admin/ledger/1/tamper", nil))

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/ledger/verify", &report))
	assert.False(t, report.IsValid)
	assert.Equal(t, []int{1}, report.CorruptedBlocks)
}

func TestVerifyRecordEndpoint(t *testing.T) {
	_, router := newRouter(t)

	var res ledger.RecordVerification
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/ledger/records/FIR-2/verify", &res))
	assert.True(t, res.IsAuthentic)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/ledger/records/FIR-9/verify", &res))
	assert.False(t, res.IsAuthentic)
	assert.False(t, res.Found)
}

func TestTamperEndpointValidation(t *testing.T) {
	_, router := newRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/admin/ledger/abc/tamper", nil))
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/admin/ledger/42/tamper", nil))
}

func TestTamperEndpointRefusesGenesis(t *testing.T) {
	sink := &alerts{}
	l, router := newRouter(t, WithSecurityAuditor(sink))

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/admin/ledger/0/tamper", nil))
	assert.NotContains(t, l.Blocks()[0].Payload, "tampered")
	assert.True(t, l.VerifyChain().IsValid)
	assert.Empty(t, sink.events)
}

func TestBlocksEndpoint(t *testing.T) {
	_, router := newRouter(t)
	var body struct {
		Blocks []ledger.Block `json:"blocks"`
	}
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/ledger/blocks", &body))
	require.Len(t, body.Blocks, 3)
	assert.Equal(t, ledger.GenesisPreviousHash, body.Blocks[0].PreviousHash)
}

func TestIntegrityAlerts(t *testing.T) {
	sink := &alerts{}
	_, router := newRouter(t, WithSecurityAuditor(sink))

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/ledger/verify", nil))
	assert.Empty(t, sink.events, "a clean chain raises nothing")

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/admin/ledger/2/tamper", nil))
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/ledger/verify", nil))
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/ledger/records/FIR-2/verify", nil))

	require.Len(t, sink.events, 3)
	assert.Equal(t, audit.EventLedgerTamperSimulate, sink.events[0].Action)
	assert.Equal(t, "2", sink.events[0].Subject)
	assert.Equal(t, audit.EventLedgerCorrupted, sink.events[1].Action)
	assert.Equal(t, audit.SeverityCritical, sink.events[1].Severity)
	assert.Equal(t, "FIR-2", sink.events[2].Subject)
}
