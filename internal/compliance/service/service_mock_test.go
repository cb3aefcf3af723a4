package service_test

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks EvidenceStore,ComplianceStore,Ledger,AuditPublisher,SecurityAuditor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"nyaya/internal/compliance"
	"nyaya/internal/compliance/service"
	"nyaya/internal/compliance/service/mocks"
	"nyaya/internal/ledger"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/sentinel"
	"nyaya/pkg/requestcontext"
)

type mockDeps struct {
	evidence *mocks.MockEvidenceStore
	records  *mocks.MockComplianceStore
	chain    *mocks.MockLedger
	audit    *mocks.MockAuditPublisher
	tx       *recordingTx
}

type inUnitKey struct{}

// recordingTx marks the context of each unit and remembers failed units,
// which a real runner would roll back.
type recordingTx struct {
	units  int
	failed []error
}

func (r *recordingTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	r.units++
	err := fn(context.WithValue(ctx, inUnitKey{}, true))
	if err != nil {
		r.failed = append(r.failed, err)
	}
	return err
}

func inUnit(ctx context.Context) bool {
	ok, _ := ctx.Value(inUnitKey{}).(bool)
	return ok
}

func newMockService(t *testing.T) (*service.Service, mockDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := mockDeps{
		evidence: mocks.NewMockEvidenceStore(ctrl),
		records:  mocks.NewMockComplianceStore(ctrl),
		chain:    mocks.NewMockLedger(ctrl),
		audit:    mocks.NewMockAuditPublisher(ctrl),
		tx:       &recordingTx{},
	}
	svc := service.New(deps.evidence, deps.records, deps.chain,
		service.WithAuditPublisher(deps.audit),
		service.WithStoreTx(deps.tx),
	)
	return svc, deps
}

func approvedRecord() *compliance.Compliance {
	return &compliance.Compliance{
		CaseID:          caseID,
		CNRNumber:       "DLCT01-004512-2025",
		IsMandatory:     true,
		InterlockStatus: compliance.StatusOverrideApproved,
		CheckResult:     compliance.ResultFailNoVideo,
		HasOverride:     true,
		Override:        &compliance.Override{IsApproved: true, JudicialReviewFlag: true},
	}
}

func TestEvaluateTranslatesStoreFailures(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("evidence backend failure is internal", func(t *testing.T) {
		svc, deps := newMockService(t)
		deps.evidence.EXPECT().FindFacts(gomock.Any(), caseID).Return(nil, sentinel.ErrUnavailable)
		deps.evidence.EXPECT().LatestVideo(gomock.Any(), caseID).Return(nil, sentinel.ErrNotFound).AnyTimes()
		deps.evidence.EXPECT().LatestVisitToken(gomock.Any(), caseID).Return(nil, sentinel.ErrNotFound).AnyTimes()
		deps.records.EXPECT().FindCompliance(gomock.Any(), caseID).Return(nil, sentinel.ErrNotFound).AnyTimes()

		_, err := svc.Evaluate(ctx, caseID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("audit failure fails the unit that saved the record", func(t *testing.T) {
		svc, deps := newMockService(t)
		deps.evidence.EXPECT().FindFacts(gomock.Any(), caseID).Return(&compliance.CaseFacts{
			CaseID: caseID, Sections: []string{"101"}, LawCode: compliance.LawBNS,
		}, nil)
		deps.evidence.EXPECT().LatestVideo(gomock.Any(), caseID).Return(nil, sentinel.ErrNotFound)
		deps.evidence.EXPECT().LatestVisitToken(gomock.Any(), caseID).Return(nil, sentinel.ErrNotFound)
		deps.records.EXPECT().FindCompliance(gomock.Any(), caseID).Return(nil, sentinel.ErrNotFound)
		deps.records.EXPECT().SaveCompliance(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, c *compliance.Compliance) error {
				assert.True(t, inUnit(ctx), "record must be saved inside the unit")
				assert.Equal(t, compliance.StatusLocked, c.InterlockStatus)
				assert.Equal(t, "Death/Life", c.MaxPunishment)
				return nil
			})
		deps.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, e audit.ComplianceEvent) error {
				assert.True(t, inUnit(ctx), "audit row must join the unit")
				assert.Equal(t, audit.EventComplianceEvaluated, e.Action)
				assert.Equal(t, string(compliance.ResultFailNoVideo), e.Decision)
				return errors.New("outbox down")
			})

		_, err := svc.Evaluate(ctx, caseID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		require.Len(t, deps.tx.failed, 1, "the failed unit is rolled back")
	})
}

func TestSubmitChargeSheetLedgerPayload(t *testing.T) {
	ctx := requestcontext.WithRequestID(context.Background(), "req-9")
	svc, deps := newMockService(t)

	var filed *compliance.ChargeSheet
	gomock.InOrder(
		deps.records.EXPECT().FindCompliance(gomock.Any(), caseID).Return(approvedRecord(), nil),
		deps.records.EXPECT().SaveCompliance(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, c *compliance.Compliance) error {
				assert.True(t, inUnit(ctx))
				require.NotNil(t, c.ChargeSheet)
				assert.Equal(t, domain.ActorID("IO-7"), c.ChargeSheet.SubmittedBy)
				filed = c.ChargeSheet
				return nil
			}),
		deps.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.ComplianceEvent) error {
				assert.Equal(t, audit.EventChargeSheetSubmitted, e.Action)
				assert.Equal(t, "req-9", e.RequestID)
				assert.Equal(t, "IO-7", e.ActorID)
				return nil
			}),
		deps.chain.EXPECT().AppendWithID(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, txID string, payload map[string]any) (ledger.AppendResult, error) {
				assert.Equal(t, filed.TransactionID, txID)
				assert.Equal(t, map[string]any{
					"id":              caseID.String(),
					"type":            service.PayloadChargeSheet,
					"cnr":             "DLCT01-004512-2025",
					"submitted_by":    "IO-7",
					"is_override":     true,
					"judicial_review": true,
				}, payload)
				return ledger.AppendResult{Index: 4, BlockHash: "beef", TransactionID: txID}, nil
			}),
	)

	sub, err := svc.SubmitChargeSheet(ctx, caseID, "IO-7")
	require.NoError(t, err)
	assert.Equal(t, 4, sub.BlockIndex)
	assert.Equal(t, "beef", sub.BlockHash)
	assert.Equal(t, filed.TransactionID, sub.TransactionID)
	assert.True(t, sub.JudicialReview)
}

func TestSubmitChargeSheetAuditFailureSkipsLedger(t *testing.T) {
	svc, deps := newMockService(t)
	deps.records.EXPECT().FindCompliance(gomock.Any(), caseID).Return(approvedRecord(), nil)
	deps.records.EXPECT().SaveCompliance(gomock.Any(), gomock.Any()).Return(nil)
	deps.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))
	// No AppendWithID expected: the ledger is written only after the audit row.

	_, err := svc.SubmitChargeSheet(context.Background(), caseID, "IO-7")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Len(t, deps.tx.failed, 1)
}

func TestSubmitChargeSheetLedgerFailure(t *testing.T) {
	svc, deps := newMockService(t)
	deps.records.EXPECT().FindCompliance(gomock.Any(), caseID).Return(approvedRecord(), nil)
	deps.records.EXPECT().SaveCompliance(gomock.Any(), gomock.Any()).Return(nil)
	deps.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	deps.chain.EXPECT().AppendWithID(gomock.Any(), gomock.Any(), gomock.Any()).Return(ledger.AppendResult{}, errors.New("hash failure"))

	_, err := svc.SubmitChargeSheet(context.Background(), caseID, "IO-7")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Len(t, deps.tx.failed, 1, "record and audit row roll back with the ledger failure")
}

func TestSubmitChargeSheetTwiceConflicts(t *testing.T) {
	svc, deps := newMockService(t)
	filed := approvedRecord()
	filed.ChargeSheet = &compliance.ChargeSheet{TransactionID: "tx-1", SubmittedBy: "IO-7"}
	deps.records.EXPECT().FindCompliance(gomock.Any(), caseID).Return(filed, nil)
	// No write, no audit row and no ledger block.

	_, err := svc.SubmitChargeSheet(context.Background(), caseID, "IO-7")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Zero(t, deps.tx.units)
}

func TestIllegalTransitionIsNotPersisted(t *testing.T) {
	svc, deps := newMockService(t)
	unlocked := &compliance.Compliance{
		CaseID: caseID, IsMandatory: true,
		InterlockStatus: compliance.StatusUnlocked, CheckResult: compliance.ResultPass,
	}
	deps.records.EXPECT().FindCompliance(gomock.Any(), caseID).Return(unlocked, nil)
	// No SaveCompliance and no Emit expected.

	_, err := svc.RequestOverride(context.Background(), caseID, "IO-7", compliance.ReasonTechnicalFailure, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestRecordVideoRejectsInvalidInput(t *testing.T) {
	svc, _ := newMockService(t)
	_, err := svc.RecordVideo(context.Background(), compliance.Video{ID: "VID-1", CaseID: caseID, UploadStatus: compliance.UploadUploaded})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
