package bail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "nyaya/pkg/domain-errors"
)

var created = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func twoDateContract(t *testing.T) *Contract {
	t.Helper()
	c, err := NewContract("tx-1", "FIR-1", "ACC-1", 50000, []string{"2025-05-02", "2025-04-01T09:30:00+05:30", "2025-05-02"}, "", created)
	require.NoError(t, err)
	return c
}

func TestNewContract(t *testing.T) {
	t.Run("normalizes terms", func(t *testing.T) {
		c := twoDateContract(t)
		assert.Equal(t, StatusLocked, c.Status)
		assert.Equal(t, CurrencyINR, c.Currency)
		assert.Equal(t, DefaultJurisdiction, c.Jurisdiction)
		assert.Equal(t, []string{"2025-04-01", "2025-05-02"}, c.CourtDates)
		assert.Empty(t, c.VerifiedAppearances)
		assert.False(t, c.RefundEligible)
		assert.Zero(t, c.ComplianceScore)
	})

	tests := []struct {
		name   string
		amount int64
		dates  []string
	}{
		{"zero amount", 0, []string{"2025-04-01"}},
		{"negative amount", -5, []string{"2025-04-01"}},
		{"no dates", 100, nil},
		{"bad date", 100, []string{"first of april"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContract("tx", "FIR-1", "ACC-1", tt.amount, tt.dates, "", created)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}

	t.Run("requires parties", func(t *testing.T) {
		_, err := NewContract("tx", "", "ACC-1", 100, []string{"2025-04-01"}, "", created)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = NewContract("tx", "FIR-1", "", 100, []string{"2025-04-01"}, "", created)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestVerifyAppearance(t *testing.T) {
	c := twoDateContract(t)

	t.Run("first appearance scores half", func(t *testing.T) {
		next, res := VerifyAppearance(c, "2025-04-01", "bio-1")
		assert.True(t, res.Success)
		assert.Equal(t, 1, res.AppearancesRemaining)
		assert.InDelta(t, 50.0, res.ComplianceScore, 0.001)
		assert.Equal(t, StatusLocked, res.Status)
		assert.Empty(t, c.VerifiedAppearances, "input must not change")

		t.Run("repeat is rejected", func(t *testing.T) {
			again, res := VerifyAppearance(next, "2025-04-01", "bio-1")
			assert.False(t, res.Success)
			assert.Equal(t, 1, res.AppearancesRemaining)
			assert.Same(t, next, again)
		})

		t.Run("last appearance activates refund", func(t *testing.T) {
			done, res := VerifyAppearance(next, "2025-05-02", "bio-2")
			assert.True(t, res.Success)
			assert.Equal(t, 0, res.AppearancesRemaining)
			assert.InDelta(t, 100.0, res.ComplianceScore, 0.001)
			assert.Equal(t, StatusActive, done.Status)
			assert.True(t, done.RefundEligible)
			assert.Equal(t, []string{"bio-1", "bio-2"}, done.BiometricHashes)
		})
	})

	t.Run("unscheduled date fails", func(t *testing.T) {
		_, res := VerifyAppearance(c, "2025-06-01", "bio")
		assert.False(t, res.Success)
		assert.Equal(t, 2, res.AppearancesRemaining)
	})

	t.Run("empty biometric hash fails", func(t *testing.T) {
		_, res := VerifyAppearance(c, "2025-04-01", "  ")
		assert.False(t, res.Success)
	})
}

func TestRelease(t *testing.T) {
	c := twoDateContract(t)

	t.Run("locked contract is not eligible", func(t *testing.T) {
		next, res := Release(c)
		assert.False(t, res.Success)
		assert.Equal(t, MessageNotEligible, res.Message)
		assert.Zero(t, res.RefundAmount)
		assert.Equal(t, StatusLocked, next.Status)
	})

	t.Run("fully attended contract refunds once", func(t *testing.T) {
		c, _ = VerifyAppearance(c, "2025-04-01", "bio-1")
		c, _ = VerifyAppearance(c, "2025-05-02", "bio-2")

		refunded, res := Release(c)
		assert.True(t, res.Success)
		assert.Equal(t, MessageReleased, res.Message)
		assert.Equal(t, int64(50000), res.RefundAmount)
		assert.Equal(t, StatusRefunded, refunded.Status)

		_, res = Release(refunded)
		assert.False(t, res.Success)

		_, appearance := VerifyAppearance(refunded, "2025-04-01", "bio-3")
		assert.False(t, appearance.Success)
	})
}
