package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockedRecord() *Compliance {
	return Evaluate(testCase, nil, nil, true, nil, evalTime)
}

func TestRequestOverride(t *testing.T) {
	locked := lockedRecord()

	next, ok := RequestOverride(locked, "IO-7", ReasonForensicTeamUnavailable, "FSL team on leave", evalTime)

	require.True(t, ok)
	assert.Equal(t, StatusOverridePending, next.InterlockStatus)
	assert.True(t, next.HasOverride)
	require.NotNil(t, next.Override)
	assert.False(t, next.Override.IsApproved)
	assert.True(t, next.Override.JudicialReviewFlag)
	assert.Empty(t, next.Override.ApprovedBy)
	assert.Nil(t, next.Override.ApprovedAt)
	assert.Equal(t, StatusLocked, locked.InterlockStatus, "input must not change")
	assert.Nil(t, locked.Override)
}

func TestRequestOverrideRejectedOutsideLocked(t *testing.T) {
	exempt := Evaluate(testCase, nil, nil, false, nil, evalTime)
	passed := Evaluate(testCase, uploadedVideo(IntegrityVerified), verifiedToken(), true, nil, evalTime)
	pending, _ := RequestOverride(lockedRecord(), "IO-7", ReasonOther, "x", evalTime)

	tests := []struct {
		name   string
		record *Compliance
		actor  string
		reason OverrideReason
	}{
		{"exempt", exempt, "IO-7", ReasonOther},
		{"passed", passed, "IO-7", ReasonOther},
		{"already pending", pending, "IO-7", ReasonOther},
		{"nil record", nil, "IO-7", ReasonOther},
		{"unknown reason", lockedRecord(), "IO-7", OverrideReason("BORED")},
		{"no requester", lockedRecord(), "", ReasonOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := RequestOverride(tt.record, actor(tt.actor), tt.reason, "details", evalTime)
			assert.False(t, ok)
			assert.Same(t, tt.record, next)
		})
	}
}

func TestApproveOverride(t *testing.T) {
	pending, ok := RequestOverride(lockedRecord(), "IO-7", ReasonTechnicalFailure, "drone crashed", evalTime)
	require.True(t, ok)
	at := evalTime.Add(2 * time.Hour)

	approved, ok := ApproveOverride(pending, "SP-Delhi", at)

	require.True(t, ok)
	assert.Equal(t, StatusOverrideApproved, approved.InterlockStatus)
	assert.True(t, approved.Override.IsApproved)
	assert.Equal(t, actor("SP-Delhi"), approved.Override.ApprovedBy)
	require.NotNil(t, approved.Override.ApprovedAt)
	assert.Equal(t, at, *approved.Override.ApprovedAt)
	assert.False(t, pending.Override.IsApproved, "input must not change")
}

func TestApproveOverrideWithoutOverrideIsNoop(t *testing.T) {
	locked := lockedRecord()

	next, ok := ApproveOverride(locked, "SP-1", evalTime)

	assert.False(t, ok)
	assert.Same(t, locked, next)
}

func TestApproveOverrideTwiceIsNoop(t *testing.T) {
	pending, _ := RequestOverride(lockedRecord(), "IO-7", ReasonOther, "x", evalTime)
	approved, _ := ApproveOverride(pending, "SP-1", evalTime)

	again, ok := ApproveOverride(approved, "SP-2", evalTime)

	assert.False(t, ok)
	assert.Equal(t, actor("SP-1"), again.Override.ApprovedBy)
}

func TestRejectOverride(t *testing.T) {
	pending, _ := RequestOverride(lockedRecord(), "IO-7", ReasonStateExemption, "notification 12/2024", evalTime)

	rejected, ok := RejectOverride(pending, "JUDGE-4", "notification not applicable", evalTime)

	require.True(t, ok)
	assert.Equal(t, StatusLocked, rejected.InterlockStatus)
	assert.True(t, rejected.Override.IsRejected())
	assert.False(t, rejected.Override.IsApproved)
	assert.Empty(t, rejected.Override.ApprovedBy)
	assert.Equal(t, "notification not applicable", rejected.Override.RejectionNote)
	assert.False(t, CanSubmitChargeSheet(rejected).Allowed)

	t.Run("a new request may follow", func(t *testing.T) {
		again, ok := RequestOverride(rejected, "IO-7", ReasonOther, "second attempt", evalTime)
		require.True(t, ok)
		assert.False(t, again.Override.IsRejected())
	})

	t.Run("approved overrides cannot be rejected", func(t *testing.T) {
		approved, _ := ApproveOverride(pending, "SP-1", evalTime)
		next, ok := RejectOverride(approved, "JUDGE-4", "", evalTime)
		assert.False(t, ok)
		assert.Same(t, approved, next)
	})
}

func TestOverrideLabels(t *testing.T) {
	want := []string{
		"Forensic Team Unavailable",
		"Technical Failure",
		"Extreme Terrain/Accessibility",
		"Infrastructure Limitation",
		"State Notification Exemption",
		"Other (Specify)",
	}
	var got []string
	for _, r := range OverrideReasons() {
		got = append(got, r.Label())
	}
	assert.Equal(t, want, got)

	r, err := ParseOverrideReason(" extreme_terrain ")
	require.NoError(t, err)
	assert.Equal(t, ReasonExtremeTerrain, r)
	_, err = ParseOverrideReason("nope")
	assert.Error(t, err)
}
