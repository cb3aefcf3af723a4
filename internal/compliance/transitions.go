package compliance

import (
	"time"

	"nyaya/pkg/domain"
)

// Interlock transitions. Each is total and copy-on-write: it returns a new
// record and true when the transition applies, or the input unchanged and
// false when it does not. The input is never modified.
//
//	LOCKED           --RequestOverride--> OVERRIDE_PENDING
//	OVERRIDE_PENDING --ApproveOverride--> OVERRIDE_APPROVED
//	OVERRIDE_PENDING --RejectOverride---> LOCKED

// RequestOverride asks for an exception on a locked, mandatory record.
// Exempt and compliant records never enter the override states.
func RequestOverride(c *Compliance, requestedBy domain.ActorID, reason OverrideReason, details string, now time.Time) (*Compliance, bool) {
	if c == nil || !c.IsMandatory || c.InterlockStatus != StatusLocked {
		return c, false
	}
	if requestedBy.IsNil() || !reason.IsValid() {
		return c, false
	}

	next := c.Clone()
	next.InterlockStatus = StatusOverridePending
	next.HasOverride = true
	next.Override = &Override{
		RequestedBy:        requestedBy,
		RequestedAt:        now,
		Reason:             reason,
		ReasonDetails:      details,
		IsApproved:         false,
		JudicialReviewFlag: true,
	}
	return next, true
}

// ApproveOverride records the approving authority on a pending request.
// Without an override sub-record it is a no-op.
func ApproveOverride(c *Compliance, approvedBy domain.ActorID, now time.Time) (*Compliance, bool) {
	if c == nil || c.Override == nil || c.InterlockStatus != StatusOverridePending {
		return c, false
	}
	if approvedBy.IsNil() {
		return c, false
	}

	next := c.Clone()
	ts := now
	next.InterlockStatus = StatusOverrideApproved
	next.Override.ApprovedBy = approvedBy
	next.Override.ApprovedAt = &ts
	next.Override.IsApproved = true
	return next, true
}

// RejectOverride turns a pending request down and re-locks the gate. The
// override stays attached, flagged for judicial review, so the refusal is
// visible on the record. A fresh request may follow.
func RejectOverride(c *Compliance, rejectedBy domain.ActorID, note string, now time.Time) (*Compliance, bool) {
	if c == nil || c.Override == nil || c.InterlockStatus != StatusOverridePending {
		return c, false
	}
	if rejectedBy.IsNil() {
		return c, false
	}

	next := c.Clone()
	ts := now
	next.InterlockStatus = StatusLocked
	next.Override.IsApproved = false
	next.Override.RejectedBy = rejectedBy
	next.Override.RejectedAt = &ts
	next.Override.RejectionNote = note
	return next, true
}
