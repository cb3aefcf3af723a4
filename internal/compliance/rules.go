package compliance

import (
	"time"

	"nyaya/pkg/domain"
)

// Check details recorded in the history log.
const (
	DetailExempt       = "Forensic videography not mandatory for this offense"
	DetailNoVideo      = "Mandatory forensic video not uploaded"
	DetailNoExpert     = "Forensic expert visit token not verified"
	DetailHashMismatch = "Video hash mismatch - potential tampering detected"
	DetailPass         = "All forensic compliance requirements met"
)

// Evaluate decides whether current evidence satisfies BNSS 176(3) for a case.
// This is pure domain logic - no I/O, no side effects.
//
// prior may be nil. Its history is copied and extended by exactly one entry;
// prior itself is never modified. Rule priority (fail-fast):
//  1. Not mandatory - exempt, short-circuits everything else
//  2. Video missing or not UPLOADED
//  3. Visit token missing or not verified
//  4. Video integrity MISMATCH
func Evaluate(caseID domain.CaseID, video *Video, token *VisitToken, isMandatory bool, prior *Compliance, now time.Time) *Compliance {
	next := &Compliance{
		CaseID:      caseID,
		IsMandatory: isMandatory,
		LastChecked: now,
	}
	if prior != nil {
		next.CNRNumber = prior.CNRNumber
		next.CheckHistory = append(next.CheckHistory, prior.CheckHistory...)
		if prior.ChargeSheet != nil {
			cs := *prior.ChargeSheet
			next.ChargeSheet = &cs
		}
		if isMandatory {
			next.MandatoryReason = prior.MandatoryReason
			next.MaxPunishment = prior.MaxPunishment
		}
	}
	attachEvidence(next, video, token)

	result, details := firstFailure(video, token, isMandatory)
	next.CheckResult = result
	next.CheckHistory = append(next.CheckHistory, CheckEntry{Timestamp: now, Result: result, Details: details})

	switch {
	case result == ResultExempt:
		next.InterlockStatus = StatusUnlocked
	case result == ResultPass:
		next.InterlockStatus = StatusUnlocked
		if video.IntegrityStatus == IntegrityVerified {
			next.IsHashVerified = true
			ts := now
			next.HashVerifiedAt = &ts
		}
	default:
		next.InterlockStatus = StatusLocked
		carryOverride(next, prior)
	}
	return next
}

func firstFailure(video *Video, token *VisitToken, isMandatory bool) (CheckResult, string) {
	if !isMandatory {
		return ResultExempt, DetailExempt
	}
	if video == nil || video.UploadStatus != UploadUploaded {
		return ResultFailNoVideo, DetailNoVideo
	}
	if token == nil || !token.IsVerified {
		return ResultFailNoExpert, DetailNoExpert
	}
	if video.IntegrityStatus == IntegrityMismatch {
		return ResultFailHashMismatch, DetailHashMismatch
	}
	return ResultPass, DetailPass
}

func attachEvidence(c *Compliance, video *Video, token *VisitToken) {
	if video != nil {
		v := *video
		c.Video = &v
		c.HasVideo = true
	}
	if token != nil {
		t := *token
		c.VisitToken = &t
		c.HasVisitToken = true
	}
}

// carryOverride keeps an outstanding override across a re-evaluation that
// still fails, so new evidence cannot silently discard a pending or approved
// request. A rejected override stays attached but leaves the gate locked.
func carryOverride(next, prior *Compliance) {
	if prior == nil || prior.Override == nil || !prior.IsMandatory {
		return
	}
	o := prior.Clone().Override
	next.Override = o
	next.HasOverride = true
	switch {
	case o.IsRejected():
		next.InterlockStatus = StatusLocked
	case o.IsApproved && prior.InterlockStatus == StatusOverrideApproved:
		next.InterlockStatus = StatusOverrideApproved
	case prior.InterlockStatus == StatusOverridePending:
		next.InterlockStatus = StatusOverridePending
	}
}
