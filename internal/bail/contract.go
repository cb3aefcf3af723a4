package bail

import (
	"slices"
	"strings"
	"time"

	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
)

// NewContract validates the terms and returns a LOCKED contract.
// Court dates are normalized to YYYY-MM-DD, sorted and de-duplicated.
func NewContract(txID string, caseID domain.CaseID, accusedID domain.ActorID, amount int64, courtDates []string, jurisdiction string, now time.Time) (*Contract, error) {
	if caseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "case_id is required")
	}
	if accusedID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "accused_id is required")
	}
	if amount <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	dates := make([]string, 0, len(courtDates))
	for _, d := range courtDates {
		normalized, err := NormalizeDate(d)
		if err != nil {
			return nil, err
		}
		dates = append(dates, normalized)
	}
	slices.Sort(dates)
	dates = slices.Compact(dates)
	if len(dates) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one court date is required")
	}
	jurisdiction = strings.TrimSpace(jurisdiction)
	if jurisdiction == "" {
		jurisdiction = DefaultJurisdiction
	}
	return &Contract{
		TransactionID:       txID,
		CaseID:              caseID,
		AccusedID:           accusedID,
		Amount:              amount,
		Currency:            CurrencyINR,
		Status:              StatusLocked,
		CreatedAt:           now,
		Jurisdiction:        jurisdiction,
		CourtDates:          dates,
		VerifiedAppearances: []string{},
	}, nil
}

// NormalizeDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format(time.DateOnly), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.DateOnly), nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "invalid court date: "+s)
}

// VerifyAppearance records attendance on a scheduled date. It succeeds only
// for a scheduled, not yet verified date with a non-empty biometric hash.
// The input contract is never modified.
func VerifyAppearance(c *Contract, date, biometricHash string) (*Contract, AppearanceResult) {
	failed := AppearanceResult{
		AppearancesRemaining: c.AppearancesRemaining(),
		ComplianceScore:      c.ComplianceScore,
		Status:               c.Status,
	}
	day, err := NormalizeDate(date)
	if err != nil || strings.TrimSpace(biometricHash) == "" || c.Status != StatusLocked {
		return c, failed
	}
	if !slices.Contains(c.CourtDates, day) || slices.Contains(c.VerifiedAppearances, day) {
		return c, failed
	}

	next := c.Clone()
	next.VerifiedAppearances = append(next.VerifiedAppearances, day)
	next.BiometricHashes = append(next.BiometricHashes, strings.TrimSpace(biometricHash))
	next.ComplianceScore = float64(len(next.VerifiedAppearances)) / float64(len(next.CourtDates)) * 100
	if next.AppearancesRemaining() == 0 {
		next.Status = StatusActive
		next.RefundEligible = true
	}
	return next, AppearanceResult{
		Success:              true,
		AppearancesRemaining: next.AppearancesRemaining(),
		ComplianceScore:      next.ComplianceScore,
		Status:               next.Status,
	}
}

// Release refunds an eligible contract. A refunded contract is no longer
// eligible, so a second release fails.
func Release(c *Contract) (*Contract, ReleaseResult) {
	if !c.RefundEligible {
		return c, ReleaseResult{Message: MessageNotEligible}
	}
	next := c.Clone()
	next.Status = StatusRefunded
	next.RefundEligible = false
	return next, ReleaseResult{Success: true, Message: MessageReleased, RefundAmount: c.Amount}
}
