// Package bail implements smart bail contracts: a bail amount held until the
// accused has appeared on every scheduled court date.
package bail

import (
	"slices"
	"time"

	"nyaya/pkg/domain"
)

// Status is the lifecycle position of a contract.
type Status string

const (
	StatusLocked   Status = "LOCKED"   // amount held, appearances outstanding
	StatusActive   Status = "ACTIVE"   // every appearance verified, refund eligible
	StatusRefunded Status = "REFUNDED" // amount released
)

// CurrencyINR is the only settlement currency.
const CurrencyINR = "INR"

// DefaultJurisdiction is recorded when the creating court does not name one.
const DefaultJurisdiction = "Supreme Court of India"

// Contract is one bail bond. CourtDates are civil dates (YYYY-MM-DD).
type Contract struct {
	TransactionID       string         `json:"transaction_id"`
	CaseID              domain.CaseID  `json:"case_id"`
	AccusedID           domain.ActorID `json:"accused_id"`
	Amount              int64          `json:"amount"`
	Currency            string         `json:"currency"`
	Status              Status         `json:"status"`
	CreatedAt           time.Time      `json:"creation_date"`
	Jurisdiction        string         `json:"jurisdiction"`
	CourtDates          []string       `json:"court_dates"`
	VerifiedAppearances []string       `json:"verified_appearances"`
	BiometricHashes     []string       `json:"biometric_hashes,omitempty"`
	ComplianceScore     float64        `json:"compliance_score"`
	RefundEligible      bool           `json:"refund_eligible"`
	LedgerBlockHash     string         `json:"ledger_block_hash,omitempty"`
}

func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	out := *c
	out.CourtDates = slices.Clone(c.CourtDates)
	out.VerifiedAppearances = slices.Clone(c.VerifiedAppearances)
	out.BiometricHashes = slices.Clone(c.BiometricHashes)
	return &out
}

// AppearancesRemaining counts scheduled dates not yet verified.
func (c *Contract) AppearancesRemaining() int {
	return len(c.CourtDates) - len(c.VerifiedAppearances)
}

// AppearanceResult reports one verification attempt.
type AppearanceResult struct {
	Success              bool    `json:"success"`
	AppearancesRemaining int     `json:"appearances_remaining"`
	ComplianceScore      float64 `json:"compliance_score"`
	Status               Status  `json:"status"`
}

// ReleaseResult reports a refund attempt.
type ReleaseResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	RefundAmount int64  `json:"refund_amount"`
}

// Release messages.
const (
	MessageReleased    = "Bail amount released successfully via Smart Contract."
	MessageNotEligible = "Refund not eligible. Compliance conditions not met."
)
