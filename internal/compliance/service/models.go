package service

import (
	"nyaya/internal/compliance"
)

// View is a compliance record together with the decisions derived from it.
type View struct {
	Record  *compliance.Compliance  `json:"compliance"`
	Gate    compliance.GateDecision `json:"gate"`
	Display compliance.Display      `json:"display"`
}

func newView(record *compliance.Compliance) *View {
	return &View{
		Record:  record,
		Gate:    compliance.CanSubmitChargeSheet(record),
		Display: compliance.DisplayStatus(record),
	}
}

// Submission is the receipt for a charge sheet committed to the ledger.
type Submission struct {
	SubmissionID   string `json:"submission_id"`
	CaseID         string `json:"case_id"`
	BlockIndex     int    `json:"block_index"`
	BlockHash      string `json:"block_hash"`
	TransactionID  string `json:"transaction_id"`
	IsOverride     bool   `json:"is_override"`
	JudicialReview bool   `json:"judicial_review"`
}

// Ledger payload types written by this service.
const (
	PayloadForensicVideo = "FORENSIC_VIDEO"
	PayloadChargeSheet   = "CHARGE_SHEET"
)
