// Package report renders the judicial review dossier for a case: its
// compliance record, the integrity of its ledger anchors and its audit trail.
package report

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"nyaya/internal/compliance"
	"nyaya/internal/compliance/service"
	"nyaya/internal/ledger"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	"nyaya/pkg/platform/audit"
	"nyaya/pkg/requestcontext"
)

type ComplianceReader interface {
	Get(ctx context.Context, caseID domain.CaseID) (*service.View, error)
}

type LedgerVerifier interface {
	VerifyChain() ledger.IntegrityReport
	VerifyRecord(recordID string) ledger.RecordVerification
}

type AuditReader interface {
	ListByCase(ctx context.Context, caseID domain.CaseID) ([]audit.Event, error)
}

// Dossier is everything printed in a review report.
type Dossier struct {
	CaseID      domain.CaseID
	GeneratedAt time.Time
	GeneratedBy domain.ActorID
	Record      *compliance.Compliance
	Gate        compliance.GateDecision
	Display     compliance.Display
	Chain       ledger.IntegrityReport
	Video       *ledger.RecordVerification
	Events      []audit.Event
	Warnings    []string
}

// Report is a rendered PDF and its digest.
type Report struct {
	CaseID      domain.CaseID `json:"case_id"`
	SHA256      string        `json:"sha256"`
	GeneratedAt time.Time     `json:"generated_at"`
	PDF         []byte        `json:"-"`
}

type Generator struct {
	records ComplianceReader
	chain   LedgerVerifier
	events  AuditReader
	logger  *slog.Logger
}

func NewGenerator(records ComplianceReader, chain LedgerVerifier, events AuditReader, logger *slog.Logger) *Generator {
	return &Generator{records: records, chain: chain, events: events, logger: logger}
}

// Generate collects the dossier and renders it. A missing audit trail is
// reported inside the document rather than failing the report.
func (g *Generator) Generate(ctx context.Context, caseID domain.CaseID) (*Report, error) {
	view, err := g.records.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}

	d := Dossier{
		CaseID:      caseID,
		GeneratedAt: requestcontext.Now(ctx),
		GeneratedBy: requestcontext.Actor(ctx),
		Record:      view.Record,
		Gate:        view.Gate,
		Display:     view.Display,
		Chain:       g.chain.VerifyChain(),
	}
	if view.Record != nil && view.Record.Video != nil {
		v := g.chain.VerifyRecord(view.Record.Video.ID)
		d.Video = &v
	}
	if g.events != nil {
		events, err := g.events.ListByCase(ctx, caseID)
		if err != nil {
			d.Warnings = append(d.Warnings, "audit trail unavailable: "+err.Error())
		} else {
			d.Events = events
		}
	}

	pdf, err := Render(d)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render review report")
	}
	sum := sha256.Sum256(pdf)
	out := &Report{CaseID: caseID, SHA256: hex.EncodeToString(sum[:]), GeneratedAt: d.GeneratedAt, PDF: pdf}

	if g.logger != nil {
		g.logger.InfoContext(ctx, "review report generated",
			"event", "review_report_generated",
			"case_id", caseID,
			"sha256", out.SHA256,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return out, nil
}

// Render builds the PDF bytes for a dossier.
func Render(d Dossier) ([]byte, error) {
	pdf := buildPDF(d)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
