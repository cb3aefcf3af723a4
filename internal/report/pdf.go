package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"nyaya/internal/compliance"
)

const fontFamily = "Helvetica"

// maxEvents caps the audit trail section.
const maxEvents = 200

func buildPDF(d Dossier) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("Nyaya Sahayak - Judicial Review Report", false)
	pdf.SetCreator("nyaya", false)
	pdf.SetCreationDate(d.GeneratedAt)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 9, "BNSS 176(3) Judicial Review Report", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, "Generated at: "+fmtTime(d.GeneratedAt), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated by: "+safeText(d.GeneratedBy.String()), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	sectionTitle(pdf, "1. Case")
	kv(pdf, "Case ID", d.CaseID.String())
	if r := d.Record; r != nil {
		kv(pdf, "CNR", r.CNRNumber)
		kv(pdf, "Mandatory", fmt.Sprintf("%v", r.IsMandatory))
		kv(pdf, "Reason", r.MandatoryReason)
		kv(pdf, "Max punishment", r.MaxPunishment)
		kv(pdf, "Interlock", string(r.InterlockStatus))
		kv(pdf, "Check result", string(r.CheckResult))
		kv(pdf, "Last checked", fmtTime(r.LastChecked))
	}
	kv(pdf, "Status", d.Display.Label+" - "+d.Display.Description)
	kv(pdf, "Gate", fmt.Sprintf("allowed=%v override=%v (%s)", d.Gate.Allowed, d.Gate.IsOverride, d.Gate.Reason))
	pdf.Ln(2)

	if len(d.Warnings) > 0 {
		sectionTitle(pdf, "Warnings")
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(120, 80, 0)
		for _, w := range d.Warnings {
			pdf.MultiCell(0, 4.5, "- "+safeText(w), "", "L", false)
		}
		pdf.Ln(2)
	}

	sectionTitle(pdf, "2. Evidence")
	writeEvidence(pdf, d)
	pdf.Ln(2)

	sectionTitle(pdf, "3. Override")
	writeOverride(pdf, d.Record)
	pdf.Ln(2)

	sectionTitle(pdf, "4. Ledger Integrity")
	kv(pdf, "Chain valid", fmt.Sprintf("%v", d.Chain.IsValid))
	kv(pdf, "Total blocks", fmt.Sprintf("%d", d.Chain.TotalBlocks))
	if len(d.Chain.CorruptedBlocks) > 0 {
		kv(pdf, "Corrupted", joinInts(d.Chain.CorruptedBlocks))
	}
	if v := d.Video; v != nil {
		kv(pdf, "Video anchor", fmt.Sprintf("block %d authentic=%v", v.BlockIndex, v.IsAuthentic))
		kv(pdf, "Anchored hash", v.OriginalHash)
		if v.Tampered {
			kv(pdf, "Current hash", v.CurrentHash)
		}
	}
	pdf.Ln(2)

	sectionTitle(pdf, "5. Check History")
	if d.Record == nil || len(d.Record.CheckHistory) == 0 {
		empty(pdf)
	} else {
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(30, 30, 30)
		for _, c := range d.Record.CheckHistory {
			pdf.MultiCell(0, 4.5, fmt.Sprintf("%s [%s] %s", fmtTime(c.Timestamp), c.Result, safeText(c.Details)), "", "L", false)
		}
	}
	pdf.Ln(2)

	sectionTitle(pdf, "6. Audit Trail")
	events := d.Events
	if len(events) > maxEvents {
		events = events[len(events)-maxEvents:]
	}
	if len(events) == 0 {
		empty(pdf)
	} else {
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(30, 30, 30)
		for _, e := range events {
			line := fmt.Sprintf("%s %s by %s: %s %s", fmtTime(e.Timestamp), e.Action, firstNonEmpty(e.ActorID, "-"), e.Decision, e.Reason)
			pdf.MultiCell(0, 4.5, safeText(line), "", "L", false)
		}
	}

	pdf.Ln(2)
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 4, "The SHA-256 of this document is returned with the download and may be recorded in the court file.", "", "L", false)
	return pdf
}

func writeEvidence(pdf *gofpdf.Fpdf, d Dossier) {
	r := d.Record
	if r == nil || (r.Video == nil && r.VisitToken == nil) {
		empty(pdf)
		return
	}
	if v := r.Video; v != nil {
		kv(pdf, "Video", v.ID+" ("+v.FileName+")")
		kv(pdf, "Captured", fmtTime(v.CapturedAt))
		kv(pdf, "Source hash", v.SourceHash)
		kv(pdf, "Server hash", v.ServerHash)
		kv(pdf, "Integrity", string(v.IntegrityStatus))
		kv(pdf, "Ledger tx", v.LedgerBlockID)
	}
	if t := r.VisitToken; t != nil {
		kv(pdf, "Visit token", t.ID)
		kv(pdf, "Expert", firstNonEmpty(t.ExpertName, t.ExpertID.String()))
		kv(pdf, "Visited", fmtTime(t.VisitedAt))
		kv(pdf, "Handshake", fmt.Sprintf("%s verified=%v", t.HandshakeMethod, t.IsVerified))
	}
}

func writeOverride(pdf *gofpdf.Fpdf, r *compliance.Compliance) {
	if r == nil || r.Override == nil {
		empty(pdf)
		return
	}
	o := r.Override
	kv(pdf, "Requested by", o.RequestedBy.String())
	kv(pdf, "Requested at", fmtTime(o.RequestedAt))
	kv(pdf, "Reason", o.Reason.Label())
	kv(pdf, "Details", o.ReasonDetails)
	switch {
	case o.IsApproved:
		kv(pdf, "Approved by", o.ApprovedBy.String())
		if o.ApprovedAt != nil {
			kv(pdf, "Approved at", fmtTime(*o.ApprovedAt))
		}
	case o.IsRejected():
		kv(pdf, "Rejected by", o.RejectedBy.String())
		kv(pdf, "Note", o.RejectionNote)
	}
	kv(pdf, "Judicial review", fmt.Sprintf("%v", o.JudicialReviewFlag))
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(fontFamily, "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(2)
}

func kv(pdf *gofpdf.Fpdf, key, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(36, 5.2, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(0, 5.2, safeText(value), "", "L", false)
}

func empty(pdf *gofpdf.Fpdf) {
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 5, "(none)", "", "L", false)
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// safeText flattens whitespace and replaces non-ASCII runes, which the core
// Helvetica font cannot encode.
func safeText(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 && r <= 126 {
			b.WriteRune(r)
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
