package handler

import (
	"encoding/hex"
	"strings"
	"time"

	"nyaya/internal/compliance"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
	pkgstrings "nyaya/pkg/platform/strings"
)

// RegisterCaseRequest registers the FIR facts. When law_code is omitted it is
// derived from offence_date.
type RegisterCaseRequest struct {
	CaseID      string     `json:"case_id"`
	CNRNumber   string     `json:"cnr_number"`
	AccusedName string     `json:"accused_name"`
	Sections    []string   `json:"sections"`
	LawCode     string     `json:"law_code"`
	OffenceDate *time.Time `json:"offence_date,omitempty"`
}

func (r *RegisterCaseRequest) Validate() error {
	if _, err := domain.ParseCaseID(r.CaseID); err != nil {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	r.CaseID = strings.TrimSpace(r.CaseID)
	r.Sections = pkgstrings.DedupeAndTrimUpper(r.Sections)
	if len(r.Sections) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one section is required")
	}
	switch {
	case r.LawCode != "":
		law, err := compliance.ParseLawCode(r.LawCode)
		if err != nil {
			return err
		}
		r.LawCode = string(law)
	case r.OffenceDate != nil:
		r.LawCode = string(compliance.LawCodeFor(*r.OffenceDate))
	default:
		return dErrors.New(dErrors.CodeValidation, "law_code or offence_date is required")
	}
	return nil
}

func (r *RegisterCaseRequest) toFacts() compliance.CaseFacts {
	return compliance.CaseFacts{
		CaseID:      domain.CaseID(r.CaseID),
		CNRNumber:   strings.TrimSpace(r.CNRNumber),
		AccusedName: strings.TrimSpace(r.AccusedName),
		Sections:    r.Sections,
		LawCode:     compliance.LawCode(r.LawCode),
	}
}

// RecordVideoRequest carries video metadata; the case comes from the path.
type RecordVideoRequest struct {
	compliance.Video
}

func (r *RecordVideoRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return dErrors.New(dErrors.CodeValidation, "video_id is required")
	}
	if !isSHA256Hex(r.SourceHash) {
		return dErrors.New(dErrors.CodeValidation, "source_hash must be a hex SHA-256 digest")
	}
	if r.ServerHash != "" && !isSHA256Hex(r.ServerHash) {
		return dErrors.New(dErrors.CodeValidation, "server_hash must be a hex SHA-256 digest")
	}
	if r.HashAlgorithm != "" && r.HashAlgorithm != compliance.HashAlgorithmSHA256 {
		return dErrors.New(dErrors.CodeValidation, "hash_algorithm must be SHA-256")
	}
	if !r.UploadStatus.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid upload_status")
	}
	return nil
}

// VisitTokenRequest carries the handshake record; the case comes from the path.
type VisitTokenRequest struct {
	compliance.VisitToken
}

func (r *VisitTokenRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return dErrors.New(dErrors.CodeValidation, "token_id is required")
	}
	if _, err := domain.ParseActorID(string(r.OfficerID)); err != nil {
		return dErrors.New(dErrors.CodeValidation, "investigating_officer_id: "+err.Error())
	}
	if _, err := domain.ParseActorID(string(r.ExpertID)); err != nil {
		return dErrors.New(dErrors.CodeValidation, "forensic_expert_id: "+err.Error())
	}
	if !r.HandshakeMethod.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid handshake_method")
	}
	return nil
}

type OverrideRequest struct {
	Reason        string `json:"reason"`
	ReasonDetails string `json:"reason_details"`

	reason compliance.OverrideReason
}

func (r *OverrideRequest) Validate() error {
	reason, err := compliance.ParseOverrideReason(r.Reason)
	if err != nil {
		return err
	}
	r.reason = reason
	r.ReasonDetails = strings.TrimSpace(r.ReasonDetails)
	return nil
}

type RejectOverrideRequest struct {
	Note string `json:"note"`
}

func (r *RejectOverrideRequest) Validate() error {
	r.Note = strings.TrimSpace(r.Note)
	if r.Note == "" {
		return dErrors.New(dErrors.CodeValidation, "note is required")
	}
	return nil
}

func isSHA256Hex(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
