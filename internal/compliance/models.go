package compliance

import (
	"slices"
	"strings"
	"time"

	"nyaya/internal/digest"
	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
)

// LawCode names the penal statute the sections of a case are drawn from.
type LawCode string

const (
	LawBNS LawCode = "BNS" // Bharatiya Nyaya Sanhita, offences on or after 1 July 2024
	LawIPC LawCode = "IPC"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// BNSEffectiveDate is the commencement of the BNS. Offences committed before it
// remain chargeable under the IPC.
var BNSEffectiveDate = time.Date(2024, time.July, 1, 0, 0, 0, 0, ist)

// LawCodeFor returns the statute governing an offence committed at t.
func LawCodeFor(t time.Time) LawCode {
	if t.Before(BNSEffectiveDate) {
		return LawIPC
	}
	return LawBNS
}

// ParseLawCode accepts BNS or IPC in any case.
func ParseLawCode(s string) (LawCode, error) {
	code := LawCode(strings.ToUpper(strings.TrimSpace(s)))
	switch code {
	case LawBNS, LawIPC:
		return code, nil
	case "":
		return "", dErrors.New(dErrors.CodeValidation, "law code is required")
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unsupported law code: "+s)
	}
}

// UploadStatus tracks a video through the upload pipeline.
type UploadStatus string

const (
	UploadPending   UploadStatus = "PENDING"
	UploadUploading UploadStatus = "UPLOADING"
	UploadUploaded  UploadStatus = "UPLOADED"
	UploadVerified  UploadStatus = "VERIFIED"
)

func (s UploadStatus) IsValid() bool {
	switch s {
	case UploadPending, UploadUploading, UploadUploaded, UploadVerified:
		return true
	}
	return false
}

// IntegrityStatus compares the capture-time digest with the server-side digest.
type IntegrityStatus string

const (
	IntegrityUnverified IntegrityStatus = "UNVERIFIED"
	IntegrityVerified   IntegrityStatus = "VERIFIED"
	IntegrityMismatch   IntegrityStatus = "MISMATCH"
)

// DeriveIntegrity is the only way a video's integrity status is computed.
// MISMATCH iff a server digest is present and differs from the source digest.
func DeriveIntegrity(sourceHash, serverHash string) IntegrityStatus {
	switch {
	case serverHash == "":
		return IntegrityUnverified
	case digest.Equal(sourceHash, serverHash):
		return IntegrityVerified
	default:
		return IntegrityMismatch
	}
}

// HandshakeMethod is how officer and expert devices paired at the scene.
type HandshakeMethod string

const (
	HandshakeQRCode HandshakeMethod = "QR_CODE"
	HandshakeNFC    HandshakeMethod = "NFC"
	HandshakeManual HandshakeMethod = "MANUAL"
)

func (m HandshakeMethod) IsValid() bool {
	switch m {
	case HandshakeQRCode, HandshakeNFC, HandshakeManual:
		return true
	}
	return false
}

// InterlockStatus is the charge-sheet gate position.
type InterlockStatus string

const (
	StatusLocked           InterlockStatus = "LOCKED"
	StatusUnlocked         InterlockStatus = "UNLOCKED"
	StatusOverridePending  InterlockStatus = "OVERRIDE_PENDING"
	StatusOverrideApproved InterlockStatus = "OVERRIDE_APPROVED"
)

// CheckResult is the outcome of one evaluation. Only the first failing check
// is reported.
type CheckResult string

const (
	ResultPass             CheckResult = "PASS"
	ResultFailNoVideo      CheckResult = "FAIL_NO_VIDEO"
	ResultFailNoExpert     CheckResult = "FAIL_NO_EXPERT"
	ResultFailHashMismatch CheckResult = "FAIL_HASH_MISMATCH"
	ResultExempt           CheckResult = "EXEMPT"
)

// Failed reports whether the result locks the gate.
func (r CheckResult) Failed() bool {
	switch r {
	case ResultFailNoVideo, ResultFailNoExpert, ResultFailHashMismatch:
		return true
	}
	return false
}

// OverrideReason is the fixed vocabulary of justifications for bypassing the
// interlock. Labels are shown verbatim to the reviewing judge.
type OverrideReason string

const (
	ReasonForensicTeamUnavailable OverrideReason = "FORENSIC_TEAM_UNAVAILABLE"
	ReasonTechnicalFailure        OverrideReason = "TECHNICAL_FAILURE"
	ReasonExtremeTerrain          OverrideReason = "EXTREME_TERRAIN"
	ReasonInfrastructureLimit     OverrideReason = "INFRASTRUCTURE_LIMITATION"
	ReasonStateExemption          OverrideReason = "STATE_EXEMPTION"
	ReasonOther                   OverrideReason = "OTHER"
)

var overrideLabels = map[OverrideReason]string{
	ReasonForensicTeamUnavailable: "Forensic Team Unavailable",
	ReasonTechnicalFailure:        "Technical Failure",
	ReasonExtremeTerrain:          "Extreme Terrain/Accessibility",
	ReasonInfrastructureLimit:     "Infrastructure Limitation",
	ReasonStateExemption:          "State Notification Exemption",
	ReasonOther:                   "Other (Specify)",
}

func (r OverrideReason) IsValid() bool {
	_, ok := overrideLabels[r]
	return ok
}

// Label returns the display label, or the raw code for unknown reasons.
func (r OverrideReason) Label() string {
	if l, ok := overrideLabels[r]; ok {
		return l
	}
	return string(r)
}

// OverrideReasons lists the vocabulary in display order.
func OverrideReasons() []OverrideReason {
	return []OverrideReason{
		ReasonForensicTeamUnavailable,
		ReasonTechnicalFailure,
		ReasonExtremeTerrain,
		ReasonInfrastructureLimit,
		ReasonStateExemption,
		ReasonOther,
	}
}

// ParseOverrideReason validates an external reason code.
func ParseOverrideReason(s string) (OverrideReason, error) {
	r := OverrideReason(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unsupported override reason: "+s)
	}
	return r, nil
}

type GeoLocation struct {
	Latitude       float64 `json:"latitude" yaml:"latitude"`
	Longitude      float64 `json:"longitude" yaml:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters,omitempty" yaml:"accuracy_meters"`
	Address        string  `json:"address,omitempty" yaml:"address"`
}

type CaptureDevice struct {
	Make      string `json:"make" yaml:"make"`
	Model     string `json:"model" yaml:"model"`
	IMEI      string `json:"imei,omitempty" yaml:"imei"`
	OSVersion string `json:"os_version" yaml:"os_version"`
}

// HashAlgorithmSHA256 is the only digest capture devices produce.
const HashAlgorithmSHA256 = "SHA-256"

// Video is the metadata of one crime-scene recording. Records are immutable:
// a re-upload produces a new Video, never a rewritten SourceHash.
type Video struct {
	ID              string          `json:"video_id" yaml:"video_id"`
	CaseID          domain.CaseID   `json:"case_id" yaml:"case_id"`
	FileName        string          `json:"file_name" yaml:"file_name"`
	FileSize        int64           `json:"file_size" yaml:"file_size"`
	DurationSeconds int             `json:"duration_seconds" yaml:"duration_seconds"`
	MimeType        string          `json:"mime_type" yaml:"mime_type"`
	CaptureDevice   CaptureDevice   `json:"capture_device" yaml:"capture_device"`
	CapturedAt      time.Time       `json:"captured_at" yaml:"captured_at"`
	NTPSynced       bool            `json:"ntp_synced" yaml:"ntp_synced"`
	Location        GeoLocation     `json:"location" yaml:"location"`
	SourceHash      string          `json:"source_hash" yaml:"source_hash"`
	ServerHash      string          `json:"server_hash,omitempty" yaml:"server_hash"`
	LedgerBlockID   string          `json:"ledger_block_id,omitempty" yaml:"ledger_block_id"`
	HashAlgorithm   string          `json:"hash_algorithm" yaml:"hash_algorithm"`
	UploadStatus    UploadStatus    `json:"upload_status" yaml:"upload_status"`
	IntegrityStatus IntegrityStatus `json:"integrity_status" yaml:"integrity_status"`
}

// Validate checks required fields and the integrity invariant.
func (v *Video) Validate() error {
	if v == nil {
		return dErrors.New(dErrors.CodeValidation, "video is required")
	}
	if v.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "video_id is required")
	}
	if v.CaseID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "case_id is required")
	}
	if v.SourceHash == "" {
		return dErrors.New(dErrors.CodeValidation, "source_hash is required")
	}
	if v.HashAlgorithm != HashAlgorithmSHA256 {
		return dErrors.New(dErrors.CodeValidation, "hash_algorithm must be SHA-256")
	}
	if !v.UploadStatus.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid upload_status")
	}
	mismatch := v.ServerHash != "" && !digest.Equal(v.SourceHash, v.ServerHash)
	if mismatch != (v.IntegrityStatus == IntegrityMismatch) {
		return dErrors.New(dErrors.CodeInvariantViolation, "integrity_status disagrees with source and server hashes")
	}
	return nil
}

// Sealed returns a copy with defaults applied and the integrity status derived
// from the two digests. A VERIFIED claim without a server digest is kept: the
// upload pipeline may have checked the bytes out of band.
func (v Video) Sealed() Video {
	if v.HashAlgorithm == "" {
		v.HashAlgorithm = HashAlgorithmSHA256
	}
	derived := DeriveIntegrity(v.SourceHash, v.ServerHash)
	if v.ServerHash != "" || v.IntegrityStatus != IntegrityVerified {
		v.IntegrityStatus = derived
	}
	return v
}

// VisitToken proves a forensic expert was physically present at the scene.
// Created at the moment of a verified device handshake and never edited.
type VisitToken struct {
	ID                string          `json:"token_id" yaml:"token_id"`
	CaseID            domain.CaseID   `json:"case_id" yaml:"case_id"`
	OfficerID         domain.ActorID  `json:"investigating_officer_id" yaml:"investigating_officer_id"`
	OfficerName       string          `json:"investigating_officer_name,omitempty" yaml:"investigating_officer_name"`
	ExpertID          domain.ActorID  `json:"forensic_expert_id" yaml:"forensic_expert_id"`
	ExpertName        string          `json:"forensic_expert_name,omitempty" yaml:"forensic_expert_name"`
	ExpertDesignation string          `json:"forensic_expert_designation,omitempty" yaml:"forensic_expert_designation"`
	VisitedAt         time.Time       `json:"visited_at" yaml:"visited_at"`
	Location          GeoLocation     `json:"location" yaml:"location"`
	HandshakeMethod   HandshakeMethod `json:"handshake_method" yaml:"handshake_method"`
	DigitalSignature  string          `json:"digital_signature" yaml:"digital_signature"`
	IsVerified        bool            `json:"is_verified" yaml:"is_verified"`
}

func (t *VisitToken) Validate() error {
	if t == nil {
		return dErrors.New(dErrors.CodeValidation, "visit token is required")
	}
	if t.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "token_id is required")
	}
	if t.CaseID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "case_id is required")
	}
	if t.OfficerID.IsNil() || t.ExpertID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "officer and expert ids are required")
	}
	if !t.HandshakeMethod.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid handshake_method")
	}
	return nil
}

// Override is a justified exception to the interlock. ApprovedBy and
// ApprovedAt are set iff IsApproved.
type Override struct {
	RequestedBy        domain.ActorID `json:"requested_by"`
	RequestedAt        time.Time      `json:"requested_at"`
	Reason             OverrideReason `json:"reason"`
	ReasonDetails      string         `json:"reason_details"`
	ApprovedBy         domain.ActorID `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time     `json:"approved_at,omitempty"`
	IsApproved         bool           `json:"is_approved"`
	RejectedBy         domain.ActorID `json:"rejected_by,omitempty"`
	RejectedAt         *time.Time     `json:"rejected_at,omitempty"`
	RejectionNote      string         `json:"rejection_note,omitempty"`
	JudicialReviewFlag bool           `json:"judicial_review_flag"`
}

// IsRejected reports whether a supervisor or judge turned the request down.
func (o *Override) IsRejected() bool {
	return o != nil && o.RejectedAt != nil
}

type CheckEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Result    CheckResult `json:"result"`
	Details   string      `json:"details"`
}

// Compliance is the per-case record the gate reads. InterlockStatus changes
// only through Evaluate and the transitions in transitions.go.
type Compliance struct {
	CaseID          domain.CaseID   `json:"case_id"`
	CNRNumber       string          `json:"cnr_number,omitempty"`
	IsMandatory     bool            `json:"is_mandatory"`
	MandatoryReason string          `json:"mandatory_reason,omitempty"`
	MaxPunishment   string          `json:"max_punishment,omitempty"`
	InterlockStatus InterlockStatus `json:"interlock_status"`
	CheckResult     CheckResult     `json:"check_result"`
	HasVideo        bool            `json:"has_forensic_video"`
	Video           *Video          `json:"forensic_video,omitempty"`
	HasVisitToken   bool            `json:"has_expert_visit_token"`
	VisitToken      *VisitToken     `json:"expert_visit_token,omitempty"`
	IsHashVerified  bool            `json:"is_hash_verified"`
	HashVerifiedAt  *time.Time      `json:"hash_verification_timestamp,omitempty"`
	HasOverride     bool            `json:"has_override"`
	Override        *Override       `json:"override,omitempty"`
	ChargeSheet     *ChargeSheet    `json:"charge_sheet,omitempty"`
	LastChecked     time.Time       `json:"last_checked"`
	CheckHistory    []CheckEntry    `json:"check_history"`
}

// ChargeSheet records the one accepted charge sheet filing for a case.
type ChargeSheet struct {
	TransactionID  string         `json:"transaction_id"`
	SubmittedBy    domain.ActorID `json:"submitted_by"`
	SubmittedAt    time.Time      `json:"submitted_at"`
	IsOverride     bool           `json:"is_override"`
	JudicialReview bool           `json:"judicial_review"`
}

// Clone returns a deep copy; nil stays nil.
func (c *Compliance) Clone() *Compliance {
	if c == nil {
		return nil
	}
	out := *c
	if c.Video != nil {
		v := *c.Video
		out.Video = &v
	}
	if c.VisitToken != nil {
		t := *c.VisitToken
		out.VisitToken = &t
	}
	if c.HashVerifiedAt != nil {
		ts := *c.HashVerifiedAt
		out.HashVerifiedAt = &ts
	}
	if c.Override != nil {
		o := *c.Override
		if o.ApprovedAt != nil {
			ts := *o.ApprovedAt
			o.ApprovedAt = &ts
		}
		if o.RejectedAt != nil {
			ts := *o.RejectedAt
			o.RejectedAt = &ts
		}
		out.Override = &o
	}
	if c.ChargeSheet != nil {
		cs := *c.ChargeSheet
		out.ChargeSheet = &cs
	}
	out.CheckHistory = slices.Clone(c.CheckHistory)
	return &out
}

// NeedsJudicialReview reports whether the record carries a flagged override.
func (c *Compliance) NeedsJudicialReview() bool {
	return c != nil && c.Override != nil && c.Override.JudicialReviewFlag
}

// LatestCheck returns the most recent history entry.
func (c *Compliance) LatestCheck() (CheckEntry, bool) {
	if c == nil || len(c.CheckHistory) == 0 {
		return CheckEntry{}, false
	}
	return c.CheckHistory[len(c.CheckHistory)-1], true
}

// CaseFacts are the inputs that decide whether videography is mandatory.
// AccusedName and CNRNumber are carried for display only.
type CaseFacts struct {
	CaseID       domain.CaseID `json:"case_id" yaml:"case_id"`
	CNRNumber    string        `json:"cnr_number,omitempty" yaml:"cnr_number"`
	AccusedName  string        `json:"accused_name,omitempty" yaml:"accused_name"`
	Sections     []string      `json:"sections" yaml:"sections"`
	LawCode      LawCode       `json:"law_code" yaml:"law_code"`
	RegisteredAt time.Time     `json:"registered_at" yaml:"registered_at"`
}

func (f *CaseFacts) Validate() error {
	if f == nil {
		return dErrors.New(dErrors.CodeValidation, "case facts are required")
	}
	if f.CaseID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "case_id is required")
	}
	if _, err := ParseLawCode(string(f.LawCode)); err != nil {
		return err
	}
	return nil
}
