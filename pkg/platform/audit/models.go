package audit

import (
	"context"
	"time"

	"nyaya/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal significance for the case
	// record: interlock decisions, overrides, charge sheet submissions.
	// These require tamper-proof storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers integrity failures and tampering signals that
	// feed monitoring and alerting.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	CaseID    domain.CaseID
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string // Correlation ID from HTTP request context
	// ActorID is the officer, supervisor or judge who performed the action.
	ActorID string
	// EvidenceHash is the digest of the artifact the event concerns (video
	// source hash, ledger block hash) for traceability without the artifact.
	EvidenceHash string
}

type AuditEvent string

const (
	// Case and evidence events
	EventCaseRegistered       AuditEvent = "case_registered"
	EventVideoRecorded        AuditEvent = "forensic_video_recorded"
	EventVisitTokenRecorded   AuditEvent = "visit_token_recorded"
	EventComplianceEvaluated  AuditEvent = "compliance_evaluated"
	EventComplianceViewed     AuditEvent = "compliance_viewed"
	EventJudicialReviewListed AuditEvent = "judicial_review_listed"

	// Override workflow events
	EventOverrideRequested AuditEvent = "override_requested"
	EventOverrideApproved  AuditEvent = "override_approved"
	EventOverrideRejected  AuditEvent = "override_rejected"

	// Gate events
	EventChargeSheetSubmitted AuditEvent = "charge_sheet_submitted"
	EventChargeSheetBlocked   AuditEvent = "charge_sheet_blocked"

	// Integrity events
	EventVideoHashMismatch    AuditEvent = "video_hash_mismatch"
	EventLedgerCorrupted      AuditEvent = "ledger_corrupted"
	EventLedgerTamperSimulate AuditEvent = "ledger_tamper_simulated"

	// Bail contract events
	EventBailContractCreated AuditEvent = "bail_contract_created"
	EventBailAppearance      AuditEvent = "bail_appearance_verified"
	EventBailReleased        AuditEvent = "bail_released"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventCaseRegistered:       CategoryCompliance,
	EventVideoRecorded:        CategoryCompliance,
	EventVisitTokenRecorded:   CategoryCompliance,
	EventComplianceEvaluated:  CategoryCompliance,
	EventOverrideRequested:    CategoryCompliance,
	EventOverrideApproved:     CategoryCompliance,
	EventOverrideRejected:     CategoryCompliance,
	EventChargeSheetSubmitted: CategoryCompliance,
	EventChargeSheetBlocked:   CategoryCompliance,
	EventBailContractCreated:  CategoryCompliance,
	EventBailAppearance:       CategoryCompliance,
	EventBailReleased:         CategoryCompliance,

	EventVideoHashMismatch:    CategorySecurity,
	EventLedgerCorrupted:      CategorySecurity,
	EventLedgerTamperSimulate: CategorySecurity,

	EventComplianceViewed:     CategoryOperations,
	EventJudicialReviewListed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations: memory, postgres outbox.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCase(ctx context.Context, caseID domain.CaseID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// ComplianceEvent captures legally significant actions requiring guaranteed
// persistence. Use with the compliance publisher for fail-closed semantics.
type ComplianceEvent struct {
	Timestamp    time.Time     // When the event occurred (set automatically if zero)
	CaseID       domain.CaseID // The case affected (required)
	Action       AuditEvent
	Decision     string // e.g. check result, "allowed", "denied"
	Reason       string
	EvidenceHash string
	RequestID    string
	ActorID      string
}

// Category returns CategoryCompliance (always).
func (e ComplianceEvent) Category() EventCategory { return CategoryCompliance }

// ToEvent converts to the stored Event shape.
func (e ComplianceEvent) ToEvent() Event {
	return Event{
		Category:     CategoryCompliance,
		Timestamp:    e.Timestamp,
		CaseID:       e.CaseID,
		Subject:      e.CaseID.String(),
		Action:       string(e.Action),
		Decision:     e.Decision,
		Reason:       e.Reason,
		RequestID:    e.RequestID,
		ActorID:      e.ActorID,
		EvidenceHash: e.EvidenceHash,
	}
}

// SecurityEvent captures integrity failures for alerting.
// Events are processed asynchronously with buffering.
type SecurityEvent struct {
	Timestamp    time.Time // When the event occurred (set automatically if zero)
	Subject      string    // Case id, block index or record id
	Action       AuditEvent
	Reason       string
	EvidenceHash string
	RequestID    string
	ActorID      string
	Severity     Severity // "info", "warning", "critical" for routing
}

// Severity levels for security events.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Category returns CategorySecurity (always).
func (e SecurityEvent) Category() EventCategory { return CategorySecurity }

// ToEvent converts to the stored Event shape.
func (e SecurityEvent) ToEvent() Event {
	return Event{
		Category:     CategorySecurity,
		Timestamp:    e.Timestamp,
		Subject:      e.Subject,
		Action:       string(e.Action),
		Decision:     string(e.Severity),
		Reason:       e.Reason,
		RequestID:    e.RequestID,
		ActorID:      e.ActorID,
		EvidenceHash: e.EvidenceHash,
	}
}
