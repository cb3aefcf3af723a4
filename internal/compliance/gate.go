package compliance

// Gate reasons returned by CanSubmitChargeSheet.
const (
	GateNotRequired      = "Forensic videography not required"
	GateCompliant        = "Full BNSS 176(3) compliance"
	GateOverrideApproved = "Override approved - judicial review flagged"
	GateOverridePending  = "Override request pending approval"
)

// GateDecision tells the caller whether a charge sheet may be filed.
// IsOverride submissions must be flagged for judicial review.
type GateDecision struct {
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason"`
	IsOverride bool   `json:"is_override"`
}

// CanSubmitChargeSheet is the single decision point for submission.
func CanSubmitChargeSheet(c *Compliance) GateDecision {
	if c == nil {
		return GateDecision{Allowed: false, Reason: BlockReason("")}
	}
	if !c.IsMandatory {
		return GateDecision{Allowed: true, Reason: GateNotRequired}
	}
	if c.InterlockStatus == StatusUnlocked && c.CheckResult == ResultPass {
		return GateDecision{Allowed: true, Reason: GateCompliant}
	}
	switch c.InterlockStatus {
	case StatusOverrideApproved:
		return GateDecision{Allowed: true, Reason: GateOverrideApproved, IsOverride: true}
	case StatusOverridePending:
		return GateDecision{Allowed: false, Reason: GateOverridePending, IsOverride: true}
	}
	return GateDecision{Allowed: false, Reason: BlockReason(c.CheckResult)}
}

// BlockReason maps a failing check to the message shown to the officer.
func BlockReason(r CheckResult) string {
	switch r {
	case ResultFailNoVideo:
		return "Mandatory forensic scene videography not uploaded. Upload video or request override."
	case ResultFailNoExpert:
		return "Forensic expert visit token not found. Expert must verify presence at scene."
	case ResultFailHashMismatch:
		return "Video integrity compromised. Re-upload original recording."
	default:
		return "Forensic compliance check failed."
	}
}

type DisplayState string

const (
	DisplayComplete DisplayState = "complete"
	DisplayPending  DisplayState = "pending"
	DisplayBlocked  DisplayState = "blocked"
	DisplayOverride DisplayState = "override"
)

type DisplayColor string

const (
	ColorGreen  DisplayColor = "green"
	ColorAmber  DisplayColor = "amber"
	ColorRed    DisplayColor = "red"
	ColorPurple DisplayColor = "purple"
)

// Display is the badge rendered for a compliance record.
type Display struct {
	Status      DisplayState `json:"status"`
	Color       DisplayColor `json:"color"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
}

// DisplayStatus follows the same precedence as CanSubmitChargeSheet.
func DisplayStatus(c *Compliance) Display {
	switch {
	case c == nil:
		return Display{DisplayBlocked, ColorRed, "Non-Compliant", BlockReason("")}
	case !c.IsMandatory:
		return Display{DisplayComplete, ColorGreen, "Not Required", "Forensic videography not mandatory for this case"}
	case c.InterlockStatus == StatusUnlocked && c.CheckResult == ResultPass:
		return Display{DisplayComplete, ColorGreen, "Compliant", "BNSS 176(3) requirements fully met"}
	case c.InterlockStatus == StatusOverrideApproved:
		return Display{DisplayOverride, ColorPurple, "Override Active", "Judicial review required for non-compliance"}
	case c.InterlockStatus == StatusOverridePending:
		return Display{DisplayPending, ColorAmber, "Override Pending", "Awaiting approval from SP/higher authority"}
	default:
		return Display{DisplayBlocked, ColorRed, "Non-Compliant", BlockReason(c.CheckResult)}
	}
}
