package compliance

import (
	"fmt"
	"strings"

	pkgstrings "nyaya/pkg/platform/strings"
)

// Offence is one row of the BNSS 176(3) table: a section punishable with
// imprisonment of seven years or more.
type Offence struct {
	Section     string `json:"section"`
	Description string `json:"description"`
	Punishment  string `json:"punishment"`
}

// mandatorySections is ordered as published; matching preserves the caller's
// section order, not this one.
var mandatorySections = map[LawCode][]Offence{
	LawBNS: {
		{"64", "Rape", "Life Imprisonment"},
		{"65", "Rape in certain cases", "Life Imprisonment"},
		{"66", "Punishment for causing death", "Death/Life"},
		{"100", "Culpable homicide", "10 Years"},
		{"101", "Murder", "Death/Life"},
		{"103", "Murder attempt", "Life/10 Years"},
		{"111", "Organized crime", "Life/Death"},
		{"113", "Terrorist act", "Life/Death"},
		{"117", "Kidnapping", "7 Years"},
		{"140", "Dacoity", "Life/10 Years"},
		{"309", "Robbery", "10 Years"},
	},
	LawIPC: {
		{"302", "Murder", "Death/Life"},
		{"307", "Attempt to murder", "Life/10 Years"},
		{"376", "Rape", "Life Imprisonment"},
		{"392", "Robbery", "10 Years"},
		{"395", "Dacoity", "Life/10 Years"},
		{"397", "Robbery with attempt to cause death", "7 Years"},
		{"364", "Kidnapping for murder", "Death/Life"},
		{"363A", "Kidnapping or maiming a minor for begging", "Life/10 Years"},
		{"376A", "Rape causing death or persistent vegetative state", "Death/Life"},
	},
}

// MandatoryOffences returns a copy of the table for law, or nil for an
// unknown code.
func MandatoryOffences(law LawCode) []Offence {
	rows, ok := mandatorySections[law]
	if !ok {
		return nil
	}
	out := make([]Offence, len(rows))
	copy(out, rows)
	return out
}

// MandatoryResult explains whether videography is required.
type MandatoryResult struct {
	IsMandatory     bool      `json:"is_mandatory"`
	MatchedSections []string  `json:"matched_sections"`
	Offences        []Offence `json:"offences,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	MaxPunishment   string    `json:"max_punishment,omitempty"`
}

// IsForensicVideoMandatory intersects the invoked sections with the table for
// law. Sections are trimmed, upper-cased and de-duplicated first. An unknown
// law code or an empty section list is simply not mandatory.
func IsForensicVideoMandatory(sections []string, law LawCode) MandatoryResult {
	rows := mandatorySections[law]
	index := make(map[string]Offence, len(rows))
	for _, o := range rows {
		index[o.Section] = o
	}

	normalized := make([]string, 0, len(sections))
	for _, s := range sections {
		normalized = append(normalized, normalizeSection(strings.ToUpper(strings.TrimSpace(s))))
	}

	result := MandatoryResult{MatchedSections: []string{}}
	for _, s := range pkgstrings.DedupeAndTrimUpper(normalized) {
		o, ok := index[s]
		if !ok {
			continue
		}
		result.MatchedSections = append(result.MatchedSections, o.Section)
		result.Offences = append(result.Offences, o)
	}
	if len(result.MatchedSections) == 0 {
		return result
	}

	result.IsMandatory = true
	result.Reason = fmt.Sprintf("BNSS Section 176(3) - Offence(s) %s attract imprisonment ≥7 years",
		strings.Join(result.MatchedSections, ", "))
	result.MaxPunishment = harshest(result.Offences)
	return result
}

// normalizeSection strips common prefixes such as "S.", "SEC" and "SECTION".
func normalizeSection(s string) string {
	for _, prefix := range []string{"SECTION", "SEC.", "SEC", "S."} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

// harshest picks the most severe punishment among offences. Death outranks
// life, life outranks any term of years, longer terms outrank shorter ones.
func harshest(offences []Offence) string {
	best, bestRank := "", -1
	for _, o := range offences {
		if r := punishmentRank(o.Punishment); r > bestRank {
			best, bestRank = o.Punishment, r
		}
	}
	return best
}

func punishmentRank(p string) int {
	switch {
	case strings.Contains(p, "Death"):
		return 1000
	case strings.Contains(p, "Life"):
		return 500
	}
	var years int
	if _, err := fmt.Sscanf(p, "%d", &years); err == nil {
		return years
	}
	return 0
}
