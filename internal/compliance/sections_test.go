package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsForensicVideoMandatory(t *testing.T) {
	tests := []struct {
		name     string
		sections []string
		law      LawCode
		matched  []string
	}{
		{"murder attempt under BNS", []string{"103"}, LawBNS, []string{"103"}},
		{"keeps caller order", []string{"309", "420", "101"}, LawBNS, []string{"309", "101"}},
		{"IPC lettered section", []string{"363a"}, LawIPC, []string{"363A"}},
		{"prefixes and whitespace", []string{" S. 302 ", "Section 307", "302"}, LawIPC, []string{"302", "307"}},
		{"BNS section under IPC is not matched", []string{"103"}, LawIPC, []string{}},
		{"cheating is not mandatory", []string{"420"}, LawIPC, []string{}},
		{"empty input", nil, LawBNS, []string{}},
		{"unknown law", []string{"302"}, LawCode("CrPC"), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsForensicVideoMandatory(tt.sections, tt.law)
			assert.Equal(t, tt.matched, got.MatchedSections)
			assert.Equal(t, len(tt.matched) > 0, got.IsMandatory)
		})
	}
}

func TestMandatoryReasonAndPunishment(t *testing.T) {
	got := IsForensicVideoMandatory([]string{"117", "101"}, LawBNS)

	require.True(t, got.IsMandatory)
	assert.Equal(t, "BNSS Section 176(3) - Offence(s) 117, 101 attract imprisonment ≥7 years", got.Reason)
	assert.Equal(t, "Death/Life", got.MaxPunishment)
	require.Len(t, got.Offences, 2)
	assert.Equal(t, "Kidnapping", got.Offences[0].Description)

	years := IsForensicVideoMandatory([]string{"117", "309"}, LawBNS)
	assert.Equal(t, "10 Years", years.MaxPunishment)
}

func TestMandatoryOffencesIsACopy(t *testing.T) {
	rows := MandatoryOffences(LawIPC)
	require.Len(t, rows, 9)
	rows[0].Section = "999"

	assert.Equal(t, "302", MandatoryOffences(LawIPC)[0].Section)
	assert.Nil(t, MandatoryOffences("XYZ"))
}

func TestLawCodeFor(t *testing.T) {
	assert.Equal(t, LawIPC, LawCodeFor(time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, LawBNS, LawCodeFor(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)))
}

func TestParseLawCode(t *testing.T) {
	code, err := ParseLawCode(" bns ")
	require.NoError(t, err)
	assert.Equal(t, LawBNS, code)

	_, err = ParseLawCode("")
	assert.Error(t, err)
	_, err = ParseLawCode("CrPC")
	assert.Error(t, err)
}
