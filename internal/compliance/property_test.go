package compliance

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// evidence is a generated (video, token) pair covering every status combination
// including absence.
type evidence struct {
	Video *Video
	Token *VisitToken
}

var (
	uploadStatuses    = []UploadStatus{UploadPending, UploadUploading, UploadUploaded, UploadVerified}
	integrityStatuses = []IntegrityStatus{IntegrityUnverified, IntegrityVerified, IntegrityMismatch}
)

// videoFrom maps generated indices to a video; upload index -1 means absent.
func videoFrom(upload, integrity int) *Video {
	if upload < 0 {
		return nil
	}
	v := uploadedVideo(integrityStatuses[integrity])
	v.UploadStatus = uploadStatuses[upload]
	return v
}

// tokenFrom maps 0 to absent, 1 to unverified and 2 to verified.
func tokenFrom(state int) *VisitToken {
	if state == 0 {
		return nil
	}
	t := verifiedToken()
	t.IsVerified = state == 2
	return t
}

func genToken() gopter.Gen {
	return gen.IntRange(0, 2).Map(tokenFrom)
}

func genEvidence() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(-1, len(uploadStatuses)-1),
		gen.IntRange(0, len(integrityStatuses)-1),
		gen.IntRange(0, 2),
	).Map(func(vals []interface{}) evidence {
		return evidence{
			Video: videoFrom(vals[0].(int), vals[1].(int)),
			Token: tokenFrom(vals[2].(int)),
		}
	})
}

func TestEvaluatorProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("exemption short-circuits every input", prop.ForAll(
		func(e evidence) bool {
			c := Evaluate(testCase, e.Video, e.Token, false, nil, evalTime)
			return c.CheckResult == ResultExempt && c.InterlockStatus == StatusUnlocked
		},
		genEvidence(),
	))

	properties.Property("missing video is always reported first", prop.ForAll(
		func(tok *VisitToken) bool {
			return Evaluate(testCase, nil, tok, true, nil, evalTime).CheckResult == ResultFailNoVideo
		},
		genToken(),
	))

	properties.Property("pass requires uploaded video, verified token and no mismatch", prop.ForAll(
		func(e evidence) bool {
			c := Evaluate(testCase, e.Video, e.Token, true, nil, evalTime)
			want := e.Video != nil && e.Video.UploadStatus == UploadUploaded &&
				e.Token != nil && e.Token.IsVerified &&
				e.Video.IntegrityStatus != IntegrityMismatch
			return (c.CheckResult == ResultPass) == want
		},
		genEvidence(),
	))

	properties.Property("each evaluation appends exactly one history entry", prop.ForAll(
		func(first, second evidence, mandatory bool) bool {
			a := Evaluate(testCase, first.Video, first.Token, mandatory, nil, evalTime)
			b := Evaluate(testCase, second.Video, second.Token, mandatory, a, evalTime)
			return len(a.CheckHistory) == 1 && len(b.CheckHistory) == 2 && b.CheckHistory[0] == a.CheckHistory[0]
		},
		genEvidence(), genEvidence(), gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestGateConsistencyProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	// action: 0 evaluate only, 1 request override, 2 request then approve,
	// 3 request then reject.
	properties.Property("gate agrees with record state", prop.ForAll(
		func(e evidence, mandatory bool, action int) bool {
			c := Evaluate(testCase, e.Video, e.Token, mandatory, nil, evalTime)
			if action >= 1 {
				c, _ = RequestOverride(c, "IO-7", ReasonOther, "generated", evalTime)
			}
			switch action {
			case 2:
				c, _ = ApproveOverride(c, "SP-1", evalTime)
			case 3:
				c, _ = RejectOverride(c, "SP-1", "no", evalTime)
			}

			g := CanSubmitChargeSheet(c)
			plain := !c.IsMandatory || (c.InterlockStatus == StatusUnlocked && c.CheckResult == ResultPass)
			switch {
			case plain:
				return g.Allowed && !g.IsOverride
			case c.InterlockStatus == StatusOverrideApproved:
				return g.Allowed && g.IsOverride
			default:
				return !g.Allowed
			}
		},
		genEvidence(), gen.Bool(), gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}
