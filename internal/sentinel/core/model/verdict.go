package model

import "strings"

// Verdict is the classifier's assessment of a free-text field report.
type Verdict string

const (
	VerdictSafe       Verdict = "SAFE"
	VerdictSuspicious Verdict = "SUSPICIOUS"
	VerdictThreat     Verdict = "THREAT"

	// VerdictUnknown is the fallback for any classifier failure, malformed
	// response or empty result.
	VerdictUnknown Verdict = "UNKNOWN"
)

// ParseVerdict normalises raw model output into a Verdict. Surrounding
// whitespace and embedded newlines are removed and the text is upper-cased;
// anything other than exactly SAFE, SUSPICIOUS or THREAT is VerdictUnknown.
func ParseVerdict(raw string) Verdict {
	s := strings.NewReplacer("\r", "", "\n", "").Replace(raw)
	s = strings.ToUpper(strings.TrimSpace(s))

	switch v := Verdict(s); v {
	case VerdictSafe, VerdictSuspicious, VerdictThreat:
		return v
	default:
		return VerdictUnknown
	}
}

func (v Verdict) String() string {
	return string(v)
}
