package phh

import "strings"

// ActionKind is a bitmask of behavioral categories an action token belongs
// to. A token can carry more than one kind: "cbr" commits money voluntarily
// and is aggressive. The buckets measure different axes, not a partition.
type ActionKind uint8

const (
	KindVoluntary ActionKind = 1 << iota
	KindAggressive
	KindPassive
	// KindRaise is the narrower raise-hand bucket: explicit bets, raises,
	// and shoves, without the generic "cbr" completion token.
	KindRaise

	KindNone ActionKind = 0
)

// Voluntary reports whether the action committed money beyond a forced bet.
func (k ActionKind) Voluntary() bool { return k&KindVoluntary != 0 }

// Aggressive reports whether the action was a bet, raise, or shove.
func (k ActionKind) Aggressive() bool { return k&KindAggressive != 0 }

// Passive reports whether the action was a fold, limp, or call.
func (k ActionKind) Passive() bool { return k&KindPassive != 0 }

// Raise reports whether the action counts toward raise hands.
func (k ActionKind) Raise() bool { return k&KindRaise != 0 }

// classifyRules maps token fragments to kinds. Tokens carry the acting
// player label first ("p1 cbr 10"), so every fragment keeps its leading
// space to anchor on the verb, not the label.
var classifyRules = []struct {
	fragment string
	kind     ActionKind
}{
	{" cc", KindVoluntary | KindPassive},
	{" limp", KindVoluntary | KindPassive},
	{" cbr", KindVoluntary | KindAggressive},
	{" all-in", KindVoluntary | KindAggressive | KindRaise},
	{" raise", KindAggressive | KindRaise},
	{" bet", KindAggressive | KindRaise},
	{" f", KindPassive},
}

// Classify maps a raw action token to its behavioral kinds by fragment
// match, case-sensitive, against the token as stored. Unmatched tokens
// (deals, board cards, shows) return KindNone.
func Classify(token string) ActionKind {
	kind := KindNone
	for _, rule := range classifyRules {
		if strings.Contains(token, rule.fragment) {
			kind |= rule.kind
		}
	}
	return kind
}
