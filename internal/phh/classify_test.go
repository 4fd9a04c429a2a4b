package phh

import "testing"

// The known token vocabulary: player verbs plus dealer tokens that must
// stay unclassified.
func TestClassifyVocabulary(t *testing.T) {
	cases := []struct {
		token      string
		voluntary  bool
		aggressive bool
		passive    bool
		raise      bool
	}{
		// Check/call commits money voluntarily but is passive play.
		{"p1 cc", true, false, true, false},
		{"p2 cc 4", true, false, true, false},
		// Limp: voluntary and passive.
		{"p1 limp", true, false, true, false},
		// Completion/bet/raise: voluntary and aggressive, but not part of
		// the narrower raise-hand bucket.
		{"p1 cbr 10", true, true, false, false},
		{"P1 cbr 10", true, true, false, false},
		// All-in: voluntary, aggressive, and a raise hand.
		{"p3 all-in", true, true, false, true},
		// Explicit bet/raise verbs: aggressive raise hands.
		{"p1 bet 25", false, true, false, true},
		{"p2 raise 50", false, true, false, true},
		// Fold: passive only.
		{"P2 f", false, false, true, false},
		{"p4 fold", false, false, true, false},
		// Dealer tokens carry no behavioral signal.
		{"d dh p1 AhKs", false, false, false, false},
		{"d db 2h3c4d", false, false, false, false},
		// No leading player label: fragments anchor on the space.
		{"cbr", false, false, false, false},
	}

	for _, tc := range cases {
		kind := Classify(tc.token)
		if kind.Voluntary() != tc.voluntary {
			t.Errorf("Classify(%q).Voluntary() = %v, want %v", tc.token, kind.Voluntary(), tc.voluntary)
		}
		if kind.Aggressive() != tc.aggressive {
			t.Errorf("Classify(%q).Aggressive() = %v, want %v", tc.token, kind.Aggressive(), tc.aggressive)
		}
		if kind.Passive() != tc.passive {
			t.Errorf("Classify(%q).Passive() = %v, want %v", tc.token, kind.Passive(), tc.passive)
		}
		if kind.Raise() != tc.raise {
			t.Errorf("Classify(%q).Raise() = %v, want %v", tc.token, kind.Raise(), tc.raise)
		}
	}
}

func TestClassifyOverlapIsIntentional(t *testing.T) {
	// "cbr" measures on two axes at once; the buckets are not a partition.
	kind := Classify("p1 cbr 10")
	if !kind.Voluntary() || !kind.Aggressive() {
		t.Errorf("cbr must be voluntary and aggressive, got %b", kind)
	}
}
