package textsim

import "testing"

func TestTokenSetRatioIdentical(t *testing.T) {
	if got := TokenSetRatio("LiSA", "LiSA"); got != 100 {
		t.Errorf("TokenSetRatio(LiSA, LiSA) = %v, want 100", got)
	}
}

func TestTokenSetRatioReorderedTokens(t *testing.T) {
	a := "Sumire Uesaka"
	b := "Uesaka Sumire"
	if got := TokenSetRatio(a, b); got < 90 {
		t.Errorf("TokenSetRatio(%q, %q) = %v, want >= 90 (token order shouldn't matter)", a, b, got)
	}
}

func TestRatioUnrelatedStringsLow(t *testing.T) {
	if got := ratio("completely different", "another string entirely"); got > 60 {
		t.Errorf("ratio of unrelated strings = %v, want <= 60", got)
	}
}
