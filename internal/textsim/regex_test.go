package textsim

import (
	"regexp"
	"testing"
)

// TestToSearchRegexMatchesStylisation mirrors the literal scenario: the
// generated pattern for "ou" should match the macron spelling "tōkyō"
// case-insensitively (Go's regexp has no POSIX ~* operator, so this
// exercises the same character classes Postgres would be given).
func TestToSearchRegexMatchesStylisation(t *testing.T) {
	pattern := ToSearchRegex("ou", false)
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		t.Fatalf("generated pattern %q does not compile: %v", pattern, err)
	}
	if !re.MatchString("tōkyō") {
		t.Errorf("pattern %q did not match tōkyō", pattern)
	}
}

func TestArtistSearchRegexStripsAttribution(t *testing.T) {
	got := ArtistSearchRegex([]string{"Misaka Mikoto (CV: Satomi Arai)"}, false)
	re, err := regexp.Compile(got)
	if err != nil {
		t.Fatalf("generated pattern %q does not compile: %v", got, err)
	}
	if !re.MatchString("Satomi Arai") {
		t.Errorf("expected regex from attributed name to match the actor name, pattern=%q", got)
	}
}

func TestToSearchRegexWholeWord(t *testing.T) {
	pattern := ToSearchRegex("idol", true)
	if pattern[0] != '^' || pattern[len(pattern)-1] != '$' {
		t.Errorf("ToSearchRegex with wholeWord=true should be anchored, got %q", pattern)
	}
}
