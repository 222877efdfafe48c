package textsim

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// JapaneseExtent describes how much of a string's codepoint repertoire is
// CJK/kana.
type JapaneseExtent int

const (
	// JapaneseNone: no CJK/kana codepoint appears in the string.
	JapaneseNone JapaneseExtent = iota
	// JapaneseSome: at least one CJK/kana codepoint appears, alongside
	// other script.
	JapaneseSome
	// JapaneseAll: every letter codepoint is CJK/kana.
	JapaneseAll
)

// IsJapanese inspects the codepoint repertoire of s and reports how much
// of it is Japanese script (kana or CJK ideographs).
func IsJapanese(s string) JapaneseExtent {
	sawJapanese := false
	sawOther := false
	for _, r := range s {
		switch {
		case isJapaneseRune(r):
			sawJapanese = true
		case unicode.IsLetter(r):
			sawOther = true
		}
	}
	switch {
	case !sawJapanese:
		return JapaneseNone
	case sawOther:
		return JapaneseSome
	default:
		return JapaneseAll
	}
}

func isJapaneseRune(r rune) bool {
	return unicode.In(r,
		unicode.Hiragana,
		unicode.Katakana,
		unicode.Han,
	)
}

// Romanise transliterates Japanese script (kana and kanji readings) to
// Latin letters. Strings with no Japanese content are returned unchanged.
func Romanise(s string) string {
	if IsJapanese(s) == JapaneseNone {
		return s
	}
	return romaniseJapanese(s)
}

// Normalise lowercases s, strips every character that is not a letter, a
// digit or an ASCII space, and removes combining accents from what remains
// (é becomes e). Letters with no such decomposition (ø, æ, ß, kana,
// ideographs) are kept as they are, not transliterated to ASCII.
// Idempotent: Normalise(Normalise(s)) == Normalise(s).
func Normalise(s string) string {
	lowered := strings.ToLower(s)
	var kept strings.Builder
	kept.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			kept.WriteRune(r)
		}
	}
	return deunicode(kept.String())
}

// deunicode decomposes accented/stylised Unicode letters to their closest
// plain-ASCII form by Unicode-NFD-decomposing and dropping combining
// marks, then recomposing. Characters with no ASCII decomposition
// (ideographs already converted by Romanise, symbols) pass through
// unchanged.
func deunicode(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Similarity computes a Levenshtein-derived ratio in [0,100] between a and
// b after romanising and normalising both. Similarity(s, s) == 100 for any
// non-empty s.
//
// The source this is drawn from contains a dead "consonant-weighted"
// branch for Japanese pairs that computes the identical plain ratio twice
// and averages it with itself — a no-op. This implementation always takes
// the single plain ratio, for Japanese and Latin text alike.
func Similarity(a, b string) float64 {
	ra := Normalise(Romanise(a))
	rb := Normalise(Romanise(b))
	return ratio(ra, rb)
}
