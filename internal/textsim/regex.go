package textsim

import (
	"regexp"
	"strings"
)

// replacementRules maps a literal substring to the character-class (or
// short alternation) that should replace it when building a search
// pattern tolerant of common Unicode look-alikes and romanisation
// ambiguity (ō vs o vs ou vs oh, macron vowels, fullwidth punctuation,
// and so on). Reproduced from the fixed rule set this module's search
// regexes are specified against.
var replacementRules = map[string]string{
	"ļ":  "[ļĻ]",
	"l":  "[l˥ļĻΛ]",
	"ź":  "[źŹ]",
	"z":  "[zźŹ]",
	"ou": "(ou|ō|o)",
	"oo": "(oo|ō|o)",
	"oh": "(oh|ō|o)",
	"wo": "(wo|o)",
	"ō":  "[Ōō]",
	"o":  "([oōŌóòöôøӨΦο]|ou|oo|oh|wo)",
	"uu": "(uu|u|ū)",
	"ū":  "[ūŪ]",
	"u":  "([uūŪûúùüǖμ]|uu)",
	"aa": "(aa|a)",
	"ae": "(ae|æ)",
	"λ":  "[λΛ]",
	"a":  "([aäãά@âàáạåæā∀Λ]|aa)",
	"c":  "[cςč℃Ↄ]",
	"é":  "[éÉ]",
	"e":  "[eəéÉêёëèæē]",
	"'":  "['’ˈ]",
	"n":  "[nñ]",
	"0":  "[0Ө]",
	"2":  "[2²₂]",
	"3":  "[3³]",
	"5":  "[5⁵]",
	"*":  "[*✻＊✳︎]",
	" ":  "([^\\w]+|_+)",
	"i":  "([iíίɪ]|ii)",
	"x":  "[x×]",
	"b":  "[bßβ]",
	"r":  "[rЯ]",
	"s":  "[sς]",
}

// replacementRegex matches any key of replacementRules. Multi-character
// keys are ordered first so that, e.g., "ou" is tried before the
// single-character "o" rule would otherwise consume its first letter.
var replacementRegex = buildReplacementRegex()

func buildReplacementRegex() *regexp.Regexp {
	keys := make([]string, 0, len(replacementRules))
	for k := range replacementRules {
		keys = append(keys, k)
	}
	// Longest key first: Go's RE2 alternation, like Rust's regex crate,
	// takes the leftmost-matching alternative, so a longer rule must
	// precede any of its single-character prefixes or it is never
	// reached.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && len(keys[j]) > len(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(strings.Join(parts, "|"))
}

// ToSearchRegex builds a PostgreSQL-compatible POSIX regex matching
// common stylisations of term: every run of characters covered by
// replacementRules is expanded to its character class / alternation.
// If wholeWord is true, the result is anchored with ^...$.
func ToSearchRegex(term string, wholeWord bool) string {
	expanded := replacementRegex.ReplaceAllStringFunc(term, func(matched string) string {
		if repl, ok := replacementRules[matched]; ok {
			return repl
		}
		return matched
	})
	if wholeWord {
		return "^" + expanded + "$"
	}
	return expanded
}

// characterAttributionRegex recognizes "<Character> (CV: <Actor>)" or
// "<Character> (Vo. <Actor>)" credits.
var characterAttributionRegex = regexp.MustCompile(`.*?\((CV|Vo)(:|\.)\s*(?P<a>.*?)\)`)

// StripCharacterAttribution rewrites a "<Character> (CV: <Actor>)" style
// credit to just <Actor>; names without that pattern are returned
// unchanged.
func StripCharacterAttribution(name string) string {
	if !characterAttributionRegex.MatchString(name) {
		return name
	}
	return strings.TrimSpace(characterAttributionRegex.ReplaceAllString(name, "${a}"))
}

// ArtistSearchRegex strips character attribution from each name, builds a
// search regex for each, and joins them with "|".
func ArtistSearchRegex(names []string, wholeWord bool) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = ToSearchRegex(StripCharacterAttribution(n), wholeWord)
	}
	return strings.Join(parts, "|")
}
