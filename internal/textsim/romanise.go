package textsim

import (
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

var (
	tokenizerOnce sync.Once
	sharedTok     *tokenizer.Tokenizer
)

func sharedTokenizer() *tokenizer.Tokenizer {
	tokenizerOnce.Do(func() {
		t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if err != nil {
			// No tokenizer available; romaniseJapanese falls back to
			// per-rune transliteration below.
			return
		}
		sharedTok = t
	})
	return sharedTok
}

// romaniseJapanese transliterates Japanese script to Hepburn-style
// romaji. It tokenizes with a morphological analyzer to recover each
// word's katakana reading (this also romanises kanji via their reading,
// not just kana), then converts that reading syllable-by-syllable.
func romaniseJapanese(s string) string {
	tok := sharedTokenizer()
	if tok == nil {
		return transliterateKana(s)
	}

	var out strings.Builder
	for i, m := range tok.Tokenize(s) {
		if i > 0 {
			out.WriteByte(' ')
		}
		reading := readingOf(m)
		if reading == "" {
			reading = m.Surface
		}
		out.WriteString(transliterateKana(reading))
	}
	return out.String()
}

// readingOf extracts the IPADIC "reading" feature (katakana) of a token,
// when present. Particles, symbols, and some proper nouns the dictionary
// has no entry for lack this feature.
func readingOf(m tokenizer.Token) string {
	features := m.Features()
	// IPADIC's feature layout is
	// [pos, pos1, pos2, pos3, conjType, conjForm, baseForm, reading, pronunciation]
	const readingIndex = 7
	if len(features) <= readingIndex {
		return ""
	}
	return features[readingIndex]
}

// kataToHiraOffset is the fixed codepoint distance between a katakana
// letter and its hiragana counterpart in the common range U+30A1-U+30F6.
const kataToHiraOffset = 0x60

func kataToHira(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		if r >= 0x30A1 && r <= 0x30F6 {
			out.WriteRune(r - kataToHiraOffset)
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// moraTable maps hiragana mora (including the small-kana youon digraphs)
// to their Hepburn romanisation. Longest keys are matched first.
var moraTable = map[string]string{
	"きゃ": "kya", "きゅ": "kyu", "きょ": "kyo",
	"しゃ": "sha", "しゅ": "shu", "しょ": "sho",
	"ちゃ": "cha", "ちゅ": "chu", "ちょ": "cho",
	"にゃ": "nya", "にゅ": "nyu", "にょ": "nyo",
	"ひゃ": "hya", "ひゅ": "hyu", "ひょ": "hyo",
	"みゃ": "mya", "みゅ": "myu", "みょ": "myo",
	"りゃ": "rya", "りゅ": "ryu", "りょ": "ryo",
	"ぎゃ": "gya", "ぎゅ": "gyu", "ぎょ": "gyo",
	"じゃ": "ja", "じゅ": "ju", "じょ": "jo",
	"びゃ": "bya", "びゅ": "byu", "びょ": "byo",
	"ぴゃ": "pya", "ぴゅ": "pyu", "ぴょ": "pyo",
	"あ": "a", "い": "i", "う": "u", "え": "e", "お": "o",
	"か": "ka", "き": "ki", "く": "ku", "け": "ke", "こ": "ko",
	"さ": "sa", "し": "shi", "す": "su", "せ": "se", "そ": "so",
	"た": "ta", "ち": "chi", "つ": "tsu", "て": "te", "と": "to",
	"な": "na", "に": "ni", "ぬ": "nu", "ね": "ne", "の": "no",
	"は": "ha", "ひ": "hi", "ふ": "fu", "へ": "he", "ほ": "ho",
	"ま": "ma", "み": "mi", "む": "mu", "め": "me", "も": "mo",
	"や": "ya", "ゆ": "yu", "よ": "yo",
	"ら": "ra", "り": "ri", "る": "ru", "れ": "re", "ろ": "ro",
	"わ": "wa", "ゐ": "wi", "ゑ": "we", "を": "wo", "ん": "n",
	"が": "ga", "ぎ": "gi", "ぐ": "gu", "げ": "ge", "ご": "go",
	"ざ": "za", "じ": "ji", "ず": "zu", "ぜ": "ze", "ぞ": "zo",
	"だ": "da", "ぢ": "ji", "づ": "zu", "で": "de", "ど": "do",
	"ば": "ba", "び": "bi", "ぶ": "bu", "べ": "be", "ぼ": "bo",
	"ぱ": "pa", "ぴ": "pi", "ぷ": "pu", "ぺ": "pe", "ぽ": "po",
	"ー": "",
}

// transliterateKana converts hiragana or katakana text to romaji, one
// mora at a time, greedily matching the longest entry in moraTable first.
// The small tsu っ/ッ doubles the consonant that follows it. Runs of ASCII
// and punctuation (already-Latin stylised titles, separators) pass
// through unchanged.
func transliterateKana(s string) string {
	s = kataToHira(s)
	runes := []rune(s)
	var out strings.Builder
	for i := 0; i < len(runes); {
		if runes[i] == 'っ' && i+1 < len(runes) {
			next, width := moraAt(runes, i+1)
			if next != "" {
				out.WriteString(string(next[0]))
				out.WriteString(next)
				i += 1 + width
				continue
			}
		}
		if mora, width := moraAt(runes, i); mora != "" {
			out.WriteString(mora)
			i += width
			continue
		}
		out.WriteRune(runes[i])
		i++
	}
	return out.String()
}

func moraAt(runes []rune, i int) (string, int) {
	if i+1 < len(runes) {
		if r, ok := moraTable[string(runes[i:i+2])]; ok {
			return r, 2
		}
	}
	if r, ok := moraTable[string(runes[i:i+1])]; ok {
		return r, 1
	}
	return "", 0
}
