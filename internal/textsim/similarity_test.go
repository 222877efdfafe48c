package textsim

import "testing"

func TestNormaliseIdempotent(t *testing.T) {
	cases := []string{"Déjà Vu!!", "HELLO world 123", "ストリート", ""}
	for _, s := range cases {
		once := Normalise(s)
		twice := Normalise(once)
		if once != twice {
			t.Errorf("Normalise(%q) not idempotent: %q vs %q", s, once, twice)
		}
	}
}

func TestRomaniseAsciiUnchanged(t *testing.T) {
	cases := []string{"Date A Live", "Monster Hunter", "123 ABC!"}
	for _, s := range cases {
		if got := Romanise(s); got != s {
			t.Errorf("Romanise(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestSimilaritySelfIsHundred(t *testing.T) {
	cases := []string{"idol", "デート・ア・ライブ", "Sumire Uesaka"}
	for _, s := range cases {
		if got := Similarity(s, s); got != 100 {
			t.Errorf("Similarity(%q, %q) = %v, want 100", s, s, got)
		}
	}
}

func TestToSearchRegexScenario(t *testing.T) {
	re := ToSearchRegex("ou", false)
	if !containsAll(re, "ou", "ō", "o") {
		t.Errorf("ToSearchRegex(\"ou\", false) = %q, want it to cover ou/ō/o", re)
	}
}

func containsAll(haystack string, needles ...string) bool {
	for _, n := range needles {
		if !stringsContains(haystack, n) {
			return false
		}
	}
	return true
}

func stringsContains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestStripCharacterAttribution(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Misaka Mikoto (CV: Satomi Arai)", "Satomi Arai"},
		{"Character Name (Vo. Some Singer)", "Some Singer"},
		{"LiSA", "LiSA"},
	}
	for _, c := range cases {
		if got := StripCharacterAttribution(c.in); got != c.want {
			t.Errorf("StripCharacterAttribution(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// japaneseMatchCorpus and japaneseMismatchCorpus are the Japanese/romaji
// pairs a correct Similarity implementation is expected to separate: the
// matched corpus should average comfortably above the mismatched one.
var japaneseMatchCorpus = []struct{ jp, latin string }{
	{"デート ・ ア ・ ライブ", "Date A Live"},
	{"モンスター ハンター", "Monster Hunter"},
	{"ファイナル ファンタジー", "Final Fantasy"},
	{"オンライン ゲーム", "Online Game"},
	{"レジェンド オブ ゼルダ", "Legend of Zelda"},
	{"ポケット モンスター", "Pocket Monster"},
	{"ドラゴン クエスト", "Dragon Quest"},
	{"キングダム ハーツ", "Kingdom Hearts"},
	{"ストリート ファイター", "Street Fighter"},
	{"スーパーマリオ", "Super Mario"},
}

var japaneseMismatchCorpus = []struct{ jp, latin string }{
	{"又三郎", "Shayou"},
	{"こんにちは", "Hello"},
	{"ありがとう", "Thank You"},
	{"バナナ", "Bandana"},
	{"コーヒー", "Cough"},
	{"ホテル", "Hostel"},
	{"スピーカー", "Spiker"},
	{"マイク", "Mice"},
	{"バイク", "Back"},
	{"チェック", "Chick"},
}

func TestSimilarityJapaneseRomajiDelta(t *testing.T) {
	var matchTotal, mismatchTotal float64
	for _, c := range japaneseMatchCorpus {
		matchTotal += Similarity(c.jp, c.latin)
	}
	for _, c := range japaneseMismatchCorpus {
		mismatchTotal += Similarity(c.jp, c.latin)
	}
	matchAvg := matchTotal / float64(len(japaneseMatchCorpus))
	mismatchAvg := mismatchTotal / float64(len(japaneseMismatchCorpus))
	if delta := matchAvg - mismatchAvg; delta <= 10 {
		t.Errorf("expected matched/mismatched average delta > 10, got %v (match=%v mismatch=%v)", delta, matchAvg, mismatchAvg)
	}
}

func TestSimilarityScenarioFromSpec(t *testing.T) {
	if got := Similarity("デート・ア・ライブ", "Date A Live"); got <= 60 {
		t.Errorf("Similarity(デート・ア・ライブ, Date A Live) = %v, want > 60", got)
	}
	if got := Similarity("又三郎", "Shayou"); got >= 60 {
		t.Errorf("Similarity(又三郎, Shayou) = %v, want < 60", got)
	}
}
