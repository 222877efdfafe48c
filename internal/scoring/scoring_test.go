package scoring

import (
	"testing"

	"github.com/fitinghof/whatanime-go/internal/models"
)

func TestPairArtistsIsInjective(t *testing.T) {
	streaming := []models.StreamingArtist{
		{ID: "s1", Name: "LiSA"},
		{ID: "s2", Name: "Aimer"},
	}
	catalog := []models.Artist{
		{ArtistID: 1, Names: []string{"LiSA"}},
		{ArtistID: 2, Names: []string{"Aimer"}},
	}

	pairs := PairArtists(streaming, catalog)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	seenStreaming := map[string]bool{}
	seenCatalog := map[int32]bool{}
	for _, p := range pairs {
		if seenStreaming[string(p.Streaming.ID)] {
			t.Errorf("streaming artist %v matched more than once", p.Streaming.ID)
		}
		if seenCatalog[int32(p.Catalog.ArtistID)] {
			t.Errorf("catalog artist %v matched more than once", p.Catalog.ArtistID)
		}
		seenStreaming[string(p.Streaming.ID)] = true
		seenCatalog[int32(p.Catalog.ArtistID)] = true
	}
}

func TestPairArtistsEmptyInputs(t *testing.T) {
	if got := PairArtists(nil, []models.Artist{{ArtistID: 1, Names: []string{"x"}}}); got != nil {
		t.Errorf("expected nil for empty streaming list, got %v", got)
	}
	if got := PairArtists([]models.StreamingArtist{{ID: "s1", Name: "x"}}, nil); got != nil {
		t.Errorf("expected nil for empty catalog list, got %v", got)
	}
}

func TestSelectBestPicksExactNameMatch(t *testing.T) {
	candidates := []Candidate{
		{Song: models.Song{Name: "Crossing Field"}},
		{Song: models.Song{Name: "completely unrelated title"}},
	}
	sel := SelectBest(candidates, "Crossing Field", nil)
	if len(sel.Hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(sel.Hits))
	}
	if sel.Hits[0].Song.Name != "Crossing Field" {
		t.Errorf("expected the exact-name candidate to win, got %q", sel.Hits[0].Song.Name)
	}
	if sel.Certainty != 100 {
		t.Errorf("expected certainty 100 for an exact match, got %d", sel.Certainty)
	}
}

func TestSelectBestEmptyCandidates(t *testing.T) {
	sel := SelectBest(nil, "anything", nil)
	if len(sel.Hits) != 0 || len(sel.MoreByArtists) != 0 || sel.Certainty != 0 {
		t.Errorf("expected zero-value Selection for no candidates, got %+v", sel)
	}
}
