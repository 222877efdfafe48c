package adapter

import (
	"testing"

	"github.com/fitinghof/whatanime-go/internal/anilist"
	"github.com/fitinghof/whatanime-go/internal/anisongdb"
)

func linksWithAnilist(id int64) anisongdb.AnimeListLinks {
	v := anisongdb.LooseInt(id)
	return anisongdb.AnimeListLinks{Anilist: &v}
}

func TestCombinePreservesCountAndEnriches(t *testing.T) {
	anisongs := []anisongdb.Anime{
		{AnnID: 1, EngName: "Show A", LinkedIDs: linksWithAnilist(10)},
		{AnnID: 2, EngName: "Show B", LinkedIDs: linksWithAnilist(20)},
		{AnnID: 3, EngName: "Show C", LinkedIDs: anisongdb.AnimeListLinks{}},
	}
	score := int32(88)
	media := []anilist.Media{
		{ID: 10, MeanScore: &score},
	}

	out := Combine(anisongs, media)
	if len(out) != len(anisongs) {
		t.Fatalf("Combine produced %d rows, want %d (one per input)", len(out), len(anisongs))
	}

	var enrichedCount int
	for _, a := range out {
		if a.MeanScore != nil {
			enrichedCount++
			if *a.MeanScore != score {
				t.Errorf("enriched row has MeanScore %v, want %v", *a.MeanScore, score)
			}
		}
	}
	if enrichedCount != 1 {
		t.Errorf("expected exactly 1 enriched row, got %d", enrichedCount)
	}
}

func TestCombineEmptyAnisongsYieldsEmpty(t *testing.T) {
	out := Combine(nil, []anilist.Media{{ID: 1}})
	if len(out) != 0 {
		t.Errorf("Combine with no anisongs should return no rows, got %d", len(out))
	}
}

func TestCombineWithNoMediaLeavesDefaults(t *testing.T) {
	anisongs := []anisongdb.Anime{
		{AnnID: 1, EngName: "Show A", LinkedIDs: linksWithAnilist(10)},
	}
	out := Combine(anisongs, nil)
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	if out[0].MeanScore != nil {
		t.Errorf("expected no enrichment with empty media, got MeanScore=%v", *out[0].MeanScore)
	}
}
