package ingest

import (
	"context"
	"testing"

	"github.com/fitinghof/whatanime-go/internal/anilist"
	"github.com/fitinghof/whatanime-go/internal/anisongdb"
	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
)

type fakeIngestStore struct {
	anime      []models.Anime
	artists    []models.Artist
	songGroups []SongGroup
}

func (f *fakeIngestStore) IngestSeason(ctx context.Context, anime []models.Anime, artists []models.Artist, songGroups []SongGroup) (int, error) {
	f.anime, f.artists, f.songGroups = anime, artists, songGroups
	return len(anime), nil
}

func TestLinkedAnilistIDsDedupsAndSkipsUnlinked(t *testing.T) {
	linked := recordFixture(t, 1, 100, "Theme")
	anilistID := anisongdb.LooseInt(42)
	linked.Anime.LinkedIDs.Anilist = &anilistID
	unlinked := recordFixture(t, 2, 200, "Other Theme")

	got := linkedAnilistIDs([]anisongdb.Record{linked, linked, unlinked})
	if len(got) != 1 || got[0] != ids.AnilistAnimeID(42) {
		t.Fatalf("expected exactly one deduplicated anilist id 42, got %v", got)
	}
}

func TestMergeAndWriteIngestsDedupedAnimeAndSongs(t *testing.T) {
	r1 := recordFixture(t, 1, 100, "Theme")
	r2 := recordFixture(t, 1, 100, "Theme") // same anime, same song: duplicate record
	store := &fakeIngestStore{}

	n, err := mergeAndWrite(context.Background(), store, []anisongdb.Record{r1, r2}, nil)
	if err != nil {
		t.Fatalf("mergeAndWrite returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deduplicated anime row, got %d", n)
	}
	if len(store.songGroups) != 1 {
		t.Fatalf("expected 1 deduplicated song group, got %d", len(store.songGroups))
	}
}

func TestMergeAndWriteJoinsAnilistMediaByID(t *testing.T) {
	r := recordFixture(t, 1, 100, "Theme")
	linked := anisongdb.LooseInt(42)
	r.Anime.LinkedIDs.Anilist = &linked
	anilistID := ids.AnilistAnimeID(42)
	score := int32(77)
	store := &fakeIngestStore{}

	n, err := mergeAndWrite(context.Background(), store, []anisongdb.Record{r}, []anilist.Media{{ID: anilistID, MeanScore: &score}})
	if err != nil {
		t.Fatalf("mergeAndWrite returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 anime row, got %d", n)
	}
	if got := store.anime[0].MeanScore; got == nil || *got != score {
		t.Fatalf("expected the anime linked to Anilist id 42 to carry the media's mean score %d, got %v", score, got)
	}
}
