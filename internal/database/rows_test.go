package database

import (
	"database/sql"
	"testing"

	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
)

func TestNullHelpersRoundTripValidity(t *testing.T) {
	if got := nullInt32(sql.NullInt32{Valid: false}); got != nil {
		t.Fatalf("expected nil for invalid NullInt32, got %v", *got)
	}
	if got := nullInt32(sql.NullInt32{Int32: 7, Valid: true}); got == nil || *got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
	if got := nullString(sql.NullString{Valid: false}); got != nil {
		t.Fatalf("expected nil for invalid NullString, got %v", *got)
	}
	if got := nullFloat(sql.NullFloat64{Float64: 1.5, Valid: true}); got == nil || *got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
}

func TestMarshalOrEmptySubstitutesFallbackForNilSlice(t *testing.T) {
	var studios []models.Studio
	b, err := marshalOrEmpty(studios, "[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "[]" {
		t.Fatalf("expected nil slice to marshal as [], got %q", b)
	}

	var trailer *models.Trailer
	b, err = marshalOrEmpty(trailer, "null")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("expected nil pointer to marshal as null, got %q", b)
	}
}

func TestMarshalOrEmptyPreservesNonEmptyValue(t *testing.T) {
	studios := []models.Studio{{ID: 1, Name: "Kyoto Animation"}}
	b, err := marshalOrEmpty(studios, "[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) == "[]" {
		t.Fatalf("expected non-empty studios to survive marshaling, got %q", b)
	}
}

func TestIDConversionRoundTrips(t *testing.T) {
	in := []ids.AnisongArtistID{1, 2, 3}
	raw := idsToInts(in)
	out := intsToArtistIDs(raw)
	if len(out) != len(in) {
		t.Fatalf("expected %d ids back, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("id %d: expected %v, got %v", i, in[i], out[i])
		}
	}
}

func TestViewRowToSongPreservesPerformerIDs(t *testing.T) {
	r := viewRow{
		songID:       42,
		songName:     "Theme",
		category:     "standard",
		performerIDs: []int32{10, 20},
	}
	song := r.toSong()
	if song.SongID != ids.SongID(42) {
		t.Fatalf("expected song id 42, got %v", song.SongID)
	}
	if len(song.PerformerIDs) != 2 || song.PerformerIDs[0] != ids.AnisongArtistID(10) {
		t.Fatalf("expected performer ids [10 20], got %v", song.PerformerIDs)
	}
}

func TestViewRowToAnimeHandlesMissingVintage(t *testing.T) {
	r := viewRow{
		annID:          1,
		engName:        "Example",
		animeIndexType: "season",
		studiosJSON:    []byte("[]"),
		tagsJSON:       []byte("[]"),
	}
	anime := r.toAnime()
	if anime.Vintage != nil {
		t.Fatalf("expected nil vintage when season/year are both absent, got %+v", anime.Vintage)
	}
	if anime.AnimeIndex.Type != models.AnimeIndexSeason {
		t.Fatalf("expected season index type, got %v", anime.AnimeIndex.Type)
	}
}

func TestViewRowToBindCarriesResolvedSongID(t *testing.T) {
	r := viewRow{
		songID:    7,
		annID:     99,
		songAnnID: 5,
	}
	bind := r.toBind()
	if bind.SongID == nil || *bind.SongID != ids.SongID(7) {
		t.Fatalf("expected resolved song id 7, got %v", bind.SongID)
	}
	if bind.AnimeAnnID != ids.AnisongAnimeID(99) {
		t.Fatalf("expected anime ann id 99, got %v", bind.AnimeAnnID)
	}
}
