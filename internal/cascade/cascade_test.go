package cascade

import (
	"context"
	"testing"

	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
	"github.com/fitinghof/whatanime-go/internal/scoring"
)

type fakeStore struct {
	byTrackID      []scoring.Candidate
	byArtistIDs    []scoring.Candidate
	byInternalIDs  []scoring.Candidate
	strictResults  []scoring.Candidate
	looseResults   []scoring.Candidate
	artistBinds    []ArtistBind
	songBinds      []SongBind
}

func (f *fakeStore) AnisongsByTrackID(ctx context.Context, trackID ids.SpotifyTrackID) ([]scoring.Candidate, error) {
	return f.byTrackID, nil
}

func (f *fakeStore) AnisongsByArtistIDs(ctx context.Context, artistIDs []ids.SpotifyArtistID) ([]scoring.Candidate, error) {
	return f.byArtistIDs, nil
}

func (f *fakeStore) AnisongsByInternalArtistIDs(ctx context.Context, artistIDs []ids.AnisongArtistID) ([]scoring.Candidate, error) {
	return f.byInternalIDs, nil
}

func (f *fakeStore) FullSearch(ctx context.Context, songName string, artistNames []string, strict bool) ([]scoring.Candidate, error) {
	if strict {
		return f.strictResults, nil
	}
	return f.looseResults, nil
}

func (f *fakeStore) BindArtists(ctx context.Context, binds []ArtistBind) error {
	f.artistBinds = append(f.artistBinds, binds...)
	return nil
}

func (f *fakeStore) BindSongs(ctx context.Context, binds []SongBind) error {
	f.songBinds = append(f.songBinds, binds...)
	return nil
}

func TestResolveTier1ExactTrackLinkIsCertain(t *testing.T) {
	store := &fakeStore{
		byTrackID: []scoring.Candidate{
			{Song: models.Song{SongID: 5, Name: "Crossing Field"}},
		},
	}
	track := CurrentTrack{ID: "t1", Name: "Crossing Field"}

	update, err := Resolve(context.Background(), store, nil, track)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if update.Kind != KindNewSong || update.NewSong.Hit == nil {
		t.Fatalf("expected a hit, got %+v", update)
	}
	if update.NewSong.Hit.Certainty != 100 {
		t.Errorf("tier 1 hits should always be certainty 100, got %d", update.NewSong.Hit.Certainty)
	}
	if len(store.songBinds) != 0 {
		t.Errorf("tier 1 should never write a song bind (the link already exists), got %v", store.songBinds)
	}
}

// enricherFunc adapts a plain function to the Enricher interface, same
// shape as http.HandlerFunc.
type enricherFunc func(ctx context.Context, songName string, artistNames []string) (int, error)

func (f enricherFunc) EnrichOnDemand(ctx context.Context, songName string, artistNames []string) (int, error) {
	return f(ctx, songName, artistNames)
}

func TestResolveRetriesLocalTiersOnceAfterSuccessfulEnrichment(t *testing.T) {
	store := &fakeStore{}
	track := CurrentTrack{ID: "t4", Name: "Newly Discovered"}

	// Simulate the enrichment writing the song into the catalog: after
	// the first EnrichOnDemand call, the local tiers should see it.
	calls := 0
	enrich := enricherFunc(func(ctx context.Context, songName string, artistNames []string) (int, error) {
		calls++
		if calls == 1 {
			store.strictResults = []scoring.Candidate{{Song: models.Song{SongID: 9, Name: "Newly Discovered"}}}
			return 1, nil
		}
		return 0, nil
	})

	update, err := resolve(context.Background(), store, enrich, track, true)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one on-demand enrichment attempt, got %d", calls)
	}
	if update.NewSong.Hit == nil {
		t.Fatalf("expected the retried local tier to produce a hit after enrichment, got %+v", update)
	}
}

func TestResolveSkipsEnrichmentOnceAlreadyRetried(t *testing.T) {
	store := &fakeStore{}
	track := CurrentTrack{ID: "t5", Name: "Still Unknown"}
	calls := 0
	enrich := enricherFunc(func(ctx context.Context, songName string, artistNames []string) (int, error) {
		calls++
		return 0, nil
	})

	update, err := resolve(context.Background(), store, enrich, track, false)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no enrichment attempt when allowEnrich is false, got %d calls", calls)
	}
	if update.NewSong.Miss == nil {
		t.Fatalf("expected a miss, got %+v", update)
	}
}

func TestResolveFallsThroughToMissWhenNoTierMatches(t *testing.T) {
	store := &fakeStore{}
	track := CurrentTrack{ID: "t2", Name: "totally unknown track"}

	update, err := Resolve(context.Background(), store, nil, track)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if update.Kind != KindNewSong || update.NewSong.Miss == nil {
		t.Fatalf("expected a miss, got %+v", update)
	}
}

func TestResolveTier2AutoBindsOnConfidentMatch(t *testing.T) {
	store := &fakeStore{
		byArtistIDs: []scoring.Candidate{
			{Song: models.Song{SongID: 7, Name: "Rising Hope"}},
		},
	}
	track := CurrentTrack{ID: "t3", Name: "Rising Hope"}

	update, err := Resolve(context.Background(), store, nil, track)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if update.NewSong.Hit == nil {
		t.Fatalf("expected a hit from tier 2, got %+v", update)
	}
	if update.NewSong.Hit.Certainty != 100 {
		t.Errorf("exact name match should clear the auto-bind bar and snap to 100, got %d", update.NewSong.Hit.Certainty)
	}
	if len(store.songBinds) != 1 || store.songBinds[0].SongID != 7 {
		t.Errorf("expected an auto-bind write for song 7, got %v", store.songBinds)
	}
}
