// Package cascade resolves a currently-playing streaming track against
// the catalog through four progressively looser tiers: an exact track
// link, a same-artist catalog search, a strict fuzzy search, and finally
// a permissive fuzzy search that only ever reports possibilities.
package cascade

import (
	"context"
	"log"

	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
	"github.com/fitinghof/whatanime-go/internal/scoring"
)

// autoBindThreshold is the auto-bind bar: a song certainty at or above it
// is written back to the catalog as a confirmed link instead of merely
// being reported, and is then reported to the caller rounded up to 100.
// An individual artist pair is written back only when its score is
// strictly above it.
const autoBindThreshold = 90.0

// Store is the subset of catalog persistence cascade needs. Its methods
// mirror the query shapes the four tiers run, from most to least
// selective; it is implemented by internal/database.
type Store interface {
	AnisongsByTrackID(ctx context.Context, trackID ids.SpotifyTrackID) ([]scoring.Candidate, error)
	AnisongsByArtistIDs(ctx context.Context, artistIDs []ids.SpotifyArtistID) ([]scoring.Candidate, error)
	AnisongsByInternalArtistIDs(ctx context.Context, artistIDs []ids.AnisongArtistID) ([]scoring.Candidate, error)
	FullSearch(ctx context.Context, songName string, artistNames []string, strict bool) ([]scoring.Candidate, error)
	BindArtists(ctx context.Context, binds []ArtistBind) error
	BindSongs(ctx context.Context, binds []SongBind) error
}

// Enricher performs §4.4 trigger (b): when every local tier comes up
// empty, Resolve asks it to discover the track live against the upstream
// feeds and write anything found into the catalog in the same flow,
// before falling back to reporting a miss. It returns the number of
// anime rows written to the catalog (rows that were already present count
// too), 0 if the upstream feed returned nothing for the track. A nil
// Enricher skips this step entirely.
type Enricher interface {
	EnrichOnDemand(ctx context.Context, songName string, artistNames []string) (int, error)
}

// ArtistBind links a streaming-catalog artist id to a resolved catalog
// artist id.
type ArtistBind struct {
	CatalogArtistID   ids.AnisongArtistID
	StreamingArtistID ids.SpotifyArtistID
}

// SongBind links a resolved catalog song id to the streaming track id
// that was confirmed to play it.
type SongBind struct {
	SongID  ids.SongID
	TrackID ids.SpotifyTrackID
}

// CurrentTrack is the currently-playing track as reported by the
// streaming API, already reduced to what the cascade needs.
type CurrentTrack struct {
	ID      ids.SpotifyTrackID
	Name    string
	Artists []models.StreamingArtist
}

// Kind discriminates the branches of Update.
type Kind string

const (
	KindNoUpdates     Kind = "no_updates"
	KindLoginRequired Kind = "login_required"
	KindUnauthorized  Kind = "unauthorized"
	KindNotPlaying    Kind = "not_playing"
	KindNewSong       Kind = "new_song"
)

// Miss is what tier 4 reports when nothing clears any earlier tier: a set
// of loosely-matched possibilities with no certainty assigned.
type Miss struct {
	Possible []scoring.Candidate `json:"possible"`
}

// NewSong is the payload of a KindNewSong Update: either a Hit (a tiered
// match, possibly auto-bound) or a Miss.
type NewSong struct {
	Track CurrentTrack      `json:"track"`
	Hit   *scoring.Selection `json:"hit,omitempty"`
	Miss  *Miss              `json:"miss,omitempty"`
}

// Update is the result of one Resolve call.
type Update struct {
	Kind    Kind     `json:"kind"`
	NewSong *NewSong `json:"newSong,omitempty"`
}

// Resolve runs the four-tier cascade against track and reports the first
// tier that produces any candidates, applying auto-bind writes along the
// way. A nil track (nothing currently playing) and a track identical to
// the caller's previously-seen one are the caller's responsibility to
// short-circuit before calling Resolve; this function assumes a fresh,
// currently-playing track. enricher may be nil, in which case a local
// miss is reported as-is with no upstream lookup.
func Resolve(ctx context.Context, store Store, enricher Enricher, track CurrentTrack) (Update, error) {
	return resolve(ctx, store, enricher, track, true)
}

// resolve is Resolve's body, parameterised by whether an on-demand
// enrichment attempt is still allowed; it is called once with
// allowEnrich=false after a successful enrichment so that a single
// on-demand fetch can never recurse more than once per request.
func resolve(ctx context.Context, store Store, enricher Enricher, track CurrentTrack, allowEnrich bool) (Update, error) {
	if hit, err := resolveByTrackID(ctx, store, track); err != nil {
		return Update{}, err
	} else if hit != nil {
		return newSongHit(track, *hit), nil
	}

	if hit, err := resolveByArtistIDs(ctx, store, track); err != nil {
		return Update{}, err
	} else if hit != nil {
		return newSongHit(track, *hit), nil
	}

	if hit, err := resolveByStrictSearch(ctx, store, track); err != nil {
		return Update{}, err
	} else if hit != nil {
		return newSongHit(track, *hit), nil
	}

	if allowEnrich && enricher != nil {
		n, err := enricher.EnrichOnDemand(ctx, track.Name, streamingArtistNames(track.Artists))
		if err != nil {
			log.Printf("cascade: on-demand enrichment failed, falling back to local catalog: %v", err)
		} else if n > 0 {
			return resolve(ctx, store, enricher, track, false)
		}
	}

	possible, err := store.FullSearch(ctx, track.Name, streamingArtistNames(track.Artists), false)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Kind: KindNewSong,
		NewSong: &NewSong{
			Track: track,
			Miss:  &Miss{Possible: possible},
		},
	}, nil
}

func newSongHit(track CurrentTrack, sel scoring.Selection) Update {
	return Update{Kind: KindNewSong, NewSong: &NewSong{Track: track, Hit: &sel}}
}

// resolveByTrackID is tier 1: the streaming track was already linked to a
// catalog song by an earlier confirmation or auto-bind. Certainty is
// always 100 — an existing link is definitive, not scored.
func resolveByTrackID(ctx context.Context, store Store, track CurrentTrack) (*scoring.Selection, error) {
	candidates, err := store.AnisongsByTrackID(ctx, track.ID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	hitSongID := candidates[0].Song.SongID
	var hits, more []scoring.Candidate
	for _, c := range candidates {
		if c.Song.SongID == hitSongID {
			hits = append(hits, c)
		} else {
			more = append(more, c)
		}
	}

	pairs := scoring.PairArtists(track.Artists, hits[0].Artists)
	if err := autoBindArtists(ctx, store, pairs); err != nil {
		return nil, err
	}

	return &scoring.Selection{Hits: hits, MoreByArtists: more, Certainty: 100, BestPairs: pairs}, nil
}

// resolveByArtistIDs is tier 2: every catalog song credited to any of the
// track's streaming artists, scored and auto-bound on a confident match.
func resolveByArtistIDs(ctx context.Context, store Store, track CurrentTrack) (*scoring.Selection, error) {
	streamingIDs := make([]ids.SpotifyArtistID, len(track.Artists))
	for i, a := range track.Artists {
		streamingIDs[i] = a.ID
	}

	candidates, err := store.AnisongsByArtistIDs(ctx, streamingIDs)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sel := scoring.SelectBest(candidates, track.Name, track.Artists)
	if err := commitIfConfident(ctx, store, &sel, track); err != nil {
		return nil, err
	}
	return &sel, nil
}

// resolveByStrictSearch is tier 3: a whole-word, case-sensitive fuzzy
// search over the catalog by song name and artist names. Once a best
// candidate is selected it re-partitions hits against every song credited
// to the winning artist set, whether or not the match was confident enough
// to be written back, so that alternate versions of the same song (a TV edit
// sharing the winning artists) surface as MoreByArtists rather than being
// lost.
func resolveByStrictSearch(ctx context.Context, store Store, track CurrentTrack) (*scoring.Selection, error) {
	candidates, err := store.FullSearch(ctx, track.Name, streamingArtistNames(track.Artists), true)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sel := scoring.SelectBest(candidates, track.Name, track.Artists)
	if len(sel.Hits) == 0 {
		return &sel, nil
	}

	winner := sel.Hits[0]
	finalArtistIDs := make([]ids.AnisongArtistID, len(winner.Artists))
	for i, a := range winner.Artists {
		finalArtistIDs[i] = a.ArtistID
	}
	hitSongID := winner.Song.SongID

	if err := commitIfConfident(ctx, store, &sel, track); err != nil {
		return nil, err
	}

	allSongs, err := store.AnisongsByInternalArtistIDs(ctx, finalArtistIDs)
	if err != nil {
		return nil, err
	}

	var hits, more []scoring.Candidate
	for _, c := range allSongs {
		if c.Song.SongID == hitSongID {
			hits = append(hits, c)
		} else {
			more = append(more, c)
		}
	}
	sel.Hits = hits
	sel.MoreByArtists = more
	return &sel, nil
}

// commitIfConfident snaps a selection's certainty to 100 and writes back
// the song and artist binds when the raw score cleared autoBindThreshold;
// below that bar the caller reports the selection as-is with no write.
func commitIfConfident(ctx context.Context, store Store, sel *scoring.Selection, track CurrentTrack) error {
	if float64(sel.Certainty) < autoBindThreshold || len(sel.Hits) == 0 {
		return nil
	}
	sel.Certainty = 100

	if err := autoBindArtists(ctx, store, sel.BestPairs); err != nil {
		return err
	}

	return store.BindSongs(ctx, []SongBind{{SongID: sel.Hits[0].Song.SongID, TrackID: track.ID}})
}

// autoBindArtists writes back only the pairs whose individual score
// clears autoBindThreshold; a confident song match doesn't imply every
// paired artist was matched confidently.
func autoBindArtists(ctx context.Context, store Store, pairs []scoring.ArtistPair) error {
	var binds []ArtistBind
	for _, p := range pairs {
		if p.Score > autoBindThreshold {
			binds = append(binds, ArtistBind{CatalogArtistID: p.Catalog.ArtistID, StreamingArtistID: p.Streaming.ID})
		}
	}
	if len(binds) == 0 {
		return nil
	}
	return store.BindArtists(ctx, binds)
}

func streamingArtistNames(artists []models.StreamingArtist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}
