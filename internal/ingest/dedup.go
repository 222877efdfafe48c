package ingest

import (
	"sort"
	"strings"

	"github.com/fitinghof/whatanime-go/internal/anisongdb"
	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
)

// SongGroup is one deduplicated song (invariant 1: keyed by name and
// sorted performer ids) plus every anime bind the feed recorded against
// it. Song.SongID and each Bind.SongID are unset — the store resolves
// them on insert.
type SongGroup struct {
	Song  models.Song
	Binds []models.AnimeSongBind
}

// dedupeSongs groups a season's raw records into distinct songs per
// invariant 1, and separately flattens every record's credited artists
// into one deduplicated list for addArtists.
func dedupeSongs(records []anisongdb.Record) ([]SongGroup, []models.Artist) {
	groups := make(map[string]*SongGroup)
	var order []string

	artistSeen := make(map[ids.AnisongArtistID]bool)
	var artists []models.Artist

	for _, rec := range records {
		song := rec.Song.ToModel()
		key := songDedupKey(song.Name, song.PerformerIDs)

		g, ok := groups[key]
		if !ok {
			g = &SongGroup{Song: song}
			groups[key] = g
			order = append(order, key)
		}
		g.Binds = append(g.Binds, rec.Bind.ToModel())

		for _, a := range rec.Song.Artists() {
			if artistSeen[a.ArtistID] {
				continue
			}
			artistSeen[a.ArtistID] = true
			artists = append(artists, a)
		}
	}

	out := make([]SongGroup, len(order))
	for i, key := range order {
		out[i] = *groups[key]
	}
	return out, artists
}

// songDedupKey sorts performerIDs (invariant 1 dedups on the set
// regardless of the feed's credit order) and joins them with name into a
// single map key.
func songDedupKey(name string, performerIDs []ids.AnisongArtistID) string {
	sorted := append([]ids.AnisongArtistID(nil), performerIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = id.String()
	}
	return name + "\x00" + strings.Join(parts, ",")
}
