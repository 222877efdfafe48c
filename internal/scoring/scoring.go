// Package scoring ranks catalog candidates against a currently-playing
// streaming track: artist-to-artist matching and whole-row best-candidate
// selection.
package scoring

import (
	"sort"

	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
	"github.com/fitinghof/whatanime-go/internal/textsim"
)

// ArtistPair is one matched (streaming artist, catalog artist) pair with
// its match score in [0, 100].
type ArtistPair struct {
	Streaming models.StreamingArtist
	Catalog   models.Artist
	Score     float64
}

// PairArtists matches each streaming artist to its best-scoring catalog
// artist, then resolves overlaps: pairs are sorted by score descending and
// kept only while both sides of the pair are still unclaimed. The result
// is an injective best-effort assignment, not a globally optimal one — a
// streaming artist can lose its best catalog match to an earlier, higher
// scoring pair that claimed the same catalog artist first.
func PairArtists(streaming []models.StreamingArtist, catalog []models.Artist) []ArtistPair {
	if len(streaming) == 0 || len(catalog) == 0 {
		return nil
	}

	pairs := make([]ArtistPair, 0, len(streaming))
	for _, s := range streaming {
		best := ArtistPair{Streaming: s}
		haveBest := false
		for _, c := range catalog {
			score := bestNameScore(s.Name, c.Names)
			if !haveBest || score > best.Score {
				best = ArtistPair{Streaming: s, Catalog: c, Score: score}
				haveBest = true
			}
		}
		pairs = append(pairs, best)
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })

	seenStreaming := make(map[ids.SpotifyArtistID]bool, len(pairs))
	seenCatalog := make(map[ids.AnisongArtistID]bool, len(pairs))
	result := make([]ArtistPair, 0, len(pairs))
	for _, p := range pairs {
		if seenStreaming[p.Streaming.ID] || seenCatalog[p.Catalog.ArtistID] {
			continue
		}
		seenStreaming[p.Streaming.ID] = true
		seenCatalog[p.Catalog.ArtistID] = true
		result = append(result, p)
	}
	return result
}

// bestNameScore is the highest token-set-ratio score between streamingName
// and any of a catalog artist's known display names, after stripping
// character-voice attribution ("(CV: ...)") from each candidate name.
func bestNameScore(streamingName string, catalogNames []string) float64 {
	best := 0.0
	for _, name := range catalogNames {
		score := textsim.TokenSetRatio(textsim.StripCharacterAttribution(streamingName), textsim.StripCharacterAttribution(name))
		if score > best {
			best = score
		}
	}
	return best
}

// Candidate is one row under consideration: a catalog song bound to an
// anime, with its credited artists already resolved, scored as a unit
// against the currently-playing track's name and artist list.
type Candidate struct {
	Anime   models.Anime
	Song    models.Song
	Bind    models.AnimeSongBind
	Artists []models.Artist
}

// Selection is the outcome of SelectBest: the rows tied for the highest
// combined score (Hits), every other row considered (MoreByArtists), the
// winning score, and the artist pairing that produced it.
type Selection struct {
	Hits          []Candidate
	MoreByArtists []Candidate
	Certainty     int
	BestPairs     []ArtistPair
}

// SelectBest scores every candidate against songName and the streaming
// track's artist list, then partitions candidates into the ones tied for
// the best combined score (name similarity averaged with mean per-artist
// match score; when neither the track nor the candidate lists any artist,
// the name similarity alone) and the rest. Certainty is the winning score
// rounded down to an integer percentage.
func SelectBest(candidates []Candidate, songName string, artists []models.StreamingArtist) Selection {
	if len(candidates) == 0 {
		return Selection{}
	}

	type scored struct {
		score float64
		cand  Candidate
	}

	scoredRows := make([]scored, 0, len(candidates))
	var bestPairs []ArtistPair
	certainty := 0.0

	for _, c := range candidates {
		nameScore := textsim.Similarity(songName, c.Song.Name)
		pairs := PairArtists(artists, c.Artists)

		numArtists := len(artists)
		if len(c.Artists) > numArtists {
			numArtists = len(c.Artists)
		}

		artistScore := 0.0
		for _, p := range pairs {
			artistScore += p.Score
		}
		score := nameScore
		if numArtists > 0 {
			artistScore /= float64(numArtists)
			score = (nameScore + artistScore) / 2
		}
		if score > certainty {
			bestPairs = pairs
			certainty = score
		}
		scoredRows = append(scoredRows, scored{score, c})
	}

	var hits, more []Candidate
	for _, r := range scoredRows {
		if r.score == certainty {
			hits = append(hits, r.cand)
		} else {
			more = append(more, r.cand)
		}
	}

	return Selection{
		Hits:          hits,
		MoreByArtists: more,
		Certainty:     int(certainty),
		BestPairs:     bestPairs,
	}
}
