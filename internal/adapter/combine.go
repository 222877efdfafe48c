// Package adapter joins records from the song-database feed with
// enrichment records from the anime-metadata graph feed into the
// catalog's unified Anime shape.
package adapter

import (
	"sort"

	"github.com/fitinghof/whatanime-go/internal/anilist"
	"github.com/fitinghof/whatanime-go/internal/anisongdb"
	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
)

// Combine merges a batch of song-database anime records with the graph
// feed's enrichment records, matching on Anilist id. Every anisongs entry
// produces exactly one output row, enriched when a matching media record
// exists and left at its zero-value enrichment fields otherwise. Output
// order is by Anilist id (entries with no linked Anilist id sort first),
// not necessarily the input order of anisongs.
//
// This is a sorted two-cursor merge: both inputs are sorted once, then
// walked forward together, so the cost is O(n log n + m log m) rather
// than the O(n*m) of a naive nested lookup.
func Combine(anisongs []anisongdb.Anime, media []anilist.Media) []models.Anime {
	if len(anisongs) == 0 {
		return nil
	}

	sorted := make([]anisongdb.Anime, len(anisongs))
	copy(sorted, anisongs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return anilistIDLess(linkedAnilistID(sorted[i]), linkedAnilistID(sorted[j]))
	})

	sortedMedia := make([]anilist.Media, len(media))
	copy(sortedMedia, media)
	sort.Slice(sortedMedia, func(i, j int) bool { return sortedMedia[i].ID < sortedMedia[j].ID })

	out := make([]models.Anime, 0, len(sorted))
	j := 0
	for _, anisong := range sorted {
		base := anisong.ToModel()
		sid := linkedAnilistID(anisong)
		if sid != nil {
			for j < len(sortedMedia) && sortedMedia[j].ID < *sid {
				j++
			}
			if j < len(sortedMedia) && sortedMedia[j].ID == *sid {
				out = append(out, sortedMedia[j].ToModel(base))
				continue
			}
		}
		out = append(out, base)
	}
	return out
}

func linkedAnilistID(a anisongdb.Anime) *ids.AnilistAnimeID {
	if a.LinkedIDs.Anilist == nil {
		return nil
	}
	v := ids.AnilistAnimeID(int32(*a.LinkedIDs.Anilist))
	return &v
}

// anilistIDLess orders nil (no linked Anilist id) before any concrete id,
// matching Rust's Option<T> ordering where None < Some(_).
func anilistIDLess(a, b *ids.AnilistAnimeID) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return *a < *b
}
