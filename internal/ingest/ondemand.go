package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/fitinghof/whatanime-go/internal/adapter"
	"github.com/fitinghof/whatanime-go/internal/anilist"
	"github.com/fitinghof/whatanime-go/internal/anisongdb"
	"github.com/fitinghof/whatanime-go/internal/ids"
)

// OnDemand implements cascade.Enricher: §4.4 trigger (b), the
// counterpart to Worker's periodic trigger (a). Where the season worker
// sweeps the whole current season on a timer, OnDemand looks up one
// track the moment the cascade's local tiers fail to place it.
type OnDemand struct {
	store    Store
	anisong  *anisongdb.Client
	anilistC *anilist.Client
}

func NewOnDemand(store Store, anisong *anisongdb.Client, anilistClient *anilist.Client) *OnDemand {
	return &OnDemand{store: store, anisong: anisong, anilistC: anilistClient}
}

// EnrichOnDemand looks up songName directly against the song-database
// feed (the same fan-out FullSearch runs for a local tier, issued live
// instead). Anything found has its artists widened to their full
// discography via ArtistIDSearch, so later tracks by the same artist
// resolve locally without another round trip, is anilist-enriched, and
// is written to the catalog exactly as RefreshCurrentSeason writes a
// season batch. It returns the number of anime rows written (rows already
// in the catalog count too), 0 if the feed returned nothing for this
// track.
func (o *OnDemand) EnrichOnDemand(ctx context.Context, songName string, artistNames []string) (int, error) {
	records := o.anisong.FullSearch(ctx, songName, artistNames)
	if len(records) == 0 {
		return 0, nil
	}

	artistSet := make(map[ids.AnisongArtistID]bool)
	for _, r := range records {
		for _, a := range r.Song.Artists() {
			artistSet[a.ArtistID] = true
		}
	}
	artistIDs := make([]ids.AnisongArtistID, 0, len(artistSet))
	for id := range artistSet {
		artistIDs = append(artistIDs, id)
	}

	discography, err := o.anisong.ArtistIDSearch(ctx, artistIDs)
	if err != nil {
		log.Printf("ingest: on-demand discography widen failed, ingesting only the matched track: %v", err)
	} else {
		records = append(records, discography...)
	}

	// An on-demand batch skips the periodic refresh's chunk-and-pace loop
	// (§5's ≥1s/chunk rule governs bulk scrape, not a single-track lookup):
	// every linked id, including those the discography widening added, goes
	// to one FetchMany call, which pages through the result itself. The id
	// count is not capped at anilistChunkSize.
	linkedIDs := linkedAnilistIDs(records)
	var media []anilist.Media
	if len(linkedIDs) > 0 {
		m, err := o.anilistC.FetchMany(ctx, linkedIDs)
		if err != nil {
			log.Printf("ingest: on-demand anilist fetch failed, continuing with no enrichment: %v", err)
		} else {
			media = m
		}
	}

	n, err := mergeAndWrite(ctx, o.store, records, media)
	if err != nil {
		return 0, fmt.Errorf("ingest: on-demand enrich: %w", err)
	}
	return n, nil
}

// linkedAnilistIDs collects the distinct Anilist ids linked_ids.anilist
// references across records, in first-seen order.
func linkedAnilistIDs(records []anisongdb.Record) []ids.AnilistAnimeID {
	seen := make(map[ids.AnilistAnimeID]bool)
	var out []ids.AnilistAnimeID
	for _, r := range records {
		if r.Anime.LinkedIDs.Anilist == nil {
			continue
		}
		id := ids.AnilistAnimeID(int32(*r.Anime.LinkedIDs.Anilist))
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// mergeAndWrite is the common tail of both ingestion triggers: dedupe
// anime by ann_id, join against already-fetched graph-feed media, and
// write the merged batch. Fetching media (paced for a full season,
// unpaced for a single on-demand lookup) is the caller's job.
func mergeAndWrite(ctx context.Context, store Store, records []anisongdb.Record, media []anilist.Media) (int, error) {
	animeByID := make(map[ids.AnisongAnimeID]anisongdb.Anime)
	for _, r := range records {
		animeByID[r.Anime.AnnID] = r.Anime
	}
	anisongAnime := make([]anisongdb.Anime, 0, len(animeByID))
	for _, a := range animeByID {
		anisongAnime = append(anisongAnime, a)
	}

	merged := adapter.Combine(anisongAnime, media)
	songGroups, artists := dedupeSongs(records)
	return store.IngestSeason(ctx, merged, artists, songGroups)
}
