package ingest

import (
	"context"
	"log"
	"time"

	"github.com/fitinghof/whatanime-go/internal/anilist"
	"github.com/fitinghof/whatanime-go/internal/anisongdb"
	"github.com/fitinghof/whatanime-go/internal/models"
)

// anilistChunkSize is the feed's own recommended page size; fetching more
// ids than this in one call risks repeated immediate pagination.
const anilistChunkSize = 50

// Store is the persistence surface the season refresh needs: a single
// transactional write covering every table the ingest step touches, in
// the order addAnimes -> addSongs -> addBinds -> addArtists.
type Store interface {
	IngestSeason(ctx context.Context, anime []models.Anime, artists []models.Artist, songGroups []SongGroup) (int, error)
}

// Worker periodically refreshes the catalog with the current anime
// season's lineup: fetch every song-database entry for the season, chunk
// its linked Anilist ids, pace one chunk per second against the graph
// feed, merge, and write.
type Worker struct {
	store    Store
	anisong  *anisongdb.Client
	anilistC *anilist.Client
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewWorker(store Store, anisong *anisongdb.Client, anilistClient *anilist.Client, interval time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{store: store, anisong: anisong, anilistC: anilistClient, interval: interval, ctx: ctx, cancel: cancel}
}

// Start runs RefreshCurrentSeason once immediately, then again on every
// interval tick, until Stop is called.
func (w *Worker) Start() {
	log.Println("ingest: season worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh()
	for {
		select {
		case <-w.ctx.Done():
			log.Println("ingest: season worker stopped")
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

// Stop signals the worker to exit after its current tick.
func (w *Worker) Stop() {
	w.cancel()
}

func (w *Worker) refresh() {
	n, err := RefreshCurrentSeason(w.ctx, w.store, w.anisong, w.anilistC, time.Now())
	if err != nil {
		log.Printf("ingest: season refresh failed: %v", err)
		return
	}
	log.Printf("ingest: season refresh processed %d anime", n)
}

// RefreshCurrentSeason fetches the song-database feed's lineup for the
// season containing now, enriches it against the graph feed in paced
// chunks, and writes the merged result. It returns the number of anime
// rows processed.
func RefreshCurrentSeason(ctx context.Context, store Store, anisong *anisongdb.Client, anilistClient *anilist.Client, now time.Time) (int, error) {
	release := CurrentSeason(now)

	records, err := anisong.AnimeSeason(ctx, release)
	if err != nil {
		return 0, err
	}

	linkedIDs := linkedAnilistIDs(records)

	var media []anilist.Media
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for i := 0; i < len(linkedIDs); i += anilistChunkSize {
		end := i + anilistChunkSize
		if end > len(linkedIDs) {
			end = len(linkedIDs)
		}
		if i > 0 {
			<-ticker.C
		}
		chunk, err := anilistClient.FetchMany(ctx, linkedIDs[i:end])
		if err != nil {
			log.Printf("ingest: anilist fetch failed for chunk, continuing with no enrichment for it: %v", err)
			continue
		}
		media = append(media, chunk...)
	}

	return mergeAndWrite(ctx, store, records, media)
}
