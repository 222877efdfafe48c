package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/fitinghof/whatanime-go/internal/cascade"
	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/ingest"
	"github.com/fitinghof/whatanime-go/internal/models"
	"github.com/fitinghof/whatanime-go/internal/scoring"
	"github.com/fitinghof/whatanime-go/internal/textsim"
)

// Repository implements cascade.Store and ingest.Store against the
// Postgres catalog. It is the only package that issues SQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var (
	_ cascade.Store = (*Repository)(nil)
	_ ingest.Store  = (*Repository)(nil)
)

// GetArtists returns every artist row matching artistIDs, in no
// particular order.
func (r *Repository) GetArtists(ctx context.Context, artistIDs []ids.AnisongArtistID) ([]models.Artist, error) {
	if len(artistIDs) == 0 {
		return nil, nil
	}
	raw := make([]int32, len(artistIDs))
	for i, id := range artistIDs {
		raw[i] = int32(id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT artist_id, names, line_up_id, group_ids, member_ids FROM artists WHERE artist_id = ANY($1)`,
		pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("database: getArtists: %w", err)
	}
	defer rows.Close()

	var out []models.Artist
	for rows.Next() {
		var a models.Artist
		var artistID int32
		var groupIDs, memberIDs []int32
		var lineUpID sql.NullInt32
		if err := rows.Scan(&artistID, pq.Array(&a.Names), &lineUpID, pq.Array(&groupIDs), pq.Array(&memberIDs)); err != nil {
			return nil, fmt.Errorf("database: getArtists: scanning row: %w", err)
		}
		a.ArtistID = ids.AnisongArtistID(artistID)
		a.LineUpID = nullInt32(lineUpID)
		a.GroupIDs = intsToArtistIDs(groupIDs)
		a.MemberIDs = intsToArtistIDs(memberIDs)
		out = append(out, a)
	}
	return out, rows.Err()
}

func intsToArtistIDs(raw []int32) []ids.AnisongArtistID {
	out := make([]ids.AnisongArtistID, len(raw))
	for i, v := range raw {
		out[i] = ids.AnisongArtistID(v)
	}
	return out
}

// AnisongsByTrackID is tier 1's query: every catalog row bound to the
// song already linked to trackID, if any.
func (r *Repository) AnisongsByTrackID(ctx context.Context, trackID ids.SpotifyTrackID) ([]scoring.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT * FROM anisong_view
		WHERE song_id = (SELECT song_id FROM spotify_song_links WHERE streaming_id = $1)
		ORDER BY song_id`, string(trackID))
	if err != nil {
		return nil, fmt.Errorf("database: anisongsByTrackID: %w", err)
	}
	return r.candidatesFromRows(ctx, rows)
}

// AnisongsByArtistIDs is tier 2's query: every catalog row whose
// performers or composers overlap the one-hop group/member expansion of
// the catalog artists already linked to any of streamingArtistIDs.
func (r *Repository) AnisongsByArtistIDs(ctx context.Context, streamingArtistIDs []ids.SpotifyArtistID) ([]scoring.Candidate, error) {
	if len(streamingArtistIDs) == 0 {
		return nil, nil
	}
	raw := make([]string, len(streamingArtistIDs))
	for i, id := range streamingArtistIDs {
		raw[i] = string(id)
	}

	rows, err := r.db.QueryContext(ctx, `
		WITH linked AS (
			SELECT artist_id FROM spotify_artist_links WHERE streaming_id = ANY($1)
		),
		related_artist_ids AS (
			SELECT array_agg(DISTINCT x) AS ids FROM (
				SELECT unnest(ARRAY[a.artist_id] || a.group_ids || a.member_ids) AS x
				FROM artists a WHERE a.artist_id IN (SELECT artist_id FROM linked)
			) sub
		)
		SELECT v.* FROM anisong_view v, related_artist_ids r
		WHERE v.performer_ids && r.ids OR v.composer_ids && r.ids
		ORDER BY v.song_id`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("database: anisongsByArtistIDs: %w", err)
	}
	return r.candidatesFromRows(ctx, rows)
}

// AnisongsByInternalArtistIDs is the same related-artist expansion as
// AnisongsByArtistIDs, starting directly from catalog artist ids instead
// of streaming ids (used by tier 3's re-partition step).
func (r *Repository) AnisongsByInternalArtistIDs(ctx context.Context, artistIDs []ids.AnisongArtistID) ([]scoring.Candidate, error) {
	if len(artistIDs) == 0 {
		return nil, nil
	}
	raw := make([]int32, len(artistIDs))
	for i, id := range artistIDs {
		raw[i] = int32(id)
	}

	rows, err := r.db.QueryContext(ctx, `
		WITH related_artist_ids AS (
			SELECT array_agg(DISTINCT x) AS ids FROM (
				SELECT unnest(ARRAY[a.artist_id] || a.group_ids || a.member_ids) AS x
				FROM artists a WHERE a.artist_id = ANY($1)
			) sub
		)
		SELECT v.* FROM anisong_view v, related_artist_ids r
		WHERE v.performer_ids && r.ids OR v.composer_ids && r.ids
		ORDER BY v.song_id`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("database: anisongsByInternalArtistIDs: %w", err)
	}
	return r.candidatesFromRows(ctx, rows)
}

// FullSearch is tiers 3 & 4's query: a POSIX regex match against song
// name or any related artist's name, built from textsim's search-regex
// rules. strict selects whole-word, case-sensitive matching (~); the
// permissive form (~*) matches anywhere, case-insensitively.
func (r *Repository) FullSearch(ctx context.Context, songName string, artistNames []string, strict bool) ([]scoring.Candidate, error) {
	op := "~*"
	if strict {
		op = "~"
	}
	songRegex := textsim.ToSearchRegex(songName, strict)
	artistRegex := textsim.ArtistSearchRegex(artistNames, strict)

	query := fmt.Sprintf(`
		WITH related_artist_ids AS (
			SELECT array_agg(DISTINCT x) AS ids FROM (
				SELECT unnest(ARRAY[a.artist_id] || a.group_ids || a.member_ids) AS x
				FROM artists a
				WHERE EXISTS (SELECT 1 FROM unnest(a.names) n WHERE n %s $1)
			) sub
		)
		SELECT v.* FROM anisong_view v, related_artist_ids r
		WHERE v.performer_ids && r.ids OR v.composer_ids && r.ids OR v.song_name %s $2
		ORDER BY v.song_id`, op, op)

	rows, err := r.db.QueryContext(ctx, query, artistRegex, songRegex)
	if err != nil {
		return nil, fmt.Errorf("database: fullSearch: %w", err)
	}
	return r.candidatesFromRows(ctx, rows)
}

// BindArtists writes back the auto-bind layer's confident artist pairs.
// Idempotent: re-binding an already-linked pair is a no-op.
func (r *Repository) BindArtists(ctx context.Context, binds []cascade.ArtistBind) error {
	if len(binds) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("INSERT INTO spotify_artist_links (artist_id, streaming_id) VALUES ")
	args := make([]any, 0, len(binds)*2)
	for i, bind := range binds {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "($%d, $%d)", len(args)+1, len(args)+2)
		args = append(args, int32(bind.CatalogArtistID), string(bind.StreamingArtistID))
	}
	b.WriteString(" ON CONFLICT DO NOTHING")

	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("database: bindArtists: %w", err)
	}
	return nil
}

// BindSongs writes back a confirmed track-to-song link, from either the
// auto-bind layer or an explicit user confirmation.
func (r *Repository) BindSongs(ctx context.Context, binds []cascade.SongBind) error {
	if len(binds) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("INSERT INTO spotify_song_links (song_id, streaming_id) VALUES ")
	args := make([]any, 0, len(binds)*2)
	for i, bind := range binds {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "($%d, $%d)", len(args)+1, len(args)+2)
		args = append(args, int32(bind.SongID), string(bind.TrackID))
	}
	b.WriteString(" ON CONFLICT DO NOTHING")

	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("database: bindSongs: %w", err)
	}
	return nil
}

// ConfirmTrack is the explicit-confirmation path behind POST
// /api/confirm_anime: identical write to BindSongs, expressed as its own
// method since the handler layer has no reason to depend on cascade's
// types for a single bind.
func (r *Repository) ConfirmTrack(ctx context.Context, songID ids.SongID, trackID ids.SpotifyTrackID) error {
	return r.BindSongs(ctx, []cascade.SongBind{{SongID: songID, TrackID: trackID}})
}

// SubmitReport inserts a user-submitted correction report.
func (r *Repository) SubmitReport(ctx context.Context, report models.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (track_id, song_ann_id, message, user_id, status)
		VALUES ($1, $2, $3, $4, $5)`,
		nullableTrackID(report.TrackID), nullableSongAnnID(report.SongAnnID), report.Message, string(report.UserID), string(report.Status))
	if err != nil {
		return fmt.Errorf("database: submitReport: %w", err)
	}
	return nil
}

// Transition moves a report to a new triage status. It is a store-level
// operation only (§1 leaves the triage UI out of scope) — a future
// operator tool calls this directly.
func (r *Repository) Transition(ctx context.Context, id ids.ReportID, newStatus models.ReportStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE reports SET status = $1 WHERE id = $2`, string(newStatus), int64(id))
	if err != nil {
		return fmt.Errorf("database: transition: id=%d: %w", id, err)
	}
	return nil
}

func nullableTrackID(id *ids.SpotifyTrackID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}

func nullableSongAnnID(id *ids.AnisongSongID) any {
	if id == nil {
		return nil
	}
	return int32(*id)
}

// IngestSeason performs the end-to-end season write in the contracted
// order: addAnimes, then for each deduplicated song addSongs (resolving
// its internal id) followed by addBinds against that id, then addArtists.
// All inserts are ON CONFLICT DO NOTHING / DO UPDATE, so re-running the
// same season is idempotent. It returns the number of anime rows
// processed.
func (r *Repository) IngestSeason(ctx context.Context, anime []models.Anime, artists []models.Artist, songGroups []ingest.SongGroup) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("database: ingestSeason: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := addAnimes(ctx, tx, anime); err != nil {
		return 0, err
	}
	for _, group := range songGroups {
		songID, err := addSong(ctx, tx, group.Song)
		if err != nil {
			return 0, err
		}
		if err := addBinds(ctx, tx, songID, group.Binds); err != nil {
			return 0, err
		}
	}
	if err := addArtists(ctx, tx, artists); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("database: ingestSeason: committing: %w", err)
	}
	return len(anime), nil
}

func addAnimes(ctx context.Context, tx *sql.Tx, anime []models.Anime) error {
	for _, a := range anime {
		var vintageSeason, releaseSeason any
		var vintageYear, seasonYear any
		if a.Vintage != nil {
			vintageSeason, vintageYear = string(a.Vintage.Season), a.Vintage.Year
		}
		if a.Season != nil {
			releaseSeason = string(*a.Season)
		}
		if a.SeasonYear != nil {
			seasonYear = *a.SeasonYear
		}

		studiosJSON, _ := marshalOrEmpty(a.Studios, "[]")
		tagsJSON, _ := marshalOrEmpty(a.Tags, "[]")
		trailerJSON, _ := marshalOrEmpty(a.Trailer, "null")

		var animeType, format, source any
		if a.AnimeType != nil {
			animeType = string(*a.AnimeType)
		}
		if a.Format != nil {
			format = string(*a.Format)
		}
		if a.Source != nil {
			source = string(*a.Source)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO animes (
				ann_id, eng_name, jpn_name, alt_names, vintage_season, vintage_year,
				myanimelist_id, anidb_id, anilist_id, kitsu_id, anime_type,
				anime_index_type, anime_index_number, anime_index_part,
				mean_score, banner_image, cover_image_color, cover_image_medium,
				cover_image_large, cover_image_extra_large, media_format, genres,
				media_source, studios, tags, trailer, episodes, release_season, season_year
			) VALUES (
				$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29
			)
			ON CONFLICT (ann_id) DO NOTHING`,
			int32(a.AnnID), a.EngName, a.JpnName, pq.Array(a.AltNames), vintageSeason, vintageYear,
			a.ExternalIDs.MyAnimeList, a.ExternalIDs.AniDB, a.ExternalIDs.Anilist, a.ExternalIDs.Kitsu, animeType,
			string(a.AnimeIndex.Type), a.AnimeIndex.Number, a.AnimeIndex.Part,
			a.MeanScore, a.BannerImage, a.CoverImage.Color, a.CoverImage.Medium,
			a.CoverImage.Large, a.CoverImage.ExtraLarge, format, pq.Array(a.Genres),
			source, studiosJSON, tagsJSON, trailerJSON, a.Episodes, releaseSeason, seasonYear,
		)
		if err != nil {
			return fmt.Errorf("database: addAnimes: ann_id=%d: %w", a.AnnID, err)
		}
	}
	return nil
}

// addSong inserts or touches one deduplicated song and returns its
// internal id, per invariant 1's unique (name, sorted performer ids) key.
func addSong(ctx context.Context, tx *sql.Tx, song models.Song) (ids.SongID, error) {
	var songID int32
	err := tx.QueryRowContext(ctx, `
		INSERT INTO songs (
			name, artist_name, composer_name, arranger_name, category,
			length_secs, is_dub, hq_url, mq_url, audio_url,
			performer_ids, composer_ids, arranger_ids
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (name, sort_int_array(performer_ids)) DO UPDATE SET updated_at = now()
		RETURNING song_id`,
		song.Name, song.ArtistName, song.ComposerName, song.ArrangerName, string(song.Category),
		song.LengthSecs, song.IsDub, song.HQURL, song.MQURL, song.AudioURL,
		pq.Array(idsToInts(song.PerformerIDs)), pq.Array(idsToInts(song.ComposerIDs)), pq.Array(idsToInts(song.ArrangerIDs)),
	).Scan(&songID)
	if err != nil {
		return 0, fmt.Errorf("database: addSong: name=%q: %w", song.Name, err)
	}
	return ids.SongID(songID), nil
}

func addBinds(ctx context.Context, tx *sql.Tx, songID ids.SongID, binds []models.AnimeSongBind) error {
	for _, b := range binds {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO anime_song_links (
				song_ann_id, anime_ann_id, song_id, song_index_type, song_index_number, difficulty, is_rebroadcast
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (song_id, anime_ann_id, song_index_type, song_index_number) DO NOTHING`,
			int32(b.SongAnnID), int32(b.AnimeAnnID), int32(songID), string(b.SongIndex.Type), b.SongIndex.Number, b.Difficulty, b.IsRebroadcast,
		)
		if err != nil {
			return fmt.Errorf("database: addBinds: anime_ann_id=%d: %w", b.AnimeAnnID, err)
		}
	}
	return nil
}

func addArtists(ctx context.Context, tx *sql.Tx, artists []models.Artist) error {
	for _, a := range artists {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO artists (artist_id, names, line_up_id, group_ids, member_ids)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (artist_id) DO NOTHING`,
			int32(a.ArtistID), pq.Array(a.Names), a.LineUpID, pq.Array(idsToInts(a.GroupIDs)), pq.Array(idsToInts(a.MemberIDs)),
		)
		if err != nil {
			return fmt.Errorf("database: addArtists: artist_id=%d: %w", a.ArtistID, err)
		}
	}
	return nil
}

func idsToInts(in []ids.AnisongArtistID) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

// marshalOrEmpty JSON-encodes v for a jsonb column, substituting fallback
// when v marshals to "null" but the column expects an empty array.
func marshalOrEmpty(v any, fallback string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(fallback), err
	}
	if string(b) == "null" && fallback != "null" {
		return []byte(fallback), nil
	}
	return b, nil
}
