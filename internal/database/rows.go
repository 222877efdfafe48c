package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
	"github.com/fitinghof/whatanime-go/internal/scoring"
)

// viewRow mirrors one row of anisong_view; Scan targets every column in
// the order the view declares them.
type viewRow struct {
	songID       int32
	songName     string
	artistName   string
	composerName string
	arrangerName string
	category     string
	lengthSecs   sql.NullFloat64
	isDub        bool
	hqURL        sql.NullString
	mqURL        sql.NullString
	audioURL     sql.NullString
	performerIDs []int32
	composerIDs  []int32
	arrangerIDs  []int32

	annID          int32
	engName        string
	jpnName        string
	altNames       []string
	vintageSeason  sql.NullString
	vintageYear    sql.NullInt32
	myanimelistID  sql.NullInt32
	anidbID        sql.NullInt32
	anilistID      sql.NullInt32
	kitsuID        sql.NullInt32
	animeType      sql.NullString
	animeIndexType string
	animeIndexNum  int32
	animeIndexPart int16
	meanScore      sql.NullInt32
	bannerImage    sql.NullString
	coverColor     sql.NullString
	coverMedium    sql.NullString
	coverLarge     sql.NullString
	coverXL        sql.NullString
	mediaFormat    sql.NullString
	genres         []string
	mediaSource    sql.NullString
	studiosJSON    []byte
	tagsJSON       []byte
	trailerJSON    []byte
	episodes       sql.NullInt32
	releaseSeason  sql.NullString
	seasonYear     sql.NullInt32

	songAnnID     int32
	songIndexType string
	songIndexNum  int32
	difficulty    sql.NullFloat64
	isRebroadcast bool
}

func scanViewRow(rows *sql.Rows) (viewRow, error) {
	var r viewRow
	err := rows.Scan(
		&r.songID, &r.songName, &r.artistName, &r.composerName, &r.arrangerName,
		&r.category, &r.lengthSecs, &r.isDub, &r.hqURL, &r.mqURL, &r.audioURL,
		pq.Array(&r.performerIDs), pq.Array(&r.composerIDs), pq.Array(&r.arrangerIDs),

		&r.annID, &r.engName, &r.jpnName, pq.Array(&r.altNames), &r.vintageSeason, &r.vintageYear,
		&r.myanimelistID, &r.anidbID, &r.anilistID, &r.kitsuID, &r.animeType,
		&r.animeIndexType, &r.animeIndexNum, &r.animeIndexPart,
		&r.meanScore, &r.bannerImage, &r.coverColor, &r.coverMedium, &r.coverLarge, &r.coverXL,
		&r.mediaFormat, pq.Array(&r.genres), &r.mediaSource, &r.studiosJSON, &r.tagsJSON, &r.trailerJSON,
		&r.episodes, &r.releaseSeason, &r.seasonYear,

		&r.songAnnID, &r.songIndexType, &r.songIndexNum, &r.difficulty, &r.isRebroadcast,
	)
	return r, err
}

func nullInt32(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	n := v.Int32
	return &n
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func (r viewRow) toAnime() models.Anime {
	var vintage *models.Release
	if r.vintageSeason.Valid && r.vintageYear.Valid {
		vintage = &models.Release{Season: models.ReleaseSeason(r.vintageSeason.String), Year: r.vintageYear.Int32}
	}

	var studios []models.Studio
	_ = json.Unmarshal(r.studiosJSON, &studios)
	var tags []models.Tag
	_ = json.Unmarshal(r.tagsJSON, &tags)
	var trailer *models.Trailer
	if len(r.trailerJSON) > 0 {
		var t models.Trailer
		if json.Unmarshal(r.trailerJSON, &t) == nil {
			trailer = &t
		}
	}

	var animeType *models.AnimeType
	if r.animeType.Valid {
		t := models.AnimeType(r.animeType.String)
		animeType = &t
	}
	var format *models.MediaFormat
	if r.mediaFormat.Valid {
		f := models.MediaFormat(r.mediaFormat.String)
		format = &f
	}
	var source *models.MediaSource
	if r.mediaSource.Valid {
		s := models.MediaSource(r.mediaSource.String)
		source = &s
	}
	var season *models.ReleaseSeason
	if r.releaseSeason.Valid {
		s := models.ReleaseSeason(r.releaseSeason.String)
		season = &s
	}

	return models.Anime{
		AnnID:    ids.AnisongAnimeID(r.annID),
		EngName:  r.engName,
		JpnName:  r.jpnName,
		AltNames: r.altNames,
		Vintage:  vintage,
		ExternalIDs: models.AnimeExternalLinks{
			MyAnimeList: nullInt32(r.myanimelistID),
			AniDB:       nullInt32(r.anidbID),
			Anilist:     nullInt32(r.anilistID),
			Kitsu:       nullInt32(r.kitsuID),
		},
		AnimeType: animeType,
		AnimeIndex: models.AnimeIndex{
			Type:   models.AnimeIndexType(r.animeIndexType),
			Number: r.animeIndexNum,
			Part:   r.animeIndexPart,
		},
		MeanScore:   nullInt32(r.meanScore),
		BannerImage: nullString(r.bannerImage),
		CoverImage: models.CoverImage{
			Color:      nullString(r.coverColor),
			Medium:     nullString(r.coverMedium),
			Large:      nullString(r.coverLarge),
			ExtraLarge: nullString(r.coverXL),
		},
		Format:     format,
		Genres:     r.genres,
		Source:     source,
		Studios:    studios,
		Tags:       tags,
		Trailer:    trailer,
		Episodes:   nullInt32(r.episodes),
		Season:     season,
		SeasonYear: nullInt32(r.seasonYear),
	}
}

func (r viewRow) toSong() models.Song {
	idsOf := func(raw []int32) []ids.AnisongArtistID {
		out := make([]ids.AnisongArtistID, len(raw))
		for i, v := range raw {
			out[i] = ids.AnisongArtistID(v)
		}
		return out
	}
	return models.Song{
		SongID:       ids.SongID(r.songID),
		Name:         r.songName,
		ArtistName:   r.artistName,
		ComposerName: r.composerName,
		ArrangerName: r.arrangerName,
		Category:     models.SongCategory(r.category),
		LengthSecs:   nullFloat(r.lengthSecs),
		IsDub:        r.isDub,
		HQURL:        nullString(r.hqURL),
		MQURL:        nullString(r.mqURL),
		AudioURL:     nullString(r.audioURL),
		PerformerIDs: idsOf(r.performerIDs),
		ComposerIDs:  idsOf(r.composerIDs),
		ArrangerIDs:  idsOf(r.arrangerIDs),
	}
}

func (r viewRow) toBind() models.AnimeSongBind {
	songID := ids.SongID(r.songID)
	return models.AnimeSongBind{
		SongAnnID:     ids.AnisongSongID(r.songAnnID),
		AnimeAnnID:    ids.AnisongAnimeID(r.annID),
		SongIndex:     models.SongIndex{Type: models.SongIndexType(r.songIndexType), Number: r.songIndexNum},
		Difficulty:    nullFloat(r.difficulty),
		IsRebroadcast: r.isRebroadcast,
		SongID:        &songID,
	}
}

// candidatesFromRows scans every row of an anisong_view query into
// scoring.Candidate, resolving each row's performer artists with a single
// batched getArtists call.
func (repo *Repository) candidatesFromRows(ctx context.Context, rows *sql.Rows) ([]scoring.Candidate, error) {
	defer rows.Close()

	var parsed []viewRow
	performerSet := make(map[ids.AnisongArtistID]bool)
	for rows.Next() {
		r, err := scanViewRow(rows)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, r)
		for _, v := range r.performerIDs {
			performerSet[ids.AnisongArtistID(v)] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	performerIDs := make([]ids.AnisongArtistID, 0, len(performerSet))
	for id := range performerSet {
		performerIDs = append(performerIDs, id)
	}
	artists, err := repo.GetArtists(ctx, performerIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[ids.AnisongArtistID]models.Artist, len(artists))
	for _, a := range artists {
		byID[a.ArtistID] = a
	}

	out := make([]scoring.Candidate, len(parsed))
	for i, r := range parsed {
		song := r.toSong()
		resolved := make([]models.Artist, 0, len(song.PerformerIDs))
		for _, id := range song.PerformerIDs {
			if a, ok := byID[id]; ok {
				resolved = append(resolved, a)
			}
		}
		out[i] = scoring.Candidate{
			Anime:   r.toAnime(),
			Song:    song,
			Bind:    r.toBind(),
			Artists: resolved,
		}
	}
	return out, nil
}
