// Package models holds the catalog's entity types: Anime, Song, Artist,
// AnimeSongBind, TrackLink, ArtistLink and Report, plus the categorical
// enums attached to them. Field layout and tagging follows the flat,
// tag-annotated struct style the rest of this codebase uses for its
// persisted types.
package models

import (
	"time"

	"github.com/fitinghof/whatanime-go/internal/ids"
)

// AnimeType classifies the broadcast format of an anime as reported by the
// song-database feed.
type AnimeType string

const (
	AnimeTypeTV      AnimeType = "tv"
	AnimeTypeMovie   AnimeType = "movie"
	AnimeTypeOVA     AnimeType = "ova"
	AnimeTypeONA     AnimeType = "ona"
	AnimeTypeSpecial AnimeType = "special"
	AnimeTypeUnknown AnimeType = "unknown"
)

// AnimeIndexType is the kind of release-sequence slot an anime occupies
// (season entry, movie, special, ...).
type AnimeIndexType string

const (
	AnimeIndexSeason     AnimeIndexType = "season"
	AnimeIndexMovie      AnimeIndexType = "movie"
	AnimeIndexONA        AnimeIndexType = "ona"
	AnimeIndexOVA        AnimeIndexType = "ova"
	AnimeIndexTVSpecial  AnimeIndexType = "tv_special"
	AnimeIndexSpecial    AnimeIndexType = "special"
	AnimeIndexMusicVideo AnimeIndexType = "music_video"
	AnimeIndexUnknown    AnimeIndexType = "unknown"
)

// AnimeIndex locates an anime within its release sequence, e.g. "Season 2
// Part 2" or "Movie 1".
type AnimeIndex struct {
	Type   AnimeIndexType `db:"anime_index_type" json:"type"`
	Number int32          `db:"anime_index_number" json:"number"`
	Part   int16          `db:"anime_index_part" json:"part"` // 1 or 2
}

// ReleaseSeason is the quarter of the year an anime debuted in, per the
// song-database feed's vintage field.
type ReleaseSeason string

const (
	SeasonWinter ReleaseSeason = "winter"
	SeasonSpring ReleaseSeason = "spring"
	SeasonSummer ReleaseSeason = "summer"
	SeasonFall   ReleaseSeason = "fall"
)

// Release is a {season, year} pair.
type Release struct {
	Season ReleaseSeason `db:"season" json:"season"`
	Year   int32         `db:"year" json:"year"`
}

// MediaFormat is the anime-graph feed's classification of the media,
// distinct from AnimeType: it also covers print formats (manga, novel).
type MediaFormat string

const (
	MediaFormatTV      MediaFormat = "tv"
	MediaFormatTVShort MediaFormat = "tv_short"
	MediaFormatMovie   MediaFormat = "movie"
	MediaFormatSpecial MediaFormat = "special"
	MediaFormatOVA     MediaFormat = "ova"
	MediaFormatONA     MediaFormat = "ona"
	MediaFormatMusic   MediaFormat = "music"
	MediaFormatManga   MediaFormat = "manga"
	MediaFormatNovel   MediaFormat = "novel"
	MediaFormatOneShot MediaFormat = "one_shot"
)

// MediaSource is the anime-graph feed's classification of the original
// source material (manga, light novel, original, ...).
type MediaSource string

const (
	SourceOriginal          MediaSource = "original"
	SourceManga             MediaSource = "manga"
	SourceLightNovel        MediaSource = "light_novel"
	SourceVisualNovel       MediaSource = "visual_novel"
	SourceVideoGame         MediaSource = "video_game"
	SourceOther             MediaSource = "other"
	SourceNovel             MediaSource = "novel"
	SourceDoujinshi         MediaSource = "doujinshi"
	SourceAnime             MediaSource = "anime"
	SourceWebNovel          MediaSource = "web_novel"
	SourceLiveAction        MediaSource = "live_action"
	SourceGame              MediaSource = "game"
	SourceComic             MediaSource = "comic"
	SourceMultimediaProject MediaSource = "multi_media_project"
	SourcePictureBook       MediaSource = "picture_book"
)

// AnimeExternalLinks cross-references an anime across catalogs that aren't
// this one.
type AnimeExternalLinks struct {
	MyAnimeList *int32 `db:"myanimelist_id" json:"myAnimeList,omitempty"`
	AniDB       *int32 `db:"anidb_id" json:"aniDB,omitempty"`
	Anilist     *int32 `db:"anilist_id" json:"anilist,omitempty"`
	Kitsu       *int32 `db:"kitsu_id" json:"kitsu,omitempty"`
}

// Studio is an anime production studio.
type Studio struct {
	ID      int32   `json:"id"`
	Name    string  `json:"name"`
	SiteURL *string `json:"siteUrl,omitempty"`
}

// Tag is a descriptive tag attached to an anime by the anime-graph feed.
type Tag struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Trailer is a link to a promotional video for an anime.
type Trailer struct {
	ID        string `json:"id"`
	Site      string `json:"site"`
	Thumbnail string `json:"thumbnail"`
}

// CoverImage carries the anime-graph feed's cover art at several
// resolutions plus its dominant color.
type CoverImage struct {
	Color      *string `json:"color,omitempty"`
	Medium     *string `json:"medium,omitempty"`
	Large      *string `json:"large,omitempty"`
	ExtraLarge *string `json:"extraLarge,omitempty"`
}

// Anime is a single anime entry in the catalog, merged from the two
// upstream feeds by Anilist id (see internal/adapter.Combine).
type Anime struct {
	AnnID       ids.AnisongAnimeID `db:"ann_id" json:"annId"`
	EngName     string             `db:"eng_name" json:"engName"`
	JpnName     string             `db:"jpn_name" json:"jpnName"`
	AltNames    []string           `db:"alt_names" json:"altNames"`
	Vintage     *Release           `json:"vintage,omitempty"`
	ExternalIDs AnimeExternalLinks `json:"externalIds"`
	AnimeType   *AnimeType         `db:"anime_type" json:"animeType,omitempty"`
	AnimeIndex  AnimeIndex         `json:"animeIndex"`

	// Enrichment, from the anime-graph feed. Absent (nil/zero) when the
	// anime hasn't been matched to that feed yet — see invariant 4.
	MeanScore   *int32       `db:"mean_score" json:"meanScore,omitempty"`
	BannerImage *string      `db:"banner_image" json:"bannerImage,omitempty"`
	CoverImage  CoverImage   `json:"coverImage"`
	Format      *MediaFormat `db:"media_format" json:"format,omitempty"`
	Genres      []string     `json:"genres"`
	Source      *MediaSource `db:"media_source" json:"source,omitempty"`
	Studios     []Studio     `json:"studios"`
	Tags        []Tag        `json:"tags"`
	Trailer     *Trailer     `json:"trailer,omitempty"`
	Episodes    *int32       `json:"episodes,omitempty"`
	Season      *ReleaseSeason `db:"release_season" json:"season,omitempty"`
	SeasonYear  *int32       `db:"season_year" json:"seasonYear,omitempty"`
}

// SongCategory classifies a theme song's role relative to the show's
// story (a straightforward theme vs. an instrumental, a character's
// in-universe performance, or a chant).
type SongCategory string

const (
	SongStandard     SongCategory = "standard"
	SongCharacter    SongCategory = "character"
	SongChanting     SongCategory = "chanting"
	SongInstrumental SongCategory = "instrumental"
	// SongNoCategory is used when the upstream feed omits songCategory
	// entirely, which it's permitted to do.
	SongNoCategory SongCategory = "no_category"
)

// Song is a theme song, deduplicated by (name, sorted performer ids) per
// invariant 1.
type Song struct {
	SongID       ids.SongID   `db:"song_id" json:"songId"`
	Name         string       `db:"name" json:"name"`
	ArtistName   string       `db:"artist_name" json:"artistName"`
	ComposerName string       `db:"composer_name" json:"composerName"`
	ArrangerName string       `db:"arranger_name" json:"arrangerName"`
	Category     SongCategory `db:"category" json:"category"`
	LengthSecs   *float64     `db:"length_secs" json:"lengthSecs,omitempty"`
	IsDub        bool         `db:"is_dub" json:"isDub"`
	HQURL        *string      `db:"hq_url" json:"hqUrl,omitempty"`
	MQURL        *string      `db:"mq_url" json:"mqUrl,omitempty"`
	AudioURL     *string      `db:"audio_url" json:"audioUrl,omitempty"`

	PerformerIDs []ids.AnisongArtistID `json:"performerIds"`
	ComposerIDs  []ids.AnisongArtistID `json:"composerIds"`
	ArrangerIDs  []ids.AnisongArtistID `json:"arrangerIds"`
}

// Artist is a performer, composer or arranger credited on one or more
// songs. Groups and members are represented as one-hop id sets per
// invariant 3; no transitive closure is attempted.
type Artist struct {
	ArtistID  ids.AnisongArtistID   `db:"artist_id" json:"artistId"`
	Names     []string              `db:"names" json:"names"`
	LineUpID  *int32                `db:"line_up_id" json:"lineUpId,omitempty"`
	GroupIDs  []ids.AnisongArtistID `db:"group_ids" json:"groupIds"`
	MemberIDs []ids.AnisongArtistID `db:"member_ids" json:"memberIds"`
}

// StreamingArtist is the minimal artist shape the streaming feed exposes:
// just enough to drive artist matching against the catalog.
type StreamingArtist struct {
	ID   ids.SpotifyArtistID `json:"id"`
	Name string              `json:"name"`
}

// SongIndexType is the role a bind plays in an anime's theme rotation.
type SongIndexType string

const (
	SongIndexOpening SongIndexType = "opening"
	SongIndexInsert  SongIndexType = "insert"
	SongIndexEnding  SongIndexType = "ending"
)

// SongIndex is a bind's ordinal position, e.g. "Opening 2".
type SongIndex struct {
	Type   SongIndexType `db:"song_index_type" json:"type"`
	Number int32         `db:"song_index_number" json:"number"`
}

// AnimeSongBind relates one song to one anime under a role and ordinal.
// SongAnnID is the upstream feed's song identifier, distinct from the
// internal SongID invariant 1 allocates on first insert.
type AnimeSongBind struct {
	SongAnnID     ids.AnisongSongID  `db:"song_ann_id" json:"songAnnId"`
	AnimeAnnID    ids.AnisongAnimeID `db:"anime_ann_id" json:"animeAnnId"`
	SongIndex     SongIndex          `json:"songIndex"`
	Difficulty    *float64           `db:"difficulty" json:"difficulty,omitempty"`
	IsRebroadcast bool               `db:"is_rebroadcast" json:"isRebroadcast"`

	// SongID is resolved at ingest time once the corresponding Song row
	// exists; it may be nil if the song hasn't been ingested yet
	// (invariant 2 permits this as a pending state, never served).
	SongID *ids.SongID `db:"song_id" json:"songId,omitempty"`
}

// TrackLink maps a streaming-service track id to this catalog's SongID.
// Learned by the auto-bind layer or explicit user confirmation, never
// seeded.
type TrackLink struct {
	StreamingTrackID ids.SpotifyTrackID `db:"streaming_id" json:"streamingTrackId"`
	SongID           ids.SongID         `db:"song_id" json:"songId"`
	CreatedAt        time.Time          `db:"created_at" json:"createdAt"`
}

// ArtistLink maps a streaming-service artist id to this catalog's
// ArtistID.
type ArtistLink struct {
	StreamingArtistID ids.SpotifyArtistID `db:"streaming_id" json:"streamingArtistId"`
	ArtistID          ids.AnisongArtistID `db:"artist_id" json:"artistId"`
	CreatedAt         time.Time           `db:"created_at" json:"createdAt"`
}

// ReportStatus tracks an operator's triage of a user-submitted Report.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportDismissed  ReportStatus = "dismissed"
)

// Report is a user-submitted correction against a track-to-song match.
type Report struct {
	ID        int64               `db:"id" json:"id"`
	TrackID   *ids.SpotifyTrackID `db:"track_id" json:"trackId,omitempty"`
	SongAnnID *ids.AnisongSongID  `db:"song_ann_id" json:"songAnnId,omitempty"`
	Message   string              `db:"message" json:"message"`
	UserID    ids.SpotifyUserID   `db:"user_id" json:"userId"`
	Status    ReportStatus        `db:"status" json:"status"`
	CreatedAt time.Time           `db:"created_at" json:"createdAt"`
}
