// Package anisongdb is the client for the upstream song-database feed: a
// third-party catalog of anime theme songs and the binds tying them to
// anime. The feed is notoriously lax about types (booleans as 0/1, ids as
// either JSON number or numeric string, category typos). Artist ids,
// external cross-reference ids and the dub/rebroadcast flags decode
// through the tolerant LooseInt/LooseBool types, and the song category
// through a lenient string match; the anime and song ann ids decode as
// plain JSON numbers.
package anisongdb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
)

// LooseInt decodes a JSON number or a numeric string into an int64.
type LooseInt int64

func (l *LooseInt) UnmarshalJSON(b []byte) error {
	var asNumber int64
	if err := json.Unmarshal(b, &asNumber); err == nil {
		*l = LooseInt(asNumber)
		return nil
	}
	var asString string
	if err := json.Unmarshal(b, &asString); err != nil {
		return fmt.Errorf("anisongdb: cannot decode %s as int or numeric string", b)
	}
	asString = strings.TrimSpace(asString)
	if asString == "" {
		*l = 0
		return nil
	}
	n, err := strconv.ParseInt(asString, 10, 64)
	if err != nil {
		return fmt.Errorf("anisongdb: cannot parse %q as int: %w", asString, err)
	}
	*l = LooseInt(n)
	return nil
}

// LooseBool decodes a JSON bool, or 0/1 (number or string), into a bool.
type LooseBool bool

func (l *LooseBool) UnmarshalJSON(b []byte) error {
	var asBool bool
	if err := json.Unmarshal(b, &asBool); err == nil {
		*l = LooseBool(asBool)
		return nil
	}
	var asNumber float64
	if err := json.Unmarshal(b, &asNumber); err == nil {
		*l = LooseBool(asNumber != 0)
		return nil
	}
	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		*l = LooseBool(asString == "1" || strings.EqualFold(asString, "true"))
		return nil
	}
	return fmt.Errorf("anisongdb: cannot decode %s as bool", b)
}

// Artist is the feed's artist shape: a name list plus, at one hop,
// embedded group/member artist records.
type Artist struct {
	ID       LooseInt `json:"id"`
	Names    []string `json:"names"`
	LineUpID *int32   `json:"lineUpId"`
	Groups   []Artist `json:"groups"`
	Members  []Artist `json:"members"`
}

// ArtistID converts the feed's loosely-typed id to the catalog's nominal
// artist id type.
func (a Artist) ArtistID() ids.AnisongArtistID {
	return ids.AnisongArtistID(a.ID)
}

// ToModel flattens Artist to the one-hop id-list shape the catalog
// stores (Artist.group_ids, Artist.member_ids), dropping nested
// sub-groups per invariant 3.
func (a Artist) ToModel() models.Artist {
	groupIDs := make([]ids.AnisongArtistID, len(a.Groups))
	for i, g := range a.Groups {
		groupIDs[i] = g.ArtistID()
	}
	memberIDs := make([]ids.AnisongArtistID, len(a.Members))
	for i, m := range a.Members {
		memberIDs[i] = m.ArtistID()
	}
	return models.Artist{
		ArtistID:  a.ArtistID(),
		Names:     a.Names,
		LineUpID:  a.LineUpID,
		GroupIDs:  groupIDs,
		MemberIDs: memberIDs,
	}
}

// AnimeListLinks is the feed's external cross-reference block.
type AnimeListLinks struct {
	MyAnimeList *LooseInt `json:"myanimelist"`
	AniDB       *LooseInt `json:"anidb"`
	Anilist     *LooseInt `json:"anilist"`
	Kitsu       *LooseInt `json:"kitsu"`
}

func (l AnimeListLinks) ToModel() models.AnimeExternalLinks {
	cvt := func(v *LooseInt) *int32 {
		if v == nil {
			return nil
		}
		n := int32(*v)
		return &n
	}
	return models.AnimeExternalLinks{
		MyAnimeList: cvt(l.MyAnimeList),
		AniDB:       cvt(l.AniDB),
		Anilist:     cvt(l.Anilist),
		Kitsu:       cvt(l.Kitsu),
	}
}

// Anime is the feed's per-record anime block.
type Anime struct {
	AnnID       ids.AnisongAnimeID `json:"annId"`
	EngName     string             `json:"animeENName"`
	JpnName     string             `json:"animeJPName"`
	AltName     []string           `json:"animeAltName"`
	Vintage     *string            `json:"animeVintage"`
	LinkedIDs   AnimeListLinks     `json:"linked_ids"`
	AnimeType   *string            `json:"animeType"`
	AnimeIndex  string             `json:"animeCategory"`
}

// ParsedAnimeIndex splits the feed's free-text "animeCategory" field
// ("TV 2", "Movie", "OVA 3.5") into a type and a fractional ordinal; a
// fractional part above .1 marks the "second half" of a split entry.
func (a Anime) ParsedAnimeIndex() models.AnimeIndex {
	typeWord, numberPart := splitTrailingNumber(a.AnimeIndex)
	number := 1.0
	if numberPart != "" {
		if n, err := strconv.ParseFloat(numberPart, 64); err == nil {
			number = n
		}
	}
	part := int16(1)
	if number-float64(int32(number)) > 0.1 {
		part = 2
	}
	return models.AnimeIndex{
		Type:   animeIndexTypeFromString(typeWord),
		Number: int32(number),
		Part:   part,
	}
}

func animeIndexTypeFromString(s string) models.AnimeIndexType {
	switch s {
	case "TV", "Season":
		return models.AnimeIndexSeason
	case "Movie":
		return models.AnimeIndexMovie
	case "ONA":
		return models.AnimeIndexONA
	case "OVA":
		return models.AnimeIndexOVA
	case "TV Special":
		return models.AnimeIndexTVSpecial
	case "Special":
		return models.AnimeIndexSpecial
	case "Music Video":
		return models.AnimeIndexMusicVideo
	default:
		return models.AnimeIndexUnknown
	}
}

// splitTrailingNumber splits "TV 2" into ("TV", "2"); a string with no
// trailing numeric token returns it unsplit with an empty second value.
func splitTrailingNumber(s string) (string, string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s, ""
	}
	last := words[len(words)-1]
	if _, err := strconv.ParseFloat(last, 64); err == nil {
		return strings.Join(words[:len(words)-1], " "), last
	}
	return s, ""
}

func animeTypeFromString(s *string) *models.AnimeType {
	if s == nil {
		return nil
	}
	var t models.AnimeType
	switch strings.ToLower(*s) {
	case "tv":
		t = models.AnimeTypeTV
	case "movie":
		t = models.AnimeTypeMovie
	case "ova":
		t = models.AnimeTypeOVA
	case "ona":
		t = models.AnimeTypeONA
	case "special":
		t = models.AnimeTypeSpecial
	default:
		t = models.AnimeTypeUnknown
	}
	return &t
}

// ToModel converts the feed's Anime block into a partial models.Anime (no
// anime-graph enrichment yet — see internal/adapter.Combine).
func (a Anime) ToModel() models.Anime {
	alt := a.AltName
	if alt == nil {
		alt = []string{}
	}
	return models.Anime{
		AnnID:       a.AnnID,
		EngName:     a.EngName,
		JpnName:     a.JpnName,
		AltNames:    alt,
		Vintage:     parseVintage(a.Vintage),
		ExternalIDs: a.LinkedIDs.ToModel(),
		AnimeType:   animeTypeFromString(a.AnimeType),
		AnimeIndex:  a.ParsedAnimeIndex(),
		Genres:      []string{},
	}
}

// parseVintage parses the feed's free-text vintage string ("Spring 2021")
// into a Release; unparsable or absent vintage yields nil.
func parseVintage(v *string) *models.Release {
	if v == nil {
		return nil
	}
	fields := strings.Fields(*v)
	if len(fields) != 2 {
		return nil
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil
	}
	var season models.ReleaseSeason
	switch strings.ToLower(fields[0]) {
	case "winter":
		season = models.SeasonWinter
	case "spring":
		season = models.SeasonSpring
	case "summer":
		season = models.SeasonSummer
	case "fall":
		season = models.SeasonFall
	default:
		return nil
	}
	return &models.Release{Season: season, Year: int32(year)}
}

// Song is the feed's per-record song block.
type Song struct {
	AnnSongID    ids.AnisongSongID `json:"annSongId"`
	Name         string            `json:"songName"`
	ArtistName   string            `json:"songArtist"`
	ComposerName string            `json:"songComposer"`
	ArrangerName string            `json:"songArranger"`
	Category     *string           `json:"songCategory"`
	Length       *float64          `json:"songLength"`
	IsDub        LooseBool         `json:"is_dub"`
	HQ           *string           `json:"HQ"`
	MQ           *string           `json:"MQ"`
	Audio        *string           `json:"audio"`
	Performers   []Artist          `json:"artists"`
	Composers    []Artist          `json:"composers"`
	Arrangers    []Artist          `json:"arrangers"`
}

func songCategoryFromString(s *string) models.SongCategory {
	if s == nil {
		return models.SongNoCategory
	}
	switch strings.ToLower(*s) {
	case "standard":
		return models.SongStandard
	case "character":
		return models.SongCharacter
	case "chanting":
		return models.SongChanting
	case "instrumental", "isntrumental":
		return models.SongInstrumental
	default:
		return models.SongNoCategory
	}
}

// Bind is the feed's per-record bind block, relating the song to the
// anime under a role and ordinal.
type Bind struct {
	SongAnnID     ids.AnisongSongID  `json:"annSongId"`
	AnimeAnnID    ids.AnisongAnimeID `json:"annId"`
	Difficulty    *float64           `json:"songDifficulty"`
	SongType      string             `json:"songType"`
	IsRebroadcast LooseBool          `json:"isRebroadcast"`
}

// ParsedSongIndex splits the feed's free-text "songType" ("Opening 2",
// "Insert Song", "Ending") into a role and ordinal.
func (b Bind) ParsedSongIndex() models.SongIndex {
	typeWord, numberPart := splitTrailingNumber(b.SongType)
	var t models.SongIndexType
	switch typeWord {
	case "Opening":
		t = models.SongIndexOpening
	case "Insert Song", "Insert":
		t = models.SongIndexInsert
	case "Ending":
		t = models.SongIndexEnding
	default:
		t = models.SongIndexOpening
	}
	number := int64(0)
	if t != models.SongIndexInsert {
		number = 1
	}
	if numberPart != "" {
		if n, err := strconv.ParseInt(strings.TrimSuffix(numberPart, ".0"), 10, 32); err == nil {
			number = n
		}
	}
	return models.SongIndex{Type: t, Number: int32(number)}
}

// ToModel converts the feed's Bind block into a models.AnimeSongBind
// (SongID unset: it's resolved once the corresponding Song row exists).
func (b Bind) ToModel() models.AnimeSongBind {
	return models.AnimeSongBind{
		SongAnnID:     b.SongAnnID,
		AnimeAnnID:    b.AnimeAnnID,
		SongIndex:     b.ParsedSongIndex(),
		Difficulty:    b.Difficulty,
		IsRebroadcast: bool(b.IsRebroadcast),
	}
}

// ToModel converts the feed's Song block into a models.Song (SongID
// unset: invariant-1 deduplication and id allocation happens in the
// catalog store on insert).
func (s Song) ToModel() models.Song {
	idsOf := func(artists []Artist) []ids.AnisongArtistID {
		out := make([]ids.AnisongArtistID, len(artists))
		for i, a := range artists {
			out[i] = a.ArtistID()
		}
		return out
	}
	return models.Song{
		Name:         s.Name,
		ArtistName:   s.ArtistName,
		ComposerName: s.ComposerName,
		ArrangerName: s.ArrangerName,
		Category:     songCategoryFromString(s.Category),
		LengthSecs:   s.Length,
		IsDub:        bool(s.IsDub),
		HQURL:        s.HQ,
		MQURL:        s.MQ,
		AudioURL:     s.Audio,
		PerformerIDs: idsOf(s.Performers),
		ComposerIDs:  idsOf(s.Composers),
		ArrangerIDs:  idsOf(s.Arrangers),
	}
}

// Artists flattens this song's performers, composers and arrangers into a
// single deduplicated list of models.Artist (first occurrence of each id
// wins), mirroring the song-database feed's embedded-artist shape the
// catalog's own Artist table needs decomposed out of the song record.
func (s Song) Artists() []models.Artist {
	seen := make(map[ids.AnisongArtistID]bool)
	out := make([]models.Artist, 0, len(s.Performers)+len(s.Composers)+len(s.Arrangers))
	add := func(list []Artist) {
		for _, a := range list {
			id := a.ArtistID()
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, a.ToModel())
		}
	}
	add(s.Performers)
	add(s.Composers)
	add(s.Arrangers)
	return out
}

// Record is one row of the feed's response: an anime, a song, and the
// bind relating them (the feed's flat per-record wire shape).
type Record struct {
	Anime Anime
	Song  Song
	Bind  Bind
}

// UnmarshalJSON reconstructs Record from the feed's single flattened JSON
// object (the three blocks share no field names except the join keys).
func (r *Record) UnmarshalJSON(b []byte) error {
	var anime Anime
	var song Song
	var bindFields struct {
		Difficulty    *float64  `json:"songDifficulty"`
		SongType      string    `json:"songType"`
		IsRebroadcast LooseBool `json:"isRebroadcast"`
	}
	if err := json.Unmarshal(b, &anime); err != nil {
		return fmt.Errorf("anisongdb: decoding anime block: %w", err)
	}
	if err := json.Unmarshal(b, &song); err != nil {
		return fmt.Errorf("anisongdb: decoding song block: %w", err)
	}
	if err := json.Unmarshal(b, &bindFields); err != nil {
		return fmt.Errorf("anisongdb: decoding bind block: %w", err)
	}
	r.Anime = anime
	r.Song = song
	r.Bind = Bind{
		SongAnnID:     song.AnnSongID,
		AnimeAnnID:    anime.AnnID,
		Difficulty:    bindFields.Difficulty,
		SongType:      bindFields.SongType,
		IsRebroadcast: bindFields.IsRebroadcast,
	}
	return nil
}
