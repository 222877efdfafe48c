package anisongdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
)

const (
	searchRequestURL     = "https://anisongdb.com/api/search_request"
	artistIDsRequestURL  = "https://anisongdb.com/api/artist_ids_request"
)

// Client talks to the song-database feed. Transient upstream failures
// (503/500) are swallowed and reported as an empty result set per the
// error-handling design: the cascade tier that called this continues with
// nothing rather than failing the whole request.
type Client struct {
	http *resty.Client
}

// New builds a Client with the given request timeout in seconds.
func New(timeoutSeconds int) *Client {
	return &Client{
		http: resty.New().SetTimeout(time.Duration(timeoutSeconds) * time.Second),
	}
}

// searchFilter mirrors the feed's per-field search filter block.
type searchFilter struct {
	Search           string `json:"search"`
	PartialMatch     bool   `json:"partial_match"`
	GroupGranularity *int   `json:"group_granularity,omitempty"`
	MaxOtherArtist   *int   `json:"max_other_artist,omitempty"`
	Arrangement      *bool  `json:"arrangement,omitempty"`
}

func trueP() *bool { v := true; return &v }
func intP(i int) *int { return &i }

type searchRequest struct {
	AnimeSearchFilter     *searchFilter `json:"anime_search_filter,omitempty"`
	SongNameSearchFilter  *searchFilter `json:"song_name_search_filter,omitempty"`
	ArtistSearchFilter    *searchFilter `json:"artist_search_filter,omitempty"`
	ComposerSearchFilter  *searchFilter `json:"composer_search_filter,omitempty"`
	AndLogic              bool          `json:"and_logic"`
	IgnoreDuplicate       bool          `json:"ignore_duplicate"`
	OpeningFilter         bool          `json:"opening_filter"`
	InsertFilter          bool          `json:"insert_filter"`
	EndingFilter          bool          `json:"ending_filter"`
	NormalBroadcast       bool          `json:"normal_broadcast"`
	Dub                   bool          `json:"dub"`
	Rebroadcast           bool          `json:"rebroadcast"`
	Standard              bool          `json:"standard"`
	Instrumental          bool          `json:"instrumental"`
	Chanting              bool          `json:"chanting"`
	Character             bool          `json:"character"`
}

func defaultCategoryToggles() searchRequest {
	return searchRequest{
		OpeningFilter:   true,
		InsertFilter:    true,
		EndingFilter:    true,
		NormalBroadcast: true,
		Dub:             true,
		Rebroadcast:     true,
		Standard:        true,
		Instrumental:    true,
		Chanting:        true,
		Character:       true,
	}
}

type artistIDSearchRequest struct {
	ArtistIDs         []ids.AnisongArtistID `json:"artist_ids"`
	GroupGranularity  int                   `json:"group_granularity"`
	MaxOtherArtist    int                   `json:"max_other_artist"`
	IgnoreDuplicate   bool                  `json:"ignore_duplicate"`
	OpeningFilter     bool                  `json:"opening_filter"`
	EndingFilter      bool                  `json:"ending_filter"`
	InsertFilter      bool                  `json:"insert_filter"`
	NormalBroadcast   bool                  `json:"normal_broadcast"`
	Dub               bool                  `json:"dub"`
	Rebroadcast       bool                  `json:"rebroadcast"`
	Standard          bool                  `json:"standard"`
	Instrumental      bool                  `json:"instrumental"`
	Chanting          bool                  `json:"chanting"`
	Character         bool                  `json:"character"`
}

// ArtistIDSearch returns every record for the given song-database
// artist ids, with wide other-artist tolerance (a "give me their whole
// discography" query).
func (c *Client) ArtistIDSearch(ctx context.Context, artistIDs []ids.AnisongArtistID) ([]Record, error) {
	if len(artistIDs) == 0 {
		return nil, nil
	}
	req := artistIDSearchRequest{
		ArtistIDs:        artistIDs,
		GroupGranularity: 0,
		MaxOtherArtist:   99,
		OpeningFilter:    true,
		EndingFilter:     true,
		InsertFilter:     true,
		NormalBroadcast:  true,
		Dub:              true,
		Rebroadcast:      true,
		Standard:         true,
		Instrumental:     true,
		Chanting:         true,
		Character:        true,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(artistIDsRequestURL)
	if err != nil {
		return nil, fmt.Errorf("anisongdb: artist id search request failed: %w", err)
	}
	if resp.IsSuccess() {
		return decodeRecordsTolerant(resp.Body()), nil
	}
	return handleNonSuccess(resp.StatusCode(), resp.String())
}

// FullSearch issues one search request for the song title and one per
// artist name (the feed has no combined "song OR any of these artists"
// query), fanning them out concurrently and concatenating results.
// Transient failures on any individual request are logged and treated as
// an empty contribution; the overall call never fails.
func (c *Client) FullSearch(ctx context.Context, songTitle string, artistNames []string) []Record {
	requests := make([]searchRequest, 0, len(artistNames)+1)

	base := defaultCategoryToggles()
	songFilter := &searchFilter{Search: songTitle, PartialMatch: false, GroupGranularity: intP(0), MaxOtherArtist: intP(99), Arrangement: trueP()}
	first := base
	first.SongNameSearchFilter = songFilter
	requests = append(requests, first)

	for _, name := range artistNames {
		artistFilter := &searchFilter{Search: name, PartialMatch: false, GroupGranularity: intP(0), MaxOtherArtist: intP(99), Arrangement: trueP()}
		r := base
		r.ArtistSearchFilter = artistFilter
		r.ComposerSearchFilter = artistFilter
		requests = append(requests, r)
	}

	results := make([][]Record, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			resp, err := c.http.R().
				SetContext(gctx).
				SetBody(req).
				Post(searchRequestURL)
			if err != nil {
				log.Printf("anisongdb: full search request failed: %v", err)
				return nil
			}
			if !resp.IsSuccess() {
				logNonSuccess(resp.StatusCode(), resp.String())
				return nil
			}
			results[i] = decodeRecordsTolerant(resp.Body())
			return nil
		})
	}
	g.Wait()

	var all []Record
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// AnimeSeason returns every record whose vintage matches the given
// season/year, used by the ingestion worker's periodic refresh.
func (c *Client) AnimeSeason(ctx context.Context, release models.Release) ([]Record, error) {
	vintage := fmt.Sprintf("%s %d", capitalize(string(release.Season)), release.Year)
	req := defaultCategoryToggles()
	req.AnimeSearchFilter = &searchFilter{Search: vintage, PartialMatch: false}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(searchRequestURL)
	if err != nil {
		return nil, fmt.Errorf("anisongdb: season request failed: %w", err)
	}
	if resp.IsSuccess() {
		return decodeRecordsTolerant(resp.Body()), nil
	}
	return handleNonSuccess(resp.StatusCode(), resp.String())
}

// decodeRecordsTolerant decodes a feed response as a JSON array of
// records one element at a time, dropping (and logging) any element that
// fails to unmarshal instead of failing the whole batch — a single
// malformed record from this notoriously lax feed shouldn't cost an
// entire season's worth of otherwise-good records.
func decodeRecordsTolerant(body []byte) []Record {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Printf("anisongdb: response body is not a JSON array, dropping batch: %v", err)
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, r := range raw {
		var rec Record
		if err := json.Unmarshal(r, &rec); err != nil {
			log.Printf("anisongdb: dropping malformed record: %v", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-32) + s[1:]
}

func handleNonSuccess(status int, body string) ([]Record, error) {
	switch status {
	case 500, 503:
		log.Printf("anisongdb: non-successful response status=%d body=%s", status, body)
		return nil, nil
	default:
		log.Printf("anisongdb: unrecognised non-successful response status=%d body=%s", status, body)
		return nil, nil
	}
}

func logNonSuccess(status int, body string) {
	if status == 500 || status == 503 {
		log.Printf("anisongdb: non-successful response status=%d body=%s", status, body)
		return
	}
	log.Printf("anisongdb: unrecognised non-successful response status=%d body=%s", status, body)
}
