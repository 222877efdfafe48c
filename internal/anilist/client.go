package anilist

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fitinghof/whatanime-go/internal/ids"
)

const endpoint = "https://graphql.anilist.co"

const perPage = 50

// Client is a thin wrapper around the graph feed's single GraphQL
// endpoint.
type Client struct {
	http *resty.Client
}

func New(timeoutSeconds int) *Client {
	return &Client{http: resty.New().SetTimeout(time.Duration(timeoutSeconds) * time.Second)}
}

type pageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

type mediaPage struct {
	PageInfo *pageInfo `json:"pageInfo"`
	Media    []Media   `json:"media"`
}

type pageData struct {
	Page mediaPage `json:"Page"`
}

type graphqlResponse struct {
	Data pageData `json:"data"`
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// FetchOne fetches a single anime's enrichment record, or nil if the feed
// has nothing for that id.
func (c *Client) FetchOne(ctx context.Context, id ids.AnilistAnimeID) (*Media, error) {
	media, err := c.FetchMany(ctx, []ids.AnilistAnimeID{id})
	if err != nil {
		return nil, err
	}
	if len(media) == 0 {
		return nil, nil
	}
	return &media[0], nil
}

// FetchMany fetches enrichment records for every id given, paginating at
// 50 per page until the feed reports no further page. The feed is a
// single shared endpoint with no per-id lookup, so batching beyond ~50 ids
// in one call is discouraged upstream; callers doing bulk ingestion should
// chunk themselves and pace between chunks.
func (c *Client) FetchMany(ctx context.Context, animeIDs []ids.AnilistAnimeID) ([]Media, error) {
	if len(animeIDs) == 0 {
		return nil, nil
	}
	if len(animeIDs) > perPage {
		log.Printf("anilist: fetching %d ids in one call, more than %d risks repeated immediate pagination", len(animeIDs), perPage)
	}

	var all []Media
	page := 1
	for {
		req := graphqlRequest{
			Query: queryString,
			Variables: map[string]any{
				"ids":     animeIDs,
				"isMain":  false,
				"page":    page,
				"perPage": perPage,
			},
		}

		var parsed graphqlResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(req).
			SetResult(&parsed).
			Post(endpoint)
		if err != nil {
			return nil, fmt.Errorf("anilist: request failed: %w", err)
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("anilist: non-successful response status=%d body=%s", resp.StatusCode(), resp.String())
		}

		all = append(all, parsed.Data.Page.Media...)

		if parsed.Data.Page.PageInfo == nil || !parsed.Data.Page.PageInfo.HasNextPage {
			break
		}
		page++
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}
