// Package anilist is the client for the anime-metadata graph feed: a
// single GraphQL endpoint returning studios, tags, trailers and other
// enrichment data keyed by Anilist anime id.
package anilist

import (
	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
)

// MediaTitle carries the three title variants the graph exposes; only
// used while decoding, the caller picks whichever it needs.
type MediaTitle struct {
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

// CoverImage mirrors the feed's nested coverImage object.
type CoverImage struct {
	Color      *string `json:"color"`
	Medium     *string `json:"medium"`
	Large      *string `json:"large"`
	ExtraLarge *string `json:"extraLarge"`
}

func (c CoverImage) ToModel() models.CoverImage {
	return models.CoverImage{
		Color:      c.Color,
		Medium:     c.Medium,
		Large:      c.Large,
		ExtraLarge: c.ExtraLarge,
	}
}

// Studio is one node of a media's studio connection.
type Studio struct {
	ID      int32   `json:"id"`
	Name    string  `json:"name"`
	SiteURL *string `json:"siteUrl"`
}

func (s Studio) ToModel() models.Studio {
	return models.Studio{ID: s.ID, Name: s.Name, SiteURL: s.SiteURL}
}

// StudioConnection wraps the "nodes" edge the feed actually returns;
// pageInfo and edges are not requested.
type StudioConnection struct {
	Nodes []Studio `json:"nodes"`
}

// MediaTag is one genre/theme tag node.
type MediaTag struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

func (t MediaTag) ToModel() models.Tag {
	return models.Tag{ID: t.ID, Name: t.Name}
}

// MediaTrailer is the single trailer object the feed returns per anime,
// when one exists.
type MediaTrailer struct {
	ID        string `json:"id"`
	Site      string `json:"site"`
	Thumbnail string `json:"thumbnail"`
}

func (t MediaTrailer) ToModel() models.Trailer {
	return models.Trailer{ID: t.ID, Site: t.Site, Thumbnail: t.Thumbnail}
}

// Media is a single anime enrichment record as returned by the graph feed.
type Media struct {
	ID         ids.AnilistAnimeID `json:"id"`
	MeanScore  *int32             `json:"meanScore"`
	BannerImage *string           `json:"bannerImage"`
	CoverImage CoverImage         `json:"coverImage"`
	Format     *string            `json:"format"`
	Genres     []string           `json:"genres"`
	Source     *string            `json:"source"`
	Studios    StudioConnection   `json:"studios"`
	Tags       []MediaTag         `json:"tags"`
	Trailer    *MediaTrailer      `json:"trailer"`
	Episodes   *int32             `json:"episodes"`
	Season     *string            `json:"season"`
	SeasonYear *int32             `json:"seasonYear"`
}

// ToModel applies the enrichment fields of a Media onto a copy of anime,
// leaving every field the graph feed didn't return untouched. It does not
// set AnnID, EngName, JpnName or any field owned by the song-database
// feed; Combine is responsible for merging the two sources.
func (m Media) ToModel(anime models.Anime) models.Anime {
	anime.MeanScore = m.MeanScore
	anime.BannerImage = m.BannerImage
	anime.CoverImage = m.CoverImage.ToModel()
	if m.Format != nil {
		f := models.MediaFormat(*m.Format)
		anime.Format = &f
	}
	anime.Genres = m.Genres
	if m.Source != nil {
		s := models.MediaSource(*m.Source)
		anime.Source = &s
	}
	studios := make([]models.Studio, len(m.Studios.Nodes))
	for i, s := range m.Studios.Nodes {
		studios[i] = s.ToModel()
	}
	anime.Studios = studios
	tags := make([]models.Tag, len(m.Tags))
	for i, t := range m.Tags {
		tags[i] = t.ToModel()
	}
	anime.Tags = tags
	if m.Trailer != nil {
		tr := m.Trailer.ToModel()
		anime.Trailer = &tr
	}
	anime.Episodes = m.Episodes
	if m.Season != nil {
		s := models.ReleaseSeason(*m.Season)
		anime.Season = &s
	}
	anime.SeasonYear = m.SeasonYear
	return anime
}
