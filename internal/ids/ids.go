// Package ids holds the nominal identifier types that keep the catalog's
// different ID spaces (internal, AniList, Spotify) from being mixed up at
// compile time.
package ids

import "fmt"

// AnimeID is this catalog's own primary key for an anime entry.
type AnimeID int32

// SongID is this catalog's own primary key for a theme song entry.
type SongID int32

// ArtistID is this catalog's own primary key for an artist entry.
type ArtistID int32

// AnilistAnimeID identifies an anime in the AniList graph.
type AnilistAnimeID int32

// AnisongAnimeID identifies an anime in the song-database feed, distinct
// from AnilistAnimeID: the two feeds are merge-joined by AnilistAnimeID, the
// only ID space both sides share.
type AnisongAnimeID int32

// AnisongSongID identifies a song row in the song-database feed.
type AnisongSongID int32

// AnisongArtistID identifies an artist row in the song-database feed.
type AnisongArtistID int32

// SpotifyTrackID is a Spotify track identifier, opaque outside of Spotify.
type SpotifyTrackID string

// SpotifyArtistID is a Spotify artist identifier.
type SpotifyArtistID string

// SpotifyUserID identifies the logged-in streaming-session user.
type SpotifyUserID string

// ReportID is this catalog's own primary key for a submitted report.
type ReportID int64

func (i SpotifyTrackID) String() string  { return string(i) }
func (i SpotifyArtistID) String() string { return string(i) }
func (i SpotifyUserID) String() string   { return string(i) }

func (i AnimeID) String() string         { return fmt.Sprintf("%d", int32(i)) }
func (i SongID) String() string          { return fmt.Sprintf("%d", int32(i)) }
func (i ArtistID) String() string        { return fmt.Sprintf("%d", int32(i)) }
func (i AnilistAnimeID) String() string  { return fmt.Sprintf("%d", int32(i)) }
func (i AnisongAnimeID) String() string  { return fmt.Sprintf("%d", int32(i)) }
func (i AnisongArtistID) String() string { return fmt.Sprintf("%d", int32(i)) }
func (i ReportID) String() string        { return fmt.Sprintf("%d", int64(i)) }
