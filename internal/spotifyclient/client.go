// Package spotifyclient wraps the streaming platform's currently-playing
// and OAuth endpoints behind the shapes the rest of the catalog needs.
package spotifyclient

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/fitinghof/whatanime-go/internal/cascade"
	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
)

// Client issues the OAuth handshake and the currently-playing poll,
// ceiled at a static requests/sec rate so a burst of concurrent pollers
// can't run this catalog over the streaming service's own API quota.
type Client struct {
	auth    *spotifyauth.Authenticator
	limiter *rate.Limiter
}

// New builds a Client whose Refreshed, CurrentUser and CurrentlyPlaying
// calls share one limiter of requestsPerSecond calls per second; Exchange
// is not rate-limited.
func New(clientID, clientSecret, redirectURI string, requestsPerSecond float64) *Client {
	return &Client{
		auth: spotifyauth.New(
			spotifyauth.WithClientID(clientID),
			spotifyauth.WithClientSecret(clientSecret),
			spotifyauth.WithRedirectURL(redirectURI),
			spotifyauth.WithScopes(
				spotifyauth.ScopeUserReadPrivate,
				spotifyauth.ScopeUserReadEmail,
				spotifyauth.ScopeUserReadPlaybackState,
				spotifyauth.ScopeUserReadCurrentlyPlaying,
			),
		),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// GenerateLoginLink mints a random anti-CSRF state value and the
// authorization URL the caller should redirect the browser to, with that
// state embedded. The caller is responsible for remembering state (in the
// session) and checking it against the callback's state parameter.
func (c *Client) GenerateLoginLink() (state string, loginURL string, err error) {
	state, err = randomState()
	if err != nil {
		return "", "", err
	}
	return state, c.auth.AuthURL(state), nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("spotifyclient: generating login state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Exchange trades an authorization code for a token. Callers must verify
// the callback's state parameter against the one GenerateLoginLink
// returned before calling this.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.auth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("spotifyclient: code exchange failed: %w", err)
	}
	return token, nil
}

// Refreshed returns token as-is if still valid, or a freshly refreshed
// token obtained via its refresh token. The session layer persists
// whatever this returns back into the cookie, since the refresh token
// itself may rotate.
func (c *Client) Refreshed(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("spotifyclient: rate limit wait: %w", err)
	}
	fresh, err := c.auth.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("spotifyclient: refreshing token: %w", err)
	}
	return fresh, nil
}

func (c *Client) httpClientFor(ctx context.Context, token *oauth2.Token) *spotify.Client {
	return spotify.New(c.auth.Client(ctx, token))
}

// CurrentUser fetches the display name and id of the account owning
// token, used to attribute submitted reports.
func (c *Client) CurrentUser(ctx context.Context, token *oauth2.Token) (ids.SpotifyUserID, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", "", fmt.Errorf("spotifyclient: rate limit wait: %w", err)
	}
	user, err := c.httpClientFor(ctx, token).CurrentUser(ctx)
	if err != nil {
		return "", "", fmt.Errorf("spotifyclient: fetching current user: %w", err)
	}
	return ids.SpotifyUserID(user.ID), user.DisplayName, nil
}

// CurrentlyPlaying polls the player endpoint and reduces the result to
// what the cascade needs: a track (with artists), or a signal that
// nothing streamable is currently playing (silence, a paused player, or a
// podcast episode — this catalog only ever matches music tracks).
func (c *Client) CurrentlyPlaying(ctx context.Context, token *oauth2.Token) (*cascade.CurrentTrack, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("spotifyclient: rate limit wait: %w", err)
	}
	current, err := c.httpClientFor(ctx, token).PlayerCurrentlyPlaying(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotifyclient: fetching currently-playing: %w", err)
	}
	if current == nil || current.Item == nil || !current.Playing {
		return nil, nil
	}

	track := current.Item
	artists := make([]models.StreamingArtist, len(track.Artists))
	for i, a := range track.Artists {
		artists[i] = models.StreamingArtist{ID: ids.SpotifyArtistID(a.ID), Name: a.Name}
	}

	return &cascade.CurrentTrack{
		ID:      ids.SpotifyTrackID(track.ID),
		Name:    track.Name,
		Artists: artists,
	}, nil
}
