// Package session wraps the cookie session store with the handful of
// typed operations the handlers need: the OAuth anti-CSRF state, the
// stored token (returned as stored; it is not refreshed here), and the last track id
// seen so a repeated poll of the same track is a no-op.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/fitinghof/whatanime-go/internal/ids"
)

const (
	keyState      = "state"
	keyToken      = "token"
	keyPrevPlayed = "prev_played"
)

// InsertState stores the OAuth anti-CSRF state value pending the
// callback redirect.
func InsertState(c *gin.Context, state string) error {
	s := sessions.Default(c)
	s.Set(keyState, state)
	return s.Save()
}

// TakeState returns and clears the pending OAuth state, or "" if none was
// set (a callback arriving with no corresponding login attempt).
func TakeState(c *gin.Context) (string, error) {
	s := sessions.Default(c)
	v, _ := s.Get(keyState).(string)
	s.Delete(keyState)
	if err := s.Save(); err != nil {
		return "", fmt.Errorf("session: clearing state: %w", err)
	}
	return v, nil
}

// InsertToken persists an OAuth token for the session.
func InsertToken(c *gin.Context, token *oauth2.Token) error {
	encoded, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("session: encoding token: %w", err)
	}
	s := sessions.Default(c)
	s.Set(keyToken, string(encoded))
	return s.Save()
}

// Token returns the session's stored token, or nil if the session has
// never logged in.
func Token(c *gin.Context) (*oauth2.Token, error) {
	s := sessions.Default(c)
	raw, ok := s.Get(keyToken).(string)
	if !ok || raw == "" {
		return nil, nil
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, fmt.Errorf("session: decoding token: %w", err)
	}
	return &token, nil
}

// InsertPrevPlayed records the track id last reported to the caller, so a
// subsequent poll for the same still-playing track can short-circuit.
func InsertPrevPlayed(c *gin.Context, trackID ids.SpotifyTrackID) error {
	s := sessions.Default(c)
	s.Set(keyPrevPlayed, string(trackID))
	return s.Save()
}

// PrevPlayed returns the last recorded track id, or "" if none is set.
func PrevPlayed(c *gin.Context) ids.SpotifyTrackID {
	s := sessions.Default(c)
	v, _ := s.Get(keyPrevPlayed).(string)
	return ids.SpotifyTrackID(v)
}
