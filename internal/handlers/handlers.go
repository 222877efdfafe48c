// Package handlers wires the HTTP surface (§6) to the session, streaming
// client, and cascade resolver: login/callback, the poll endpoint, and
// the two write-back endpoints a logged-in user can trigger.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitinghof/whatanime-go/internal/cascade"
	"github.com/fitinghof/whatanime-go/internal/ids"
	"github.com/fitinghof/whatanime-go/internal/models"
	"github.com/fitinghof/whatanime-go/internal/session"
	"github.com/fitinghof/whatanime-go/internal/spotifyclient"
)

// Store is the persistence surface the handlers need beyond the cascade
// resolver itself: the two explicit user-write-back endpoints.
type Store interface {
	cascade.Store
	ConfirmTrack(ctx context.Context, songID ids.SongID, trackID ids.SpotifyTrackID) error
	SubmitReport(ctx context.Context, report models.Report) error
}

type Handler struct {
	store       Store
	enricher    cascade.Enricher
	spotify     *spotifyclient.Client
	frontendURL string
}

func New(store Store, enricher cascade.Enricher, spotify *spotifyclient.Client, frontendURL string) *Handler {
	return &Handler{store: store, enricher: enricher, spotify: spotify, frontendURL: frontendURL}
}

// Login redirects the browser to the streaming service's OAuth authorize
// URL, remembering an anti-CSRF state value in the session for Callback
// to verify.
func (h *Handler) Login(c *gin.Context) {
	state, loginURL, err := h.spotify.GenerateLoginLink()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}
	if err := session.InsertState(c, state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist session"})
		return
	}
	c.Redirect(http.StatusFound, loginURL)
}

// Callback verifies the OAuth state, exchanges the authorization code for
// a token, stores it in the session, and redirects to the front end.
func (h *Handler) Callback(c *gin.Context) {
	wantState, err := session.TakeState(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session"})
		return
	}
	gotState := c.Query("state")
	if wantState == "" || gotState != wantState {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	token, err := h.spotify.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code exchange failed"})
		return
	}
	if err := session.InsertToken(c, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist session"})
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL)
}

// Update is the poll endpoint: §4.3's cascade, gated by a valid session
// and short-circuited when the currently-playing track hasn't changed
// since the caller's last poll (unless refresh=true is passed).
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	token, err := session.Token(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session"})
		return
	}
	if token == nil {
		c.JSON(http.StatusOK, cascade.Update{Kind: cascade.KindLoginRequired})
		return
	}

	token, err = h.spotify.Refreshed(ctx, token)
	if err != nil {
		c.JSON(http.StatusOK, cascade.Update{Kind: cascade.KindLoginRequired})
		return
	}
	if err := session.InsertToken(c, token); err != nil {
		log.Printf("handlers: failed to persist refreshed token: %v", err)
	}

	track, err := h.spotify.CurrentlyPlaying(ctx, token)
	if err != nil {
		c.JSON(http.StatusOK, cascade.Update{Kind: cascade.KindUnauthorized})
		return
	}
	if track == nil {
		c.JSON(http.StatusOK, cascade.Update{Kind: cascade.KindNotPlaying})
		return
	}

	refresh := c.Query("refresh") == "true"
	if !refresh && session.PrevPlayed(c) == track.ID {
		c.JSON(http.StatusOK, cascade.Update{Kind: cascade.KindNoUpdates})
		return
	}

	update, err := cascade.Resolve(ctx, h.store, h.enricher, *track)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolution failed"})
		return
	}

	if err := session.InsertPrevPlayed(c, track.ID); err != nil {
		log.Printf("handlers: failed to persist prev_played: %v", err)
	}

	c.JSON(http.StatusOK, update)
}

type confirmAnimeRequest struct {
	SongID        int32  `json:"song_id" binding:"required"`
	SpotifySongID string `json:"spotify_song_id" binding:"required"`
}

// ConfirmAnime writes an explicit user confirmation as a TrackLink.
func (h *Handler) ConfirmAnime(c *gin.Context) {
	if err := requireSession(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req confirmAnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.store.ConfirmTrack(c.Request.Context(), ids.SongID(req.SongID), ids.SpotifyTrackID(req.SpotifySongID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": true})
}

type reportRequest struct {
	TrackID   *string `json:"track_id"`
	AnnSongID *int32  `json:"ann_song_id"`
	Message   string  `json:"message" binding:"required"`
}

// Report stores a user-submitted correction, attributed to the caller's
// streaming-account identity.
func (h *Handler) Report(c *gin.Context) {
	if err := requireSession(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := session.Token(c)
	if err != nil || token == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	userID, _, err := h.spotify.CurrentUser(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	report := models.Report{
		Message: req.Message,
		UserID:  userID,
		Status:  models.ReportPending,
	}
	if req.TrackID != nil {
		trackID := ids.SpotifyTrackID(*req.TrackID)
		report.TrackID = &trackID
	}
	if req.AnnSongID != nil {
		songAnnID := ids.AnisongSongID(*req.AnnSongID)
		report.SongAnnID = &songAnnID
	}

	if err := h.store.SubmitReport(c.Request.Context(), report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submitted": true})
}

func requireSession(c *gin.Context) error {
	token, err := session.Token(c)
	if err != nil {
		return err
	}
	if token == nil {
		return errors.New("login required")
	}
	return nil
}
