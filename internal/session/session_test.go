package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/fitinghof/whatanime-go/internal/ids"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	return r
}

// doRequest performs req against r and carries any Set-Cookie header
// forward onto the next request, emulating a browser's cookie jar across
// the login -> callback -> update flow.
func doRequest(r *gin.Engine, method, path string, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, w.Result().Cookies()
}

func TestStateRoundTripsAcrossRequests(t *testing.T) {
	r := newTestRouter()
	r.GET("/set", func(c *gin.Context) {
		if err := InsertState(c, "abc123"); err != nil {
			c.String(http.StatusInternalServerError, "%v", err)
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/take", func(c *gin.Context) {
		state, err := TakeState(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "%v", err)
			return
		}
		c.String(http.StatusOK, state)
	})

	_, cookies := doRequest(r, "GET", "/set", nil)
	w, cookies := doRequest(r, "GET", "/take", cookies)
	if w.Body.String() != "abc123" {
		t.Fatalf("expected stored state back, got %q", w.Body.String())
	}

	w, _ = doRequest(r, "GET", "/take", cookies)
	if w.Body.String() != "" {
		t.Fatalf("expected state to be cleared after being taken, got %q", w.Body.String())
	}
}

func TestTokenRoundTripsAcrossRequests(t *testing.T) {
	r := newTestRouter()
	r.GET("/login", func(c *gin.Context) {
		tok := &oauth2.Token{AccessToken: "at", RefreshToken: "rt"}
		if err := InsertToken(c, tok); err != nil {
			c.String(http.StatusInternalServerError, "%v", err)
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/check", func(c *gin.Context) {
		tok, err := Token(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "%v", err)
			return
		}
		if tok == nil {
			c.String(http.StatusOK, "none")
			return
		}
		c.String(http.StatusOK, tok.AccessToken)
	})

	_, cookies := doRequest(r, "GET", "/login", nil)
	w, _ := doRequest(r, "GET", "/check", cookies)
	if w.Body.String() != "at" {
		t.Fatalf("expected persisted access token, got %q", w.Body.String())
	}
}

func TestTokenIsNilBeforeLogin(t *testing.T) {
	r := newTestRouter()
	r.GET("/check", func(c *gin.Context) {
		tok, err := Token(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "%v", err)
			return
		}
		if tok == nil {
			c.String(http.StatusOK, "none")
			return
		}
		c.String(http.StatusOK, tok.AccessToken)
	})

	w, _ := doRequest(r, "GET", "/check", nil)
	if w.Body.String() != "none" {
		t.Fatalf("expected no token before login, got %q", w.Body.String())
	}
}

func TestPrevPlayedDefaultsEmpty(t *testing.T) {
	r := newTestRouter()
	r.GET("/prev", func(c *gin.Context) {
		c.String(http.StatusOK, string(PrevPlayed(c)))
	})

	w, _ := doRequest(r, "GET", "/prev", nil)
	if w.Body.String() != "" {
		t.Fatalf("expected empty prev_played by default, got %q", w.Body.String())
	}
}

func TestInsertPrevPlayedPersists(t *testing.T) {
	r := newTestRouter()
	r.GET("/set", func(c *gin.Context) {
		if err := InsertPrevPlayed(c, ids.SpotifyTrackID("track1")); err != nil {
			c.String(http.StatusInternalServerError, "%v", err)
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/get", func(c *gin.Context) {
		c.String(http.StatusOK, string(PrevPlayed(c)))
	})

	_, cookies := doRequest(r, "GET", "/set", nil)
	w, _ := doRequest(r, "GET", "/get", cookies)
	if w.Body.String() != "track1" {
		t.Fatalf("expected track1, got %q", w.Body.String())
	}
}
