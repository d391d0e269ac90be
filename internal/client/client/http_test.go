package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestServer(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(srv.URL+"/api/", opts...)
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPClient("api/v1")
	require.Error(t, err)
}

func TestDo_JoinsPathAndSendsHeaders(t *testing.T) {
	var got http.Header
	var gotQuery url.Values
	var gotBody map[string]any

	srv := newTestServer(t, func(r *gin.Engine) {
		r.POST("/api/recipe/:id/rating", func(c *gin.Context) {
			got = c.Request.Header.Clone()
			gotQuery = c.Request.URL.Query()
			require.NoError(t, c.ShouldBindJSON(&gotBody))
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	})
	c := newTestClient(t, srv, WithTokenSource(staticToken("session-token")))

	p, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "recipe/7/rating",
		Query:  url.Values{"a": {"1"}},
		Body:   map[string]int{"puntuacion": 4},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"ok": true}, p.Value())
	assert.Equal(t, "Bearer session-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	_, err = uuid.Parse(got.Get(common.RequestIDHeaderName))
	assert.NoError(t, err)
	assert.Equal(t, "1", gotQuery.Get("a"))
	assert.Equal(t, float64(4), gotBody["puntuacion"])
}

func TestDo_ExplicitTokenWinsAndNoBodyNoContentType(t *testing.T) {
	var got http.Header
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/student/:id", func(c *gin.Context) {
			got = c.Request.Header.Clone()
			c.Status(http.StatusNoContent)
		})
	})
	c := newTestClient(t, srv, WithTokenSource(staticToken("stale")))

	p, err := c.Do(context.Background(), Request{Path: "student/u1", Token: "fresh"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer fresh", got.Get("Authorization"))
	assert.Empty(t, got.Get("Content-Type"))
	assert.True(t, p.IsEmpty(), "empty body reads as {}")
	assert.Equal(t, map[string]any{}, p.Value())
}

func TestDo_NoTokenNoAuthorizationHeader(t *testing.T) {
	var got http.Header
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/ping", func(c *gin.Context) {
			got = c.Request.Header.Clone()
			c.String(http.StatusOK, "pong")
		})
	})
	c := newTestClient(t, srv)

	p, err := c.Do(context.Background(), Request{Path: "ping"})
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
	assert.True(t, p.IsText())
	assert.Equal(t, "pong", p.Text())

	var v map[string]any
	var perr *ParseError
	require.ErrorAs(t, p.Decode(&v), &perr)
}

func TestDo_ErrorMessages(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/json-message", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "alias already taken"})
		})
		r.GET("/api/json-error", func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate"})
		})
		r.GET("/api/text", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "boom")
		})
		r.GET("/api/empty", func(c *gin.Context) {
			c.Status(http.StatusBadGateway)
		})
		r.GET("/api/unrelated", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"code": 12})
		})
	})
	c := newTestClient(t, srv)

	tests := []struct {
		path   string
		status int
		msg    string
	}{
		{"json-message", http.StatusBadRequest, "alias already taken"},
		{"json-error", http.StatusConflict, "duplicate"},
		{"text", http.StatusInternalServerError, "boom"},
		{"empty", http.StatusBadGateway, "fallback"},
		{"unrelated", http.StatusBadRequest, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := c.Do(context.Background(), Request{Path: tt.path, DefaultMessage: "fallback"})
			var re *RequestError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.status, re.Status)
			assert.Equal(t, tt.msg, re.Message)
		})
	}
}

func TestDo_LongTextMessageKeepsRunesWhole(t *testing.T) {
	// 199 ASCII bytes then "ñ" straddles the cut
	body := strings.Repeat("x", maxTextMessage-1) + "ñandú"
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/long", func(c *gin.Context) { c.String(http.StatusBadRequest, body) })
	})
	c := newTestClient(t, srv)

	_, err := c.Do(context.Background(), Request{Path: "long"})
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.True(t, utf8.ValidString(re.Message))
	assert.Equal(t, strings.Repeat("x", maxTextMessage-1), re.Message)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "receta", truncateText("receta", 10))
	assert.Equal(t, "pa", truncateText("paña", 3))
	assert.Equal(t, "pañ", truncateText("paña", 4))
	assert.Equal(t, "", truncateText("ñ", 1))
}

func TestDo_StatusTextWhenNoDefault(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })
	})
	c := newTestClient(t, srv)

	_, err := c.Do(context.Background(), Request{Path: "x"})
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), re.Message)
}

func TestDo_ErrorsMatchSentinels(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/401", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })
		r.GET("/api/403", func(c *gin.Context) { c.Status(http.StatusForbidden) })
		r.GET("/api/404", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	})
	c := newTestClient(t, srv)
	ctx := context.Background()

	_, err := c.Do(ctx, Request{Path: "401"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Do(ctx, Request{Path: "403"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Do(ctx, Request{Path: "404"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewHTTPClient(base)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Path: "ping"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestDo_CanceledContextReturnsContextError(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/slow", func(c *gin.Context) {
			select {
			case <-release:
			case <-c.Request.Context().Done():
			}
			c.Status(http.StatusOK)
		})
	})
	defer close(release)
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Do(ctx, Request{Path: "slow"})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestDo_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/slow", func(c *gin.Context) {
			select {
			case <-release:
			case <-c.Request.Context().Done():
			}
		})
	})
	defer close(release)
	c := newTestClient(t, srv, WithTimeout(30*time.Millisecond))

	_, err := c.Do(context.Background(), Request{Path: "slow"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_PlainTextAndEmptyBodies(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/text", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		r.GET("/api/empty", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	})
	c := newTestClient(t, srv, WithHTTPClient(srv.Client()))

	p, err := c.Do(context.Background(), Request{Path: "text"})
	require.NoError(t, err)
	assert.True(t, p.IsText())
	assert.Equal(t, "pong", p.Text())
	assert.Equal(t, []byte("pong"), p.Raw())

	var v map[string]any
	var perr *ParseError
	require.ErrorAs(t, p.Decode(&v), &perr)

	p, err = c.Do(context.Background(), Request{Path: "empty"})
	require.NoError(t, err)
	assert.False(t, p.IsText())
	assert.Equal(t, []byte("{}"), p.Raw())
	assert.Equal(t, map[string]any{}, p.Value())
}

func TestNewHTTPClient_TimeoutIndependentOfOptionOrder(t *testing.T) {
	custom := &http.Client{Timeout: time.Minute}

	c, err := NewHTTPClient("http://localhost/api/", WithTimeout(5*time.Second), WithHTTPClient(custom))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.http.Timeout)

	c, err = NewHTTPClient("http://localhost/api/", WithHTTPClient(custom), WithTimeout(0))
	require.NoError(t, err)
	assert.Zero(t, c.http.Timeout)

	assert.Equal(t, time.Minute, custom.Timeout, "caller's client is left alone")

	c, err = NewHTTPClient("http://localhost/api/", WithHTTPClient(custom))
	require.NoError(t, err)
	assert.Same(t, custom, c.http)

	c, err = NewHTTPClient("http://localhost/api/")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}
