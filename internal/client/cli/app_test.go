package cli

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/recetario/internal/client/config"
	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp builds a real App on memory storage against a gin fake server.
// ping and student/:id are always served; routes adds the rest. input feeds
// the prompts.
func newTestApp(t *testing.T, routes func(r *gin.Engine), input string) *App {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/student/:id", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	if routes != nil {
		routes(r)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = srv.URL + "/api/"
	cfg.StorageBackend = config.StorageMemory
	cfg.TextDebounce = 10 * time.Millisecond
	cfg.ChipDebounce = 5 * time.Millisecond
	cfg.PageSize = 2
	cfg.OnlineCheckInterval = 0

	a, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	a.reader = bufio.NewReader(strings.NewReader(input))
	a.out = io.Discard
	a.Load(context.Background())
	return a
}

// logIn opens a session directly, skipping the login prompts.
func logIn(t *testing.T, a *App) {
	t.Helper()
	require.NoError(t, a.session.Login(context.Background(), models.LoginData{
		Token:     "tok",
		UserID:    "u1",
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Diaz",
	}))
	a.session.Wait()
}

// stubPassword makes getPassword return pw and counts the calls.
func stubPassword(t *testing.T, pw string) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) {
		calls.Add(1)
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
	return &calls
}

func TestNewApp_SQLiteBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.OnlineCheckInterval = 0

	a, err := NewApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	a.Load(context.Background())
	assert.False(t, a.isLoggedIn())
	require.NoError(t, a.Close())

	_, err = os.Stat(cfg.DatabasePath())
	require.NoError(t, err, "database file is created")
}

func TestNewApp_RejectsRelativeBaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageBackend = config.StorageMemory
	cfg.BaseURL = "api/"

	_, err := NewApp(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestGetStatus(t *testing.T) {
	a := &App{}
	assert.Equal(t, "", a.getStatus())

	a.setMode(ModeOffline)
	assert.Equal(t, "(offline)", a.getStatus())

	a = newTestApp(t, nil, "")
	logIn(t, a)
	a.setMode(ModeOnline)
	assert.Equal(t, "(Ana Diaz online)", a.getStatus())
}

func TestSetMode_ReportsChange(t *testing.T) {
	a := &App{}
	assert.True(t, a.setMode(ModeOnline))
	assert.False(t, a.setMode(ModeOnline))
	assert.Equal(t, ModeOnline, a.getMode())
	assert.True(t, a.setMode(ModeOffline))
	assert.Equal(t, ModeOffline, a.getMode())
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	a := newTestApp(t, nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.getMode() == ModeOnline }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestCheckOnline_OfflineWhenServerDown(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageBackend = config.StorageMemory
	cfg.BaseURL = "http://127.0.0.1:1/api/"

	a, err := NewApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	a.setMode(ModeOnline)
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, a.getMode())
}
