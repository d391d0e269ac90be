package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/recetario/internal/client/client"
	"github.com/dmitrijs2005/recetario/internal/client/config"
	"github.com/dmitrijs2005/recetario/internal/client/media"
	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recetario/internal/client/search"
	"github.com/dmitrijs2005/recetario/internal/client/services"
	"github.com/dmitrijs2005/recetario/internal/filex"
	"github.com/dmitrijs2005/recetario/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	log    logging.Logger

	authService   services.AuthService
	recipeService services.RecipeService
	courseService services.CourseService

	session  *services.SessionStore
	creds    *services.CredentialStore
	modified *services.ModifiedRecipes
	search   *search.Controller[models.RecipeSummary]

	closers []func() error

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	mode   Mode
}

// NewApp wires storage, the REST client and the services described by c.
// Nothing is read from storage until Run.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	repo, closeRepo, err := openStorage(ctx, c)
	if err != nil {
		log.Error(ctx, "error initializing storage", "backend", c.StorageBackend, "error", err)
		return nil, err
	}

	a := &App{
		config:  c,
		log:     log,
		closers: []func() error{closeRepo},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	// The session store is the token source, and the client is the
	// session store's student checker.
	var session *services.SessionStore
	apiClient, err := client.NewHTTPClient(c.BaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
		client.WithTokenSource(client.TokenFunc(func() string { return session.Token() })),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	session = services.NewSessionStore(repo, apiClient, services.WithSessionLogger(log))

	var uploader services.MediaUploader
	if c.MediaEnabled() {
		s3cfg := media.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			PublicURL: c.S3PublicURL,
		}
		s3c, err := media.NewS3Client(ctx, s3cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("media: %w", err)
		}
		uploader = media.NewS3Uploader(s3c, s3cfg, log)
	}

	a.session = session
	a.creds = services.NewCredentialStore(repo, log)
	a.modified = services.NewModifiedRecipes(repo, log)
	a.authService = services.NewAuthService(apiClient, session, a.creds, log)
	a.recipeService = services.NewRecipeService(apiClient, session, uploader, log)
	a.courseService = services.NewCourseService(apiClient, session)
	a.search = search.NewController[models.RecipeSummary](a.recipeService.Search,
		search.WithTextDebounce(c.TextDebounce),
		search.WithChipDebounce(c.ChipDebounce),
		search.WithPageSize(c.PageSize),
		search.WithLogger(log),
		search.WithOnChange(a.searchChanged),
	)

	return a, nil
}

// openStorage opens the device key-value store selected by the backend
// setting and returns it with its close function.
func openStorage(ctx context.Context, c *config.Config) (metadata.Repository, func() error, error) {
	switch c.StorageBackend {
	case config.StorageRedis:
		rdb, err := metadata.NewRedisClient(ctx, c.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return metadata.NewRedisRepository(rdb, c.RedisPrefix), rdb.Close, nil

	case config.StorageMemory:
		return metadata.NewMemoryRepository(), func() error { return nil }, nil

	default:
		dir, err := filex.EnsureDir(c.DataDir)
		if err != nil {
			return nil, nil, err
		}
		db, err := client.InitDatabase(ctx, filepath.Join(dir, c.DatabaseFile))
		if err != nil {
			return nil, nil, err
		}
		return metadata.NewSQLiteRepository(db), db.Close, nil
	}
}

// Load restores what the device remembers: the session, saved credentials
// and modified recipes. A store that cannot be read is logged and skipped so
// the app still starts.
func (a *App) Load(ctx context.Context) {
	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session not restored", "error", err)
	}
	if err := a.creds.Load(ctx); err != nil {
		a.log.Warn(ctx, "saved credentials not loaded", "error", err)
	}
	if err := a.modified.Load(ctx); err != nil {
		a.log.Warn(ctx, "modified recipes not loaded", "error", err)
	}
}

// Run loads device state and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Load(ctx)
	a.Root(ctx)
}

// Close stops background work and releases storage. It is safe to call more
// than once.
func (a *App) Close() error {
	if a.search != nil {
		a.search.Close()
		a.search.Wait()
	}
	if a.session != nil {
		a.session.Wait()
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.IsAuthenticated()
}

func (a *App) getMode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// setMode records the connectivity mode and reports whether it changed.
func (a *App) setMode(mode Mode) bool {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	return true
}

// checkOnline pings the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(ctx)
	cancel()

	mode := ModeOnline
	if err != nil {
		mode = ModeOffline
	}
	if a.setMode(mode) {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
