package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/acadex/internal/client/client"
	"github.com/dmitrijs2005/acadex/internal/client/config"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/acadex/internal/client/services"
	"github.com/dmitrijs2005/acadex/internal/filex"
	"github.com/dmitrijs2005/acadex/internal/logging"
	"github.com/dmitrijs2005/acadex/internal/metrics"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config     *config.Config
	log        logging.Logger
	client     client.Client
	db         *sql.DB
	storage    metadata.Repository
	sessions   *services.SessionManager
	resolver   *services.Resolver
	onboarding *services.OnboardingService
	language   *services.LanguageService
	bootstrap  *services.Bootstrap
	reader     *bufio.Reader
	out        io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database, connects the REST client and wires the
// session services around them.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, rec metrics.Recorder) (*App, error) {
	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", dbPath, "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.BaseURL, c.RequestTimeout,
		client.WithLogger(log.With("component", "api")),
		client.WithRateLimit(c.RequestsPerSecond, 1),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	storage := metadata.NewSQLiteRepository(db)
	p := prefs.NewStore(storage)
	a := &App{
		config:     c,
		log:        log,
		client:     apiClient,
		db:         db,
		storage:    storage,
		onboarding: services.NewOnboardingService(p, log),
		language:   services.NewLanguageService(p, log),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}

	a.resolver = services.NewResolver(apiClient, log.With("component", "resolver"), services.WithResolverMetrics(rec))
	a.sessions = services.NewSessionManager(accounts.NewSQLiteStore(db, log), log.With("component", "sessions"),
		services.WithSessionMetrics(rec),
		services.WithDraftResetter(a.resolver),
	)

	checker := services.NewVersionChecker(services.VersionConfig{
		Current:  c.CurrentVersion,
		Minimum:  c.MinimumVersion,
		Interval: c.VersionCheckInterval,
	}, &services.HTTPVersionSource{
		URL:    c.LatestVersionURL,
		Client: &http.Client{Timeout: c.RequestTimeout},
	}, p, log)

	a.bootstrap = services.NewBootstrap(services.BootstrapConfig{
		VersionCheck:     c.VersionCheck,
		ReadinessTimeout: c.ReadinessTimeout,
	}, checker, a.onboarding, a.sessions, a, log)

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

// Run blocks until the REPL ends. The caller closes the App.
func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.State() == services.Authenticated
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// UpdateRequired and UpdateAvailable make App the bootstrap's Alerter.
func (a *App) UpdateRequired(latest string) {
	a.printf("Update required: please install the latest version (%s) to continue using Acadex.\n", versionLabel(latest))
}

func (a *App) UpdateAvailable(latest string) {
	a.printf("A new version (%s) is available.\n", versionLabel(latest))
}

func versionLabel(v string) string {
	if v == "" {
		return "latest"
	}
	return v
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.client.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
