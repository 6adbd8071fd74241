package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/acadex/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Route is the top-level flow the app mounts after start-up.
type Route int

const (
	RouteLoading Route = iota
	RouteAppShell
	RouteOnboarding
	RouteAuth
	RouteUpdateRequired
)

func (r Route) String() string {
	switch r {
	case RouteAppShell:
		return "app"
	case RouteOnboarding:
		return "onboarding"
	case RouteAuth:
		return "auth"
	case RouteUpdateRequired:
		return "update-required"
	default:
		return "loading"
	}
}

type BootstrapState struct {
	IsOnboardingComplete bool
	IsLoading            bool
	VersionCheckPassed   bool
}

// Alerter shows update prompts to the user.
type Alerter interface {
	UpdateRequired(latest string)
	UpdateAvailable(latest string)
}

type VersionCheckRunner interface {
	Check(ctx context.Context) (VersionResult, error)
}

type OnboardingChecker interface {
	IsComplete(ctx context.Context) bool
}

type SessionLoader interface {
	Load(ctx context.Context)
	State() State
}

type BootstrapConfig struct {
	VersionCheck     bool
	ReadinessTimeout time.Duration
}

// Bootstrap decides which flow to mount: the version gate runs first, then
// the onboarding flag and the saved sessions are read in parallel.
type Bootstrap struct {
	cfg        BootstrapConfig
	version    VersionCheckRunner
	onboarding OnboardingChecker
	sessions   SessionLoader
	alerter    Alerter
	log        logging.Logger

	mu    sync.Mutex
	state BootstrapState
	route Route
}

func NewBootstrap(cfg BootstrapConfig, version VersionCheckRunner, onboarding OnboardingChecker,
	sessions SessionLoader, alerter Alerter, log logging.Logger) *Bootstrap {
	return &Bootstrap{
		cfg:        cfg,
		version:    version,
		onboarding: onboarding,
		sessions:   sessions,
		alerter:    alerter,
		log:        log,
		state:      BootstrapState{IsLoading: true},
	}
}

func (b *Bootstrap) State() BootstrapState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bootstrap) Route() Route {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.route
}

// Run resolves the route. Only cancellation of ctx is reported as an error;
// slow or failing checks fall back to not onboarded and logged out.
func (b *Bootstrap) Run(ctx context.Context) (Route, error) {
	if !b.checkVersion(ctx) {
		b.finish(RouteUpdateRequired, false)
		return RouteUpdateRequired, nil
	}
	b.mu.Lock()
	b.state.VersionCheckPassed = true
	b.mu.Unlock()

	var onboarded, authenticated bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		onboarded = within(gctx, b.cfg.ReadinessTimeout, b.onboarding.IsComplete, false)
		return ctx.Err()
	})
	g.Go(func() error {
		authenticated = within(gctx, b.cfg.ReadinessTimeout, func(ctx context.Context) bool {
			b.sessions.Load(ctx)
			return b.sessions.State() == Authenticated
		}, false)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return RouteLoading, err
	}

	route := RouteAuth
	switch {
	case authenticated:
		route = RouteAppShell
	case !onboarded:
		route = RouteOnboarding
	}
	b.finish(route, onboarded)
	b.log.Info(ctx, "bootstrap finished", "route", route, "onboarded", onboarded, "authenticated", authenticated)
	return route, nil
}

// checkVersion reports whether start-up may continue.
func (b *Bootstrap) checkVersion(ctx context.Context) bool {
	if !b.cfg.VersionCheck || b.version == nil {
		return true
	}
	res, err := b.version.Check(ctx)
	if err != nil {
		b.log.Warn(ctx, "version check failed", "error", err)
	}
	switch {
	case res.Forced:
		if b.alerter != nil {
			b.alerter.UpdateRequired(res.Latest)
		}
		return false
	case res.NeedsUpdate:
		if b.alerter != nil {
			b.alerter.UpdateAvailable(res.Latest)
		}
	}
	return true
}

func (b *Bootstrap) finish(route Route, onboarded bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.route = route
	b.state.IsOnboardingComplete = onboarded
	b.state.IsLoading = false
}

// within runs fn with a deadline of d and returns fallback if fn has not
// returned by then. A non-positive d means no deadline.
func within[T any](ctx context.Context, d time.Duration, fn func(context.Context) T, fallback T) T {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	done := make(chan T, 1)
	go func() { done <- fn(ctx) }()

	select {
	case v := <-done:
		return v
	case <-ctx.Done():
		select {
		case v := <-done:
			return v
		default:
			return fallback
		}
	}
}
