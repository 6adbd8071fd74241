package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/acadex/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/acadex/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVersion struct {
	res   VersionResult
	err   error
	calls int
}

func (f *fakeVersion) Check(ctx context.Context) (VersionResult, error) {
	f.calls++
	return f.res, f.err
}

type fakeOnboarding struct {
	done  bool
	delay time.Duration
}

func (f *fakeOnboarding) IsComplete(ctx context.Context) bool {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return false
		}
	}
	return f.done
}

type fakeSessions struct {
	state State
	delay time.Duration
	loads int
}

func (f *fakeSessions) Load(ctx context.Context) {
	f.loads++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeSessions) State() State { return f.state }

type fakeAlerter struct {
	required  []string
	available []string
}

func (a *fakeAlerter) UpdateRequired(latest string)  { a.required = append(a.required, latest) }
func (a *fakeAlerter) UpdateAvailable(latest string) { a.available = append(a.available, latest) }

func TestBootstrap_Routes(t *testing.T) {
	tests := []struct {
		name      string
		onboarded bool
		state     State
		want      Route
	}{
		{"authenticated wins", false, Authenticated, RouteAppShell},
		{"first run", false, Unauthenticated, RouteOnboarding},
		{"onboarded but logged out", true, Unauthenticated, RouteAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBootstrap(BootstrapConfig{ReadinessTimeout: time.Second}, nil,
				&fakeOnboarding{done: tt.onboarded}, &fakeSessions{state: tt.state}, nil, logging.Nop())

			assert.True(t, b.State().IsLoading)

			route, err := b.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, route)
			assert.Equal(t, tt.want, b.Route())
			assert.Equal(t, BootstrapState{
				IsOnboardingComplete: tt.onboarded,
				VersionCheckPassed:   true,
			}, b.State())
		})
	}
}

func TestBootstrap_VersionCheckDisabledIsSkipped(t *testing.T) {
	v := &fakeVersion{res: VersionResult{Forced: true}}
	b := NewBootstrap(BootstrapConfig{}, v, &fakeOnboarding{done: true}, &fakeSessions{}, &fakeAlerter{}, logging.Nop())

	route, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteAuth, route)
	assert.Equal(t, 0, v.calls)
}

func TestBootstrap_ForcedUpdateHalts(t *testing.T) {
	v := &fakeVersion{res: VersionResult{Latest: "2.0.0", NeedsUpdate: true, Forced: true}}
	sessions := &fakeSessions{state: Authenticated}
	alerter := &fakeAlerter{}
	b := NewBootstrap(BootstrapConfig{VersionCheck: true}, v, &fakeOnboarding{}, sessions, alerter, logging.Nop())

	route, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteUpdateRequired, route)
	assert.Equal(t, []string{"2.0.0"}, alerter.required)
	assert.Equal(t, 0, sessions.loads)
	assert.False(t, b.State().VersionCheckPassed)
	assert.False(t, b.State().IsLoading)
}

func TestBootstrap_OptionalUpdateContinues(t *testing.T) {
	v := &fakeVersion{res: VersionResult{Latest: "1.1.0", NeedsUpdate: true}}
	alerter := &fakeAlerter{}
	b := NewBootstrap(BootstrapConfig{VersionCheck: true}, v, &fakeOnboarding{done: true},
		&fakeSessions{state: Authenticated}, alerter, logging.Nop())

	route, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteAppShell, route)
	assert.Equal(t, []string{"1.1.0"}, alerter.available)
	assert.Empty(t, alerter.required)
	assert.True(t, b.State().VersionCheckPassed)
}

func TestBootstrap_VersionCheckErrorContinues(t *testing.T) {
	v := &fakeVersion{err: context.DeadlineExceeded}
	b := NewBootstrap(BootstrapConfig{VersionCheck: true}, v, &fakeOnboarding{done: true},
		&fakeSessions{}, &fakeAlerter{}, logging.Nop())

	route, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteAuth, route)
}

func TestBootstrap_SlowSignalsFallBack(t *testing.T) {
	onboarding := &fakeOnboarding{done: true, delay: time.Second}
	sessions := &fakeSessions{state: Authenticated, delay: 200 * time.Millisecond}
	b := NewBootstrap(BootstrapConfig{ReadinessTimeout: 20 * time.Millisecond}, nil,
		onboarding, sessions, nil, logging.Nop())

	start := time.Now()
	route, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, RouteOnboarding, route)
	assert.False(t, b.State().IsOnboardingComplete)
}

func TestBootstrap_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBootstrap(BootstrapConfig{ReadinessTimeout: time.Second}, nil,
		&fakeOnboarding{}, &fakeSessions{}, nil, logging.Nop())
	_, err := b.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, b.State().IsLoading)
}

func TestBootstrap_WithRealSessions(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	seed := NewSessionManager(accounts.NewSQLiteStore(db, logging.Nop()), logging.Nop())
	seed.Load(ctx)
	require.NoError(t, seed.Login(ctx, account("a", 501, "INST01")))

	sessions := NewSessionManager(accounts.NewSQLiteStore(db, logging.Nop()), logging.Nop())
	onboarding := NewOnboardingService(newPrefs(t), logging.Nop())
	b := NewBootstrap(BootstrapConfig{ReadinessTimeout: time.Second}, nil, onboarding, sessions, nil, logging.Nop())

	route, err := b.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteAppShell, route)
	assert.False(t, sessions.Loading())
}

func TestBootstrap_LateSessionLoadDoesNotLogIn(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	seed := NewSessionManager(accounts.NewSQLiteStore(db, logging.Nop()), logging.Nop())
	seed.Load(ctx)
	require.NoError(t, seed.Login(ctx, account("a", 501, "INST01")))

	store := &slowStore{Store: accounts.NewSQLiteStore(db, logging.Nop()), Delay: 100 * time.Millisecond}
	sessions := NewSessionManager(store, logging.Nop())
	onboarding := &fakeOnboarding{done: true}
	b := NewBootstrap(BootstrapConfig{ReadinessTimeout: 20 * time.Millisecond}, nil, onboarding, sessions, nil, logging.Nop())

	route, err := b.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteAuth, route)

	require.Eventually(t, func() bool { return !sessions.Loading() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Unauthenticated, sessions.State())
	assert.Equal(t, []string{"a"}, ids(sessions.Users()))
}
