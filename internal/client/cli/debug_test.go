package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/acadex/internal/client/repositories/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebug_ShowsStateAndStorage(t *testing.T) {
	a, out := newTestApp(t, newFakeClient(), "")
	ctx := context.Background()
	require.NoError(t, a.sessions.Login(ctx, testAccount("a1", 501, "Kavin")))
	_, err := a.language.Change(ctx, "ta")
	require.NoError(t, err)
	out.Reset()

	require.NoError(t, a.Debug(ctx, ""))
	s := out.String()
	assert.Contains(t, s, "route: loading")
	assert.Contains(t, s, "state: authenticated")
	assert.Contains(t, s, "active: a1")
	assert.Contains(t, s, "  "+accounts.KeyActiveUserID+" = a1\n")
	assert.Contains(t, s, "  selectedLanguage = ta\n")

	saved := s[strings.Index(s, accounts.KeySavedUsers):]
	line := saved[:strings.Index(saved, "\n")]
	assert.True(t, strings.HasSuffix(line, "..."), line)
}

func TestDebug_ResetOnboarding(t *testing.T) {
	a, out := newTestApp(t, newFakeClient(), "")
	ctx := context.Background()
	require.NoError(t, a.onboarding.Complete(ctx))

	require.NoError(t, a.Debug(ctx, "reset-onboarding"))
	assert.False(t, a.onboarding.IsComplete(ctx))
	assert.Contains(t, out.String(), "Onboarding reset.")
}

func TestDebug_WipeRemovesEverything(t *testing.T) {
	a, out := newTestApp(t, newFakeClient(), "")
	ctx := context.Background()
	require.NoError(t, a.sessions.Login(ctx, testAccount("a1", 501, "Kavin")))
	require.NoError(t, a.onboarding.Complete(ctx))

	require.NoError(t, a.Debug(ctx, "wipe"))
	assert.Contains(t, out.String(), "All local data removed.")
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.sessions.Users())
	assert.False(t, a.onboarding.IsComplete(ctx))

	kv, err := a.storage.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, kv)
}

func TestDebug_UnknownAction(t *testing.T) {
	a, out := newTestApp(t, newFakeClient(), "")
	assert.Error(t, a.Debug(context.Background(), "explode"))
	assert.Contains(t, out.String(), "Usage: debug")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "அ...", truncate("அஆ", 1))
}
