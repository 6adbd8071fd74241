package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingService(t *testing.T) {
	log, _ := testLogger()
	s := NewOnboardingService(newPrefs(t), log)
	ctx := context.Background()

	assert.False(t, s.IsComplete(ctx))
	require.NoError(t, s.Complete(ctx))
	assert.True(t, s.IsComplete(ctx))
	require.NoError(t, s.Reset(ctx))
	assert.False(t, s.IsComplete(ctx))
}

func TestOnboardingService_ReadErrorMeansIncomplete(t *testing.T) {
	log, buf := testLogger()
	p := newPrefs(t)
	s := NewOnboardingService(p, log)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, s.IsComplete(ctx))
	assert.Contains(t, buf.String(), "reading onboarding flag failed")
}

func TestLanguageService(t *testing.T) {
	log, _ := testLogger()
	s := NewLanguageService(newPrefs(t), log)
	ctx := context.Background()

	assert.Equal(t, "en", s.Current(ctx).Code)
	assert.Len(t, s.Available(), 2)

	l, err := s.Change(ctx, "ta")
	require.NoError(t, err)
	assert.Equal(t, "Tamil", l.Name)
	assert.Equal(t, "ta", s.Current(ctx).Code)

	_, err = s.Change(ctx, "fr")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "ta", s.Current(ctx).Code)
}
