// Package prefs keeps the small device preferences that live next to the
// saved accounts: the onboarding flag, the UI language and the outcome of
// the last version check.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/metadata"
)

const (
	KeyOnboardingCompleted = "@onboarding_completed"
	KeyLanguage            = "selectedLanguage"
	KeyVersionInfo         = "app_version_info"
	KeyLastVersionCheck    = "last_version_check"
)

type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// OnboardingCompleted reports whether the flag holds exactly "true".
func (s *Store) OnboardingCompleted(ctx context.Context) (bool, error) {
	v, err := s.repo.Get(ctx, KeyOnboardingCompleted)
	if err != nil {
		return false, err
	}
	return string(v) == "true", nil
}

func (s *Store) SetOnboardingCompleted(ctx context.Context) error {
	return s.repo.Set(ctx, KeyOnboardingCompleted, []byte("true"))
}

func (s *Store) ResetOnboarding(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyOnboardingCompleted)
}

// Language returns the saved language code, or "" when none was chosen.
func (s *Store) Language(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, KeyLanguage)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *Store) SetLanguage(ctx context.Context, code string) error {
	return s.repo.Set(ctx, KeyLanguage, []byte(code))
}

// VersionInfo returns the stored check outcome; nil means no check ran yet.
func (s *Store) VersionInfo(ctx context.Context) (*models.VersionInfo, error) {
	v, err := s.repo.Get(ctx, KeyVersionInfo)
	if err != nil || len(v) == 0 {
		return nil, err
	}
	var info models.VersionInfo
	if err := json.Unmarshal(v, &info); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyVersionInfo, err)
	}
	return &info, nil
}

func (s *Store) SetVersionInfo(ctx context.Context, info models.VersionInfo) error {
	b, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyVersionInfo, err)
	}
	return s.repo.Set(ctx, KeyVersionInfo, b)
}

// LastVersionCheck returns the time of the last completed check; ok is false
// when no check was recorded.
func (s *Store) LastVersionCheck(ctx context.Context) (at time.Time, ok bool, err error) {
	v, err := s.repo.Get(ctx, KeyLastVersionCheck)
	if err != nil || len(v) == 0 {
		return time.Time{}, false, err
	}
	at, err = time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode %s: %w", KeyLastVersionCheck, err)
	}
	return at, true, nil
}

func (s *Store) SetLastVersionCheck(ctx context.Context, at time.Time) error {
	return s.repo.Set(ctx, KeyLastVersionCheck, []byte(at.UTC().Format(time.RFC3339)))
}
