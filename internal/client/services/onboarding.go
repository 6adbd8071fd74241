package services

import (
	"context"

	"github.com/dmitrijs2005/acadex/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/acadex/internal/logging"
)

// OnboardingService tracks whether the intro screens were completed on this
// device.
type OnboardingService struct {
	prefs *prefs.Store
	log   logging.Logger
}

func NewOnboardingService(p *prefs.Store, log logging.Logger) *OnboardingService {
	return &OnboardingService{prefs: p, log: log}
}

// IsComplete treats read errors as not completed.
func (s *OnboardingService) IsComplete(ctx context.Context) bool {
	done, err := s.prefs.OnboardingCompleted(ctx)
	if err != nil {
		s.log.Warn(ctx, "reading onboarding flag failed", "error", err)
		return false
	}
	return done
}

func (s *OnboardingService) Complete(ctx context.Context) error {
	return s.prefs.SetOnboardingCompleted(ctx)
}

func (s *OnboardingService) Reset(ctx context.Context) error {
	return s.prefs.ResetOnboarding(ctx)
}
