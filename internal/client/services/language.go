package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/acadex/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/acadex/internal/logging"
)

const DefaultLanguage = "en"

type Language struct {
	Code string
	Name string
}

var availableLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "ta", Name: "Tamil"},
}

type LanguageService struct {
	prefs *prefs.Store
	log   logging.Logger
}

func NewLanguageService(p *prefs.Store, log logging.Logger) *LanguageService {
	return &LanguageService{prefs: p, log: log}
}

func (s *LanguageService) Available() []Language {
	return slices.Clone(availableLanguages)
}

// Current returns the saved language, falling back to English when nothing
// usable is stored.
func (s *LanguageService) Current(ctx context.Context) Language {
	code, err := s.prefs.Language(ctx)
	if err != nil {
		s.log.Warn(ctx, "reading language failed", "error", err)
	}
	if l, ok := lookupLanguage(code); ok {
		return l
	}
	l, _ := lookupLanguage(DefaultLanguage)
	return l
}

func (s *LanguageService) Change(ctx context.Context, code string) (Language, error) {
	l, ok := lookupLanguage(code)
	if !ok {
		return Language{}, newValidationError("language", "unsupported language "+code)
	}
	if err := s.prefs.SetLanguage(ctx, l.Code); err != nil {
		return Language{}, err
	}
	return l, nil
}

func lookupLanguage(code string) (Language, bool) {
	i := slices.IndexFunc(availableLanguages, func(l Language) bool { return l.Code == code })
	if i < 0 {
		return Language{}, false
	}
	return availableLanguages[i], true
}
