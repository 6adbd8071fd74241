package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/acadex/internal/client/services"
)

func (a *App) Roles(ctx context.Context) error {
	roles, err := a.resolver.FetchRoles(ctx)
	if err != nil {
		a.printf("Could not load roles: %s\n", describeError(err))
		return err
	}
	for _, r := range roles {
		a.printf("  %d) %s\n", r.RoleID, r.RoleName)
	}
	return nil
}

func (a *App) CompleteOnboarding(ctx context.Context) error {
	if err := a.onboarding.Complete(ctx); err != nil {
		a.printf("Error: %s\n", err)
		return err
	}
	a.printf("Welcome to Acadex! Type 'login' to add your first account.\n")
	return nil
}

// Language prints the current and available languages, or switches to the
// one named by code.
func (a *App) Language(ctx context.Context, code string) error {
	if code == "" {
		cur := a.language.Current(ctx)
		for _, l := range a.language.Available() {
			marker := " "
			if l.Code == cur.Code {
				marker = "*"
			}
			a.printf("%s %s  %s\n", marker, l.Code, l.Name)
		}
		return nil
	}

	l, err := a.language.Change(ctx, code)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			a.printf("Unsupported language %q.\n", code)
		} else {
			a.printf("Error: %s\n", err)
		}
		return err
	}
	a.printf("Language set to %s.\n", l.Name)
	return nil
}
