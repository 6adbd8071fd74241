package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/client/services"
)

// Accounts prints every saved account, marking the active one.
func (a *App) Accounts(ctx context.Context) error {
	users := a.sessions.Users()
	if len(users) == 0 {
		a.printf("No saved accounts.\n")
		return nil
	}
	active, _ := a.sessions.User()
	for i, u := range users {
		marker := " "
		if u.ID == active.ID {
			marker = "*"
		}
		a.printf("%s %d) %s  id=%s\n", marker, i+1, u, u.ID)
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, ok := a.sessions.User()
	if !ok {
		a.printf("Not signed in.\n")
		return services.ErrNotAuthenticated
	}
	a.printf("%s\n  member: %d\n  contact: %s\n  signed in: %s\n",
		u, u.MemberID, u.MobileNo, u.LoginTime.Local().Format("2006-01-02 15:04"))
	return nil
}

func (a *App) Switch(ctx context.Context, arg string) error {
	u, err := a.lookupAccount(arg)
	if err == nil {
		err = a.sessions.SwitchUser(ctx, u.ID)
	}
	return a.report(err, "Switched to %s\n", u)
}

func (a *App) Remove(ctx context.Context, arg string) error {
	u, err := a.lookupAccount(arg)
	if err == nil {
		err = a.sessions.RemoveUser(ctx, u.ID)
	}
	return a.report(err, "Removed %s\n", u)
}

func (a *App) Logout(ctx context.Context) error {
	return a.report(a.sessions.Logout(ctx), "Signed out. Saved accounts are kept.\n")
}

func (a *App) LogoutCurrent(ctx context.Context) error {
	err := a.sessions.LogoutCurrentUser(ctx)
	if err != nil {
		return a.report(err, "")
	}
	if u, ok := a.sessions.User(); ok {
		a.printf("Signed out. Now using %s\n", u)
	} else {
		a.printf("Signed out.\n")
	}
	return nil
}

func (a *App) LogoutAll(ctx context.Context) error {
	return a.report(a.sessions.LogoutAllUsers(ctx), "All accounts removed.\n")
}

// lookupAccount accepts either a 1-based position from the accounts list or
// an account id.
func (a *App) lookupAccount(arg string) (models.Account, error) {
	users := a.sessions.Users()
	if arg == "" {
		return models.Account{}, errors.New("usage: <number|id>")
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(users) {
		return users[n-1], nil
	}
	if i := models.FindAccount(users, arg); i >= 0 {
		return users[i], nil
	}
	return models.Account{}, services.ErrAccountNotFound
}

func (a *App) report(err error, format string, args ...any) error {
	switch {
	case err == nil:
		a.printf(format, args...)
	case errors.Is(err, services.ErrAccountNotFound):
		a.printf("No such account. Use 'accounts' to list them.\n")
	case errors.Is(err, services.ErrNotAuthenticated):
		a.printf("Not signed in.\n")
	default:
		a.printf("Error: %s\n", err)
	}
	return err
}
