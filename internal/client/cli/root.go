package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/acadex/internal/client/services"
)

func (a *App) getStatus() string {
	s := ""
	if u, ok := a.sessions.User(); ok {
		s = fmt.Sprintf("%s@%s ", u.MemberName, u.InstitutionCode)
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs startup, reports where the user landed and then serves commands
// until the input ends. A required update stops here.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to Acadex CLI (type 'help' for commands)\n")

	route, err := a.bootstrap.Run(ctx)
	if err != nil {
		a.log.Error(ctx, "startup failed", "error", err)
		return
	}

	switch route {
	case services.RouteUpdateRequired:
		return
	case services.RouteOnboarding:
		a.printf("First run. Type 'onboarding' to get started.\n")
	case services.RouteAuth:
		a.printf("Type 'login' to sign in.\n")
	case services.RouteAppShell:
		if u, ok := a.sessions.User(); ok {
			a.printf("Welcome back, %s\n", u)
		}
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if !isTerminal() {
		promptFn = func(string) {}
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
