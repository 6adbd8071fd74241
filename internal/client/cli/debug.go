package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

const maxDebugValue = 60

// Debug shows startup and auth state plus every stored key. With
// "reset-onboarding" it clears the onboarding flag; with "wipe" it removes
// every saved account and all device preferences.
func (a *App) Debug(ctx context.Context, arg string) error {
	switch arg {
	case "":
		return a.debugInfo(ctx)
	case "reset-onboarding":
		if err := a.onboarding.Reset(ctx); err != nil {
			a.printf("Error: %s\n", err)
			return err
		}
		a.printf("Onboarding reset. It will show on next start.\n")
		return nil
	case "wipe":
		if err := a.sessions.LogoutAllUsers(ctx); err != nil {
			return a.report(err, "")
		}
		if err := a.storage.Clear(ctx); err != nil {
			a.printf("Error: %s\n", err)
			return err
		}
		a.log.Warn(ctx, "local storage wiped")
		a.printf("All local data removed.\n")
		return nil
	default:
		err := fmt.Errorf("unknown debug action %q", arg)
		a.printf("Usage: debug [reset-onboarding|wipe]\n")
		return err
	}
}

func (a *App) debugInfo(ctx context.Context) error {
	st := a.bootstrap.State()
	a.printf("Startup:\n  route: %s\n  isLoading: %t\n  isOnboardingComplete: %t\n  versionCheckPassed: %t\n",
		a.bootstrap.Route(), st.IsLoading, st.IsOnboardingComplete, st.VersionCheckPassed)

	snap := a.sessions.Snapshot()
	active := "N/A"
	if snap.Active != nil {
		active = snap.Active.ID
	}
	a.printf("Auth:\n  state: %s\n  accounts: %d\n  active: %s\n",
		snap.State(), len(snap.Accounts), active)

	kv, err := a.storage.List(ctx)
	if err != nil {
		a.printf("Error: %s\n", err)
		return err
	}
	a.printf("Storage:\n")
	for _, k := range slices.Sorted(maps.Keys(kv)) {
		a.printf("  %s = %s\n", k, truncate(string(kv[k]), maxDebugValue))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
