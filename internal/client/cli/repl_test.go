package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) record(name, arg string) error {
	f.calls = append(f.calls, name)
	if arg != "" {
		f.args = append(f.args, arg)
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", "")
}
func (f *fakeExec) Roles(ctx context.Context) error    { return f.record("roles", "") }
func (f *fakeExec) Accounts(ctx context.Context) error { return f.record("accounts", "") }
func (f *fakeExec) WhoAmI(ctx context.Context) error   { return f.record("whoami", "") }
func (f *fakeExec) Switch(ctx context.Context, arg string) error {
	return f.record("switch", arg)
}
func (f *fakeExec) Remove(ctx context.Context, arg string) error {
	return f.record("remove", arg)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", "")
}
func (f *fakeExec) LogoutCurrent(ctx context.Context) error { return f.record("logout-current", "") }
func (f *fakeExec) LogoutAll(ctx context.Context) error     { return f.record("logout-all", "") }
func (f *fakeExec) CompleteOnboarding(ctx context.Context) error {
	return f.record("onboarding", "")
}
func (f *fakeExec) Language(ctx context.Context, arg string) error { return f.record("lang", arg) }
func (f *fakeExec) Debug(ctx context.Context, arg string) error    { return f.record("debug", arg) }

// capturePrintln swaps the output seams and returns everything printed.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint, origPrompt := printlnFn, promptFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	promptFn = func(string) {}
	t.Cleanup(func() { printlnFn, promptFn = origPrint, origPrompt })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"login",
		"roles",
		"accounts",
		"users",
		"whoami",
		"switch 2",
		"remove acc-1",
		"logout-current",
		"logout",
		"logout-all",
		"onboarding",
		"lang ta",
		"debug wipe",
		"exit",
		"whoami",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "roles", "accounts", "accounts", "whoami", "switch", "remove",
		"logout-current", "logout", "logout-all", "onboarding", "lang", "debug",
	}, exec.calls)
	assert.Equal(t, []string{"2", "acc-1", "ta", "wipe"}, exec.args)
}

func TestRunREPL_HelpDependsOnLoginState(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("help\nlogin\nhelp\nquit\n")))

	assert.Equal(t, []string{helpLoggedOut, helpLoggedIn, "Bye!"}, *lines)
}

func TestRunREPL_UnknownAndBlankLines(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("\n   \nfoobar\n")))

	assert.Empty(t, exec.calls)
	assert.Equal(t, []string{"Unknown command: foobar"}, *lines)
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("roles")))

	assert.Equal(t, []string{"roles"}, exec.calls)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	capturePrintln(t)
	var prompts []string
	promptFn = func(s string) { prompts = append(prompts, s) }

	runREPL(context.Background(), &fakeExec{}, func() string { return "(online)" },
		bufio.NewReader(strings.NewReader("exit\n")))

	assert.Equal(t, []string{"acadex (online)> "}, prompts)
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	capturePrintln(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("roles\n")))
	assert.Empty(t, exec.calls)
}
