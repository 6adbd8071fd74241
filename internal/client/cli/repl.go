package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// promptFn prints the REPL prompt. Root disables it when stdin is not a terminal.
var promptFn = func(s string) { fmt.Print(s) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Roles(ctx context.Context) error
	Accounts(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Switch(ctx context.Context, arg string) error
	Remove(ctx context.Context, arg string) error
	Logout(ctx context.Context) error
	LogoutCurrent(ctx context.Context) error
	LogoutAll(ctx context.Context) error
	CompleteOnboarding(ctx context.Context) error
	Language(ctx context.Context, arg string) error
	Debug(ctx context.Context, arg string) error
}

const (
	helpLoggedOut = "Available commands: login, roles, accounts, switch <n|id>, remove <n|id>, onboarding, lang [code], debug, exit"
	helpLoggedIn  = "Available commands: whoami, accounts, login (add account), switch <n|id>, remove <n|id>, logout, logout-current, logout-all, roles, lang [code], debug, exit"
)

// runREPL starts a simple read–eval–print loop for the Acadex CLI.
//
// It reads a line from the provided reader, parses the first token as the
// command and the second, if any, as its argument, and dispatches to methods
// on 'a'. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// The reader is shared with the interactive prompts of the handlers, so lines
// are read one at a time instead of through a bufio.Scanner. Handlers print
// their own results and failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		promptFn(fmt.Sprintf("acadex %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "roles":
			_ = a.Roles(ctx)

		case "accounts", "users":
			_ = a.Accounts(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "switch":
			_ = a.Switch(ctx, arg)

		case "remove":
			_ = a.Remove(ctx, arg)

		case "logout":
			_ = a.Logout(ctx)

		case "logout-current":
			_ = a.LogoutCurrent(ctx)

		case "logout-all":
			_ = a.LogoutAll(ctx)

		case "onboarding":
			_ = a.CompleteOnboarding(ctx)

		case "lang":
			_ = a.Language(ctx, arg)

		case "debug":
			_ = a.Debug(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
