// Package cli provides the interactive Acadex command-line client.
//
// It wires configuration, the local SQLite store, the REST client and the
// session services behind a small REPL. On start it runs the bootstrap
// sequence (version check, onboarding flag, saved accounts) and then accepts
// commands until the user exits.
//
// Key features:
//   - Guided login: role, contact, institution, member
//   - Several saved accounts with switch / remove
//   - Logout variants (active pointer only, current account, all accounts)
//   - Onboarding flag and language preference
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
