// Package client contains client-side building blocks for Acadex.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the school-management backend: FetchRoles, SearchUser, LoadMembers
//     and Ping.
//  2. A concrete REST implementation (see HTTPClient) that applies a request
//     timeout and a client-side rate limit, unwraps the backend's
//     isTransactionDone envelope and maps failures to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrTransaction,
// ErrInvalidResponse. Details are available through errors.As on
// *StatusError and *TransactionError.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
