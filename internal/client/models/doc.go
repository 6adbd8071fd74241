// Package models defines the client-side data model: saved accounts, the
// candidates returned by each login lookup, the role catalogue and the
// persisted version-check record.
package models
