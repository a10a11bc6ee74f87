// Package client contains the outbound building blocks of the app.
//
// # Overview
//
// The package provides:
//  1. HTTPJarClient, which fetches the collected amount and status of a
//     donation jar from its public JSON endpoint. Requests are rate limited
//     and bounded by a per-request timeout.
//  2. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Callers match failures with errors.Is: ErrInvalidJarLink for links
// without a jar id, ErrUnavailable for transport failures and non-200
// replies. Context errors are returned as is.
package client
