// Package migrations embeds the SQL schema files for the store.
//
// Files are named NNN_description.up.sql / .down.sql; the applied version
// is tracked in PRAGMA user_version.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
