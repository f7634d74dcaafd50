// Package migrations embeds the SQL migrations for the SQLite UI-state backend.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
