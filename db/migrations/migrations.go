// Package migrations embeds the goose SQL migrations for the Postgres
// run archive.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
