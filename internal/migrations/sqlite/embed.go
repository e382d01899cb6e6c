// Package sqlite embeds the goose migrations for the local SQLite store.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
