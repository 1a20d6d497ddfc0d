// Package migrations embeds the record store schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
