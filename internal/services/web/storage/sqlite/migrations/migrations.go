// Package migrations embeds the cache store schema.
package migrations

import "embed"

// FS holds the cache store migrations.
//
//go:embed *.sql
var FS embed.FS
