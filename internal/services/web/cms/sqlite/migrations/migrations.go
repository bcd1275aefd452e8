// Package migrations embeds the content store schema.
package migrations

import "embed"

// FS holds the content store migrations.
//
//go:embed *.sql
var FS embed.FS
