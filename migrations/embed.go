// Package migrations embeds the Chairspace schema migrations so the server
// and the integration tests can apply them through goose without a migrations
// directory on disk.
package migrations

import "embed"

// FS holds every *.sql migration embedded at compile time.
// Hand it to goose.NewProvider; do not read it directly.
//
//go:embed *.sql
var FS embed.FS
