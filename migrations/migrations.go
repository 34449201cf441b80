// Package migrations embeds the versioned SQL files that cmd/radar applies
// through goose before any mode starts serving.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
