// Package migrations ships the versioned SQL schema with the binaries, so
// a deployment without a checked-out source tree can still migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
