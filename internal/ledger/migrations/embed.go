// Package migrations holds the goose migrations of the upload ledger.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
