// Package migrations holds the grant and audit schema. Files are applied in
// lexical order; only *.up.sql files are run by database.Migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
