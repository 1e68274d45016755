package sqlite

import "embed"

// SchemaFS contains all SQL migration files under schema/
//
//go:embed schema/*.sql
var SchemaFS embed.FS
