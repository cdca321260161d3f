package persistence

import "embed"

//go:embed schema/*.sql
var SchemaFS embed.FS

// SchemaDir is the subdirectory of SchemaFS holding the goose migrations.
const SchemaDir = "schema"
