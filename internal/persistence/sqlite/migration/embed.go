package migration

import "embed"

// Dir is the directory of Files holding the schema migrations.
const Dir = "migrations"

// Files holds the schema migrations compiled into the binary.
//
//go:embed migrations/*.sql
var Files embed.FS
