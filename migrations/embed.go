package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var Files embed.FS

// For returns the migrations filesystem of one SQL dialect
func For(dialect string) (fs.FS, error) {
	switch dialect {
	case "sqlite", "postgres", "mysql":
		return fs.Sub(Files, dialect)
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
}
