package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// EnsureSchema creates the Postgres schema if it does not exist.
func EnsureSchema(d *gorm.DB, schema string) error {
	if schema == "" || strings.ContainsAny(schema, `"; `) {
		return fmt.Errorf("invalid schema name %q", schema)
	}
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}

// EnableExtension installs a Postgres extension such as uuid-ossp.
func EnableExtension(d *gorm.DB, name string) error {
	if name == "" || strings.ContainsAny(name, `"; `) {
		return fmt.Errorf("invalid extension name %q", name)
	}
	return d.Exec(`CREATE EXTENSION IF NOT EXISTS "` + name + `"`).Error
}
