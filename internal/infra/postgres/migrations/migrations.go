// Package migrations holds the schema of the results board.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry applied by the migrate command and on server start.
var Migrations = migrate.NewMigrations()
