package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/iliyamo/gig-marketplace/internal/config"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Migrate applies every pending up migration for the given driver.  The
// migrate instance is never closed since its Close also closes db; MySQL
// runs on a dedicated connection that is released afterwards.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var (
		target migratedb.Driver
		dir    string
		err    error
	)
	switch driver {
	case config.DriverSQLite:
		dir = "migrations/sqlite"
		target, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case config.DriverMySQL, "":
		driver = config.DriverMySQL
		dir = "migrations/mysql"
		conn, cerr := db.Conn(ctx)
		if cerr != nil {
			return fmt.Errorf("migrate conn: %w", cerr)
		}
		defer conn.Close()
		target, err = migratemysql.WithConnection(ctx, conn, &migratemysql.Config{})
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	src, err := iofs.New(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
