package platform

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrationsFS embed.FS

// AutoMigrate runs all pending database migrations for the given driver.
func AutoMigrate(db *sql.DB, driverName string) error {
	source, err := iofs.New(migrationsFS, "migrations/"+driverName)
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	var driver database.Driver
	switch driverName {
	case DriverPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return fmt.Errorf("unsupported migration driver %q", driverName)
	}
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
