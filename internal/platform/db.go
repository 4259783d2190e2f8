// Package platform holds the database plumbing shared by the daemon: opening
// connections and applying schema migrations.
package platform

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ParseDatabaseURL returns the driver and DSN for a database URL.
// postgres:// and postgresql:// URLs use Postgres; sqlite:// URLs, file:
// DSNs and paths ending in .db use SQLite.
func ParseDatabaseURL(url string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		dsn = strings.TrimPrefix(url, "sqlite://")
		if dsn == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", url)
		}
		return DriverSQLite, dsn, nil
	case strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"):
		return DriverSQLite, url, nil
	}
	return "", "", fmt.Errorf("unsupported database url %q", url)
}

// OpenDB opens and pings the database at url. It returns the driver name
// alongside the handle so callers can run the matching migrations.
func OpenDB(url string) (*sql.DB, string, error) {
	driver, dsn, err := ParseDatabaseURL(url)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer; in-memory databases are per connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping database: %w", err)
	}
	return db, driver, nil
}
