package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// The contacts schema ships inside the binary. 000001 creates the contacts
// table: a text primary key holding the encoded UUIDv7, the three required
// fields, and RFC 3339 created_at/updated_at columns indexed on creation
// time.
//
//go:embed migrations/*.sql
var schemaFS embed.FS

// ErrDirtySchema means an earlier migration stopped halfway and the contacts
// table needs manual repair before the store can start.
var ErrDirtySchema = errors.New("contacts schema is dirty")

// MigrateContacts brings the contacts schema on db up to the newest embedded
// version and returns that version. A database that is already current is
// left alone, so the daemon calls this on every start.
//
// The migrator is never closed: its driver owns db and closing it would close
// the caller's writer pool.
func MigrateContacts(db *sql.DB) (uint, error) {
	source, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("open contacts schema: %w", err)
	}

	target, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("attach contacts schema driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", target)
	if err != nil {
		return 0, fmt.Errorf("prepare contacts schema: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate contacts schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read contacts schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}
	return version, nil
}
