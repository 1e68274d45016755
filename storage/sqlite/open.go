package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DriverName is the database/sql driver used for the conversions file
const DriverName = "sqlite"

// Open opens (creating if needed) the SQLite database at the given path
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open DB: %w", err)
	}

	// single writer, and keeps ":memory:" databases on one connection
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("unable to ping DB: %w", err)
	}

	return db, nil
}

// SchemaFiles lists the embedded migration file names, in apply order
func SchemaFiles() ([]string, error) {
	paths, err := fs.Glob(SchemaFS, "schema/*.sql")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, path.Base(p))
	}

	sort.Strings(names)

	return names, nil
}

// ApplySchema runs a single embedded migration file
func ApplySchema(ctx context.Context, db *sql.DB, name string) error {
	sqlBytes, err := SchemaFS.ReadFile(path.Join("schema", name))
	if err != nil {
		return fmt.Errorf("unable to read migration %q: %w", name, err)
	}

	if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("unable to run migration %q: %w", name, err)
	}

	return nil
}

// Migrate applies all embedded migrations. Migrations are idempotent
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := SchemaFiles()
	if err != nil {
		return fmt.Errorf("unable to list migrations: %w", err)
	}

	for _, name := range names {
		if err := ApplySchema(ctx, db, name); err != nil {
			return err
		}
	}

	return nil
}
