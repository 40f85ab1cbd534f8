// Package storage opens the local SQLite database and wires up the
// repositories built on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aprilian/storymap/internal/client/migrations"
	"github.com/aprilian/storymap/internal/client/repositories/metadata"
	"github.com/aprilian/storymap/internal/client/repositories/wishlist"
	"github.com/aprilian/storymap/internal/common"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

type Repositories struct {
	DB       *sql.DB
	Wishlist wishlist.Repository
	Metadata metadata.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens the database at dsn, migrates the schema, and returns the
// repositories. A database whose schema cannot be migrated is wiped and
// recreated from scratch, losing locally saved stories; the stored
// session is carried over when the old metadata table is still readable.
func Open(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	// a single connection keeps writes serialized and makes in-memory
	// databases behave like file-backed ones
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		session := readMetadata(ctx, db)
		if dropErr := dropAllTables(ctx, db); dropErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: migration failed (%v) and reset failed: %v",
				common.ErrStorageUnavailable, err, dropErr)
		}
		if err := RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: migration failed after reset: %v",
				common.ErrStorageUnavailable, err)
		}
		restoreMetadata(ctx, db, session)
	}

	return &Repositories{
		DB:       db,
		Wishlist: wishlist.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}

// readMetadata snapshots the metadata rows before a schema reset. A
// missing or unreadable table yields nil and the session is lost with
// the rest of the database.
func readMetadata(ctx context.Context, db *sql.DB) map[string]string {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	kept := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil
		}
		kept[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil
	}
	return kept
}

// restoreMetadata writes the snapshot back after the schema was rebuilt.
// Best effort: a failure here only forces the user to log in again.
func restoreMetadata(ctx context.Context, db *sql.DB, kept map[string]string) {
	for k, v := range kept {
		_, _ = db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, k, v)
	}
}

func dropAllTables(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range tables {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, name)); err != nil {
			return err
		}
	}
	return nil
}
