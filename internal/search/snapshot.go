package search

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SnapshotStore persists a built catalog to a standalone SQLite file for
// consumers that prefer querying over parsing JSON.
type SnapshotStore struct {
	db *sql.DB
}

// OpenSnapshot opens or creates the snapshot database at path.
func OpenSnapshot(path string) (*SnapshotStore, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := ensureSnapshotSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

func ensureSnapshotSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS search_entries (
			ordinal     INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			image       TEXT NOT NULL,
			href        TEXT NOT NULL,
			type        TEXT,
			search_text TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create search_entries failed: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WriteCatalog replaces the stored entries with c in one transaction.
func (s *SnapshotStore) WriteCatalog(ctx context.Context, c Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM search_entries`); err != nil {
		_ = tx.Rollback()
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO search_entries (ordinal, name, image, href, type, search_text)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for i, e := range c.entries {
		var typ sql.NullString
		if e.Type != nil {
			typ = sql.NullString{String: *e.Type, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i, e.Name, e.Image, e.Href, typ, e.SearchText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert entry %d failed: %w", i, err)
		}
	}
	return tx.Commit()
}

// ReadCatalog loads the stored entries in ordinal order.
func (s *SnapshotStore) ReadCatalog(ctx context.Context) (Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, image, href, type, search_text
		FROM search_entries ORDER BY ordinal ASC`)
	if err != nil {
		return Catalog{}, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var (
			e   Entry
			typ sql.NullString
		)
		if err := rows.Scan(&e.Name, &e.Image, &e.Href, &typ, &e.SearchText); err != nil {
			return Catalog{}, err
		}
		if typ.Valid {
			t := typ.String
			e.Type = &t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return Catalog{}, err
	}
	return NewCatalog(entries), nil
}
