// internal/store/sqlite/store.go
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/shrimpsizemoose/semla/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
		InsertID: func(db *sqlx.DB, query string, args ...interface{}) (int64, error) {
			res, err := db.Exec(query, args...)
			if err != nil {
				return 0, err
			}
			return res.LastInsertId()
		},
		Constraint: func(err error) store.ConstraintKind {
			var sqliteErr sqlite3.Error
			if !errors.As(err, &sqliteErr) {
				return store.ConstraintNone
			}
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
				return store.ConstraintUnique
			case sqlite3.ErrConstraintForeignKey:
				return store.ConstraintForeignKey
			}
			return store.ConstraintNone
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// sqliteReplacements converts the Postgres migration dialect to SQLite.
// Ordered so longer patterns win before their prefixes.
var sqliteReplacements = [][2]string{
	{"BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
	{"SERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
	{"BIGINT", "INTEGER"},
	{"now()", "CURRENT_TIMESTAMP"},
	{"TRUE", "1"},
	{"FALSE", "0"},
}

func translateToSQLite(sql string) string {
	out := sql
	for _, r := range sqliteReplacements {
		out = strings.ReplaceAll(out, r[0], r[1])
	}
	return out
}
