package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shrimpsizemoose/semla/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
		InsertID: func(db *sqlx.DB, query string, args ...interface{}) (int64, error) {
			var id int64
			if err := db.Get(&id, query+" RETURNING id", args...); err != nil {
				return 0, err
			}
			return id, nil
		},
		Constraint: func(err error) store.ConstraintKind {
			var pqErr *pq.Error
			if !errors.As(err, &pqErr) {
				return store.ConstraintNone
			}
			switch pqErr.Code {
			case "23505":
				return store.ConstraintUnique
			case "23503":
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

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}
