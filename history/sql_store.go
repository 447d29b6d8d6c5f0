package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLStore keeps the list in a SQLite database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens the database at `path` and applies the migrations.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	migDrv, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	dbDrv, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	mig, err := migrate.NewWithInstance("iofs", migDrv, "sqlite3", dbDrv)
	if err != nil {
		return err
	}
	err = mig.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate history database: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) ([]Entry, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM history WHERE key = ?`, Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return unmarshal([]byte(value))
}

func (s *SQLStore) Save(ctx context.Context, entries []Entry) error {
	data, err := marshal(entries)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		Key, string(data))
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }
