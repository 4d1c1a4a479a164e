package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNoActiveIdentity indicates no identity row with an open validity window
// exists in the store.
var ErrNoActiveIdentity = errors.New("no active identity spec found")

// activeSpecQuery selects the most recent identity row still in effect.
const activeSpecQuery = `
	SELECT id, spec
	FROM identity_spec
	WHERE valid_to IS NULL
	ORDER BY valid_from DESC
	LIMIT 1`

// Store reads identity specs from Postgres. It is read-only from the
// pipeline's perspective; writes happen through the CLI seeding commands.
type Store struct {
	db *sqlx.DB
}

// NewStore connects to the identity database.
func NewStore(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is not set")
	}
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect identity store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing connection, used by tests.
func NewStoreFromDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ActiveSpec returns the id and parsed spec of the currently active identity.
func (s *Store) ActiveSpec(ctx context.Context) (int64, *Spec, error) {
	var row struct {
		ID   int64  `db:"id"`
		Spec []byte `db:"spec"`
	}
	if err := s.db.GetContext(ctx, &row, activeSpecQuery); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, ErrNoActiveIdentity
		}
		return 0, nil, fmt.Errorf("query identity spec: %w", err)
	}

	spec, err := ParseSpec(row.Spec)
	if err != nil {
		return 0, nil, err
	}
	return row.ID, spec, nil
}

// PutSpec inserts a new identity row and closes the validity window of any
// previously active one.
func (s *Store) PutSpec(ctx context.Context, raw []byte) (int64, error) {
	if _, err := ParseSpec(raw); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin identity tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE identity_spec SET valid_to = now() WHERE valid_to IS NULL`); err != nil {
		return 0, fmt.Errorf("close previous identity: %w", err)
	}

	var id int64
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO identity_spec (spec, valid_from) VALUES ($1, now()) RETURNING id`,
		raw).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert identity spec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit identity tx: %w", err)
	}
	return id, nil
}
