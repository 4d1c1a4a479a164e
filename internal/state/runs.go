// Package state provides SQLite-based run history for PostForge. Every
// completed generation run is recorded with its payload, QA score, and the
// full message audit log, under the XDG data path
// (~/.local/share/postforge/postforge.db).
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/postforge/postforge/internal/pipeline"
)

// Run is one recorded pipeline run.
type Run struct {
	ID        string
	Topic     string
	Text      string
	ImageURL  string
	QAScore   int
	CreatedAt time.Time
	Messages  []pipeline.Message
}

// DB wraps an SQLite database connection with run-history operations.
type DB struct {
	conn *sql.DB
	path string
}

// DefaultDBPath returns the path to the PostForge run-history database.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "postforge", "postforge.db")
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	topic TEXT NOT NULL,
	text TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	qa_score INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS run_messages (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);`

// Open opens the run-history database at the given path, creating parent
// directories and the schema as needed. WAL mode is enabled for concurrent
// reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// OpenDefault opens the database at DefaultDBPath.
func OpenDefault() (*DB, error) {
	return Open(DefaultDBPath())
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// SaveRun records a completed run with its message audit log.
func (d *DB) SaveRun(ctx context.Context, run *Run) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, topic, text, image_url, qa_score, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Topic, run.Text, run.ImageURL, run.QAScore, run.CreatedAt); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for seq, msg := range run.Messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_messages (run_id, seq, role, content) VALUES (?, ?, ?, ?)`,
			run.ID, seq, msg.Role, msg.Content); err != nil {
			return fmt.Errorf("insert run message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run tx: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs, without their message logs.
func (d *DB) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, topic, text, image_url, qa_score, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Topic, &r.Text, &r.ImageURL, &r.QAScore, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunMessages returns the message audit log for one run, in order.
func (d *DB) RunMessages(ctx context.Context, runID string) ([]pipeline.Message, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT role, content FROM run_messages WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run messages: %w", err)
	}
	defer rows.Close()

	var msgs []pipeline.Message
	for rows.Next() {
		var m pipeline.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("scan run message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// RecordState persists a finished pipeline state as a run.
func (d *DB) RecordState(ctx context.Context, id string, st *pipeline.State) error {
	if st.PostPayload == nil {
		return fmt.Errorf("cannot record run without payload")
	}
	return d.SaveRun(ctx, &Run{
		ID:        id,
		Topic:     st.Topic,
		Text:      st.PostPayload.Text,
		ImageURL:  st.PostPayload.ImageURL,
		QAScore:   st.QAScore,
		CreatedAt: time.Now().UTC(),
		Messages:  st.Messages,
	})
}
