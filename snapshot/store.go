package snapshot

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Store keeps snapshots in a SQLite database in WAL mode, so a CLI run can
// save while another lists.
type Store struct {
	db *sql.DB
}

// Summary is the listing view of a stored snapshot.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Reduced   bool      `json:"reduced"`
	Pulses    int       `json:"pulses"`
	Energy    float64   `json:"energy"`
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		version    INTEGER NOT NULL,
		label      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		reduced    INTEGER NOT NULL DEFAULT 0,
		pulses     INTEGER NOT NULL,
		energy     REAL NOT NULL DEFAULT 0,
		body       BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_label ON snapshots(label);
	`
	return retryOnContention(func() error {
		_, err := s.db.Exec(schema)
		return err
	})
}

// Save inserts snap, or replaces the stored snapshot with the same id.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	var body bytes.Buffer
	if err := Encode(&body, snap); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	return retryOnContention(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO snapshots (id, version, label, created_at, reduced, pulses, energy, body)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   version = excluded.version, label = excluded.label,
			   reduced = excluded.reduced, pulses = excluded.pulses,
			   energy = excluded.energy, body = excluded.body`,
			snap.ID.String(), snap.Version, snap.Label,
			snap.CreatedAt.UTC().Format(time.RFC3339Nano),
			boolToInt(snap.Reduced), len(snap.Pulses), snap.Energy, body.Bytes(),
		)
		return err
	})
}

// Load returns the snapshot stored under id.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE id = ?`, id.String()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: load %s: %w", id, err)
	}

	return Decode(bytes.NewReader(body))
}

// List returns summaries of every stored snapshot, oldest first (UUIDv7
// ids sort by creation time).
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, created_at, reduced, pulses, energy FROM snapshots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum        Summary
			id, ts     string
			reducedInt int
		)
		if err := rows.Scan(&id, &sum.Label, &ts, &reducedInt, &sum.Pulses, &sum.Energy); err != nil {
			return nil, fmt.Errorf("snapshot: scan: %w", err)
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("snapshot: stored id %q: %w", id, err)
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("snapshot: stored time %q: %w", ts, err)
		}
		sum.Reduced = reducedInt != 0
		out = append(out, sum)
	}

	return out, rows.Err()
}

// Delete removes the snapshot stored under id.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	var n int64
	err := retryOnContention(func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id.String())
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("snapshot: delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
