package store

import (
	"database/sql"
	"time"
)

// Store keeps one serialized snapshot blob per (id, schema). It never looks
// inside the blob.
type Store struct {
	db *sql.DB

	// RetryFor bounds how long a write keeps retrying while the database
	// is locked.
	RetryFor time.Duration
}

type SnapshotRecord struct {
	ID        string
	Schema    string
	Blob      string
	UpdatedAt time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, RetryFor: defaultRetryFor}
}

func (s *Store) PutSnapshot(rec SnapshotRecord) error {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return s.exec(`
		INSERT INTO snapshots (id, schema, blob, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id, schema) DO UPDATE SET
			blob = excluded.blob,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Schema, rec.Blob, updated.UTC())
}

// GetSnapshot returns nil, nil when nothing is stored for id and schema.
func (s *Store) GetSnapshot(id, schema string) (*SnapshotRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, schema, blob, updated_at
		FROM snapshots
		WHERE id = ? AND schema = ?
	`, id, schema)

	var rec SnapshotRecord
	err := row.Scan(&rec.ID, &rec.Schema, &rec.Blob, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListSnapshots returns every stored blob, most recently updated first.
func (s *Store) ListSnapshots() ([]SnapshotRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, schema, blob, updated_at
		FROM snapshots
		ORDER BY updated_at DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		if err := rows.Scan(&rec.ID, &rec.Schema, &rec.Blob, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) DeleteSnapshot(id, schema string) error {
	return s.exec(`DELETE FROM snapshots WHERE id = ? AND schema = ?`, id, schema)
}
