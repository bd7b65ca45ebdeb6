// Package store provides SQLite-based persistence for the kymerge journal.
// The journal records merge invocations and their conflicts so operators can
// audit what the driver decided; documents themselves are never stored.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kynetic-dev/kymerge/internal/models"
)

// Store represents the SQLite journal store
type Store struct {
	db *sql.DB
}

// New creates a new store connection
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize creates the database schema
func (s *Store) Initialize() error {
	schema := `
	-- Merge journal (append-only)
	CREATE TABLE IF NOT EXISTS merges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		path TEXT NOT NULL,
		file_type TEXT NOT NULL,
		conflicts INTEGER NOT NULL DEFAULT 0,
		resolved INTEGER NOT NULL DEFAULT 0,
		declined BOOLEAN NOT NULL DEFAULT FALSE
	);

	-- Conflicts recorded per merge
	CREATE TABLE IF NOT EXISTS conflicts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		merge_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		conflict_path TEXT NOT NULL,
		ulid TEXT,
		ours TEXT,
		theirs TEXT,
		resolution TEXT,
		FOREIGN KEY (merge_id) REFERENCES merges(id)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// RecordMerge records one merge invocation and returns its journal id
func (s *Store) RecordMerge(rec *models.MergeRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO merges (timestamp, path, file_type, conflicts, resolved, declined)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().Format(time.RFC3339), rec.Path, string(rec.FileType),
		rec.Conflicts, rec.Resolved, rec.Declined,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record merge: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read merge id: %w", err)
	}
	return id, nil
}

// RecordConflict records one conflict under a journaled merge. ours and
// theirs hold the compact formatter rendering, not the raw values.
func (s *Store) RecordConflict(mergeID int64, c models.Conflict, ours, theirs string, resolution models.Resolution) error {
	_, err := s.db.Exec(
		`INSERT INTO conflicts (merge_id, kind, conflict_path, ulid, ours, theirs, resolution)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		mergeID, string(c.Kind), c.Path, c.ULID, ours, theirs, string(resolution),
	)
	if err != nil {
		return fmt.Errorf("failed to record conflict: %w", err)
	}
	return nil
}

// ListMerges returns journaled merges, newest first. limit 0 means all.
func (s *Store) ListMerges(limit int) ([]*models.MergeRecord, error) {
	query := `SELECT id, timestamp, path, file_type, conflicts, resolved, declined
	          FROM merges ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query merges: %w", err)
	}
	defer rows.Close()

	var records []*models.MergeRecord
	for rows.Next() {
		rec := &models.MergeRecord{}
		var fileType string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Path, &fileType,
			&rec.Conflicts, &rec.Resolved, &rec.Declined); err != nil {
			return nil, fmt.Errorf("failed to scan merge record: %w", err)
		}
		rec.FileType = models.FileType(fileType)
		records = append(records, rec)
	}
	return records, rows.Err()
}
