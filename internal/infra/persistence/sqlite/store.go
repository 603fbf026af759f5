// Package sqlite provides a SQLite-backed baseline store that mirrors the
// in-memory semantics and snapshots the full state after every successful
// baseline commit.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"locuscore/internal/infra/persistence/memory"
	"locuscore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.Store = (*Store)(nil)

// Store persists the baseline state to a single SQLite table as JSON buckets.
// Transactions and snapshots run against the embedded in-memory store; only
// committed baseline state reaches disk.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) a snapshotting SQLite-backed baseline store and
// hydrates any previously persisted state.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "locuscore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var sqliteBuckets = []string{"intervals", "activities", "facts"}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	snapshot := memory.StateSnapshot{}
	loaded := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		loaded = true
		switch bucket {
		case "intervals":
			if err := json.Unmarshal(payload, &snapshot.Intervals); err != nil {
				return fmt.Errorf("decode intervals: %w", err)
			}
		case "activities":
			if err := json.Unmarshal(payload, &snapshot.Activities); err != nil {
				return fmt.Errorf("decode activities: %w", err)
			}
		case "facts":
			if err := json.Unmarshal(payload, &snapshot.Facts); err != nil {
				return fmt.Errorf("decode facts: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if loaded {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		var data []byte
		switch bucket {
		case "intervals":
			data, err = json.Marshal(snapshot.Intervals)
		case "activities":
			data, err = json.Marshal(snapshot.Activities)
		case "facts":
			data, err = json.Marshal(snapshot.Facts)
		}
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		if _, err := tx.Exec(`INSERT INTO state (bucket, payload) VALUES (?, ?)
			ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}

// Commit folds the snapshot into the in-memory baseline, then snapshots the
// resulting state to SQLite.
func (s *Store) Commit(ctx context.Context, snap domain.Snapshot) error {
	if err := s.Store.Commit(ctx, snap); err != nil {
		return err
	}
	return s.persist()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
