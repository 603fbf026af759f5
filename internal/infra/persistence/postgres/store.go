// Package postgres provides a Postgres-backed baseline store that mirrors the
// in-memory semantics while snapshotting committed state to a JSONB table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"locuscore/internal/infra/persistence/memory"
	"locuscore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/locuscore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists baseline state to Postgres while reusing the in-memory
// implementation for snapshots and commits.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN), ensures the state table exists, and hydrates the in-memory
// store from any existing snapshot.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureStateTable(ctx, db); err != nil {
		return nil, err
	}
	snapshot, loaded, err := loadSnapshot(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore()
	if loaded {
		mem.ImportState(snapshot)
	}
	return &Store{Store: mem, db: db}, nil
}

// Commit folds the snapshot into the in-memory baseline, then snapshots the
// resulting state to Postgres.
func (s *Store) Commit(ctx context.Context, snap domain.Snapshot) error {
	if err := s.Store.Commit(ctx, snap); err != nil {
		return err
	}
	return s.persist(ctx)
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func ensureStateTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure state table: %w", err)
	}
	return nil
}

var postgresBuckets = []string{"intervals", "activities", "facts"}

func loadSnapshot(ctx context.Context, db *sql.DB) (memory.StateSnapshot, bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return memory.StateSnapshot{}, false, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.StateSnapshot
	loaded := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return memory.StateSnapshot{}, false, fmt.Errorf("scan state: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		loaded = true
		switch bucket {
		case "intervals":
			if err := json.Unmarshal(payload, &snapshot.Intervals); err != nil {
				return memory.StateSnapshot{}, false, fmt.Errorf("decode intervals: %w", err)
			}
		case "activities":
			if err := json.Unmarshal(payload, &snapshot.Activities); err != nil {
				return memory.StateSnapshot{}, false, fmt.Errorf("decode activities: %w", err)
			}
		case "facts":
			if err := json.Unmarshal(payload, &snapshot.Facts); err != nil {
				return memory.StateSnapshot{}, false, fmt.Errorf("decode facts: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return memory.StateSnapshot{}, false, fmt.Errorf("iterate state: %w", err)
	}
	return snapshot, loaded, nil
}

func (s *Store) persist(ctx context.Context) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range postgresBuckets {
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
		if _, err := tx.ExecContext(ctx, `INSERT INTO state (bucket, payload) VALUES ($1, $2)
			ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}
