// Package testutil provides a stub database/sql driver for postgres store
// tests, recording the state-table buckets the store persists.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var stubSeq uint64

// StubConn backs every connection handed out by a stub driver. It keeps the
// persisted state buckets in memory and records normalized statements.
type StubConn struct {
	mu      sync.Mutex
	Buckets map[string][]byte
	Execs   []string

	FailPing   bool
	FailExec   bool
	FailQuery  bool
	FailBegin  bool
	FailCommit bool
}

// NewStubConn constructs an empty stub connection state.
func NewStubConn() *StubConn {
	return &StubConn{Buckets: make(map[string][]byte)}
}

// OpenDB registers a fresh driver name backed by conn and opens a sql.DB on it.
// Multiple sql.DB handles may share one StubConn to model reopening a database.
func OpenDB(conn *StubConn) *sql.DB {
	name := fmt.Sprintf("stubpg%d", atomic.AddUint64(&stubSeq, 1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return &stubSession{conn: d.conn}, nil
}

type stubSession struct {
	conn *StubConn
}

var (
	_ driver.Conn           = (*stubSession)(nil)
	_ driver.ExecerContext  = (*stubSession)(nil)
	_ driver.QueryerContext = (*stubSession)(nil)
	_ driver.ConnBeginTx    = (*stubSession)(nil)
	_ driver.Pinger         = (*stubSession)(nil)
)

func (s *stubSession) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("stub driver does not support prepared statements (query %q)", query)
}

func (s *stubSession) Close() error { return nil }

func (s *stubSession) Begin() (driver.Tx, error) {
	return s.BeginTx(context.Background(), driver.TxOptions{})
}

func (s *stubSession) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	if s.conn.FailBegin {
		return nil, fmt.Errorf("stub: begin failed")
	}
	return &stubTx{conn: s.conn}, nil
}

func (s *stubSession) Ping(context.Context) error {
	if s.conn.FailPing {
		return fmt.Errorf("stub: ping failed")
	}
	return nil
}

func (s *stubSession) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c := s.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailExec {
		return nil, fmt.Errorf("stub: exec failed")
	}
	normalized := strings.Join(strings.Fields(query), " ")
	c.Execs = append(c.Execs, normalized)
	if strings.HasPrefix(strings.ToUpper(normalized), "INSERT INTO STATE") {
		if len(args) != 2 {
			return nil, fmt.Errorf("stub: state upsert wants 2 args, got %d", len(args))
		}
		bucket, ok := args[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("stub: bucket arg is %T", args[0].Value)
		}
		payload, ok := args[1].Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("stub: payload arg is %T", args[1].Value)
		}
		c.Buckets[bucket] = append([]byte(nil), payload...)
	}
	return driver.RowsAffected(1), nil
}

func (s *stubSession) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c := s.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailQuery {
		return nil, fmt.Errorf("stub: query failed")
	}
	normalized := strings.ToUpper(strings.Join(strings.Fields(query), " "))
	if !strings.HasPrefix(normalized, "SELECT BUCKET, PAYLOAD FROM STATE") {
		return nil, fmt.Errorf("stub: unsupported query %q", query)
	}
	buckets := make([]string, 0, len(c.Buckets))
	for b := range c.Buckets {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)
	rows := &stateRows{}
	for _, b := range buckets {
		rows.rows = append(rows.rows, stateRow{bucket: b, payload: append([]byte(nil), c.Buckets[b]...)})
	}
	return rows, nil
}

type stubTx struct {
	conn *StubConn
}

func (t *stubTx) Commit() error {
	if t.conn.FailCommit {
		return fmt.Errorf("stub: commit failed")
	}
	return nil
}

func (t *stubTx) Rollback() error { return nil }

type stateRow struct {
	bucket  string
	payload []byte
}

type stateRows struct {
	rows []stateRow
	next int
}

func (r *stateRows) Columns() []string { return []string{"bucket", "payload"} }

func (r *stateRows) Close() error { return nil }

func (r *stateRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.next]
	r.next++
	dest[0] = row.bucket
	dest[1] = row.payload
	return nil
}
