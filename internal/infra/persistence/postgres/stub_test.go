package postgres

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

var stubSeq atomic.Int64

// stubConn is a database/sql driver connection that understands the handful
// of statements the store issues against the templates table.
type stubConn struct {
	mu         sync.Mutex
	execs      []string
	rows       map[string][2]any
	backup     map[string][2]any
	failPing   bool
	failExec   string
	failBegin  bool
	failCommit bool
	failQuery  bool
	rowsErr    error
}

func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{rows: make(map[string][2]any)}
	name := fmt.Sprintf("stubpg%d", stubSeq.Add(1))
	sql.Register(name, stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct{ conn *stubConn }

func (d stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *stubConn) Ping(context.Context) error {
	if c.failPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

func (c *stubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failBegin {
		return nil, fmt.Errorf("begin fail")
	}
	c.backup = make(map[string][2]any, len(c.rows))
	for k, v := range c.rows {
		c.backup[k] = v
	}
	return stubTx{conn: c}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, query)
	upper := strings.ToUpper(strings.TrimSpace(query))
	if c.failExec != "" && strings.HasPrefix(upper, c.failExec) {
		return nil, fmt.Errorf("exec fail: %s", c.failExec)
	}
	switch {
	case strings.HasPrefix(upper, "DELETE FROM TEMPLATES"):
		c.rows = make(map[string][2]any)
	case strings.HasPrefix(upper, "INSERT INTO TEMPLATES"):
		if len(args) != 3 {
			return nil, fmt.Errorf("expected 3 args, got %d", len(args))
		}
		name := args[0].Value.(string)
		if _, dup := c.rows[name]; dup {
			return nil, fmt.Errorf("duplicate key %s", name)
		}
		c.rows[name] = [2]any{args[1].Value, args[2].Value}
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failQuery {
		return nil, fmt.Errorf("query fail")
	}
	names := make([]string, 0, len(c.rows))
	for name := range c.rows {
		names = append(names, name)
	}
	sort.Strings(names)
	values := make([][]driver.Value, 0, len(names))
	for _, name := range names {
		row := c.rows[name]
		values = append(values, []driver.Value{name, row[0], []byte(fmt.Sprint(row[1]))})
	}
	return &stubRows{rows: values, err: c.rowsErr}, nil
}

type stubTx struct{ conn *stubConn }

func (t stubTx) Commit() error {
	if t.conn.failCommit {
		return fmt.Errorf("commit fail")
	}
	return nil
}

func (t stubTx) Rollback() error {
	t.conn.mu.Lock()
	defer t.conn.mu.Unlock()
	t.conn.rows = t.conn.backup
	return nil
}

type stubRows struct {
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return []string{"name", "kind", "payload"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
