package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/MoneNarendra/unibudget/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver (cgo)
	_ "modernc.org/sqlite"          // SQLite driver (pure Go)
)

// Supported database/sql driver names.
const (
	DriverCGo  = "sqlite3"
	DriverPure = "sqlite"
)

// MemoryPath opens a private in-memory database. Its contents are lost on Close.
const MemoryPath = ":memory:"

// State describes where the storage is in its connection lifecycle.
type State int

// Connection lifecycle states.
const (
	StateUnopened State = iota
	StateOpening
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unopened"
	}
}

// conn is one opened handle. Operations lease it so Close never pulls the
// handle out from under a running statement.
type conn struct {
	db     *sql.DB
	leases int
	closed bool
}

// SQLiteStorage implements service.Storage using SQLite.
// The handle is opened lazily on first use and reopened after Close.
type SQLiteStorage struct {
	cur    *conn
	group  singleflight.Group
	dbPath string
	driver string
	mu     sync.Mutex
	state  State
	opens  int
}

// NewSQLiteStorage creates a storage for dbPath without touching the file.
// driver selects DriverCGo or DriverPure; empty means DriverCGo.
func NewSQLiteStorage(dbPath, driver string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	switch driver {
	case "":
		driver = DriverCGo
	case DriverCGo, DriverPure:
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", common.ErrInvalidConfig, driver)
	}

	return &SQLiteStorage{
		dbPath: dbPath,
		driver: driver,
	}, nil
}

// OpenSQLiteStorage creates a storage and opens it, applying any pending migrations.
func OpenSQLiteStorage(ctx context.Context, dbPath, driver string) (*SQLiteStorage, error) {
	s, err := NewSQLiteStorage(dbPath, driver)
	if err != nil {
		return nil, err
	}
	if _, err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// State reports the current lifecycle state.
func (s *SQLiteStorage) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open returns the live handle, opening and migrating the database if needed.
// Concurrent callers share a single in-flight open, which runs to completion
// even when the caller that started it is canceled.
func (s *SQLiteStorage) Open(ctx context.Context) (*sql.DB, error) {
	c, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	return c.db, nil
}

func (s *SQLiteStorage) connect(ctx context.Context) (*conn, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.cur != nil && !s.cur.closed {
		c := s.cur
		s.mu.Unlock()
		return c, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("open", func() (any, error) {
		s.mu.Lock()
		if s.cur != nil && !s.cur.closed {
			c := s.cur
			s.mu.Unlock()
			return c, nil
		}
		prev := s.state
		s.state = StateOpening
		s.mu.Unlock()

		// The open is shared, so one caller giving up must not fail the rest.
		db, err := s.openDB(context.WithoutCancel(ctx))

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.state = prev
			return nil, err
		}
		c := &conn{db: db}
		s.cur = c
		s.state = StateOpen
		s.opens++
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.(*conn), nil
}

func (s *SQLiteStorage) openDB(ctx context.Context) (*sql.DB, error) {
	if s.dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0750); err != nil {
			return nil, fmt.Errorf("%w: failed to create database directory: %v", common.ErrStoreUnavailable, err)
		}
	}

	db, err := sql.Open(s.driver, s.dsn())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", common.ErrStoreUnavailable, err)
	}

	// One connection keeps writes serialized and an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", common.ErrStoreUnavailable, err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	slog.Debug("Opened database", "path", s.dbPath, "driver", s.driver)
	return db, nil
}

func (s *SQLiteStorage) dsn() string {
	if s.driver == DriverPure {
		return s.dbPath + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=synchronous(full)"
	}
	return s.dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=FULL"
}

// acquire leases the current handle, opening it first if necessary.
func (s *SQLiteStorage) acquire(ctx context.Context) (*conn, func(), error) {
	for {
		c, err := s.connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		s.mu.Lock()
		if c.closed {
			// Closed between connect and lease; open again.
			s.mu.Unlock()
			continue
		}
		c.leases++
		s.mu.Unlock()

		return c, func() { s.release(c) }, nil
	}
}

func (s *SQLiteStorage) release(c *conn) {
	s.mu.Lock()
	c.leases--
	shouldClose := c.closed && c.leases == 0
	s.mu.Unlock()

	if shouldClose {
		_ = c.db.Close()
	}
}

// withDB runs fn against a leased handle. A handle reported dead by the driver
// is detached so the next call reopens.
func (s *SQLiteStorage) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	c, release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = fn(c.db)
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		s.invalidate(c)
	}
	return err
}

func (s *SQLiteStorage) invalidate(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == c {
		s.cur = nil
		s.state = StateClosed
	}
	c.closed = true
}

// Close closes the current handle. Leased handles close when their last lease ends.
// The next operation reopens the database.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	c := s.cur
	s.cur = nil
	if s.state != StateUnopened {
		s.state = StateClosed
	}
	if c == nil {
		s.mu.Unlock()
		return nil
	}
	c.closed = true
	idle := c.leases == 0
	s.mu.Unlock()

	if idle {
		return c.db.Close()
	}
	return nil
}

// SchemaVersion reports the schema version marker of the opened database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
