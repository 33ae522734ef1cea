package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
)

// Config holds configuration for the SQLite-backed store.
type Config struct {
	// DatabasePath is the filesystem path to the SQLite database file.
	// ":memory:" opens a throwaway in-memory database.
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/gallery.db"`

	// DeleteBatchSize is the page size used by batched bulk deletes.
	DeleteBatchSize int `env:"DELETE_BATCH_SIZE" default:"200"`
}

// Store owns the database handle and the per-table lock registry backing
// LockAll. Writes are funneled through a single connection; go-sqlite does
// not support concurrent writers.
type Store struct {
	db  *sql.DB
	cfg Config
	log logging.Logger

	mu     sync.Mutex
	tables map[string]*sync.Mutex
}

// Open connects to the database, applies pragmas and creates the schema if
// needed.
func Open(cfg Config) (*Store, error) {
	log := logging.GetLogger("store.store").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// One connection keeps pragmas effective and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	if cfg.DeleteBatchSize <= 0 {
		cfg.DeleteBatchSize = 200
	}

	return &Store{
		db:     db,
		cfg:    cfg,
		log:    log,
		tables: make(map[string]*sync.Mutex),
	}, nil
}

// DB exposes the raw handle for non-transactional reads.
func (s *Store) DB() *sql.DB { return s.db }

// DeleteBatchSize returns the configured bulk-delete page size.
func (s *Store) DeleteBatchSize() int { return s.cfg.DeleteBatchSize }

// Close closes the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}

func (s *Store) tableMutex(table string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.tables[table]
	if !ok {
		m = new(sync.Mutex)
		s.tables[table] = m
	}

	return m
}

// Tx is a transaction plus the table locks it holds. Locks acquired through
// LockAll are released when the transaction ends, never earlier.
type Tx struct {
	*sql.Tx

	store *Store
	held  map[string]*sync.Mutex
}

// Begin starts a transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	return &Tx{Tx: tx, store: s, held: make(map[string]*sync.Mutex)}, nil
}

// LockAll takes an exclusive whole-table lock for the remainder of the
// transaction. It guards read-modify-write sequences on denormalized
// counters; all other writes proceed without it.
func (tx *Tx) LockAll(ctx context.Context, e Entity) error {
	table := e.Table()
	if _, ok := tx.held[table]; ok {
		return nil
	}

	m := tx.store.tableMutex(table)
	m.Lock()
	tx.held[table] = m

	tx.store.log.DebugContext(ctx, "table locked", "table", table)

	return nil
}

func (tx *Tx) releaseLocks() {
	for table, m := range tx.held {
		m.Unlock()
		delete(tx.held, table)
	}
}

// Commit ends the transaction and releases any held table locks.
func (tx *Tx) Commit() error {
	defer tx.releaseLocks()

	if err := tx.Tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Rollback aborts the transaction and releases any held table locks.
func (tx *Tx) Rollback() error {
	defer tx.releaseLocks()

	if err := tx.Tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback tx: %w", err)
	}

	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. Panics are rethrown.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) (err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			_ = tx.Rollback()

			return
		}

		err = tx.Commit()
	}()

	err = fn(ctx, tx)

	return err
}

// translateErr maps storage constraint violations onto the domain error
// taxonomy; everything else propagates unchanged.
func translateErr(err error) error {
	if err == nil {
		return nil
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return errors.Join(domain.ErrValueExists, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_TRIGGER:
			return errors.Join(domain.ErrValueLocked, err)
		}
	}

	return err
}
