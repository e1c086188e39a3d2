// FILE: chesscore/internal/server/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrDegraded is returned once a write has failed; the store then drops
	// further writes until restarted.
	ErrDegraded = errors.New("storage degraded")
	ErrClosed   = errors.New("storage closed")
)

const (
	writeQueueSize = 1000
	closeTimeout   = 2 * time.Second
)

// writeOp is one queued unit of work. A barrier op carries no statement and
// only marks a point in the queue.
type writeOp struct {
	what    string
	fn      func(*sql.Tx) error
	barrier chan struct{}
}

// Store is a write-behind audit log of games and moves. Writes are queued and
// applied by a single goroutine; reads go straight to the database.
type Store struct {
	db      *sql.DB
	path    string
	queue   chan writeOp
	healthy atomic.Bool
	closing atomic.Bool
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewStore opens the database and starts the writer goroutine
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{"PRAGMA foreign_keys = ON"}
	if devMode {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	s := &Store{
		db:      db,
		path:    dataSourceName,
		queue:   make(chan writeOp, writeQueueSize),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	s.healthy.Store(true)

	go s.run()

	return s, nil
}

// IsHealthy returns true if the storage is operational
func (s *Store) IsHealthy() bool {
	return s.healthy.Load()
}

func (s *Store) run() {
	defer close(s.stopped)

	for {
		select {
		case op := <-s.queue:
			s.apply(op)
		case <-s.stop:
			// Whatever is already queued is applied before exit
			for {
				select {
				case op := <-s.queue:
					s.apply(op)
				default:
					return
				}
			}
		}
	}
}

func (s *Store) apply(op writeOp) {
	if op.barrier != nil {
		close(op.barrier)
		return
	}
	if !s.healthy.Load() {
		log.WithField("record", op.what).Debug("storage degraded, write skipped")
		return
	}
	if err := s.inTx(op.fn); err != nil {
		log.WithError(err).WithField("record", op.what).Error("storage degraded")
		s.healthy.Store(false)
	}
}

func (s *Store) inTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close stops the writer after it has applied the queued writes, then closes
// the database. It is safe to call more than once.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closing.Store(true)
		close(s.stop)

		select {
		case <-s.stopped:
		case <-time.After(closeTimeout):
			log.Warn("storage writer shutdown timeout, some writes may be lost")
		}

		err = s.db.Close()
	})
	return err
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	if err := s.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(Schema)
		return err
	}); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DeleteDB closes the store and removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}

// Flush blocks until every write queued before the call has been handled.
// It reports ErrDegraded if any of them failed and ErrClosed once the store
// has been closed.
func (s *Store) Flush(ctx context.Context) error {
	if s.closing.Load() {
		return ErrClosed
	}
	if !s.healthy.Load() {
		return ErrDegraded
	}

	barrier := make(chan struct{})
	select {
	case s.queue <- writeOp{what: "flush", barrier: barrier}:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-barrier:
	case <-s.stopped:
		// The writer may have reached the barrier while draining
		select {
		case <-barrier:
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	if !s.healthy.Load() {
		return ErrDegraded
	}
	return nil
}

// enqueue hands fn to the writer. A full queue drops the write; the audit log
// is best effort and never blocks play.
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) error {
	if s.closing.Load() {
		return ErrClosed
	}
	if !s.healthy.Load() {
		return ErrDegraded
	}

	select {
	case s.queue <- writeOp{what: what, fn: fn}:
		return nil
	default:
		log.WithField("record", what).Warn("storage write queue full, dropping")
		return nil
	}
}
