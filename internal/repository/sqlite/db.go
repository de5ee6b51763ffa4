package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
)

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// a single connection keeps writes serialised
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Option customises a repository.
type Option func(*options)

type options struct {
	clock domain.Clock
}

// WithClock overrides the clock used to stamp records.
func WithClock(clock domain.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func newOptions(opts []Option) options {
	o := options{clock: domain.SystemClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// persist stamps rec and runs insert for records without identity, update
// otherwise. The identity is assigned only once insert succeeds. On failure
// the record's Base is restored, so callers never see timestamps the store
// did not accept.
func persist(rec domain.Timestamped, clock domain.Clock, insert func(id string) error, update func() error) error {
	meta := rec.Meta()
	snapshot := *meta

	domain.OnPersist(rec, clock())

	var err error
	if snapshot.ID == "" {
		id := uuid.NewString()
		if err = insert(id); err == nil {
			meta.ID = id
		}
	} else {
		err = update()
	}
	if err != nil {
		*meta = snapshot
		return err
	}
	return nil
}

func classifyWriteError(op string, err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "unique") {
		return fmt.Errorf("%s: %w: %v", op, repository.ErrAlreadyExists, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func checkAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func normalise(b *domain.Base) {
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
}
