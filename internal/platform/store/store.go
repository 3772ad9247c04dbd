// Package store opens the optional databases feature runs are persisted to
// and exposes them behind small seams the repos depend on
package store

import (
	"context"
	"errors"
	"fmt"

	"seqfeat/internal/platform/logger"
)

// Store holds whichever backends were configured; the zero value has none
type Store struct {
	Log logger.Logger

	// PG is nil unless SERVICE_PGSQL_DBURL is set or a seam was injected
	PG TxRunner

	// CH is nil unless SERVICE_CLICKHOUSE_DBURL is set or a seam was injected
	CH Clickhouse
}

// Row is a single-row scan
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos read and write through
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn inside one transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam: statements, batch inserts and reads
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is implemented by seams that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Option adjusts the Store before backends are opened
type Option func(*Store) error

// WithLogger replaces the store logger
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithPG injects a postgres seam; Open then skips dialing postgres
func WithPG(pg TxRunner) Option {
	return func(s *Store) error {
		s.PG = pg
		return nil
	}
}

// WithCH injects a clickhouse seam; Open then skips dialing clickhouse
func WithCH(ch Clickhouse) Option {
	return func(s *Store) error {
		s.CH = ch
		return nil
	}
}

// Open applies opts then dials every enabled backend that was not injected.
// A failure closes what was already opened.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Named("store")}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled && s.PG == nil {
		c, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = c
	}
	if cfg.CH.Enabled && s.CH == nil {
		c, err := openCH(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}

	s.Log.Debug().Strs("backends", s.Backends()).Msg("store open")
	return s, nil
}

// Backends names the configured backends
func (s *Store) Backends() []string {
	var out []string
	if s == nil {
		return out
	}
	if s.PG != nil {
		out = append(out, "pg")
	}
	if s.CH != nil {
		out = append(out, "ch")
	}
	return out
}

// Guard pings every backend that supports it and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, b := range []struct {
		name string
		seam any
	}{{"pg", s.PG}, {"ch", s.CH}} {
		p, ok := b.seam.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every backend and joins the failures
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ch: %w", err))
		}
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	return errors.Join(errs...)
}
