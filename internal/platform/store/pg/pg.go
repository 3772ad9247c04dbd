// Package pg opens the pgx pool feature runs are written through
package pg

import (
	"context"
	"strconv"
	"time"

	"seqfeat/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the subset of pool settings seqfeat exposes
type Config struct {
	URL      string
	AppName  string // application_name, visible in pg_stat_activity
	MaxConns int32

	// LogSQL installs a Tracer; Slow is its warn threshold
	LogSQL bool
	Slow   time.Duration

	// StatementTimeout bounds every statement on the pool; 0 keeps the server default
	StatementTimeout time.Duration
}

// PG owns the pool
type PG struct {
	Pool *pgxpool.Pool
}

// newPool is swapped in tests
var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies cfg and then mutate, and creates the pool.
// It does not ping; callers decide how long to wait for the server.
func Open(ctx context.Context, cfg Config, log logger.Logger, mutate func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	applyConfig(pcfg, cfg)
	if cfg.LogSQL {
		pcfg.ConnConfig.Tracer = NewTracer(log, cfg.Slow)
	}
	if mutate != nil {
		mutate(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool}, nil
}

func applyConfig(pcfg *pgxpool.Config, cfg Config) {
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	params := pcfg.ConnConfig.RuntimeParams
	if cfg.AppName != "" {
		params["application_name"] = cfg.AppName
	}
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
}

// Close closes the pool; safe on nil
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
