package store

import (
	"context"
	"fmt"
	"time"

	"seqfeat/internal/core/version"
	chx "seqfeat/internal/platform/store/ch"
	"seqfeat/internal/platform/store/pg"
)

// openPG opens the pool, waits for it to answer pings, then wraps it with the sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	p, err := pg.Open(ctx, pg.Config{
		URL:              cfg.PG.URL,
		AppName:          cfg.AppName,
		MaxConns:         cfg.PG.MaxConns,
		LogSQL:           cfg.PG.LogSQL,
		Slow:             time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond,
		StatementTimeout: cfg.PG.StatementTimeout,
	}, s.Log, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		s.Log.Debug().Int("attempt", i+1).Err(lastErr).Msg("pg not ready")

		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientInfo: chx.ClientInfo(cfg.CH.Role, version.Info().Version),
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
