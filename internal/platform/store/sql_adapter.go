package store

import (
	"context"
	"errors"

	"seqfeat/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the surface shared by *pgxpool.Pool and pgx.Tx
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querier adapts a pool or tx to RowQuerier. Statement logging happens in
// the pgx tracer, so this layer only converts types.
type querier struct{ q pgxQuerier }

func (x querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return x.q.Exec(ctx, sql, args...)
}

func (x querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := x.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgRows{r: rs}, nil
}

func (x querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return x.q.QueryRow(ctx, sql, args...)
}

// pgAdapter wraps pg.PG and implements TxRunner and Pinger
type pgAdapter struct {
	querier
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{querier: querier{q: p.Pool}, p: p}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Tx runs fn in one transaction; any error from fn rolls back
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(querier{q: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type pgRows struct{ r pgx.Rows }

func (x pgRows) Next() bool            { return x.r.Next() }
func (x pgRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x pgRows) Err() error            { return x.r.Err() }
func (x pgRows) Close()                { x.r.Close() }
func (x pgRows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}
