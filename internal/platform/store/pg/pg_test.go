package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"seqfeat/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const dsn = "postgres://u:p@h:5432/seqfeat?sslmode=disable"

func TestApplyConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		conns   int32
		app     string
		timeout string
	}{
		{name: "defaults kept", cfg: Config{}, conns: -1},
		{name: "all set", cfg: Config{MaxConns: 7, AppName: "seqfeat", StatementTimeout: 90 * time.Second}, conns: 7, app: "seqfeat", timeout: "90000"},
		{name: "negative timeout ignored", cfg: Config{StatementTimeout: -time.Second}, conns: -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pcfg, err := pgxpool.ParseConfig(dsn)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			before := pcfg.MaxConns
			applyConfig(pcfg, c.cfg)
			want := c.conns
			if want < 0 {
				want = before
			}
			if pcfg.MaxConns != want {
				t.Fatalf("MaxConns = %d, want %d", pcfg.MaxConns, want)
			}
			params := pcfg.ConnConfig.RuntimeParams
			if params["application_name"] != c.app {
				t.Fatalf("application_name = %q", params["application_name"])
			}
			if params["statement_timeout"] != c.timeout {
				t.Fatalf("statement_timeout = %q", params["statement_timeout"])
			}
		})
	}
}

func TestOpen(t *testing.T) {
	testkit.Serial(t)

	t.Run("bad url", func(t *testing.T) {
		if _, err := Open(context.Background(), Config{URL: "://bad"}, zerolog.Nop(), nil); err == nil {
			t.Fatalf("expected parse error")
		}
	})

	t.Run("pool error", func(t *testing.T) {
		testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
			return nil, errors.New("boom")
		})
		if _, err := Open(context.Background(), Config{URL: dsn}, zerolog.Nop(), nil); err == nil {
			t.Fatalf("expected pool error")
		}
	})

	t.Run("mutator runs after config", func(t *testing.T) {
		var seen *pgxpool.Config
		testkit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
			seen = pc
			return &pgxpool.Pool{}, nil
		})
		p, err := Open(context.Background(), Config{URL: dsn, MaxConns: 3, LogSQL: true}, zerolog.Nop(), func(pc *pgxpool.Config) {
			pc.MaxConns++
		})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if seen.MaxConns != 4 {
			t.Fatalf("mutator saw MaxConns before config applied: %d", seen.MaxConns)
		}
		if p.Pool == nil {
			t.Fatalf("PG = %+v", p)
		}
		if _, ok := seen.ConnConfig.Tracer.(*Tracer); !ok {
			t.Fatalf("LogSQL should install the tracer, got %T", seen.ConnConfig.Tracer)
		}
	})
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
