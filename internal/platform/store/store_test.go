package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"seqfeat/internal/platform/config"

	"github.com/rs/zerolog"
)

type fakeCH struct {
	pingErr  error
	closeErr error
	closed   bool
}

func (f *fakeCH) Exec(context.Context, string, ...any) error { return nil }
func (f *fakeCH) Insert(context.Context, string, []string, [][]any) error { return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error { f.closed = true; return f.closeErr }

func TestOpen_NothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("no backend should be set: %+v", s)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard on empty store: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close on empty store: %v", err)
	}
}

func TestOpen_PGBadURL(t *testing.T) {
	cfg := Config{PG: PGConfig{Enabled: true, URL: "://bad"}}
	s, err := Open(context.Background(), cfg)
	if err == nil || s != nil {
		t.Fatalf("expected error and nil store, got %v %v", s, err)
	}
}

func TestOpen_CHBadURL(t *testing.T) {
	cfg := Config{CH: CHConfig{Enabled: true, URL: "://bad"}}
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected ch parse error")
	}
}

func TestOpen_OptionError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Open(context.Background(), Config{}, func(*Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected option error, got %v", err)
	}
}

func TestOpen_InjectedSeamSkipsDial(t *testing.T) {
	f := &fakeCH{}
	// an unparsable url would fail if Open tried to dial
	cfg := Config{CH: CHConfig{Enabled: true, URL: "://bad"}}
	s, err := Open(context.Background(), cfg, WithCH(f), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.CH != f {
		t.Fatalf("injected seam replaced")
	}
	if got := s.Backends(); len(got) != 1 || got[0] != "ch" {
		t.Fatalf("Backends = %v", got)
	}

	// embedding the interface is enough for a seam Open never calls
	type stubPG struct{ TxRunner }
	s, err = Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}}, WithPG(stubPG{}))
	if err != nil {
		t.Fatalf("Open with pg seam: %v", err)
	}
	if got := s.Backends(); len(got) != 1 || got[0] != "pg" {
		t.Fatalf("Backends = %v", got)
	}

	var nilStore *Store
	if len(nilStore.Backends()) != 0 {
		t.Fatalf("nil store has backends")
	}
}

func TestGuardAndClose_CH(t *testing.T) {
	f := &fakeCH{pingErr: errors.New("down"), closeErr: errors.New("close")}
	s := &Store{CH: f}

	err := s.Guard(context.Background())
	if err == nil || err.Error() != "ch: down" {
		t.Fatalf("Guard = %v", err)
	}
	if err := s.Close(context.Background()); err == nil || err.Error() != "ch: close" {
		t.Fatalf("Close = %v", err)
	}
	if !f.closed {
		t.Fatalf("CH not closed")
	}

	var nilStore *Store
	if nilStore.Guard(context.Background()) == nil {
		t.Fatalf("nil store should fail Guard")
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u:p@localhost:5432/seqfeat")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "8")
	t.Setenv("SERVICE_PGSQL_LOG_SQL", "true")
	t.Setenv("SERVICE_PGSQL_PING_TIMEOUT", "1s")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "")

	c := FromConfig(config.New(), "seqfeat")
	if !c.PG.Enabled || c.PG.MaxConns != 8 || !c.PG.LogSQL || c.PG.PingTimeout != time.Second {
		t.Fatalf("pg config %+v", c.PG)
	}
	if c.PG.SlowQueryMs != 200 || c.PG.ConnectRetries != 20 {
		t.Fatalf("pg defaults %+v", c.PG)
	}
	if c.CH.Enabled {
		t.Fatalf("ch should be disabled without url")
	}
	if c.AppName != "seqfeat" || c.CH.Role != "seqfeat" {
		t.Fatalf("app name not carried: %+v", c)
	}
}
