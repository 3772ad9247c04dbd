package pg

import (
	"context"
	"strings"
	"time"

	"seqfeat/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Tracer is a pgx.QueryTracer that logs one event per statement, at warn
// once a statement takes Slow or longer
type Tracer struct {
	log  logger.Logger
	slow time.Duration
	now  func() time.Time
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer logs through a child of root pinned to debug, so SQL shows up
// whenever tracing is on regardless of the process level
func NewTracer(root logger.Logger, slow time.Duration) *Tracer {
	return &Tracer{
		log:  root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(),
		slow: slow,
		now:  time.Now,
	}
}

type startKey struct{}

type started struct {
	sql  string
	args int
	at   time.Time
}

// TraceQueryStart implements pgx.QueryTracer
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, startKey{}, started{sql: d.SQL, args: len(d.Args), at: t.now()})
}

// TraceQueryEnd implements pgx.QueryTracer
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	s, ok := ctx.Value(startKey{}).(started)
	if !ok {
		return
	}
	elapsed := t.now().Sub(s.at)
	slow := t.slow > 0 && elapsed >= t.slow
	lvl := zerolog.InfoLevel
	if slow {
		lvl = zerolog.WarnLevel
	}
	// feature inserts carry thousands of array args, so only the count is logged
	t.log.WithLevel(lvl).
		Float64("elapsed_ms", float64(elapsed.Microseconds())/1000).
		Bool("slow", slow).
		Str("sql", compact(s.sql)).
		Int("args", s.args).
		Int64("rows", d.CommandTag.RowsAffected()).
		Err(d.Err).
		Msg("pg query")
}

// compact folds whitespace runs into one space
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
