// Package logger owns the process-wide zerolog root. Components take named
// children; request and run handlers take children enriched from the context.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"seqfeat/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level      string
	Format     string // console or json
	Service    string
	Component  string
	WithCaller bool

	// Writer defaults to stderr so stdout stays free for CLI output
	Writer io.Writer

	// Fields are attached to every event
	Fields map[string]string
}

// FromEnv reads LOG_* through the raw view, which never logs
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:      strings.ToLower(env.Get("LEVEL", "info")),
		Format:     strings.ToLower(env.Get("FORMAT", "console")),
		Service:    env.Get("SERVICE", ""),
		Component:  env.Get("COMPONENT", ""),
		WithCaller: env.GetBool("CALLER", false),
	}
}

var levelAliases = map[string]zerolog.Level{
	"warning": zerolog.WarnLevel,
	"off":     zerolog.Disabled,
}

// level maps a name to a zerolog level; blank or unknown names are info
func level(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if l, ok := levelAliases[name]; ok {
		return l
	}
	l, err := zerolog.ParseLevel(name)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Build returns a logger for opt without touching the process root
func Build(opt Options) Logger {
	out := opt.Writer
	if out == nil {
		out = os.Stderr
	}
	if opt.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	b := zerolog.New(out).Level(level(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		b = b.Str("go_version", bi.GoVersion)
	}
	for k, v := range map[string]string{"service": opt.Service, "component": opt.Component} {
		if v != "" {
			b = b.Str(k, v)
		}
	}
	for k, v := range opt.Fields {
		b = b.Str(k, v)
	}
	if opt.WithCaller {
		b = b.Caller()
	}
	return b.Logger()
}

var (
	initOnce sync.Once
	root     *Logger
)

func setRoot(opt Options) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := Build(opt)
	root = &l
}

// Init sets the process root from opt; only the first Init or Get has any effect
func Init(opt Options) {
	initOnce.Do(func() { setRoot(opt) })
}

// Get returns the root, initialising it from the environment on first use
func Get() *Logger {
	initOnce.Do(func() { setRoot(FromEnv()) })
	return root
}

// Named returns a child of the root tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type scopeKey struct{}

// scope is what C copies from a context onto a child logger
type scope struct {
	requestID string
	runID     string
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithRequest tags ctx with an HTTP request id; empty ids leave ctx alone
func WithRequest(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	s := scopeOf(ctx)
	s.requestID = id
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithRun tags ctx with a batch run id; empty ids leave ctx alone
func WithRun(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	s := scopeOf(ctx)
	s.runID = id
	return context.WithValue(ctx, scopeKey{}, s)
}

// C returns a child of the root carrying the request and run ids found in ctx
func C(ctx context.Context) *Logger {
	s := scopeOf(ctx)
	b := Get().With()
	if s.requestID != "" {
		b = b.Str("request_id", s.requestID)
	}
	if s.runID != "" {
		b = b.Str("run_id", s.runID)
	}
	l := b.Logger()
	return &l
}
