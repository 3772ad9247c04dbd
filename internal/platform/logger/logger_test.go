package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	kit "seqfeat/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":       zerolog.TraceLevel,
		"DEBUG":       zerolog.DebugLevel,
		"warn":        zerolog.WarnLevel,
		"warning":     zerolog.WarnLevel,
		"error":       zerolog.ErrorLevel,
		"off":         zerolog.Disabled,
		"disabled":    zerolog.Disabled,
		"":            zerolog.InfoLevel,
		"  nonsense ": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := level(in); got != want {
			t.Fatalf("level(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuild_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := Build(Options{
		Level:     "debug",
		Format:    "json",
		Service:   "seqfeat",
		Component: "cli",
		Writer:    &buf,
		Fields:    map[string]string{"build": "test"},
	})
	l.Debug().Int("records", 2).Msg("batch processed")

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("not json: %v (%s)", err, buf.String())
	}
	for k, want := range map[string]any{
		"service": "seqfeat", "component": "cli", "build": "test",
		"message": "batch processed", "records": float64(2), "level": "debug",
	} {
		if ev[k] != want {
			t.Fatalf("%s = %v, want %v", k, ev[k], want)
		}
	}
}

func TestBuild_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := Build(Options{Level: "warn", Format: "json", Writer: &buf})
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn: %s", buf.String())
	}
}

func TestInit_Named_C(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "console", Service: "seqfeat", Writer: &buf})

	Named("features").Info().Msg("named-msg")
	ctx := WithRun(WithRequest(context.Background(), "req-123"), "run-abc")
	C(ctx).Info().Msg("ctx-msg")

	out := buf.String()
	if out == "" {
		t.Skip("root was initialised by an earlier test in this binary")
	}
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "features")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "run-abc")
}

func TestScope(t *testing.T) {
	ctx := context.Background()
	if WithRun(ctx, "") != ctx || WithRequest(ctx, "") != ctx {
		t.Fatalf("empty ids should not wrap the context")
	}
	ctx = WithRequest(WithRun(ctx, "r1"), "q1")
	ctx = WithRun(ctx, "r2")
	if s := scopeOf(ctx); s.runID != "r2" || s.requestID != "q1" {
		t.Fatalf("scope = %+v", s)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_COMPONENT", "comp-b")
	t.Setenv("LOG_CALLER", "true")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "svc-b" || opt.Component != "comp-b" || !opt.WithCaller {
		t.Fatalf("FromEnv = %+v", opt)
	}
}
