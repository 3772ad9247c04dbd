// Package module implements the features module
package module

import (
	"context"

	"seqfeat/internal/modkit"
	"seqfeat/internal/modkit/httpkit"
	"seqfeat/internal/services/features/domain"
	fhttp "seqfeat/internal/services/features/http"
	"seqfeat/internal/services/features/repo"
	"seqfeat/internal/services/features/service"
)

// Ports exposed by the features module
type Ports struct {
	Processor domain.ProcessorPort
	// DBSink fans out to every configured database; nil when none is configured
	DBSink domain.SinkPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	b     modkit.Built
	svc   *service.Service
	pg    *repo.PG
	ch    *repo.CH
	ports Ports
}

// New constructs the features module; invalid options panic like other wiring mistakes
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("features"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.Preview != 0 {
		cfg.Preview = overrides.Preview
	}
	if overrides.Sink != "" {
		cfg.Sink = overrides.Sink
	}
	if overrides.Output != "" {
		cfg.Output = overrides.Output
	}
	if overrides.MaxRecords != 0 {
		cfg.MaxRecords = overrides.MaxRecords
	}
	if overrides.MaxPaddedLength != 0 {
		cfg.MaxPaddedLength = overrides.MaxPaddedLength
	}
	cfg.SkipEmpty = cfg.SkipEmpty || overrides.SkipEmpty
	if err := cfg.Validate(); err != nil {
		panic("features module: " + err.Error())
	}

	m := &Module{deps: deps, opts: cfg, b: b}
	m.svc = service.New(service.Config{Workers: cfg.Workers})

	var sinks domain.MultiSink
	if deps.PG != nil {
		m.pg = repo.NewPG(deps.PG)
		sinks = append(sinks, m.pg)
	}
	if deps.CH != nil {
		m.ch = repo.NewCH(deps.CH)
		sinks = append(sinks, m.ch)
	}

	m.ports = Ports{Processor: m.svc}
	if len(sinks) > 0 {
		m.ports.DBSink = sinks
	}
	return m
}

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// Service returns the batch processor
func (m *Module) Service() *service.Service { return m.svc }

// EnsureSchema creates the features table in every configured database
func (m *Module) EnsureSchema(ctx context.Context) error {
	if m.pg != nil {
		if err := m.pg.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	if m.ch != nil {
		if err := m.ch.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string {
	if m.b.Name == "" {
		return "features"
	}
	return m.b.Name
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	deps := fhttp.Deps{
		Service:         m.svc,
		Sink:            m.ports.DBSink,
		MaxRecords:      m.opts.MaxRecords,
		MaxPaddedLength: m.opts.MaxPaddedLength,
	}
	if m.pg != nil {
		deps.Runs = m.pg
	}
	m.b.Mount(r, func(rr httpkit.Router) { fhttp.Register(rr, deps) })
}
