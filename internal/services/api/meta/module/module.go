// Package module mounts the meta endpoints under /meta
package module

import (
	"time"

	"seqfeat/internal/modkit"
	"seqfeat/internal/modkit/httpkit"
	"seqfeat/internal/platform/store"

	metahttp "seqfeat/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{b: b, deps: metahttp.Deps{
		ServiceName: "seqfeat-api",
		StartedAt:   time.Now(),
		PingTimeout: deps.Cfg.Prefix("CORE_API_").MayDuration("HEALTH_TIMEOUT", 2*time.Second),
		Probes:      []metahttp.Probe{probeOf("pg", deps.PG), probeOf("ch", deps.CH)},
	}}
}

// probeOf describes a store seam; seam is nil when the backend is off
func probeOf(name string, seam any) metahttp.Probe {
	p := metahttp.Probe{Name: name, Configured: seam != nil}
	if pinger, ok := seam.(store.Pinger); ok {
		p.Ping = pinger.Ping
	}
	return p
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
