package modkit

import (
	"net/http"

	"seqfeat/internal/modkit/httpkit"
)

// Built is what a module's options resolve to
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Register adds endpoints after the module's own
	Register func(httpkit.Router)
}

// Option adjusts a module's Built
type Option func(*Built)

// WithName names the module in logs and the port registry
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts the module under prefix instead of the API root
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends module-scoped middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands the module ports provided by main or another module
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithRegister adds extra endpoints to the module router
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Built) { b.Register = fn } }

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if b.Register == nil {
		b.Register = func(httpkit.Router) {}
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// Mount registers own on r under Prefix (or as a group when Prefix is empty)
// with the module middleware, then the extra Register endpoints
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	mount := func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		own(rr)
		b.Register(rr)
	}
	if b.Prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(b.Prefix, mount)
}
