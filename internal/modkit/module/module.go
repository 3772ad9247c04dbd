// Package module is the contract every feature module satisfies plus the
// lookups used to hand one module's ports to another at bootstrap
package module

import (
	phttp "seqfeat/internal/platform/net/http"
)

// Module is mounted onto a router and exposes a named port bundle.
// It lives apart from modkit so a module can export its own Ports type without an import cycle.
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r phttp.Router)
}
