package module

import (
	"slices"
	"sync"
)

// Registry maps module names to port bundles
type Registry struct {
	mu    sync.RWMutex
	ports map[string]any
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry { return &Registry{ports: map[string]any{}} }

// Add stores m's ports under m's name and reports whether an earlier entry was replaced
func (r *Registry) Add(m Module) bool { return r.set(m.Name(), m.Ports()) }

// Names lists registered module names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ports))
	for n := range r.ports {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) set(name string, ports any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced := r.ports[name]
	r.ports[name] = ports
	return replaced
}

func (r *Registry) get(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.ports[name]
	return v, ok
}

// Lookup fetches name's bundle from r and asserts it to T
func Lookup[T any](r *Registry, name string) (T, bool) {
	v, ok := r.get(name)
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// process-wide registry filled by the API bootstrap
var std = NewRegistry()

// Register adds m to the process registry
func Register(m Module) bool { return std.Add(m) }

// PortsAs looks name up in the process registry
func PortsAs[T any](name string) (T, bool) { return Lookup[T](std, name) }

// Reset empties the process registry; tests call it between mounts
func Reset() {
	std.mu.Lock()
	std.ports = map[string]any{}
	std.mu.Unlock()
}
