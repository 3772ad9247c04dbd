// Package http serves liveness and build information
package http

import (
	"context"
	"net/http"
	"time"

	"seqfeat/internal/core/version"
	"seqfeat/internal/modkit/httpkit"
)

// Probe is one dependency the health check reports on
type Probe struct {
	Name string

	// Configured is false for backends the process runs without
	Configured bool

	// Ping may be nil for configured backends that cannot be pinged
	Ping func(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Probes      []Probe
	PingTimeout time.Duration
	now         func() time.Time
}

// Check status values
const (
	CheckOK      = "ok"
	CheckFail    = "fail"
	CheckSkipped = "skipped"
	CheckUnknown = "unknown"
)

// Check is the result of one probe
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is the /health payload. Status is ok, degraded (a probe
// could not be pinged) or fail (a ping failed).
type HealthResponse struct {
	Status  string  `json:"status"`
	Service string  `json:"service"`
	Started string  `json:"started"`
	Uptime  int64   `json:"uptime"`
	Checks  []Check `json:"checks"`
}

// Register mounts GET /health and GET /version
func Register(r httpkit.Router, d Deps) {
	if d.PingTimeout <= 0 {
		d.PingTimeout = 2 * time.Second
	}
	if d.now == nil {
		d.now = time.Now
	}
	httpkit.Get(r, "/health", d.health)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
}

func (d Deps) health(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), d.PingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  CheckOK,
		Service: d.ServiceName,
		Started: d.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(d.now().Sub(d.StartedAt) / time.Second),
		Checks:  make([]Check, 0, len(d.Probes)),
	}
	for _, p := range d.Probes {
		c := probe(ctx, p)
		switch {
		case c.Status == CheckFail:
			resp.Status = CheckFail
		case c.Status == CheckUnknown && resp.Status == CheckOK:
			resp.Status = "degraded"
		}
		resp.Checks = append(resp.Checks, c)
	}
	return resp, nil
}

func probe(ctx context.Context, p Probe) Check {
	c := Check{Name: p.Name, Status: CheckOK}
	switch {
	case !p.Configured:
		c.Status = CheckSkipped
	case p.Ping == nil:
		c.Status = CheckUnknown
	default:
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = CheckFail, err.Error()
		}
	}
	return c
}
