package middleware

import (
	"net/http"
	"time"

	"seqfeat/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// AccessLogOptions configures AccessLog
type AccessLogOptions struct {
	// Slow logs requests at warn once they take at least this long; 0 never does
	Slow time.Duration
}

// level picks the event level: 5xx is error, slow is warn, the rest info
func (o AccessLogOptions) level(status int, elapsed time.Duration) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case o.Slow > 0 && elapsed >= o.Slow:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

// AccessLog writes one event per request through the request-scoped logger.
// The route is the chi pattern when one matched, so /runs?id=... logs as /runs.
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			logger.C(r.Context()).WithLevel(opt.level(status, elapsed)).
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Int64("req_bytes", r.ContentLength).
				Int("resp_bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("request")
		})
	}
}
