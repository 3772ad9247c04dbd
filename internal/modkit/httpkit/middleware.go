package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"seqfeat/internal/platform/net/middleware"
)

// StackOptions tunes the baseline api middleware
type StackOptions struct {
	Origins []string
	Timeout time.Duration
	Slow    time.Duration
}

// CommonStack returns the baseline middleware for the api scope
func CommonStack(opt StackOptions) []func(http.Handler) http.Handler {
	if opt.Timeout <= 0 {
		opt.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: opt.Slow}),
		middleware.CORS(opt.Origins),
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(opt.Timeout),
	}
}
