package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/logger"
	pnet "seqfeat/internal/platform/net"
	phttp "seqfeat/internal/platform/net/http"
)

// RecoverJSON converts panics into a JSON 500 envelope and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			status := stdhttp.StatusInternalServerError
			phttp.JSON(w, status, phttp.Envelope{
				StatusCode: status,
				Status:     stdhttp.StatusText(status),
				Code:       perr.ErrorCodePanic,
				Error:      "internal error",
				RequestID:  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
