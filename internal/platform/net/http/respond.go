// Package http holds the router seam, the JSON envelope every endpoint answers
// with, and the server that hosts them
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "seqfeat/internal/platform/errors"
	pnet "seqfeat/internal/platform/net"
)

// Envelope wraps every response body. Errors fill Code, Error and Field;
// successes fill Data.
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Response is what return-style handlers produce. An error Body is rendered
// as an error envelope whose status comes from the error code.
type Response struct {
	Status int
	Body   any
}

// OK wraps data in a 200
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error defers the status to the error's code
func Error(err error) Response { return Response{Body: err} }

// Handle turns a return-style handler into a net/http one
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		env := h(r).envelope()
		env.RequestID = pnet.RequestID(r.Context())
		JSON(w, env.StatusCode, env)
	}
}

func (resp Response) envelope() Envelope {
	if err, ok := resp.Body.(error); ok && err != nil {
		status := perr.HTTPStatus(err)
		wire := perr.WireFrom(err)
		return Envelope{
			StatusCode: status,
			Status:     stdhttp.StatusText(status),
			Code:       wire.Code,
			Error:      wire.Message,
			Field:      wire.Field,
		}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	return Envelope{StatusCode: status, Status: stdhttp.StatusText(status), Data: resp.Body}
}

// JSON writes v with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
