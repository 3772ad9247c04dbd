// Package errors is the coded error type shared across seqfeat; import it as perr.
// Messages are for people, codes are for machines: the HTTP layer maps codes
// to statuses and the CLI prints messages.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the closed set of error kinds. Values go over the wire, so append only.
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota // unclassified
	ErrorCodePanic                            // recovered by middleware
	ErrorCodeInvalidArgument                  // padded length, empty sequence or batch, row count
	ErrorCodeValidation                       // bound request data failed validation
	ErrorCodeJSON                             // request body is not the expected JSON
	ErrorCodeIOFailure                        // unreadable input or unwritable sink
	ErrorCodeNotFound                         // unknown run
	ErrorCodeDB                               // database sink failure
	ErrorCodeUnavailable                      // dependency not configured or not reachable
)

var codeTable = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeIOFailure:       {"io_failure", http.StatusInternalServerError},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
}

func (c ErrorCode) known() bool { return int(c) < len(codeTable) }

// String is the stable wire name of c
func (c ErrorCode) String() string {
	if !c.known() {
		return codeTable[ErrorCodeUnknown].name
	}
	return codeTable[c].name
}

// HTTPStatus is the response status for c; unknown codes are 500
func (c ErrorCode) HTTPStatus() int {
	if !c.known() {
		return http.StatusInternalServerError
	}
	return codeTable[c].status
}

// Error carries a code, a message, an optional field (record id, column,
// request field) and an optional cause
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause != nil:
		return e.msg + ": " + e.cause.Error()
	default:
		return e.msg
	}
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error { return e.cause }

// Code is the error kind
func (e *Error) Code() ErrorCode { return e.code }

// Field names what the error is about, if anything
func (e *Error) Field() string { return e.field }

// Wire is the error part of the HTTP envelope
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// ToWire drops the cause; causes stay in logs
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom renders any error; foreign errors become ErrorCodeUnknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns err's code, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a response status
func HTTPStatus(err error) int { return CodeOf(err).HTTPStatus() }

// WithField returns a copy of err naming field; foreign errors pass through untouched
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// New builds an error with a fixed message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf builds an error with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap attaches code and msg to cause
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

// Wrapf attaches code and a formatted message to cause
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

// WrapIf is Wrap that returns nil for a nil cause
func WrapIf(cause error, code ErrorCode, msg string) error {
	if cause == nil {
		return nil
	}
	return Wrap(cause, code, msg)
}

// InvalidArgf is an ErrorCodeInvalidArgument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// IOf is an ErrorCodeIOFailure error
func IOf(format string, a ...any) error { return Newf(ErrorCodeIOFailure, format, a...) }

// WrapIOf wraps cause as ErrorCodeIOFailure
func WrapIOf(cause error, format string, a ...any) error {
	return Wrapf(cause, ErrorCodeIOFailure, format, a...)
}

// NotFoundf is an ErrorCodeNotFound error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// JSONErrf is an ErrorCodeJSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// Unavailablef is an ErrorCodeUnavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
