package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"seqfeat/internal/core/version"
	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/services/api/docs"
)

// docReader is a seam so tests can feed a broken document
var docReader = func() string {
	docs.SwaggerInfo.Version = version.Info().Version
	return docs.SwaggerInfo.ReadDoc()
}

// implicit are the errors any operation can answer with, whether or not the
// document lists them: undecodable bodies and recovered panics
var implicit = []struct {
	code    perr.ErrorCode
	example string
}{
	{perr.ErrorCodeJSON, "invalid JSON: unexpected EOF"},
	{perr.ErrorCodePanic, "internal error"},
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		decorate(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// decorate fills in what the hand-written document leaves implicit
func decorate(spec map[string]any) {
	ensureServers(spec, "/api/v1")
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = errorSchema()
	}
	for _, e := range implicit {
		status := e.code.HTTPStatus()
		addDefaultResponse(spec, status, map[string]any{
			"status_code": status,
			"status":      http.StatusText(status),
			"code":        e.code,
			"error":       e.example,
		})
	}
}

// child returns m[key] as an object, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

// ensureServers pins the document to OAS 3.0.3, which the UI renders, and sets a base server
func ensureServers(spec map[string]any, url string) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// errorSchema is the error half of the response envelope
func errorSchema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"type":     "object",
		"required": []any{"status_code", "status", "code"},
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer"},
			"status":      str,
			"code": map[string]any{
				"type":        "integer",
				"description": "0 unknown, 1 panic, 2 invalid_argument, 3 validation, 4 json, 5 io_failure, 6 not_found, 7 db, 8 unavailable",
			},
			"error":      str,
			"field":      str,
			"request_id": str,
		},
	}
}

// addDefaultResponse documents status on every operation that does not already
func addDefaultResponse(spec map[string]any, status int, example map[string]any) {
	paths, _ := spec["paths"].(map[string]any)
	key := strconv.Itoa(status)
	resp := map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
	for _, item := range paths {
		ops, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, op := range ops {
			o, ok := op.(map[string]any)
			if !ok {
				continue
			}
			responses := child(o, "responses")
			if _, ok := responses[key]; !ok {
				responses[key] = resp
			}
		}
	}
}
