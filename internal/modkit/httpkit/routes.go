// Package httpkit is the routing surface feature modules build on. Modules
// import it instead of internal/platform/net/http.
package httpkit

import (
	"net/http"
	"strings"

	phttp "seqfeat/internal/platform/net/http"
)

// Router is the platform router seam
type Router = phttp.Router

// Envelope is the JSON body every endpoint answers with
type Envelope = phttp.Envelope

// Get registers h for GET path; its result or error is enveloped
func Get(r Router, path string, h func(*http.Request) (any, error)) { phttp.GetJSON(r, path, h) }

// PostJSON registers h for POST path after binding and validating a T body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// APIBase is the mount point of an API version, e.g. "/api/v1"
func APIBase(version string) string {
	return "/api/" + strings.Trim(version, "/")
}

// MountAPI routes mount under APIBase(version) with the mw stack applied
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(APIBase(version), func(api Router) {
		api.Use(mw...)
		mount(api)
	})
}

// MountAPIV1 is MountAPI for "v1"
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
