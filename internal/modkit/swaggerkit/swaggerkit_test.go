package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "seqfeat/internal/platform/net/http"
	kit "seqfeat/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func serve(t *testing.T, r phttp.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestMount_Disabled(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, Options{})
	if rr := serve(t, r, "/api/docs/doc.json"); rr.Code != http.StatusNotFound {
		t.Fatalf("disabled docs = %d, want 404", rr.Code)
	}
}

func TestDocJSON_Decorated(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, Options{Enabled: true})

	rr := serve(t, r, "/api/docs/doc.json")
	if rr.Code != http.StatusOK {
		t.Fatalf("doc.json = %d body=%s", rr.Code, rr.Body.String())
	}
	var spec map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	servers, _ := spec["servers"].([]any)
	if len(servers) != 1 || servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers = %v", spec["servers"])
	}
	paths := spec["paths"].(map[string]any)
	for _, p := range []string{"/alphabet", "/features", "/encode", "/runs", "/meta/health", "/meta/version"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("path %s missing", p)
		}
	}
	resps := paths["/features"].(map[string]any)["post"].(map[string]any)["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "422", "500", "503"} {
		if _, ok := resps[code]; !ok {
			t.Fatalf("features response %s missing", code)
		}
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatalf("ErrorResponse schema missing")
	}
}

func TestDocJSON_BrokenDocument(t *testing.T) {
	kit.Swap(t, &docReader, func() string { return "{" })
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, Options{Enabled: true})
	if rr := serve(t, r, "/api/docs/doc.json"); rr.Code != http.StatusInternalServerError {
		t.Fatalf("broken doc = %d, want 500", rr.Code)
	}
}

func TestDocsRedirect(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, Options{Enabled: true})
	rr := serve(t, r, "/api/docs")
	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect = %d", rr.Code)
	}
	kit.MustContain(t, rr.Header().Get("Location"), "/api/docs/")
}

func TestMount_CustomBase(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, Options{Enabled: true, Base: "/docs/"})
	if rr := serve(t, r, "/docs/doc.json"); rr.Code != http.StatusOK {
		t.Fatalf("custom base doc.json = %d", rr.Code)
	}
	if rr := serve(t, r, "/api/docs/doc.json"); rr.Code != http.StatusNotFound {
		t.Fatalf("default base should be free, got %d", rr.Code)
	}
	rr := serve(t, r, "/docs")
	if rr.Code != http.StatusPermanentRedirect || rr.Header().Get("Location") != "/docs/" {
		t.Fatalf("redirect = %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestEnsureServers_LiftsSwagger2(t *testing.T) {
	spec := map[string]any{"swagger": "2.0"}
	ensureServers(spec, "/x")
	if spec["openapi"] != "3.0.3" || spec["swagger"] != nil {
		t.Fatalf("spec = %v", spec)
	}
	spec = map[string]any{"openapi": "3.1.0", "servers": []any{}}
	ensureServers(spec, "/x")
	if spec["openapi"] != "3.0.3" || len(spec["servers"].([]any)) != 0 {
		t.Fatalf("spec = %v", spec)
	}
}

func TestDecorate_KeepsDocumentedResponses(t *testing.T) {
	own := map[string]any{"description": "bad sequence"}
	spec := map[string]any{
		"openapi": "3.0.3",
		"paths": map[string]any{
			"/encode": map[string]any{
				"parameters": []any{},
				"post":       map[string]any{"responses": map[string]any{"400": own}},
			},
		},
	}
	decorate(spec)

	resps := spec["paths"].(map[string]any)["/encode"].(map[string]any)["post"].(map[string]any)["responses"].(map[string]any)
	if resps["400"].(map[string]any)["description"] != "bad sequence" {
		t.Fatalf("documented 400 overwritten: %v", resps["400"])
	}
	ex := resps["500"].(map[string]any)["content"].(map[string]any)["application/json"].(map[string]any)["example"].(map[string]any)
	if ex["status_code"] != http.StatusInternalServerError || ex["status"] != "Internal Server Error" {
		t.Fatalf("500 example = %v", ex)
	}
}
