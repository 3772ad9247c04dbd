// Package swaggerkit serves the OpenAPI document and a Swagger UI over it
package swaggerkit

import (
	"net/http"
	"strings"

	phttp "seqfeat/internal/platform/net/http"
	"seqfeat/internal/services/api/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultBase is where the UI is mounted when Options.Base is empty
const DefaultBase = "/api/docs"

// Options for Mount
type Options struct {
	Enabled bool
	Base    string
}

func (o Options) base() string {
	if b := strings.TrimRight(o.Base, "/"); b != "" {
		return b
	}
	return DefaultBase
}

// Mount serves the UI under Base/ and the document at Base/doc.json.
// Nothing is registered unless Enabled.
func Mount(r phttp.Router, opt Options) {
	if !opt.Enabled {
		return
	}
	base := opt.base()
	docURL := base + "/doc.json"

	r.Get(base, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, base+"/", http.StatusPermanentRedirect)
	})
	r.Get(docURL, serveDocJSON())
	r.Handle(base+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InfoInstanceName),
		httpSwagger.URL(docURL),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	))
}
