// Package api provides the HTTP API for the application
package api

import (
	"context"
	"time"

	"seqfeat/internal/platform/config"
	phttp "seqfeat/internal/platform/net/http"
	"seqfeat/internal/platform/store"

	"seqfeat/internal/modkit"
	"seqfeat/internal/modkit/httpkit"
	"seqfeat/internal/modkit/module"
	"seqfeat/internal/modkit/swaggerkit"

	metamod "seqfeat/internal/services/api/meta/module"
	featuresmod "seqfeat/internal/services/features/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
}

// Mount mounts the API service onto the given router
// and creates the features table in each configured database
func Mount(ctx context.Context, r phttp.Router, opt Options) error {
	deps := modkit.DepsFrom(opt.Config, opt.Store)

	features := featuresmod.New(deps, featuresmod.Options{})
	if err := features.EnsureSchema(ctx); err != nil {
		return err
	}

	mods := []module.Module{
		metamod.New(deps),
		features,
	}

	ac := opt.Config.Prefix("CORE_API_")
	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: ac.MayCSV("CORS_ORIGINS", nil),
		Timeout: ac.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		Slow:    ac.MayDuration("SLOW_REQUEST", time.Second),
	})

	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled: ac.MayBool("SWAGGER", false),
		Base:    ac.MayString("DOCS_PATH", swaggerkit.DefaultBase),
	})

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m)
			m.MountRoutes(api)
		}
	})
	return nil
}
