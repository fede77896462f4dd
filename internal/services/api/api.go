// Package api provides the HTTP API for the application
package api

import (
	"cockpit/internal/platform/config"
	"cockpit/internal/platform/logger"
	phttp "cockpit/internal/platform/net/http"
	"cockpit/internal/platform/store"

	"cockpit/internal/modkit"
	"cockpit/internal/modkit/httpkit"
	"cockpit/internal/modkit/module"
	"cockpit/internal/modkit/swaggerkit"

	cockpitmod "cockpit/internal/services/api/cockpit/module"
	ingestmod "cockpit/internal/services/api/ingest/module"
	metamod "cockpit/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	mods := []module.Module{
		metamod.New(deps),
		cockpitmod.New(deps),
		ingestmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
