// Package module wires cockpit into the API using modkit
package module

import (
	"net/http"

	modkit "cockpit/internal/modkit"
	"cockpit/internal/modkit/httpkit"
	str "cockpit/internal/platform/strings"
	cockpithttp "cockpit/internal/services/api/cockpit/http"
	cockpitrepo "cockpit/internal/services/api/cockpit/repo"
	cockpitsvc "cockpit/internal/services/api/cockpit/service"
)

// Module implements the cockpit module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc cockpitsvc.Service
}

// New constructs the cockpit module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("cockpit"), modkit.WithPrefix("/cockpit")}, opts...)...)

	repo := cockpitrepo.NewPG()
	svc := cockpitsvc.New(deps.PG, repo, cockpitsvc.Options{
		OwnerID:    deps.Cfg.MustString("OWNER_ID"),
		WeeklyGoal: deps.Cfg.MayInt("WEEKLY_GOAL", 2),
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptCockpitPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		cockpithttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
