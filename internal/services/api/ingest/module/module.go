// Package module wires ingest into the API using modkit
package module

import (
	"crypto/subtle"
	"net/http"

	modkit "cockpit/internal/modkit"
	"cockpit/internal/modkit/httpkit"
	perr "cockpit/internal/platform/errors"
	str "cockpit/internal/platform/strings"
	ingesthttp "cockpit/internal/services/api/ingest/http"
	ingestrepo "cockpit/internal/services/api/ingest/repo"
	ingestsvc "cockpit/internal/services/api/ingest/service"
)

// Module implements the ingest module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc ingestsvc.Service
}

// New constructs the ingest module
// endpoints require the shared INGEST_SECRET bearer token when one is set
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("ingest"), modkit.WithPrefix("/ingest")}, opts...)...)

	owner := deps.Cfg.MustString("OWNER_ID")
	repo := ingestrepo.NewPG()
	svc := ingestsvc.New(deps.PG, repo, ingestsvc.Options{OwnerID: owner})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptIngestPort{svc: svc}

	port := tokenPort(deps.Cfg.MayString("INGEST_SECRET", ""), owner)

	external := b.Register
	m.register = func(r httpkit.Router) {
		if port == nil {
			ingesthttp.Register(r, m.svc)
		} else {
			httpkit.Protected(r, port, func(gr httpkit.Router) {
				ingesthttp.Register(gr, m.svc)
			})
		}
		if external != nil {
			external(r)
		}
	}
	return m
}

// tokenPort builds a bearer auth port over the shared secret
// a blank secret disables auth, meant for local development only
func tokenPort(secret, owner string) *httpkit.Port {
	if secret == "" {
		return nil
	}
	return httpkit.NewPortFunc(func(token string) (string, string, error) {
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return "", "", perr.Unauthorizedf("invalid bearer token")
		}
		return owner, "", nil
	})
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
