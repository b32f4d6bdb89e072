// Package app assembles the catalog HTTP application.
//
// It holds the global middleware stack and the ambient routes (/metrics,
// /healthz). Product routes are supplied by the caller, so this package has
// no imports of app/ code:
//
//	application := app.New(app.OptionsFromConfig()).
//	    WithProbe(func(ctx context.Context) error { return database.Ping(ctx, db) }).
//	    Routes(func(r *router.Router) {
//	        routes.RegisterAPI(r, products, config.CompanyKeys())
//	    })
//	err := application.Serve(ctx, ":"+config.AppPort())
package app

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// ProbeFunc reports whether a dependency the service needs is reachable.
type ProbeFunc func(ctx context.Context) error

// Options configures the global middleware.
type Options struct {
	CORSOrigins        []string
	RateLimitPerMinute int
}

// OptionsFromConfig reads CORS_ALLOWED_ORIGINS and RATE_LIMIT_PER_MINUTE.
func OptionsFromConfig() Options {
	return Options{
		CORSOrigins:        config.CORSAllowedOrigins(),
		RateLimitPerMinute: config.RateLimitPerMinute(),
	}
}

// Application is the central configuration object for the service.
// Build one with New(), attach routes, then call Handler() or Serve().
type Application struct {
	opts      Options
	probe     ProbeFunc
	routesFns []func(*router.Router)
}

// New creates an Application.
func New(opts Options) *Application {
	return &Application{opts: opts}
}

// Routes registers a route-registration callback that runs when the handler
// is built. Callbacks run in the order they were added.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// WithProbe makes /healthz answer 503 while probe fails.
func (a *Application) WithProbe(probe ProbeFunc) *Application {
	a.probe = probe
	return a
}

// Handler builds the full middleware stack and routes.
func (a *Application) Handler() http.Handler {
	return a.buildRouter().Handler()
}

// RouteList returns every registered route, sorted by path.
func (a *Application) RouteList() []router.RouteInfo {
	return a.buildRouter().Routes()
}
