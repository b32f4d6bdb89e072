package app

// pkg/app/kernel.go builds the router from the Application config.

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

const healthTimeout = 2 * time.Second

func (a *Application) buildRouter() *router.Router {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics, for accurate total latency
	//  2. Recovery
	//  3. Request ID, before anything logs
	//  4. Logger, tagged with the request id
	//  5. CORS
	//  6. Rate limiter
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(a.opts.CORSOrigins...)))
	r.Use(middleware.RateLimit(a.opts.RateLimitPerMinute, time.Minute))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", a.health)

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}

func (a *Application) health(w http.ResponseWriter, r *http.Request) {
	if a.probe != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := a.probe(ctx); err != nil {
			response.ErrorWithDetail(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	response.Success(w, map[string]string{"status": "ok"})
}
