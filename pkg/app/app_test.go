package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/router"
)

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthFollowsProbe(t *testing.T) {
	var probeErr error
	h := New(Options{RateLimitPerMinute: 100}).
		WithProbe(func(context.Context) error { return probeErr }).
		Handler()

	rec := serve(h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	probeErr = errors.New("database is locked")
	rec = serve(h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"Database unavailable","error":"database is locked"}`, rec.Body.String())
}

func TestAmbientRoutes(t *testing.T) {
	h := New(Options{RateLimitPerMinute: 100}).Handler()

	rec := serve(h, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog_http_requests_in_flight")

	rec = serve(h, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, rec.Body.String())

	rec = serve(h, http.MethodPost, "/healthz")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"message":"Method not allowed"}`, rec.Body.String())

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouteListIncludesRegisteredRoutes(t *testing.T) {
	a := New(Options{}).Routes(func(r *router.Router) {
		r.Group("/products").Get("/", "products.index", func(http.ResponseWriter, *http.Request) {})
	})

	assert.Equal(t, []router.RouteInfo{
		{Method: http.MethodGet, Path: "/healthz", Name: "health"},
		{Method: http.MethodGet, Path: "/metrics", Name: "metrics"},
		{Method: http.MethodGet, Path: "/products", Name: "products.index"},
	}, a.RouteList())
}
