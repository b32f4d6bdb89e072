package middleware

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// CompanyKeyHeader carries the caller's shared secret.
const CompanyKeyHeader = "x-company-key"

// CompanyKey rejects requests whose x-company-key header is missing or not
// in keys with 401 {"message": "Invalid company key"}. An empty allow-list
// rejects everything.
func CompanyKey(keys []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		allowed[k] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(CompanyKeyHeader)
			if _, ok := allowed[key]; key == "" || !ok {
				logger.WithCtx(r.Context()).Warn("company key rejected", "path", r.URL.Path, "present", key != "")
				response.Unauthorized(w, "Invalid company key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
