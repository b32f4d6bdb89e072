package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpers(t *testing.T) {
	cases := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		body   string
	}{
		{"created", func(w http.ResponseWriter) { Created(w, map[string]int{"id": 1}) }, 201, `{"id":1}`},
		{"success list", func(w http.ResponseWriter) { Success(w, []string{}) }, 200, `[]`},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "Product not found") }, 404, `{"message":"Product not found"}`},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "Invalid company key") }, 401, `{"message":"Invalid company key"}`},
		{"detail", func(w http.ResponseWriter) {
			ErrorWithDetail(w, 400, "Invalid request body", errors.New("unexpected EOF"))
		}, 400, `{"message":"Invalid request body","error":"unexpected EOF"}`},
		{"detail nil error", func(w http.ResponseWriter) { ErrorWithDetail(w, 500, "Internal error", nil) }, 500, `{"message":"Internal error"}`},
		{"validation", func(w http.ResponseWriter) { ValidationError(w, map[string]string{"name": "required"}) }, 422,
			`{"message":"Validation failed","errors":{"name":"required"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.write(rec)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
