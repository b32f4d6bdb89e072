package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/config"
)

type line struct {
	Size  string `json:"size"  validate:"required"`
	Stock int    `json:"stock" validate:"gte=0"`
}

type payload struct {
	Name  string `json:"name"  validate:"required"`
	Lines []line `json:"lines" validate:"required,dive"`
}

func request(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestJSONDecodesAndValidates(t *testing.T) {
	var p payload
	errs, err := JSON(request(`{"name":"x","lines":[{"size":"40"}],"ignored":true}`), &p)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "40", p.Lines[0].Size)

	errs, err = JSON(request(`{"lines":[{"stock":-1}]}`), &payload{})
	require.NoError(t, err)
	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Contains(t, errs, "lines[0].size")
	assert.Contains(t, errs, "lines[0].stock")
}

func TestJSONMalformed(t *testing.T) {
	_, err := JSON(request(`{"name":`), &payload{})
	assert.ErrorIs(t, err, ErrMalformedBody)

	_, err = JSON(request(`{"name": 12}`), &payload{})
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestJSONBodyLimit(t *testing.T) {
	config.Set("MAX_BODY_BYTES", "16")
	t.Cleanup(func() { config.Set("MAX_BODY_BYTES", "") })

	_, err := JSON(request(`{"name":"`+strings.Repeat("a", 64)+`"}`), &payload{})
	assert.ErrorIs(t, err, ErrMalformedBody)
	assert.ErrorContains(t, err, "body too large")
}
