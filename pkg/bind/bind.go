// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// ErrMalformedBody wraps every decode failure so callers can answer 400.
var ErrMalformedBody = errors.New("malformed request body")

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES (default 4 MB). Unknown fields are
// ignored.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) wrapping ErrMalformedBody when the body cannot be decoded.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: body too large (max %d bytes)", ErrMalformedBody, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}
