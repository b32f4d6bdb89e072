// Package testkit provides a JSON-scenario-driven REST API testing framework.
//
// A scenario file holds an array of steps fired in order against one
// http.Handler, so a flow (create, read, update, delete) shares state:
//
//	[
//	  {
//	    "name": "create product",
//	    "requestMethod": "POST",
//	    "requestUrl": "/products",
//	    "headers": {"x-company-key": "acme"},
//	    "requestFileName": "create_product_req.json",
//	    "expectedCode": 201,
//	    "responseBody": {"name": "Runner"},
//	    "capture": {"productId": "id"}
//	  },
//	  {
//	    "name": "show product",
//	    "requestUrl": "/products/{{productId}}",
//	    "headers": {"x-company-key": "acme"},
//	    "expectedCode": 200
//	  }
//	]
//
// Placeholders live inside JSON strings. Scalars compare by their printed
// form, so "{{productId}}" matches a numeric id.
//
// Expected bodies are matched as a subset: every key present in the
// expectation must match, extra keys in the response are ignored, arrays must
// have the same length.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario describes a single REST API call and its expected outcome.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`   // defaults to GET
	RequestURL      string            `json:"requestUrl"`      // may contain {{var}}
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline body
	RequestFileName string            `json:"requestFileName"` // body file, relative to the scenario file
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int             `json:"expectedCode"`
	ResponseBody     json.RawMessage `json:"responseBody"`     // inline expected subset
	ResponseFileName string          `json:"responseFileName"` // expected subset file

	// Capture stores response values for later steps: var name → dotted path
	// into the response ("id", "variants.0.skus.0.id").
	Capture map[string]string `json:"capture"`

	dir string
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenarios reads a file holding one scenario object or an array of them.
func LoadScenarios(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var scenarios []*Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		var single Scenario
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
		}
		scenarios = []*Scenario{&single}
	}

	dir := filepath.Dir(abs)
	for i, s := range scenarios {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: invalid scenario %d in %q: %w", i, abs, err)
		}
		s.dir = dir
	}
	return scenarios, nil
}

// ListDir returns the *.json scenario files in dir, sorted by name. Files
// ending in _req.json or _res.json are body files and are skipped.
func ListDir(dir string) ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var out []string
	for _, p := range entries {
		if isBodyFile(p) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files found in %q", dir)
	}
	sort.Strings(out)
	return out, nil
}

func isBodyFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{"_req.json", "_res.json"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

// requestBody returns the inline body, or the body file's contents.
func (s *Scenario) requestBody() ([]byte, error) {
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	return s.readFile(s.RequestFileName)
}

// expectedBody returns the inline expectation, or the response file's contents.
func (s *Scenario) expectedBody() ([]byte, error) {
	if len(s.ResponseBody) > 0 {
		return s.ResponseBody, nil
	}
	return s.readFile(s.ResponseFileName)
}

func (s *Scenario) readFile(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.dir, name)
	}
	return os.ReadFile(name)
}
