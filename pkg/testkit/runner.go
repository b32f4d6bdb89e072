package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// ─── Public API ───────────────────────────────────────────────────────────────

// Run executes the steps in scenarioPath in order. Captured values are shared
// between the steps of one file. A failing step stops the rest of the file.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	scenarios, err := LoadScenarios(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	vars := map[string]string{}
	for _, s := range scenarios {
		if !t.Run(s.Name, func(t *testing.T) { runScenario(t, handler, s, vars) }) {
			return
		}
	}
}

// RunDir runs every scenario file in dir, in name order, as a subtest.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	files, err := ListDir(dir)
	if err != nil {
		t.Fatalf("testkit: %v", err)
	}

	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		t.Run(name, func(t *testing.T) {
			Run(t, handler, path)
		})
	}
}

// ─── Internal execution ───────────────────────────────────────────────────────

func runScenario(t *testing.T, handler http.Handler, s *Scenario, vars map[string]string) {
	t.Helper()

	// ── 1. Build request ──────────────────────────────────────────────────

	raw, err := s.requestBody()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}

	var body io.Reader
	if len(raw) > 0 {
		body = bytes.NewReader(expand(raw, vars))
	}

	method := strings.ToUpper(s.RequestMethod)
	url := string(expand([]byte(s.RequestURL), vars))

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, string(expand([]byte(v), vars)))
	}

	// ── 2. Fire ───────────────────────────────────────────────────────────

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// ── 3. Assert ─────────────────────────────────────────────────────────

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())

	expected, err := s.expectedBody()
	if err != nil {
		t.Fatalf("[%s] read expected body: %v", s.Name, err)
	}
	if len(expected) > 0 {
		AssertJSONBody(t, s, expand(expected, vars), rec.Body.Bytes())
	}

	// ── 4. Capture ────────────────────────────────────────────────────────

	if len(s.Capture) == 0 {
		return
	}

	var decoded interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("[%s] capture: response is not JSON: %v", s.Name, err)
	}
	for name, path := range s.Capture {
		v, ok := Lookup(decoded, path)
		if !ok {
			t.Fatalf("[%s] capture %q: path %q not found", s.Name, name, path)
		}
		vars[name] = scalar(v)
	}
}

// expand replaces every {{name}} with its captured value.
func expand(in []byte, vars map[string]string) []byte {
	if len(vars) == 0 || !bytes.Contains(in, []byte("{{")) {
		return in
	}
	out := string(in)
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return []byte(out)
}

// Lookup walks a decoded JSON value by dotted path. Numeric segments index
// arrays.
func Lookup(v interface{}, path string) (interface{}, bool) {
	if path == "" {
		return v, true
	}
	for _, seg := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]interface{}:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			v = next
		case []interface{}:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, true
}

func scalar(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
