package testkit_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

// notes is a tiny stateful handler: POST /notes stores a note and GET
// /notes/{id} returns it.
type notes struct {
	mu    sync.Mutex
	items []string
}

func (n *notes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/notes":
		var body struct{ Text string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		n.items = append(n.items, body.Text)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": len(n.items), "text": body.Text, "tags": []string{}})
	case r.Method == http.MethodGet && r.URL.Path == "/notes/1" && len(n.items) > 0:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "text": n.items[0]})
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunCapturesBetweenSteps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "create_note_req.json", `{"text":"hello"}`)
	path := writeFile(t, dir, "notes.json", `[
	  {
	    "name": "create",
	    "requestMethod": "POST",
	    "requestUrl": "/notes",
	    "requestFileName": "create_note_req.json",
	    "expectedCode": 201,
	    "responseBody": {"text": "hello", "tags": []},
	    "capture": {"noteId": "id"}
	  },
	  {
	    "name": "show",
	    "requestUrl": "/notes/{{noteId}}",
	    "expectedCode": 200,
	    "responseBody": {"id": "{{noteId}}", "text": "hello"}
	  }
	]`)

	testkit.Run(t, &notes{}, path)
}

func TestLoadScenariosAcceptsSingleObject(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "one.json", `{"name":"only","requestUrl":"/x","expectedCode":404}`)

	got, err := testkit.LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GET", got[0].RequestMethod)
}

func TestLoadScenariosRejectsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `[{"name":"no url","expectedCode":200}]`)

	_, err := testkit.LoadScenarios(path)
	assert.ErrorContains(t, err, "requestUrl is required")
}

func TestListDirSkipsBodyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_flow.json", `[]`)
	writeFile(t, dir, "a_flow.json", `[]`)
	writeFile(t, dir, "a_flow_req.json", `{}`)
	writeFile(t, dir, "a_flow_res.json", `{}`)

	files, err := testkit.ListDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, strings.HasSuffix(files[0], "a_flow.json"))
	assert.True(t, strings.HasSuffix(files[1], "b_flow.json"))
}

func TestDiffJSONSubset(t *testing.T) {
	decode := func(s string) interface{} {
		var v interface{}
		require.NoError(t, json.Unmarshal([]byte(s), &v))
		return v
	}

	actual := decode(`{"id":1,"name":"Runner","variants":[{"id":3}],"brands":null}`)

	assert.Empty(t, testkit.DiffJSON("", decode(`{"name":"Runner"}`), actual))
	assert.Empty(t, testkit.DiffJSON("", decode(`{"variants":[{"id":3}]}`), actual))
	assert.NotEmpty(t, testkit.DiffJSON("", decode(`{"name":"Walker"}`), actual))
	assert.NotEmpty(t, testkit.DiffJSON("", decode(`{"variants":[]}`), actual))
	assert.NotEmpty(t, testkit.DiffJSON("", decode(`{"brands":[]}`), actual))
	assert.NotEmpty(t, testkit.DiffJSON("", decode(`{"missing":1}`), actual))
}

func TestLookup(t *testing.T) {
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"variants":[{"skus":[{"id":9}]}]}`), &v))

	got, ok := testkit.Lookup(v, "variants.0.skus.0.id")
	require.True(t, ok)
	assert.EqualValues(t, 9, got)

	_, ok = testkit.Lookup(v, "variants.1")
	assert.False(t, ok)
}
