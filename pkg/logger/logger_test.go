package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestInitPicksHandlerByEnv(t *testing.T) {
	prev := L
	t.Cleanup(func() { L = prev; slog.SetDefault(prev) })

	var buf bytes.Buffer
	closer, err := Init(Options{Env: "production", Output: &buf})
	require.NoError(t, err)
	defer closer()

	Debug("hidden")
	Info("visible", "k", "v")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["msg"])
	assert.Equal(t, "v", line["k"])

	buf.Reset()
	_, err = Init(Options{Env: "local", Output: &buf})
	require.NoError(t, err)
	Debug("shown in dev")
	assert.Contains(t, buf.String(), "msg=\"shown in dev\"")
}

func TestWithCtx(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	tagged := L.With("request_id", "abc")
	ctx := InjectLogger(context.Background(), tagged)
	assert.Same(t, tagged, WithCtx(ctx))
}
