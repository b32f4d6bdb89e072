package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useFiles loads the given files in place of config/app.json and .env for
// the rest of the test.
func useFiles(t *testing.T, jsonBody, envBody string) {
	t.Helper()
	_ = Load()

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")
	if jsonBody != "" {
		require.NoError(t, os.WriteFile(jsonPath, []byte(jsonBody), 0o644))
	}
	if envBody != "" {
		require.NoError(t, os.WriteFile(envPath, []byte(envBody), 0o644))
	}

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, "none.env")) })
}

func TestDefaults(t *testing.T) {
	useFiles(t, "", "")

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, "catalog.db", DatabaseDSN())
	assert.Equal(t, "8080", AppPort())
	assert.Empty(t, CompanyKeys())
	assert.True(t, RetainUnpricedVariants())
	assert.Equal(t, 200, RateLimitPerMinute())
	assert.EqualValues(t, 4<<20, MaxBodyBytes())
	assert.Equal(t, []string{"*"}, CORSAllowedOrigins())
	assert.False(t, DatabaseDebug())
}

func TestFilesAndEnvironmentPrecedence(t *testing.T) {
	t.Setenv("APP_PORT", "9090")

	useFiles(t,
		`{"app_port": 7000, "company_keys": ["acme", "northwind"], "db_driver": "postgres", "catalog_retain_unpriced_variants": false}`,
		"RATE_LIMIT_PER_MINUTE=50\nDB_DRIVER=mysql\n",
	)

	assert.Equal(t, "9090", AppPort(), "process env wins")
	assert.Equal(t, "mysql", DatabaseDriver(), ".env wins over app.json")
	assert.Contains(t, DatabaseDSN(), "tcp(127.0.0.1:3306)")
	assert.Equal(t, []string{"acme", "northwind"}, CompanyKeys())
	assert.False(t, RetainUnpricedVariants())
	assert.Equal(t, 50, RateLimitPerMinute())
}

func TestInvalidValuesFallBack(t *testing.T) {
	useFiles(t, "", "DB_DRIVER=oracle\nRATE_LIMIT_PER_MINUTE=-3\nCATALOG_RETAIN_UNPRICED_VARIANTS=maybe\n")

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, 200, RateLimitPerMinute())
	assert.True(t, RetainUnpricedVariants())
}

func TestSetOverrides(t *testing.T) {
	useFiles(t, "", "")

	Set("company_keys", "one, two ,")
	assert.Equal(t, []string{"one", "two"}, CompanyKeys())
	assert.Equal(t, "fallback", Get("NOT_A_KEY", "fallback"))
}

func TestMalformedJSONIsReported(t *testing.T) {
	_ = Load()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	err := loadFromFiles(path, filepath.Join(dir, ".env"))
	assert.ErrorContains(t, err, "decode")
}
