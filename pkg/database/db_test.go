package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, `unsupported DB_DRIVER "oracle"`)
}

func TestOpenPingClose(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: "file:dbtest?mode=memory&cache=shared"})
	require.NoError(t, err)

	require.NoError(t, Ping(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 25, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Close(db))
	assert.Error(t, Ping(context.Background(), db))
}

func TestBuildDialectorNames(t *testing.T) {
	for _, driver := range []string{"sqlite", "postgres", "mysql", "sqlserver"} {
		d, err := buildDialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}
}
