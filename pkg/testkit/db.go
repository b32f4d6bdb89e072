package testkit

import (
	"fmt"
	"io"
	"regexp"
	"testing"
	"time"

	"gorm.io/gorm"

	// Registers the catalog schema with the migration runner.
	_ "github.com/shashiranjanraj/catalog/database/migrations"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// OpenDB returns a migrated in-memory SQLite database private to t. It is
// closed when the test ends.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := database.Open(database.Config{
		Driver:          "sqlite",
		DSN:             dsn,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Hour,
	})
	if err != nil {
		t.Fatalf("testkit: open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := migration.New(db).WithOutput(io.Discard).Run(); err != nil {
		t.Fatalf("testkit: migrate: %v", err)
	}
	return db
}
