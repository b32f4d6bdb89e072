package migration

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/pkg/database"
)

type table struct {
	name string
	fail bool
}

func (m table) Up(db *gorm.DB) error {
	if m.fail {
		return errors.New("boom")
	}
	return db.Exec(fmt.Sprintf("CREATE TABLE %s (id INTEGER PRIMARY KEY)", m.name)).Error
}

func (m table) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.name)
}

// isolate swaps the global registry for the duration of a test.
func isolate(t *testing.T, entries ...entry) {
	t.Helper()
	mu.Lock()
	saved := registry
	registry = nil
	mu.Unlock()

	for _, e := range entries {
		Register(e.name, e.m)
	}
	t.Cleanup(func() {
		mu.Lock()
		registry = saved
		mu.Unlock()
	})
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Driver:          "sqlite",
		DSN:             "file:" + t.Name() + "?mode=memory&cache=shared",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestRunStatusRollback(t *testing.T) {
	isolate(t,
		entry{"002_widgets", table{name: "widgets"}},
		entry{"001_gadgets", table{name: "gadgets"}},
	)
	db := openDB(t)
	var out bytes.Buffer
	r := New(db).WithOutput(&out)

	require.NoError(t, r.EnsureTable())
	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_gadgets", "002_widgets"}, pending)

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable("gadgets"))
	assert.True(t, db.Migrator().HasTable("widgets"))

	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	// a later registration lands in the next batch
	Register("003_sprockets", table{name: "sprockets"})
	require.NoError(t, r.Run())

	lines, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, []StatusLine{
		{Name: "001_gadgets", Ran: true, Batch: 1},
		{Name: "002_widgets", Ran: true, Batch: 1},
		{Name: "003_sprockets", Ran: true, Batch: 2},
	}, lines)

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable("sprockets"))
	assert.True(t, db.Migrator().HasTable("widgets"))

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable("widgets"))
	assert.False(t, db.Migrator().HasTable("gadgets"))

	out.Reset()
	require.NoError(t, r.Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")

	pending, err = r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestRunStopsAtFailingMigration(t *testing.T) {
	isolate(t,
		entry{"001_gadgets", table{name: "gadgets"}},
		entry{"002_broken", table{name: "broken", fail: true}},
	)
	db := openDB(t)
	r := New(db).WithOutput(&bytes.Buffer{})

	err := r.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"002_broken"}, pending)
}

func TestRollbackUnknownMigration(t *testing.T) {
	isolate(t, entry{"001_gadgets", table{name: "gadgets"}})
	db := openDB(t)
	r := New(db).WithOutput(&bytes.Buffer{})
	require.NoError(t, r.Run())

	isolate(t)
	assert.ErrorIs(t, r.Rollback(), ErrNotRegistered)
}

func TestPrintStatus(t *testing.T) {
	isolate(t, entry{"001_gadgets", table{name: "gadgets"}})
	db := openDB(t)
	var out bytes.Buffer
	r := New(db).WithOutput(&out)

	require.NoError(t, r.PrintStatus())
	assert.Contains(t, out.String(), "Pending")

	require.NoError(t, r.Run())
	out.Reset()
	require.NoError(t, r.PrintStatus())
	assert.Regexp(t, `001_gadgets\s+Ran\s+1`, out.String())
}
