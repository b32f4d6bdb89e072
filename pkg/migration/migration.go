// Package migration runs and tracks schema migrations.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20260101000001_create_products_table", &CreateProductsTable{})
//	}
//
// and are driven from the CLI:
//
//	catalog migrate             // run all pending
//	catalog migrate:rollback    // rollback last batch
//	catalog migrate:status
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(db *gorm.DB) error
	// Down reverses the migration.
	Down(db *gorm.DB) error
}

// record is the row stored in the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "catalog_migrations" }

// ErrNotRegistered is returned by Rollback when the tracking table names a
// migration the binary does not know about.
var ErrNotRegistered = errors.New("migration not registered")

type entry struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []entry
)

// Register adds a migration to the global registry. name must be
// timestamp-prefixed; pending migrations run in name order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, entry{name: name, m: m})
}

func registered() []entry {
	mu.Lock()
	out := make([]entry, len(registry))
	copy(out, registry)
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// StatusLine describes one registered migration.
type StatusLine struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner that reports progress on stdout.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: os.Stdout}
}

// WithOutput redirects progress lines. Pass io.Discard to silence them.
func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&record{})
}

// Pending returns the migrations that have not yet been run, in name order.
func (r *Runner) Pending() ([]string, error) {
	ran, err := r.ranSet()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range registered() {
		if _, ok := ran[e.name]; !ok {
			names = append(names, e.name)
		}
	}
	return names, nil
}

// Run executes all pending migrations as one batch. Each migration and its
// tracking row commit in their own transaction.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	ran, err := r.ranSet()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	var pending []entry
	for _, e := range registered() {
		if _, ok := ran[e.name]; !ok {
			pending = append(pending, e)
		}
	}

	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, e := range pending {
		logger.Info("migration: running", "name", e.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return fmt.Errorf("up: %w", err)
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", e.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", e.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration in the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration)
	for _, e := range registered() {
		byName[e.name] = e.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: rollback %s: %w", rec.Name, ErrNotRegistered)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("down: %w", err)
			}
			return tx.Delete(&rec).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", rec.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return nil
}

// Status lists every registered migration with its batch.
func (r *Runner) Status() ([]StatusLine, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}

	ran, err := r.ranSet()
	if err != nil {
		return nil, err
	}

	var lines []StatusLine
	for _, e := range registered() {
		rec, ok := ran[e.name]
		lines = append(lines, StatusLine{Name: e.name, Ran: ok, Batch: rec.Batch})
	}
	return lines, nil
}

// PrintStatus writes Status as a table.
func (r *Runner) PrintStatus() error {
	lines, err := r.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	for _, l := range lines {
		if l.Ran {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", l.Name, "Ran", l.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", l.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) ranSet() (map[string]record, error) {
	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var batch int
	row := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0)").Row()
	if err := row.Scan(&batch); err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return batch, nil
}
