// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register().
// Import it for side effects wherever migrations must be known: the CLI and
// tests that need a real schema.
package migrations
