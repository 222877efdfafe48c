// Package database is the catalog's Postgres-backed persistence layer:
// connection setup, the migration script, and the repository
// implementing the cascade and ingest Store interfaces against
// anisong_view.
package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

var DB *sql.DB

// InitDB opens the connection pool against databaseURL and verifies it
// with a ping. The pool is bounded per the concurrency contract: a
// handful of connections is enough since every query is short-lived.
func InitDB(databaseURL string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	log.Println("database connection established")
	return nil
}

// Close closes the connection pool.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// Migrate applies the embedded schema. It runs at every startup; every
// statement in schema.sql is idempotent, so this is safe to repeat.
func Migrate() error {
	if _, err := DB.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Println("database schema applied")
	return nil
}
