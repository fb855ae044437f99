// Package db persists generated challenges: the master catalog, the
// per-challenge answer-key tables and the run metadata that ties a
// dataset back to its seed and configuration.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open opens the challenge database, creating it if needed, and applies
// any pending schema migrations.
func Open(path string) (*DB, error) {
	db, err := openRaw(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// openRaw opens the database without touching the schema, for the
// migrate subcommand which manages versions itself.
func openRaw(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db: opening %s: %w", path, err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("db: enabling foreign keys: %w", err)
	}
	return &DB{sqlDB}, nil
}

// Run records one generation run.
type Run struct {
	ID         string
	Seed       int64
	Challenges int
	Sources    int
}

// RecordRun inserts the run metadata row.
func (db *DB) RecordRun(r Run) error {
	_, err := db.Exec(
		`INSERT INTO runs (run_id, seed, challenges, sources) VALUES (?, ?, ?, ?)`,
		r.ID, r.Seed, r.Challenges, r.Sources,
	)
	if err != nil {
		return fmt.Errorf("db: recording run %s: %w", r.ID, err)
	}
	return nil
}

// Runs lists recorded runs, most recent first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query(`SELECT run_id, seed, challenges, sources FROM runs ORDER BY created_at DESC, run_id LIMIT 100`)
	if err != nil {
		return nil, fmt.Errorf("db: listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seed, &r.Challenges, &r.Sources); err != nil {
			return nil, fmt.Errorf("db: scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: listing runs: %w", err)
	}
	return runs, nil
}
