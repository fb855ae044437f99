package db

import (
	"fmt"

	"github.com/warpfield-data/warpfield/internal/catalog"
)

// ReplaceSources rewrites the master catalog table inside one
// transaction.
func (db *DB) ReplaceSources(sources []catalog.Source) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("db: beginning sources transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sources`); err != nil {
		return fmt.Errorf("db: clearing sources: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO sources (catalog_id, ra, dec) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("db: preparing source insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sources {
		if _, err := stmt.Exec(s.ID, s.RA, s.Dec); err != nil {
			return fmt.Errorf("db: inserting source %d: %w", s.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: committing sources: %w", err)
	}
	return nil
}

// Sources reads the master catalog back in catalog order.
func (db *DB) Sources() ([]catalog.Source, error) {
	rows, err := db.Query(`SELECT catalog_id, ra, dec FROM sources ORDER BY catalog_id`)
	if err != nil {
		return nil, fmt.Errorf("db: listing sources: %w", err)
	}
	defer rows.Close()

	var sources []catalog.Source
	for rows.Next() {
		var s catalog.Source
		if err := rows.Scan(&s.ID, &s.RA, &s.Dec); err != nil {
			return nil, fmt.Errorf("db: scanning source: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: listing sources: %w", err)
	}
	return sources, nil
}
