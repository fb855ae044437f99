package db

import (
	"fmt"

	"github.com/warpfield-data/warpfield/internal/challenge"
	"github.com/warpfield-data/warpfield/internal/distortion"
)

// SaveChallenge stores one generated challenge in a single transaction:
// the challenge row, its keyword block and both answer-key tables.
// Saving the same challenge index again replaces the previous dataset.
func (db *DB) SaveChallenge(runID string, ch *challenge.Challenge) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("db: beginning challenge transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"challenge_keywords", "positions", "attitudes", "challenges"} {
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE challenge_id = ?`, table), ch.Index); err != nil {
			return fmt.Errorf("db: clearing %s for challenge %d: %w", table, ch.Index, err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO challenges (challenge_id, run_id, plates, pointing_ra, pointing_dec, position_angle)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ch.Index, runID, ch.Plates, ch.Pointing.Lon, ch.Pointing.Lat, ch.PA0,
	)
	if err != nil {
		return fmt.Errorf("db: inserting challenge %d: %w", ch.Index, err)
	}

	kwStmt, err := tx.Prepare(`INSERT INTO challenge_keywords (challenge_id, ord, keyword, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("db: preparing keyword insert: %w", err)
	}
	defer kwStmt.Close()
	for i, kw := range ch.Keywords {
		if _, err := kwStmt.Exec(ch.Index, i, kw.Name, kw.Value); err != nil {
			return fmt.Errorf("db: inserting keyword %s: %w", kw.Name, err)
		}
	}

	posStmt, err := tx.Prepare(
		`INSERT INTO positions (challenge_id, field, catalog_id, x, y, x_orig, y_orig, ra, dec)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("db: preparing position insert: %w", err)
	}
	defer posStmt.Close()
	for i, p := range ch.Positions {
		if _, err := posStmt.Exec(ch.Index, p.Field, p.CatalogID, p.X, p.Y, p.XOrig, p.YOrig, p.RA, p.Dec); err != nil {
			return fmt.Errorf("db: inserting position row %d: %w", i, err)
		}
	}

	attStmt, err := tx.Prepare(`INSERT INTO attitudes (challenge_id, field, ra, dec, pa) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("db: preparing attitude insert: %w", err)
	}
	defer attStmt.Close()
	for _, a := range ch.Attitudes {
		if _, err := attStmt.Exec(ch.Index, a.Field, a.RA, a.Dec, a.PA); err != nil {
			return fmt.Errorf("db: inserting attitude for field %d: %w", a.Field, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: committing challenge %d: %w", ch.Index, err)
	}
	return nil
}

// Positions reads the answer-key rows of one challenge back in stored
// order.
func (db *DB) Positions(challengeID int) ([]challenge.Position, error) {
	rows, err := db.Query(
		`SELECT x, y, catalog_id, x_orig, y_orig, ra, dec, field
		 FROM positions WHERE challenge_id = ? ORDER BY rowid`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("db: listing positions: %w", err)
	}
	defer rows.Close()

	var positions []challenge.Position
	for rows.Next() {
		var p challenge.Position
		if err := rows.Scan(&p.X, &p.Y, &p.CatalogID, &p.XOrig, &p.YOrig, &p.RA, &p.Dec, &p.Field); err != nil {
			return nil, fmt.Errorf("db: scanning position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: listing positions: %w", err)
	}
	return positions, nil
}

// Attitudes reads the attitude table of one challenge in field order.
func (db *DB) Attitudes(challengeID int) ([]challenge.Attitude, error) {
	rows, err := db.Query(
		`SELECT field, ra, dec, pa FROM attitudes WHERE challenge_id = ? ORDER BY field`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("db: listing attitudes: %w", err)
	}
	defer rows.Close()

	var attitudes []challenge.Attitude
	for rows.Next() {
		var a challenge.Attitude
		if err := rows.Scan(&a.Field, &a.RA, &a.Dec, &a.PA); err != nil {
			return nil, fmt.Errorf("db: scanning attitude: %w", err)
		}
		attitudes = append(attitudes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: listing attitudes: %w", err)
	}
	return attitudes, nil
}

// Keywords reads a challenge's keyword block back in emission order.
func (db *DB) Keywords(challengeID int) ([]distortion.Keyword, error) {
	rows, err := db.Query(
		`SELECT keyword, value FROM challenge_keywords WHERE challenge_id = ? ORDER BY ord`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("db: listing keywords: %w", err)
	}
	defer rows.Close()

	var kws []distortion.Keyword
	for rows.Next() {
		var kw distortion.Keyword
		if err := rows.Scan(&kw.Name, &kw.Value); err != nil {
			return nil, fmt.Errorf("db: scanning keyword: %w", err)
		}
		kws = append(kws, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: listing keywords: %w", err)
	}
	return kws, nil
}

// ChallengeSummary condenses one stored challenge for reporting.
type ChallengeSummary struct {
	ID            int
	Plates        int
	Fields        int
	Rows          int
	Sources       int
	PointingRA    float64
	PointingDec   float64
	PositionAngle float64
}

// Summaries reports stored challenges in index order.
func (db *DB) Summaries() ([]ChallengeSummary, error) {
	rows, err := db.Query(`
		SELECT c.challenge_id, c.plates, c.pointing_ra, c.pointing_dec, c.position_angle,
		       (SELECT COUNT(*) FROM attitudes a WHERE a.challenge_id = c.challenge_id),
		       (SELECT COUNT(*) FROM positions p WHERE p.challenge_id = c.challenge_id),
		       (SELECT COUNT(DISTINCT p.catalog_id) FROM positions p WHERE p.challenge_id = c.challenge_id)
		FROM challenges c ORDER BY c.challenge_id`)
	if err != nil {
		return nil, fmt.Errorf("db: summarizing challenges: %w", err)
	}
	defer rows.Close()

	var summaries []ChallengeSummary
	for rows.Next() {
		var s ChallengeSummary
		if err := rows.Scan(&s.ID, &s.Plates, &s.PointingRA, &s.PointingDec, &s.PositionAngle, &s.Fields, &s.Rows, &s.Sources); err != nil {
			return nil, fmt.Errorf("db: scanning summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: summarizing challenges: %w", err)
	}
	return summaries, nil
}
