package dataset

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/launch-dashboard/internal/model"
)

// SQLiteStore persists launch records in a SQLite database using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS launches (
	row_id                   INTEGER PRIMARY KEY,
	flight_number            INTEGER NOT NULL DEFAULT 0,
	launch_site              TEXT NOT NULL,
	payload_mass_kg          REAL NOT NULL CHECK (payload_mass_kg >= 0),
	class                    INTEGER NOT NULL CHECK (class IN (0, 1)),
	booster_version          TEXT NOT NULL DEFAULT '',
	booster_version_category TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_launches_site ON launches(launch_site);
`

// Migrate creates the launches table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceLaunches swaps the stored table for records in a single transaction.
// row_id keeps the input order.
func (s *SQLiteStore) ReplaceLaunches(ctx context.Context, records []model.Launch) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM launches`); err != nil {
		return eris.Wrap(err, "sqlite: clear launches")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO launches (row_id, flight_number, launch_site, payload_mass_kg, class, booster_version, booster_version_category)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err = stmt.ExecContext(ctx,
			i+1, r.FlightNumber, r.Site, r.PayloadMassKG, r.Outcome, r.BoosterVersion, r.BoosterCategory,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert launch %d", i+1)
		}
	}

	if err = tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit")
	}
	return nil
}

// ListLaunches returns every stored record in insertion order.
func (s *SQLiteStore) ListLaunches(ctx context.Context) ([]model.Launch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT flight_number, launch_site, payload_mass_kg, class, booster_version, booster_version_category
		 FROM launches ORDER BY row_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list launches")
	}
	defer rows.Close()

	var launches []model.Launch
	for rows.Next() {
		var l model.Launch
		if err := rows.Scan(&l.FlightNumber, &l.Site, &l.PayloadMassKG, &l.Outcome, &l.BoosterVersion, &l.BoosterCategory); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan launch")
		}
		launches = append(launches, l)
	}
	return launches, eris.Wrap(rows.Err(), "sqlite: iterate launches")
}
