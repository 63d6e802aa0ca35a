package services

import (
	"database/sql"

	"github.com/birdkeep/birdkeep/internal/store"
)

// Migrations creates the birds and sightings tables.
//
// AUTOINCREMENT keeps ids monotonic and prevents SQLite from reusing the
// rowid of a deleted record, so an id observed once never names a different
// entity later in the process lifetime.
//
// sightings.bird_id deliberately carries no foreign key: it is a weak
// reference. Deleting a bird must succeed even while sightings point at it;
// reads resolve the reference best-effort instead.
//
// date_time is stored as TEXT in models.DateTimeLayout, whose lexicographic
// order matches chronological order, so range filters and sorting compare
// strings directly.
var Migrations = []store.Migration{
	{
		Version:     1,
		Description: "create birds and sightings tables",
		Up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE birds (
					id     INTEGER PRIMARY KEY AUTOINCREMENT,
					name   TEXT NOT NULL,
					color  TEXT NOT NULL,
					weight REAL NOT NULL,
					height REAL NOT NULL
				)`,
				`CREATE INDEX idx_birds_name ON birds(name)`,
				`CREATE TABLE sightings (
					id        INTEGER PRIMARY KEY AUTOINCREMENT,
					bird_id   INTEGER NOT NULL,
					location  TEXT NOT NULL,
					date_time TEXT NOT NULL
				)`,
				`CREATE INDEX idx_sightings_bird_id ON sightings(bird_id)`,
				`CREATE INDEX idx_sightings_date_time ON sightings(date_time)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}
