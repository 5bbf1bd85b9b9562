package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	bp "github.com/setanarut/beadpattern"
)

// ErrConstraint is returned when seeding hits a duplicate id or an
// out-of-range channel.
var ErrConstraint = errors.New("catalog: constraint violation")

const SQL_SCHEMA string = `
CREATE TABLE IF NOT EXISTS bead_brand (
	id INTEGER NOT NULL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS bead_color (
	id INTEGER NOT NULL PRIMARY KEY,
	brand_id INTEGER REFERENCES bead_brand (id),
	name TEXT NOT NULL,
	red INTEGER NOT NULL CHECK (red BETWEEN 0 AND 255),
	green INTEGER NOT NULL CHECK (green BETWEEN 0 AND 255),
	blue INTEGER NOT NULL CHECK (blue BETWEEN 0 AND 255),
	alpha INTEGER NOT NULL DEFAULT 255,
	size_mm REAL NOT NULL DEFAULT 5
);
CREATE INDEX IF NOT EXISTS bead_color_brand_i ON bead_color (brand_id);
`

func OpenSQLite(ctx context.Context, fileName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fileName)
	if err != nil {
		return nil, dbErr(err, "opening database")
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, dbErr(err, "opening database")
	}
	return db, nil
}

func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, SQL_SCHEMA); err != nil {
		return dbErr(err, "creating database schema")
	}
	return nil
}

// InsertEntries stores p, creating brands by name as needed.
func InsertEntries(ctx context.Context, db *sql.DB, p bp.Palette) error {
	return doTxn(ctx, db, "insert entries", func(tx *sql.Tx) error {
		brands := make(map[string]int64)
		for _, e := range p {
			var brandID sql.NullInt64
			if e.Brand != "" {
				id, ok := brands[e.Brand]
				if !ok {
					err := tx.QueryRowContext(ctx, "SELECT id FROM bead_brand WHERE name=?", e.Brand).Scan(&id)
					if errors.Is(err, sql.ErrNoRows) {
						res, err := tx.ExecContext(ctx, "INSERT INTO bead_brand (name) VALUES (?)", e.Brand)
						if err != nil {
							return err
						}
						if id, err = res.LastInsertId(); err != nil {
							return err
						}
					} else if err != nil {
						return err
					}
					brands[e.Brand] = id
				}
				brandID = sql.NullInt64{Int64: id, Valid: true}
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO bead_color (id,brand_id,name,red,green,blue,alpha) VALUES (?,?,?,?,?,?,?)",
				e.ID, brandID, e.Name, e.Color.R, e.Color.G, e.Color.B, e.Color.A)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSQLite reads every bead color ordered by id.
func LoadSQLite(ctx context.Context, db *sql.DB) (bp.Palette, error) {
	rows, err := db.QueryContext(ctx, `
SELECT c.id, c.name, c.red, c.green, c.blue, c.alpha, COALESCE(b.name, '')
FROM bead_color c LEFT JOIN bead_brand b ON b.id = c.brand_id
ORDER BY c.id`)
	if err != nil {
		return nil, dbErr(err, "query colors")
	}
	defer rows.Close()
	var p bp.Palette
	for rows.Next() {
		var e bp.PaletteEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Color.R, &e.Color.G, &e.Color.B, &e.Color.A, &e.Brand); err != nil {
			return nil, dbErr(err, "scan color")
		}
		p = append(p, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "query colors")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func LoadSQLiteFile(fileName string) (bp.Palette, error) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, fileName)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return LoadSQLite(ctx, db)
}

func doTxn(ctx context.Context, db *sql.DB, name string, work func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return dbErr(err, "begin "+name)
	}
	defer tx.Rollback()
	if err := work(tx); err != nil {
		return dbErr(err, name)
	}
	if err := tx.Commit(); err != nil {
		return dbErr(err, "commit "+name)
	}
	return nil
}

func dbErr(err error, where string) error {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s: %v", ErrConstraint, where, err)
	}
	return fmt.Errorf("catalog: %s: %w", where, err)
}
