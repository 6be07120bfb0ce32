package marketdata

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/utils"
)

//go:embed schema.sql
var schemaSQL string

// SQLStore keeps fixings in an index_fixings table. Queries use $n
// placeholders, which both the postgres and sqlite3 drivers accept.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open database. The caller owns db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Migrate creates the fixings table when absent.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("SQLStore.Migrate: %w", err)
	}
	return nil
}

// Save stores fixings in one transaction. Already-stored identical levels are
// skipped; a different level for a stored date aborts the whole batch.
func (s *SQLStore) Save(ctx context.Context, index string, fixings []Fixing) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SQLStore.Save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, f := range fixings {
		if f.Level <= 0 {
			return errs.InvalidInput("SQLStore.Save: %s level %g at %s", index, f.Level, utils.FormatDate(f.Date))
		}
		date := utils.FormatDate(f.Date)
		var stored float64
		err = tx.QueryRowContext(ctx,
			`SELECT level FROM index_fixings WHERE index_name = $1 AND fixing_date = $2`, index, date).Scan(&stored)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO index_fixings (index_name, fixing_date, level) VALUES ($1, $2, $3)`,
				index, date, f.Level); err != nil {
				return fmt.Errorf("SQLStore.Save: insert %s %s: %w", index, date, err)
			}
		case err != nil:
			return fmt.Errorf("SQLStore.Save: lookup %s %s: %w", index, date, err)
		case math.Abs(stored-f.Level) > 1e-12*math.Max(1, math.Abs(stored)):
			err = fmt.Errorf("%w: %s %s stored as %g, got %g", errs.ErrFixingInconsistency, index, date, stored, f.Level)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("SQLStore.Save: commit: %w", err)
	}
	return nil
}

// Fixings returns the stored series in date order.
func (s *SQLStore) Fixings(ctx context.Context, index string) ([]Fixing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fixing_date, level FROM index_fixings WHERE index_name = $1 ORDER BY fixing_date`, index)
	if err != nil {
		return nil, fmt.Errorf("SQLStore.Fixings: %w", err)
	}
	defer rows.Close()

	var out []Fixing
	for rows.Next() {
		var date string
		var level float64
		if err := rows.Scan(&date, &level); err != nil {
			return nil, fmt.Errorf("SQLStore.Fixings: scan: %w", err)
		}
		d, err := utils.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("SQLStore.Fixings: %w", err)
		}
		out = append(out, Fixing{Date: d, Level: level})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SQLStore.Fixings: %w", err)
	}
	return out, nil
}
