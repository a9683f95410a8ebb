// Package store persists historical market series in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rpgo/fire-engine/internal/calculation"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DefaultDataset is the dataset name used when none is given.
const DefaultDataset = "default"

// ErrDatasetNotFound is returned when a named dataset has not been imported.
var ErrDatasetNotFound = errors.New("dataset not found")

// SeriesStore provides SQLite-backed storage for historical series.
type SeriesStore struct {
	db *sql.DB
}

// Dataset describes one imported series.
type Dataset struct {
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	FirstYear  int       `json:"firstYear"`
	LastYear   int       `json:"lastYear"`
	ImportedAt time.Time `json:"importedAt"`
}

// Open opens or creates the series database at the given path.
func Open(dbPath string) (*SeriesStore, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)"
	} else {
		dsn = dbPath + "?_pragma=foreign_keys(on)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	// a single connection keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SeriesStore{db: db}, nil
}

// Close closes the store database.
func (s *SeriesStore) Close() error {
	return s.db.Close()
}

// ImportSeries replaces the named dataset with the rows of series.
func (s *SeriesStore) ImportSeries(ctx context.Context, name, source string, series *calculation.Series) error {
	if name == "" {
		name = DefaultDataset
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM market_years WHERE dataset = ?", name); err != nil {
		return fmt.Errorf("clearing dataset %s: %w", name, err)
	}
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO datasets
		(name, source, first_year, last_year, imported_at)
		VALUES (?, ?, ?, ?, ?)`,
		name, source, series.FirstYear(), series.LastYear(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving dataset %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO market_years
		(dataset, year, stock_return, bond_return, inflation)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, y := range series.Years() {
		if _, err := stmt.ExecContext(ctx, name, y.Year, y.StockReturn, y.BondReturn, y.Inflation); err != nil {
			return fmt.Errorf("saving year %d: %w", y.Year, err)
		}
	}
	return tx.Commit()
}

// LoadSeries reads the named dataset back into a Series.
func (s *SeriesStore) LoadSeries(ctx context.Context, name string) (*calculation.Series, error) {
	if name == "" {
		name = DefaultDataset
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT year, stock_return, bond_return, inflation FROM market_years WHERE dataset = ? ORDER BY year", name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var years []calculation.MarketYear
	for rows.Next() {
		var y calculation.MarketYear
		if err := rows.Scan(&y.Year, &y.StockReturn, &y.BondReturn, &y.Inflation); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return calculation.NewSeries(years)
}

// Datasets lists imported datasets by name.
func (s *SeriesStore) Datasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, source, first_year, last_year, imported_at FROM datasets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Dataset
	for rows.Next() {
		var d Dataset
		var importedAt string
		if err := rows.Scan(&d.Name, &d.Source, &d.FirstYear, &d.LastYear, &importedAt); err != nil {
			return nil, err
		}
		d.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDataset removes a dataset and its rows.
func (s *SeriesStore) DeleteDataset(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM datasets WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return nil
}
