package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// LoadSQLite reads a snapshot series from a SQLite database for datasets
// maintained in a DB rather than flat files. The expected shape is one row
// per (record, field) pair:
//
//	CREATE TABLE records (record_id INTEGER NOT NULL,
//	                      field     TEXT    NOT NULL,
//	                      value     REAL    NOT NULL);
//
// Field names are an open set, same as the JSON loader; the same validation
// applies (every record needs the ordering key).
func LoadSQLite(ctx context.Context, path, orderingKey string) ([]Snapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("dataset: empty db path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rows, err := db.QueryContext(ctx,
		`SELECT record_id, field, value FROM records ORDER BY record_id`)
	if err != nil {
		return nil, fmt.Errorf("dataset: query records: %w", err)
	}
	defer rows.Close()

	var (
		raws    []map[string]any
		current map[string]any
		lastID  int64 = -1
	)
	for rows.Next() {
		var (
			id    int64
			field string
			value float64
		)
		if err := rows.Scan(&id, &field, &value); err != nil {
			return nil, fmt.Errorf("dataset: scan row: %w", err)
		}
		if id != lastID {
			current = make(map[string]any)
			raws = append(raws, current)
			lastID = id
		}
		current[field] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset: iterate rows: %w", err)
	}

	return ParseRecords(raws, orderingKey)
}
