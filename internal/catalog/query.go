// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// DatasetEntry is one catalog row as returned by List and Search.
type DatasetEntry struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Rows        int    `json:"rows" yaml:"rows"`
	Cols        int    `json:"cols" yaml:"cols"`
	SizeBytes   int64  `json:"size_bytes" yaml:"size_bytes"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	IngestedAt  string `json:"ingested_at" yaml:"ingested_at"`
}

// ColumnEntry is one profiled column. Min, Max and Mean are nil for
// non-numeric columns.
type ColumnEntry struct {
	Name     string   `json:"name" yaml:"name"`
	Dtype    string   `json:"dtype" yaml:"dtype"`
	NonNull  int      `json:"non_null" yaml:"non_null"`
	Distinct int      `json:"distinct" yaml:"distinct"`
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Mean     *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
}

// DatasetDetail is a dataset with its column profiles.
type DatasetDetail struct {
	DatasetEntry `yaml:",inline"`
	Columns      []ColumnEntry `json:"columns" yaml:"columns"`
}

const entryColumns = `name, path, rows, cols, size_bytes, description, ingested_at`

func scanEntry(scan func(...any) error) (DatasetEntry, error) {
	var (
		e    DatasetEntry
		desc sql.NullString
	)
	err := scan(&e.Name, &e.Path, &e.Rows, &e.Cols, &e.SizeBytes, &desc, &e.IngestedAt)
	if desc.Valid {
		e.Description = desc.String
	}
	return e, err
}

// List returns every cataloged dataset ordered by name.
func (s *Store) List(ctx context.Context) ([]DatasetEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var entries []DatasetEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Describe returns one dataset with its column profiles.
func (s *Store) Describe(ctx context.Context, name string) (*DatasetDetail, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM datasets WHERE name = ?`, name).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("dataset %s not cataloged", name)
		}
		return nil, fmt.Errorf("looking up dataset: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, dtype, non_null, distinct_count, min, max, mean
		 FROM columns WHERE dataset = ? ORDER BY rowid`, name)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	detail := &DatasetDetail{DatasetEntry: entry}
	for rows.Next() {
		var (
			c            ColumnEntry
			mn, mx, mean sql.NullFloat64
		)
		if err := rows.Scan(&c.Name, &c.Dtype, &c.NonNull, &c.Distinct, &mn, &mx, &mean); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		if mn.Valid {
			c.Min = &mn.Float64
		}
		if mx.Valid {
			c.Max = &mx.Float64
		}
		if mean.Valid {
			c.Mean = &mean.Float64
		}
		detail.Columns = append(detail.Columns, c)
	}
	return detail, rows.Err()
}

// Search runs a full-text query over dataset names, descriptions and
// column names, ranked by relevance.
func (s *Store) Search(ctx context.Context, query string) ([]DatasetEntry, error) {
	if query == "" {
		return s.List(ctx)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.name, d.path, d.rows, d.cols, d.size_bytes, d.description, d.ingested_at
		 FROM datasets_fts
		 JOIN datasets d ON d.rowid = datasets_fts.rowid
		 WHERE datasets_fts MATCH ?
		 ORDER BY datasets_fts.rank
		 LIMIT ?`, query, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer rows.Close()

	var entries []DatasetEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
