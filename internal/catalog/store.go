// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists dataset and column profiles in SQLite and
// serves search over them.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dataset-engine/internal/acquire"
	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/pkg/types"
)

const (
	canonicalDir = "canonical"
	indexDir     = "index"
	dbFile       = "catalog.db"
)

// Store manages the dataset catalog SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the catalog database. The default location
// is `<data>/index/catalog.db`; cfg.IndexPath overrides it. The schema
// is created when missing.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbPath := cfg.IndexPath
	if dbPath == "" {
		dbPath = filepath.Join(cfg.DataDir, indexDir, dbFile)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			path TEXT,
			rows INTEGER,
			cols INTEGER,
			size_bytes INTEGER,
			description TEXT,
			column_names TEXT,
			ingested_at TEXT,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS columns (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			name TEXT NOT NULL,
			dtype TEXT NOT NULL,
			non_null INTEGER,
			distinct_count INTEGER,
			min REAL,
			max REAL,
			mean REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_columns_dataset ON columns(dataset)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='datasets_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE datasets_fts USING fts5(name, description, column_names, content=datasets, content_rowid=rowid)`,
			`CREATE TRIGGER datasets_ai AFTER INSERT ON datasets BEGIN
				INSERT INTO datasets_fts(rowid, name, description, column_names)
				VALUES (new.rowid, new.name, new.description, new.column_names);
			END`,
			`CREATE TRIGGER datasets_ad AFTER DELETE ON datasets BEGIN
				INSERT INTO datasets_fts(datasets_fts, rowid, name, description, column_names)
				VALUES('delete', old.rowid, old.name, old.description, old.column_names);
			END`,
			`CREATE TRIGGER datasets_au AFTER UPDATE ON datasets BEGIN
				INSERT INTO datasets_fts(datasets_fts, rowid, name, description, column_names)
				VALUES('delete', old.rowid, old.name, old.description, old.column_names);
				INSERT INTO datasets_fts(rowid, name, description, column_names)
				VALUES (new.rowid, new.name, new.description, new.column_names);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a catalog ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest profiles every canonical CSV under `<data>/canonical/` and
// upserts it into the catalog. A file whose modification time is
// unchanged since the last ingest is skipped.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	dir := filepath.Join(s.dataDir, canonicalDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading canonical directory %s: %w", dir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := strings.TrimSuffix(entry.Name(), ".csv")
		filePath := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM datasets WHERE name = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		profile, err := profileCSV(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestDataset(ctx, name, filePath, info.Size(), profile, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d columns)\n", name, len(profile.columns))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d columns)\n", name, len(profile.columns))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

// csvProfile is the measured shape of one canonical CSV.
type csvProfile struct {
	rows    int
	columns []columnProfile
}

type columnProfile struct {
	name     string
	dtype    string
	nonNull  int
	distinct int
	min      sql.NullFloat64
	max      sql.NullFloat64
	mean     sql.NullFloat64
}

// profileCSV reads a canonical CSV through the frame engine and measures
// each column. Numeric summaries stay NULL for non-numeric columns.
func profileCSV(path string) (*csvProfile, error) {
	f, err := frame.ReadCSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	p := &csvProfile{rows: f.NRows()}
	for _, name := range f.Names() {
		col := f.Column(name)
		cp := columnProfile{
			name:    name,
			dtype:   string(col.Type()),
			nonNull: col.Len() - col.NullCount(),
		}
		if uniques, err := f.Unique(name); err == nil {
			cp.distinct = len(uniques)
		}
		if col.IsNumeric() {
			if v, err := f.Min(name); err == nil {
				cp.min = sql.NullFloat64{Float64: v, Valid: true}
			}
			if v, err := f.Max(name); err == nil {
				cp.max = sql.NullFloat64{Float64: v, Valid: true}
			}
			if v, err := f.Mean(name); err == nil {
				cp.mean = sql.NullFloat64{Float64: v, Valid: true}
			}
		}
		p.columns = append(p.columns, cp)
	}
	return p, nil
}

func (s *Store) ingestDataset(ctx context.Context, name, path string, sizeBytes int64, profile *csvProfile, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old column profiles when updating.
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM columns WHERE dataset = ?`, name); err != nil {
			return fmt.Errorf("deleting old columns: %w", err)
		}
	}

	columnNames := make([]string, len(profile.columns))
	for i, c := range profile.columns {
		columnNames[i] = c.name
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (name, path, rows, cols, size_bytes, description, column_names, ingested_at, file_mod_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			path=excluded.path, rows=excluded.rows, cols=excluded.cols,
			size_bytes=excluded.size_bytes, description=excluded.description,
			column_names=excluded.column_names, ingested_at=excluded.ingested_at,
			file_mod_time=excluded.file_mod_time`,
		name, path, profile.rows, len(profile.columns), sizeBytes,
		lookupDescription(name), strings.Join(columnNames, " "),
		time.Now().UTC().Format(time.RFC3339), modTime,
	)
	if err != nil {
		return fmt.Errorf("upserting dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO columns (dataset, name, dtype, non_null, distinct_count, min, max, mean)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range profile.columns {
		if _, err := stmt.ExecContext(ctx,
			name, c.name, c.dtype, c.nonNull, c.distinct, c.min, c.max, c.mean,
		); err != nil {
			return fmt.Errorf("inserting column %s: %w", c.name, err)
		}
	}

	return tx.Commit()
}

// lookupDescription pulls the human description from the dataset
// registry. Ad-hoc datasets outside the registry get an empty one.
func lookupDescription(name string) string {
	if ds, ok := acquire.Lookup(name); ok {
		return ds.Description
	}
	return ""
}
