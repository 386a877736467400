// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps parsed benchmarks in a SQLite database with a
// full-text index over control titles and section text, so controls from
// many benchmarks can be searched together.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/cisbench/pkg/types"
)

const defaultLimit = 20

// ErrNotFound reports a control that is not in the catalog.
var ErrNotFound = errors.New("control not found in catalog")

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS benchmarks (
			id TEXT PRIMARY KEY,
			pdf_path TEXT,
			control_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS controls (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			benchmark_id TEXT NOT NULL REFERENCES benchmarks(id),
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			record TEXT NOT NULL,
			UNIQUE (benchmark_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_controls_benchmark ON controls(benchmark_id, position)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS controls_fts USING fts4(title, body)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Ingest replaces the stored controls of b with b.Records. Ingesting the
// same benchmark twice leaves one copy.
func (s *Store) Ingest(ctx context.Context, b types.Benchmark) error {
	if b.ID == "" {
		return errors.New("benchmark id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM controls_fts WHERE docid IN (SELECT rowid FROM controls WHERE benchmark_id = ?)`, b.ID,
	); err != nil {
		return fmt.Errorf("deleting old index entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM controls WHERE benchmark_id = ?`, b.ID); err != nil {
		return fmt.Errorf("deleting old controls: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO benchmarks (id, pdf_path, control_count) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET pdf_path=excluded.pdf_path, control_count=excluded.control_count`,
		b.ID, b.PDFPath, len(b.Records),
	); err != nil {
		return fmt.Errorf("upserting benchmark: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO controls (benchmark_id, position, id, title, record) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	index, err := tx.PrepareContext(ctx,
		`INSERT INTO controls_fts (docid, title, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing index insert: %w", err)
	}
	defer index.Close()

	for i, rec := range b.Records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding control %s: %w", rec.ID, err)
		}
		res, err := insert.ExecContext(ctx, b.ID, i, rec.ID, rec.Title, string(data))
		if err != nil {
			return fmt.Errorf("inserting control %s: %w", rec.ID, err)
		}
		rowid, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading row id of control %s: %w", rec.ID, err)
		}
		if _, err := index.ExecContext(ctx, rowid, rec.Title, searchBody(rec)); err != nil {
			return fmt.Errorf("indexing control %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// searchBody concatenates the section texts of rec.
func searchBody(rec types.ControlRecord) string {
	parts := make([]string, len(rec.Details))
	for i, d := range rec.Details {
		parts[i] = d.Text
	}
	return strings.Join(parts, "\n")
}

// IngestSummary holds counts from a catalog indexing run.
type IngestSummary struct {
	Indexed int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Failed
}

// IngestFiles reads parsed benchmark JSON files and ingests each one. The
// benchmark ID is the file name without extension. Per-file status is
// written to w; a failing file does not stop the run.
func (s *Store) IngestFiles(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		id := types.BenchmarkID(path)
		records, err := readRecords(path)
		if err == nil {
			err = s.Ingest(ctx, types.Benchmark{ID: id, Records: records, Status: types.ParseDone})
		}
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", id, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "indexed  %s (%d controls)\n", id, len(records))
		summary.Indexed++
	}

	fmt.Fprintf(w, "\nindexed: %d, failed: %d\n", summary.Indexed, summary.Failed)
	return summary, nil
}

func readRecords(path string) ([]types.ControlRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var records []types.ControlRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
