// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/cisbench/pkg/types"
)

// Hit is a control matched by a catalog query.
type Hit struct {
	Benchmark string              `json:"benchmark" yaml:"benchmark"`
	Record    types.ControlRecord `json:"record" yaml:"record"`
}

// Search runs an FTS4 query over control titles and section text. Results
// are ordered by benchmark, then by position in the benchmark. A limit of
// zero or less uses the default of 20.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.benchmark_id, c.record
		FROM controls_fts
		JOIN controls c ON c.rowid = controls_fts.docid
		WHERE controls_fts MATCH ?
		ORDER BY c.benchmark_id, c.position
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			hit  Hit
			data string
		)
		if err := rows.Scan(&hit.Benchmark, &data); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &hit.Record); err != nil {
			return nil, fmt.Errorf("decoding control in %s: %w", hit.Benchmark, err)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Control returns one stored control. It returns ErrNotFound when the
// benchmark or control is unknown.
func (s *Store) Control(ctx context.Context, benchmark, id string) (types.ControlRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM controls WHERE benchmark_id = ? AND id = ?`, benchmark, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ControlRecord{}, fmt.Errorf("%w: %s %s", ErrNotFound, benchmark, id)
	}
	if err != nil {
		return types.ControlRecord{}, fmt.Errorf("querying control: %w", err)
	}

	var rec types.ControlRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return types.ControlRecord{}, fmt.Errorf("decoding control %s: %w", id, err)
	}
	return rec, nil
}

// Benchmarks returns the stored benchmarks ordered by ID, without records.
func (s *Store) Benchmarks(ctx context.Context) ([]BenchmarkSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(pdf_path, ''), control_count FROM benchmarks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing benchmarks: %w", err)
	}
	defer rows.Close()

	var out []BenchmarkSummary
	for rows.Next() {
		var b BenchmarkSummary
		if err := rows.Scan(&b.ID, &b.PDFPath, &b.Controls); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BenchmarkSummary describes one stored benchmark.
type BenchmarkSummary struct {
	ID       string `json:"id" yaml:"id"`
	PDFPath  string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`
	Controls int    `json:"controls" yaml:"controls"`
}
