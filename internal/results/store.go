// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results indexes parsed prediction records in SQLite and serves
// queries and exports over them.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/rna-engine/internal/structure"
	"github.com/pdiddy/rna-engine/pkg/types"
)

const (
	sequencesDir = "output/sequences"
	indexDir     = "output/index"
	dbFile       = "results.db"
)

// Store manages the results index SQLite database.
type Store struct {
	db         *sql.DB
	workDir    string
	maxResults int
}

// NewStore opens or creates the results database at
// <work-dir>/output/index/results.db, creating the schema if needed.
func NewStore(cfg types.ResultsConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.WorkDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, workDir: cfg.WorkDir, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS sequences (
			name TEXT PRIMARY KEY,
			sequence TEXT NOT NULL,
			length INTEGER NOT NULL,
			gc_content REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence_name TEXT NOT NULL REFERENCES sequences(name),
			method TEXT NOT NULL,
			parameters TEXT NOT NULL,
			structure TEXT NOT NULL,
			energy REAL,
			base_pairs TEXT NOT NULL,
			num_base_pairs INTEGER NOT NULL,
			gc_content REAL NOT NULL,
			base_pair_density REAL NOT NULL,
			UNIQUE(sequence_name, method, parameters)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_method ON results(method)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			path TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
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

// Ingest walks the parsed-results tree under the work directory and indexes
// every record. Files are detected as new, changed, or unchanged by mod
// time, so re-ingest only touches what moved. A record whose pair list
// violates the structural invariants (ordering, bounds, crossing pairs) is
// rejected, reported on w, and counted as failed without stopping the walk.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	pattern := filepath.Join(s.workDir, sequencesDir, "*", "*", "*", "parsed_results", "*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("scanning parsed results: %w", err)
	}

	var summary IngestSummary
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		label := ingestLabel(s.workDir, path)

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", label, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE path = ?`, path,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		if err := s.ingestFile(ctx, path, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", label, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", label)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", label)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

// ingestFile validates and upserts one parsed record.
func (s *Store) ingestFile(ctx context.Context, path, modTime string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var r types.StructureResult
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if r.Sequence == "" || r.Structure == "" {
		return fmt.Errorf("record carries no sequence or structure")
	}
	if err := structure.ValidatePairs(r.BasePairs, len(r.Structure)); err != nil {
		return err
	}

	// The sequence name is the path component above the method directory.
	seqName := sequenceNameFromPath(s.workDir, path)
	if seqName == "" {
		return fmt.Errorf("cannot derive sequence name from %s", path)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	gc := 0
	for i := 0; i < len(r.Sequence); i++ {
		if r.Sequence[i] == 'G' || r.Sequence[i] == 'C' {
			gc++
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sequences (name, sequence, length, gc_content)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			sequence=excluded.sequence, length=excluded.length, gc_content=excluded.gc_content`,
		seqName, r.Sequence, len(r.Sequence), float64(gc)/float64(len(r.Sequence)),
	)
	if err != nil {
		return fmt.Errorf("upserting sequence: %w", err)
	}

	pairsJSON, err := json.Marshal(r.BasePairs)
	if err != nil {
		return fmt.Errorf("encoding base pairs: %w", err)
	}
	var energy any
	if r.Energy != nil {
		energy = *r.Energy
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (sequence_name, method, parameters, structure, energy,
			base_pairs, num_base_pairs, gc_content, base_pair_density)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(sequence_name, method, parameters) DO UPDATE SET
			structure=excluded.structure, energy=excluded.energy,
			base_pairs=excluded.base_pairs, num_base_pairs=excluded.num_base_pairs,
			gc_content=excluded.gc_content, base_pair_density=excluded.base_pair_density`,
		seqName, r.Method, r.Parameters, r.Structure, energy,
		string(pairsJSON), r.NumBasePairs, r.GCContent, r.BasePairDensity,
	)
	if err != nil {
		return fmt.Errorf("upserting result: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (path, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		path, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

// sequenceNameFromPath extracts <name> from
// <work-dir>/output/sequences/<name>/<method>/<param>/parsed_results/x.json.
func sequenceNameFromPath(workDir, path string) string {
	rel, err := filepath.Rel(filepath.Join(workDir, sequencesDir), path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 5 {
		return ""
	}
	return parts[0]
}

// ingestLabel is the short <name>/<method>/<param> form used in log lines.
func ingestLabel(workDir, path string) string {
	rel, err := filepath.Rel(filepath.Join(workDir, sequencesDir), path)
	if err != nil {
		return path
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 3 {
		return rel
	}
	return strings.Join(parts[:3], "/")
}
