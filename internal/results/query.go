// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/rna-engine/pkg/types"
)

// QueryOptions filters an index query. Zero values mean "no filter".
type QueryOptions struct {
	SequenceName string
	Method       string
	Parameters   string

	// MaxEnergy keeps only records whose energy is at or below the
	// ceiling; records without an energy never match it.
	MaxEnergy *float64

	// Limit caps the row count; zero falls back to the store default.
	Limit int
}

// Record is one indexed prediction with its owning sequence name.
type Record struct {
	SequenceName          string `json:"sequence_name" yaml:"sequence_name"`
	types.StructureResult `yaml:",inline"`
}

// Query returns indexed records matching the options, best energy first.
// Records without an energy sort last.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Record, error) {
	var conds []string
	var args []any

	if opts.SequenceName != "" {
		conds = append(conds, "sequence_name = ?")
		args = append(args, opts.SequenceName)
	}
	if opts.Method != "" {
		conds = append(conds, "method = ?")
		args = append(args, opts.Method)
	}
	if opts.Parameters != "" {
		conds = append(conds, "parameters = ?")
		args = append(args, opts.Parameters)
	}
	if opts.MaxEnergy != nil {
		conds = append(conds, "energy IS NOT NULL AND energy <= ?")
		args = append(args, *opts.MaxEnergy)
	}

	query := `SELECT r.sequence_name, r.method, r.parameters, s.sequence, r.structure,
		r.energy, r.base_pairs, r.num_base_pairs, r.gc_content, r.base_pair_density
		FROM results r JOIN sequences s ON s.name = r.sequence_name`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY r.energy IS NULL, r.energy ASC, r.method, r.parameters"

	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var energy sql.NullFloat64
		var pairsJSON string
		if err := rows.Scan(
			&rec.SequenceName, &rec.Method, &rec.Parameters, &rec.Sequence, &rec.Structure,
			&energy, &pairsJSON, &rec.NumBasePairs, &rec.GCContent, &rec.BasePairDensity,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if energy.Valid {
			v := energy.Float64
			rec.Energy = &v
		}
		if err := json.Unmarshal([]byte(pairsJSON), &rec.BasePairs); err != nil {
			return nil, fmt.Errorf("decoding base pairs for %s/%s/%s: %w",
				rec.SequenceName, rec.Method, rec.Parameters, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
