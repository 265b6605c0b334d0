// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pdiddy/rna-engine/pkg/types"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		seq       Sequence
		structure Structure
		want      Metrics
	}{
		{
			name:      "all GC",
			seq:       "GGGGCCCC",
			structure: "(((())))",
			want: Metrics{
				GCContent:       1.0,
				NumBasePairs:    4,
				BasePairDensity: 0.5,
			},
		},
		{
			name:      "no GC",
			seq:       "AAAAUUUU",
			structure: "........",
			want: Metrics{
				GCContent:       0.0,
				NumBasePairs:    0,
				BasePairDensity: 0.0,
			},
		},
		{
			name:      "ten position hairpin",
			seq:       "GGGAAAAUCC",
			structure: "(((....)))",
			want: Metrics{
				GCContent:       0.5,
				NumBasePairs:    3,
				BasePairDensity: 0.3,
			},
		},
		{
			name:      "hairpin with loop",
			seq:       "GGGGAAACCCC",
			structure: "((((...))))",
			want: Metrics{
				GCContent:       8.0 / 11.0,
				NumBasePairs:    4,
				BasePairDensity: 4.0 / 11.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := Reconstruct(tt.structure)
			if err != nil {
				t.Fatalf("Reconstruct(%q) error: %v", tt.structure, err)
			}

			got := Compute(tt.seq, tt.structure, pairs)

			opt := cmp.Comparer(func(a, b float64) bool {
				return math.Abs(a-b) < 1e-9
			})
			if diff := cmp.Diff(tt.want, got, opt); diff != "" {
				t.Errorf("Compute mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestComputeUsesCallerSequence: GC content comes from the sequence argument,
// so callers passing their retained original sequence get metrics for it even
// when the tool echoed a normalized copy.
func TestComputeUsesCallerSequence(t *testing.T) {
	pairs := []types.BasePair{{0, 10}, {1, 9}, {2, 8}, {3, 7}}

	a := Compute("GGGGAAACCCC", "((((...))))", pairs)
	b := Compute("AAAAAAAAAAA", "((((...))))", pairs)

	if a.GCContent == b.GCContent {
		t.Error("GC content should differ between distinct sequences")
	}
	if b.GCContent != 0 {
		t.Errorf("GC content of all-A sequence = %v, want 0", b.GCContent)
	}
}
