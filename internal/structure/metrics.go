// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import "github.com/pdiddy/rna-engine/pkg/types"

// Metrics holds the derived scalar metrics of one prediction.
type Metrics struct {
	// GCContent is the G+C fraction of the sequence, in [0,1].
	GCContent float64

	// NumBasePairs is the number of bonds in the structure.
	NumBasePairs int

	// BasePairDensity is NumBasePairs divided by the structure length.
	// The structure length includes unpaired positions, and pairs are
	// counted once rather than as two paired positions. The pipeline has
	// always used this convention; keep it so runs stay comparable.
	BasePairDensity float64
}

// Compute derives the metrics from already-validated inputs. seq should be
// the caller's retained original sequence, not the one re-parsed from tool
// output. Compute never fails once the Sequence and Structure invariants
// hold (both non-empty, lengths consistent with pairs).
func Compute(seq Sequence, st Structure, pairs []types.BasePair) Metrics {
	gc := 0
	for i := 0; i < len(seq); i++ {
		if seq[i] == 'G' || seq[i] == 'C' {
			gc++
		}
	}

	return Metrics{
		GCContent:       float64(gc) / float64(len(seq)),
		NumBasePairs:    len(pairs),
		BasePairDensity: float64(len(pairs)) / float64(len(st)),
	}
}
