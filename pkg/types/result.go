// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and configuration structs shared across
// pipeline stages.
package types

// BasePair is a bond between two zero-based sequence positions, opening
// index first. It serializes as a two-element array [i, j], matching the
// downstream summary consumers.
type BasePair [2]int

// Open returns the opening (5') position of the pair.
func (p BasePair) Open() int { return p[0] }

// Close returns the closing (3') position of the pair.
func (p BasePair) Close() int { return p[1] }

// PredictionStatus indicates the state of a (method, parameter set)
// prediction for a sequence.
type PredictionStatus string

const (
	PredictionNone    PredictionStatus = "none"
	PredictionDone    PredictionStatus = "predicted"
	PredictionFailed  PredictionStatus = "failed"
	PredictionSkipped PredictionStatus = "skipped"
)

// StructureResult is one parsed secondary-structure prediction. It is built
// once per (method, parameter set) combination after the raw tool output has
// been parsed, and is immutable afterwards.
//
// The JSON field names are the serialization contract with the summary and
// visualization consumers; do not rename them.
type StructureResult struct {
	// Method identifies the prediction tool (e.g. "rnafold", "mfold").
	Method string `json:"method" yaml:"method"`

	// Parameters names the parameter set used (e.g. "temperature_25C").
	Parameters string `json:"parameters" yaml:"parameters"`

	// Sequence is the nucleotide sequence as reconstructed from the tool
	// output. Tool output may re-wrap or trim, so GC content is always
	// computed from the caller's retained input sequence instead.
	Sequence string `json:"sequence" yaml:"sequence"`

	// Structure is the dot-bracket string, same length as Sequence.
	Structure string `json:"structure" yaml:"structure"`

	// Energy is the predicted free energy in kcal/mol. Nil when the tool
	// output carried no parseable energy annotation.
	Energy *float64 `json:"energy" yaml:"energy"`

	// BasePairs lists the bonds sorted ascending by opening index.
	BasePairs []BasePair `json:"base_pairs" yaml:"base_pairs"`

	// NumBasePairs is len(BasePairs).
	NumBasePairs int `json:"num_base_pairs" yaml:"num_base_pairs"`

	// GCContent is the G+C fraction of the input sequence, in [0,1].
	GCContent float64 `json:"gc_content" yaml:"gc_content"`

	// BasePairDensity is NumBasePairs divided by the structure length.
	// This is the pipeline's own convention: pairs are counted once, not
	// as two paired positions.
	BasePairDensity float64 `json:"base_pair_density" yaml:"base_pair_density"`
}

// Structure3DResult is one tertiary-structure prediction produced by a
// SLURM-backed method (ROSETTA, SimRNA, FARNA).
type Structure3DResult struct {
	Method     string `json:"method" yaml:"method"`
	Parameters string `json:"parameters" yaml:"parameters"`
	Sequence   string `json:"sequence" yaml:"sequence"`
	Structure  string `json:"structure" yaml:"structure"`

	// PDBFile is the path to the generated coordinate file.
	PDBFile string `json:"pdb_file" yaml:"pdb_file"`

	// JobID is the SLURM job that produced the structure, when submitted.
	JobID string `json:"job_id,omitempty" yaml:"job_id,omitempty"`

	Energy       *float64 `json:"energy,omitempty" yaml:"energy,omitempty"`
	RMSD         *float64 `json:"rmsd,omitempty" yaml:"rmsd,omitempty"`
	QualityScore *float64 `json:"quality_score,omitempty" yaml:"quality_score,omitempty"`
}

// SequenceRecord is the metadata written alongside a fetched or loaded
// sequence.
type SequenceRecord struct {
	// Name is the sequence identifier (e.g. "SUI3_5UTR").
	Name string `json:"name" yaml:"name"`

	// Accession is the database locus identifier the sequence came from,
	// empty for locally supplied sequences.
	Accession string `json:"accession,omitempty" yaml:"accession,omitempty"`

	// SourceURL is the API URL the sequence was fetched from.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// FastaPath is the local path of the FASTA file.
	FastaPath string `json:"fasta_path" yaml:"fasta_path"`

	// Length is the sequence length in nucleotides.
	Length int `json:"length" yaml:"length"`
}
