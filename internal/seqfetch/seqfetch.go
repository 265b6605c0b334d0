// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seqfetch downloads nucleotide sequences from the genome-database
// REST API and writes FASTA files with metadata records.
package seqfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rna-engine/internal/fasta"
	"github.com/pdiddy/rna-engine/internal/httputil"
	"github.com/pdiddy/rna-engine/internal/structure"
	"github.com/pdiddy/rna-engine/pkg/types"
)

// DefaultBaseURL is the SGD backend locus endpoint.
const DefaultBaseURL = "https://www.yeastgenome.org/backend/locus/"

// locusResponse carries the fields we read from the locus record.
type locusResponse struct {
	Sequence    string `json:"sequence"`
	DisplayName string `json:"display_name"`
}

// Fetch downloads the sequence for one locus accession, optionally truncates
// it to the configured 5'UTR length, and writes a FASTA file plus a YAML
// metadata record under cfg.DataDir. An existing FASTA for the same name is
// not re-downloaded; its metadata record is returned instead.
func Fetch(ctx context.Context, client *http.Client, accession, name string, cfg types.FetchConfig, w io.Writer) (*types.SequenceRecord, error) {
	if name == "" {
		name = accession
	}
	fastaPath := filepath.Join(cfg.DataDir, strings.ToLower(name)+".fasta")
	metaPath := filepath.Join(cfg.DataDir, strings.ToLower(name)+".yaml")

	if _, err := os.Stat(fastaPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		if rec, readErr := readMetadata(metaPath); readErr == nil {
			return rec, nil
		}
		return recordFromFasta(name, fastaPath)
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	url := strings.TrimSuffix(base, "/") + "/" + accession

	fmt.Fprintf(w, "fetching: %s (%s)\n", name, accession)

	seq, err := fetchSequence(ctx, client, url, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.UTRLength > 0 && len(seq) > cfg.UTRLength {
		seq = seq[:cfg.UTRLength]
	}

	// The locus record carries DNA; fold tools take RNA.
	validated, err := structure.Validate(strings.ReplaceAll(strings.ToUpper(seq), "T", "U"))
	if err != nil {
		return nil, fmt.Errorf("sequence for %s: %w", accession, err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := writeFastaAtomic(fastaPath, name, string(validated)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", fastaPath, err)
	}

	rec := &types.SequenceRecord{
		Name:      name,
		Accession: accession,
		SourceURL: url,
		FastaPath: fastaPath,
		Length:    len(validated),
	}
	if err := writeMetadata(rec, metaPath); err != nil {
		return nil, fmt.Errorf("writing metadata for %s: %w", name, err)
	}

	fmt.Fprintf(w, "fetched: %s (%d nt)\n", name, rec.Length)
	return rec, nil
}

// fetchSequence retrieves and decodes the locus record, retrying on rate
// limits and transient server errors.
func fetchSequence(ctx context.Context, client *http.Client, url string, cfg types.FetchConfig) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("locus request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	var locus locusResponse
	if err := json.NewDecoder(resp.Body).Decode(&locus); err != nil {
		return "", fmt.Errorf("parsing locus response: %w", err)
	}
	if locus.Sequence == "" {
		return "", fmt.Errorf("locus record from %s carries no sequence", url)
	}
	return locus.Sequence, nil
}

// writeFastaAtomic writes the record through a temp file and renames it into
// place so a failed download never leaves a partial FASTA behind.
func writeFastaAtomic(destPath, name, seq string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := fasta.Write(tmpFile, fasta.Record{Name: name, Sequence: seq})
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func writeMetadata(rec *types.SequenceRecord, path string) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func readMetadata(path string) (*types.SequenceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec types.SequenceRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// recordFromFasta rebuilds a minimal record when the metadata file is
// missing but the FASTA survives.
func recordFromFasta(name, path string) (*types.SequenceRecord, error) {
	records, err := fasta.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &types.SequenceRecord{
		Name:      name,
		FastaPath: path,
		Length:    len(records[0].Sequence),
	}, nil
}
