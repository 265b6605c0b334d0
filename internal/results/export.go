// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// ExportLimit is the row cap for export queries. Exports must carry every
// record for the sequence, so it is effectively unbounded; the store's
// default query limit only applies to interactive queries.
const ExportLimit = 100000

// ExportJSON writes the records as indented JSON.
func ExportJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ExportYAML writes the records as a YAML document.
func ExportYAML(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(records)
}

// ExportCSV writes the comparison table the downstream spreadsheets read.
// The header and value formats are a serialization contract; GC content is
// a percentage here, not a fraction.
func ExportCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Method", "Energy (kcal/mol)", "Base Pairs", "GC Content (%)", "Base Pair Density",
	}); err != nil {
		return err
	}

	for _, r := range records {
		energy := ""
		if r.Energy != nil {
			energy = fmt.Sprintf("%.2f", *r.Energy)
		}
		row := []string{
			r.Method + "_" + r.Parameters,
			energy,
			strconv.Itoa(r.NumBasePairs),
			fmt.Sprintf("%.1f", r.GCContent*100),
			fmt.Sprintf("%.3f", r.BasePairDensity),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteComparison writes the plain-text method comparison, ending with the
// best-energy record.
func WriteComparison(w io.Writer, sequenceName string, records []Record) error {
	fmt.Fprintln(w, "STRUCTURE PREDICTION RESULTS")
	fmt.Fprintf(w, "Sequence: %s\n", sequenceName)
	if len(records) > 0 {
		fmt.Fprintf(w, "Length: %d nucleotides\n", len(records[0].Sequence))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "METHOD COMPARISON:")
	fmt.Fprintln(w)

	var best *Record
	for i := range records {
		r := &records[i]
		fmt.Fprintf(w, "%s_%s:\n", r.Method, r.Parameters)
		if r.Energy != nil {
			fmt.Fprintf(w, "  Energy: %.2f kcal/mol\n", *r.Energy)
			if best == nil || *r.Energy < *best.Energy {
				best = r
			}
		} else {
			fmt.Fprintln(w, "  Energy: n/a")
		}
		fmt.Fprintf(w, "  Base Pairs: %d\n", r.NumBasePairs)
		fmt.Fprintf(w, "  GC Content: %.1f%%\n", r.GCContent*100)
		fmt.Fprintf(w, "  Base Pair Density: %.3f\n", r.BasePairDensity)
		fmt.Fprintf(w, "  Structure: %s\n\n", r.Structure)
	}

	if best != nil {
		fmt.Fprintf(w, "Best Energy: %.2f kcal/mol (%s_%s)\n", *best.Energy, best.Method, best.Parameters)
	}
	fmt.Fprintf(w, "Methods Tested: %d\n", len(records))
	return nil
}
