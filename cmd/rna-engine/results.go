// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rna-engine/internal/results"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Index, query, and export prediction results",
	Long: `Results manages the SQLite index over parsed prediction records.
Use "results store" to ingest the output tree, "results query" to search it,
and "results export" to write comparison reports.`,
}

var resultsStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest parsed predictions into the results index",
	RunE:  runResultsStore,
}

var resultsQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the results index",
	RunE:  runResultsQuery,
}

var resultsExportCmd = &cobra.Command{
	Use:   "export <sequence-name>",
	Short: "Export a sequence's results as json, yaml, csv, or txt",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsExport,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsStoreCmd)
	resultsCmd.AddCommand(resultsQueryCmd)
	resultsCmd.AddCommand(resultsExportCmd)

	resultsQueryCmd.Flags().String("sequence", "", "filter by sequence name")
	resultsQueryCmd.Flags().String("method", "", "filter by prediction method")
	resultsQueryCmd.Flags().String("parameters", "", "filter by parameter set name")
	resultsQueryCmd.Flags().Float64("max-energy", 0, "keep records at or below this energy (kcal/mol)")
	resultsQueryCmd.Flags().Int("limit", 0, "maximum rows (default from config)")
	resultsQueryCmd.Flags().Bool("json", false, "print records as JSON instead of a table")

	resultsExportCmd.Flags().String("format", "txt", "output format: json, yaml, csv, or txt")
	resultsExportCmd.Flags().String("output", "", "output file (default: stdout)")
}

func openStore(cmd *cobra.Command) (*results.Store, error) {
	cfg := pipelineConfig(cmd).Results
	return results.NewStore(cfg)
}

func runResultsStore(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to index", summary.Failed, summary.Total())
	}
	return nil
}

func runResultsQuery(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := results.QueryOptions{}
	opts.SequenceName, _ = cmd.Flags().GetString("sequence")
	opts.Method, _ = cmd.Flags().GetString("method")
	opts.Parameters, _ = cmd.Flags().GetString("parameters")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	if cmd.Flags().Changed("max-energy") {
		v, _ := cmd.Flags().GetFloat64("max-energy")
		opts.MaxEnergy = &v
	}

	records, err := store.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return results.ExportJSON(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("no matching results")
		return nil
	}

	fmt.Printf("%-20s %-10s %-18s %10s %6s %6s %8s\n",
		"Sequence", "Method", "Parameters", "Energy", "Pairs", "GC%", "Density")
	for _, r := range records {
		energy := "n/a"
		if r.Energy != nil {
			energy = fmt.Sprintf("%.2f", *r.Energy)
		}
		fmt.Printf("%-20s %-10s %-18s %10s %6d %6.1f %8.3f\n",
			r.SequenceName, r.Method, r.Parameters, energy,
			r.NumBasePairs, r.GCContent*100, r.BasePairDensity)
	}
	return nil
}

func runResultsExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	sequenceName := args[0]
	records, err := store.Query(cmd.Context(), results.QueryOptions{
		SequenceName: sequenceName,
		Limit:        results.ExportLimit,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no indexed results for %s; run \"results store\" first", sequenceName)
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return results.ExportJSON(out, records)
	case "yaml":
		return results.ExportYAML(out, records)
	case "csv":
		return results.ExportCSV(out, records)
	case "txt":
		return results.WriteComparison(out, sequenceName, records)
	default:
		return fmt.Errorf("unknown format %q (want json, yaml, csv, or txt)", format)
	}
}
