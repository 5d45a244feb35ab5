// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/catalog"
	"github.com/pdiddy/dataset-engine/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Index canonical datasets in a searchable catalog",
	Long: `Catalog maintains a SQLite index of the canonical datasets with
per-column profiles and full-text search over names, descriptions and
column names. Ingest scans the canonical directory; the other
subcommands query the index.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Scan canonical CSVs into the catalog",
	Long: `Ingest profiles every canonical CSV (row and column counts, per-column
types, ranges and means) and indexes it for search. Files unchanged
since the last run are skipped.`,
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d dataset(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every cataloged dataset",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatEntries(entries, jsonOutput)
}

// --- describe subcommand ---

var catalogDescribeCmd = &cobra.Command{
	Use:   "describe <dataset>",
	Short: "Show a dataset's column profiles",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogDescribe,
}

func runCatalogDescribe(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	detail, err := store.Describe(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	title("%s  (%d rows, %d columns, %s)", detail.Name, detail.Rows, detail.Cols,
		datasize.ByteSize(detail.SizeBytes).HumanReadable())
	fmt.Fprintf(os.Stdout, "path: %s\n", detail.Path)
	if detail.Description != "" {
		fmt.Fprintf(os.Stdout, "%s\n", detail.Description)
	}
	fmt.Fprintln(os.Stdout)

	fmt.Fprintf(os.Stdout, "%-20s  %-8s  %8s  %8s  %10s  %10s  %10s\n",
		"Column", "Type", "Non-null", "Distinct", "Min", "Max", "Mean")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 84))
	for _, c := range detail.Columns {
		fmt.Fprintf(os.Stdout, "%-20s  %-8s  %8d  %8d  %10s  %10s  %10s\n",
			c.Name, c.Dtype, c.NonNull, c.Distinct,
			renderStat(c.Min), renderStat(c.Max), renderStat(c.Mean))
	}
	return nil
}

// renderStat formats an optional numeric profile value.
func renderStat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', 6, 64)
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over the catalog",
	Long: `Search matches dataset names, descriptions and column names with FTS5,
ranked by relevance. Without a query every dataset is listed.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Search(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatEntries(entries, jsonOutput)
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		return store.Export(context.Background(), os.Stdout, format)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := store.Export(context.Background(), out, format); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported to %s\n", outPath)
	return nil
}

// --- shared helpers ---

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	indexPath, _ := cmd.Flags().GetString("index")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return catalog.NewStore(types.CatalogConfig{
		DataDir:    dataDir(cmd),
		IndexPath:  indexPath,
		MaxResults: maxResults,
	})
}

func formatEntries(entries []catalog.DatasetEntry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No datasets cataloged.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %8s  %5s  %10s  %s\n", "Dataset", "Rows", "Cols", "Size", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, e := range entries {
		desc := e.Description
		if len(desc) > 44 {
			desc = desc[:41] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-16s  %8d  %5d  %10s  %s\n",
			e.Name, e.Rows, e.Cols, datasize.ByteSize(e.SizeBytes).HumanReadable(), desc)
	}
	fmt.Fprintf(os.Stdout, "\n%d dataset(s)\n", len(entries))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("data-dir", "", "base data directory (default: config data_dir, then data)")
	catalogCmd.PersistentFlags().String("index", "", "catalog database path (default: <data-dir>/index/catalog.db)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum search results")

	// Query output flags.
	catalogListCmd.Flags().Bool("json", false, "output as JSON")
	catalogSearchCmd.Flags().Bool("json", false, "output as JSON")
	catalogDescribeCmd.Flags().Bool("json", false, "output as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("out", "", "write to this file instead of stdout")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogDescribeCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
