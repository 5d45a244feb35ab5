package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dataset-engine/internal/convert"
	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/internal/report"
)

// Shared helpers for commands that read canonical CSVs and render frames.

// titleColor highlights section lines; color disables itself when stdout
// is not a terminal.
var titleColor = color.New(color.FgCyan, color.Bold)

func title(format string, args ...any) {
	titleColor.Printf(format+"\n", args...)
}

// dataDir resolves the data directory: flag first, then config, then
// the default layout.
func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	if dir := viper.GetString("data_dir"); dir != "" {
		return dir
	}
	return "data"
}

// recipesDir resolves the cleaning recipe directory the same way.
func recipesDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("recipes-dir"); dir != "" {
		return dir
	}
	if dir := viper.GetString("recipes_dir"); dir != "" {
		return dir
	}
	return "recipes"
}

// addDataDirFlag registers --data-dir on commands that touch the data
// directory.
func addDataDirFlag(cmd *cobra.Command) {
	cmd.Flags().String("data-dir", "", "base data directory (default: config data_dir, then data)")
}

// addSaveFlag registers --save on analysis commands.
func addSaveFlag(cmd *cobra.Command) {
	cmd.Flags().String("save", "", "write the result as a YAML report to this path")
}

// loadDataset reads the canonical CSV for a dataset name. An argument
// ending in .csv is used as a literal path, so cleaned or ad-hoc files
// work too.
func loadDataset(cmd *cobra.Command, name string) (*frame.Frame, error) {
	path := name
	if !strings.HasSuffix(name, ".csv") {
		path = convert.CanonicalPath(dataDir(cmd), name)
	}
	f, err := frame.ReadCSVFile(path, frame.WithName(convert.DatasetNameFromPath(path)))
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", name, err)
	}
	return f, nil
}

// saveReport honors --save, writing the frame as a YAML report.
func saveReport(cmd *cobra.Command, op string, params map[string]string, f *frame.Frame) error {
	path, _ := cmd.Flags().GetString("save")
	if path == "" {
		return nil
	}
	if err := report.Write(path, report.New(op, params, f)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved report to %s\n", path)
	return nil
}

// emitResult renders a result frame to stdout and honors --save.
func emitResult(cmd *cobra.Command, op string, params map[string]string, f *frame.Frame) error {
	f.RenderTable(os.Stdout, 0)
	return saveReport(cmd, op, params, f)
}

// splitList splits a comma-separated flag value, dropping empty parts.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
