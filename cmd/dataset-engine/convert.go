package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/acquire"
	"github.com/pdiddy/dataset-engine/internal/convert"
	"github.com/pdiddy/dataset-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [datasets...]",
	Short: "Normalize raw CSV dialects into canonical CSV",
	Long: `Convert rewrites raw downloads as canonical comma-separated UTF-8 files
under data/canonical/, resolving each dataset's separator, comment and
missing-value markers. A dataset whose canonical file is newer than its
raw file is skipped.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("all", false, "convert every registry dataset")
	addDataDirFlag(convertCmd)

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	names := args
	if all, _ := cmd.Flags().GetBool("all"); all {
		names = acquire.Names()
	}
	if len(names) == 0 {
		return fmt.Errorf("provide dataset names or --all (known: %s)", strings.Join(acquire.Names(), ", "))
	}

	datasets := make([]types.Dataset, 0, len(names))
	for _, name := range names {
		ds, ok := acquire.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown dataset %q (known: %s)", name, strings.Join(acquire.Names(), ", "))
		}
		datasets = append(datasets, ds)
	}

	cfg := types.ConvertConfig{DataDir: dataDir(cmd)}
	summary := convert.ConvertBatch(context.Background(), convert.CSVNormalizer{}, datasets, cfg, os.Stdout)
	if summary.HasFailures() {
		return fmt.Errorf("%d dataset(s) failed conversion", summary.Failed)
	}
	return nil
}
