package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset>",
	Short: "Peek at a dataset: head, tail, info, describe, value counts",
	Long: `Inspect prints quick looks at a canonical CSV: the first or last rows, a
per-column summary of types, null counts and memory use, descriptive
statistics for the numeric columns, or value counts for one column.

--bins buckets a numeric column at the given comma-separated edges
before counting, so "--value-counts age --bins 0,18,30,50,100" tallies
age groups instead of raw ages.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Int("head", 0, "print the first n rows (default when no other mode is given)")
	inspectCmd.Flags().Int("tail", 0, "print the last n rows")
	inspectCmd.Flags().Bool("info", false, "print column types, null counts and memory use")
	inspectCmd.Flags().Bool("describe", false, "print descriptive statistics for numeric columns")
	inspectCmd.Flags().String("value-counts", "", "print value counts for this column")
	inspectCmd.Flags().String("bins", "", "comma-separated bin edges applied before --value-counts")
	inspectCmd.Flags().Bool("normalize", false, "show value counts as proportions")
	addDataDirFlag(inspectCmd)
	addSaveFlag(inspectCmd)

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := loadDataset(cmd, args[0])
	if err != nil {
		return err
	}
	params := map[string]string{"dataset": f.Name()}

	info, _ := cmd.Flags().GetBool("info")
	describe, _ := cmd.Flags().GetBool("describe")
	vcCol, _ := cmd.Flags().GetString("value-counts")
	tail, _ := cmd.Flags().GetInt("tail")

	switch {
	case info:
		f.Info(os.Stdout)
		return nil

	case describe:
		d, err := f.Describe()
		if err != nil {
			return err
		}
		return emitResult(cmd, "describe", params, d)

	case vcCol != "":
		params["column"] = vcCol
		target, col := f, vcCol
		if binSpec, _ := cmd.Flags().GetString("bins"); binSpec != "" {
			edges, err := splitFloats(binSpec)
			if err != nil {
				return err
			}
			binned, err := f.Cut(vcCol, edges, nil)
			if err != nil {
				return err
			}
			if target, err = f.AddColumn(binned); err != nil {
				return err
			}
			col = binned.Name()
			params["bins"] = binSpec
		}
		normalize, _ := cmd.Flags().GetBool("normalize")
		vc, err := target.ValueCounts(col, normalize)
		if err != nil {
			return err
		}
		return emitResult(cmd, "value-counts", params, vc)

	case tail > 0:
		return emitResult(cmd, "tail", params, f.Tail(tail))

	default:
		head, _ := cmd.Flags().GetInt("head")
		if head == 0 {
			head = 10
		}
		return emitResult(cmd, "head", params, f.Head(head))
	}
}

// splitFloats parses a comma-separated list of bin edges.
func splitFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse bin edge %q", p)
		}
		out[i] = v
	}
	return out, nil
}
