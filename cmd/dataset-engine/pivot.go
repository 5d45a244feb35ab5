package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/internal/groupby"
)

var pivotCmd = &cobra.Command{
	Use:   "pivot <dataset>",
	Short: "Cross-tabulate two columns or build a pivot table",
	Long: `Pivot builds a contingency table of two categorical columns: one row per
distinct value of --rows, one column per distinct value of --cols, cell
counts in between. With --values and --agg it aggregates a value column
per cell instead of counting.

--normalize index|columns|all turns counts into shares along the chosen
axis, --percent scales shares to percentages, and --margins appends All
totals.`,
	Args: cobra.ExactArgs(1),
	RunE: runPivot,
}

func init() {
	pivotCmd.Flags().String("rows", "", "column whose values become the table rows (required)")
	pivotCmd.Flags().String("cols", "", "column whose values become the table header (required)")
	pivotCmd.Flags().String("values", "", "aggregate this column per cell instead of counting")
	pivotCmd.Flags().String("agg", "mean", "aggregation for --values: mean, median, sum, count, min, max")
	pivotCmd.Flags().String("normalize", "", "scale counts to shares: index, columns or all")
	pivotCmd.Flags().Bool("percent", false, "show normalized shares as percentages")
	pivotCmd.Flags().Bool("margins", false, "append All row and column totals")
	addDataDirFlag(pivotCmd)
	addSaveFlag(pivotCmd)

	rootCmd.AddCommand(pivotCmd)
}

func runPivot(cmd *cobra.Command, args []string) error {
	f, err := loadDataset(cmd, args[0])
	if err != nil {
		return err
	}

	rowCol, _ := cmd.Flags().GetString("rows")
	colCol, _ := cmd.Flags().GetString("cols")
	if rowCol == "" || colCol == "" {
		return fmt.Errorf("provide --rows and --cols")
	}
	margins, _ := cmd.Flags().GetBool("margins")
	params := map[string]string{"dataset": f.Name(), "rows": rowCol, "cols": colCol}

	var result *frame.Frame
	if values, _ := cmd.Flags().GetString("values"); values != "" {
		aggName, _ := cmd.Flags().GetString("agg")
		fn, err := groupby.ParseAggFunc(aggName)
		if err != nil {
			return err
		}
		params["values"] = values
		params["agg"] = aggName
		if result, err = groupby.PivotTable(f, rowCol, colCol, values, fn, margins); err != nil {
			return err
		}
	} else {
		normFlag, _ := cmd.Flags().GetString("normalize")
		norm, err := groupby.ParseNormalization(normFlag)
		if err != nil {
			return err
		}
		percent, _ := cmd.Flags().GetBool("percent")
		if normFlag != "" {
			params["normalize"] = normFlag
		}
		opts := groupby.CrosstabOptions{Normalize: norm, Percent: percent, Margins: margins}
		if result, err = groupby.Crosstab(f, rowCol, colCol, opts); err != nil {
			return err
		}
	}

	return emitResult(cmd, "pivot", params, result)
}
