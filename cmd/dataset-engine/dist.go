package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/dist"
	"github.com/pdiddy/dataset-engine/internal/frame"
)

// histBarWidth is the widest histogram bar in terminal cells.
const histBarWidth = 50

var distCmd = &cobra.Command{
	Use:   "dist <dataset>",
	Short: "Histogram, quantiles and density of a numeric column",
	Long: `Dist summarizes the distribution of one numeric column: quartiles, an
ASCII histogram over equal-width bins, and with --kde a Gaussian kernel
density estimate evaluated on a regular grid. --range lo,hi restricts
the histogram to a window, ignoring outliers.`,
	Args: cobra.ExactArgs(1),
	RunE: runDist,
}

func init() {
	distCmd.Flags().String("col", "", "numeric column to summarize (required)")
	distCmd.Flags().Int("bins", 10, "number of equal-width histogram bins")
	distCmd.Flags().String("range", "", "histogram window as lo,hi (default: data extent)")
	distCmd.Flags().Bool("kde", false, "print a kernel density estimate instead of a histogram")
	distCmd.Flags().Int("points", 40, "grid size for --kde")
	addDataDirFlag(distCmd)
	addSaveFlag(distCmd)

	rootCmd.AddCommand(distCmd)
}

func runDist(cmd *cobra.Command, args []string) error {
	f, err := loadDataset(cmd, args[0])
	if err != nil {
		return err
	}

	col, _ := cmd.Flags().GetString("col")
	if col == "" {
		return fmt.Errorf("provide the column with --col")
	}
	c := f.Column(col)
	if c == nil {
		return fmt.Errorf("%w: %q", frame.ErrUnknownColumn, col)
	}
	if !c.IsNumeric() {
		return fmt.Errorf("%w: %q is %s", frame.ErrNotNumeric, col, c.Type())
	}
	values, _ := c.Floats()
	params := map[string]string{"dataset": f.Name(), "col": col}

	if kde, _ := cmd.Flags().GetBool("kde"); kde {
		points, _ := cmd.Flags().GetInt("points")
		xs, ds, err := dist.KDE(values, points)
		if err != nil {
			return err
		}
		grid, err := frame.New(f.Name()+" kde",
			frame.NewFloatColumn(col, xs, nil),
			frame.NewFloatColumn("density", ds, nil))
		if err != nil {
			return err
		}
		title("%s: density over %d points", col, points)
		return emitResult(cmd, "dist", params, grid)
	}

	qs, err := dist.Quantiles(values, 0, 0.25, 0.5, 0.75, 1)
	if err != nil {
		return err
	}
	title("%s: %d values", col, len(values))
	fmt.Fprintf(os.Stdout, "min %g  q1 %g  median %g  q3 %g  max %g\n\n", qs[0], qs[1], qs[2], qs[3], qs[4])

	bins, _ := cmd.Flags().GetInt("bins")
	var edges, counts []float64
	if window, _ := cmd.Flags().GetString("range"); window != "" {
		bounds, err := splitFloats(window)
		if err != nil {
			return err
		}
		if len(bounds) != 2 {
			return fmt.Errorf("cannot parse range %q (want lo,hi)", window)
		}
		edges, counts, err = dist.HistogramRange(values, bounds[0], bounds[1], bins)
		if err != nil {
			return err
		}
		params["range"] = window
	} else if edges, counts, err = dist.Histogram(values, bins); err != nil {
		return err
	}
	dist.RenderHist(os.Stdout, edges, counts, histBarWidth)

	if savePath, _ := cmd.Flags().GetString("save"); savePath == "" {
		return nil
	}
	labels := make([]string, len(counts))
	for i := range counts {
		labels[i] = fmt.Sprintf("[%g, %g)", edges[i], edges[i+1])
	}
	hist, err := frame.New(f.Name()+" hist",
		frame.NewStringColumn("bin", labels, nil),
		frame.NewFloatColumn("count", counts, nil))
	if err != nil {
		return err
	}
	return saveReport(cmd, "dist", params, hist)
}
