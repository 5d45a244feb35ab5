package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/internal/groupby"
	"github.com/pdiddy/dataset-engine/internal/timeseries"
)

var profileCmd = &cobra.Command{
	Use:   "profile <dataset> {resample|weekday|month}",
	Short: "Time-series profiles: resample and seasonal averages",
	Long: `Profile parses a time column and computes time-series views. Resample
buckets rows into calendar periods (--freq day, month or year) and
aggregates value columns per period. Weekday and month average one
value column into an hour-of-day grid with a column per weekday or per
month, the usual seasonal view of an air-quality series.

The time column is parsed with --layout (Go reference time; 02/01/2006
by default, matching the French exports). A separate hour column merges
in via --hour; hourly exports usually number hours 1 to 24 for the
interval ends, which --hour assumes.`,
	Args: cobra.ExactArgs(2),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().String("time", "", "time column (required)")
	profileCmd.Flags().String("value", "", "value columns, comma-separated (resample default: all numeric)")
	profileCmd.Flags().String("hour", "", "integer hour column combined with the date column")
	profileCmd.Flags().Bool("hour-from-zero", false, "hour column counts 0 to 23 interval starts instead of 1 to 24")
	profileCmd.Flags().String("layout", timeseries.LayoutFR, "time layout in Go reference form")
	profileCmd.Flags().String("freq", "day", "resample frequency: day, month or year")
	profileCmd.Flags().String("agg", "mean", "resample aggregation: mean, median, sum, count, min, max")
	addDataDirFlag(profileCmd)
	addSaveFlag(profileCmd)

	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	f, err := loadDataset(cmd, args[0])
	if err != nil {
		return err
	}
	mode := args[1]

	timeCol, _ := cmd.Flags().GetString("time")
	if timeCol == "" {
		return fmt.Errorf("provide the time column with --time")
	}
	layout, _ := cmd.Flags().GetString("layout")
	valueFlag, _ := cmd.Flags().GetString("value")
	values := splitList(valueFlag)
	params := map[string]string{"dataset": f.Name(), "mode": mode, "time": timeCol}

	// Turn the textual time column into a real one, merging in an hour
	// column when the export splits date and hour.
	var dropped int
	if hourCol, _ := cmd.Flags().GetString("hour"); hourCol != "" {
		fromZero, _ := cmd.Flags().GetBool("hour-from-zero")
		f, dropped, err = timeseries.BuildTime(f, timeCol, hourCol, layout, "time", !fromZero)
		timeCol = "time"
	} else {
		f, dropped, err = timeseries.ParseTimes(f, timeCol, layout)
	}
	if err != nil {
		return err
	}
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "%d row(s) had no parseable time\n", dropped)
	}

	var result *frame.Frame
	switch mode {
	case "resample":
		freqName, _ := cmd.Flags().GetString("freq")
		freq, err := timeseries.ParseFrequency(freqName)
		if err != nil {
			return err
		}
		aggName, _ := cmd.Flags().GetString("agg")
		fn, err := groupby.ParseAggFunc(aggName)
		if err != nil {
			return err
		}
		params["freq"] = freqName
		params["agg"] = aggName
		if result, err = timeseries.Resample(f, timeCol, freq, fn, values...); err != nil {
			return err
		}

	case "weekday", "month":
		if len(values) != 1 {
			return fmt.Errorf("provide a single --value column for the %s profile", mode)
		}
		params["value"] = values[0]
		if mode == "weekday" {
			result, err = timeseries.WeekdayProfile(f, timeCol, values[0])
		} else {
			result, err = timeseries.MonthProfile(f, timeCol, values[0])
		}
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown profile mode %q (want resample, weekday or month)", mode)
	}

	return emitResult(cmd, "profile", params, result)
}
