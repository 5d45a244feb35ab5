package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/internal/groupby"
)

var groupCmd = &cobra.Command{
	Use:   "group <dataset>",
	Short: "Group rows by key columns and aggregate per group",
	Long: `Group partitions rows by one or more key columns and aggregates value
columns per group. Without --agg the group sizes are printed.

--unstack pivots one of two group keys into the header, turning the
long groupby result into a wide table.`,
	Args: cobra.ExactArgs(1),
	RunE: runGroup,
}

func init() {
	groupCmd.Flags().String("by", "", "comma-separated key columns (required)")
	groupCmd.Flags().StringArray("agg", nil, "aggregation as col:fn (fn: mean, median, sum, count, min, max); repeatable")
	groupCmd.Flags().String("unstack", "", "pivot this key column into the header (needs two keys)")
	addDataDirFlag(groupCmd)
	addSaveFlag(groupCmd)

	rootCmd.AddCommand(groupCmd)
}

func runGroup(cmd *cobra.Command, args []string) error {
	f, err := loadDataset(cmd, args[0])
	if err != nil {
		return err
	}

	byFlag, _ := cmd.Flags().GetString("by")
	keys := splitList(byFlag)
	if len(keys) == 0 {
		return fmt.Errorf("provide group keys with --by")
	}
	params := map[string]string{"dataset": f.Name(), "by": byFlag}

	g, err := groupby.GroupBy(f, keys...)
	if err != nil {
		return err
	}

	aggSpecs, _ := cmd.Flags().GetStringArray("agg")
	var result *frame.Frame
	if len(aggSpecs) == 0 {
		result, err = g.Size()
	} else {
		aggs := make([]groupby.Aggregation, 0, len(aggSpecs))
		for _, spec := range aggSpecs {
			col, fnName, ok := strings.Cut(spec, ":")
			if !ok || col == "" || fnName == "" {
				return fmt.Errorf("cannot parse aggregation %q (want col:fn)", spec)
			}
			fn, err := groupby.ParseAggFunc(fnName)
			if err != nil {
				return err
			}
			aggs = append(aggs, groupby.Aggregation{Col: col, Fn: fn})
		}
		params["agg"] = strings.Join(aggSpecs, ",")
		result, err = g.Agg(aggs...)
	}
	if err != nil {
		return err
	}

	if unstackCol, _ := cmd.Flags().GetString("unstack"); unstackCol != "" {
		if len(keys) != 2 {
			return fmt.Errorf("--unstack needs exactly two group keys, got %d", len(keys))
		}
		indexCol := keys[0]
		switch unstackCol {
		case keys[0]:
			indexCol = keys[1]
		case keys[1]:
		default:
			return fmt.Errorf("--unstack column %q must be one of the group keys", unstackCol)
		}
		names := result.Names()
		if len(names) != 3 {
			return fmt.Errorf("--unstack needs a single aggregation")
		}
		params["unstack"] = unstackCol
		if result, err = groupby.Unstack(result, indexCol, unstackCol, names[2]); err != nil {
			return err
		}
	}

	return emitResult(cmd, "group", params, result)
}
