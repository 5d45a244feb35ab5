package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/frame"
)

var joinCmd = &cobra.Command{
	Use:   "join <left> <right>",
	Short: "Join two datasets on a key column",
	Long: `Join merges two canonical datasets on a shared key column. Left joins
keep every left row, filling unmatched right columns with missing
cells; inner joins keep matches only. Right columns whose names collide
get a _right suffix.

--ratio num:den appends num/den as a new column after the join, the
usual per-capita step when enriching counts with population or area.`,
	Args: cobra.ExactArgs(2),
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().String("on", "", "key column present in both datasets (required)")
	joinCmd.Flags().String("kind", "left", "join kind: left or inner")
	joinCmd.Flags().String("ratio", "", "append a num:den ratio column after the join")
	addDataDirFlag(joinCmd)
	addSaveFlag(joinCmd)

	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	left, err := loadDataset(cmd, args[0])
	if err != nil {
		return err
	}
	right, err := loadDataset(cmd, args[1])
	if err != nil {
		return err
	}

	on, _ := cmd.Flags().GetString("on")
	if on == "" {
		return fmt.Errorf("provide the key column with --on")
	}
	kind, _ := cmd.Flags().GetString("kind")
	params := map[string]string{"left": left.Name(), "right": right.Name(), "on": on, "kind": kind}

	result, err := frame.Join(left, right, on, frame.JoinKind(kind))
	if err != nil {
		return err
	}

	if ratio, _ := cmd.Flags().GetString("ratio"); ratio != "" {
		num, den, ok := strings.Cut(ratio, ":")
		if !ok || num == "" || den == "" {
			return fmt.Errorf("cannot parse ratio %q (want num:den)", ratio)
		}
		params["ratio"] = ratio
		if result, err = result.Ratio(num, den, num+"_per_"+den); err != nil {
			return err
		}
	}

	return emitResult(cmd, "join", params, result)
}
