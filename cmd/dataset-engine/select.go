package main

import (
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select <dataset>",
	Short: "Project columns and filter rows",
	Long: `Select projects a subset of columns and filters rows with a single
comparison. The condition has the form "col op value" with ops
== != > >= < <=; string literals may be quoted. Rows with a missing
cell in the condition column never match.`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().String("cols", "", "comma-separated columns to keep (default: all)")
	selectCmd.Flags().String("where", "", `row filter, e.g. 'age > 30' or 'sex == "female"'`)
	selectCmd.Flags().String("sort", "", "sort by this column")
	selectCmd.Flags().Bool("desc", false, "sort descending")
	selectCmd.Flags().Int("head", 0, "print only the first n rows")
	addDataDirFlag(selectCmd)
	addSaveFlag(selectCmd)

	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	f, err := loadDataset(cmd, args[0])
	if err != nil {
		return err
	}
	params := map[string]string{"dataset": f.Name()}

	if where, _ := cmd.Flags().GetString("where"); where != "" {
		if f, err = f.Where(where); err != nil {
			return err
		}
		params["where"] = where
	}
	if cols, _ := cmd.Flags().GetString("cols"); cols != "" {
		if f, err = f.Select(splitList(cols)...); err != nil {
			return err
		}
		params["cols"] = cols
	}
	if sortCol, _ := cmd.Flags().GetString("sort"); sortCol != "" {
		desc, _ := cmd.Flags().GetBool("desc")
		if f, err = f.Sort(sortCol, !desc); err != nil {
			return err
		}
		params["sort"] = sortCol
	}
	if head, _ := cmd.Flags().GetInt("head"); head > 0 {
		f = f.Head(head)
	}
	return emitResult(cmd, "select", params, f)
}
