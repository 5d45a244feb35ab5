package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/clean"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <dataset>",
	Short: "Apply a cleaning recipe to a canonical dataset",
	Long: `Clean loads a canonical CSV, applies the steps of a YAML cleaning recipe
(replace, fill, dropna, drop_columns, rename, force_type), prints a
per-step report, and writes the cleaned CSV.

The recipe defaults to the dataset's name. A bare name resolves in the
recipes directory; a path or .yaml suffix is used as given.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().String("recipe", "", "recipe name or YAML path (default: the dataset name)")
	cleanCmd.Flags().String("out", "", "output CSV path (default: <data-dir>/clean/<dataset>.csv)")
	cleanCmd.Flags().String("recipes-dir", "", "recipe directory (default: config recipes_dir, then recipes)")
	addDataDirFlag(cleanCmd)

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	name := args[0]

	f, err := loadDataset(cmd, name)
	if err != nil {
		return err
	}

	recipeArg, _ := cmd.Flags().GetString("recipe")
	if recipeArg == "" {
		recipeArg = f.Name()
	}
	recipe, err := clean.LoadRecipe(clean.ResolveRecipePath(recipeArg, recipesDir(cmd)))
	if err != nil {
		return err
	}

	cleaned, rep, err := clean.Apply(f, recipe)
	if err != nil {
		return err
	}
	rep.Render(os.Stdout)

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = filepath.Join(dataDir(cmd), "clean", f.Name()+".csv")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := cleaned.WriteCSVFile(outPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d rows, %d columns)\n", outPath, cleaned.NRows(), cleaned.NCols())
	return nil
}
