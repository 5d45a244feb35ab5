// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean applies declarative cleaning recipes to frames.
package clean

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/pkg/types"
)

// Recipe is an ordered list of cleaning steps, loaded from YAML.
type Recipe struct {
	// Name identifies the recipe, usually the dataset it targets.
	Name string `yaml:"name"`

	// Description is an optional human-readable summary.
	Description string `yaml:"description,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`
}

// Step is one cleaning operation. Op selects the operation; the other
// fields parameterize it and are ignored when not relevant.
type Step struct {
	// Op is one of: replace, fill, dropna, drop_columns, rename,
	// force_type.
	Op string `yaml:"op"`

	// Column names the target column. For fill, empty means all columns.
	Column string `yaml:"column,omitempty"`

	// Columns names multiple targets (drop_columns).
	Columns []string `yaml:"columns,omitempty"`

	// From and To parameterize replace and rename.
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// Value is the fill constant.
	Value string `yaml:"value,omitempty"`

	// How selects dropna semantics: any (default) or all.
	How string `yaml:"how,omitempty"`

	// Subset restricts which columns dropna inspects.
	Subset []string `yaml:"subset,omitempty"`

	// Type is the force_type target type.
	Type string `yaml:"type,omitempty"`

	// Layout is the time layout for force_type to time.
	Layout string `yaml:"layout,omitempty"`
}

// StepReport records what one step changed.
type StepReport struct {
	Op             string `yaml:"op"`
	Column         string `yaml:"column,omitempty"`
	RowsDropped    int    `yaml:"rows_dropped,omitempty"`
	CellsFilled    int    `yaml:"cells_filled,omitempty"`
	CellsReplaced  int    `yaml:"cells_replaced,omitempty"`
	ParseFailures  int    `yaml:"parse_failures,omitempty"`
	ColumnsDropped int    `yaml:"columns_dropped,omitempty"`
}

// Report collects per-step change counts for a recipe run.
type Report struct {
	Recipe  string       `yaml:"recipe"`
	RowsIn  int          `yaml:"rows_in"`
	RowsOut int          `yaml:"rows_out"`
	Steps   []StepReport `yaml:"steps"`
}

// Render writes the report as one line per step.
func (r Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Recipe %q: %d rows in, %d rows out\n", r.Recipe, r.RowsIn, r.RowsOut)
	for i, s := range r.Steps {
		fmt.Fprintf(w, "  step %d %-12s", i+1, s.Op)
		if s.Column != "" {
			fmt.Fprintf(w, " %-15s", s.Column)
		}
		switch {
		case s.RowsDropped > 0:
			fmt.Fprintf(w, " dropped %d rows", s.RowsDropped)
		case s.CellsFilled > 0:
			fmt.Fprintf(w, " filled %d cells", s.CellsFilled)
		case s.CellsReplaced > 0:
			fmt.Fprintf(w, " replaced %d cells", s.CellsReplaced)
		case s.ColumnsDropped > 0:
			fmt.Fprintf(w, " dropped %d columns", s.ColumnsDropped)
		}
		if s.ParseFailures > 0 {
			fmt.Fprintf(w, " (%d parse failures)", s.ParseFailures)
		}
		fmt.Fprintln(w)
	}
}

// LoadRecipe reads a recipe from a YAML file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe: %w", err)
	}
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing recipe: %w", err)
	}
	if len(r.Steps) == 0 {
		return nil, fmt.Errorf("recipe %s has no steps", path)
	}
	return &r, nil
}

// SaveRecipe writes a recipe as YAML.
func SaveRecipe(path string, r *Recipe) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling recipe: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Apply runs every recipe step in order and returns the cleaned frame
// with a per-step report. The input frame is never mutated.
func Apply(f *frame.Frame, r *Recipe) (*frame.Frame, Report, error) {
	report := Report{Recipe: r.Name, RowsIn: f.NRows()}
	cur := f

	for i, step := range r.Steps {
		var (
			sr  StepReport
			err error
		)
		sr.Op = step.Op
		sr.Column = step.Column

		switch step.Op {
		case "replace":
			cur, sr.CellsReplaced, err = cur.Replace(step.Column, step.From, step.To)
		case "fill":
			cur, sr.CellsFilled, err = cur.FillNA(step.Column, step.Value)
		case "dropna":
			how := frame.DropNAHow(step.How)
			if step.How == "" {
				how = frame.DropAny
			}
			cur, sr.RowsDropped, err = cur.DropNA(how, step.Subset)
		case "drop_columns":
			cur, err = cur.Drop(step.Columns...)
			sr.ColumnsDropped = len(step.Columns)
		case "rename":
			cur, err = cur.Rename(step.From, step.To)
			sr.Column = step.From
		case "force_type":
			cur, sr.ParseFailures, err = cur.ForceType(step.Column, types.ColumnType(step.Type), step.Layout)
		default:
			err = fmt.Errorf("unknown op %q", step.Op)
		}
		if err != nil {
			return nil, report, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		report.Steps = append(report.Steps, sr)
	}

	report.RowsOut = cur.NRows()
	return cur, report, nil
}

// ResolveRecipePath expands a bare recipe name to a file under the
// recipes directory; paths with a separator or .yaml suffix pass through.
func ResolveRecipePath(name, recipesDir string) string {
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return name
	}
	return recipesDir + string(os.PathSeparator) + name + ".yaml"
}
