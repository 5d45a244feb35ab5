// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/dataset-engine/internal/frame"
)

// --- test helpers ---

// passengerFrame builds a small frame with the missing-value shapes the
// cleaning steps target: two missing ages, one missing city.
func passengerFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New("passengers",
		frame.NewStringColumn("name", []string{"Allen", "Ibsen", "Dumont", "Carlsson"}, nil),
		frame.NewFloatColumn("age", []float64{29, 0, 27, 0}, []bool{true, false, true, false}),
		frame.NewStringColumn("city", []string{"St Louis", "", "Paris", "Uppsala"}, []bool{true, false, true, true}),
		frame.NewStringColumn("boat", []string{"2", "", "5", ""}, []bool{true, false, true, false}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// --- step tests ---

func TestApplyFill(t *testing.T) {
	f := passengerFrame(t)
	r := &Recipe{Name: "t", Steps: []Step{
		{Op: "fill", Column: "city", Value: "Inconnu"},
	}}

	out, rep, err := Apply(f, r)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Steps[0].CellsFilled != 1 {
		t.Errorf("CellsFilled = %d, want 1", rep.Steps[0].CellsFilled)
	}
	if v, _ := out.Column("city").Str(1); v != "Inconnu" {
		t.Errorf("city[1] = %q, want Inconnu", v)
	}
	// Source is untouched.
	if f.Column("city").IsValid(1) {
		t.Error("Apply mutated its input")
	}
}

func TestApplyDropNAAny(t *testing.T) {
	f := passengerFrame(t)
	r := &Recipe{Name: "t", Steps: []Step{
		{Op: "dropna", How: "any"},
	}}

	out, rep, err := Apply(f, r)
	if err != nil {
		t.Fatal(err)
	}
	if out.NRows() != 2 {
		t.Errorf("rows = %d, want 2", out.NRows())
	}
	if rep.Steps[0].RowsDropped != 2 {
		t.Errorf("RowsDropped = %d, want 2", rep.Steps[0].RowsDropped)
	}
}

func TestApplyDropNASubset(t *testing.T) {
	f := passengerFrame(t)
	r := &Recipe{Name: "t", Steps: []Step{
		{Op: "dropna", Subset: []string{"age"}},
	}}

	out, _, err := Apply(f, r)
	if err != nil {
		t.Fatal(err)
	}
	// Only the rows with missing age go; Carlsson's missing boat is not
	// inspected.
	if out.NRows() != 2 {
		t.Fatalf("rows = %d, want 2", out.NRows())
	}
	if v, _ := out.Column("name").Str(1); v != "Dumont" {
		t.Errorf("row 1 = %q, want Dumont", v)
	}
}

func TestApplyDropNAAll(t *testing.T) {
	f := passengerFrame(t)
	r := &Recipe{Name: "t", Steps: []Step{
		{Op: "dropna", How: "all", Subset: []string{"age", "boat"}},
	}}

	out, _, err := Apply(f, r)
	if err != nil {
		t.Fatal(err)
	}
	// Only rows where both age and boat are missing: Ibsen and Carlsson.
	if out.NRows() != 2 {
		t.Errorf("rows = %d, want 2", out.NRows())
	}
}

func TestApplyReplace(t *testing.T) {
	f := passengerFrame(t)
	r := &Recipe{Name: "t", Steps: []Step{
		{Op: "replace", Column: "city", From: "Paris", To: "Paris 13e"},
	}}

	out, rep, err := Apply(f, r)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Steps[0].CellsReplaced != 1 {
		t.Errorf("CellsReplaced = %d, want 1", rep.Steps[0].CellsReplaced)
	}
	if v, _ := out.Column("city").Str(2); v != "Paris 13e" {
		t.Errorf("city[2] = %q", v)
	}
}

func TestApplyDropColumnsRename(t *testing.T) {
	f := passengerFrame(t)
	r := &Recipe{Name: "t", Steps: []Step{
		{Op: "drop_columns", Columns: []string{"boat"}},
		{Op: "rename", From: "city", To: "home"},
	}}

	out, _, err := Apply(f, r)
	if err != nil {
		t.Fatal(err)
	}
	if out.Column("boat") != nil {
		t.Error("boat column should be dropped")
	}
	if out.Column("home") == nil {
		t.Error("city column should be renamed to home")
	}
}

func TestApplyForceType(t *testing.T) {
	f, _ := frame.New("t",
		frame.NewStringColumn("hour", []string{"1", "2", "x"}, nil),
	)
	r := &Recipe{Name: "t", Steps: []Step{
		{Op: "force_type", Column: "hour", Type: "int"},
	}}

	out, rep, err := Apply(f, r)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Steps[0].ParseFailures != 1 {
		t.Errorf("ParseFailures = %d, want 1", rep.Steps[0].ParseFailures)
	}
	if v, ok := out.Column("hour").Int(0); !ok || v != 1 {
		t.Errorf("hour[0] = %d, %v", v, ok)
	}
	if out.Column("hour").IsValid(2) {
		t.Error("unparseable cell should be missing")
	}
}

func TestApplyUnknownOp(t *testing.T) {
	f := passengerFrame(t)
	r := &Recipe{Name: "t", Steps: []Step{{Op: "explode"}}}
	if _, _, err := Apply(f, r); err == nil || !strings.Contains(err.Error(), "unknown op") {
		t.Errorf("err = %v, want unknown op", err)
	}
}

func TestApplyUnknownColumnNamesStep(t *testing.T) {
	f := passengerFrame(t)
	r := &Recipe{Name: "t", Steps: []Step{
		{Op: "fill", Column: "city", Value: "Inconnu"},
		{Op: "replace", Column: "nope", From: "a", To: "b"},
	}}
	_, _, err := Apply(f, r)
	if err == nil || !strings.Contains(err.Error(), "step 2") {
		t.Errorf("err = %v, want step 2 context", err)
	}
}

// --- recipe file tests ---

func TestRecipeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "titanic.yaml")

	r := &Recipe{
		Name:        "titanic",
		Description: "drop unusable rows, fill cities",
		Steps: []Step{
			{Op: "fill", Column: "city", Value: "Inconnu"},
			{Op: "dropna", How: "any", Subset: []string{"age"}},
		},
	}
	if err := SaveRecipe(path, r); err != nil {
		t.Fatal(err)
	}

	back, err := LoadRecipe(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Name != "titanic" || len(back.Steps) != 2 {
		t.Errorf("round trip lost data: %+v", back)
	}
	if back.Steps[1].Subset[0] != "age" {
		t.Errorf("subset = %v, want [age]", back.Steps[1].Subset)
	}
}

func TestLoadRecipeEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRecipe(path); err == nil {
		t.Error("expected error for recipe without steps")
	}
}

func TestResolveRecipePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare name", "titanic", filepath.Join("recipes", "titanic.yaml")},
		{"yaml path", "my/own.yaml", "my/own.yaml"},
		{"yml suffix", "own.yml", "own.yml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRecipePath(tt.in, "recipes"); got != tt.want {
				t.Errorf("ResolveRecipePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- report tests ---

func TestReportRender(t *testing.T) {
	rep := Report{
		Recipe: "titanic",
		RowsIn: 10, RowsOut: 7,
		Steps: []StepReport{
			{Op: "dropna", RowsDropped: 3},
			{Op: "fill", Column: "city", CellsFilled: 2},
		},
	}
	var buf bytes.Buffer
	rep.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, "10 rows in, 7 rows out") {
		t.Errorf("summary line missing:\n%s", out)
	}
	if !strings.Contains(out, "dropped 3 rows") || !strings.Contains(out, "filled 2 cells") {
		t.Errorf("step lines missing:\n%s", out)
	}
}
