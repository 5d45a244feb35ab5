// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package groupby

import (
	"strings"
	"testing"

	"github.com/pdiddy/dataset-engine/internal/frame"
)

// --- crosstab tests ---

func TestCrosstabCounts(t *testing.T) {
	ct, err := Crosstab(survivorsFrame(t), "sex", "survived", CrosstabOptions{})
	if err != nil {
		t.Fatal(err)
	}

	// Rows sorted lexically: female, male. Columns numerically: 0, 1.
	if v, _ := ct.Column("sex").Str(0); v != "female" {
		t.Errorf("row 0 = %q, want female", v)
	}
	if n, _ := ct.Column("0").Int(0); n != 0 {
		t.Errorf("female/0 = %d, want 0", n)
	}
	if n, _ := ct.Column("1").Int(0); n != 2 {
		t.Errorf("female/1 = %d, want 2", n)
	}
	if n, _ := ct.Column("0").Int(1); n != 3 {
		t.Errorf("male/0 = %d, want 3", n)
	}
	if n, _ := ct.Column("1").Int(1); n != 1 {
		t.Errorf("male/1 = %d, want 1", n)
	}
}

func TestCrosstabMargins(t *testing.T) {
	ct, err := Crosstab(survivorsFrame(t), "sex", "survived", CrosstabOptions{Margins: true})
	if err != nil {
		t.Fatal(err)
	}
	if ct.NRows() != 3 {
		t.Fatalf("rows = %d, want 3 (All row)", ct.NRows())
	}
	if v, _ := ct.Column("sex").Str(2); v != "All" {
		t.Errorf("last row = %q, want All", v)
	}
	if n, _ := ct.Column("All").Int(1); n != 4 {
		t.Errorf("male total = %d, want 4", n)
	}
	if n, _ := ct.Column("All").Int(2); n != 6 {
		t.Errorf("grand total = %d, want 6", n)
	}
	if n, _ := ct.Column("0").Int(2); n != 3 {
		t.Errorf("column 0 total = %d, want 3", n)
	}
}

func TestCrosstabNormalizeIndexPercent(t *testing.T) {
	ct, err := Crosstab(survivorsFrame(t), "sex", "survived", CrosstabOptions{
		Normalize: NormIndex,
		Percent:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	// Each row sums to 100.
	wantFloat(t, cell(t, ct, "0", 0), 0)
	wantFloat(t, cell(t, ct, "1", 0), 100)
	wantFloat(t, cell(t, ct, "0", 1), 75)
	wantFloat(t, cell(t, ct, "1", 1), 25)
}

func TestCrosstabNormalizeIndexMarginsDropAllColumn(t *testing.T) {
	ct, err := Crosstab(survivorsFrame(t), "sex", "survived", CrosstabOptions{
		Normalize: NormIndex,
		Margins:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ct.Column("All") != nil {
		t.Error("row-normalized table should not carry an All column")
	}
	// The All row is the overall survived distribution: 3/6 each.
	wantFloat(t, cell(t, ct, "0", 2), 0.5)
	wantFloat(t, cell(t, ct, "1", 2), 0.5)
}

func TestCrosstabNormalizeColumns(t *testing.T) {
	ct, err := Crosstab(survivorsFrame(t), "sex", "survived", CrosstabOptions{
		Normalize: NormColumns,
		Margins:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ct.NRows() != 2 {
		t.Fatalf("rows = %d, want 2 (no All row)", ct.NRows())
	}
	wantFloat(t, cell(t, ct, "0", 1), 1)       // all non-survivors are male
	wantFloat(t, cell(t, ct, "1", 0), 2.0/3.0) // two of three survivors are female
	wantFloat(t, cell(t, ct, "All", 0), 2.0/6.0)
}

func TestCrosstabNormalizeAll(t *testing.T) {
	ct, err := Crosstab(survivorsFrame(t), "sex", "survived", CrosstabOptions{
		Normalize: NormAll,
		Margins:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	wantFloat(t, cell(t, ct, "0", 1), 0.5) // 3 of 6
	wantFloat(t, cell(t, ct, "All", 2), 1) // grand total share
}

// --- pivot table tests ---

func TestPivotTableCount(t *testing.T) {
	pt, err := PivotTable(survivorsFrame(t), "sex", "survived", "age", AggCount, true)
	if err != nil {
		t.Fatal(err)
	}

	// female row: no non-survivors, two survivor ages.
	if pt.Column("0").IsValid(0) {
		t.Error("female/0 has no rows, cell should be missing")
	}
	wantFloat(t, cell(t, pt, "1", 0), 2)
	// male row: the missing age is not counted.
	wantFloat(t, cell(t, pt, "0", 1), 2)
	wantFloat(t, cell(t, pt, "1", 1), 1)
	// Margins re-count the underlying rows.
	wantFloat(t, cell(t, pt, "All", 0), 2)
	wantFloat(t, cell(t, pt, "All", 1), 3)
	wantFloat(t, cell(t, pt, "All", 2), 5)
}

func TestPivotTableMeanMargins(t *testing.T) {
	pt, err := PivotTable(survivorsFrame(t), "sex", "survived", "age", AggMean, true)
	if err != nil {
		t.Fatal(err)
	}
	// Margin is the mean over the whole slice, not a mean of means.
	wantFloat(t, cell(t, pt, "All", 1), (22+26+28)/3.0)
	wantFloat(t, cell(t, pt, "All", 2), (22+38+26+35+28)/5.0)
}

// --- unstack tests ---

func TestUnstack(t *testing.T) {
	f, _ := frame.New("long",
		frame.NewIntColumn("hour", []int64{0, 0, 1}, nil),
		frame.NewStringColumn("day", []string{"Mon", "Tue", "Mon"}, nil),
		frame.NewFloatColumn("pm10", []float64{20, 22, 31}, nil),
	)

	wide, err := Unstack(f, "hour", "day", "pm10")
	if err != nil {
		t.Fatal(err)
	}
	if wide.NRows() != 2 {
		t.Fatalf("rows = %d, want 2", wide.NRows())
	}
	wantFloat(t, cell(t, wide, "Mon", 0), 20)
	wantFloat(t, cell(t, wide, "Tue", 0), 22)
	wantFloat(t, cell(t, wide, "Mon", 1), 31)
	if wide.Column("Tue").IsValid(1) {
		t.Error("absent combination should be missing")
	}
}

func TestUnstackDuplicate(t *testing.T) {
	f, _ := frame.New("dup",
		frame.NewIntColumn("hour", []int64{0, 0}, nil),
		frame.NewStringColumn("day", []string{"Mon", "Mon"}, nil),
		frame.NewFloatColumn("v", []float64{1, 2}, nil),
	)
	if _, err := Unstack(f, "hour", "day", "v"); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("err = %v, want duplicate entries", err)
	}
}
