// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import (
	"errors"
	"testing"
)

// --- describe tests ---

func TestDescribeNumeric(t *testing.T) {
	f, err := New("t",
		NewFloatColumn("x", []float64{1, 2, 3, 4}, nil),
	)
	if err != nil {
		t.Fatal(err)
	}

	d, err := f.Describe()
	if err != nil {
		t.Fatal(err)
	}
	if d.NRows() != 8 {
		t.Fatalf("describe rows = %d, want 8", d.NRows())
	}

	col := d.Column("x")
	get := func(stat string) float64 {
		t.Helper()
		for i, s := range d.Column("statistic").strs {
			if s == stat {
				v, ok := col.Float(i)
				if !ok {
					t.Fatalf("statistic %q missing", stat)
				}
				return v
			}
		}
		t.Fatalf("statistic %q not found", stat)
		return 0
	}

	wantFloat(t, get("count"), 4)
	wantFloat(t, get("mean"), 2.5)
	wantFloat(t, get("min"), 1)
	wantFloat(t, get("max"), 4)
	// Empirical quantiles pick sample values, no interpolation.
	wantFloat(t, get("25%"), 1)
	wantFloat(t, get("50%"), 2)
	wantFloat(t, get("75%"), 3)
}

func TestDescribeSkipsMissing(t *testing.T) {
	f, _ := New("t",
		NewFloatColumn("x", []float64{1, 0, 3}, []bool{true, false, true}),
	)
	d, err := f.Describe("x")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := d.Column("x").Float(0); v != 2 {
		t.Errorf("count = %v, want 2", v)
	}
	if v, _ := d.Column("x").Float(1); v != 2 {
		t.Errorf("mean = %v, want 2", v)
	}
}

func TestDescribeStrings(t *testing.T) {
	f := cityFrame(t)
	d, err := f.Describe("name")
	if err != nil {
		t.Fatal(err)
	}
	stat := d.Column("statistic")
	vals := d.Column("name")
	for i := 0; i < d.NRows(); i++ {
		s, _ := stat.Str(i)
		v, _ := vals.Str(i)
		switch s {
		case "count":
			if v != "4" {
				t.Errorf("count = %q, want 4", v)
			}
		case "unique":
			if v != "4" {
				t.Errorf("unique = %q, want 4", v)
			}
		case "freq":
			if v != "1" {
				t.Errorf("freq = %q, want 1", v)
			}
		}
	}
}

func TestDescribeNoNumeric(t *testing.T) {
	f, _ := New("t", NewStringColumn("s", []string{"a"}, nil))
	if _, err := f.Describe(); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("err = %v, want ErrNotNumeric", err)
	}
}

// --- value counts tests ---

func TestValueCounts(t *testing.T) {
	f, _ := New("t",
		NewStringColumn("class", []string{"3rd", "1st", "3rd", "2nd", "3rd", "1st"}, nil),
	)
	vc, err := f.ValueCounts("class", false)
	if err != nil {
		t.Fatal(err)
	}
	if vc.NRows() != 3 {
		t.Fatalf("rows = %d, want 3", vc.NRows())
	}
	if v, _ := vc.Column("class").Str(0); v != "3rd" {
		t.Errorf("top value = %q, want 3rd", v)
	}
	if n, _ := vc.Column("count").Int(0); n != 3 {
		t.Errorf("top count = %d, want 3", n)
	}
	// Tie between 1st (2) and 2nd (1): 1st appears earlier and counts more.
	if v, _ := vc.Column("class").Str(1); v != "1st" {
		t.Errorf("second value = %q, want 1st", v)
	}
}

func TestValueCountsNormalize(t *testing.T) {
	f, _ := New("t",
		NewStringColumn("sex", []string{"male", "female", "male", "male"}, nil),
	)
	vc, err := f.ValueCounts("sex", true)
	if err != nil {
		t.Fatal(err)
	}
	if vc.Column("proportion") == nil {
		t.Fatal("normalized counts should be named proportion")
	}
	if v, _ := vc.Column("proportion").Float(0); v != 0.75 {
		t.Errorf("male share = %v, want 0.75", v)
	}
}

func TestValueCountsSkipsMissing(t *testing.T) {
	f, _ := New("t",
		NewStringColumn("c", []string{"a", "", "a"}, []bool{true, false, true}),
	)
	vc, err := f.ValueCounts("c", true)
	if err != nil {
		t.Fatal(err)
	}
	if vc.NRows() != 1 {
		t.Fatalf("rows = %d, want 1", vc.NRows())
	}
	// Share is over valid cells only.
	if v, _ := vc.Column("proportion").Float(0); v != 1 {
		t.Errorf("share = %v, want 1", v)
	}
}

// --- cut tests ---

func TestCut(t *testing.T) {
	f, _ := New("t",
		NewFloatColumn("age", []float64{5, 10, 15, 95, 29}, []bool{true, true, true, true, true}),
	)
	bins := []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}
	c, err := f.Cut("age", bins, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "age_bin" {
		t.Errorf("name = %q, want age_bin", c.Name())
	}

	tests := []struct {
		idx   int
		want  string
		valid bool
	}{
		{0, "(0, 10]", true},
		{1, "(0, 10]", true}, // edge value belongs to the lower interval
		{2, "(10, 20]", true},
		{3, "", false}, // 95 is beyond the last edge
		{4, "(20, 30]", true},
	}
	for _, tt := range tests {
		if c.IsValid(tt.idx) != tt.valid {
			t.Errorf("bin[%d] valid = %v, want %v", tt.idx, c.IsValid(tt.idx), tt.valid)
			continue
		}
		if tt.valid {
			if v, _ := c.Str(tt.idx); v != tt.want {
				t.Errorf("bin[%d] = %q, want %q", tt.idx, v, tt.want)
			}
		}
	}
}

func TestCutCustomLabels(t *testing.T) {
	f, _ := New("t", NewIntColumn("n", []int64{1, 5}, nil))
	c, err := f.Cut("n", []float64{0, 3, 6}, []string{"low", "high"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Str(0); v != "low" {
		t.Errorf("bin[0] = %q, want low", v)
	}
	if v, _ := c.Str(1); v != "high" {
		t.Errorf("bin[1] = %q, want high", v)
	}

	if _, err := f.Cut("n", []float64{0, 3, 6}, []string{"only-one"}); err == nil {
		t.Error("expected error for wrong label count")
	}
}

func TestCutRejectsBadEdges(t *testing.T) {
	f, _ := New("t", NewIntColumn("n", []int64{1}, nil))
	if _, err := f.Cut("n", []float64{5}, nil); err == nil {
		t.Error("expected error for a single edge")
	}
	if _, err := f.Cut("n", []float64{5, 1}, nil); err == nil {
		t.Error("expected error for unsorted edges")
	}
}

// --- scalar statistics tests ---

func TestScalarStats(t *testing.T) {
	f, _ := New("t",
		NewFloatColumn("x", []float64{4, 0, 1, 9}, []bool{true, false, true, true}),
	)

	mean, err := f.Mean("x")
	if err != nil {
		t.Fatal(err)
	}
	wantFloat(t, mean, (4+1+9)/3.0)

	med, err := f.Median("x")
	if err != nil {
		t.Fatal(err)
	}
	wantFloat(t, med, 4)

	min, err := f.Min("x")
	if err != nil {
		t.Fatal(err)
	}
	wantFloat(t, min, 1)

	max, err := f.Max("x")
	if err != nil {
		t.Fatal(err)
	}
	wantFloat(t, max, 9)

	sum, err := f.Sum("x")
	if err != nil {
		t.Fatal(err)
	}
	wantFloat(t, sum, 14)
}

func TestScalarStatsErrors(t *testing.T) {
	f := cityFrame(t)
	if _, err := f.Mean("name"); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("err = %v, want ErrNotNumeric", err)
	}
	if _, err := f.Mean("nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
}

// --- unique tests ---

func TestUnique(t *testing.T) {
	f, _ := New("t",
		NewStringColumn("embarked", []string{"S", "C", "S", "", "Q", "C"}, []bool{true, true, true, false, true, true}),
	)
	got, err := f.Unique("embarked")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"S", "C", "Q"}
	if len(got) != len(want) {
		t.Fatalf("Unique = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Unique[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
