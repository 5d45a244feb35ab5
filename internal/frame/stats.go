// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// describeStats are the rows of a numeric Describe frame, in order.
var describeStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe summarizes columns. For numeric columns the result has one row
// per statistic (count, mean, std, min, quartiles, max); when every named
// column is string typed the rows are count, unique, top and freq. With no
// names given, every numeric column is summarized.
func (f *Frame) Describe(cols ...string) (*Frame, error) {
	if len(cols) == 0 {
		for _, c := range f.cols {
			if c.IsNumeric() {
				cols = append(cols, c.Name())
			}
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("%w: frame has no numeric columns", ErrNotNumeric)
		}
	}

	selected := make([]*Column, len(cols))
	allString := true
	for k, name := range cols {
		c := f.Column(name)
		if c == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		selected[k] = c
		if c.Type() != types.TypeString {
			allString = false
		}
	}
	if allString {
		return describeStrings(f.name, selected)
	}
	return describeNumeric(f.name, selected)
}

func describeNumeric(name string, cols []*Column) (*Frame, error) {
	out := []*Column{NewStringColumn("statistic", describeStats, nil)}
	for _, c := range cols {
		if !c.IsNumeric() {
			return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, c.Name(), c.Type())
		}
		vals, _ := c.Floats()
		row := make([]float64, len(describeStats))
		valid := make([]bool, len(describeStats))
		if len(vals) > 0 {
			sorted := append([]float64(nil), vals...)
			sort.Float64s(sorted)
			row[0] = float64(len(vals))
			row[1] = stat.Mean(vals, nil)
			row[2] = stat.StdDev(vals, nil)
			row[3] = sorted[0]
			row[4] = stat.Quantile(0.25, stat.Empirical, sorted, nil)
			row[5] = stat.Quantile(0.5, stat.Empirical, sorted, nil)
			row[6] = stat.Quantile(0.75, stat.Empirical, sorted, nil)
			row[7] = sorted[len(sorted)-1]
			for i := range valid {
				valid[i] = true
			}
			if len(vals) < 2 {
				valid[2] = false // std undefined for a single value
			}
		}
		out = append(out, NewFloatColumn(c.Name(), row, valid))
	}
	return New(name+" describe", out...)
}

func describeStrings(name string, cols []*Column) (*Frame, error) {
	out := []*Column{NewStringColumn("statistic", []string{"count", "unique", "top", "freq"}, nil)}
	for _, c := range cols {
		counts, order := stringCounts(c)
		top, freq := "", 0
		for _, v := range order {
			if counts[v] > freq {
				top, freq = v, counts[v]
			}
		}
		total := c.Len() - c.NullCount()
		vals := []string{
			strconv.Itoa(total),
			strconv.Itoa(len(order)),
			top,
			strconv.Itoa(freq),
		}
		valid := []bool{true, true, total > 0, total > 0}
		out = append(out, NewStringColumn(c.Name(), vals, valid))
	}
	return New(name+" describe", out...)
}

// stringCounts tallies rendered values of the valid cells, returning the
// counts and the values in first-appearance order.
func stringCounts(c *Column) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for i := 0; i < c.Len(); i++ {
		if !c.IsValid(i) {
			continue
		}
		v := c.Render(i, "")
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	return counts, order
}

// Unique returns the distinct rendered values of a column in order of
// first appearance, skipping missing cells.
func (f *Frame) Unique(col string) ([]string, error) {
	c := f.Column(col)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	_, order := stringCounts(c)
	return order, nil
}

// ValueCounts tallies the distinct values of a column, most frequent
// first with ties broken by first appearance. With normalize, counts are
// replaced by their share of the valid cells.
func (f *Frame) ValueCounts(col string, normalize bool) (*Frame, error) {
	c := f.Column(col)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	counts, order := stringCounts(c)
	sorted := append([]string(nil), order...)
	pos := make(map[string]int, len(order))
	for i, v := range order {
		pos[v] = i
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		ca, cb := counts[sorted[a]], counts[sorted[b]]
		if ca != cb {
			return ca > cb
		}
		return pos[sorted[a]] < pos[sorted[b]]
	})

	total := 0
	for _, v := range order {
		total += counts[v]
	}

	valueCol := NewStringColumn(col, sorted, nil)
	if normalize {
		shares := make([]float64, len(sorted))
		for i, v := range sorted {
			shares[i] = float64(counts[v]) / float64(total)
		}
		return New(f.name, valueCol, NewFloatColumn("proportion", shares, nil))
	}
	nums := make([]int64, len(sorted))
	for i, v := range sorted {
		nums[i] = int64(counts[v])
	}
	return New(f.name, valueCol, NewIntColumn("count", nums, nil))
}

// Cut bins a numeric column into right-closed intervals: a value v lands
// in bin i when bins[i] < v <= bins[i+1]. Values outside the bins become
// missing. Labels defaults to "(lo, hi]" rendering; when given, it must
// hold one label per interval. The result is a string column named
// <col>_bin.
func (f *Frame) Cut(col string, bins []float64, labels []string) (*Column, error) {
	c := f.Column(col)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if !c.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, col, c.Type())
	}
	if len(bins) < 2 {
		return nil, fmt.Errorf("need at least 2 bin edges, got %d", len(bins))
	}
	if !sort.Float64sAreSorted(bins) {
		return nil, fmt.Errorf("bin edges must be increasing")
	}
	if labels == nil {
		labels = make([]string, len(bins)-1)
		for i := range labels {
			labels[i] = fmt.Sprintf("(%g, %g]", bins[i], bins[i+1])
		}
	}
	if len(labels) != len(bins)-1 {
		return nil, fmt.Errorf("got %d labels for %d intervals", len(labels), len(bins)-1)
	}

	vals := make([]string, c.Len())
	valid := make([]bool, c.Len())
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Float(i)
		if !ok || v <= bins[0] || v > bins[len(bins)-1] {
			continue
		}
		// Smallest edge >= v closes the interval (bins[k-1] < v <= bins[k]).
		k := sort.SearchFloat64s(bins, v)
		vals[i] = labels[k-1]
		valid[i] = true
	}
	return NewStringColumn(col+"_bin", vals, valid), nil
}

// numericValues returns the valid cells of a numeric column.
func (f *Frame) numericValues(col string) ([]float64, error) {
	c := f.Column(col)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if !c.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, col, c.Type())
	}
	vals, _ := c.Floats()
	if len(vals) == 0 {
		return nil, fmt.Errorf("column %q has no values", col)
	}
	return vals, nil
}

// Mean returns the mean of a numeric column's valid cells.
func (f *Frame) Mean(col string) (float64, error) {
	vals, err := f.numericValues(col)
	if err != nil {
		return 0, err
	}
	return stat.Mean(vals, nil), nil
}

// Median returns the median of a numeric column's valid cells.
func (f *Frame) Median(col string) (float64, error) {
	vals, err := f.numericValues(col)
	if err != nil {
		return 0, err
	}
	sort.Float64s(vals)
	return stat.Quantile(0.5, stat.Empirical, vals, nil), nil
}

// Std returns the sample standard deviation of a numeric column.
func (f *Frame) Std(col string) (float64, error) {
	vals, err := f.numericValues(col)
	if err != nil {
		return 0, err
	}
	return stat.StdDev(vals, nil), nil
}

// Min returns the smallest valid cell of a numeric column.
func (f *Frame) Min(col string) (float64, error) {
	vals, err := f.numericValues(col)
	if err != nil {
		return 0, err
	}
	return floats.Min(vals), nil
}

// Max returns the largest valid cell of a numeric column.
func (f *Frame) Max(col string) (float64, error) {
	vals, err := f.numericValues(col)
	if err != nil {
		return 0, err
	}
	return floats.Max(vals), nil
}

// Sum returns the sum of a numeric column's valid cells.
func (f *Frame) Sum(col string) (float64, error) {
	vals, err := f.numericValues(col)
	if err != nil {
		return 0, err
	}
	return floats.Sum(vals), nil
}
