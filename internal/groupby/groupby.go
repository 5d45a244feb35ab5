// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package groupby implements grouped aggregation, cross-tabulation and
// pivot tables over frames.
package groupby

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/dataset-engine/internal/frame"
)

// keySep joins composite group keys. Unit separator, never appears in
// rendered cell values.
const keySep = "\x1f"

// AggFunc names an aggregation.
type AggFunc string

const (
	AggMean   AggFunc = "mean"
	AggMedian AggFunc = "median"
	AggSum    AggFunc = "sum"
	AggCount  AggFunc = "count"
	AggMin    AggFunc = "min"
	AggMax    AggFunc = "max"
)

// ParseAggFunc validates a user-supplied aggregation name.
func ParseAggFunc(s string) (AggFunc, error) {
	switch AggFunc(s) {
	case AggMean, AggMedian, AggSum, AggCount, AggMin, AggMax:
		return AggFunc(s), nil
	}
	return "", fmt.Errorf("unknown aggregation %q (want mean, median, sum, count, min or max)", s)
}

// Aggregation pairs a column with the function applied to it.
type Aggregation struct {
	Col string
	Fn  AggFunc
}

// Grouped holds rows partitioned by one or more key columns. Rows with a
// missing key cell are excluded, matching the usual grouping convention.
type Grouped struct {
	src   *frame.Frame
	keys  []string
	order []string         // composite keys in first-appearance order
	rows  map[string][]int // composite key -> source positions
}

// GroupBy partitions a frame by the rendered values of the key columns.
func GroupBy(f *frame.Frame, keys ...string) (*Grouped, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one group key required")
	}
	cols := make([]*frame.Column, len(keys))
	for i, k := range keys {
		c := f.Column(k)
		if c == nil {
			return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, k)
		}
		cols[i] = c
	}

	g := &Grouped{src: f, keys: keys, rows: make(map[string][]int)}
	for i := 0; i < f.NRows(); i++ {
		parts := make([]string, len(cols))
		ok := true
		for j, c := range cols {
			if !c.IsValid(i) {
				ok = false
				break
			}
			parts[j] = c.Render(i, "")
		}
		if !ok {
			continue
		}
		key := strings.Join(parts, keySep)
		if _, seen := g.rows[key]; !seen {
			g.order = append(g.order, key)
		}
		g.rows[key] = append(g.rows[key], i)
	}
	return g, nil
}

// NGroups returns the number of distinct key combinations.
func (g *Grouped) NGroups() int { return len(g.order) }

// keyColumns rebuilds the key columns for the result frame, one row per
// group in first-appearance order.
func (g *Grouped) keyColumns() []*frame.Column {
	cols := make([]*frame.Column, len(g.keys))
	vals := make([][]string, len(g.keys))
	for j := range g.keys {
		vals[j] = make([]string, len(g.order))
	}
	for i, key := range g.order {
		parts := strings.Split(key, keySep)
		for j := range g.keys {
			vals[j][i] = parts[j]
		}
	}
	for j, name := range g.keys {
		cols[j] = frame.NewStringColumn(name, vals[j], nil)
	}
	return cols
}

// Size returns one row per group with the group's row count.
func (g *Grouped) Size() (*frame.Frame, error) {
	counts := make([]int64, len(g.order))
	for i, key := range g.order {
		counts[i] = int64(len(g.rows[key]))
	}
	cols := append(g.keyColumns(), frame.NewIntColumn("size", counts, nil))
	return frame.New(g.src.Name()+" size", cols...)
}

// Agg computes aggregations per group. The result has the key columns
// followed by one column per aggregation, named <col>_<fn>. A group whose
// cells are all missing yields a missing aggregate.
func (g *Grouped) Agg(aggs ...Aggregation) (*frame.Frame, error) {
	if len(aggs) == 0 {
		return nil, fmt.Errorf("at least one aggregation required")
	}
	for _, a := range aggs {
		c := g.src.Column(a.Col)
		if c == nil {
			return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, a.Col)
		}
		if a.Fn != AggCount && !c.IsNumeric() {
			return nil, fmt.Errorf("%w: %q is %s", frame.ErrNotNumeric, a.Col, c.Type())
		}
	}

	cols := g.keyColumns()
	for _, a := range aggs {
		c := g.src.Column(a.Col)
		vals := make([]float64, len(g.order))
		valid := make([]bool, len(g.order))
		for i, key := range g.order {
			v, ok := Aggregate(c, g.rows[key], a.Fn)
			vals[i], valid[i] = v, ok
		}
		cols = append(cols, frame.NewFloatColumn(fmt.Sprintf("%s_%s", a.Col, a.Fn), vals, valid))
	}
	return frame.New(g.src.Name()+" groupby", cols...)
}

// Aggregate applies fn to the valid cells of c at the given positions.
// The second return is false when a value aggregation has no valid cells;
// count always succeeds.
func Aggregate(c *frame.Column, pos []int, fn AggFunc) (float64, bool) {
	if fn == AggCount {
		n := 0
		for _, i := range pos {
			if c.IsValid(i) {
				n++
			}
		}
		return float64(n), true
	}

	vals := make([]float64, 0, len(pos))
	for _, i := range pos {
		if v, ok := c.Float(i); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	switch fn {
	case AggMean:
		return stat.Mean(vals, nil), true
	case AggMedian:
		sort.Float64s(vals)
		return stat.Quantile(0.5, stat.Empirical, vals, nil), true
	case AggSum:
		return floats.Sum(vals), true
	case AggMin:
		return floats.Min(vals), true
	case AggMax:
		return floats.Max(vals), true
	}
	return 0, false
}

// sortKeys orders distinct rendered keys ascending, numerically when every
// key parses as a number.
func sortKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	nums := make(map[string]float64, len(out))
	numeric := true
	for _, k := range out {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[k] = v
	}
	if numeric {
		sort.SliceStable(out, func(a, b int) bool { return nums[out[a]] < nums[out[b]] })
		return out
	}
	sort.Strings(out)
	return out
}
