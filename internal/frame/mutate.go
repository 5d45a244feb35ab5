// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// Replace substitutes cells of a column whose rendered value equals from,
// returning the new frame and the number of cells changed. Missing cells
// never match.
func (f *Frame) Replace(col, from, to string) (*Frame, int, error) {
	c := f.Column(col)
	if c == nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	out := f.Copy()
	oc := out.Column(col)
	n := 0
	for i := 0; i < oc.Len(); i++ {
		if !oc.IsValid(i) || oc.Render(i, "") != from {
			continue
		}
		if err := oc.setRaw(i, to); err != nil {
			return nil, 0, fmt.Errorf("replacing in %q: %w", col, err)
		}
		n++
	}
	return out, n, nil
}

// FillNA sets the missing cells of a column to value, returning the new
// frame and the number of cells filled. An empty column name fills every
// column where value parses for the column's type, skipping the rest.
func (f *Frame) FillNA(col, value string) (*Frame, int, error) {
	out := f.Copy()
	total := 0

	fill := func(c *Column) (int, error) {
		n := 0
		for i := 0; i < c.Len(); i++ {
			if c.IsValid(i) {
				continue
			}
			if err := c.setRaw(i, value); err != nil {
				return n, err
			}
			n++
		}
		return n, nil
	}

	if col != "" {
		c := out.Column(col)
		if c == nil {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		n, err := fill(c)
		if err != nil {
			return nil, 0, fmt.Errorf("filling %q: %w", col, err)
		}
		return out, n, nil
	}

	for _, c := range out.cols {
		if !valueFits(c.Type(), value) {
			continue
		}
		n, err := fill(c)
		if err != nil {
			return nil, 0, fmt.Errorf("filling %q: %w", c.Name(), err)
		}
		total += n
	}
	return out, total, nil
}

// valueFits reports whether raw parses for a column type.
func valueFits(typ types.ColumnType, raw string) bool {
	switch typ {
	case types.TypeInt:
		_, err := strconv.ParseInt(raw, 10, 64)
		return err == nil
	case types.TypeFloat:
		_, err := strconv.ParseFloat(raw, 64)
		return err == nil
	case types.TypeBool:
		_, err := strconv.ParseBool(raw)
		return err == nil
	case types.TypeTime:
		_, err := time.Parse(timeRender, raw)
		return err == nil
	}
	return true
}

// DropNAHow selects which rows DropNA removes.
type DropNAHow string

const (
	// DropAny removes rows with at least one missing inspected cell.
	DropAny DropNAHow = "any"

	// DropAll removes rows where every inspected cell is missing.
	DropAll DropNAHow = "all"
)

// DropNA removes rows with missing cells, returning the new frame and the
// number of rows dropped. With a subset, only those columns are inspected
// but whole rows are removed.
func (f *Frame) DropNA(how DropNAHow, subset []string) (*Frame, int, error) {
	if how != DropAny && how != DropAll {
		return nil, 0, fmt.Errorf("unknown dropna mode %q", how)
	}
	inspect := f.cols
	if len(subset) > 0 {
		inspect = make([]*Column, len(subset))
		for i, name := range subset {
			c := f.Column(name)
			if c == nil {
				return nil, 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
			}
			inspect[i] = c
		}
	}

	keep := make([]int, 0, f.NRows())
	for i := 0; i < f.NRows(); i++ {
		missing := 0
		for _, c := range inspect {
			if !c.IsValid(i) {
				missing++
			}
		}
		drop := (how == DropAny && missing > 0) || (how == DropAll && missing == len(inspect))
		if !drop {
			keep = append(keep, i)
		}
	}
	return f.take(keep), f.NRows() - len(keep), nil
}

// Rename changes a column's name.
func (f *Frame) Rename(from, to string) (*Frame, error) {
	if f.Column(from) == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, from)
	}
	if from == to {
		return f.Copy(), nil
	}
	if f.Column(to) != nil {
		return nil, fmt.Errorf("column %q already exists", to)
	}
	out := f.Copy()
	i := out.byName[from]
	out.cols[i].name = to
	delete(out.byName, from)
	out.byName[to] = i
	if out.index == from {
		out.index = to
	}
	return out, nil
}

// ForceType re-parses a column's rendered cells as the given type. Cells
// that fail to parse become missing; their count is returned. layout is
// the time layout for TypeTime and ignored otherwise; empty means the
// default render layout.
func (f *Frame) ForceType(col string, typ types.ColumnType, layout string) (*Frame, int, error) {
	c := f.Column(col)
	if c == nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if layout == "" {
		layout = timeRender
	}

	n := c.Len()
	valid := make([]bool, n)
	failed := 0

	var nc *Column
	switch typ {
	case types.TypeInt:
		vals := make([]int64, n)
		for i := 0; i < n; i++ {
			if !c.IsValid(i) {
				continue
			}
			v, err := strconv.ParseInt(c.Render(i, ""), 10, 64)
			if err != nil {
				failed++
				continue
			}
			vals[i], valid[i] = v, true
		}
		nc = NewIntColumn(col, vals, valid)
	case types.TypeFloat:
		vals := make([]float64, n)
		for i := 0; i < n; i++ {
			if !c.IsValid(i) {
				continue
			}
			v, err := strconv.ParseFloat(c.Render(i, ""), 64)
			if err != nil {
				failed++
				continue
			}
			vals[i], valid[i] = v, true
		}
		nc = NewFloatColumn(col, vals, valid)
	case types.TypeString:
		vals := make([]string, n)
		for i := 0; i < n; i++ {
			if !c.IsValid(i) {
				continue
			}
			vals[i], valid[i] = c.Render(i, ""), true
		}
		nc = NewStringColumn(col, vals, valid)
	case types.TypeTime:
		vals := make([]time.Time, n)
		for i := 0; i < n; i++ {
			if !c.IsValid(i) {
				continue
			}
			v, err := time.Parse(layout, c.Render(i, ""))
			if err != nil {
				failed++
				continue
			}
			vals[i], valid[i] = v, true
		}
		nc = NewTimeColumn(col, vals, valid)
	case types.TypeBool:
		vals := make([]bool, n)
		for i := 0; i < n; i++ {
			if !c.IsValid(i) {
				continue
			}
			v, err := strconv.ParseBool(c.Render(i, ""))
			if err != nil {
				failed++
				continue
			}
			vals[i], valid[i] = v, true
		}
		nc = NewBoolColumn(col, vals, valid)
	default:
		return nil, 0, fmt.Errorf("unknown column type %q", typ)
	}

	out := f.Copy()
	out.cols[out.byName[col]] = nc
	return out, failed, nil
}
