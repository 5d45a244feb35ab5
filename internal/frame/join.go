// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import "fmt"

// JoinKind selects the join semantics.
type JoinKind string

const (
	// JoinLeft keeps every left row, filling unmatched right columns
	// with missing cells.
	JoinLeft JoinKind = "left"

	// JoinInner keeps only rows with a match on both sides.
	JoinInner JoinKind = "inner"
)

// Join combines two frames on a shared key column. Keys are compared by
// their rendered text, so an integer key matches a string key with the
// same digits. A left row matching several right rows produces one output
// row per match. Right columns whose names collide with left columns are
// suffixed with "_right".
func Join(left, right *Frame, on string, kind JoinKind) (*Frame, error) {
	if kind != JoinLeft && kind != JoinInner {
		return nil, fmt.Errorf("unknown join kind %q", kind)
	}
	lk := left.Column(on)
	if lk == nil {
		return nil, fmt.Errorf("%w: %q in left frame", ErrUnknownColumn, on)
	}
	rk := right.Column(on)
	if rk == nil {
		return nil, fmt.Errorf("%w: %q in right frame", ErrUnknownColumn, on)
	}

	byKey := make(map[string][]int, right.NRows())
	for i := 0; i < rk.Len(); i++ {
		if !rk.IsValid(i) {
			continue
		}
		key := rk.Render(i, "")
		byKey[key] = append(byKey[key], i)
	}

	var leftIdx, rightIdx []int
	for i := 0; i < lk.Len(); i++ {
		var matches []int
		if lk.IsValid(i) {
			matches = byKey[lk.Render(i, "")]
		}
		if len(matches) == 0 {
			if kind == JoinLeft {
				leftIdx = append(leftIdx, i)
				rightIdx = append(rightIdx, -1)
			}
			continue
		}
		for _, j := range matches {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, j)
		}
	}

	taken := make(map[string]bool, left.NCols()+right.NCols())
	cols := make([]*Column, 0, left.NCols()+right.NCols())
	for _, c := range left.cols {
		nc := c.take(leftIdx)
		taken[nc.name] = true
		cols = append(cols, nc)
	}
	for _, c := range right.cols {
		if c.Name() == on {
			continue
		}
		nc := c.take(rightIdx)
		if taken[nc.name] {
			nc.name = nc.name + "_right"
		}
		taken[nc.name] = true
		cols = append(cols, nc)
	}

	out, err := New(left.name, cols...)
	if err != nil {
		return nil, err
	}
	out.index = left.index
	return out, nil
}

// Ratio appends a float column holding num/den per row. The cell is
// missing when either operand is missing or the denominator is zero.
func (f *Frame) Ratio(num, den, name string) (*Frame, error) {
	nc := f.Column(num)
	if nc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, num)
	}
	dc := f.Column(den)
	if dc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, den)
	}
	if !nc.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, num, nc.Type())
	}
	if !dc.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, den, dc.Type())
	}

	vals := make([]float64, f.NRows())
	valid := make([]bool, f.NRows())
	for i := 0; i < f.NRows(); i++ {
		n, okN := nc.Float(i)
		d, okD := dc.Float(i)
		if !okN || !okD || d == 0 {
			continue
		}
		vals[i] = n / d
		valid[i] = true
	}
	return f.AddColumn(NewFloatColumn(name, vals, valid))
}
