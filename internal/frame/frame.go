// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frame implements a column-oriented table with typed columns and
// explicit missing-value tracking. It is the in-memory representation every
// analysis stage operates on.
package frame

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrMismatchedLength reports columns of unequal length.
	ErrMismatchedLength = errors.New("columns have mismatched lengths")

	// ErrUnknownColumn reports a column name not present in the frame.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotNumeric reports a numeric operation on a non-numeric column.
	ErrNotNumeric = errors.New("column is not numeric")

	// ErrNoIndex reports a label operation on a frame without an index.
	ErrNoIndex = errors.New("frame has no index column")

	// ErrLabelNotFound reports an index label with no matching row.
	ErrLabelNotFound = errors.New("index label not found")

	// ErrOutOfRange reports a row position outside the frame.
	ErrOutOfRange = errors.New("row position out of range")
)

// Frame is an ordered collection of equal-length columns, optionally with
// one column designated as the row index. Operations return new frames and
// never mutate their receiver unless named Set.
type Frame struct {
	name   string
	cols   []*Column
	byName map[string]int
	index  string
}

// New builds a frame from columns. All columns must have equal lengths and
// distinct names.
func New(name string, cols ...*Column) (*Frame, error) {
	f := &Frame{name: name, byName: make(map[string]int, len(cols))}
	for _, c := range cols {
		if len(f.cols) > 0 && c.Len() != f.cols[0].Len() {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrMismatchedLength, c.Name(), c.Len(), f.cols[0].Len())
		}
		if _, dup := f.byName[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name())
		}
		f.byName[c.Name()] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// Name returns the frame's name, usually the dataset it was read from.
func (f *Frame) Name() string { return f.name }

// NRows returns the number of rows.
func (f *Frame) NRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NCols returns the number of columns.
func (f *Frame) NCols() int { return len(f.cols) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

// Column returns the named column, or nil when absent.
func (f *Frame) Column(name string) *Column {
	i, ok := f.byName[name]
	if !ok {
		return nil
	}
	return f.cols[i]
}

// Columns returns the backing columns in order. Callers must not mutate.
func (f *Frame) Columns() []*Column { return f.cols }

// IndexName returns the name of the index column, or "" when unset.
func (f *Frame) IndexName() string { return f.index }

// SetIndex designates an existing column as the row index.
func (f *Frame) SetIndex(name string) error {
	if f.Column(name) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	f.index = name
	return nil
}

// ResetIndex clears the index designation. The column itself stays.
func (f *Frame) ResetIndex() { f.index = "" }

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	cols := make([]*Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.clone()
	}
	out, _ := New(f.name, cols...)
	out.index = f.index
	return out
}

// take builds a new frame from the rows at the given positions.
func (f *Frame) take(idx []int) *Frame {
	cols := make([]*Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.take(idx)
	}
	out, _ := New(f.name, cols...)
	out.index = f.index
	return out
}

// Head returns the first n rows, or the whole frame when it is shorter.
func (f *Frame) Head(n int) *Frame {
	if n > f.NRows() {
		n = f.NRows()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return f.take(idx)
}

// Tail returns the last n rows, or the whole frame when it is shorter.
func (f *Frame) Tail(n int) *Frame {
	total := f.NRows()
	if n > total {
		n = total
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = total - n + i
	}
	return f.take(idx)
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c := f.Column(n)
		if c == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, n)
		}
		cols = append(cols, c.clone())
	}
	out, err := New(f.name, cols...)
	if err != nil {
		return nil, err
	}
	if _, keep := out.byName[f.index]; keep {
		out.index = f.index
	}
	return out, nil
}

// Drop returns a frame without the named columns.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if f.Column(n) == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, n)
		}
		drop[n] = true
	}
	keep := make([]string, 0, len(f.cols))
	for _, c := range f.cols {
		if !drop[c.Name()] {
			keep = append(keep, c.Name())
		}
	}
	return f.Select(keep...)
}

// AddColumn returns a frame with the column appended. The column length
// must match the frame.
func (f *Frame) AddColumn(c *Column) (*Frame, error) {
	if f.NCols() > 0 && c.Len() != f.NRows() {
		return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrMismatchedLength, c.Name(), c.Len(), f.NRows())
	}
	cols := make([]*Column, 0, len(f.cols)+1)
	for _, existing := range f.cols {
		cols = append(cols, existing.clone())
	}
	cols = append(cols, c)
	out, err := New(f.name, cols...)
	if err != nil {
		return nil, err
	}
	out.index = f.index
	return out, nil
}

// Row is a lightweight view of one frame row.
type Row struct {
	f *Frame
	i int
}

// Pos returns the row's position in its frame.
func (r Row) Pos() int { return r.i }

// IsValid reports whether the named cell holds a value.
func (r Row) IsValid(col string) bool {
	c := r.f.Column(col)
	return c != nil && c.IsValid(r.i)
}

// Float returns the named cell coerced to float64.
func (r Row) Float(col string) (float64, bool) {
	c := r.f.Column(col)
	if c == nil {
		return 0, false
	}
	return c.Float(r.i)
}

// Int returns the named cell as int64.
func (r Row) Int(col string) (int64, bool) {
	c := r.f.Column(col)
	if c == nil {
		return 0, false
	}
	return c.Int(r.i)
}

// Str returns the named cell as a string value.
func (r Row) Str(col string) (string, bool) {
	c := r.f.Column(col)
	if c == nil {
		return "", false
	}
	return c.Str(r.i)
}

// Time returns the named cell as time.Time.
func (r Row) Time(col string) (time.Time, bool) {
	c := r.f.Column(col)
	if c == nil {
		return time.Time{}, false
	}
	return c.Time(r.i)
}

// Render returns the named cell as display text, or na when missing.
func (r Row) Render(col, na string) string {
	c := r.f.Column(col)
	if c == nil {
		return na
	}
	return c.Render(r.i, na)
}

// Filter returns the rows for which pred is true.
func (f *Frame) Filter(pred func(Row) bool) *Frame {
	idx := make([]int, 0, f.NRows())
	for i := 0; i < f.NRows(); i++ {
		if pred(Row{f, i}) {
			idx = append(idx, i)
		}
	}
	return f.take(idx)
}

// Each calls fn for every row in order.
func (f *Frame) Each(fn func(Row)) {
	for i := 0; i < f.NRows(); i++ {
		fn(Row{f, i})
	}
}

// ILoc returns the row at position i.
func (f *Frame) ILoc(i int) (Row, error) {
	if i < 0 || i >= f.NRows() {
		return Row{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, f.NRows())
	}
	return Row{f, i}, nil
}

// ILocRange returns rows [i, j) as a new frame.
func (f *Frame) ILocRange(i, j int) (*Frame, error) {
	if i < 0 || j > f.NRows() || i > j {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, i, j, f.NRows())
	}
	idx := make([]int, j-i)
	for k := range idx {
		idx[k] = i + k
	}
	return f.take(idx), nil
}

// locPositions returns the positions whose index cell renders to label.
func (f *Frame) locPositions(label string) ([]int, error) {
	if f.index == "" {
		return nil, ErrNoIndex
	}
	c := f.Column(f.index)
	var idx []int
	for i := 0; i < c.Len(); i++ {
		if c.IsValid(i) && c.Render(i, "") == label {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: %q in index %q", ErrLabelNotFound, label, f.index)
	}
	return idx, nil
}

// Loc returns the first row whose index cell matches label.
func (f *Frame) Loc(label string) (Row, error) {
	idx, err := f.locPositions(label)
	if err != nil {
		return Row{}, err
	}
	return Row{f, idx[0]}, nil
}

// LocAll returns every row whose index cell matches label.
func (f *Frame) LocAll(label string) (*Frame, error) {
	idx, err := f.locPositions(label)
	if err != nil {
		return nil, err
	}
	return f.take(idx), nil
}

// SetAt parses value for the named column's type and stores it in the first
// row whose index cell matches label. An empty value clears the cell.
func (f *Frame) SetAt(label, col, value string) error {
	idx, err := f.locPositions(label)
	if err != nil {
		return err
	}
	c := f.Column(col)
	if c == nil {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return c.setRaw(idx[0], value)
}

// Sort returns the frame ordered by the named column. The sort is stable
// and missing cells always come last.
func (f *Frame) Sort(col string, ascending bool) (*Frame, error) {
	c := f.Column(col)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	idx := make([]int, f.NRows())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if !c.valid[i] || !c.valid[j] {
			return c.valid[i] && !c.valid[j]
		}
		if ascending {
			return c.less(i, j)
		}
		return c.less(j, i)
	})
	return f.take(idx), nil
}

// Matrix exports the named numeric columns as a dense matrix with one row
// per frame row. Missing cells become NaN. With no names given, every
// numeric column is exported in frame order.
func (f *Frame) Matrix(cols ...string) (*mat.Dense, error) {
	if len(cols) == 0 {
		for _, c := range f.cols {
			if c.IsNumeric() {
				cols = append(cols, c.Name())
			}
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: frame has no numeric columns", ErrNotNumeric)
	}
	selected := make([]*Column, len(cols))
	for k, name := range cols {
		c := f.Column(name)
		if c == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		if !c.IsNumeric() {
			return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, name, c.Type())
		}
		selected[k] = c
	}
	m := mat.NewDense(f.NRows(), len(selected), nil)
	for j, c := range selected {
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Float(i); ok {
				m.Set(i, j, v)
			} else {
				m.Set(i, j, math.NaN())
			}
		}
	}
	return m, nil
}
