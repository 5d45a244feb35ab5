// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// timeRender is the layout used when a time cell is rendered to text.
const timeRender = "2006-01-02 15:04:05"

// Column is a named, typed vector with an explicit validity mask. Exactly
// one of the value slices is populated, selected by typ; valid always has
// the same length, with false marking a missing cell.
type Column struct {
	name string
	typ  types.ColumnType

	ints   []int64
	floats []float64
	strs   []string
	times  []time.Time
	bools  []bool

	valid []bool
}

// NewIntColumn builds an integer column. A nil valid slice marks every
// cell valid.
func NewIntColumn(name string, vals []int64, valid []bool) *Column {
	return &Column{name: name, typ: types.TypeInt, ints: vals, valid: fillValid(valid, len(vals))}
}

// NewFloatColumn builds a float column. A nil valid slice marks every
// cell valid.
func NewFloatColumn(name string, vals []float64, valid []bool) *Column {
	return &Column{name: name, typ: types.TypeFloat, floats: vals, valid: fillValid(valid, len(vals))}
}

// NewStringColumn builds a string column. A nil valid slice marks every
// cell valid.
func NewStringColumn(name string, vals []string, valid []bool) *Column {
	return &Column{name: name, typ: types.TypeString, strs: vals, valid: fillValid(valid, len(vals))}
}

// NewTimeColumn builds a time column. A nil valid slice marks every
// cell valid.
func NewTimeColumn(name string, vals []time.Time, valid []bool) *Column {
	return &Column{name: name, typ: types.TypeTime, times: vals, valid: fillValid(valid, len(vals))}
}

// NewBoolColumn builds a boolean column. A nil valid slice marks every
// cell valid.
func NewBoolColumn(name string, vals []bool, valid []bool) *Column {
	return &Column{name: name, typ: types.TypeBool, bools: vals, valid: fillValid(valid, len(vals))}
}

func fillValid(valid []bool, n int) []bool {
	if valid != nil {
		return valid
	}
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}

// Name returns the column header.
func (c *Column) Name() string { return c.name }

// Type returns the storage type.
func (c *Column) Type() types.ColumnType { return c.typ }

// Len returns the number of cells, missing included.
func (c *Column) Len() int { return len(c.valid) }

// IsValid reports whether the cell at position i holds a value.
func (c *Column) IsValid(i int) bool { return i >= 0 && i < len(c.valid) && c.valid[i] }

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, ok := range c.valid {
		if !ok {
			n++
		}
	}
	return n
}

// IsNumeric reports whether the column participates in numeric operations.
func (c *Column) IsNumeric() bool {
	return c.typ == types.TypeInt || c.typ == types.TypeFloat
}

// Float returns the cell at i coerced to float64. The second return is
// false when the cell is missing or the column is not numeric.
func (c *Column) Float(i int) (float64, bool) {
	if !c.IsValid(i) {
		return 0, false
	}
	switch c.typ {
	case types.TypeInt:
		return float64(c.ints[i]), true
	case types.TypeFloat:
		return c.floats[i], true
	}
	return 0, false
}

// Int returns the cell at i as int64. The second return is false when the
// cell is missing or the column is not integer typed.
func (c *Column) Int(i int) (int64, bool) {
	if !c.IsValid(i) || c.typ != types.TypeInt {
		return 0, false
	}
	return c.ints[i], true
}

// Str returns the cell at i as its string value. The second return is
// false when the cell is missing or the column is not string typed.
func (c *Column) Str(i int) (string, bool) {
	if !c.IsValid(i) || c.typ != types.TypeString {
		return "", false
	}
	return c.strs[i], true
}

// Time returns the cell at i as time.Time. The second return is false when
// the cell is missing or the column is not time typed.
func (c *Column) Time(i int) (time.Time, bool) {
	if !c.IsValid(i) || c.typ != types.TypeTime {
		return time.Time{}, false
	}
	return c.times[i], true
}

// Bool returns the cell at i as bool. The second return is false when the
// cell is missing or the column is not boolean.
func (c *Column) Bool(i int) (bool, bool) {
	if !c.IsValid(i) || c.typ != types.TypeBool {
		return false, false
	}
	return c.bools[i], true
}

// Render returns the cell at i as display text, or na for missing cells.
// Floats render with the shortest representation that round-trips.
func (c *Column) Render(i int, na string) string {
	if !c.IsValid(i) {
		return na
	}
	switch c.typ {
	case types.TypeInt:
		return strconv.FormatInt(c.ints[i], 10)
	case types.TypeFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case types.TypeString:
		return c.strs[i]
	case types.TypeTime:
		return c.times[i].Format(timeRender)
	case types.TypeBool:
		return strconv.FormatBool(c.bools[i])
	}
	return na
}

// Floats returns the valid cells coerced to float64, in order. The second
// return gives the source position of each value.
func (c *Column) Floats() ([]float64, []int) {
	vals := make([]float64, 0, len(c.valid))
	pos := make([]int, 0, len(c.valid))
	for i := range c.valid {
		if v, ok := c.Float(i); ok {
			vals = append(vals, v)
			pos = append(pos, i)
		}
	}
	return vals, pos
}

// take builds a new column from the cells at the given positions. A
// negative position produces a missing cell.
func (c *Column) take(idx []int) *Column {
	out := &Column{name: c.name, typ: c.typ, valid: make([]bool, len(idx))}
	switch c.typ {
	case types.TypeInt:
		out.ints = make([]int64, len(idx))
		for k, i := range idx {
			if i >= 0 {
				out.ints[k], out.valid[k] = c.ints[i], c.valid[i]
			}
		}
	case types.TypeFloat:
		out.floats = make([]float64, len(idx))
		for k, i := range idx {
			if i >= 0 {
				out.floats[k], out.valid[k] = c.floats[i], c.valid[i]
			}
		}
	case types.TypeString:
		out.strs = make([]string, len(idx))
		for k, i := range idx {
			if i >= 0 {
				out.strs[k], out.valid[k] = c.strs[i], c.valid[i]
			}
		}
	case types.TypeTime:
		out.times = make([]time.Time, len(idx))
		for k, i := range idx {
			if i >= 0 {
				out.times[k], out.valid[k] = c.times[i], c.valid[i]
			}
		}
	case types.TypeBool:
		out.bools = make([]bool, len(idx))
		for k, i := range idx {
			if i >= 0 {
				out.bools[k], out.valid[k] = c.bools[i], c.valid[i]
			}
		}
	}
	return out
}

// clone returns a deep copy.
func (c *Column) clone() *Column {
	idx := make([]int, c.Len())
	for i := range idx {
		idx[i] = i
	}
	return c.take(idx)
}

// setRaw parses raw according to the column type and stores it at i. An
// empty string clears the cell to missing.
func (c *Column) setRaw(i int, raw string) error {
	if i < 0 || i >= c.Len() {
		return fmt.Errorf("%w: position %d in column %q of length %d", ErrOutOfRange, i, c.name, c.Len())
	}
	if raw == "" {
		c.valid[i] = false
		return nil
	}
	switch c.typ {
	case types.TypeInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %q for int column %q: %w", raw, c.name, err)
		}
		c.ints[i] = v
	case types.TypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("parsing %q for float column %q: %w", raw, c.name, err)
		}
		c.floats[i] = v
	case types.TypeString:
		c.strs[i] = raw
	case types.TypeTime:
		t, err := time.Parse(timeRender, raw)
		if err != nil {
			return fmt.Errorf("parsing %q for time column %q: %w", raw, c.name, err)
		}
		c.times[i] = t
	case types.TypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parsing %q for bool column %q: %w", raw, c.name, err)
		}
		c.bools[i] = v
	}
	c.valid[i] = true
	return nil
}

// memoryBytes estimates the in-memory size of the column's payload.
func (c *Column) memoryBytes() int64 {
	n := int64(c.Len())
	var b int64
	switch c.typ {
	case types.TypeInt, types.TypeFloat:
		b = 8 * n
	case types.TypeBool:
		b = n
	case types.TypeTime:
		b = 24 * n
	case types.TypeString:
		b = 16 * n
		for _, s := range c.strs {
			b += int64(len(s))
		}
	}
	return b + n // validity mask
}

// less orders two cells for sorting. Missing cells sort last regardless
// of direction.
func (c *Column) less(i, j int) bool {
	vi, vj := c.valid[i], c.valid[j]
	if !vi || !vj {
		return vi && !vj
	}
	switch c.typ {
	case types.TypeInt:
		return c.ints[i] < c.ints[j]
	case types.TypeFloat:
		fi, fj := c.floats[i], c.floats[j]
		if math.IsNaN(fi) || math.IsNaN(fj) {
			return !math.IsNaN(fi) && math.IsNaN(fj)
		}
		return fi < fj
	case types.TypeString:
		return c.strs[i] < c.strs[j]
	case types.TypeTime:
		return c.times[i].Before(c.times[j])
	case types.TypeBool:
		return !c.bools[i] && c.bools[j]
	}
	return false
}
