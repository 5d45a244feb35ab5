// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package groupby

import (
	"fmt"

	"github.com/pdiddy/dataset-engine/internal/frame"
)

// marginLabel names the totals row and column of tables with margins.
const marginLabel = "All"

// Normalization selects how Crosstab scales its counts.
type Normalization string

const (
	// NormNone leaves raw counts.
	NormNone Normalization = "none"

	// NormIndex divides each row by its row total.
	NormIndex Normalization = "index"

	// NormColumns divides each column by its column total.
	NormColumns Normalization = "columns"

	// NormAll divides every cell by the grand total.
	NormAll Normalization = "all"
)

// ParseNormalization validates a user-supplied normalization mode. Empty
// means none.
func ParseNormalization(s string) (Normalization, error) {
	switch Normalization(s) {
	case "", NormNone:
		return NormNone, nil
	case NormIndex, NormColumns, NormAll:
		return Normalization(s), nil
	}
	return "", fmt.Errorf("unknown normalization %q (want index, columns or all)", s)
}

// CrosstabOptions adjust Crosstab output.
type CrosstabOptions struct {
	// Normalize scales counts to shares along the chosen axis.
	Normalize Normalization

	// Percent multiplies normalized shares by 100.
	Percent bool

	// Margins appends All totals. Under row normalization the All
	// column is dropped (every cell would be 1), and symmetrically for
	// column normalization.
	Margins bool
}

// cellGroups partitions row positions by (row value, column value). Rows
// with either cell missing are excluded.
func cellGroups(f *frame.Frame, rowCol, colCol string) (map[string]map[string][]int, []string, []string, error) {
	rc := f.Column(rowCol)
	if rc == nil {
		return nil, nil, nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, rowCol)
	}
	cc := f.Column(colCol)
	if cc == nil {
		return nil, nil, nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, colCol)
	}

	groups := make(map[string]map[string][]int)
	var rowOrder, colOrder []string
	seenRow := make(map[string]bool)
	seenCol := make(map[string]bool)

	for i := 0; i < f.NRows(); i++ {
		if !rc.IsValid(i) || !cc.IsValid(i) {
			continue
		}
		rv := rc.Render(i, "")
		cv := cc.Render(i, "")
		if !seenRow[rv] {
			seenRow[rv] = true
			rowOrder = append(rowOrder, rv)
		}
		if !seenCol[cv] {
			seenCol[cv] = true
			colOrder = append(colOrder, cv)
		}
		if groups[rv] == nil {
			groups[rv] = make(map[string][]int)
		}
		groups[rv][cv] = append(groups[rv][cv], i)
	}
	return groups, sortKeys(rowOrder), sortKeys(colOrder), nil
}

// Crosstab tabulates the frequency of each (rowCol, colCol) value pair.
func Crosstab(f *frame.Frame, rowCol, colCol string, opts CrosstabOptions) (*frame.Frame, error) {
	groups, rowVals, colVals, err := cellGroups(f, rowCol, colCol)
	if err != nil {
		return nil, err
	}
	if len(rowVals) == 0 {
		return nil, fmt.Errorf("no rows with both %q and %q present", rowCol, colCol)
	}

	// Raw counts, margins included.
	body := make([][]float64, len(rowVals))
	rowTotals := make([]float64, len(rowVals))
	colTotals := make([]float64, len(colVals))
	grand := 0.0
	for i, rv := range rowVals {
		body[i] = make([]float64, len(colVals))
		for j, cv := range colVals {
			n := float64(len(groups[rv][cv]))
			body[i][j] = n
			rowTotals[i] += n
			colTotals[j] += n
			grand += n
		}
	}

	scale := 1.0
	if opts.Percent && opts.Normalize != NormNone {
		scale = 100
	}

	switch opts.Normalize {
	case NormNone:
	case NormIndex:
		for i := range body {
			for j := range body[i] {
				body[i][j] = scale * body[i][j] / rowTotals[i]
			}
		}
		for j := range colTotals {
			colTotals[j] = scale * colTotals[j] / grand
		}
	case NormColumns:
		for i := range body {
			for j := range body[i] {
				body[i][j] = scale * body[i][j] / colTotals[j]
			}
		}
		for i := range rowTotals {
			rowTotals[i] = scale * rowTotals[i] / grand
		}
	case NormAll:
		for i := range body {
			for j := range body[i] {
				body[i][j] = scale * body[i][j] / grand
			}
		}
		for i := range rowTotals {
			rowTotals[i] = scale * rowTotals[i] / grand
		}
		for j := range colTotals {
			colTotals[j] = scale * colTotals[j] / grand
		}
		grand = scale
	default:
		return nil, fmt.Errorf("unknown normalization %q", opts.Normalize)
	}

	withAllCol := opts.Margins && opts.Normalize != NormIndex
	withAllRow := opts.Margins && opts.Normalize != NormColumns

	outRows := rowVals
	if withAllRow {
		outRows = append(append([]string(nil), rowVals...), marginLabel)
	}

	cols := []*frame.Column{frame.NewStringColumn(rowCol, outRows, nil)}
	for j, cv := range colVals {
		vals := make([]float64, len(outRows))
		for i := range rowVals {
			vals[i] = body[i][j]
		}
		if withAllRow {
			vals[len(vals)-1] = colTotals[j]
		}
		cols = append(cols, numberColumn(cv, vals, opts.Normalize == NormNone))
	}
	if withAllCol {
		vals := make([]float64, len(outRows))
		for i := range rowVals {
			vals[i] = rowTotals[i]
		}
		if withAllRow {
			vals[len(vals)-1] = grand
		}
		cols = append(cols, numberColumn(marginLabel, vals, opts.Normalize == NormNone))
	}

	return frame.New(fmt.Sprintf("%s x %s", rowCol, colCol), cols...)
}

// numberColumn builds an int column for raw counts, float otherwise.
func numberColumn(name string, vals []float64, asInt bool) *frame.Column {
	if asInt {
		ints := make([]int64, len(vals))
		for i, v := range vals {
			ints[i] = int64(v)
		}
		return frame.NewIntColumn(name, ints, nil)
	}
	return frame.NewFloatColumn(name, vals, nil)
}

// PivotTable aggregates a value column over an index/columns grid. Margins
// re-aggregate the underlying rows, so a mean margin is the mean of the
// whole slice rather than a mean of means.
func PivotTable(f *frame.Frame, index, columns, values string, fn AggFunc, margins bool) (*frame.Frame, error) {
	vc := f.Column(values)
	if vc == nil {
		return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, values)
	}
	if fn != AggCount && !vc.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", frame.ErrNotNumeric, values, vc.Type())
	}
	groups, rowVals, colVals, err := cellGroups(f, index, columns)
	if err != nil {
		return nil, err
	}
	if len(rowVals) == 0 {
		return nil, fmt.Errorf("no rows with both %q and %q present", index, columns)
	}

	outRows := rowVals
	if margins {
		outRows = append(append([]string(nil), rowVals...), marginLabel)
	}

	// Row and column position slices for margin re-aggregation.
	rowPos := make(map[string][]int, len(rowVals))
	colPos := make(map[string][]int, len(colVals))
	var allPos []int
	for _, rv := range rowVals {
		for cv, pos := range groups[rv] {
			rowPos[rv] = append(rowPos[rv], pos...)
			colPos[cv] = append(colPos[cv], pos...)
			allPos = append(allPos, pos...)
		}
	}

	cols := []*frame.Column{frame.NewStringColumn(index, outRows, nil)}
	for _, cv := range colVals {
		vals := make([]float64, len(outRows))
		valid := make([]bool, len(outRows))
		for i, rv := range rowVals {
			if pos, ok := groups[rv][cv]; ok {
				vals[i], valid[i] = Aggregate(vc, pos, fn)
			}
		}
		if margins {
			last := len(outRows) - 1
			vals[last], valid[last] = Aggregate(vc, colPos[cv], fn)
		}
		cols = append(cols, frame.NewFloatColumn(cv, vals, valid))
	}
	if margins {
		vals := make([]float64, len(outRows))
		valid := make([]bool, len(outRows))
		for i, rv := range rowVals {
			vals[i], valid[i] = Aggregate(vc, rowPos[rv], fn)
		}
		last := len(outRows) - 1
		vals[last], valid[last] = Aggregate(vc, allPos, fn)
		cols = append(cols, frame.NewFloatColumn(marginLabel, vals, valid))
	}

	return frame.New(fmt.Sprintf("%s pivot", f.Name()), cols...)
}

// Unstack reshapes a long frame to wide: one row per distinct indexCol
// value, one column per distinct columnCol value, cells from valueCol.
// Duplicate (index, column) pairs are an error.
func Unstack(f *frame.Frame, indexCol, columnCol, valueCol string) (*frame.Frame, error) {
	vc := f.Column(valueCol)
	if vc == nil {
		return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, valueCol)
	}
	if !vc.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", frame.ErrNotNumeric, valueCol, vc.Type())
	}
	groups, rowVals, colVals, err := cellGroups(f, indexCol, columnCol)
	if err != nil {
		return nil, err
	}

	rowIdx := make(map[string]int, len(rowVals))
	for i, rv := range rowVals {
		rowIdx[rv] = i
	}

	cols := []*frame.Column{frame.NewStringColumn(indexCol, rowVals, nil)}
	for _, cv := range colVals {
		vals := make([]float64, len(rowVals))
		valid := make([]bool, len(rowVals))
		for _, rv := range rowVals {
			pos, ok := groups[rv][cv]
			if !ok {
				continue
			}
			if len(pos) > 1 {
				return nil, fmt.Errorf("duplicate entries for (%s=%s, %s=%s)", indexCol, rv, columnCol, cv)
			}
			if v, okv := vc.Float(pos[0]); okv {
				vals[rowIdx[rv]], valid[rowIdx[rv]] = v, true
			}
		}
		cols = append(cols, frame.NewFloatColumn(cv, vals, valid))
	}

	return frame.New(f.Name()+" unstacked", cols...)
}
