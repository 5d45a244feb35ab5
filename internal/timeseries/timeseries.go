// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package timeseries builds time columns from raw date and hour fields and
// aggregates frames over calendar periods.
package timeseries

import (
	"fmt"
	"sort"
	"time"

	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/internal/groupby"
	"github.com/pdiddy/dataset-engine/pkg/types"
)

// Date layouts seen in the bundled datasets.
const (
	// LayoutFR is day-first: 21/04/2008.
	LayoutFR = "02/01/2006"

	// LayoutISO is year-first: 2008-04-21.
	LayoutISO = "2006-01-02"

	// LayoutFRMinute extends LayoutFR with a clock time.
	LayoutFRMinute = "02/01/2006 15:04"

	// LayoutISOMinute extends LayoutISO with a clock time.
	LayoutISOMinute = "2006-01-02 15:04"
)

// Frequency selects the resampling period.
type Frequency string

const (
	Daily   Frequency = "day"
	Monthly Frequency = "month"
	Yearly  Frequency = "year"
)

// ParseFrequency validates a user-supplied frequency name.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case Daily, Monthly, Yearly:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown frequency %q (want day, month or year)", s)
}

// BuildTime combines a textual date column and an integer hour column into
// a new time column named out. With oneBased, hours run 1 to 24 where hour
// h labels the interval ending at h o'clock; they are shifted down to the
// 0 to 23 interval starts. Unparseable dates and out-of-range hours leave
// the cell missing; their count is returned alongside the new frame.
func BuildTime(f *frame.Frame, dateCol, hourCol, layout, out string, oneBased bool) (*frame.Frame, int, error) {
	dc := f.Column(dateCol)
	if dc == nil {
		return nil, 0, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, dateCol)
	}
	hc := f.Column(hourCol)
	if hc == nil {
		return nil, 0, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, hourCol)
	}

	lo, hi := 0, 23
	if oneBased {
		lo, hi = 1, 24
	}

	n := f.NRows()
	vals := make([]time.Time, n)
	valid := make([]bool, n)
	failed := 0
	for i := 0; i < n; i++ {
		ds, okD := dc.Str(i)
		h, okH := hc.Float(i)
		if !okD || !okH {
			failed++
			continue
		}
		hour := int(h)
		if hour < lo || hour > hi {
			failed++
			continue
		}
		if oneBased {
			hour--
		}
		day, err := time.Parse(layout, ds)
		if err != nil {
			failed++
			continue
		}
		vals[i] = day.Add(time.Duration(hour) * time.Hour)
		valid[i] = true
	}

	nf, err := f.AddColumn(frame.NewTimeColumn(out, vals, valid))
	if err != nil {
		return nil, 0, err
	}
	return nf, failed, nil
}

// ParseTimes re-parses a string column as times with the given layout.
// Unparseable cells become missing; their count is returned.
func ParseTimes(f *frame.Frame, col, layout string) (*frame.Frame, int, error) {
	return f.ForceType(col, types.TypeTime, layout)
}

// truncate maps a time to the start of its period.
func truncate(t time.Time, freq Frequency) time.Time {
	switch freq {
	case Daily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case Yearly:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	}
	return t
}

// Resample aggregates value columns per calendar period of the time
// column. The result has one row per observed period, ascending, holding
// the period start and one aggregate per value column. With no value
// columns given, every numeric column is aggregated. Periods with no rows
// do not appear.
func Resample(f *frame.Frame, timeCol string, freq Frequency, fn groupby.AggFunc, valueCols ...string) (*frame.Frame, error) {
	tc := f.Column(timeCol)
	if tc == nil {
		return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, timeCol)
	}
	if tc.Type() != types.TypeTime {
		return nil, fmt.Errorf("column %q is %s, want time", timeCol, tc.Type())
	}
	if len(valueCols) == 0 {
		for _, c := range f.Columns() {
			if c.IsNumeric() {
				valueCols = append(valueCols, c.Name())
			}
		}
		if len(valueCols) == 0 {
			return nil, fmt.Errorf("%w: frame has no numeric columns", frame.ErrNotNumeric)
		}
	}
	vcs := make([]*frame.Column, len(valueCols))
	for i, name := range valueCols {
		c := f.Column(name)
		if c == nil {
			return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, name)
		}
		if fn != groupby.AggCount && !c.IsNumeric() {
			return nil, fmt.Errorf("%w: %q is %s", frame.ErrNotNumeric, name, c.Type())
		}
		vcs[i] = c
	}

	periods := make(map[time.Time][]int)
	for i := 0; i < tc.Len(); i++ {
		t, ok := tc.Time(i)
		if !ok {
			continue
		}
		p := truncate(t, freq)
		periods[p] = append(periods[p], i)
	}

	starts := make([]time.Time, 0, len(periods))
	for p := range periods {
		starts = append(starts, p)
	}
	sort.Slice(starts, func(a, b int) bool { return starts[a].Before(starts[b]) })

	cols := []*frame.Column{frame.NewTimeColumn(timeCol, starts, nil)}
	for k, c := range vcs {
		vals := make([]float64, len(starts))
		valid := make([]bool, len(starts))
		for i, p := range starts {
			vals[i], valid[i] = groupby.Aggregate(c, periods[p], fn)
		}
		cols = append(cols, frame.NewFloatColumn(fmt.Sprintf("%s_%s", valueCols[k], fn), vals, valid))
	}
	return frame.New(fmt.Sprintf("%s by %s", f.Name(), freq), cols...)
}

// weekdayNames orders columns Monday first, matching the usual weekly
// profile layout.
var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// WeekdayProfile averages a value column into a 24-row grid: one row per
// hour of day, one column per weekday starting Monday. Hour and weekday
// combinations with no observations are missing.
func WeekdayProfile(f *frame.Frame, timeCol, valueCol string) (*frame.Frame, error) {
	return profile(f, timeCol, valueCol, weekdayNames, func(t time.Time) int {
		// time.Weekday counts from Sunday; shift to Monday-first.
		return (int(t.Weekday()) + 6) % 7
	})
}

// MonthProfile averages a value column into a 24-row grid with one column
// per month.
func MonthProfile(f *frame.Frame, timeCol, valueCol string) (*frame.Frame, error) {
	return profile(f, timeCol, valueCol, monthNames, func(t time.Time) int {
		return int(t.Month()) - 1
	})
}

func profile(f *frame.Frame, timeCol, valueCol string, names []string, bucket func(time.Time) int) (*frame.Frame, error) {
	tc := f.Column(timeCol)
	if tc == nil {
		return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, timeCol)
	}
	if tc.Type() != types.TypeTime {
		return nil, fmt.Errorf("column %q is %s, want time", timeCol, tc.Type())
	}
	vc := f.Column(valueCol)
	if vc == nil {
		return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, valueCol)
	}
	if !vc.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", frame.ErrNotNumeric, valueCol, vc.Type())
	}

	sums := make([][]float64, 24)
	counts := make([][]int, 24)
	for h := range sums {
		sums[h] = make([]float64, len(names))
		counts[h] = make([]int, len(names))
	}
	for i := 0; i < tc.Len(); i++ {
		t, okT := tc.Time(i)
		v, okV := vc.Float(i)
		if !okT || !okV {
			continue
		}
		b := bucket(t)
		sums[t.Hour()][b] += v
		counts[t.Hour()][b]++
	}

	hours := make([]int64, 24)
	for h := range hours {
		hours[h] = int64(h)
	}
	cols := []*frame.Column{frame.NewIntColumn("hour", hours, nil)}
	for j, name := range names {
		vals := make([]float64, 24)
		valid := make([]bool, 24)
		for h := 0; h < 24; h++ {
			if counts[h][j] > 0 {
				vals[h] = sums[h][j] / float64(counts[h][j])
				valid[h] = true
			}
		}
		cols = append(cols, frame.NewFloatColumn(name, vals, valid))
	}
	return frame.New(fmt.Sprintf("%s profile", valueCol), cols...)
}
