// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dist computes and renders value distributions: histograms,
// kernel density estimates and quantile summaries.
package dist

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Histogram bins values into equal-width intervals covering their range.
// It returns bins+1 edges and the count per interval. The last interval
// is closed on both sides so the maximum lands in it.
func Histogram(values []float64, bins int) ([]float64, []float64, error) {
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("no values to bin")
	}
	if bins < 1 {
		return nil, nil, fmt.Errorf("need at least 1 bin, got %d", bins)
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		// Degenerate range: widen by one unit so the counts land somewhere.
		hi = lo + 1
	}
	return HistogramRange(values, lo, hi, bins)
}

// HistogramRange bins values into equal-width intervals over [lo, hi].
// Values outside the range are ignored.
func HistogramRange(values []float64, lo, hi float64, bins int) ([]float64, []float64, error) {
	if hi <= lo {
		return nil, nil, fmt.Errorf("invalid range [%g, %g]", lo, hi)
	}
	if bins < 1 {
		return nil, nil, fmt.Errorf("need at least 1 bin, got %d", bins)
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)

	inRange := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			inRange = append(inRange, v)
		}
	}
	sort.Float64s(inRange)

	// stat.Histogram half-opens every interval, dropping a value that sits
	// exactly on the top edge. Nudge the last divider past hi so the
	// maximum lands in the final bin.
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, inRange, nil)
	return edges, counts, nil
}

// KDE estimates the density of values on an evenly spaced grid of the
// given size using a Gaussian kernel. The bandwidth follows Silverman's
// rule of thumb. It returns the grid and the density at each point.
func KDE(values []float64, points int) ([]float64, []float64, error) {
	if len(values) < 2 {
		return nil, nil, fmt.Errorf("need at least 2 values, got %d", len(values))
	}
	if points < 2 {
		return nil, nil, fmt.Errorf("need at least 2 grid points, got %d", points)
	}

	sigma := stat.StdDev(values, nil)
	if sigma == 0 {
		return nil, nil, fmt.Errorf("zero variance, density is a point mass")
	}
	h := 1.06 * sigma * math.Pow(float64(len(values)), -0.2)

	lo := floats.Min(values) - 3*h
	hi := floats.Max(values) + 3*h
	grid := make([]float64, points)
	floats.Span(grid, lo, hi)

	kernel := distuv.Normal{Mu: 0, Sigma: 1}
	density := make([]float64, points)
	for i, x := range grid {
		sum := 0.0
		for _, v := range values {
			sum += kernel.Prob((x - v) / h)
		}
		density[i] = sum / (float64(len(values)) * h)
	}
	return grid, density, nil
}

// Quantiles evaluates the empirical quantiles of values at each requested
// probability.
func Quantiles(values []float64, qs ...float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values")
	}
	for _, q := range qs {
		if q < 0 || q > 1 {
			return nil, fmt.Errorf("quantile %g outside [0, 1]", q)
		}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = stat.Quantile(q, stat.Empirical, sorted, nil)
	}
	return out, nil
}

// RenderHist writes a histogram as one bar per interval, scaled to width
// characters for the fullest bin.
func RenderHist(w io.Writer, edges, counts []float64, width int) {
	if width <= 0 {
		width = 50
	}
	max := 0.0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		fmt.Fprintln(w, "No observations.")
		return
	}
	for i, c := range counts {
		closer := ")"
		if i == len(counts)-1 {
			closer = "]"
		}
		bar := int(c / max * float64(width))
		fmt.Fprintf(w, "[%10.4g, %10.4g%s  %6.0f  %s\n",
			edges[i], edges[i+1], closer, c, strings.Repeat("#", bar))
	}
}
