// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert normalizes raw dataset files into canonical CSV with
// pluggable normalizers.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

const (
	// canonicalDir is the subdirectory under the data base for canonical CSV.
	canonicalDir = "canonical"
	// rawDir is the subdirectory under the data base for raw downloads.
	rawDir = "raw"
)

// Normalizer rewrites one raw dataset file into canonical CSV. Different
// source formats implement this interface.
type Normalizer interface {
	// Normalize reads src with the given dialect and writes canonical CSV
	// to dst.
	Normalize(ctx context.Context, src, dst string, d types.Dialect) error
	// Name identifies the normalizer in status output.
	Name() string
}

// ConvertSummary holds the outcome of a batch conversion run.
type ConvertSummary struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (s ConvertSummary) Total() int {
	return s.Converted + s.Skipped + s.Failed
}

// HasFailures reports whether any conversions failed.
func (s ConvertSummary) HasFailures() bool {
	return s.Failed > 0
}

// conversionStatus is the per-file outcome inside a batch.
type conversionStatus int

const (
	statusConverted conversionStatus = iota
	statusSkipped
	statusFailed
)

// ConvertDataset normalizes one registered dataset's raw file into
// `<data>/canonical/<name>.csv`. The conversion is skipped when the
// canonical file is newer than the raw one.
func ConvertDataset(ctx context.Context, n Normalizer, ds types.Dataset, cfg types.ConvertConfig, w io.Writer) error {
	status, err := convertFile(ctx, n, ds, cfg, w)
	if status == statusFailed {
		return err
	}
	return nil
}

func convertFile(ctx context.Context, n Normalizer, ds types.Dataset, cfg types.ConvertConfig, w io.Writer) (conversionStatus, error) {
	src := filepath.Join(cfg.DataDir, rawDir, ds.Filename)
	dst := filepath.Join(cfg.DataDir, canonicalDir, ds.Name+".csv")

	srcInfo, err := os.Stat(src)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (raw file missing: %v)\n", ds.Name, err)
		return statusFailed, fmt.Errorf("raw file for %s: %w", ds.Name, err)
	}
	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.ModTime().After(srcInfo.ModTime()) {
		fmt.Fprintf(w, "skipped: %s (canonical is newer)\n", ds.Name)
		return statusSkipped, nil
	}

	if err := os.MkdirAll(filepath.Join(cfg.DataDir, canonicalDir), 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", ds.Name, err)
		return statusFailed, fmt.Errorf("creating directory: %w", err)
	}

	if err := n.Normalize(ctx, src, dst, ds.Dialect); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", ds.Name, err)
		return statusFailed, fmt.Errorf("normalizing %s: %w", ds.Name, err)
	}

	fmt.Fprintf(w, "converted: %s (%s)\n", ds.Name, n.Name())
	return statusConverted, nil
}

// ConvertBatch normalizes multiple datasets, printing per-file status to
// w and returning a summary. It continues after individual failures.
func ConvertBatch(ctx context.Context, n Normalizer, datasets []types.Dataset, cfg types.ConvertConfig, w io.Writer) ConvertSummary {
	var summary ConvertSummary
	for _, ds := range datasets {
		status, _ := convertFile(ctx, n, ds, cfg, w)
		switch status {
		case statusConverted:
			summary.Converted++
		case statusSkipped:
			summary.Skipped++
		case statusFailed:
			summary.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		summary.Converted, summary.Skipped, summary.Failed, summary.Total())
	return summary
}

// CanonicalPath returns where the canonical CSV for a dataset name lives.
func CanonicalPath(dataDir, name string) string {
	return filepath.Join(dataDir, canonicalDir, name+".csv")
}

// DatasetNameFromPath derives a dataset name from a canonical CSV path.
func DatasetNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
