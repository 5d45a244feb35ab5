// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report saves analysis output to YAML so a result can be
// reloaded and inspected without re-running the pipeline.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-engine/internal/frame"
)

// Report is the on-disk record of one analysis command: the operation
// name, the parameters it ran with, the rendered table, and a summary.
type Report struct {
	Op      string            `yaml:"op"`
	Params  map[string]string `yaml:"params,omitempty"`
	Table   string            `yaml:"table"`
	Summary Summary           `yaml:"summary"`
}

// Summary stores result statistics and a timestamp.
type Summary struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Rows        int       `yaml:"rows"`
	Columns     []string  `yaml:"columns,omitempty"`
}

// New captures a result frame under the named operation. The frame is
// rendered in full, however long.
func New(op string, params map[string]string, f *frame.Frame) *Report {
	var table strings.Builder
	f.RenderTable(&table, 0)
	return &Report{
		Op:     op,
		Params: params,
		Table:  table.String(),
		Summary: Summary{
			GeneratedAt: time.Now(),
			Rows:        f.NRows(),
			Columns:     f.Names(),
		},
	}
}

// Write saves the report, creating parent directories as needed. The
// bytes go through a temp file and a rename so an interrupted save
// cannot leave a truncated report behind.
func Write(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp report: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving report to %s: %w", path, err)
	}
	return nil
}

// Read loads a previously saved report from disk.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}
