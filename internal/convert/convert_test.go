// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// fakeNormalizer implements Normalizer for testing. It writes canned
// output or fails, depending on configuration.
type fakeNormalizer struct {
	output string
	err    error
}

func (f *fakeNormalizer) Name() string { return "fake" }

func (f *fakeNormalizer) Normalize(_ context.Context, _, dst string, _ types.Dialect) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dst, []byte(f.output), 0o644)
}

// setupRaw creates a data dir with one raw file and returns the config.
func setupRaw(t *testing.T, filename, content string) types.ConvertConfig {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "raw"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "raw", filename), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return types.ConvertConfig{DataDir: dir}
}

func TestConvertDatasetNormalizesDialect(t *testing.T) {
	raw := "# station PA13\ndate;heure;NO2;O3\n21/04/2008;1;n/d;4\n21/04/2008;2;28;n/d\n"
	cfg := setupRaw(t, "mesures.csv", raw)
	ds := types.Dataset{
		Name:     "airparif",
		Filename: "mesures.csv",
		Dialect: types.Dialect{
			Separator:   ";",
			Comment:     "#",
			NAValues:    []string{"n/d"},
			ForceString: []string{"date"},
		},
	}

	var out strings.Builder
	if err := ConvertDataset(context.Background(), CSVNormalizer{}, ds, cfg, &out); err != nil {
		t.Fatalf("ConvertDataset: %v", err)
	}

	data, err := os.ReadFile(CanonicalPath(cfg.DataDir, "airparif"))
	if err != nil {
		t.Fatalf("reading canonical file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines[0] != "date,heure,NO2,O3" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "21/04/2008,1,,4" {
		t.Errorf("first row = %q, want NA token as empty cell", lines[1])
	}
	if !strings.Contains(out.String(), "converted: airparif (csv)") {
		t.Errorf("missing status line: %q", out.String())
	}
}

func TestConvertDatasetSkipsNewerCanonical(t *testing.T) {
	cfg := setupRaw(t, "titanic.csv", "a,b\n1,2\n")
	ds := types.Dataset{Name: "titanic", Filename: "titanic.csv"}

	dst := CanonicalPath(cfg.DataDir, "titanic")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(cfg.DataDir, "raw", "titanic.csv"), old, old); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	status, err := convertFile(context.Background(), CSVNormalizer{}, ds, cfg, &out)
	if err != nil {
		t.Fatalf("convertFile: %v", err)
	}
	if status != statusSkipped {
		t.Errorf("status = %v, want skipped", status)
	}
	if !strings.Contains(out.String(), "canonical is newer") {
		t.Errorf("missing skip notice: %q", out.String())
	}
}

func TestConvertDatasetMissingRaw(t *testing.T) {
	cfg := types.ConvertConfig{DataDir: t.TempDir()}
	ds := types.Dataset{Name: "titanic", Filename: "titanic.csv"}
	var out strings.Builder
	err := ConvertDataset(context.Background(), CSVNormalizer{}, ds, cfg, &out)
	if err == nil {
		t.Fatal("expected error for missing raw file")
	}
	if !strings.Contains(err.Error(), "raw file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConvertBatch(t *testing.T) {
	cfg := setupRaw(t, "titanic.csv", "a,b\n1,2\n")
	datasets := []types.Dataset{
		{Name: "titanic", Filename: "titanic.csv"},
		{Name: "missing", Filename: "missing.csv"},
	}

	var out strings.Builder
	summary := ConvertBatch(context.Background(), CSVNormalizer{}, datasets, cfg, &out)
	if summary.Converted != 1 || summary.Failed != 1 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want 1 converted, 1 failed", summary)
	}
	if summary.Total() != 2 || !summary.HasFailures() {
		t.Errorf("Total=%d HasFailures=%v", summary.Total(), summary.HasFailures())
	}
	if !strings.Contains(out.String(), "Batch summary: 1 converted, 0 skipped, 1 failed") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
}

func TestConvertBatchNormalizerFailure(t *testing.T) {
	cfg := setupRaw(t, "titanic.csv", "a,b\n1,2\n")
	datasets := []types.Dataset{{Name: "titanic", Filename: "titanic.csv"}}
	broken := &fakeNormalizer{err: errors.New("separator mismatch")}

	var out strings.Builder
	summary := ConvertBatch(context.Background(), broken, datasets, cfg, &out)
	if summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 failed", summary)
	}
	if !strings.Contains(out.String(), "separator mismatch") {
		t.Errorf("failure reason not reported: %q", out.String())
	}
}

func TestCSVNormalizerErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(src, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := CSVNormalizer{}.Normalize(context.Background(), src, filepath.Join(dir, "out.csv"), types.Dialect{})
	if err == nil || !strings.Contains(err.Error(), "no data rows") {
		t.Errorf("expected no-data error, got: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (CSVNormalizer{}).Normalize(ctx, src, filepath.Join(dir, "out.csv"), types.Dialect{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context error, got: %v", err)
	}
}

func TestPathHelpers(t *testing.T) {
	p := CanonicalPath("/data", "titanic")
	if p != filepath.Join("/data", "canonical", "titanic.csv") {
		t.Errorf("CanonicalPath = %q", p)
	}
	if got := DatasetNameFromPath(p); got != "titanic" {
		t.Errorf("DatasetNameFromPath = %q, want titanic", got)
	}
}
