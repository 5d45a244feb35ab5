// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/dataset-engine/internal/frame"
)

// --- test helpers ---

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New("survivors",
		frame.NewStringColumn("sex", []string{"female", "male"}, nil),
		frame.NewFloatColumn("rate", []float64{0.74, 0.19}, nil),
	)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// --- capture tests ---

func TestNewCapturesFrame(t *testing.T) {
	f := sampleFrame(t)
	r := New("group", map[string]string{"by": "sex", "agg": "survived:mean"}, f)

	if r.Op != "group" {
		t.Errorf("Op = %q, want group", r.Op)
	}
	if r.Params["by"] != "sex" {
		t.Errorf("Params[by] = %q, want sex", r.Params["by"])
	}
	if r.Summary.Rows != 2 {
		t.Errorf("Rows = %d, want 2", r.Summary.Rows)
	}
	if len(r.Summary.Columns) != 2 || r.Summary.Columns[0] != "sex" {
		t.Errorf("Columns = %v, want [sex rate]", r.Summary.Columns)
	}
	if r.Summary.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
	for _, want := range []string{"sex", "rate", "female", "0.19"} {
		if !strings.Contains(r.Table, want) {
			t.Errorf("table missing %q:\n%s", want, r.Table)
		}
	}
}

func TestNewEmptyFrame(t *testing.T) {
	f, err := frame.New("empty", frame.NewStringColumn("sex", nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	r := New("select", nil, f)

	if r.Summary.Rows != 0 {
		t.Errorf("Rows = %d, want 0", r.Summary.Rows)
	}
	if !strings.Contains(r.Table, "Empty frame.") {
		t.Errorf("table = %q, want the empty-frame notice", r.Table)
	}
}

// --- write and read tests ---

func TestWriteReadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "reports", "group.yaml")

	r := New("group", map[string]string{"by": "sex"}, sampleFrame(t))
	if err := Write(path, r); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Op != r.Op {
		t.Errorf("Op = %q, want %q", got.Op, r.Op)
	}
	if got.Params["by"] != "sex" {
		t.Errorf("Params[by] = %q, want sex", got.Params["by"])
	}
	if got.Summary.Rows != 2 {
		t.Errorf("Rows = %d, want 2", got.Summary.Rows)
	}
	if got.Table != r.Table {
		t.Errorf("table changed across round trip:\n%s\nvs:\n%s", got.Table, r.Table)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.yaml")

	if err := Write(path, New("dist", nil, sampleFrame(t))); err != nil {
		t.Fatal(err)
	}

	leftovers, err := filepath.Glob(filepath.Join(tmpDir, ".report-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestWriteOverwritesExisting(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.yaml")

	if err := Write(path, New("first", nil, sampleFrame(t))); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, New("second", nil, sampleFrame(t))); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Op != "second" {
		t.Errorf("Op = %q, want second", got.Op)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\t not yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Read(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing report") {
		t.Errorf("error = %q, want 'parsing report'", err.Error())
	}
}
