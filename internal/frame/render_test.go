// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	f := cityFrame(t)
	var buf bytes.Buffer
	f.RenderTable(&buf, 2)

	out := buf.String()
	if !strings.Contains(out, "name") || !strings.Contains(out, "population") {
		t.Errorf("header missing from output:\n%s", out)
	}
	if !strings.Contains(out, "Paris") {
		t.Errorf("first row missing from output:\n%s", out)
	}
	if strings.Contains(out, "Nice") {
		t.Errorf("truncated row should not appear:\n%s", out)
	}
	if !strings.Contains(out, "(2 more rows)") {
		t.Errorf("truncation footer missing:\n%s", out)
	}
}

func TestRenderTableShowsNA(t *testing.T) {
	f := cityFrame(t)
	var buf bytes.Buffer
	f.RenderTable(&buf, 0)
	if !strings.Contains(buf.String(), naDisplay) {
		t.Errorf("missing cell should render as %s:\n%s", naDisplay, buf.String())
	}
}

func TestInfo(t *testing.T) {
	f := cityFrame(t)
	var buf bytes.Buffer
	f.Info(&buf)

	out := buf.String()
	if !strings.Contains(out, "4 rows x 3 columns") {
		t.Errorf("shape line missing:\n%s", out)
	}
	if !strings.Contains(out, "Memory usage:") {
		t.Errorf("memory line missing:\n%s", out)
	}
	// Population has one null, so 3 non-null cells.
	if !strings.Contains(out, "population") {
		t.Errorf("column listing missing:\n%s", out)
	}
}
