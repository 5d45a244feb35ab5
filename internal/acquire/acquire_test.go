// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

const titanicBody = "Survived,Pclass,Name,Sex,Age\n0,3,Braund,male,22\n1,1,Cumings,female,38\n"

// testServer serves titanicBody for every request and counts calls.
func testServer(calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		w.Write([]byte(titanicBody))
	}))
}

func testConfig(dir string) types.AcquisitionConfig {
	return types.AcquisitionConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "dataset-engine-test/1.0"},
		DataDir:    dir,
	}
}

// --- single dataset ---

func TestAcquireDatasetDownloads(t *testing.T) {
	ts := testServer(nil)
	defer ts.Close()
	orig := titanicURL
	titanicURL = ts.URL
	defer func() { titanicURL = orig }()

	dir := t.TempDir()
	var out strings.Builder
	manifest, skipped, err := AcquireDataset(ts.Client(), "titanic", testConfig(dir), &out)
	if err != nil {
		t.Fatalf("AcquireDataset: %v", err)
	}
	if skipped {
		t.Error("fresh download should not be skipped")
	}

	data, err := os.ReadFile(filepath.Join(dir, "raw", "titanic.csv"))
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if string(data) != titanicBody {
		t.Error("downloaded content does not match served content")
	}

	wantSum := sha256.Sum256([]byte(titanicBody))
	if manifest.SHA256 != hex.EncodeToString(wantSum[:]) {
		t.Errorf("manifest SHA256 = %s, want %s", manifest.SHA256, hex.EncodeToString(wantSum[:]))
	}
	if manifest.SizeBytes != int64(len(titanicBody)) {
		t.Errorf("manifest size = %d, want %d", manifest.SizeBytes, len(titanicBody))
	}
	if manifest.HTTPStatus != http.StatusOK {
		t.Errorf("manifest status = %d, want 200", manifest.HTTPStatus)
	}
	if manifest.RetrievedAt.IsZero() {
		t.Error("manifest should record the retrieval time")
	}

	onDisk, err := ReadManifest(filepath.Join(dir, "raw", "titanic.csv"+manifestSuffix))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if onDisk.SHA256 != manifest.SHA256 || onDisk.Dataset != "titanic" {
		t.Error("manifest sidecar does not match returned manifest")
	}
}

func TestAcquireDatasetSendsAuthHeaders(t *testing.T) {
	var gotAgent, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(titanicBody))
	}))
	defer ts.Close()
	orig := titanicURL
	titanicURL = ts.URL
	defer func() { titanicURL = orig }()

	cfg := testConfig(t.TempDir())
	cfg.AuthToken = "tok_123"
	var out strings.Builder
	if _, _, err := AcquireDataset(ts.Client(), "titanic", cfg, &out); err != nil {
		t.Fatalf("AcquireDataset: %v", err)
	}
	if gotAgent != "dataset-engine-test/1.0" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
	if gotAuth != "Bearer tok_123" {
		t.Errorf("Authorization = %q, want Bearer tok_123", gotAuth)
	}
}

func TestAcquireDatasetSkipsExisting(t *testing.T) {
	var calls int32
	ts := testServer(&calls)
	defer ts.Close()
	orig := titanicURL
	titanicURL = ts.URL
	defer func() { titanicURL = orig }()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "raw"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "raw", "titanic.csv"), []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	_, skipped, err := AcquireDataset(ts.Client(), "titanic", testConfig(dir), &out)
	if err != nil {
		t.Fatalf("AcquireDataset: %v", err)
	}
	if !skipped {
		t.Error("existing file should be skipped")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("server called %d times, want 0", calls)
	}
	if !strings.Contains(out.String(), "skipped") {
		t.Errorf("output missing skip notice: %q", out.String())
	}
}

func TestAcquireDatasetForceRedownloads(t *testing.T) {
	var calls int32
	ts := testServer(&calls)
	defer ts.Close()
	orig := titanicURL
	titanicURL = ts.URL
	defer func() { titanicURL = orig }()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "raw"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "raw", "titanic.csv"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(dir)
	cfg.Force = true
	var out strings.Builder
	_, skipped, err := AcquireDataset(ts.Client(), "titanic", cfg, &out)
	if err != nil {
		t.Fatalf("AcquireDataset: %v", err)
	}
	if skipped {
		t.Error("force should not skip")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "raw", "titanic.csv"))
	if string(data) != titanicBody {
		t.Error("stale file was not replaced")
	}
}

func TestAcquireDatasetUnknownName(t *testing.T) {
	var out strings.Builder
	_, _, err := AcquireDataset(http.DefaultClient, "lusitania", testConfig(t.TempDir()), &out)
	if err == nil {
		t.Fatal("expected error for unknown dataset")
	}
	if !strings.Contains(err.Error(), "titanic") {
		t.Errorf("error should list known names, got: %v", err)
	}
}

func TestAcquireDatasetHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()
	orig := titanicURL
	titanicURL = ts.URL
	defer func() { titanicURL = orig }()

	dir := t.TempDir()
	var out strings.Builder
	_, _, err := AcquireDataset(ts.Client(), "titanic", testConfig(dir), &out)
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("error should name the status, got: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "raw", "titanic.csv")); statErr == nil {
		t.Error("failed download left a destination file")
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "raw", ".acquire-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

// --- batches ---

func TestAcquireBatch(t *testing.T) {
	ts := testServer(nil)
	defer ts.Close()
	origT, origA := titanicURL, airparifURL
	titanicURL, airparifURL = ts.URL, ts.URL
	defer func() { titanicURL, airparifURL = origT, origA }()

	dir := t.TempDir()
	var out strings.Builder
	summary := AcquireBatch(ts.Client(), []string{"titanic", "airparif", "unknown-set"}, testConfig(dir), &out)

	if summary.Downloaded != 2 || summary.Failed != 1 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want 2 downloaded, 1 failed", summary)
	}
	if summary.Total() != 3 {
		t.Errorf("Total() = %d, want 3", summary.Total())
	}
	if !summary.HasFailures() {
		t.Error("HasFailures() should be true")
	}
	if len(summary.Manifests) != 2 {
		t.Errorf("got %d manifests, want 2", len(summary.Manifests))
	}
	if !strings.Contains(out.String(), "Batch summary: 2 downloaded, 0 skipped, 1 failed") {
		t.Errorf("unexpected summary line:\n%s", out.String())
	}
}

// --- ad-hoc URLs ---

func TestAcquireURL(t *testing.T) {
	ts := testServer(nil)
	defer ts.Close()

	dir := t.TempDir()
	var out strings.Builder
	ds, manifest, err := AcquireURL(ts.Client(), ts.URL+"/files/custom.csv", "", "airparif", testConfig(dir), &out)
	if err != nil {
		t.Fatalf("AcquireURL: %v", err)
	}
	if ds.Name != "custom" || ds.Filename != "custom.csv" {
		t.Errorf("dataset = %q file %q, want custom / custom.csv", ds.Name, ds.Filename)
	}
	if ds.Dialect.Separator != ";" {
		t.Errorf("dialect not borrowed from airparif: %+v", ds.Dialect)
	}
	if manifest.SizeBytes != int64(len(titanicBody)) {
		t.Errorf("manifest size = %d, want %d", manifest.SizeBytes, len(titanicBody))
	}
	if _, err := os.Stat(filepath.Join(dir, "raw", "custom.csv")); err != nil {
		t.Errorf("download missing: %v", err)
	}
}

func TestAcquireURLErrors(t *testing.T) {
	cfg := testConfig(t.TempDir())
	var out strings.Builder
	if _, _, err := AcquireURL(http.DefaultClient, "not a url", "", "", cfg, &out); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, _, err := AcquireURL(http.DefaultClient, "https://example.com/", "", "", cfg, &out); err == nil {
		t.Error("expected error when no filename can be derived")
	}
	if _, _, err := AcquireURL(http.DefaultClient, "https://example.com/x.csv", "", "nope", cfg, &out); err == nil {
		t.Error("expected error for unknown dialect name")
	}
}
