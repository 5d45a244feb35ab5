// Package acquire downloads the teaching datasets and records manifests.
package acquire

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-engine/internal/httputil"
	"github.com/pdiddy/dataset-engine/pkg/types"
)

const rawDir = "raw"

// manifestSuffix is appended to the downloaded filename for the
// manifest sidecar.
const manifestSuffix = ".manifest.yaml"

// AcquireSummary holds the outcome of a batch acquisition run.
type AcquireSummary struct {
	Downloaded int
	Skipped    int
	Failed     int
	Manifests  []*types.AcquireManifest
}

// Total returns the total number of datasets processed.
func (s AcquireSummary) Total() int {
	return s.Downloaded + s.Skipped + s.Failed
}

// HasFailures reports whether any downloads failed.
func (s AcquireSummary) HasFailures() bool {
	return s.Failed > 0
}

// AcquireDataset looks a dataset up in the registry and downloads it
// into the raw data directory. An existing file is not downloaded again
// unless the config forces it. The skipped return value reports whether
// the download was skipped.
func AcquireDataset(client *http.Client, name string, cfg types.AcquisitionConfig, w io.Writer) (manifest *types.AcquireManifest, skipped bool, err error) {
	ds, ok := Lookup(name)
	if !ok {
		return nil, false, unknownDataset(name)
	}
	return acquire(client, ds, cfg, w)
}

// AcquireURL downloads an arbitrary URL as a one-run dataset. The
// filename defaults to the URL path base and the dialect can be borrowed
// from a registry entry by name. The returned Dataset feeds conversion.
func AcquireURL(client *http.Client, rawURL, filename, dialectName string, cfg types.AcquisitionConfig, w io.Writer) (types.Dataset, *types.AcquireManifest, error) {
	ds, err := adhocDataset(rawURL, filename, dialectName)
	if err != nil {
		return types.Dataset{}, nil, err
	}
	manifest, _, err := acquire(client, ds, cfg, w)
	if err != nil {
		return types.Dataset{}, nil, err
	}
	return ds, manifest, nil
}

func acquire(client *http.Client, ds types.Dataset, cfg types.AcquisitionConfig, w io.Writer) (*types.AcquireManifest, bool, error) {
	destPath := filepath.Join(cfg.DataDir, rawDir, ds.Filename)

	if _, err := os.Stat(destPath); err == nil && !cfg.Force {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", ds.Name)
		m, readErr := ReadManifest(destPath + manifestSuffix)
		if readErr != nil {
			m = &types.AcquireManifest{Dataset: ds.Name, Filename: ds.Filename}
		}
		return m, true, nil
	}

	if err := os.MkdirAll(filepath.Join(cfg.DataDir, rawDir), 0o755); err != nil {
		return nil, false, fmt.Errorf("creating directory: %w", err)
	}

	fmt.Fprintf(w, "downloading: %s (%s)\n", ds.Name, ds.Filename)

	size, sum, status, err := downloadFile(client, ds.URL, destPath, cfg, w)
	if err != nil {
		return nil, false, fmt.Errorf("downloading %s: %w", ds.Name, err)
	}

	m := &types.AcquireManifest{
		Dataset:     ds.Name,
		SourceURL:   ds.URL,
		Filename:    ds.Filename,
		SizeBytes:   size,
		SHA256:      sum,
		RetrievedAt: time.Now().UTC(),
		HTTPStatus:  status,
	}
	if err := writeManifest(m, destPath+manifestSuffix); err != nil {
		return nil, false, fmt.Errorf("writing manifest for %s: %w", ds.Name, err)
	}
	return m, false, nil
}

// AcquireBatch processes multiple dataset names, printing per-item
// status and returning a summary. It continues after individual failures
// and applies a delay between consecutive downloads.
func AcquireBatch(client *http.Client, names []string, cfg types.AcquisitionConfig, w io.Writer) AcquireSummary {
	var summary AcquireSummary
	for i, name := range names {
		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		manifest, wasSkipped, err := AcquireDataset(client, name, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			summary.Failed++
			continue
		}
		if wasSkipped {
			summary.Skipped++
		} else {
			summary.Downloaded++
		}
		summary.Manifests = append(summary.Manifests, manifest)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		summary.Downloaded, summary.Skipped, summary.Failed, summary.Total())
	return summary
}

// downloadFile fetches url to destPath through a temporary file in the
// same directory, so a failed transfer never leaves a partial
// destination. It returns the byte count, SHA-256 and HTTP status of the
// completed download.
func downloadFile(client *http.Client, url, destPath string, cfg types.AcquisitionConfig, w io.Writer) (int64, string, int, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, "", 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AuthToken)
	}

	resp, err := httputil.DoWithRetry(context.Background(), client, req, 0)
	if err != nil {
		return 0, "", 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", resp.StatusCode, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return 0, "", 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(filepath.Base(destPath)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)

	hasher := sha256.New()
	n, copyErr := io.Copy(io.MultiWriter(tmpFile, hasher, bar), resp.Body)
	syncErr := tmpFile.Sync()
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, "", 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if syncErr != nil {
		os.Remove(tmpPath)
		return 0, "", 0, fmt.Errorf("syncing temp file: %w", syncErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, "", 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, "", 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, hex.EncodeToString(hasher.Sum(nil)), resp.StatusCode, nil
}

// writeManifest writes an AcquireManifest sidecar next to the download.
func writeManifest(m *types.AcquireManifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest reads an AcquireManifest sidecar.
func ReadManifest(path string) (*types.AcquireManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m types.AcquireManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
