package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dataset-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// AuthToken, when set, is sent as a bearer token with download
	// requests. Needed only for authenticated dataset mirrors.
	AuthToken string `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`
}

// AcquisitionConfig holds settings for the acquisition stage.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// DataDir is the base directory for datasets (contains raw/, canonical/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Force re-downloads files that already exist locally.
	Force bool `json:"force" yaml:"force"`
}

// ConvertConfig holds settings for the dialect normalization stage.
type ConvertConfig struct {
	// DataDir is the base directory for datasets (contains raw/, canonical/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// CleanConfig holds settings for the cleaning stage.
type CleanConfig struct {
	// DataDir is the base directory for datasets (contains raw/, canonical/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// RecipesDir is the directory searched for cleaning recipes referenced
	// by bare name (e.g. "titanic" resolves to recipes/titanic.yaml).
	RecipesDir string `json:"recipes_dir" yaml:"recipes_dir"`
}

// CatalogConfig holds settings for the dataset catalog.
type CatalogConfig struct {
	// DataDir is the base directory for datasets (contains raw/, canonical/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// IndexPath is the SQLite database file for the catalog index.
	IndexPath string `json:"index_path" yaml:"index_path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ReportConfig holds settings for saved analysis reports.
type ReportConfig struct {
	// ReportsDir is the directory for saved reports (e.g. "reports/").
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition"`
	Convert     ConvertConfig     `json:"convert" yaml:"convert"`
	Clean       CleanConfig       `json:"clean" yaml:"clean"`
	Catalog     CatalogConfig     `json:"catalog" yaml:"catalog"`
	Report      ReportConfig      `json:"report" yaml:"report"`
}
