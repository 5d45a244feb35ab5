// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ColumnType identifies the storage type of a frame column.
type ColumnType string

const (
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeString ColumnType = "string"
	TypeTime   ColumnType = "time"
	TypeBool   ColumnType = "bool"
)

// ColumnSchema describes one column of a dataset.
type ColumnSchema struct {
	// Name is the column header.
	Name string `json:"name" yaml:"name"`

	// Type is the inferred or declared storage type.
	Type ColumnType `json:"type" yaml:"type"`

	// TimeLayout is the Go reference layout for time columns
	// (e.g. "02/01/2006 15:04"). Empty for non-time columns.
	TimeLayout string `json:"time_layout,omitempty" yaml:"time_layout,omitempty"`
}

// Dialect describes the on-disk conventions of a raw CSV file. The zero
// value reads standard comma-separated CSV with no missing-value tokens.
type Dialect struct {
	// Separator is the field separator (default ",").
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`

	// Comment is a prefix marking whole-line comments. Empty disables
	// comment filtering.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// NAValues lists cell values treated as missing (e.g. "n/d").
	NAValues []string `json:"na_values,omitempty" yaml:"na_values,omitempty"`

	// SkipRows is the number of leading lines dropped before the header.
	SkipRows int `json:"skip_rows,omitempty" yaml:"skip_rows,omitempty"`

	// Whitespace splits fields on runs of spaces and tabs instead of
	// Separator.
	Whitespace bool `json:"whitespace,omitempty" yaml:"whitespace,omitempty"`

	// ForceString names columns exempt from numeric type inference.
	ForceString []string `json:"force_string,omitempty" yaml:"force_string,omitempty"`

	// Ragged tolerates rows with missing trailing fields, padding them
	// with missing values.
	Ragged bool `json:"ragged,omitempty" yaml:"ragged,omitempty"`
}

// Dataset is a registry entry for an acquirable dataset.
type Dataset struct {
	// Name is the registry key (e.g. "titanic").
	Name string `json:"name" yaml:"name"`

	// URL is the public source location.
	URL string `json:"url" yaml:"url"`

	// Filename is the local file name under the raw data directory.
	Filename string `json:"filename" yaml:"filename"`

	// Description is a short human-readable summary.
	Description string `json:"description" yaml:"description"`

	// License names the dataset's distribution terms, when known.
	License string `json:"license,omitempty" yaml:"license,omitempty"`

	// Dialect describes how to parse the raw file.
	Dialect Dialect `json:"dialect" yaml:"dialect"`
}

// AcquireManifest records the provenance of a downloaded dataset file. It is
// written next to the file as <filename>.manifest.yaml.
type AcquireManifest struct {
	// Dataset is the registry name the file was acquired as.
	Dataset string `json:"dataset" yaml:"dataset"`

	// SourceURL is the URL the file was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Filename is the local file name.
	Filename string `json:"filename" yaml:"filename"`

	// SizeBytes is the downloaded file size.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`

	// SHA256 is the hex digest of the file contents.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// RetrievedAt is the download completion time.
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`

	// HTTPStatus is the final response status code.
	HTTPStatus int `json:"http_status" yaml:"http_status"`
}
