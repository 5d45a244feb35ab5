// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// exportLimit caps how many datasets a single export includes.
const exportLimit = 10000

// Export writes the whole catalog to w in the given format ("yaml" or
// "json"), datasets sorted by name with their column profiles inline.
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
}

func (s *Store) exportEntries(ctx context.Context) ([]DatasetDetail, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if len(list) > exportLimit {
		list = list[:exportLimit]
	}

	details := make([]DatasetDetail, 0, len(list))
	for _, e := range list {
		d, err := s.Describe(ctx, e.Name)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}
