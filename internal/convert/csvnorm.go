// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/pkg/types"
)

// CSVNormalizer rewrites delimited text into canonical CSV by reading it
// through the frame parser with the dataset's dialect. It covers every
// registry dialect: separators, comment lines, skipped rows, whitespace
// splitting, NA tokens and ragged trailing rows.
type CSVNormalizer struct{}

// Name identifies the normalizer in status output.
func (CSVNormalizer) Name() string { return "csv" }

// Normalize reads src with the dialect and writes canonical CSV to dst.
// NA tokens come out as empty cells.
func (CSVNormalizer) Normalize(ctx context.Context, src, dst string, d types.Dialect) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := frame.ReadCSVFile(src, frame.FromDialect(d))
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if f.NRows() == 0 {
		return fmt.Errorf("no data rows in %s", src)
	}
	if err := f.WriteCSVFile(dst); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
