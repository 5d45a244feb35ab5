// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// readConfig collects the dialect settings applied by ReadCSV.
type readConfig struct {
	name        string
	separator   rune
	comment     rune
	naValues    map[string]bool
	skipRows    int
	whitespace  bool
	forceString map[string]bool
	ragged      bool
}

// Option adjusts how ReadCSV parses its input.
type Option func(*readConfig)

// WithName sets the resulting frame's name.
func WithName(name string) Option {
	return func(c *readConfig) { c.name = name }
}

// WithSeparator sets the field separator (default ',').
func WithSeparator(r rune) Option {
	return func(c *readConfig) { c.separator = r }
}

// WithComment sets a rune marking whole-line comments.
func WithComment(r rune) Option {
	return func(c *readConfig) { c.comment = r }
}

// WithNAValues adds cell values treated as missing. The empty string is
// always missing.
func WithNAValues(vals ...string) Option {
	return func(c *readConfig) {
		for _, v := range vals {
			c.naValues[v] = true
		}
	}
}

// WithSkipRows drops n leading lines before the header.
func WithSkipRows(n int) Option {
	return func(c *readConfig) { c.skipRows = n }
}

// WithWhitespace splits fields on runs of spaces and tabs instead of the
// separator.
func WithWhitespace() Option {
	return func(c *readConfig) { c.whitespace = true }
}

// WithForceString exempts columns from type inference, keeping them as
// strings.
func WithForceString(cols ...string) Option {
	return func(c *readConfig) {
		for _, col := range cols {
			c.forceString[col] = true
		}
	}
}

// WithRagged tolerates rows with missing trailing fields, padding them
// with missing cells.
func WithRagged() Option {
	return func(c *readConfig) { c.ragged = true }
}

// FromDialect bundles a registry dialect into reader options.
func FromDialect(d types.Dialect) Option {
	return func(c *readConfig) {
		if d.Separator != "" {
			c.separator = []rune(d.Separator)[0]
		}
		if d.Comment != "" {
			c.comment = []rune(d.Comment)[0]
		}
		for _, v := range d.NAValues {
			c.naValues[v] = true
		}
		c.skipRows = d.SkipRows
		c.whitespace = d.Whitespace
		for _, col := range d.ForceString {
			c.forceString[col] = true
		}
		c.ragged = d.Ragged
	}
}

// ReadCSV parses tabular text into a frame. Column types are inferred per
// column: integer when every present cell parses as an integer, float when
// every present cell is numeric, boolean for true/false columns, string
// otherwise. Cells matching a configured missing-value token are masked.
func ReadCSV(r io.Reader, opts ...Option) (*Frame, error) {
	cfg := &readConfig{
		separator:   ',',
		naValues:    map[string]bool{"": true},
		forceString: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var (
		records [][]string
		err     error
	)
	if cfg.whitespace {
		records, err = readWhitespace(r, cfg)
	} else {
		records, err = readSeparated(r, cfg)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row in input")
	}

	header := mangleDuplicates(records[0])
	body := records[1:]

	width := len(header)
	raw := make([][]string, width)
	valid := make([][]bool, width)
	for j := range raw {
		raw[j] = make([]string, len(body))
		valid[j] = make([]bool, len(body))
	}
	for i, rec := range body {
		if len(rec) != width {
			if !cfg.ragged {
				return nil, fmt.Errorf("row %d has %d fields, want %d", i+1, len(rec), width)
			}
			padded := make([]string, width)
			copy(padded, rec)
			rec = padded
		}
		for j := 0; j < width; j++ {
			cell := strings.TrimSpace(rec[j])
			if cfg.naValues[cell] {
				continue
			}
			raw[j][i] = cell
			valid[j][i] = true
		}
	}

	cols := make([]*Column, width)
	for j, name := range header {
		cols[j] = inferColumn(name, raw[j], valid[j], cfg.forceString[name])
	}
	return New(cfg.name, cols...)
}

// ReadCSVFile reads a frame from a file, defaulting the frame name to the
// file's base name.
func ReadCSVFile(path string, opts ...Option) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	withDefault := append([]Option{WithName(baseName(path))}, opts...)
	fr, err := ReadCSV(f, withDefault...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return fr, nil
}

func baseName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// readSeparated parses separator-delimited lines with encoding/csv.
func readSeparated(r io.Reader, cfg *readConfig) ([][]string, error) {
	br := bufio.NewReader(r)
	for i := 0; i < cfg.skipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("skipping leading rows: %w", err)
		}
	}
	cr := csv.NewReader(br)
	cr.Comma = cfg.separator
	cr.Comment = cfg.comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return records, nil
}

// readWhitespace splits lines on runs of spaces and tabs.
func readWhitespace(r io.Reader, cfg *readConfig) ([][]string, error) {
	var records [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if line <= cfg.skipRows {
			continue
		}
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if cfg.comment != 0 && strings.HasPrefix(strings.TrimSpace(text), string(cfg.comment)) {
			continue
		}
		records = append(records, strings.Fields(text))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning input: %w", err)
	}
	return records, nil
}

// mangleDuplicates disambiguates repeated header names by suffixing .1,
// .2 and so on, in order of appearance.
func mangleDuplicates(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			out[i] = fmt.Sprintf("%s.%d", h, n)
		} else {
			seen[h] = 1
			out[i] = h
		}
	}
	return out
}

// inferColumn picks the narrowest type that fits every present cell.
func inferColumn(name string, raw []string, valid []bool, forceString bool) *Column {
	if !forceString {
		if c, ok := tryInts(name, raw, valid); ok {
			return c
		}
		if c, ok := tryFloats(name, raw, valid); ok {
			return c
		}
		if c, ok := tryBools(name, raw, valid); ok {
			return c
		}
	}
	return NewStringColumn(name, raw, valid)
}

func tryInts(name string, raw []string, valid []bool) (*Column, bool) {
	vals := make([]int64, len(raw))
	any := false
	for i, s := range raw {
		if !valid[i] {
			continue
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
		any = true
	}
	if !any {
		return nil, false
	}
	return NewIntColumn(name, vals, valid), true
}

func tryFloats(name string, raw []string, valid []bool) (*Column, bool) {
	vals := make([]float64, len(raw))
	any := false
	for i, s := range raw {
		if !valid[i] {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
		any = true
	}
	if !any {
		return nil, false
	}
	return NewFloatColumn(name, vals, valid), true
}

func tryBools(name string, raw []string, valid []bool) (*Column, bool) {
	vals := make([]bool, len(raw))
	any := false
	for i, s := range raw {
		if !valid[i] {
			continue
		}
		switch strings.ToLower(s) {
		case "true":
			vals[i] = true
		case "false":
			vals[i] = false
		default:
			return nil, false
		}
		any = true
	}
	if !any {
		return nil, false
	}
	return NewBoolColumn(name, vals, valid), true
}

// WriteCSV writes the frame in canonical form: comma separated, header
// row, empty cell for missing values.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Names()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	rec := make([]string, f.NCols())
	for i := 0; i < f.NRows(); i++ {
		for j, c := range f.cols {
			rec[j] = c.Render(i, "")
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the frame to a file in canonical form.
func (f *Frame) WriteCSVFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := f.WriteCSV(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
