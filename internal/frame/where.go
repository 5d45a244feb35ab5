// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// whereOps are the comparison operators Where understands, longest first
// so that ">=" is not misread as ">".
var whereOps = []string{"==", "!=", ">=", "<=", ">", "<"}

// Where filters rows by a single comparison of the form "col op value",
// e.g. "age > 30" or `sex == "female"`. The value compares numerically
// when the column is numeric and the literal parses as a number, and as
// a string otherwise. Rows with a missing cell never match.
func (f *Frame) Where(expr string) (*Frame, error) {
	col, op, lit, err := splitWhere(expr)
	if err != nil {
		return nil, err
	}
	c := f.Column(col)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}

	if c.IsNumeric() {
		if n, convErr := strconv.ParseFloat(lit, 64); convErr == nil {
			return f.Filter(func(r Row) bool {
				v, ok := r.Float(col)
				return ok && compareFloat(v, op, n)
			}), nil
		}
	}

	return f.Filter(func(r Row) bool {
		if !r.IsValid(col) {
			return false
		}
		return compareString(r.Render(col, ""), op, lit)
	}), nil
}

// splitWhere breaks "col op value" into its parts. Quotes around the
// value are stripped so both bare and quoted literals work.
func splitWhere(expr string) (col, op, lit string, err error) {
	for _, candidate := range whereOps {
		i := strings.Index(expr, candidate)
		if i < 0 {
			continue
		}
		col = strings.TrimSpace(expr[:i])
		lit = strings.TrimSpace(expr[i+len(candidate):])
		if col == "" || lit == "" {
			break
		}
		lit = strings.Trim(lit, `"'`)
		return col, candidate, lit, nil
	}
	return "", "", "", fmt.Errorf("cannot parse condition %q (want col op value, e.g. \"age > 30\")", expr)
}

func compareFloat(v float64, op string, n float64) bool {
	switch op {
	case "==":
		return v == n
	case "!=":
		return v != n
	case ">":
		return v > n
	case ">=":
		return v >= n
	case "<":
		return v < n
	case "<=":
		return v <= n
	}
	return false
}

func compareString(v, op, lit string) bool {
	switch op {
	case "==":
		return v == lit
	case "!=":
		return v != lit
	case ">":
		return v > lit
	case ">=":
		return v >= lit
	case "<":
		return v < lit
	case "<=":
		return v <= lit
	}
	return false
}
