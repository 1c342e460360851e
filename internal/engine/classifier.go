package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// Profile classifies one column in a single pass. A column is numeric when
// at least one non-missing value coerces to a number; Distinct counts the
// unique non-missing raw values.
func Profile(name string, values []string) ColumnProfile {
	p := ColumnProfile{Name: name}
	distinct := make(map[string]struct{})
	for _, v := range values {
		if dataset.IsMissing(v) {
			continue
		}
		distinct[strings.TrimSpace(v)] = struct{}{}
		if !p.Numeric {
			if _, ok := parseNumber(v); ok {
				p.Numeric = true
			}
		}
	}
	p.Distinct = len(distinct)
	return p
}

// ProfileTable profiles every column of a table in table order.
func ProfileTable(t *dataset.Table) []ColumnProfile {
	names := t.ColumnNames()
	out := make([]ColumnProfile, 0, len(names))
	for _, name := range names {
		values, _ := t.Column(name)
		out = append(out, Profile(name, values))
	}
	return out
}

// parseNumber is the engine's single numeric coercion: trimmed, tolerant of
// thousands commas when a decimal point is also present, never panicking.
// "NaN" and "Inf" cells (pandas export artifacts) are treated as
// unconvertible; quartiles, fences and bin edges are only defined over
// finite values.
func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if strings.Contains(raw, ",") && strings.Contains(raw, ".") {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
