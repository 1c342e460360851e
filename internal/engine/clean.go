package engine

import (
	"fmt"
	"math"
	"sort"
)

// Tukey fence multiplier and the looser percentile fence used when the
// Tukey filter is too aggressive.
const (
	tukeyFactor     = 1.5
	extremeFactor   = 5.0
	minRowsForTukey = 10
	lowPercentile   = 0.01
	highPercentile  = 0.99
	logFloorFactor  = 0.1
)

// PolicyFunc is the blocking user-decision callback: given the quartile
// summary of a column with extreme outliers, it returns the remediation to
// apply. Returning an error aborts the preparation run.
type PolicyFunc func(OutlierSummary) (OutlierPolicy, error)

// CleanResult is the cleaner's output: coerced y values aligned with the
// source row indices they came from.
type CleanResult struct {
	Values   []float64
	Rows     []int
	Summary  OutlierSummary
	Policy   OutlierPolicy
	LogScale bool
	Note     string
}

// CoerceColumn converts a raw column to numbers, dropping rows that fail
// coercion. Rows holds the source index of each kept value.
func CoerceColumn(values []string) (vals []float64, rows []int) {
	for i, v := range values {
		if f, ok := parseNumber(v); ok {
			vals = append(vals, f)
			rows = append(rows, i)
		}
	}
	return vals, rows
}

// Clean coerces a y column and remediates extreme outliers. When the
// extreme test trips and policy is unset, the decision is delegated to
// choose; with no callback either, the run suspends with a
// PolicyRequiredError so the caller can pick a policy and rerun.
func Clean(values []string, policy OutlierPolicy, choose PolicyFunc) (*CleanResult, error) {
	vals, rows := CoerceColumn(values)
	if len(vals) == 0 {
		return nil, ErrNoNumericData
	}
	sum := summarize(vals)
	res := &CleanResult{Values: vals, Rows: rows, Summary: sum, Policy: policy}

	if !sum.Extreme() {
		return res, nil
	}
	if policy == "" {
		if choose == nil {
			return nil, &PolicyRequiredError{Summary: sum}
		}
		chosen, err := choose(sum)
		if err != nil {
			return nil, fmt.Errorf("outlier policy choice: %w", err)
		}
		policy = chosen
		res.Policy = chosen
	}

	switch policy {
	case PolicyKeep, "":
		return res, nil
	case PolicyRemove:
		res.Values, res.Rows = removeOutliers(vals, rows, sum)
		res.Note = fmt.Sprintf("%d outliers removed", len(vals)-len(res.Values))
		return res, nil
	case PolicyLogScale:
		floored, err := logFloor(vals)
		if err != nil {
			return nil, err
		}
		res.Values = floored
		res.LogScale = true
		res.Note = "log scale applied"
		return res, nil
	default:
		return nil, fmt.Errorf("unknown outlier policy %q", policy)
	}
}

// removeOutliers applies the Tukey fences. When fewer than minRowsForTukey
// rows survive, the looser 1st/99th percentile fence on the original
// coerced values is tried instead, and wins only when it actually recovers
// more rows.
func removeOutliers(vals []float64, rows []int, sum OutlierSummary) ([]float64, []int) {
	lo := sum.Q1 - tukeyFactor*sum.IQR
	hi := sum.Q3 + tukeyFactor*sum.IQR
	keptVals, keptRows := filterRange(vals, rows, lo, hi)
	if len(keptVals) >= minRowsForTukey {
		return keptVals, keptRows
	}
	sorted := sortedCopy(vals)
	lo = quantile(sorted, lowPercentile)
	hi = quantile(sorted, highPercentile)
	pctVals, pctRows := filterRange(vals, rows, lo, hi)
	if len(pctVals) > len(keptVals) {
		return pctVals, pctRows
	}
	return keptVals, keptRows
}

func filterRange(vals []float64, rows []int, lo, hi float64) ([]float64, []int) {
	var outVals []float64
	var outRows []int
	for i, v := range vals {
		if v >= lo && v <= hi {
			outVals = append(outVals, v)
			outRows = append(outRows, rows[i])
		}
	}
	return outVals, outRows
}

// logFloor replaces non-positive values with a fraction of the smallest
// positive value, so every value is log-representable.
func logFloor(vals []float64) ([]float64, error) {
	minPos := math.Inf(1)
	for _, v := range vals {
		if v > 0 && v < minPos {
			minPos = v
		}
	}
	if math.IsInf(minPos, 1) {
		return nil, ErrLogScaleUnavailable
	}
	floor := logFloorFactor * minPos
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v <= 0 {
			out[i] = floor
		} else {
			out[i] = v
		}
	}
	return out, nil
}

func summarize(vals []float64) OutlierSummary {
	sorted := sortedCopy(vals)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	return OutlierSummary{
		Rows: len(vals),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Q1:   q1,
		Q3:   q3,
		IQR:  q3 - q1,
	}
}

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// quantile interpolates linearly between the order statistics of a sorted
// slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
