package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

const (
	// Category caps for bar/count charts and pie slices.
	maxCategories = 30
	maxPieGroups  = 10
	topPieSlices  = 9
	otherLabel    = "Other"

	// Row cap and fixed seed for line/scatter sampling. The seed is a
	// constant so the same input always yields the same subset.
	sampleCap  = 1000
	sampleSeed = 42

	// Display tick cap per heatmap axis.
	maxAxisTicks = 20

	// Histogram bin-count clamps: Freedman-Diaconis and the sqrt fallback.
	minFDBins, maxFDBins     = 10, 50
	minSqrtBins, maxSqrtBins = 5, 30
)

// CountByCategory groups x and counts occurrences, the fallback series when
// the chosen y column has no numeric data. Categories beyond maxCategories
// are discarded, most frequent first; there is no "other" bucket on this
// path. The returned note is empty when nothing was discarded.
func CountByCategory(x []string) (*Series, string) {
	counts := make(map[string]int)
	for _, v := range x {
		if dataset.IsMissing(v) {
			continue
		}
		counts[v]++
	}
	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] == counts[labels[j]] {
			return labels[i] < labels[j]
		}
		return counts[labels[i]] > counts[labels[j]]
	})
	note := ""
	if len(labels) > maxCategories {
		note = fmt.Sprintf("showing the %d most frequent of %d categories", maxCategories, len(labels))
		labels = labels[:maxCategories]
	}
	s := &Series{X: labels, Y: make([]float64, len(labels))}
	for i, l := range labels {
		s.Y[i] = float64(counts[l])
	}
	return s, note
}

// BarMeans collapses a wide bar chart: group by x, mean of y per group,
// keep the maxCategories groups with the highest mean.
func BarMeans(x []string, y []float64) (*Series, string) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, l := range x {
		if dataset.IsMissing(l) {
			continue
		}
		sums[l] += y[i]
		counts[l]++
	}
	means := make(map[string]float64, len(sums))
	labels := make([]string, 0, len(sums))
	for l, s := range sums {
		means[l] = s / float64(counts[l])
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if means[labels[i]] == means[labels[j]] {
			return labels[i] < labels[j]
		}
		return means[labels[i]] > means[labels[j]]
	})
	note := ""
	if len(labels) > maxCategories {
		note = fmt.Sprintf("showing the %d groups with the highest mean of %d", maxCategories, len(labels))
		labels = labels[:maxCategories]
	}
	s := &Series{X: labels, Y: make([]float64, len(labels))}
	for i, l := range labels {
		s.Y[i] = means[l]
	}
	return s, note
}

// PieTotals groups x and sums y into pie slices. Negative sums are replaced
// with their absolute value (a pie cannot show them) and more than
// maxPieGroups groups collapse into topPieSlices plus an "Other" slice
// holding the remainder, created only when that remainder is positive.
func PieTotals(x []string, y []float64) (*Series, []string) {
	sums := make(map[string]float64)
	for i, l := range x {
		if dataset.IsMissing(l) {
			continue
		}
		sums[l] += y[i]
	}
	var notes []string
	negative := false
	for l, v := range sums {
		if v < 0 {
			sums[l] = -v
			negative = true
		}
	}
	if negative {
		notes = append(notes, "negative slice values replaced with absolute values")
	}
	labels := make([]string, 0, len(sums))
	for l := range sums {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if sums[labels[i]] == sums[labels[j]] {
			return labels[i] < labels[j]
		}
		return sums[labels[i]] > sums[labels[j]]
	})
	if len(labels) > maxPieGroups {
		rest := 0.0
		for _, l := range labels[topPieSlices:] {
			rest += sums[l]
		}
		notes = append(notes, fmt.Sprintf("%d smaller categories collapsed into %q", len(labels)-topPieSlices, otherLabel))
		labels = labels[:topPieSlices]
		if rest > 0 {
			labels = append(labels, otherLabel)
			sums[otherLabel] = rest
		}
	}
	s := &Series{X: labels, Y: make([]float64, len(labels))}
	for i, l := range labels {
		s.Y[i] = sums[l]
	}
	return s, notes
}

// BuildHistogram bins a numeric column. Bin count follows the
// Freedman-Diaconis rule clamped to [minFDBins, maxFDBins]; when the IQR is
// zero it falls back to the square-root rule clamped to [minSqrtBins,
// maxSqrtBins]. Under a log-scale policy bins are computed on the log axis
// when every value is positive, otherwise the column is shifted by |min|+1
// first; Label undoes either transform for display.
func BuildHistogram(vals []float64, logScale bool) *Histogram {
	h := &Histogram{}
	work := vals
	if logScale {
		minVal := sortedCopy(vals)[0]
		if minVal > 0 {
			h.Transform = TransformLog10
			work = make([]float64, len(vals))
			for i, v := range vals {
				work[i] = math.Log10(v)
			}
		} else {
			h.Transform = TransformShift
			h.Shift = math.Abs(minVal) + 1
			work = make([]float64, len(vals))
			for i, v := range vals {
				work[i] = v + h.Shift
			}
		}
	}

	sorted := sortedCopy(work)
	minV, maxV := sorted[0], sorted[len(sorted)-1]
	n := len(sorted)
	iqr := quantile(sorted, 0.75) - quantile(sorted, 0.25)
	dataRange := maxV - minV

	var bins int
	if iqr > 0 && dataRange > 0 {
		width := 2 * iqr / math.Cbrt(float64(n))
		bins = clamp(int(dataRange/width), minFDBins, maxFDBins)
	} else {
		bins = clamp(int(math.Sqrt(float64(n))), minSqrtBins, maxSqrtBins)
	}

	h.Edges = make([]float64, bins+1)
	h.Counts = make([]int, bins)
	if dataRange == 0 {
		// Degenerate column: one value, one populated bin.
		for i := range h.Edges {
			h.Edges[i] = minV + float64(i)
		}
		h.Counts[0] = n
		return h
	}
	step := dataRange / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = minV + float64(i)*step
	}
	h.Edges[bins] = maxV
	for _, v := range work {
		idx := int((v - minV) / step)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h
}

// BuildPivot builds the heatmap matrix: rows are distinct x values, columns
// distinct group values, cells the mean y for the pair, 0 where a pair
// never occurs. Axes with more than maxAxisTicks labels get evenly thinned
// tick positions; the matrix is left at full density.
func BuildPivot(x, group []string, y []float64) *Pivot {
	type cell struct {
		sum   float64
		count int
	}
	cells := make(map[[2]string]*cell)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})
	for i := range x {
		if dataset.IsMissing(x[i]) || dataset.IsMissing(group[i]) {
			continue
		}
		rowSet[x[i]] = struct{}{}
		colSet[group[i]] = struct{}{}
		key := [2]string{x[i], group[i]}
		c := cells[key]
		if c == nil {
			c = &cell{}
			cells[key] = c
		}
		c.sum += y[i]
		c.count++
	}
	p := &Pivot{
		RowLabels: sortedKeys(rowSet),
		ColLabels: sortedKeys(colSet),
	}
	p.Cells = make([][]float64, len(p.RowLabels))
	for r, rl := range p.RowLabels {
		p.Cells[r] = make([]float64, len(p.ColLabels))
		for c, cl := range p.ColLabels {
			if agg := cells[[2]string{rl, cl}]; agg != nil {
				p.Cells[r][c] = agg.sum / float64(agg.count)
			}
		}
	}
	p.RowTicks = thinTicks(len(p.RowLabels))
	p.ColTicks = thinTicks(len(p.ColLabels))
	return p
}

// SampleIndices draws a reproducible uniform sample of sampleCap row
// indices out of n, in ascending order. Returns nil when no sampling is
// needed.
func SampleIndices(n int) []int {
	if n <= sampleCap {
		return nil
	}
	r := rand.New(rand.NewSource(sampleSeed))
	idx := r.Perm(n)[:sampleCap]
	sort.Ints(idx)
	return idx
}

// Layouts accepted when deciding whether a line chart's x axis is a date
// axis.
var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OrderForLine sorts an (x, y) series for line plotting. When at least half
// the x values parse as dates they sort chronologically and unparseable
// rows are dropped; failing that, the same rule applies with numbers;
// otherwise x sorts lexicographically with no drops.
func OrderForLine(x []string, y []float64) (*Series, error) {
	type pair struct {
		x   string
		y   float64
		t   time.Time
		num float64
	}

	dates := make([]pair, 0, len(x))
	for i := range x {
		if t, ok := parseDate(x[i]); ok {
			dates = append(dates, pair{x: x[i], y: y[i], t: t})
		}
	}
	nums := make([]pair, 0, len(x))
	for i := range x {
		if f, ok := parseNumber(x[i]); ok {
			nums = append(nums, pair{x: x[i], y: y[i], num: f})
		}
	}

	var ordered []pair
	switch {
	case 2*len(dates) >= len(x):
		ordered = dates
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].t.Before(ordered[j].t) })
	case 2*len(nums) >= len(x):
		ordered = nums
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].num < ordered[j].num })
	default:
		ordered = make([]pair, len(x))
		for i := range x {
			ordered[i] = pair{x: x[i], y: y[i]}
		}
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].x < ordered[j].x })
	}
	if len(ordered) < 2 {
		return nil, ErrInsufficientData
	}
	s := &Series{X: make([]string, len(ordered)), Y: make([]float64, len(ordered))}
	for i, p := range ordered {
		s.X[i] = p.x
		s.Y[i] = p.y
	}
	return s, nil
}

func thinTicks(n int) []int {
	if n == 0 {
		return nil
	}
	step := 1
	if n > maxAxisTicks {
		step = (n + maxAxisTicks - 1) / maxAxisTicks
	}
	var ticks []int
	for i := 0; i < n; i += step {
		ticks = append(ticks, i)
	}
	return ticks
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
