package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the internal chart-kind vocabulary. Display naming and
// localization are the caller's concern; the engine speaks only these.
type Kind string

const (
	KindLine      Kind = "line"
	KindBar       Kind = "bar"
	KindScatter   Kind = "scatter"
	KindPie       Kind = "pie"
	KindHeatmap   Kind = "heatmap"
	KindHistogram Kind = "histogram"
)

// ParseKind validates a user-supplied chart kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLine, KindBar, KindScatter, KindPie, KindHeatmap, KindHistogram:
		return k, nil
	default:
		return "", fmt.Errorf("unknown chart kind %q (use line, bar, scatter, pie, heatmap or histogram)", s)
	}
}

// OutlierPolicy is the three-way remediation choice for extreme y values.
type OutlierPolicy string

const (
	PolicyKeep     OutlierPolicy = "keep"
	PolicyRemove   OutlierPolicy = "remove"
	PolicyLogScale OutlierPolicy = "log_scale"
)

// ParsePolicy validates a user-supplied outlier policy. The empty string is
// valid and means "not chosen yet".
func ParsePolicy(s string) (OutlierPolicy, error) {
	switch p := OutlierPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyKeep, PolicyRemove, PolicyLogScale:
		return p, nil
	case "log-scale", "log":
		return PolicyLogScale, nil
	default:
		return "", fmt.Errorf("unknown outlier policy %q (use keep, remove or log-scale)", s)
	}
}

// ChartSpec is the user-declared intent for one visualization. It is
// immutable for the duration of a preparation run.
type ChartSpec struct {
	Kind        Kind          `yaml:"kind" json:"kind"`
	XColumn     string        `yaml:"x" json:"x"`
	YColumn     string        `yaml:"y" json:"y"`
	GroupColumn string        `yaml:"group,omitempty" json:"group,omitempty"`
	Outliers    OutlierPolicy `yaml:"outliers,omitempty" json:"outliers,omitempty"`
}

// ColumnProfile is the classifier's summary of one column.
type ColumnProfile struct {
	Name     string `json:"name"`
	Numeric  bool   `json:"numeric"`
	Distinct int    `json:"distinct"`
}

// Series is an aligned (x, y) value pair sequence ready for plotting.
type Series struct {
	X []string  `json:"x"`
	Y []float64 `json:"y"`
}

// Histogram transform markers. Labels are reported in original units via
// Label regardless of the axis the bins were computed on.
const (
	TransformNone  = ""
	TransformLog10 = "log10"
	TransformShift = "shift"
)

// Histogram holds bin edges and per-bin counts. Edges has len(Counts)+1
// entries and lives on the transformed axis when Transform is set.
type Histogram struct {
	Edges     []float64 `json:"edges"`
	Counts    []int     `json:"counts"`
	Transform string    `json:"transform,omitempty"`
	Shift     float64   `json:"shift,omitempty"`
}

// Label renders bin i's range in original data units.
func (h *Histogram) Label(i int) string {
	lo, hi := h.inverse(h.Edges[i]), h.inverse(h.Edges[i+1])
	return fmt.Sprintf("%s – %s", formatTick(lo), formatTick(hi))
}

func (h *Histogram) inverse(edge float64) float64 {
	switch h.Transform {
	case TransformLog10:
		return math.Pow(10, edge)
	case TransformShift:
		return edge - h.Shift
	default:
		return edge
	}
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Pivot is a heatmap matrix: rows are distinct x values, columns distinct
// group values, cells the mean y per pair (0 where a pair never occurs).
// RowTicks/ColTicks are the label positions to draw; the matrix itself is
// never thinned.
type Pivot struct {
	RowLabels []string    `json:"row_labels"`
	ColLabels []string    `json:"col_labels"`
	Cells     [][]float64 `json:"cells"`
	RowTicks  []int       `json:"row_ticks"`
	ColTicks  []int       `json:"col_ticks"`
}

// PreparedChart is the pipeline output handed to a renderer. Exactly one of
// Series, Histogram and Pivot is set, depending on Kind.
type PreparedChart struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	XColumn     string     `json:"x_column"`
	YColumn     string     `json:"y_column"`
	GroupColumn string     `json:"group_column,omitempty"`
	Series      *Series    `json:"series,omitempty"`
	Histogram   *Histogram `json:"histogram,omitempty"`
	Pivot       *Pivot     `json:"pivot,omitempty"`
	RowCount    int        `json:"row_count"`
	LogScale    bool       `json:"used_log_scale"`
	Notes       []string   `json:"notes,omitempty"`
}
