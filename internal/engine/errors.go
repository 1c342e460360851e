package engine

import (
	"errors"
	"fmt"
)

// Fatal preparation errors. Each aborts the current run before any partial
// chart is built; the caller re-selects columns or policy and runs again.
var (
	// ErrMissingSelection: the x or y column was never chosen.
	ErrMissingSelection = errors.New("no x/y column selected")
	// ErrUnknownColumn: a chosen column is not in the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoNumericData: every row of the y column failed numeric coercion
	// on a chart kind that needs numbers.
	ErrNoNumericData = errors.New("no numeric data in column")
	// ErrInsufficientData: cleaning or ordering left fewer than two rows.
	ErrInsufficientData = errors.New("not enough data points")
	// ErrMissingGroupColumn: a heatmap needs a group column and none could
	// be resolved.
	ErrMissingGroupColumn = errors.New("heatmap needs a group column")
	// ErrLogScaleUnavailable: the log-scale policy was chosen but the
	// column has no positive value to anchor the floor on.
	ErrLogScaleUnavailable = errors.New("log scale needs at least one positive value")
)

// OutlierSummary describes the quartile situation that triggered the
// extreme-value decision point.
type OutlierSummary struct {
	Rows int     `json:"rows"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Q1   float64 `json:"q1"`
	Q3   float64 `json:"q3"`
	IQR  float64 `json:"iqr"`
}

// Extreme reports whether the column trips the extreme-outlier test.
func (s OutlierSummary) Extreme() bool {
	return s.Max > s.Q3+extremeFactor*s.IQR
}

// PolicyRequiredError suspends a preparation run that hit extreme outliers
// with no policy chosen and no decision callback installed. The caller
// inspects the summary, picks a policy, and runs the pipeline again.
type PolicyRequiredError struct {
	Summary OutlierSummary
}

func (e *PolicyRequiredError) Error() string {
	return fmt.Sprintf("extreme outliers detected (max %g beyond Q3 %g + 5*IQR %g): choose keep, remove or log-scale and rerun",
		e.Summary.Max, e.Summary.Q3, e.Summary.IQR)
}
