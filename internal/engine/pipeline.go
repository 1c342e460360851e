package engine

import (
	"fmt"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/google/uuid"
)

// Stage identifies where in a preparation run a failure happened.
type Stage string

const (
	StageValidating  Stage = "validating"
	StageCleaning    Stage = "cleaning"
	StageAggregating Stage = "aggregating"
)

// StageError wraps a pipeline failure with the stage that produced it. The
// pipeline is all-or-nothing: a StageError means no partial chart exists.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// GroupFunc is the blocking callback that picks a heatmap group column from
// the candidates when the spec left it open.
type GroupFunc func(candidates []string) (string, error)

// Preparer runs chart preparation requests. It holds no state between runs;
// rerunning with a different policy is a fresh invocation. The zero value
// is usable: without callbacks, decision points surface as errors the
// caller can answer by rerunning with a completed spec.
type Preparer struct {
	// ChoosePolicy answers the extreme-outlier decision synchronously.
	ChoosePolicy PolicyFunc
	// ChooseGroup answers the heatmap group-column decision.
	ChooseGroup GroupFunc
}

// Prepare turns a spec plus table into a PreparedChart, running
// Validating -> Cleaning -> Aggregating. The table is never mutated; all
// work happens on extracted copies, so concurrent runs over the same table
// need no locking.
func (p *Preparer) Prepare(t *dataset.Table, spec ChartSpec) (*PreparedChart, error) {
	x, y, group, notes, err := p.validate(t, spec)
	if err != nil {
		return nil, &StageError{Stage: StageValidating, Err: err}
	}
	chart := &PreparedChart{
		ID:          uuid.NewString(),
		Kind:        spec.Kind,
		XColumn:     spec.XColumn,
		YColumn:     spec.YColumn,
		GroupColumn: spec.GroupColumn,
		Notes:       notes,
	}
	if group != nil {
		chart.GroupColumn = group.Name
	}

	yProfile := Profile(spec.YColumn, y)
	if !yProfile.Numeric && spec.Kind != KindHeatmap {
		// Count fallback: no numeric y anywhere, chart occurrence counts
		// per x value instead.
		return p.aggregateCounts(chart, spec, x)
	}

	// Cleaning. Heatmap has no count fallback, so a wholly non-numeric y
	// fails here with ErrNoNumericData.
	cleaned, err := Clean(y, spec.Outliers, p.ChoosePolicy)
	if err != nil {
		return nil, &StageError{Stage: StageCleaning, Err: err}
	}
	if cleaned.Note != "" {
		chart.Notes = append(chart.Notes, cleaned.Note)
	}
	chart.LogScale = cleaned.LogScale

	xw := pick(x, cleaned.Rows)
	yw := cleaned.Values
	var gw []string
	if group != nil {
		gw = pick(group.Values, cleaned.Rows)
	}

	if spec.Kind == KindLine || spec.Kind == KindScatter {
		if len(yw) < 2 {
			return nil, &StageError{Stage: StageCleaning, Err: ErrInsufficientData}
		}
		if sample := SampleIndices(len(yw)); sample != nil {
			total := len(yw)
			xw = pick(xw, sample)
			yw = pickFloats(yw, sample)
			chart.Notes = append(chart.Notes, fmt.Sprintf("sampled %d of %d rows", len(sample), total))
		}
	}

	if err := p.aggregate(chart, spec, xw, yw, gw); err != nil {
		return nil, &StageError{Stage: StageAggregating, Err: err}
	}
	return chart, nil
}

// validate resolves and checks the column selections. For heatmaps it also
// resolves the group column: the explicit spec value, the ChooseGroup
// callback, or the first column that is neither x nor y.
func (p *Preparer) validate(t *dataset.Table, spec ChartSpec) (x, y []string, group *dataset.Column, notes []string, err error) {
	if _, err = ParseKind(string(spec.Kind)); err != nil {
		return nil, nil, nil, nil, err
	}
	if t == nil || t.NumCols() == 0 || spec.XColumn == "" || spec.YColumn == "" {
		return nil, nil, nil, nil, ErrMissingSelection
	}
	x, ok := t.Column(spec.XColumn)
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, spec.XColumn)
	}
	y, ok = t.Column(spec.YColumn)
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, spec.YColumn)
	}
	if spec.Kind != KindHeatmap {
		return x, y, nil, nil, nil
	}

	name := spec.GroupColumn
	if name != "" {
		if name == spec.XColumn || name == spec.YColumn {
			return nil, nil, nil, nil, fmt.Errorf("group column %q must differ from x and y", name)
		}
	} else {
		var candidates []string
		for _, c := range t.ColumnNames() {
			if c != spec.XColumn && c != spec.YColumn {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 0 {
			return nil, nil, nil, nil, ErrMissingGroupColumn
		}
		if p.ChooseGroup != nil {
			name, err = p.ChooseGroup(candidates)
			if err != nil {
				return nil, nil, nil, nil, fmt.Errorf("group column choice: %w", err)
			}
		} else {
			name = candidates[0]
		}
		notes = append(notes, fmt.Sprintf("grouping by %q", name))
	}
	gv, ok := t.Column(name)
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return x, y, &dataset.Column{Name: name, Values: gv}, notes, nil
}

// aggregateCounts is the non-numeric-y path: the series is occurrence
// counts per x category, then shaped per chart kind.
func (p *Preparer) aggregateCounts(chart *PreparedChart, spec ChartSpec, x []string) (*PreparedChart, error) {
	chart.Notes = append(chart.Notes,
		fmt.Sprintf("column %q has no numeric data, using occurrence counts per %q", spec.YColumn, spec.XColumn))
	series, note := CountByCategory(x)
	if note != "" {
		chart.Notes = append(chart.Notes, note)
	}
	if len(series.X) == 0 {
		return nil, &StageError{Stage: StageAggregating, Err: ErrInsufficientData}
	}
	chart.RowCount = len(series.X)
	switch spec.Kind {
	case KindPie:
		slices, notes := PieTotals(series.X, series.Y)
		chart.Notes = append(chart.Notes, notes...)
		chart.Series = slices
	case KindLine:
		ordered, err := OrderForLine(series.X, series.Y)
		if err != nil {
			return nil, &StageError{Stage: StageAggregating, Err: err}
		}
		chart.Series = ordered
		chart.RowCount = len(ordered.X)
	case KindHistogram:
		chart.Histogram = BuildHistogram(series.Y, false)
	default:
		chart.Series = series
	}
	return chart, nil
}

// aggregate dispatches the cleaned working columns to the kind-specific
// procedure.
func (p *Preparer) aggregate(chart *PreparedChart, spec ChartSpec, x []string, y []float64, group []string) error {
	chart.RowCount = len(y)
	switch spec.Kind {
	case KindLine:
		ordered, err := OrderForLine(x, y)
		if err != nil {
			return err
		}
		chart.Series = ordered
		chart.RowCount = len(ordered.X)
	case KindScatter:
		chart.Series = &Series{X: x, Y: y}
	case KindBar:
		if Profile(spec.XColumn, x).Distinct > maxCategories {
			series, note := BarMeans(x, y)
			chart.Notes = append(chart.Notes, note)
			chart.Series = series
		} else {
			chart.Series = &Series{X: x, Y: y}
		}
	case KindPie:
		slices, notes := PieTotals(x, y)
		chart.Notes = append(chart.Notes, notes...)
		if len(slices.X) == 0 {
			return ErrInsufficientData
		}
		chart.Series = slices
	case KindHistogram:
		chart.Histogram = BuildHistogram(y, chart.LogScale)
	case KindHeatmap:
		chart.Pivot = BuildPivot(x, group, y)
	}
	return nil
}

func pick(values []string, indices []int) []string {
	out := make([]string, len(indices))
	for k, i := range indices {
		out[k] = values[i]
	}
	return out
}

func pickFloats(values []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for k, i := range indices {
		out[k] = values[i]
	}
	return out
}
