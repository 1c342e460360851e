package engine_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/KaramelBytes/chartloom-cli/internal/engine"
)

func TestCleanExtremeOutlierRemove(t *testing.T) {
	// One value far beyond Q3 + 5*IQR; removing it keeps the other four.
	y := []string{"10", "20", "30", "40", "5000"}
	res, err := engine.Clean(y, engine.PolicyRemove, nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !res.Summary.Extreme() {
		t.Fatalf("expected extreme outlier test to trip, summary %+v", res.Summary)
	}
	if len(res.Values) != 4 {
		t.Fatalf("expected 4 rows after removal, got %d (%v)", len(res.Values), res.Values)
	}
	for _, v := range res.Values {
		if v == 5000 {
			t.Errorf("outlier 5000 survived removal")
		}
	}
	if res.Note != "1 outliers removed" {
		t.Errorf("note = %q", res.Note)
	}
}

func TestCleanTukeyFences(t *testing.T) {
	// 20 in-range values plus two clear outliers: the Tukey fences keep
	// exactly the in-range set (>= 10 rows, no percentile fallback).
	var y []string
	for i := 0; i < 20; i++ {
		y = append(y, fmt.Sprintf("%d", 100+i))
	}
	y = append(y, "100000", "-100000")
	res, err := engine.Clean(y, engine.PolicyRemove, nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(res.Values) != 20 {
		t.Fatalf("kept %d rows, want 20", len(res.Values))
	}
	lo := res.Summary.Q1 - 1.5*res.Summary.IQR
	hi := res.Summary.Q3 + 1.5*res.Summary.IQR
	for _, v := range res.Values {
		if v < lo || v > hi {
			t.Errorf("value %g outside fences [%g, %g]", v, lo, hi)
		}
	}
}

func TestCleanLogScaleFloorsNonPositives(t *testing.T) {
	y := []string{"0", "-5", "2", "8", "1000000"}
	res, err := engine.Clean(y, engine.PolicyLogScale, nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !res.LogScale {
		t.Fatalf("expected LogScale flag")
	}
	// Non-positive values become a tenth of the smallest positive (2).
	want := 0.2
	if res.Values[0] != want || res.Values[1] != want {
		t.Errorf("floored values = %v, want %g for rows 0 and 1", res.Values[:2], want)
	}
	for _, v := range res.Values {
		if v <= 0 {
			t.Errorf("value %g is not log-representable", v)
		}
	}
}

func TestCleanLogScaleUnavailable(t *testing.T) {
	// Max 0 sits far above the degenerate Q3 of -10, so the extreme test
	// trips, yet no value is positive to anchor the log floor on.
	y := []string{"0", "-10", "-10", "-10", "-10"}
	_, err := engine.Clean(y, engine.PolicyLogScale, nil)
	if !errors.Is(err, engine.ErrLogScaleUnavailable) {
		t.Fatalf("err = %v, want ErrLogScaleUnavailable", err)
	}
}

func TestCleanKeepLeavesData(t *testing.T) {
	y := []string{"10", "20", "30", "40", "5000"}
	res, err := engine.Clean(y, engine.PolicyKeep, nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(res.Values) != 5 || res.LogScale {
		t.Errorf("keep policy must not transform: %+v", res)
	}
}

func TestCleanDropsUnconvertibleRows(t *testing.T) {
	y := []string{"1", "x", "2", "", "3"}
	res, err := engine.Clean(y, "", nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(res.Values) != 3 {
		t.Fatalf("kept %d values, want 3", len(res.Values))
	}
	wantRows := []int{0, 2, 4}
	for i, r := range res.Rows {
		if r != wantRows[i] {
			t.Errorf("row index %d = %d, want %d", i, res.Rows[i], wantRows[i])
		}
	}
}

func TestCleanDropsNonFiniteRows(t *testing.T) {
	// NaN and Inf cells coerce like any other junk: the row is dropped,
	// never fed into quartiles or fences.
	res, err := engine.Clean([]string{"1", "NaN", "2", "Inf", "3"}, "", nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(res.Values) != 3 {
		t.Fatalf("kept %d values, want 3", len(res.Values))
	}
	for _, v := range res.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("non-finite value %g survived coercion", v)
		}
	}
}

func TestCleanNoNumericData(t *testing.T) {
	_, err := engine.Clean([]string{"a", "b", ""}, "", nil)
	if !errors.Is(err, engine.ErrNoNumericData) {
		t.Fatalf("err = %v, want ErrNoNumericData", err)
	}
}

func TestCleanSuspendsWithoutPolicy(t *testing.T) {
	y := []string{"10", "20", "30", "40", "5000"}
	_, err := engine.Clean(y, "", nil)
	var pre *engine.PolicyRequiredError
	if !errors.As(err, &pre) {
		t.Fatalf("err = %v, want PolicyRequiredError", err)
	}
	if pre.Summary.Max != 5000 {
		t.Errorf("summary max = %g, want 5000", pre.Summary.Max)
	}
}

func TestCleanAsksCallback(t *testing.T) {
	y := []string{"10", "20", "30", "40", "5000"}
	asked := false
	choose := func(s engine.OutlierSummary) (engine.OutlierPolicy, error) {
		asked = true
		if !s.Extreme() {
			t.Errorf("callback got non-extreme summary %+v", s)
		}
		return engine.PolicyRemove, nil
	}
	res, err := engine.Clean(y, "", choose)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !asked {
		t.Fatalf("callback never invoked")
	}
	if len(res.Values) != 4 || res.Policy != engine.PolicyRemove {
		t.Errorf("result = %+v", res)
	}
}

func TestCleanNoDecisionWithoutExtremes(t *testing.T) {
	choose := func(engine.OutlierSummary) (engine.OutlierPolicy, error) {
		t.Fatal("callback must not fire without extreme outliers")
		return "", nil
	}
	res, err := engine.Clean([]string{"1", "2", "3", "4", "5"}, "", choose)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if math.Abs(res.Summary.IQR-2) > 1e-9 {
		t.Errorf("IQR = %g, want 2", res.Summary.IQR)
	}
}
