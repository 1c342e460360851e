package engine_test

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/chartloom-cli/internal/engine"
)

func TestRecommend(t *testing.T) {
	cases := []struct {
		name string
		x, y engine.ColumnProfile
		want engine.Kind
	}{
		{
			name: "non-numeric y wins over everything",
			x:    engine.ColumnProfile{Name: "a", Numeric: true, Distinct: 3},
			y:    engine.ColumnProfile{Name: "b", Numeric: false, Distinct: 9},
			want: engine.KindBar,
		},
		{
			name: "seven distinct x suggests pie",
			x:    engine.ColumnProfile{Name: "a", Numeric: false, Distinct: 7},
			y:    engine.ColumnProfile{Name: "b", Numeric: true, Distinct: 40},
			want: engine.KindPie,
		},
		{
			name: "sixty distinct numeric x suggests scatter",
			x:    engine.ColumnProfile{Name: "a", Numeric: true, Distinct: 60},
			y:    engine.ColumnProfile{Name: "b", Numeric: true, Distinct: 60},
			want: engine.KindScatter,
		},
		{
			name: "sixty distinct categorical x suggests histogram",
			x:    engine.ColumnProfile{Name: "a", Numeric: false, Distinct: 60},
			y:    engine.ColumnProfile{Name: "b", Numeric: true, Distinct: 60},
			want: engine.KindHistogram,
		},
		{
			name: "mid-cardinality x suggests bar",
			x:    engine.ColumnProfile{Name: "a", Numeric: false, Distinct: 20},
			y:    engine.ColumnProfile{Name: "b", Numeric: true, Distinct: 20},
			want: engine.KindBar,
		},
		{
			name: "boundary: eight distinct is no longer pie",
			x:    engine.ColumnProfile{Name: "a", Numeric: true, Distinct: 8},
			y:    engine.ColumnProfile{Name: "b", Numeric: true, Distinct: 8},
			want: engine.KindBar,
		},
		{
			name: "boundary: fifty distinct is still bar",
			x:    engine.ColumnProfile{Name: "a", Numeric: true, Distinct: 50},
			y:    engine.ColumnProfile{Name: "b", Numeric: true, Distinct: 50},
			want: engine.KindBar,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Recommend(&tc.x, &tc.y)
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if got != tc.want {
				t.Errorf("Recommend = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRecommendMissingSelection(t *testing.T) {
	x := engine.ColumnProfile{Name: "a", Numeric: true, Distinct: 3}
	if _, err := engine.Recommend(&x, nil); !errors.Is(err, engine.ErrMissingSelection) {
		t.Errorf("nil y: err = %v, want ErrMissingSelection", err)
	}
	if _, err := engine.Recommend(nil, &x); !errors.Is(err, engine.ErrMissingSelection) {
		t.Errorf("nil x: err = %v, want ErrMissingSelection", err)
	}
}
