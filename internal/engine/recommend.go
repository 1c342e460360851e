package engine

// Distinct-count thresholds for the recommendation policy.
const (
	pieMaxDistinct     = 7
	scatterMinDistinct = 50
)

// Recommend suggests a chart kind for an (x, y) column pair. The policy is
// evaluated strictly in order and is deterministic given the two profiles:
//
//  1. y not numeric            -> bar (count-based)
//  2. x has <= 7 distinct      -> pie
//  3. x has > 50 distinct      -> scatter when x is numeric, else histogram
//  4. otherwise (8-50 distinct) -> bar
func Recommend(x, y *ColumnProfile) (Kind, error) {
	if x == nil || y == nil || x.Name == "" || y.Name == "" {
		return "", ErrMissingSelection
	}
	switch {
	case !y.Numeric:
		return KindBar, nil
	case x.Distinct <= pieMaxDistinct:
		return KindPie, nil
	case x.Distinct > scatterMinDistinct:
		if x.Numeric {
			return KindScatter, nil
		}
		return KindHistogram, nil
	default:
		return KindBar, nil
	}
}
