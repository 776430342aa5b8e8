package profile

import (
	"math"
	"sort"

	"gridlens/domain/dataset"
	"gridlens/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Correlation is the Pearson correlation of two numeric columns over
// the rows where both cells parse as numbers.
type Correlation struct {
	X        string  `json:"x"`
	Y        string  `json:"y"`
	R        float64 `json:"r"`
	PValue   float64 `json:"pValue"`
	N        int     `json:"n"`
	Strength string  `json:"strength"`
}

// Correlations computes every numeric column pair, sorted by |r|
// descending. Pairs with fewer than three aligned rows or degenerate
// variance are skipped.
func Correlations(ds *dataset.Dataset) []Correlation {
	numeric := ds.NumericColumns()
	if len(numeric) < 2 {
		return nil
	}

	var results []Correlation
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			c, err := Correlate(ds, numeric[i], numeric[j])
			if err != nil {
				continue
			}
			results = append(results, *c)
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return math.Abs(results[a].R) > math.Abs(results[b].R)
	})
	return results
}

// Correlate computes the Pearson correlation between two columns,
// pairing values row by row and dropping rows where either side is
// missing or non-numeric.
func Correlate(ds *dataset.Dataset, x, y string) (*Correlation, error) {
	xs, ys := alignedNumeric(ds, x, y)
	if len(xs) < 3 {
		return nil, errors.InvalidInput("not enough paired numeric values to correlate")
	}

	r, err := stats.Pearson(xs, ys)
	if err != nil || math.IsNaN(r) {
		return nil, errors.InvalidInput("correlation is undefined for constant columns")
	}

	return &Correlation{
		X:        x,
		Y:        y,
		R:        r,
		PValue:   pearsonPValue(r, len(xs)),
		N:        len(xs),
		Strength: strengthLabel(r),
	}, nil
}

// alignedNumeric pairs the two columns row by row, keeping only rows
// where both cells parse.
func alignedNumeric(ds *dataset.Dataset, x, y string) ([]float64, []float64) {
	xs := make([]float64, 0, ds.RowCount())
	ys := make([]float64, 0, ds.RowCount())
	for _, rec := range ds.Records {
		xv, okX := dataset.ParseNumber(rec[x])
		yv, okY := dataset.ParseNumber(rec[y])
		if okX && okY {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}

// pearsonPValue is the two-sided p-value of r under the null of no
// correlation, via the t transform with n-2 degrees of freedom.
func pearsonPValue(r float64, n int) float64 {
	if n < 3 {
		return 1.0
	}
	denom := 1 - r*r
	if denom <= 0 {
		return 0.0
	}
	t := r * math.Sqrt(float64(n-2)/denom)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * (1 - tDist.CDF(math.Abs(t)))
	if p > 1 {
		p = 1
	}
	return p
}

func strengthLabel(r float64) string {
	switch abs := math.Abs(r); {
	case abs >= 0.7:
		return "strong"
	case abs >= 0.4:
		return "moderate"
	default:
		return "weak"
	}
}
