package chart

import (
	"fmt"
	"math"

	"gridlens/domain/dataset"
	"gridlens/internal/profile"
)

// Config defines how to render one chart. The shape is render-ready:
// a charting frontend consumes it without further aggregation.
type Config struct {
	ChartType  string   `json:"chartType"` // "bar", "histogram", "scatter"
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Series     []Series `json:"series"`
	ShowLegend bool     `json:"showLegend"`
}

// Series is one data series in a chart.
type Series struct {
	Name string  `json:"name"`
	Data []Point `json:"data"`
}

// Point is a single labeled value. Scatter charts carry the x
// coordinate in X and the y coordinate in Value.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Value float64 `json:"value"`
}

const (
	maxBarSlices = 10
	minBins      = 4
	maxBins      = 12
)

// Build recomputes every chart for a dataset: a frequency bar chart
// per categorical column, a histogram per numeric column, and a
// scatter of the most correlated numeric pair.
func Build(ds *dataset.Dataset, prof *profile.DatasetProfile) []Config {
	var configs []Config

	for _, col := range ds.ColumnsOfType(dataset.ColumnCategorical) {
		if c := barChart(ds, col); c != nil {
			configs = append(configs, *c)
		}
	}
	for _, col := range ds.NumericColumns() {
		if c := histogram(ds, col); c != nil {
			configs = append(configs, *c)
		}
	}
	if prof != nil && prof.Summary.StrongestPair != nil {
		if c := scatter(ds, prof.Summary.StrongestPair); c != nil {
			configs = append(configs, *c)
		}
	}
	return configs
}

// barChart aggregates value frequencies for one categorical column,
// keeping the top slices and folding the rest into "Other".
func barChart(ds *dataset.Dataset, column string) *Config {
	freq := profile.Frequencies(ds.Column(column), 0)
	if len(freq) == 0 {
		return nil
	}

	points := make([]Point, 0, maxBarSlices+1)
	other := 0
	for i, vc := range freq {
		if i < maxBarSlices {
			points = append(points, Point{Label: vc.Value, Value: float64(vc.Count)})
			continue
		}
		other += vc.Count
	}
	if other > 0 {
		points = append(points, Point{Label: "Other", Value: float64(other)})
	}

	return &Config{
		ChartType: "bar",
		Title:     fmt.Sprintf("%s by count", column),
		XAxis:     column,
		YAxis:     "count",
		Series:    []Series{{Name: column, Data: points}},
	}
}

// histogram bins one numeric column into equal-width buckets, with the
// bin count from Sturges' rule clamped to a sane range.
func histogram(ds *dataset.Dataset, column string) *Config {
	values := ds.Numeric(column)
	if len(values) < 2 {
		return nil
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == maxVal {
		return &Config{
			ChartType: "histogram",
			Title:     fmt.Sprintf("Distribution of %s", column),
			XAxis:     column,
			YAxis:     "count",
			Series: []Series{{Name: column, Data: []Point{
				{Label: formatBound(minVal), Value: float64(len(values))},
			}}},
		}
	}

	bins := int(math.Ceil(1 + math.Log2(float64(len(values)))))
	if bins < minBins {
		bins = minBins
	}
	if bins > maxBins {
		bins = maxBins
	}

	width := (maxVal - minVal) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		idx := int((v - minVal) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	points := make([]Point, bins)
	for i, c := range counts {
		lo := minVal + float64(i)*width
		hi := lo + width
		points[i] = Point{
			Label: fmt.Sprintf("%s to %s", formatBound(lo), formatBound(hi)),
			Value: float64(c),
		}
	}

	return &Config{
		ChartType: "histogram",
		Title:     fmt.Sprintf("Distribution of %s", column),
		XAxis:     column,
		YAxis:     "count",
		Series:    []Series{{Name: column, Data: points}},
	}
}

// scatter pairs the two most correlated numeric columns row by row.
func scatter(ds *dataset.Dataset, pair *profile.Correlation) *Config {
	points := make([]Point, 0, ds.RowCount())
	for _, rec := range ds.Records {
		x, okX := dataset.ParseNumber(rec[pair.X])
		y, okY := dataset.ParseNumber(rec[pair.Y])
		if okX && okY {
			points = append(points, Point{X: x, Value: y})
		}
	}
	if len(points) == 0 {
		return nil
	}

	return &Config{
		ChartType: "scatter",
		Title:     fmt.Sprintf("%s vs %s (r=%.2f)", pair.X, pair.Y, pair.R),
		XAxis:     pair.X,
		YAxis:     pair.Y,
		Series:    []Series{{Name: fmt.Sprintf("%s / %s", pair.X, pair.Y), Data: points}},
	}
}

func formatBound(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
