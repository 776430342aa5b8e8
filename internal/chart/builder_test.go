package chart_test

import (
	"testing"

	"gridlens/internal/chart"
	"gridlens/internal/profile"
	"gridlens/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProducesAllChartKinds(t *testing.T) {
	ds, err := testkit.SalesDataset()
	require.NoError(t, err)
	prof, err := profile.Profile(ds)
	require.NoError(t, err)

	configs := chart.Build(ds, prof)
	require.Len(t, configs, 5, "two bars, two histograms, one scatter")

	kinds := make(map[string]int)
	for _, c := range configs {
		kinds[c.ChartType]++
	}
	assert.Equal(t, 2, kinds["bar"])
	assert.Equal(t, 2, kinds["histogram"])
	assert.Equal(t, 1, kinds["scatter"])
}

func TestBarChartCounts(t *testing.T) {
	ds, err := testkit.SalesDataset()
	require.NoError(t, err)

	configs := chart.Build(ds, nil)
	var regionBar *chart.Config
	for i := range configs {
		if configs[i].ChartType == "bar" && configs[i].XAxis == "region" {
			regionBar = &configs[i]
		}
	}
	require.NotNil(t, regionBar)

	require.Len(t, regionBar.Series, 1)
	points := regionBar.Series[0].Data
	require.Len(t, points, 4)

	total := 0.0
	for _, p := range points {
		total += p.Value
	}
	assert.InDelta(t, 12, total, 1e-9, "bar slices cover every non-empty cell")
	assert.Equal(t, "North", points[0].Label)
}

func TestHistogramCoversAllValues(t *testing.T) {
	ds, err := testkit.SalesDataset()
	require.NoError(t, err)

	configs := chart.Build(ds, nil)
	var hist *chart.Config
	for i := range configs {
		if configs[i].ChartType == "histogram" && configs[i].XAxis == "units" {
			hist = &configs[i]
		}
	}
	require.NotNil(t, hist)

	total := 0.0
	for _, p := range hist.Series[0].Data {
		total += p.Value
	}
	assert.InDelta(t, 12, total, 1e-9, "every value lands in exactly one bin")
	assert.GreaterOrEqual(t, len(hist.Series[0].Data), 4)
	assert.LessOrEqual(t, len(hist.Series[0].Data), 12)
}

func TestScatterPairsRows(t *testing.T) {
	ds, err := testkit.SalesDataset()
	require.NoError(t, err)
	prof, err := profile.Profile(ds)
	require.NoError(t, err)

	configs := chart.Build(ds, prof)
	var scatter *chart.Config
	for i := range configs {
		if configs[i].ChartType == "scatter" {
			scatter = &configs[i]
		}
	}
	require.NotNil(t, scatter)
	require.Len(t, scatter.Series, 1)
	assert.Len(t, scatter.Series[0].Data, 12)
}
