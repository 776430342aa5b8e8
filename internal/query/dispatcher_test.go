package query_test

import (
	"testing"

	"gridlens/domain/dataset"
	"gridlens/internal/query"
	"gridlens/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesDispatcher(t *testing.T) *query.Dispatcher {
	t.Helper()
	ds, err := testkit.SalesDataset()
	require.NoError(t, err)
	return query.New(ds)
}

func TestAnswerAverage(t *testing.T) {
	d := salesDispatcher(t)

	a := d.Answer("What is the average revenue?")
	assert.Equal(t, query.IntentAverage, a.Intent)
	assert.True(t, a.Matched)
	assert.Equal(t, []string{"revenue"}, a.Columns)
	require.NotNil(t, a.Value)
	assert.InDelta(t, 65.75, *a.Value, 1e-9)
	assert.Contains(t, a.Reply, "average")
}

func TestAnswerSum(t *testing.T) {
	a := salesDispatcher(t).Answer("total units sold")
	assert.Equal(t, query.IntentSum, a.Intent)
	require.NotNil(t, a.Value)
	assert.InDelta(t, 78, *a.Value, 1e-9)
}

func TestAnswerMinMax(t *testing.T) {
	d := salesDispatcher(t)

	lo := d.Answer("lowest revenue in the data")
	assert.Equal(t, query.IntentMinimum, lo.Intent)
	require.NotNil(t, lo.Value)
	assert.InDelta(t, 12, *lo.Value, 1e-9)

	hi := d.Answer("what is the highest revenue?")
	assert.Equal(t, query.IntentMaximum, hi.Intent)
	require.NotNil(t, hi.Value)
	assert.InDelta(t, 122, *hi.Value, 1e-9)
}

func TestAnswerTopN(t *testing.T) {
	a := salesDispatcher(t).Answer("show me the top 3 by revenue")
	assert.Equal(t, query.IntentTopN, a.Intent)
	require.Len(t, a.Entries, 3)
	assert.InDelta(t, 122, a.Entries[0].Value, 1e-9)
	assert.InDelta(t, 108, a.Entries[1].Value, 1e-9)
	assert.InDelta(t, 105, a.Entries[2].Value, 1e-9)
	assert.Equal(t, "North", a.Entries[0].Label, "ranked rows labeled by the first categorical column")
}

func TestAnswerTopNClampsToRowCount(t *testing.T) {
	a := salesDispatcher(t).Answer("top 50 by units")
	assert.Len(t, a.Entries, 12)
}

func TestAnswerCount(t *testing.T) {
	d := salesDispatcher(t)

	rows := d.Answer("how many rows are there?")
	assert.Equal(t, query.IntentCount, rows.Intent)
	require.NotNil(t, rows.Value)
	assert.InDelta(t, 12, *rows.Value, 1e-9)

	notes := d.Answer("how many note entries are filled in?")
	assert.Equal(t, []string{"note"}, notes.Columns)
	require.NotNil(t, notes.Value)
	assert.InDelta(t, 8, *notes.Value, 1e-9, "counts non-empty cells of the named column")
}

func TestAnswerMostCommon(t *testing.T) {
	a := salesDispatcher(t).Answer("most common region")
	assert.Equal(t, query.IntentMostCommon, a.Intent)
	assert.Equal(t, []string{"region"}, a.Columns)
	require.Len(t, a.Entries, 1)
	assert.Equal(t, "North", a.Entries[0].Label, "four-way tie broken by first appearance")
	assert.InDelta(t, 3, a.Entries[0].Value, 1e-9)
}

func TestAnswerCorrelation(t *testing.T) {
	a := salesDispatcher(t).Answer("is there a correlation between units and revenue?")
	assert.Equal(t, query.IntentCorrelation, a.Intent)
	assert.Equal(t, []string{"units", "revenue"}, a.Columns)
	require.NotNil(t, a.Value)
	assert.Greater(t, *a.Value, 0.95)
	assert.Contains(t, a.Reply, "positive")
}

func TestAnswerCorrelationWithoutColumnsPicksStrongestPair(t *testing.T) {
	a := salesDispatcher(t).Answer("what correlates in this data?")
	assert.Equal(t, query.IntentCorrelation, a.Intent)
	assert.ElementsMatch(t, []string{"units", "revenue"}, a.Columns)
}

func TestAnswerAggregateOnNonNumericColumn(t *testing.T) {
	a := salesDispatcher(t).Answer("average region")
	assert.Equal(t, query.IntentAverage, a.Intent)
	assert.True(t, a.Matched)
	assert.Nil(t, a.Value)
	assert.Contains(t, a.Reply, "not a numeric column")
}

func TestAnswerUnrecognizedQuestionReturnsHelp(t *testing.T) {
	a := salesDispatcher(t).Answer("tell me a joke")
	assert.Equal(t, query.IntentHelp, a.Intent)
	assert.False(t, a.Matched)
	assert.Contains(t, a.Reply, "average")
}

func TestAnswerLongestColumnNameWins(t *testing.T) {
	ds := &dataset.Dataset{
		Headers: []string{"price", "unit price"},
		Types: map[string]dataset.ColumnType{
			"price":      dataset.ColumnNumeric,
			"unit price": dataset.ColumnNumeric,
		},
		Records: []dataset.Record{
			{"price": "100", "unit price": "10"},
			{"price": "200", "unit price": "20"},
		},
	}

	a := query.New(ds).Answer("average unit price")
	assert.Equal(t, []string{"unit price"}, a.Columns)
	require.NotNil(t, a.Value)
	assert.InDelta(t, 15, *a.Value, 1e-9)
}
