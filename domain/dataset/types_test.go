package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 3.14 ", 3.14, true},
		{"-7", -7, true},
		{"1,234.5", 1234.5, true},
		{"$99", 99, true},
		{"85%", 85, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12 units", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
		}
	}
}

func testDataset() *Dataset {
	return &Dataset{
		Headers: []string{"name", "score", "tier"},
		Types: map[string]ColumnType{
			"name":  ColumnText,
			"score": ColumnNumeric,
			"tier":  ColumnCategorical,
		},
		Records: []Record{
			{"name": "alpha", "score": "10", "tier": "a"},
			{"name": "beta", "score": "", "tier": "b"},
			{"name": "gamma", "score": "n/a", "tier": "a"},
			{"name": "delta", "score": "30", "tier": "b"},
		},
	}
}

func TestColumnKeepsRowAlignment(t *testing.T) {
	ds := testDataset()
	assert.Equal(t, []string{"10", "", "n/a", "30"}, ds.Column("score"))
}

func TestNumericSkipsUnparseable(t *testing.T) {
	ds := testDataset()
	assert.Equal(t, []float64{10, 30}, ds.Numeric("score"))
}

func TestColumnsOfType(t *testing.T) {
	ds := testDataset()
	assert.Equal(t, []string{"score"}, ds.NumericColumns())
	assert.Equal(t, []string{"tier"}, ds.ColumnsOfType(ColumnCategorical))
}

func TestTypeOfUnknownColumnIsText(t *testing.T) {
	ds := testDataset()
	assert.Equal(t, ColumnText, ds.TypeOf("missing"))
	assert.False(t, ds.HasColumn("missing"))
}
