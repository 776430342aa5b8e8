package profile

import (
	"sort"

	"gridlens/domain/dataset"
	"gridlens/internal/errors"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// ColumnProfile holds the derived statistics for one column.
type ColumnProfile struct {
	Name     string             `json:"name"`
	Type     dataset.ColumnType `json:"type"`
	Count    int                `json:"count"`
	Missing  int                `json:"missing"`
	Distinct int                `json:"distinct"`

	// Numeric is set only for numeric columns.
	Numeric *NumericSummary `json:"numeric,omitempty"`

	// TopValues and the mode are set for categorical and text columns.
	TopValues []ValueCount `json:"topValues,omitempty"`
	Mode      string       `json:"mode,omitempty"`
	ModeCount int          `json:"modeCount,omitempty"`
}

// NumericSummary holds descriptive statistics of a numeric column.
type NumericSummary struct {
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	StdDev     float64 `json:"stdDev"`
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	Sum        float64 `json:"sum"`
	IsNormal   bool    `json:"isNormal"`
	NormalityP float64 `json:"normalityP"`
}

// ValueCount is one entry of a value frequency table.
type ValueCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SummaryCards are the headline numbers shown above the detail views.
type SummaryCards struct {
	Rows               int          `json:"rows"`
	Columns            int          `json:"columns"`
	NumericColumns     int          `json:"numericColumns"`
	CategoricalColumns int          `json:"categoricalColumns"`
	TextColumns        int          `json:"textColumns"`
	MissingCells       int          `json:"missingCells"`
	StrongestPair      *Correlation `json:"strongestPair,omitempty"`
}

// DatasetProfile is the complete derived view of one dataset.
type DatasetProfile struct {
	Columns      []ColumnProfile `json:"columns"`
	Correlations []Correlation   `json:"correlations"`
	Summary      SummaryCards    `json:"summary"`
}

// Column returns the profile of a named column, or nil.
func (p *DatasetProfile) Column(name string) *ColumnProfile {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i]
		}
	}
	return nil
}

// Profile recomputes the full derived view of a dataset: one profile
// per column (computed concurrently), all numeric pairwise
// correlations, and the summary cards. The dataset is never mutated.
func Profile(ds *dataset.Dataset) (*DatasetProfile, error) {
	if ds == nil || ds.RowCount() == 0 {
		return nil, errors.EmptyDataset("cannot profile an empty dataset")
	}

	columns := make([]ColumnProfile, len(ds.Headers))
	var g errgroup.Group
	for i, header := range ds.Headers {
		i, header := i, header
		g.Go(func() error {
			columns[i] = profileColumn(ds, header)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	correlations := Correlations(ds)

	summary := SummaryCards{
		Rows:    ds.RowCount(),
		Columns: ds.ColumnCount(),
	}
	for i := range columns {
		summary.MissingCells += columns[i].Missing
		switch columns[i].Type {
		case dataset.ColumnNumeric:
			summary.NumericColumns++
		case dataset.ColumnCategorical:
			summary.CategoricalColumns++
		default:
			summary.TextColumns++
		}
	}
	if len(correlations) > 0 {
		summary.StrongestPair = &correlations[0]
	}

	return &DatasetProfile{
		Columns:      columns,
		Correlations: correlations,
		Summary:      summary,
	}, nil
}

func profileColumn(ds *dataset.Dataset, header string) ColumnProfile {
	raw := ds.Column(header)

	p := ColumnProfile{
		Name: header,
		Type: ds.TypeOf(header),
	}

	distinct := make(map[string]struct{})
	for _, v := range raw {
		if v == "" {
			p.Missing++
			continue
		}
		p.Count++
		distinct[v] = struct{}{}
	}
	p.Distinct = len(distinct)

	if p.Type == dataset.ColumnNumeric {
		if summary := summarizeNumeric(ds.Numeric(header)); summary != nil {
			p.Numeric = summary
		}
		return p
	}

	p.TopValues = Frequencies(raw, 10)
	if len(p.TopValues) > 0 {
		p.Mode = p.TopValues[0].Value
		p.ModeCount = p.TopValues[0].Count
	}
	return p
}

func summarizeNumeric(values []float64) *NumericSummary {
	if len(values) == 0 {
		return nil
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	minVal, _ := stats.Min(values)
	maxVal, _ := stats.Max(values)
	stdDev, _ := stats.StandardDeviation(values)
	q1, _ := stats.Percentile(values, 25)
	q3, _ := stats.Percentile(values, 75)
	sum, _ := stats.Sum(values)
	isNormal, normalityP := testNormality(values, mean, stdDev)

	return &NumericSummary{
		Mean:       mean,
		Median:     median,
		Min:        minVal,
		Max:        maxVal,
		StdDev:     stdDev,
		Q1:         q1,
		Q3:         q3,
		Sum:        sum,
		IsNormal:   isNormal,
		NormalityP: normalityP,
	}
}

// Frequencies builds a value frequency table over raw cells, skipping
// missing values. Ties keep first-appearance order; at most limit
// entries are returned (0 means all).
func Frequencies(raw []string, limit int) []ValueCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	total := 0
	for _, v := range raw {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return nil
	}

	firstSeen := make(map[string]int, len(order))
	for i, v := range order {
		firstSeen[v] = i
	}

	entries := make([]ValueCount, 0, len(order))
	for _, v := range order {
		entries = append(entries, ValueCount{
			Value:   v,
			Count:   counts[v],
			Percent: 100 * float64(counts[v]) / float64(total),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return firstSeen[entries[i].Value] < firstSeen[entries[j].Value]
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
