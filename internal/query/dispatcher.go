package query

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gridlens/domain/dataset"
	"gridlens/internal/profile"

	"github.com/montanaflynn/stats"
)

// Intent names the canned computation selected for a question.
type Intent string

const (
	IntentAverage     Intent = "average"
	IntentSum         Intent = "sum"
	IntentMinimum     Intent = "minimum"
	IntentMaximum     Intent = "maximum"
	IntentTopN        Intent = "top_n"
	IntentCorrelation Intent = "correlation"
	IntentCount       Intent = "count"
	IntentMostCommon  Intent = "most_common"
	IntentHelp        Intent = "help"
)

// Entry is one labeled value in a ranked answer.
type Entry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Answer is the dispatcher's render-ready response to one question.
type Answer struct {
	Intent  Intent   `json:"intent"`
	Columns []string `json:"columns,omitempty"`
	Value   *float64 `json:"value,omitempty"`
	Entries []Entry  `json:"entries,omitempty"`
	Reply   string   `json:"reply"`
	Matched bool     `json:"matched"`
}

// Dispatcher answers questions about one dataset by keyword matching.
// There is no grammar and no model behind it: substring checks pick an
// intent, column names mentioned in the question pick the inputs, and
// the answer is a fresh aggregate over the in-memory records.
type Dispatcher struct {
	ds *dataset.Dataset
}

// New creates a dispatcher over a dataset.
func New(ds *dataset.Dataset) *Dispatcher {
	return &Dispatcher{ds: ds}
}

var topNPattern = regexp.MustCompile(`\d+`)

// intent keyword tables, checked in order. Earlier rows win so that
// "most common" is never mistaken for a maximum and "top 5" never for
// plain text search.
var intentKeywords = []struct {
	intent Intent
	words  []string
}{
	{IntentCorrelation, []string{"correlat", "relationship", "related to", "versus", " vs "}},
	{IntentMostCommon, []string{"most common", "most frequent", "most popular", "mode of"}},
	{IntentTopN, []string{"top ", "best ", "highest ranking"}},
	{IntentCount, []string{"how many", "count", "number of"}},
	{IntentAverage, []string{"average", "mean", "avg"}},
	{IntentSum, []string{"sum", "total"}},
	{IntentMinimum, []string{"minimum", "min ", "lowest", "smallest", "least"}},
	{IntentMaximum, []string{"maximum", "max ", "highest", "largest", "biggest"}},
}

// Answer dispatches one question. Unrecognized questions get a help
// answer rather than an error.
func (d *Dispatcher) Answer(question string) *Answer {
	q := " " + strings.ToLower(strings.TrimSpace(question)) + " "

	for _, row := range intentKeywords {
		for _, w := range row.words {
			if strings.Contains(q, w) {
				return d.answerIntent(row.intent, q)
			}
		}
	}
	return d.helpAnswer()
}

func (d *Dispatcher) answerIntent(intent Intent, q string) *Answer {
	switch intent {
	case IntentCorrelation:
		return d.answerCorrelation(q)
	case IntentMostCommon:
		return d.answerMostCommon(q)
	case IntentTopN:
		return d.answerTopN(q)
	case IntentCount:
		return d.answerCount(q)
	default:
		return d.answerAggregate(intent, q)
	}
}

// matchColumns finds column names mentioned in the question, longest
// names first so "unit price" beats "price".
func (d *Dispatcher) matchColumns(q string, limit int) []string {
	headers := append([]string(nil), d.ds.Headers...)
	sort.SliceStable(headers, func(i, j int) bool {
		return len(headers[i]) > len(headers[j])
	})

	var matched []string
	for _, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		if strings.Contains(q, name) {
			matched = append(matched, h)
			if limit > 0 && len(matched) == limit {
				break
			}
		}
	}
	return matched
}

func (d *Dispatcher) matchNumericColumn(q string) string {
	for _, h := range d.matchColumns(q, 0) {
		if d.ds.TypeOf(h) == dataset.ColumnNumeric {
			return h
		}
	}
	return ""
}

func (d *Dispatcher) answerAggregate(intent Intent, q string) *Answer {
	column := d.matchNumericColumn(q)
	if column == "" {
		if cols := d.matchColumns(q, 1); len(cols) > 0 {
			return &Answer{
				Intent:  intent,
				Columns: cols,
				Matched: true,
				Reply:   fmt.Sprintf("%q is not a numeric column, so I can't compute its %s. Numeric columns: %s.", cols[0], intent, joinOrNone(d.ds.NumericColumns())),
			}
		}
		return &Answer{
			Intent:  intent,
			Matched: true,
			Reply:   fmt.Sprintf("Mention a numeric column to compute a %s. Numeric columns: %s.", intent, joinOrNone(d.ds.NumericColumns())),
		}
	}

	values := d.ds.Numeric(column)
	if len(values) == 0 {
		return &Answer{
			Intent:  intent,
			Columns: []string{column},
			Matched: true,
			Reply:   fmt.Sprintf("%q has no numeric values to aggregate.", column),
		}
	}

	var v float64
	var verb string
	switch intent {
	case IntentAverage:
		v, _ = stats.Mean(values)
		verb = "average"
	case IntentSum:
		v, _ = stats.Sum(values)
		verb = "total"
	case IntentMinimum:
		v, _ = stats.Min(values)
		verb = "minimum"
	case IntentMaximum:
		v, _ = stats.Max(values)
		verb = "maximum"
	}

	return &Answer{
		Intent:  intent,
		Columns: []string{column},
		Value:   &v,
		Matched: true,
		Reply:   fmt.Sprintf("The %s of %q is %s across %d values.", verb, column, formatNumber(v), len(values)),
	}
}

func (d *Dispatcher) answerCount(q string) *Answer {
	if cols := d.matchColumns(q, 1); len(cols) > 0 {
		column := cols[0]
		nonEmpty := 0
		for _, v := range d.ds.Column(column) {
			if v != "" {
				nonEmpty++
			}
		}
		v := float64(nonEmpty)
		return &Answer{
			Intent:  IntentCount,
			Columns: []string{column},
			Value:   &v,
			Matched: true,
			Reply:   fmt.Sprintf("%q has %d non-empty values across %d rows.", column, nonEmpty, d.ds.RowCount()),
		}
	}

	v := float64(d.ds.RowCount())
	return &Answer{
		Intent:  IntentCount,
		Value:   &v,
		Matched: true,
		Reply:   fmt.Sprintf("The dataset has %d rows and %d columns.", d.ds.RowCount(), d.ds.ColumnCount()),
	}
}

func (d *Dispatcher) answerMostCommon(q string) *Answer {
	column := ""
	if cols := d.matchColumns(q, 1); len(cols) > 0 {
		column = cols[0]
	} else if cats := d.ds.ColumnsOfType(dataset.ColumnCategorical); len(cats) > 0 {
		column = cats[0]
	} else if texts := d.ds.ColumnsOfType(dataset.ColumnText); len(texts) > 0 {
		column = texts[0]
	}
	if column == "" {
		return &Answer{
			Intent:  IntentMostCommon,
			Matched: true,
			Reply:   "There is no categorical or text column to find a most common value in.",
		}
	}

	freq := profile.Frequencies(d.ds.Column(column), 1)
	if len(freq) == 0 {
		return &Answer{
			Intent:  IntentMostCommon,
			Columns: []string{column},
			Matched: true,
			Reply:   fmt.Sprintf("%q has no values.", column),
		}
	}

	top := freq[0]
	v := float64(top.Count)
	return &Answer{
		Intent:  IntentMostCommon,
		Columns: []string{column},
		Value:   &v,
		Entries: []Entry{{Label: top.Value, Value: float64(top.Count)}},
		Matched: true,
		Reply:   fmt.Sprintf("The most common value in %q is %q, appearing %d times (%.1f%%).", column, top.Value, top.Count, top.Percent),
	}
}

func (d *Dispatcher) answerTopN(q string) *Answer {
	n := 5
	if m := topNPattern.FindString(q); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed > 0 {
			n = parsed
		}
	}
	if n > d.ds.RowCount() {
		n = d.ds.RowCount()
	}

	valueColumn := d.matchNumericColumn(q)
	if valueColumn == "" {
		if numeric := d.ds.NumericColumns(); len(numeric) > 0 {
			valueColumn = numeric[0]
		}
	}
	if valueColumn == "" {
		return &Answer{
			Intent:  IntentTopN,
			Matched: true,
			Reply:   "Ranking needs a numeric column, and this dataset has none.",
		}
	}

	labelColumn := d.labelColumn(valueColumn)

	type ranked struct {
		label string
		value float64
	}
	rows := make([]ranked, 0, d.ds.RowCount())
	for i, rec := range d.ds.Records {
		v, ok := dataset.ParseNumber(rec[valueColumn])
		if !ok {
			continue
		}
		label := rec[labelColumn]
		if labelColumn == "" || label == "" {
			label = fmt.Sprintf("row %d", i+1)
		}
		rows = append(rows, ranked{label: label, value: v})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].value > rows[j].value })
	if len(rows) > n {
		rows = rows[:n]
	}

	entries := make([]Entry, len(rows))
	parts := make([]string, len(rows))
	for i, r := range rows {
		entries[i] = Entry{Label: r.label, Value: r.value}
		parts[i] = fmt.Sprintf("%s (%s)", r.label, formatNumber(r.value))
	}

	columns := []string{valueColumn}
	if labelColumn != "" {
		columns = append(columns, labelColumn)
	}
	return &Answer{
		Intent:  IntentTopN,
		Columns: columns,
		Entries: entries,
		Matched: true,
		Reply:   fmt.Sprintf("Top %d by %q: %s.", len(entries), valueColumn, strings.Join(parts, ", ")),
	}
}

// labelColumn picks the column used to name ranked rows: the first
// categorical column, then the first text column, skipping the value
// column itself.
func (d *Dispatcher) labelColumn(valueColumn string) string {
	for _, t := range []dataset.ColumnType{dataset.ColumnCategorical, dataset.ColumnText} {
		for _, h := range d.ds.ColumnsOfType(t) {
			if h != valueColumn {
				return h
			}
		}
	}
	return ""
}

func (d *Dispatcher) answerCorrelation(q string) *Answer {
	var numericMatches []string
	for _, h := range d.matchColumns(q, 0) {
		if d.ds.TypeOf(h) == dataset.ColumnNumeric {
			numericMatches = append(numericMatches, h)
		}
	}
	// Report the pair in the order the question mentions it.
	sort.SliceStable(numericMatches, func(i, j int) bool {
		return strings.Index(q, strings.ToLower(numericMatches[i])) <
			strings.Index(q, strings.ToLower(numericMatches[j]))
	})

	var c *profile.Correlation
	if len(numericMatches) >= 2 {
		var err error
		c, err = profile.Correlate(d.ds, numericMatches[0], numericMatches[1])
		if err != nil {
			return &Answer{
				Intent:  IntentCorrelation,
				Columns: numericMatches[:2],
				Matched: true,
				Reply:   fmt.Sprintf("%q and %q don't have enough paired numeric values to correlate.", numericMatches[0], numericMatches[1]),
			}
		}
	} else {
		all := profile.Correlations(d.ds)
		if len(all) == 0 {
			return &Answer{
				Intent:  IntentCorrelation,
				Matched: true,
				Reply:   "Correlation needs at least two numeric columns with overlapping values.",
			}
		}
		c = &all[0]
	}

	v := c.R
	return &Answer{
		Intent:  IntentCorrelation,
		Columns: []string{c.X, c.Y},
		Value:   &v,
		Matched: true,
		Reply: fmt.Sprintf("%q and %q have a %s %s correlation (r=%.3f, n=%d).",
			c.X, c.Y, c.Strength, direction(c.R), c.R, c.N),
	}
}

func (d *Dispatcher) helpAnswer() *Answer {
	return &Answer{
		Intent:  IntentHelp,
		Matched: false,
		Reply: "I can answer questions like: \"what is the average of <column>\", " +
			"\"total <column>\", \"minimum <column>\", \"maximum <column>\", " +
			"\"top 5 by <column>\", \"how many rows\", \"most common <column>\", " +
			"and \"correlation between <column> and <column>\".",
	}
}

func direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}

func joinOrNone(cols []string) string {
	if len(cols) == 0 {
		return "none"
	}
	return strings.Join(cols, ", ")
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
