package insight

import (
	"fmt"
	"strings"

	"gridlens/domain/dataset"
	"gridlens/internal/profile"

	"github.com/gomarkdown/markdown"
)

// Narrative is the generated plain-language summary of a dataset,
// carried both as Markdown source and as rendered HTML.
type Narrative struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

const (
	highMissingRate  = 0.2
	dominantShare    = 60.0
	notableCorrLimit = 3
	strongCorrCutoff = 0.7
)

// Generate recomputes the narrative summary from a dataset and its
// profile: a headline, one line per column, and a section of notable
// facts (heavy missingness, dominant categories, strong correlations).
func Generate(ds *dataset.Dataset, prof *profile.DatasetProfile) *Narrative {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", ds.Name)
	fmt.Fprintf(&b, "%d rows, %d columns (%d numeric, %d categorical, %d text). %s\n\n",
		prof.Summary.Rows, prof.Summary.Columns,
		prof.Summary.NumericColumns, prof.Summary.CategoricalColumns, prof.Summary.TextColumns,
		missingSentence(prof.Summary.MissingCells, prof.Summary.Rows*prof.Summary.Columns))

	b.WriteString("## Columns\n\n")
	for i := range prof.Columns {
		fmt.Fprintf(&b, "- %s\n", columnSentence(&prof.Columns[i]))
	}
	b.WriteString("\n")

	if notable := notableFacts(prof); len(notable) > 0 {
		b.WriteString("## Notable\n\n")
		for _, fact := range notable {
			fmt.Fprintf(&b, "- %s\n", fact)
		}
	}

	md := b.String()
	return &Narrative{
		Markdown: md,
		HTML:     string(markdown.ToHTML([]byte(md), nil, nil)),
	}
}

func missingSentence(missing, cells int) string {
	if missing == 0 {
		return "No missing cells."
	}
	return fmt.Sprintf("%d of %d cells are missing (%.1f%%).",
		missing, cells, 100*float64(missing)/float64(cells))
}

func columnSentence(c *profile.ColumnProfile) string {
	switch {
	case c.Numeric != nil:
		shape := "a skewed distribution"
		if c.Numeric.IsNormal {
			shape = "a roughly normal distribution"
		}
		return fmt.Sprintf("**%s** is numeric, ranging %s to %s with mean %s and median %s, %s.",
			c.Name, trimFloat(c.Numeric.Min), trimFloat(c.Numeric.Max),
			trimFloat(c.Numeric.Mean), trimFloat(c.Numeric.Median), shape)
	case c.Mode != "":
		return fmt.Sprintf("**%s** is %s with %d distinct values; the most common is %q (%d of %d).",
			c.Name, c.Type, c.Distinct, c.Mode, c.ModeCount, c.Count)
	default:
		return fmt.Sprintf("**%s** is %s with %d distinct values and %d missing cells.",
			c.Name, c.Type, c.Distinct, c.Missing)
	}
}

func notableFacts(prof *profile.DatasetProfile) []string {
	var facts []string

	for i := range prof.Columns {
		c := &prof.Columns[i]
		total := c.Count + c.Missing
		if total > 0 && float64(c.Missing)/float64(total) >= highMissingRate {
			facts = append(facts, fmt.Sprintf("**%s** is missing in %.0f%% of rows.",
				c.Name, 100*float64(c.Missing)/float64(total)))
		}
		if len(c.TopValues) > 0 && c.TopValues[0].Percent >= dominantShare {
			facts = append(facts, fmt.Sprintf("**%s** is dominated by %q (%.0f%% of values).",
				c.Name, c.TopValues[0].Value, c.TopValues[0].Percent))
		}
	}

	count := 0
	for i := range prof.Correlations {
		c := &prof.Correlations[i]
		if c.R < strongCorrCutoff && c.R > -strongCorrCutoff {
			break // sorted by |r|, nothing stronger follows
		}
		facts = append(facts, fmt.Sprintf("**%s** and **%s** move together strongly (r=%.2f).",
			c.X, c.Y, c.R))
		count++
		if count == notableCorrLimit {
			break
		}
	}

	return facts
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
