package insight_test

import (
	"strings"
	"testing"

	"gridlens/internal/insight"
	"gridlens/internal/profile"
	"gridlens/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesNarrative(t *testing.T) *insight.Narrative {
	t.Helper()
	ds, err := testkit.SalesDataset()
	require.NoError(t, err)
	prof, err := profile.Profile(ds)
	require.NoError(t, err)
	return insight.Generate(ds, prof)
}

func TestGenerateHeadline(t *testing.T) {
	n := salesNarrative(t)

	assert.True(t, strings.HasPrefix(n.Markdown, "# sales.csv"))
	assert.Contains(t, n.Markdown, "12 rows, 5 columns")
	assert.Contains(t, n.Markdown, "2 numeric")
}

func TestGenerateColumnSection(t *testing.T) {
	n := salesNarrative(t)

	assert.Contains(t, n.Markdown, "## Columns")
	for _, col := range []string{"region", "product", "units", "revenue", "note"} {
		assert.Contains(t, n.Markdown, "**"+col+"**")
	}
	assert.Contains(t, n.Markdown, "ranging 1 to 12")
}

func TestGenerateNotableFacts(t *testing.T) {
	n := salesNarrative(t)

	assert.Contains(t, n.Markdown, "## Notable")
	assert.Contains(t, n.Markdown, "move together strongly",
		"units and revenue correlate in the fixture")
	assert.Contains(t, n.Markdown, "missing in 33%",
		"the note column is a third empty")
}

func TestGenerateHTML(t *testing.T) {
	n := salesNarrative(t)

	assert.Contains(t, n.HTML, "<h1")
	assert.Contains(t, n.HTML, "<li>")
	assert.Contains(t, n.HTML, "<strong>units</strong>")
}
