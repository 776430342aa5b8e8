package tabular

import (
	"math"

	"gridlens/domain/dataset"
)

const (
	// numericThreshold is the share of non-empty sampled values that
	// must parse as numbers for a column to be numeric.
	numericThreshold = 0.85

	// maxCategories bounds how many distinct values a categorical
	// column may have.
	maxCategories = 20
)

// inferTypes classifies every column from a stratified sample of rows.
// Numeric wins when a large majority of non-empty values parse as
// numbers; low-cardinality columns with repeats become categorical;
// everything else, including fully empty columns, is text.
func (r *Reader) inferTypes(ds *dataset.Dataset) map[string]dataset.ColumnType {
	sample := stratifiedSample(ds.RowCount(), r.SampleRows)
	types := make(map[string]dataset.ColumnType, len(ds.Headers))

	for _, header := range ds.Headers {
		nonEmpty := 0
		numeric := 0
		distinct := make(map[string]struct{})

		for _, idx := range sample {
			value := ds.Records[idx][header]
			if value == "" {
				continue
			}
			nonEmpty++
			distinct[value] = struct{}{}
			if _, ok := dataset.ParseNumber(value); ok {
				numeric++
			}
		}

		types[header] = classify(nonEmpty, numeric, len(distinct))
	}
	return types
}

func classify(nonEmpty, numeric, distinct int) dataset.ColumnType {
	if nonEmpty == 0 {
		return dataset.ColumnText
	}
	if float64(numeric)/float64(nonEmpty) >= numericThreshold {
		return dataset.ColumnNumeric
	}
	// Categorical needs bounded cardinality and at least some repeats.
	if distinct <= maxCategories && distinct < nonEmpty {
		return dataset.ColumnCategorical
	}
	return dataset.ColumnText
}

// stratifiedSample returns evenly distributed row indices so inference
// sees the whole file rather than just its head.
func stratifiedSample(totalRows, sampleSize int) []int {
	if sampleSize >= totalRows {
		indices := make([]int, totalRows)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	indices := make([]int, 0, sampleSize)
	step := float64(totalRows) / float64(sampleSize)
	for i := 0; i < sampleSize; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx >= totalRows {
			idx = totalRows - 1
		}
		if len(indices) > 0 && indices[len(indices)-1] == idx {
			continue
		}
		indices = append(indices, idx)
	}
	return indices
}
