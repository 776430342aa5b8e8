package dataview

import (
	"sort"
	"strings"

	"gridlens/domain/dataset"
)

const (
	defaultPageSize = 25
	maxPageSize     = 500
)

// Request describes one derived table view: an optional search filter,
// an optional sort, and a page window. Zero values mean "no filter,
// original order, first page".
type Request struct {
	Search   string
	SortBy   string
	SortDir  string // "asc" or "desc"
	Page     int    // 1-based
	PageSize int
}

// Page is a render-ready slice of the dataset.
type Page struct {
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	Total     int        `json:"total"`
	Filtered  int        `json:"filtered"`
	Page      int        `json:"page"`
	PageSize  int        `json:"pageSize"`
	PageCount int        `json:"pageCount"`
}

// Build recomputes a table view from the immutable dataset: filter,
// then sort, then paginate. The dataset itself is never reordered; the
// view works on an index slice.
func Build(ds *dataset.Dataset, req Request) *Page {
	indices := filter(ds, req.Search)
	filtered := len(indices)

	if req.SortBy != "" && ds.HasColumn(req.SortBy) {
		sortIndices(ds, indices, req.SortBy, strings.EqualFold(req.SortDir, "desc"))
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	pageCount := (filtered + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > filtered {
		start = filtered
	}
	if end > filtered {
		end = filtered
	}

	rows := make([][]string, 0, end-start)
	for _, idx := range indices[start:end] {
		row := make([]string, len(ds.Headers))
		for j, h := range ds.Headers {
			row[j] = ds.Records[idx][h]
		}
		rows = append(rows, row)
	}

	return &Page{
		Headers:   ds.Headers,
		Rows:      rows,
		Total:     ds.RowCount(),
		Filtered:  filtered,
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount,
	}
}

// filter returns the indices of rows where any cell contains the
// search term, case-insensitively. Search matches the raw uploaded
// text, not reformatted numbers.
func filter(ds *dataset.Dataset, search string) []int {
	search = strings.ToLower(strings.TrimSpace(search))

	indices := make([]int, 0, ds.RowCount())
	for i, rec := range ds.Records {
		if search == "" || rowMatches(ds.Headers, rec, search) {
			indices = append(indices, i)
		}
	}
	return indices
}

func rowMatches(headers []string, rec dataset.Record, search string) bool {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(rec[h]), search) {
			return true
		}
	}
	return false
}

// sortIndices orders the index slice by one column. Numeric columns
// compare parsed values; everything else compares case-insensitively.
// Missing and unparseable cells sort last in either direction, and the
// sort is stable so equal rows keep their upload order.
func sortIndices(ds *dataset.Dataset, indices []int, column string, desc bool) {
	numeric := ds.TypeOf(column) == dataset.ColumnNumeric

	sort.SliceStable(indices, func(a, b int) bool {
		va := ds.Records[indices[a]][column]
		vb := ds.Records[indices[b]][column]

		if numeric {
			na, okA := dataset.ParseNumber(va)
			nb, okB := dataset.ParseNumber(vb)
			if okA != okB {
				return okA // parseable before unparseable
			}
			if !okA {
				return false
			}
			if desc {
				return na > nb
			}
			return na < nb
		}

		if (va == "") != (vb == "") {
			return va != "" // non-empty before empty
		}
		la, lb := strings.ToLower(va), strings.ToLower(vb)
		if desc {
			return la > lb
		}
		return la < lb
	})
}
