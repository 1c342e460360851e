// Package view maintains paging and free-text filter state over a raw
// table, independent of chart preparation.
package view

import (
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// DefaultPageSize mirrors the table display default.
const DefaultPageSize = 50

// View is the paging/filter cursor over one Table. It is created with the
// table and discarded with it; replacing the table means a new View.
type View struct {
	table    *dataset.Table
	pageSize int
	page     int
	// filtered is the matching row-index set when a search is active; nil
	// means no search. An empty non-nil slice is a search with no hits,
	// which is distinct from no search at all.
	filtered []int
	term     string
}

// New builds a View over a table with the given page size (DefaultPageSize
// when <= 0).
func New(t *dataset.Table, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{table: t, pageSize: pageSize}
}

// Search filters to rows where any cell contains term, case-insensitively.
// An empty term clears the filter. Either way the view resets to page 0.
func (v *View) Search(term string) {
	v.page = 0
	v.term = strings.TrimSpace(term)
	if v.term == "" {
		v.filtered = nil
		return
	}
	needle := strings.ToLower(v.term)
	matches := []int{}
	for i := 0; i < v.table.NumRows(); i++ {
		for _, cell := range v.table.Row(i) {
			if strings.Contains(strings.ToLower(cell), needle) {
				matches = append(matches, i)
				break
			}
		}
	}
	v.filtered = matches
}

// ClearSearch drops the filter and resets to page 0.
func (v *View) ClearSearch() { v.Search("") }

// Filtered reports whether a search is active, and the active term.
func (v *View) Filtered() (bool, string) { return v.filtered != nil, v.term }

// rowCount is the total over the active row set (filtered or full).
func (v *View) rowCount() int {
	if v.filtered != nil {
		return len(v.filtered)
	}
	return v.table.NumRows()
}

// TotalRows reports the row count of the active (filtered) set.
func (v *View) TotalRows() int { return v.rowCount() }

// TotalPages is ceil(total/pageSize), never less than 1.
func (v *View) TotalPages() int {
	n := (v.rowCount() + v.pageSize - 1) / v.pageSize
	if n < 1 {
		n = 1
	}
	return n
}

// Page reports the current page index.
func (v *View) Page() int { return v.page }

// PageSize reports the rows-per-page setting.
func (v *View) PageSize() int { return v.pageSize }

// SetPage jumps to page i, clamped into range.
func (v *View) SetPage(i int) {
	if i < 0 {
		i = 0
	}
	if last := v.TotalPages() - 1; i > last {
		i = last
	}
	v.page = i
}

// SetPageSize changes the page size and clamps the page index into the
// recomputed range.
func (v *View) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	v.pageSize = size
	v.SetPage(v.page)
}

// Next advances one page when possible.
func (v *View) Next() { v.SetPage(v.page + 1) }

// Prev goes back one page when possible.
func (v *View) Prev() { v.SetPage(v.page - 1) }

// Rows returns the current page's rows plus the half-open [start, end) row
// offsets into the active set.
func (v *View) Rows() (rows [][]string, start, end int) {
	total := v.rowCount()
	start = v.page * v.pageSize
	if start > total {
		start = total
	}
	end = start + v.pageSize
	if end > total {
		end = total
	}
	if v.filtered != nil {
		return v.table.Rows(v.filtered[start:end]), start, end
	}
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return v.table.Rows(indices), start, end
}
