package view_test

import (
	"fmt"
	"testing"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/view"
)

func numberedTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	ids := make([]string, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("%d", i)
		names[i] = fmt.Sprintf("item-%03d", i)
	}
	table, err := dataset.New([]dataset.Column{
		{Name: "id", Values: ids},
		{Name: "name", Values: names},
	})
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return table
}

func TestPagesPartitionRows(t *testing.T) {
	// Walking every page visits each row exactly once, in order.
	v := view.New(numberedTable(t, 237), 50)
	if got := v.TotalPages(); got != 5 {
		t.Fatalf("total pages = %d, want ceil(237/50) = 5", got)
	}
	seen := make(map[string]bool)
	var visited int
	for p := 0; p < v.TotalPages(); p++ {
		v.SetPage(p)
		rows, start, end := v.Rows()
		if len(rows) != end-start {
			t.Fatalf("page %d: %d rows for span [%d, %d)", p, len(rows), start, end)
		}
		for i, row := range rows {
			if want := fmt.Sprintf("%d", start+i); row[0] != want {
				t.Fatalf("page %d row %d: id %q, want %q", p, i, row[0], want)
			}
			if seen[row[0]] {
				t.Fatalf("row %q appears on more than one page", row[0])
			}
			seen[row[0]] = true
		}
		visited += len(rows)
	}
	if visited != 237 {
		t.Errorf("visited %d rows, want 237", visited)
	}
}

func TestExactMultipleHasNoEmptyTailPage(t *testing.T) {
	v := view.New(numberedTable(t, 100), 50)
	if got := v.TotalPages(); got != 2 {
		t.Errorf("total pages = %d, want 2", got)
	}
}

func TestSetPageClamps(t *testing.T) {
	v := view.New(numberedTable(t, 120), 50)
	v.SetPage(99)
	if v.Page() != 2 {
		t.Errorf("page = %d, want the last page 2", v.Page())
	}
	v.SetPage(-4)
	if v.Page() != 0 {
		t.Errorf("page = %d, want 0", v.Page())
	}
	v.SetPage(2)
	v.Next()
	if v.Page() != 2 {
		t.Errorf("Next past the end moved to page %d", v.Page())
	}
	v.SetPage(0)
	v.Prev()
	if v.Page() != 0 {
		t.Errorf("Prev past the start moved to page %d", v.Page())
	}
}

func TestSearchFiltersAndResets(t *testing.T) {
	v := view.New(numberedTable(t, 200), 50)
	v.SetPage(3)
	v.Search("item-19")
	if v.Page() != 0 {
		t.Errorf("search must reset to page 0, got %d", v.Page())
	}
	// item-190 through item-199.
	if v.TotalRows() != 10 {
		t.Fatalf("filtered to %d rows, want 10", v.TotalRows())
	}
	rows, _, _ := v.Rows()
	for _, row := range rows {
		if row[1][:7] != "item-19" {
			t.Errorf("row %v escaped the filter", row)
		}
	}
	active, term := v.Filtered()
	if !active || term != "item-19" {
		t.Errorf("Filtered() = (%v, %q)", active, term)
	}

	v.ClearSearch()
	if active, _ := v.Filtered(); active {
		t.Error("ClearSearch left the filter active")
	}
	if v.TotalRows() != 200 {
		t.Errorf("total rows after clear = %d, want 200", v.TotalRows())
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	v := view.New(numberedTable(t, 20), 50)
	v.Search("ITEM-005")
	if v.TotalRows() != 1 {
		t.Errorf("matched %d rows, want 1", v.TotalRows())
	}
}

func TestSearchNoHitsIsNotNoSearch(t *testing.T) {
	v := view.New(numberedTable(t, 20), 50)
	v.Search("zebra")
	active, _ := v.Filtered()
	if !active {
		t.Fatal("a search with no hits must still report as active")
	}
	if v.TotalRows() != 0 {
		t.Errorf("total rows = %d, want 0", v.TotalRows())
	}
	if v.TotalPages() != 1 {
		t.Errorf("total pages = %d, want 1 even with no hits", v.TotalPages())
	}
	rows, start, end := v.Rows()
	if len(rows) != 0 || start != 0 || end != 0 {
		t.Errorf("Rows() = %d rows, span [%d, %d)", len(rows), start, end)
	}
}

func TestSearchThenPage(t *testing.T) {
	// Filter leaves 10 hits; at page size 8 that is two pages with the
	// last one short.
	v := view.New(numberedTable(t, 200), 8)
	v.Search("item-03")
	if v.TotalRows() != 10 {
		t.Fatalf("filtered to %d rows, want 10", v.TotalRows())
	}
	if v.TotalPages() != 2 {
		t.Fatalf("total pages = %d, want 2", v.TotalPages())
	}
	v.Next()
	rows, start, end := v.Rows()
	if start != 8 || end != 10 || len(rows) != 2 {
		t.Errorf("second page span [%d, %d) with %d rows", start, end, len(rows))
	}
	if rows[0][1] != "item-038" {
		t.Errorf("first row of page 2 = %v", rows[0])
	}
}

func TestSetPageSizeReclamps(t *testing.T) {
	v := view.New(numberedTable(t, 100), 10)
	v.SetPage(9)
	v.SetPageSize(50)
	if v.Page() != 1 {
		t.Errorf("page = %d after growing the page size, want 1", v.Page())
	}
	if v.TotalPages() != 2 {
		t.Errorf("total pages = %d, want 2", v.TotalPages())
	}
	v.SetPageSize(0)
	if v.PageSize() != view.DefaultPageSize {
		t.Errorf("page size = %d, want the default", v.PageSize())
	}
}
