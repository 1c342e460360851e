package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/view"
	"github.com/spf13/cobra"
)

var (
	viewPage     int
	viewPageSize int
	viewSearch   string
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Show one page of a dataset, optionally filtered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0])
		if err != nil {
			return err
		}
		size := viewPageSize
		if size <= 0 && cfg != nil {
			size = cfg.PageSize
		}
		v := view.New(t, size)
		if viewSearch != "" {
			v.Search(viewSearch)
			if v.TotalRows() == 0 {
				fmt.Printf("No rows match %q\n", viewSearch)
				return nil
			}
		}
		v.SetPage(viewPage)

		rows, start, end := v.Rows()
		printTable(t.ColumnNames(), rows)
		if active, term := v.Filtered(); active {
			fmt.Printf("\nFiltered by %q: %d rows | showing %d-%d | page %d/%d\n",
				term, v.TotalRows(), start+1, end, v.Page()+1, v.TotalPages())
		} else {
			fmt.Printf("\nTotal: %d rows | showing %d-%d | page %d/%d\n",
				v.TotalRows(), start+1, end, v.Page()+1, v.TotalPages())
		}
		return nil
	},
}

func printTable(header []string, rows [][]string) {
	maxWidth := 50
	if cfg != nil && cfg.MaxCellWidth > 0 {
		maxWidth = cfg.MaxCellWidth
	}
	cell := func(s string) string { return truncateCell(s, maxWidth) }
	fmt.Println("| " + strings.Join(header, " | ") + " |")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Println("| " + strings.Join(sep, " | ") + " |")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		fmt.Println("| " + strings.Join(cells, " | ") + " |")
	}
}

// truncateCell flattens a cell for markdown output and clips it to max
// runes. Widths too small to hold an ellipsis are raised to the minimum.
func truncateCell(s string, max int) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return s
}

func init() {
	viewCmd.Flags().IntVar(&viewPage, "page", 0, "page index, zero-based")
	viewCmd.Flags().IntVar(&viewPageSize, "page-size", 0, "rows per page (default from config)")
	viewCmd.Flags().StringVar(&viewSearch, "search", "", "case-insensitive substring filter over all cells")
	rootCmd.AddCommand(viewCmd)
}
