package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	expDBPath  string
	expDBTable string
)

var tablesCmd = &cobra.Command{
	Use:   "tables <db.sqlite>",
	Short: "List the tables in a SQLite file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := dataset.ListTables(args[0])
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No tables")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Copy a dataset into a SQLite table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0])
		if err != nil {
			return err
		}
		if err := dataset.SaveTable(expDBPath, expDBTable, t); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Saved %d rows to table %q in %s\n", t.NumRows(), expDBTable, expDBPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&expDBPath, "db", "", "destination SQLite file (required)")
	exportCmd.Flags().StringVar(&expDBTable, "dest-table", "", "destination table name (required)")
	_ = exportCmd.MarkFlagRequired("db")
	_ = exportCmd.MarkFlagRequired("dest-table")
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(exportCmd)
}
