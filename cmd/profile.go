package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/chartloom-cli/internal/engine"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a dataset's columns (inferred type and cardinality)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0])
		if err != nil {
			return err
		}
		fmt.Println("[DATASET SUMMARY]")
		fmt.Printf("File: %s\n", filepath.Base(args[0]))
		fmt.Printf("Rows: %d\n", t.NumRows())
		fmt.Printf("Columns: %d\n\n", t.NumCols())
		fmt.Println("[COLUMNS]")
		for _, p := range engine.ProfileTable(t) {
			kind := "categorical"
			if p.Numeric {
				kind = "numeric"
			}
			fmt.Printf("- %s: %s (distinct %d)\n", p.Name, kind, p.Distinct)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
