package cmd

import (
	"fmt"

	"github.com/KaramelBytes/chartloom-cli/internal/engine"
	"github.com/spf13/cobra"
)

var (
	recXCol string
	recYCol string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <file>",
	Short: "Suggest the chart kind that fits an x/y column pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0])
		if err != nil {
			return err
		}
		xv, ok := t.Column(recXCol)
		if !ok {
			return fmt.Errorf("%w: %q", engine.ErrUnknownColumn, recXCol)
		}
		yv, ok := t.Column(recYCol)
		if !ok {
			return fmt.Errorf("%w: %q", engine.ErrUnknownColumn, recYCol)
		}
		xp := engine.Profile(recXCol, xv)
		yp := engine.Profile(recYCol, yv)
		kind, err := engine.Recommend(&xp, &yp)
		if err != nil {
			return err
		}
		fmt.Printf("Suggested chart: %s\n", kind)
		fmt.Printf("  x %q: numeric=%v distinct=%d\n", xp.Name, xp.Numeric, xp.Distinct)
		fmt.Printf("  y %q: numeric=%v distinct=%d\n", yp.Name, yp.Numeric, yp.Distinct)
		return nil
	},
}

func init() {
	recommendCmd.Flags().StringVarP(&recXCol, "x", "x", "", "x-axis column (required)")
	recommendCmd.Flags().StringVarP(&recYCol, "y", "y", "", "y-axis column (required)")
	_ = recommendCmd.MarkFlagRequired("x")
	_ = recommendCmd.MarkFlagRequired("y")
	rootCmd.AddCommand(recommendCmd)
}
