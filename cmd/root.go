package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/chartloom-cli/internal/config"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Loader flags shared by every command that reads a data file
	flagDelimiter string
	flagSheet     string
	flagDBTable   string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "chartloom",
	Short: "ChartLoom CLI: turn tabular data into plot-ready chart structures",
	Long: `ChartLoom loads a tabular dataset (CSV/TSV, XLSX or SQLite), profiles its
columns, recommends a chart kind for a column pair, and prepares cleaned,
aggregated chart data ready for a renderer.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.chartloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter (',', ';' or tab; default sniffed from extension)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	rootCmd.PersistentFlags().StringVar(&flagDBTable, "table", "", "SQLite table name (default the only table)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = &cfgpkg.Global{PageSize: 50, OutputFormat: "json", MaxCellWidth: 50}
		return
	}
	cfg = c
}

// loadTable reads a dataset using the shared loader flags.
func loadTable(path string) (*dataset.Table, error) {
	opt := dataset.LoadOptions{Sheet: flagSheet, DBTable: flagDBTable}
	switch flagDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", flagDelimiter)
	}
	return dataset.Load(path, opt)
}
