package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/chartloom-cli/internal/config"
	"github.com/KaramelBytes/chartloom-cli/internal/engine"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ChartLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("page_size: %d\n", cfg.PageSize)
		fmt.Printf("default_outlier_policy: %s\n", cfg.DefaultOutlierPolicy)
		fmt.Printf("output_format: %s\n", cfg.OutputFormat)
		fmt.Printf("max_cell_width: %d\n", cfg.MaxCellWidth)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "page_size":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid page_size: %v", val)
			}
			cfg.PageSize = i
		case "default_outlier_policy":
			p, err := engine.ParsePolicy(val)
			if err != nil {
				return err
			}
			cfg.DefaultOutlierPolicy = string(p)
		case "output_format":
			switch val {
			case "json", "summary":
				cfg.OutputFormat = val
			default:
				return fmt.Errorf("invalid output_format: %s (use json or summary)", val)
			}
		case "max_cell_width":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid max_cell_width: %v", val)
			}
			cfg.MaxCellWidth = i
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
