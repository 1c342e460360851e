package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// PageSize is the default rows-per-page for table views.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
	// DefaultOutlierPolicy pre-answers the extreme-outlier question for
	// non-interactive runs: keep, remove, log-scale, or empty to ask.
	DefaultOutlierPolicy string `mapstructure:"default_outlier_policy" yaml:"default_outlier_policy"`
	// OutputFormat is prepare's default output: json or summary.
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	// MaxCellWidth truncates cell display in table views; 0 disables.
	MaxCellWidth int `mapstructure:"max_cell_width" yaml:"max_cell_width"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.chartloom/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".chartloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CHARTLOOM")
	v.AutomaticEnv()

	v.SetDefault("page_size", 50)
	v.SetDefault("default_outlier_policy", "")
	v.SetDefault("output_format", "json")
	v.SetDefault("max_cell_width", 50)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".chartloom")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
