package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/engine"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	prepKind     string
	prepXCol     string
	prepYCol     string
	prepGroup    string
	prepOutliers string
	prepSpecFile string
	prepOutput   string
	prepFormat   string
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <file>",
	Short: "Prepare plot-ready chart data from a dataset",
	Long: `Prepare runs the full pipeline: validate the column selection, coerce and
clean the y column (asking about extreme outliers when run interactively),
aggregate per chart kind, and emit the prepared chart as JSON or a summary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := buildSpec()
		if err != nil {
			return err
		}
		t, err := loadTable(args[0])
		if err != nil {
			return err
		}

		prep := &engine.Preparer{}
		if spec.Outliers == "" && stdinInteractive() {
			prep.ChoosePolicy = promptPolicy
		}
		chart, err := prep.Prepare(t, spec)
		if err != nil {
			return err
		}

		format := prepFormat
		if format == "" && cfg != nil {
			format = cfg.OutputFormat
		}
		var out []byte
		switch format {
		case "", "json":
			out, err = json.MarshalIndent(chart, "", "  ")
			if err != nil {
				return fmt.Errorf("encode chart: %w", err)
			}
			out = append(out, '\n')
		case "summary":
			out = []byte(summarize(chart))
		default:
			return fmt.Errorf("unsupported --format: %s (use json or summary)", format)
		}
		if prepOutput != "" {
			if err := os.WriteFile(prepOutput, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", prepOutput)
			return nil
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

// buildSpec merges the --spec YAML file (when given) with flag overrides.
func buildSpec() (engine.ChartSpec, error) {
	var spec engine.ChartSpec
	if prepSpecFile != "" {
		b, err := os.ReadFile(prepSpecFile)
		if err != nil {
			return spec, fmt.Errorf("read spec file: %w", err)
		}
		if err := yaml.Unmarshal(b, &spec); err != nil {
			return spec, fmt.Errorf("parse spec file: %w", err)
		}
	}
	if prepKind != "" {
		spec.Kind = engine.Kind(prepKind)
	}
	if prepXCol != "" {
		spec.XColumn = prepXCol
	}
	if prepYCol != "" {
		spec.YColumn = prepYCol
	}
	if prepGroup != "" {
		spec.GroupColumn = prepGroup
	}
	kind, err := engine.ParseKind(string(spec.Kind))
	if err != nil {
		return spec, err
	}
	spec.Kind = kind

	policyStr := prepOutliers
	if policyStr == "" && spec.Outliers != "" {
		policyStr = string(spec.Outliers)
	}
	if policyStr == "" && cfg != nil {
		policyStr = cfg.DefaultOutlierPolicy
	}
	policy, err := engine.ParsePolicy(policyStr)
	if err != nil {
		return spec, err
	}
	spec.Outliers = policy
	return spec, nil
}

func stdinInteractive() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// promptPolicy is the blocking outlier decision for interactive runs.
func promptPolicy(sum engine.OutlierSummary) (engine.OutlierPolicy, error) {
	fmt.Fprintf(os.Stderr, "⚠ Extreme outliers detected (max %g, Q3 %g, IQR %g).\n", sum.Max, sum.Q3, sum.IQR)
	fmt.Fprint(os.Stderr, "Handle them with [r]emove, [l]og scale, or [k]eep? ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read choice: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "r", "remove":
		return engine.PolicyRemove, nil
	case "l", "log", "log-scale":
		return engine.PolicyLogScale, nil
	case "k", "keep", "":
		return engine.PolicyKeep, nil
	default:
		return "", fmt.Errorf("unknown choice %q", strings.TrimSpace(line))
	}
}

func summarize(c *engine.PreparedChart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[PREPARED CHART]\n")
	fmt.Fprintf(&b, "Kind: %s\n", c.Kind)
	fmt.Fprintf(&b, "Columns: x=%s y=%s", c.XColumn, c.YColumn)
	if c.GroupColumn != "" {
		fmt.Fprintf(&b, " group=%s", c.GroupColumn)
	}
	fmt.Fprintf(&b, "\nRows: %d\n", c.RowCount)
	if c.LogScale {
		fmt.Fprintf(&b, "Log scale: yes\n")
	}
	switch {
	case c.Series != nil:
		fmt.Fprintf(&b, "Points: %d\n", len(c.Series.X))
	case c.Histogram != nil:
		fmt.Fprintf(&b, "Bins: %d\n", len(c.Histogram.Counts))
		for i := range c.Histogram.Counts {
			fmt.Fprintf(&b, "  %s: %d\n", c.Histogram.Label(i), c.Histogram.Counts[i])
		}
	case c.Pivot != nil:
		fmt.Fprintf(&b, "Matrix: %d x %d\n", len(c.Pivot.RowLabels), len(c.Pivot.ColLabels))
	}
	for _, n := range c.Notes {
		fmt.Fprintf(&b, "Note: %s\n", n)
	}
	return b.String()
}

func init() {
	prepareCmd.Flags().StringVarP(&prepKind, "kind", "k", "", "chart kind: line, bar, scatter, pie, heatmap, histogram")
	prepareCmd.Flags().StringVar(&prepXCol, "x", "", "x-axis column")
	prepareCmd.Flags().StringVar(&prepYCol, "y", "", "y-axis column")
	prepareCmd.Flags().StringVar(&prepGroup, "group", "", "group column for heatmaps")
	prepareCmd.Flags().StringVar(&prepOutliers, "outliers", "", "outlier policy: keep, remove or log-scale (default ask)")
	prepareCmd.Flags().StringVar(&prepSpecFile, "spec", "", "YAML chart spec file (flags override its fields)")
	prepareCmd.Flags().StringVarP(&prepOutput, "output", "o", "", "write the prepared chart to a file instead of stdout")
	prepareCmd.Flags().StringVar(&prepFormat, "format", "", "output format: json or summary (default from config)")
	rootCmd.AddCommand(prepareCmd)
}
