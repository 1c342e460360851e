package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/chartloom-cli/internal/config"
	"github.com/KaramelBytes/chartloom-cli/internal/engine"
)

func resetPrepareFlags() {
	prepKind, prepXCol, prepYCol, prepGroup = "", "", "", ""
	prepOutliers, prepSpecFile = "", ""
}

func TestBuildSpecFromFlags(t *testing.T) {
	resetPrepareFlags()
	defer resetPrepareFlags()
	prepKind, prepXCol, prepYCol = "bar", "region", "sales"

	spec, err := buildSpec()
	if err != nil {
		t.Fatalf("buildSpec: %v", err)
	}
	if spec.Kind != engine.KindBar || spec.XColumn != "region" || spec.YColumn != "sales" {
		t.Fatalf("spec = %+v", spec)
	}
}

func TestBuildSpecFileWithFlagOverrides(t *testing.T) {
	resetPrepareFlags()
	defer resetPrepareFlags()
	path := filepath.Join(t.TempDir(), "chart.yaml")
	body := "kind: pie\nx: region\ny: sales\noutliers: keep\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	prepSpecFile = path
	prepKind = "bar"

	spec, err := buildSpec()
	if err != nil {
		t.Fatalf("buildSpec: %v", err)
	}
	if spec.Kind != engine.KindBar {
		t.Errorf("kind = %q, flag must override the file", spec.Kind)
	}
	if spec.XColumn != "region" || spec.Outliers != engine.PolicyKeep {
		t.Errorf("file fields lost: %+v", spec)
	}
}

func TestBuildSpecPolicyPrecedence(t *testing.T) {
	resetPrepareFlags()
	defer resetPrepareFlags()
	prepKind, prepXCol, prepYCol = "bar", "a", "b"

	oldCfg := cfg
	defer func() { cfg = oldCfg }()
	cfg = &cfgpkg.Global{DefaultOutlierPolicy: "log-scale"}

	spec, err := buildSpec()
	if err != nil {
		t.Fatalf("buildSpec: %v", err)
	}
	if spec.Outliers != engine.PolicyLogScale {
		t.Errorf("outliers = %q, want the config default", spec.Outliers)
	}

	prepOutliers = "remove"
	spec, err = buildSpec()
	if err != nil {
		t.Fatalf("buildSpec: %v", err)
	}
	if spec.Outliers != engine.PolicyRemove {
		t.Errorf("outliers = %q, flag must beat the config default", spec.Outliers)
	}
}

func TestBuildSpecRejectsUnknownKind(t *testing.T) {
	resetPrepareFlags()
	defer resetPrepareFlags()
	prepKind, prepXCol, prepYCol = "donut", "a", "b"

	if _, err := buildSpec(); err == nil {
		t.Fatal("unknown kind accepted")
	}
}

func TestSummarize(t *testing.T) {
	chart := &engine.PreparedChart{
		Kind:     engine.KindBar,
		XColumn:  "region",
		YColumn:  "sales",
		RowCount: 4,
		Series:   &engine.Series{X: []string{"n", "s"}, Y: []float64{1, 2}},
		Notes:    []string{"1 outliers removed"},
	}
	out := summarize(chart)
	for _, want := range []string{"Kind: bar", "x=region y=sales", "Rows: 4", "Points: 2", "Note: 1 outliers removed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
