package dataset

import (
	"fmt"
	"os"
	"strings"
)

// Loader reads a Table from an on-disk file of one format.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

// LoadOptions carries per-format knobs.
type LoadOptions struct {
	// Delimiter for CSV. If 0, auto-detects from the file extension.
	Delimiter rune
	// Sheet selects an XLSX worksheet by name; empty means the first sheet.
	Sheet string
	// DBTable selects a table inside a SQLite file; empty means the only
	// table, or an error when the file has several.
	DBTable string
}

var registry []Loader

func register(l Loader) {
	registry = append(registry, l)
}

// Load selects a loader by filename and reads the table.
func Load(path string, opt LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("unsupported file type: %s", path)
}

func hasSuffixFold(name string, suffixes ...string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}
