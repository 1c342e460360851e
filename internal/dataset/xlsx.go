package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func init() { register(xlsxLoader{}) }

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".xlsx")
}

func (xlsxLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return FromRows(rows[0], rows[1:])
}
