package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

func init() { register(csvLoader{}) }

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".csv", ".tsv")
}

// decoders tried in order when a file is not valid UTF-8. The list follows
// the encodings commonly seen in datasets exported from Chinese-locale
// spreadsheet tools, with Latin-1 as the never-failing last resort.
var decoders = []struct {
	name string
	enc  encoding.Encoding
}{
	{"gbk", simplifiedchinese.GBK},
	{"gb18030", simplifiedchinese.GB18030},
	{"big5", traditionalchinese.Big5},
	{"iso-8859-1", charmap.ISO8859_1},
}

func (csvLoader) Load(path string, opt LoadOptions) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	text, err := decodeToUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv: %s", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
	}
	return FromRows(header, rows)
}

// decodeToUTF8 returns raw unchanged when it is already valid UTF-8 (a BOM
// is stripped), otherwise tries the fallback decoders in order.
func decodeToUTF8(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), nil
	}
	if bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if out, err := dec.Bytes(raw); err == nil && utf8.Valid(out) {
			return out, nil
		}
	}
	for _, d := range decoders {
		out, err := d.enc.NewDecoder().Bytes(raw)
		// Decoders substitute U+FFFD for bytes they cannot map; treat any
		// substitution as a miss and move to the next encoding.
		if err == nil && utf8.Valid(out) && !bytes.ContainsRune(out, utf8.RuneError) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("text is not valid in any supported encoding")
}

func sniffDelimiter(path string) rune {
	if hasSuffixFold(path, ".tsv") {
		return '\t'
	}
	return ','
}
