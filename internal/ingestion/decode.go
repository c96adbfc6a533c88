package ingestion

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format identifies a decoder family.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var extensions = map[string]Format{
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
	".xltx": FormatXLSX,
	".xltm": FormatXLSX,
	".xls":  FormatXLS,
	".csv":  FormatCSV,
}

var errNoSheets = errors.New("workbook has no sheets")

// DetectFormat selects a decoder from the filename extension, case-insensitively.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, filename)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// Decode reads the first sheet of a spreadsheet, or a delimited text file,
// into a Table with canonical column labels. Parse failures of any format
// surface as *DecodeError.
func Decode(data []byte, filename string) (*Table, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var (
		records [][]string
		lines   []int
	)
	switch format {
	case FormatXLSX:
		records, err = readXLSX(data)
	case FormatXLS:
		records, err = readXLS(data)
	case FormatCSV:
		records, lines, err = readCSV(data)
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	return newTable(records, lines), nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}

	// raw values keep dates as serial numbers instead of locale formatted text
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readXLS(data []byte) (records [][]string, err error) {
	// the BIFF reader panics on some malformed containers
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("corrupt workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errNoSheets
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errNoSheets
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		records = append(records, cells)
	}

	return records, nil
}

// readCSV returns the records of a delimited text payload with the line each
// starts on. The csv reader skips empty lines, so record positions alone do
// not match the file.
func readCSV(data []byte) ([][]string, []int, error) {
	text, err := utf8Text(data)
	if err != nil {
		return nil, nil, err
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := r.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
}

// utf8Text strips a byte order mark and converts payloads that are not valid
// UTF-8 from Windows-1252, the usual encoding of spreadsheet CSV exports.
func utf8Text(data []byte) ([]byte, error) {
	var dec transform.Transformer = xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	if !utf8.Valid(data) {
		dec = charmap.Windows1252.NewDecoder()
	}

	text, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}
	return text, nil
}

// sniffDelimiter picks ';' over ',' when the header line uses more of it.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
