package ingestion

import (
	"fmt"
	"strings"
)

// Row maps canonical column labels to trimmed cell text.
type Row map[string]string

// Value returns the cell for label and whether the column exists.
func (r Row) Value(label string) (string, bool) {
	v, ok := r[label]
	return v, ok
}

// Table is a decoded upload: canonical column labels in sheet order and the
// non-blank data rows beneath the header. Lines[i] is the 1-based line of
// Rows[i] in the sheet, counting the header and any blank lines.
type Table struct {
	Columns []string
	Rows    []Row
	Lines   []int
}

// Line returns the sheet line of the i-th data row.
func (t *Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 1
}

// Has reports whether the table carries a column with the canonical label.
func (t *Table) Has(label string) bool {
	for _, c := range t.Columns {
		if c == label {
			return true
		}
	}
	return false
}

// newTable builds a Table from raw cell text. lines holds the sheet line of
// each record; when nil, records are taken to be consecutive lines from the
// first. The first non-blank record is the header. Blank headers become
// unnamed_<n>; when two headers canonicalize to the same label the leftmost
// column wins. Records whose cells are all blank are dropped.
func newTable(records [][]string, lines []int) *Table {
	if lines == nil {
		lines = make([]int, len(records))
		for i := range lines {
			lines[i] = i + 1
		}
	}

	t := &Table{}
	for len(records) > 0 && blank(records[0]) {
		records, lines = records[1:], lines[1:]
	}
	if len(records) == 0 {
		return t
	}

	header := records[0]
	index := make([]string, len(header))
	seen := make(map[string]bool, len(header))

	for i, raw := range header {
		label := CanonicalLabel(raw)
		if label == "" {
			label = fmt.Sprintf("unnamed_%d", i)
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		index[i] = label
		t.Columns = append(t.Columns, label)
	}

	for n, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make(Row, len(t.Columns))
		for _, c := range t.Columns {
			row[c] = ""
		}
		for i, cell := range rec {
			if i >= len(index) || index[i] == "" {
				continue
			}
			row[index[i]] = strings.TrimSpace(cell)
		}
		t.Rows = append(t.Rows, row)
		t.Lines = append(t.Lines, lines[n+1])
	}

	return t
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
