package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/distlab-cli/internal/schema"
)

// RawTable is parsed-but-unstandardized tabular data: ordered column names,
// per-column string values of equal length, and any warnings collected while
// parsing. Missing cells are empty strings.
type RawTable struct {
	Columns  []string
	Cells    map[string][]string
	Warnings []string
}

// NewRawTable returns an empty table with no columns.
func NewRawTable() *RawTable {
	return &RawTable{Cells: make(map[string][]string)}
}

// RowCount returns the number of rows.
func (t *RawTable) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Cells[t.Columns[0]])
}

// Column returns the values for a column, or nil when absent.
func (t *RawTable) Column(name string) []string {
	return t.Cells[name]
}

func (t *RawTable) warnf(format string, args ...any) {
	t.Warnings = append(t.Warnings, fmt.Sprintf(format, args...))
}

// Parse turns pasted or uploaded text into a RawTable. It never returns an
// error: each format is attempted in a fixed order and failures degrade to the
// next attempt, with a warning, until the final fallback of an empty table.
func Parse(text string) *RawTable {
	text = stripPrefix(strings.TrimSpace(text))
	switch DetectFormat(text) {
	case FormatEmpty:
		return NewRawTable()
	case FormatJSON:
		if t, ok := parseJSON(NormalizeText(text)); ok {
			return t
		}
		t := parseCSV(text)
		t.Warnings = append([]string{"input looked like JSON but did not parse; treated as text"}, t.Warnings...)
		return t
	case FormatJSONL:
		return parseJSONL(NormalizeText(text))
	default:
		return parseCSV(text)
	}
}

// parseJSON handles a single JSON document: an array of records, an object
// wrapping records under a "data" key, or a lone record object.
func parseJSON(text string) (*RawTable, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, false
	}
	if dec.More() {
		// Trailing content after the first document; let the caller fall back.
		return nil, false
	}

	var warnings []string
	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		if inner, ok := v["data"].([]any); ok {
			items = inner
		} else {
			items = []any{v}
		}
	default:
		return nil, false
	}

	records := make([]map[string]any, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("element %d is not an object; skipped", i))
			continue
		}
		records = append(records, rec)
	}
	t := tableFromRecords(records)
	t.Warnings = append(t.Warnings, warnings...)
	return t, true
}

// parseJSONL parses one JSON object per line, tolerating bad lines.
func parseJSONL(text string) *RawTable {
	var warnings []string
	var records []map[string]any
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: not a JSON object; skipped", i+1))
			continue
		}
		records = append(records, rec)
	}
	t := tableFromRecords(records)
	t.Warnings = append(t.Warnings, warnings...)
	return t
}

// tableFromRecords builds a columnar table from record maps. Column order is
// first-appearance order across records; absent cells become empty strings.
func tableFromRecords(records []map[string]any) *RawTable {
	t := NewRawTable()
	seen := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				t.Columns = append(t.Columns, k)
			}
		}
	}
	// Map iteration order would jitter the column order between runs.
	t.Columns = orderColumns(t.Columns)
	for _, col := range t.Columns {
		vals := make([]string, 0, len(records))
		for _, rec := range records {
			vals = append(vals, renderScalar(rec[col]))
		}
		t.Cells[col] = vals
	}
	return t
}

// orderColumns puts canonical fields first (schema order), then everything
// else alphabetically, so JSON map iteration cannot reorder output.
func orderColumns(cols []string) []string {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	out := make([]string, 0, len(cols))
	for _, f := range schema.Fields {
		if present[f] {
			out = append(out, f)
			present[f] = false
		}
	}
	rest := make([]string, 0, len(cols))
	for _, c := range cols {
		if present[c] {
			rest = append(rest, c)
			present[c] = false
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// renderScalar turns a decoded JSON value into its cell string.
func renderScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(b)
	}
}

// parseCSV handles delimited or free text. Headerless canonical input is
// recognized when the first line names none of the canonical fields and the
// row width is exactly the canonical width.
func parseCSV(text string) *RawTable {
	records, warnings := readCSVRecords(text)
	if len(records) == 0 {
		t := NewRawTable()
		t.Warnings = append(t.Warnings, warnings...)
		if len(t.Warnings) == 0 {
			t.warnf("unable to parse input as a table")
		}
		return t
	}

	if headerless(text, records) {
		t := NewRawTable()
		t.Columns = append(t.Columns, schema.Fields...)
		for _, col := range t.Columns {
			t.Cells[col] = make([]string, 0, len(records))
		}
		for _, rec := range records {
			rec = padRow(rec, len(schema.Fields))
			for i, col := range t.Columns {
				t.Cells[col] = append(t.Cells[col], rec[i])
			}
		}
		t.Warnings = append(t.Warnings, warnings...)
		t.warnf("no header row detected; columns assigned positionally")
		return t
	}

	t := NewRawTable()
	t.Warnings = append(t.Warnings, warnings...)
	header := records[0]
	used := make(map[string]int, len(header))
	for _, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "column"
		}
		if n := used[h]; n > 0 {
			used[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		} else {
			used[h] = 1
		}
		t.Columns = append(t.Columns, h)
		t.Cells[h] = make([]string, 0, len(records)-1)
	}
	for _, rec := range records[1:] {
		rec = padRow(rec, len(t.Columns))
		for i, col := range t.Columns {
			t.Cells[col] = append(t.Cells[col], rec[i])
		}
	}
	return t
}

// readCSVRecords reads all records, first strictly, then retrying with lazy
// quotes and per-record skipping when strict parsing fails.
func readCSVRecords(text string) ([][]string, []string) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err == nil {
		return records, nil
	}

	warnings := []string{"strict parse failed; retrying with tolerant quoting"}
	r = csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	records = records[:0]
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				warnings = append(warnings, fmt.Sprintf("skipped malformed row: %v", err))
				continue
			}
			break
		}
		records = append(records, rec)
	}
	return records, warnings
}

// headerless reports whether the input has data rows but no header: at least
// two non-empty lines, a first line naming no canonical field, and rows that
// are exactly the canonical width.
func headerless(text string, records [][]string) bool {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return false
	}
	first := strings.ToLower(lines[0])
	for _, f := range schema.Fields {
		if strings.Contains(first, strings.ToLower(f)) {
			return false
		}
	}
	return len(records[0]) == len(schema.Fields)
}

func padRow(rec []string, width int) []string {
	if len(rec) == width {
		return rec
	}
	if len(rec) > width {
		return rec[:width]
	}
	out := make([]string, width)
	copy(out, rec)
	return out
}
