package standardize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/distlab-cli/internal/ingest"
	"github.com/KaramelBytes/distlab-cli/internal/schema"
)

// RowMeta is per-row provenance and quality metadata attached during
// standardization.
type RowMeta struct {
	RowID      string
	Source     string
	ImportedAt time.Time
	Flags      []string
	ParsedDate *time.Time
}

// FlagString joins quality flags pipe-separated, the form reports use.
func (m RowMeta) FlagString() string {
	return strings.Join(m.Flags, "|")
}

// Table is a standardized dataset: every canonical field is present as a
// column, source extras are preserved untouched, and Numbers carries the
// coerced quantity per row.
type Table struct {
	Columns []string // canonical fields first, then extras
	Cells   map[string][]string
	Numbers []float64
	Meta    []RowMeta
}

// NewTable returns an empty standardized table with all canonical columns.
func NewTable() *Table {
	t := &Table{Cells: make(map[string][]string)}
	for _, f := range schema.Fields {
		t.Columns = append(t.Columns, f)
		t.Cells[f] = nil
	}
	return t
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Meta)
}

// Column returns the values for a column, or nil when absent.
func (t *Table) Column(name string) []string {
	return t.Cells[name]
}

// Subset returns a new table containing only the given row indices, in order.
// Columns, metadata and coerced quantities are carried over; out-of-range
// indices are ignored.
func (t *Table) Subset(indices []int) *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Cells:   make(map[string][]string, len(t.Columns)),
	}
	for _, c := range t.Columns {
		out.Cells[c] = make([]string, 0, len(indices))
	}
	for _, i := range indices {
		if i < 0 || i >= t.RowCount() {
			continue
		}
		for _, c := range t.Columns {
			out.Cells[c] = append(out.Cells[c], t.Cells[c][i])
		}
		out.Numbers = append(out.Numbers, t.Numbers[i])
		out.Meta = append(out.Meta, t.Meta[i])
	}
	return out
}

// Report summarizes one standardization run.
type Report struct {
	ID              string
	Rows            int
	Mapping         map[string]string // canonical -> source
	Unmapped        []string          // canonical fields with no source column
	Extras          []string          // preserved non-canonical columns
	Counts          map[string]int    // named issue counters
	MissingRequired []string
	Confidence      int
	Warnings        []string
}

// Issue counter names.
const (
	CountBadNumber  = "Number_invalid_to_0"
	CountBadDate    = "Deliverdate_unparseable"
	CountDuplicates = "duplicates_flagged"
)

// ConfidenceWeights are the four components of the mapping-confidence score.
// The sum of the weights is the maximum score; the result is capped at 100.
type ConfidenceWeights struct {
	Mapped   int // scaled by mapped/total canonical fields
	Required int // granted only when no required field is missing
	Dates    int // scaled by the fraction of rows with a parsed date
	Quantity int // scaled by the fraction of rows with a positive quantity
}

// DefaultWeights returns the standard 60/20/10/10 split.
func DefaultWeights() ConfidenceWeights {
	return ConfidenceWeights{Mapped: 60, Required: 20, Dates: 10, Quantity: 10}
}

// Standardize maps a raw table onto the canonical schema, cleans and coerces
// values, flags quality issues per row, and scores the result. It never
// fails: empty or hopeless input produces an empty canonical table with
// confidence zero.
func Standardize(raw *ingest.RawTable, source string, overrides map[string]string, w ConfidenceWeights) (*Table, *Report) {
	now := time.Now().UTC()
	rep := &Report{
		ID:     uuid.NewString(),
		Counts: make(map[string]int),
	}
	if raw != nil {
		rep.Warnings = append(rep.Warnings, raw.Warnings...)
	}

	t := NewTable()
	if raw == nil {
		raw = ingest.NewRawTable()
	}
	n := raw.RowCount()
	rep.Rows = n

	mapping := schema.ResolveMapping(raw.Columns, overrides)
	rep.Mapping = mapping
	for _, f := range schema.Fields {
		if _, ok := mapping[f]; !ok {
			rep.Unmapped = append(rep.Unmapped, f)
		}
	}

	// Fill canonical columns from their mapped sources; unmapped fields are
	// empty for every row.
	usedSource := make(map[string]bool, len(mapping))
	for _, src := range mapping {
		usedSource[src] = true
	}
	for _, f := range schema.Fields {
		vals := make([]string, n)
		if src, ok := mapping[f]; ok {
			copy(vals, raw.Column(src))
		}
		t.Cells[f] = vals
	}

	// Extras ride along unmodified.
	for _, c := range raw.Columns {
		if usedSource[c] || schema.IsCanonical(c) {
			continue
		}
		rep.Extras = append(rep.Extras, c)
		t.Columns = append(t.Columns, c)
		vals := make([]string, n)
		copy(vals, raw.Column(c))
		t.Cells[c] = vals
	}

	t.Numbers = make([]float64, n)
	t.Meta = make([]RowMeta, n)
	dated := 0
	positive := 0
	seen := make(map[string]int, n)
	for i := 0; i < n; i++ {
		meta := RowMeta{
			RowID:      uuid.NewString(),
			Source:     source,
			ImportedAt: now,
		}

		for _, f := range schema.Fields {
			if f == "Number" {
				continue
			}
			t.Cells[f][i] = ingest.NormalizeText(strings.TrimSpace(t.Cells[f][i]))
		}

		num, ok := CoerceNumber(t.Cells["Number"][i])
		if !ok {
			rep.Counts[CountBadNumber]++
			meta.Flags = append(meta.Flags, "bad_number")
		}
		t.Numbers[i] = num
		t.Cells["Number"][i] = strconv.FormatFloat(num, 'f', -1, 64)
		if num > 0 {
			positive++
		}

		if dv := t.Cells["Deliverdate"][i]; dv != "" {
			if d, ok := ParseDate(dv); ok {
				meta.ParsedDate = &d
				dated++
			} else {
				rep.Counts[CountBadDate]++
				meta.Flags = append(meta.Flags, "bad_date")
			}
		} else {
			rep.Counts[CountBadDate]++
			meta.Flags = append(meta.Flags, "bad_date")
		}

		key := dupKey(t, i)
		if _, dup := seen[key]; dup {
			rep.Counts[CountDuplicates]++
			meta.Flags = append(meta.Flags, "duplicate")
		} else {
			seen[key] = i
		}

		t.Meta[i] = meta
	}

	if n == 0 {
		// No rows at all: every minimum field is missing, Number included.
		rep.MissingRequired = append(rep.MissingRequired, schema.MinimumFields...)
	} else {
		for _, f := range schema.MinimumFields {
			if f == "Number" {
				continue // zero is a legitimate coerced quantity
			}
			if allEmpty(t.Cells[f]) {
				rep.MissingRequired = append(rep.MissingRequired, f)
			}
		}
	}

	rep.Confidence = confidence(w, len(mapping), len(rep.MissingRequired) == 0, n, dated, positive)
	return t, rep
}

// dupKey joins the canonical values of a row; rows compare as literal strings.
func dupKey(t *Table, i int) string {
	parts := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		parts = append(parts, t.Cells[f][i])
	}
	return strings.Join(parts, "\x1f")
}

func allEmpty(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func confidence(w ConfidenceWeights, mapped int, required bool, rows, dated, positive int) int {
	if rows == 0 {
		return 0
	}
	score := int(math.Floor(float64(w.Mapped) * float64(mapped) / float64(len(schema.Fields))))
	if required {
		score += w.Required
	}
	score += int(math.Floor(float64(w.Dates) * float64(dated) / float64(rows)))
	score += int(math.Floor(float64(w.Quantity) * float64(positive) / float64(rows)))
	if score > 100 {
		score = 100
	}
	return score
}

// CoerceNumber parses a quantity cell. Thousands separators and stray
// non-numeric runes are stripped before parsing. An empty cell is zero and
// not an error; anything else that fails to parse reports false.
func CoerceNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	s = strings.ReplaceAll(s, ",", "")
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"01/02/2006",
	"01-02-2006",
	"1/2/2006",
}

// ParseDate parses a delivery-date cell. The cell is first reduced to digits
// and date separators; a bare 8-digit run is read as YYYYMMDD, anything else
// is tried against a fixed layout list.
func ParseDate(s string) (time.Time, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == '/' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return time.Time{}, false
	}
	if len(cleaned) == 8 && !strings.ContainsAny(cleaned, "-/") {
		if d, err := time.Parse("20060102", cleaned); err == nil {
			return d, true
		}
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, cleaned); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
