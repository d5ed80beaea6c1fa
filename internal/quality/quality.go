// Package quality summarizes the health of a standardized dataset: structural
// gaps, duplicate rows, unparseable dates, and non-positive quantities.
package quality

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/distlab-cli/internal/schema"
	"github.com/KaramelBytes/distlab-cli/internal/standardize"
)

// Summary is the dataset quality report.
type Summary struct {
	Rows           int
	MissingColumns []string // canonical columns absent from the table
	Warnings       []string
	Duplicates     int
	UnparsedDates  int
	NonPositiveQty int
	IssueRows      int // rows carrying at least one quality flag
}

// Summarize inspects a standardized table. Parse warnings are echoed into the
// summary so one report covers the whole pipeline. A nil or empty table
// reports every canonical column missing and a synthetic warning.
func Summarize(t *standardize.Table, parseWarnings []string) *Summary {
	s := &Summary{}
	s.Warnings = append(s.Warnings, parseWarnings...)

	if t == nil || t.RowCount() == 0 {
		s.MissingColumns = append(s.MissingColumns, schema.Fields...)
		s.Warnings = append(s.Warnings, "Empty dataset")
		return s
	}

	s.Rows = t.RowCount()
	for _, f := range schema.Fields {
		if _, ok := t.Cells[f]; !ok {
			s.MissingColumns = append(s.MissingColumns, f)
		}
	}

	seen := make(map[string]bool, s.Rows)
	for i := 0; i < s.Rows; i++ {
		key := rowKey(t, i)
		if seen[key] {
			s.Duplicates++
		} else {
			seen[key] = true
		}
		if t.Meta[i].ParsedDate == nil {
			s.UnparsedDates++
		}
		if t.Numbers[i] <= 0 {
			s.NonPositiveQty++
		}
		if len(t.Meta[i].Flags) > 0 {
			s.IssueRows++
		}
	}
	return s
}

// Markdown renders the quality summary for terminal or file output.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATA QUALITY]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Duplicates: %d\n", s.Duplicates))
	b.WriteString(fmt.Sprintf("Unparsed dates: %d\n", s.UnparsedDates))
	b.WriteString(fmt.Sprintf("Non-positive quantities: %d\n", s.NonPositiveQty))
	b.WriteString(fmt.Sprintf("Rows with issues: %d\n", s.IssueRows))
	if len(s.MissingColumns) > 0 {
		b.WriteString(fmt.Sprintf("Missing columns: %s\n", strings.Join(s.MissingColumns, ", ")))
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range s.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}
	return b.String()
}

// rowKey joins the canonical values of a row, falling back to every column
// when the canonical set is absent.
func rowKey(t *standardize.Table, i int) string {
	cols := schema.Fields
	if _, ok := t.Cells[cols[0]]; !ok {
		cols = t.Columns
	}
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		vals := t.Cells[c]
		if i < len(vals) {
			parts = append(parts, vals[i])
		}
	}
	return strings.Join(parts, "\x1f")
}
