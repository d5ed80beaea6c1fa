package quality_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/distlab-cli/internal/ingest"
	"github.com/KaramelBytes/distlab-cli/internal/quality"
	"github.com/KaramelBytes/distlab-cli/internal/standardize"
)

func standardized(t *testing.T, text string) *standardize.Table {
	t.Helper()
	tb, _ := standardize.Standardize(ingest.Parse(text), "test", nil, standardize.DefaultWeights())
	return tb
}

func TestSummarizeEmpty(t *testing.T) {
	s := quality.Summarize(standardized(t, ""), nil)
	if s.Rows != 0 {
		t.Fatalf("rows = %d", s.Rows)
	}
	if len(s.MissingColumns) != 11 {
		t.Fatalf("missing columns = %v", s.MissingColumns)
	}
	found := false
	for _, w := range s.Warnings {
		if w == "Empty dataset" {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v", s.Warnings)
	}
}

func TestSummarizeCounts(t *testing.T) {
	in := "SupplierID,Deliverdate,CustomerID,Model,Number\n" +
		"S1,2024-01-01,C1,M-1,10\n" +
		"S1,2024-01-01,C1,M-1,10\n" + // duplicate
		"S2,notadate,C2,M-2,-3\n" // bad date, non-positive qty
	s := quality.Summarize(standardized(t, in), nil)
	if s.Rows != 3 {
		t.Fatalf("rows = %d", s.Rows)
	}
	if s.Duplicates != 1 {
		t.Fatalf("duplicates = %d", s.Duplicates)
	}
	if s.UnparsedDates != 1 {
		t.Fatalf("unparsed dates = %d", s.UnparsedDates)
	}
	if s.NonPositiveQty != 1 {
		t.Fatalf("non-positive = %d", s.NonPositiveQty)
	}
	if s.IssueRows != 2 {
		t.Fatalf("issue rows = %d", s.IssueRows)
	}
	if len(s.MissingColumns) != 0 {
		t.Fatalf("missing columns = %v", s.MissingColumns)
	}
}

func TestSummarizeEchoesWarnings(t *testing.T) {
	s := quality.Summarize(standardized(t, "SupplierID,Number\nS1,1"), []string{"upstream warning"})
	if len(s.Warnings) != 1 || s.Warnings[0] != "upstream warning" {
		t.Fatalf("warnings = %v", s.Warnings)
	}
	md := s.Markdown()
	if !strings.Contains(md, "upstream warning") {
		t.Fatalf("markdown missing warning:\n%s", md)
	}
}
