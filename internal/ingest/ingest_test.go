package ingest_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/distlab-cli/internal/ingest"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		in   string
		want ingest.Format
	}{
		{"", ingest.FormatEmpty},
		{"   \n\t", ingest.FormatEmpty},
		{"Datasets:   ", ingest.FormatEmpty},
		{`{"a":1}`, ingest.FormatJSON},
		{`[{"a":1}]`, ingest.FormatJSON},
		{"Data: [1,2]", ingest.FormatJSON},
		{"{\"a\":1}\n{\"a\":2}", ingest.FormatJSONL},
		{"[\n{\"a\":1},\n{\"a\":2}\n]", ingest.FormatJSON},
		{"{\n\"a\": 1\n}", ingest.FormatJSON},
		{"a,b\n1,2", ingest.FormatCSVOrText},
		{"just some text", ingest.FormatCSVOrText},
	}
	for _, c := range cases {
		if got := ingest.DetectFormat(c.in); got != c.want {
			t.Fatalf("DetectFormat(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDecodeBytesBOM(t *testing.T) {
	got := ingest.DecodeBytes([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	if got != "hi" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeBytesInvalid(t *testing.T) {
	got := ingest.DecodeBytes([]byte{'a', 0xFF, 'b'})
	if got != "ab" {
		t.Fatalf("got %q", got)
	}
}

func TestParseJSONDataUnwrap(t *testing.T) {
	tb := ingest.Parse(`{"data":[{"SupplierID":"S1","Number":10},{"SupplierID":"S2","Number":20}]}`)
	if tb.RowCount() != 2 {
		t.Fatalf("rows = %d", tb.RowCount())
	}
	if got := tb.Column("Number")[0]; got != "10" {
		t.Fatalf("Number[0] = %q", got)
	}
}

func TestParseJSONSingleObject(t *testing.T) {
	tb := ingest.Parse(`{"SupplierID":"S1","Model":"M-1"}`)
	if tb.RowCount() != 1 {
		t.Fatalf("rows = %d", tb.RowCount())
	}
	if got := tb.Column("Model")[0]; got != "M-1" {
		t.Fatalf("Model[0] = %q", got)
	}
}

func TestParseJSONSkipsNonObjects(t *testing.T) {
	tb := ingest.Parse(`[{"a":1}, 42, {"a":2}]`)
	if tb.RowCount() != 2 {
		t.Fatalf("rows = %d", tb.RowCount())
	}
	if len(tb.Warnings) == 0 {
		t.Fatalf("expected warning for skipped element")
	}
}

func TestParseJSONSmartQuotes(t *testing.T) {
	tb := ingest.Parse("{“SupplierID”: “S1”}")
	if tb.RowCount() != 1 || tb.Column("SupplierID")[0] != "S1" {
		t.Fatalf("smart quotes not normalized: %+v", tb)
	}
}

func TestParseJSONL(t *testing.T) {
	in := "{\"a\":\"x\"}\nnot json\n{\"a\":\"y\",\"b\":\"z\"}"
	tb := ingest.Parse(in)
	if tb.RowCount() != 2 {
		t.Fatalf("rows = %d", tb.RowCount())
	}
	found := false
	for _, w := range tb.Warnings {
		if strings.Contains(w, "line 2") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected line-numbered warning, got %v", tb.Warnings)
	}
	// Ragged record filled with empty string.
	if got := tb.Column("b")[0]; got != "" {
		t.Fatalf("b[0] = %q", got)
	}
}

func TestParseObjectPerLineKeepsAllRecords(t *testing.T) {
	tb := ingest.Parse("{\"SupplierID\":\"S1\"}\n{\"SupplierID\":\"S2\"}\n{\"SupplierID\":\"S3\"}")
	if tb.RowCount() != 3 {
		t.Fatalf("rows = %d, want 3", tb.RowCount())
	}
	if got := tb.Column("SupplierID")[2]; got != "S3" {
		t.Fatalf("SupplierID[2] = %q", got)
	}
}

func TestParseJSONTrailingContentFallsBack(t *testing.T) {
	tb := ingest.Parse(`{"a":1} trailing junk`)
	found := false
	for _, w := range tb.Warnings {
		if strings.Contains(w, "looked like JSON") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected fallback warning, got %v", tb.Warnings)
	}
}

func TestParseCSVHeadered(t *testing.T) {
	tb := ingest.Parse("supplier,qty\nS1,5\nS2,7")
	if tb.RowCount() != 2 {
		t.Fatalf("rows = %d", tb.RowCount())
	}
	if got := tb.Column("supplier")[1]; got != "S2" {
		t.Fatalf("supplier[1] = %q", got)
	}
}

func TestParseCSVHeaderless(t *testing.T) {
	row := "S1,2024-01-01,C1,L1,II,12345678901234,Device,LOT1,SN1,M-1,10"
	tb := ingest.Parse(row + "\n" + row)
	if tb.RowCount() != 2 {
		t.Fatalf("rows = %d", tb.RowCount())
	}
	if got := tb.Column("SupplierID")[0]; got != "S1" {
		t.Fatalf("SupplierID[0] = %q", got)
	}
	if got := tb.Column("Number")[1]; got != "10" {
		t.Fatalf("Number[1] = %q", got)
	}
}

func TestParseSingleLineIsHeader(t *testing.T) {
	// One line only: treated as a header row with no data.
	tb := ingest.Parse("S1,C1,M1")
	if tb.RowCount() != 0 {
		t.Fatalf("rows = %d", tb.RowCount())
	}
	if len(tb.Columns) != 3 {
		t.Fatalf("columns = %v", tb.Columns)
	}
}

func TestParseEmpty(t *testing.T) {
	tb := ingest.Parse("   ")
	if tb.RowCount() != 0 || len(tb.Columns) != 0 {
		t.Fatalf("expected empty table, got %+v", tb)
	}
}

func TestParseDuplicateHeaders(t *testing.T) {
	tb := ingest.Parse("id,id\n1,2")
	if len(tb.Columns) != 2 || tb.Columns[0] == tb.Columns[1] {
		t.Fatalf("duplicate headers not uniquified: %v", tb.Columns)
	}
}
