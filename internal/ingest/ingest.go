package ingest

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Format is the detected shape of a pasted or uploaded dataset.
type Format int

const (
	FormatEmpty Format = iota
	FormatJSON
	FormatJSONL
	FormatCSVOrText
)

func (f Format) String() string {
	switch f {
	case FormatEmpty:
		return "empty"
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	default:
		return "csv_or_text"
	}
}

// DecodeBytes converts uploaded file bytes to text: UTF-8 as-is, UTF-8 with a
// BOM stripped, else a best-effort decode replacing invalid bytes.
func DecodeBytes(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			data = data[1:]
			continue
		}
		b.WriteRune(r)
		data = data[size:]
	}
	return b.String()
}

// NormalizeText replaces curly quotes and the fullwidth comma with their ASCII
// forms. Safe for JSON text and for individual extracted values; never apply
// it to raw CSV text, where it can corrupt quoted-field boundaries.
func NormalizeText(s string) string {
	r := strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
		"，", ",",
	)
	return r.Replace(s)
}

// stripPrefix removes a leading "Datasets:" or "Data:" tag, case-insensitively.
func stripPrefix(text string) string {
	for _, p := range []string{"datasets:", "data:"} {
		if len(text) >= len(p) && strings.EqualFold(text[:len(p)], p) {
			return strings.TrimSpace(text[len(p):])
		}
	}
	return text
}

// DetectFormat classifies trimmed input text. It never fails: anything that is
// not empty, JSON, or JSONL is treated as CSV-or-text.
func DetectFormat(text string) Format {
	text = stripPrefix(strings.TrimSpace(text))
	if text == "" {
		return FormatEmpty
	}
	if text[0] == '[' {
		return FormatJSON
	}
	// The line check runs before the first-character rule so that one object
	// per line is not mistaken for a single JSON document.
	jsonish := 0
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if strings.HasPrefix(line, "{") {
			jsonish++
		}
		if seen >= 10 {
			break
		}
	}
	if jsonish >= 2 {
		return FormatJSONL
	}
	if text[0] == '{' {
		return FormatJSON
	}
	return FormatCSVOrText
}
