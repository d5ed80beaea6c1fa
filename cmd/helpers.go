package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/distlab-cli/internal/ingest"
	"github.com/KaramelBytes/distlab-cli/internal/schema"
	"github.com/KaramelBytes/distlab-cli/internal/standardize"
	"github.com/KaramelBytes/distlab-cli/internal/utils"
)

// readInput loads dataset text from a file path, or stdin when path is empty
// or "-". The returned source label identifies provenance in row metadata.
func readInput(path string) (text, source string, err error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return ingest.DecodeBytes(b), "stdin", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read input: %w", err)
	}
	return ingest.DecodeBytes(b), filepath.Base(path), nil
}

// parseOverrides converts repeated "Field=source" flags into a mapping
// override table, rejecting unknown canonical fields early.
func parseOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		field, src, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --map %q (want Field=source)", p)
		}
		field = strings.TrimSpace(field)
		if !schema.IsCanonical(field) {
			return nil, fmt.Errorf("unknown canonical field %q in --map", field)
		}
		out[field] = strings.TrimSpace(src)
	}
	return out, nil
}

// writeOutput prints to stdout, or writes atomically when a path is given.
func writeOutput(content, path string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	if err := utils.SafeWriteFile(path, []byte(content)); err != nil {
		return err
	}
	fmt.Printf("✓ Wrote %s\n", path)
	return nil
}

// emitJSON pretty-prints a value to stdout or a file.
func emitJSON(v any, path string) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	return writeOutput(string(b), path)
}

// previewRows renders the first n rows of a table as aligned text.
func previewRows(t *standardize.Table, n int) string {
	if t.RowCount() == 0 {
		return "(no rows)\n"
	}
	if n > t.RowCount() {
		n = t.RowCount()
	}
	var b strings.Builder
	b.WriteString(strings.Join(schema.Fields, " | "))
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		vals := make([]string, 0, len(schema.Fields))
		for _, f := range schema.Fields {
			vals = append(vals, t.Cells[f][i])
		}
		b.WriteString(strings.Join(vals, " | "))
		if flags := t.Meta[i].FlagString(); flags != "" {
			b.WriteString("  [" + flags + "]")
		}
		b.WriteString("\n")
	}
	if t.RowCount() > n {
		b.WriteString(fmt.Sprintf("... %d more rows\n", t.RowCount()-n))
	}
	return b.String()
}
