package standardize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/distlab-cli/internal/schema"
)

// Markdown renders the standardization report for terminal or file output.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[STANDARDIZATION]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Confidence: %d/100\n\n", r.Confidence))

	b.WriteString("[MAPPING]\n")
	for _, f := range schema.Fields {
		if src, ok := r.Mapping[f]; ok {
			if src == f {
				b.WriteString(fmt.Sprintf("- %s\n", f))
			} else {
				b.WriteString(fmt.Sprintf("- %s <- %s\n", f, src))
			}
		} else {
			b.WriteString(fmt.Sprintf("- %s: (unmapped)\n", f))
		}
	}
	if len(r.Extras) > 0 {
		b.WriteString(fmt.Sprintf("Extras preserved: %s\n", strings.Join(r.Extras, ", ")))
	}

	if len(r.Counts) > 0 {
		b.WriteString("\n[ISSUES]\n")
		keys := make([]string, 0, len(r.Counts))
		for k := range r.Counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if r.Counts[k] > 0 {
				b.WriteString(fmt.Sprintf("- %s: %d\n", k, r.Counts[k]))
			}
		}
	}
	if len(r.MissingRequired) > 0 {
		b.WriteString(fmt.Sprintf("\n[MISSING REQUIRED]\n%s\n", strings.Join(r.MissingRequired, ", ")))
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}
	return b.String()
}
