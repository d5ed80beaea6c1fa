package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/distlab-cli/internal/quality"
	"github.com/KaramelBytes/distlab-cli/internal/schema"
)

var (
	importMapFlags []string
	importOutput   string
)

// sessionExport is the JSON shape written by --output after an import.
type sessionExport struct {
	SessionID  string              `json:"session_id"`
	Source     string              `json:"source"`
	Rows       int                 `json:"rows"`
	Confidence int                 `json:"confidence"`
	Columns    []string            `json:"columns"`
	Records    []map[string]string `json:"records"`
	Flags      []string            `json:"flags"`
	Warnings   []string            `json:"warnings"`
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Stage a dataset and commit it as the active dataset",
	Long:  `Import parses and standardizes the input, applies any mapping overrides, and commits the result as the active dataset. It fails when required fields remain unresolved, printing the report so the mapping can be corrected.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := parseOverrides(importMapFlags)
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		text, source, err := readInput(path)
		if err != nil {
			return err
		}
		_, stagedRep := sess.Preview(text, source, overrides)
		rep, err := sess.Import()
		if err != nil {
			return fmt.Errorf("%w\n\n%s", err, stagedRep.Markdown())
		}
		fmt.Print(rep.Markdown())
		fmt.Println()
		fmt.Print(quality.Summarize(sess.Active, rep.Warnings).Markdown())

		if importOutput != "" {
			return emitJSON(buildExport(source), importOutput)
		}
		return nil
	},
}

func buildExport(source string) sessionExport {
	t := sess.Active
	rep := sess.ActiveReport
	ex := sessionExport{
		SessionID:  sess.ID,
		Source:     source,
		Rows:       t.RowCount(),
		Confidence: rep.Confidence,
		Columns:    t.Columns,
		Warnings:   rep.Warnings,
	}
	for i := 0; i < t.RowCount(); i++ {
		rec := make(map[string]string, len(schema.Fields))
		for _, f := range schema.Fields {
			rec[f] = t.Cells[f][i]
		}
		ex.Records = append(ex.Records, rec)
		ex.Flags = append(ex.Flags, t.Meta[i].FlagString())
	}
	return ex
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringSliceVar(&importMapFlags, "map", nil, "mapping override Field=source (repeatable)")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "write the imported dataset as JSON")
}
