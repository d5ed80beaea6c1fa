package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/distlab-cli/internal/analytics"
	"github.com/KaramelBytes/distlab-cli/internal/quality"
)

var (
	loadMap     []string
	loadPreview int
)

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a dataset into the session and report its quality",
	Long:  `Load standardizes a dataset file (or stdin with '-') into the active dataset. Without an argument it loads the configured default dataset; a missing default is not an error and yields an empty dataset.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			rep, err := sess.UseDefault()
			if err != nil {
				return err
			}
			if rep == nil {
				fmt.Println("Default dataset already loaded this session.")
				return nil
			}
			fmt.Print(rep.Markdown())
		} else {
			overrides, err := parseOverrides(loadMap)
			if err != nil {
				return err
			}
			text, source, err := readInput(args[0])
			if err != nil {
				return err
			}
			_, rep := sess.Preview(text, source, overrides)
			if _, err := sess.Import(); err != nil {
				return fmt.Errorf("%w\n\n%s", err, rep.Markdown())
			}
			fmt.Print(rep.Markdown())
		}

		sum := quality.Summarize(sess.Active, sess.ActiveReport.Warnings)
		fmt.Println()
		fmt.Print(sum.Markdown())
		fmt.Printf("Health score: %d/100\n\n", analytics.HealthScore(sum))
		fmt.Print(previewRows(sess.Active, loadPreview))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringSliceVar(&loadMap, "map", nil, "mapping override Field=source (repeatable)")
	loadCmd.Flags().IntVar(&loadPreview, "preview-rows", 5, "number of rows to preview")
}
