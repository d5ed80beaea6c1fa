package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	previewMapFlags []string
	previewRowCount int
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Stage a dataset and show the standardization report without importing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := parseOverrides(previewMapFlags)
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
		t, rep := sess.Preview(text, source, overrides)
		fmt.Print(rep.Markdown())
		fmt.Println()
		fmt.Print(previewRows(t, previewRowCount))
		if len(rep.MissingRequired) > 0 {
			fmt.Println("\nRequired fields unresolved; fix the mapping with --map or 'distlab import --map' before importing.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringSliceVar(&previewMapFlags, "map", nil, "mapping override Field=source (repeatable)")
	previewCmd.Flags().IntVar(&previewRowCount, "preview-rows", 5, "number of rows to preview")
}
