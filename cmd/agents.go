package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/distlab-cli/internal/agents"
)

var agentsOutput string

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Work with agent definition files",
}

var agentsStandardizeCmd = &cobra.Command{
	Use:   "standardize [file]",
	Short: "Normalize a nonstandard agents YAML into the canonical schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw string
		if len(args) == 1 {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read agents yaml: %w", err)
			}
			raw = string(b)
		}
		standardized, warnings := agents.Standardize(raw)
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "⚠", w)
		}
		return writeOutput(standardized, agentsOutput)
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.AddCommand(agentsStandardizeCmd)
	agentsStandardizeCmd.Flags().StringVarP(&agentsOutput, "output", "o", "", "write standardized YAML to a file")
}
