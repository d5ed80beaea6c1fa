package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/distlab-cli/internal/analytics"
	"github.com/KaramelBytes/distlab-cli/internal/quality"
)

const labHelp = `Lab runs an interactive loop over the staging workflow. Typical flow:

  stage <file>         parse + standardize into the staging area
  map Field=source     adjust the column mapping and restandardize
  import               commit the staged dataset
  cancel               discard the staged dataset
  quality | analyze    inspect the active dataset
  default              load the configured default dataset
  status | help | quit`

var labCmd = &cobra.Command{
	Use:   "lab",
	Short: "Interactive staging workshop: preview, remap, import, cancel",
	Long:  labHelp,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("DistLab lab. Type 'help' for commands, 'quit' to exit.")
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for {
			fmt.Printf("distlab[%s]> ", sess.State())
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			verb, rest, _ := strings.Cut(line, " ")
			rest = strings.TrimSpace(rest)
			if verb == "quit" || verb == "exit" {
				break
			}
			if err := labDispatch(verb, rest); err != nil {
				fmt.Println("✗", err)
			}
		}
		return scanner.Err()
	},
}

func labDispatch(verb, rest string) error {
	switch verb {
	case "help":
		fmt.Println(labHelp)
	case "stage", "preview":
		text, source, err := readInput(rest)
		if err != nil {
			return err
		}
		_, rep := sess.Preview(text, source, nil)
		fmt.Print(rep.Markdown())
	case "map":
		overrides, err := parseOverrides(strings.Fields(rest))
		if err != nil {
			return err
		}
		_, rep, err := sess.ApplyMapping(overrides)
		if err != nil {
			return err
		}
		fmt.Print(rep.Markdown())
	case "import":
		rep, err := sess.Import()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Imported %d rows (confidence %d/100)\n", rep.Rows, rep.Confidence)
	case "cancel":
		sess.Cancel()
		fmt.Println("Staged dataset discarded.")
	case "default":
		rep, err := sess.UseDefault()
		if err != nil {
			return err
		}
		if rep == nil {
			fmt.Println("Default dataset already loaded this session.")
		} else {
			fmt.Printf("✓ Loaded default dataset: %d rows\n", rep.Rows)
		}
	case "quality":
		sum := quality.Summarize(sess.Active, sess.ActiveReport.Warnings)
		fmt.Print(sum.Markdown())
		fmt.Printf("Health score: %d/100\n", analytics.HealthScore(sum))
	case "analyze":
		k := analytics.KPIs(sess.Active)
		fmt.Printf("Rows: %d  Suppliers: %d  Customers: %d  Units: %.6g\n", k.Rows, k.Suppliers, k.Customers, k.TotalUnits)
		fmt.Printf("Anomalies: %d\n", analytics.AnomalyCount(sess.Active, cfg.AnomalyWindow, cfg.AnomalyThreshold))
	case "status":
		fmt.Printf("State: %s\n", sess.State())
		fmt.Printf("Active rows: %d\n", sess.Active.RowCount())
		if sess.Staged != nil {
			fmt.Printf("Staged rows: %d (confidence %d/100)\n", sess.Staged.RowCount(), sess.StagedReport.Confidence)
		}
	case "rows":
		fmt.Print(previewRows(sess.Active, 10))
	default:
		return fmt.Errorf("unknown command %q (try 'help')", verb)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(labCmd)
}
