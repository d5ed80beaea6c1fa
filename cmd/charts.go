package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/distlab-cli/internal/charts"
)

var (
	chartType   string
	chartTopN   int
	chartOutput string
)

var chartsCmd = &cobra.Command{
	Use:   "charts [file]",
	Short: "Emit chart specifications as JSON",
	Long:  `Charts builds renderer-agnostic chart specs from a dataset (a file, stdin with '-', or the configured default when omitted): the supplier→license→model→customer sankey flow, the temporal pulse with anomaly markers, the customer×model heatmap, or the classic chart set.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadForAnalysis(args); err != nil {
			return err
		}
		n := chartTopN
		if n <= 0 {
			n = cfg.TopN
		}
		t := sess.Active
		var spec any
		switch chartType {
		case "sankey":
			spec = charts.Sankey(t, n)
		case "pulse":
			spec = charts.TemporalPulse(t, cfg.AnomalyWindow, cfg.AnomalyThreshold)
		case "heatmap":
			spec = charts.Heatmap(t, n)
		case "classic":
			spec = charts.Classic(t, n)
		default:
			return fmt.Errorf("unknown chart type %q (use sankey|pulse|heatmap|classic)", chartType)
		}
		return emitJSON(spec, chartOutput)
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().StringVarP(&chartType, "type", "t", "sankey", "chart type: sankey|pulse|heatmap|classic")
	chartsCmd.Flags().IntVar(&chartTopN, "top", 0, "limit to top N entities per stage (default from config)")
	chartsCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "write JSON to a file")
}
