package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/distlab-cli/internal/analytics"
	"github.com/KaramelBytes/distlab-cli/internal/quality"
	"github.com/KaramelBytes/distlab-cli/internal/standardize"
)

var (
	anaSuppliers []string
	anaCustomers []string
	anaLicenses  []string
	anaModels    []string
	anaFrom      string
	anaTo        string
	anaMinQty    float64
	anaMaxQty    float64
	anaParetoBy  string
	anaJSON      bool
	anaOutput    string
)

// analysisResult is the JSON shape of the analyze command.
type analysisResult struct {
	KPIs          analytics.KPISet         `json:"kpis"`
	HealthScore   int                      `json:"health_score"`
	Anomalies     int                      `json:"anomalies"`
	Concentration *analytics.Concentration `json:"concentration,omitempty"`
	Gini          float64                  `json:"gini"`
	Lorenz        []analytics.LorenzPoint  `json:"lorenz,omitempty"`
	Pareto        []analytics.ParetoEntry  `json:"pareto,omitempty"`
	ParetoHead    int                      `json:"pareto_head"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Compute KPIs, health, anomalies and concentration metrics",
	Long:  `Analyze loads a dataset (a file, stdin with '-', or the configured default when omitted), applies optional filters, and reports KPIs, the data health score, temporal anomalies, concentration risk, the Gini coefficient and a Pareto breakdown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadForAnalysis(args); err != nil {
			return err
		}
		filtered := analytics.Filter(sess.Active, buildFilter(cmd))

		sum := quality.Summarize(filtered, sess.ActiveReport.Warnings)
		res := analysisResult{
			KPIs:        analytics.KPIs(filtered),
			HealthScore: analytics.HealthScore(sum),
			Anomalies:   analytics.AnomalyCount(filtered, cfg.AnomalyWindow, cfg.AnomalyThreshold),
		}
		res.Concentration = analytics.Concentrate(filtered)
		res.Gini = analytics.Gini(customerUnits(filtered))
		res.Lorenz = analytics.Lorenz(customerUnits(filtered))
		res.Pareto, res.ParetoHead = analytics.Pareto(filtered, anaParetoBy, cfg.ParetoCutoff)

		if anaJSON {
			return emitJSON(res, anaOutput)
		}
		return writeOutput(renderAnalysis(res), anaOutput)
	},
}

// loadForAnalysis fills the active dataset from an explicit file or the
// session default.
func loadForAnalysis(args []string) error {
	if len(args) == 0 {
		_, err := sess.UseDefault()
		return err
	}
	text, source, err := readInput(args[0])
	if err != nil {
		return err
	}
	_, rep := sess.Preview(text, source, nil)
	if _, err := sess.Import(); err != nil {
		return fmt.Errorf("%w\n\n%s", err, rep.Markdown())
	}
	return nil
}

func buildFilter(cmd *cobra.Command) analytics.FilterSpec {
	f := analytics.FilterSpec{
		Suppliers: anaSuppliers,
		Customers: anaCustomers,
		Licenses:  anaLicenses,
		Models:    anaModels,
	}
	if d, ok := parseDateFlag(anaFrom); ok {
		f.DateFrom = &d
	}
	if d, ok := parseDateFlag(anaTo); ok {
		f.DateTo = &d
	}
	if cmd.Flags().Changed("min-qty") {
		v := anaMinQty
		f.MinQty = &v
	}
	if cmd.Flags().Changed("max-qty") {
		v := anaMaxQty
		f.MaxQty = &v
	}
	return f
}

func parseDateFlag(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if d, ok := standardize.ParseDate(s); ok {
		return d, true
	}
	fmt.Printf("⚠ Warning: ignoring unparseable date %q\n", s)
	return time.Time{}, false
}

func customerUnits(t *standardize.Table) []float64 {
	sums := make(map[string]float64)
	for i := 0; i < t.RowCount(); i++ {
		sums[t.Cells["CustomerID"][i]] += t.Numbers[i]
	}
	out := make([]float64, 0, len(sums))
	for _, v := range sums {
		out = append(out, v)
	}
	return out
}

func renderAnalysis(r analysisResult) string {
	var b strings.Builder
	b.WriteString("[KPIS]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.KPIs.Rows))
	b.WriteString(fmt.Sprintf("Suppliers: %d\n", r.KPIs.Suppliers))
	b.WriteString(fmt.Sprintf("Customers: %d\n", r.KPIs.Customers))
	b.WriteString(fmt.Sprintf("Total units: %.6g\n\n", r.KPIs.TotalUnits))

	b.WriteString("[HEALTH]\n")
	b.WriteString(fmt.Sprintf("Score: %d/100\n", r.HealthScore))
	b.WriteString(fmt.Sprintf("Temporal anomalies: %d\n\n", r.Anomalies))

	b.WriteString("[CONCENTRATION]\n")
	if r.Concentration == nil {
		b.WriteString("No positive unit volume; shares undefined.\n")
	} else {
		b.WriteString(fmt.Sprintf("Top supplier: %s (%.1f%%)\n", r.Concentration.TopSupplier, r.Concentration.SupplierShare*100))
		b.WriteString(fmt.Sprintf("Top customer: %s (%.1f%%)\n", r.Concentration.TopCustomer, r.Concentration.CustomerShare*100))
	}
	b.WriteString(fmt.Sprintf("Gini (customer units): %.3f\n", r.Gini))

	if len(r.Pareto) > 0 {
		b.WriteString(fmt.Sprintf("\n[PARETO %s]\n", strings.ToUpper(anaParetoBy)))
		for i, e := range r.Pareto {
			if i >= cfg.TopN {
				b.WriteString(fmt.Sprintf("... %d more groups\n", len(r.Pareto)-i))
				break
			}
			b.WriteString(fmt.Sprintf("- %s: %.6g (cum %.1f%%)\n", e.Label, e.Units, e.Cumulative*100))
		}
		b.WriteString(fmt.Sprintf("Groups to reach %.0f%% of units: %d\n", cfg.ParetoCutoff*100, r.ParetoHead))
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringSliceVar(&anaSuppliers, "supplier", nil, "filter by supplier (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&anaCustomers, "customer", nil, "filter by customer (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&anaLicenses, "license", nil, "filter by license (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&anaModels, "model", nil, "filter by model (repeatable)")
	analyzeCmd.Flags().StringVar(&anaFrom, "from", "", "inclusive start date (e.g. 2024-01-01)")
	analyzeCmd.Flags().StringVar(&anaTo, "to", "", "inclusive end date")
	analyzeCmd.Flags().Float64Var(&anaMinQty, "min-qty", 0, "inclusive minimum quantity")
	analyzeCmd.Flags().Float64Var(&anaMaxQty, "max-qty", 0, "inclusive maximum quantity")
	analyzeCmd.Flags().StringVar(&anaParetoBy, "pareto-by", "CustomerID", "column for the Pareto breakdown")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "emit JSON instead of text")
	analyzeCmd.Flags().StringVarP(&anaOutput, "output", "o", "", "write results to a file")
}
