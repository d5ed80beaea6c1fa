// Package charts builds renderer-agnostic chart specifications from a
// standardized dataset. Everything here is plain data meant to be serialized
// as JSON and drawn elsewhere; no rendering happens in this package.
package charts

import (
	"time"

	"github.com/KaramelBytes/distlab-cli/internal/analytics"
	"github.com/KaramelBytes/distlab-cli/internal/standardize"
)

// SankeyNode is one node of the flow diagram, tagged with its stage.
type SankeyNode struct {
	Label string `json:"label"`
	Stage string `json:"stage"`
}

// SankeyLink connects two node indices with a unit volume.
type SankeyLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Value  float64 `json:"value"`
}

// SankeySpec is the supplier → license → model → customer flow.
type SankeySpec struct {
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

var sankeyStages = []struct {
	name   string
	column string
}{
	{"supplier", "SupplierID"},
	{"license", "LicenseNo"},
	{"model", "Model"},
	{"customer", "CustomerID"},
}

// Sankey aggregates unit flow through the four distribution stages, keeping
// the top n entities per stage by units. Rows whose entity fell outside the
// top n are dropped from the affected links.
func Sankey(t *standardize.Table, n int) SankeySpec {
	spec := SankeySpec{}
	if t.RowCount() == 0 {
		return spec
	}

	keep := make([]map[string]bool, len(sankeyStages))
	for si, stage := range sankeyStages {
		keep[si] = topN(t, stage.column, n)
	}

	index := make(map[[2]string]int)
	nodeID := func(stage, label string) int {
		key := [2]string{stage, label}
		if id, ok := index[key]; ok {
			return id
		}
		id := len(spec.Nodes)
		index[key] = id
		spec.Nodes = append(spec.Nodes, SankeyNode{Label: label, Stage: stage})
		return id
	}

	type edge struct{ src, dst int }
	flows := make(map[edge]float64)
	var order []edge
	for i := 0; i < t.RowCount(); i++ {
		for si := 0; si < len(sankeyStages)-1; si++ {
			from := t.Cells[sankeyStages[si].column][i]
			to := t.Cells[sankeyStages[si+1].column][i]
			if from == "" || to == "" || !keep[si][from] || !keep[si+1][to] {
				continue
			}
			e := edge{nodeID(sankeyStages[si].name, from), nodeID(sankeyStages[si+1].name, to)}
			if _, ok := flows[e]; !ok {
				order = append(order, e)
			}
			flows[e] += t.Numbers[i]
		}
	}
	for _, e := range order {
		spec.Links = append(spec.Links, SankeyLink{Source: e.src, Target: e.dst, Value: flows[e]})
	}
	return spec
}

// topN returns the labels of the n largest groups by units in a column.
func topN(t *standardize.Table, column string, n int) map[string]bool {
	entries, _ := analytics.Pareto(t, column, 1.0)
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Label] = true
	}
	return out
}

// PulsePoint is one day of the temporal pulse chart.
type PulsePoint struct {
	Date    time.Time `json:"date"`
	Units   float64   `json:"units"`
	Rolling float64   `json:"rolling"`
	Z       float64   `json:"z"`
	Anomaly bool      `json:"anomaly"`
}

// PulseSpec is the daily series with its rolling mean and anomaly markers.
type PulseSpec struct {
	Window    int          `json:"window"`
	Threshold float64      `json:"threshold"`
	Points    []PulsePoint `json:"points"`
}

// TemporalPulse builds the anomaly timeline chart.
func TemporalPulse(t *standardize.Table, window int, threshold float64) PulseSpec {
	p := analytics.ComputePulse(t, window, threshold)
	spec := PulseSpec{Window: window, Threshold: threshold}
	anomalous := make(map[int]bool, len(p.Anomalies))
	for _, i := range p.Anomalies {
		anomalous[i] = true
	}
	for i, pt := range p.Series {
		spec.Points = append(spec.Points, PulsePoint{
			Date:    pt.Date,
			Units:   pt.Units,
			Rolling: p.Rolling[i],
			Z:       p.Z[i],
			Anomaly: anomalous[i],
		})
	}
	return spec
}

// HeatmapSpec is a customer × model unit matrix over the top groups of each.
type HeatmapSpec struct {
	Customers []string    `json:"customers"`
	Models    []string    `json:"models"`
	Matrix    [][]float64 `json:"matrix"` // [customer][model]
}

// Heatmap builds the customer-by-model volume matrix, limited to the top n
// customers and models by units.
func Heatmap(t *standardize.Table, n int) HeatmapSpec {
	spec := HeatmapSpec{}
	customers, _ := analytics.Pareto(t, "CustomerID", 1.0)
	models, _ := analytics.Pareto(t, "Model", 1.0)
	if n > 0 && len(customers) > n {
		customers = customers[:n]
	}
	if n > 0 && len(models) > n {
		models = models[:n]
	}
	for _, c := range customers {
		spec.Customers = append(spec.Customers, c.Label)
	}
	for _, m := range models {
		spec.Models = append(spec.Models, m.Label)
	}

	modelIdx := make(map[string]int, len(spec.Models))
	for i, m := range spec.Models {
		modelIdx[m] = i
	}
	customerIdx := make(map[string]int, len(spec.Customers))
	for i, c := range spec.Customers {
		customerIdx[c] = i
	}
	spec.Matrix = make([][]float64, len(spec.Customers))
	for i := range spec.Matrix {
		spec.Matrix[i] = make([]float64, len(spec.Models))
	}
	for i := 0; i < t.RowCount(); i++ {
		ci, ok := customerIdx[t.Cells["CustomerID"][i]]
		if !ok {
			continue
		}
		mi, ok := modelIdx[t.Cells["Model"][i]]
		if !ok {
			continue
		}
		spec.Matrix[ci][mi] += t.Numbers[i]
	}
	return spec
}

// BarEntry is one labeled bar.
type BarEntry struct {
	Label string  `json:"label"`
	Units float64 `json:"units"`
}

// ClassicSpec bundles the four straightforward views: shipment timeline,
// model distribution, top customers, and license usage.
type ClassicSpec struct {
	Timeline     []analytics.DailyPoint `json:"timeline"`
	Models       []BarEntry             `json:"models"`
	TopCustomers []BarEntry             `json:"top_customers"`
	Licenses     []BarEntry             `json:"licenses"`
}

// Classic builds the classic chart set, limiting bar charts to the top n.
func Classic(t *standardize.Table, n int) ClassicSpec {
	return ClassicSpec{
		Timeline:     analytics.DailySeries(t),
		Models:       bars(t, "Model", n),
		TopCustomers: bars(t, "CustomerID", n),
		Licenses:     bars(t, "LicenseNo", n),
	}
}

func bars(t *standardize.Table, column string, n int) []BarEntry {
	entries, _ := analytics.Pareto(t, column, 1.0)
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	out := make([]BarEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, BarEntry{Label: e.Label, Units: e.Units})
	}
	return out
}
