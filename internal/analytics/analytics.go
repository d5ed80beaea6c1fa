// Package analytics derives metrics from a standardized dataset: filters,
// KPIs, anomaly detection, health scoring and concentration measures. All
// functions are pure; nothing here mutates the table.
package analytics

import (
	"math"
	"time"

	"github.com/KaramelBytes/distlab-cli/internal/quality"
	"github.com/KaramelBytes/distlab-cli/internal/standardize"
)

// FilterSpec selects rows. Set-membership filters are conjunctive and an
// empty set means "no filter" for that dimension. Bounds are inclusive.
type FilterSpec struct {
	Suppliers []string
	Customers []string
	Licenses  []string
	Models    []string
	DateFrom  *time.Time
	DateTo    *time.Time
	MinQty    *float64
	MaxQty    *float64
}

// Filter returns the subset of rows matching every active condition.
func Filter(t *standardize.Table, f FilterSpec) *standardize.Table {
	supplier := asSet(f.Suppliers)
	customer := asSet(f.Customers)
	license := asSet(f.Licenses)
	model := asSet(f.Models)

	var keep []int
	for i := 0; i < t.RowCount(); i++ {
		if !inSet(supplier, t.Cells["SupplierID"][i]) ||
			!inSet(customer, t.Cells["CustomerID"][i]) ||
			!inSet(license, t.Cells["LicenseNo"][i]) ||
			!inSet(model, t.Cells["Model"][i]) {
			continue
		}
		if f.DateFrom != nil || f.DateTo != nil {
			d := t.Meta[i].ParsedDate
			if d == nil {
				continue
			}
			if f.DateFrom != nil && d.Before(*f.DateFrom) {
				continue
			}
			if f.DateTo != nil && d.After(*f.DateTo) {
				continue
			}
		}
		if f.MinQty != nil && t.Numbers[i] < *f.MinQty {
			continue
		}
		if f.MaxQty != nil && t.Numbers[i] > *f.MaxQty {
			continue
		}
		keep = append(keep, i)
	}
	return t.Subset(keep)
}

func asSet(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	s := make(map[string]bool, len(vals))
	for _, v := range vals {
		s[v] = true
	}
	return s
}

func inSet(s map[string]bool, v string) bool {
	return s == nil || s[v]
}

// KPISet is the headline numbers for a dataset.
type KPISet struct {
	Rows       int     `json:"rows"`
	Suppliers  int     `json:"suppliers"`
	Customers  int     `json:"customers"`
	TotalUnits float64 `json:"total_units"`
}

// KPIs computes row count, distinct non-empty suppliers and customers, and
// the unit total.
func KPIs(t *standardize.Table) KPISet {
	k := KPISet{Rows: t.RowCount()}
	suppliers := make(map[string]bool)
	customers := make(map[string]bool)
	for i := 0; i < t.RowCount(); i++ {
		if v := t.Cells["SupplierID"][i]; v != "" {
			suppliers[v] = true
		}
		if v := t.Cells["CustomerID"][i]; v != "" {
			customers[v] = true
		}
		k.TotalUnits += t.Numbers[i]
	}
	k.Suppliers = len(suppliers)
	k.Customers = len(customers)
	return k
}

// HealthScore condenses a quality summary into a 0-100 score. Each missing
// canonical column costs 15 points; unparsed dates, duplicates and
// non-positive quantities cost up to 35, 25 and 25 points in proportion to
// their row fraction; each warning costs 5.
func HealthScore(s *quality.Summary) int {
	score := 100.0
	score -= 15 * float64(len(s.MissingColumns))
	if s.Rows > 0 {
		n := float64(s.Rows)
		score -= 35 * float64(s.UnparsedDates) / n
		score -= 25 * float64(s.Duplicates) / n
		score -= 25 * float64(s.NonPositiveQty) / n
	}
	score -= 5 * float64(len(s.Warnings))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

// Concentration is the share of total units held by the single largest
// supplier and customer.
type Concentration struct {
	TopSupplier   string  `json:"top_supplier"`
	SupplierShare float64 `json:"supplier_share"`
	TopCustomer   string  `json:"top_customer"`
	CustomerShare float64 `json:"customer_share"`
}

// Concentrate computes concentration risk. It returns nil when total units
// are not positive, since shares would be meaningless.
func Concentrate(t *standardize.Table) *Concentration {
	total := 0.0
	supplierUnits := make(map[string]float64)
	customerUnits := make(map[string]float64)
	for i := 0; i < t.RowCount(); i++ {
		total += t.Numbers[i]
		supplierUnits[t.Cells["SupplierID"][i]] += t.Numbers[i]
		customerUnits[t.Cells["CustomerID"][i]] += t.Numbers[i]
	}
	if total <= 0 {
		return nil
	}
	c := &Concentration{}
	c.TopSupplier, c.SupplierShare = topShare(supplierUnits, total)
	c.TopCustomer, c.CustomerShare = topShare(customerUnits, total)
	return c
}

func topShare(units map[string]float64, total float64) (string, float64) {
	best := ""
	bestUnits := math.Inf(-1)
	for k, v := range units {
		if v > bestUnits || (v == bestUnits && k < best) {
			best, bestUnits = k, v
		}
	}
	return best, bestUnits / total
}
