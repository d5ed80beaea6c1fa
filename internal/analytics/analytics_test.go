package analytics_test

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/distlab-cli/internal/analytics"
	"github.com/KaramelBytes/distlab-cli/internal/ingest"
	"github.com/KaramelBytes/distlab-cli/internal/quality"
	"github.com/KaramelBytes/distlab-cli/internal/standardize"
)

func table(t *testing.T, text string) *standardize.Table {
	t.Helper()
	tb, _ := standardize.Standardize(ingest.Parse(text), "test", nil, standardize.DefaultWeights())
	return tb
}

const sample = "SupplierID,Deliverdate,CustomerID,LicenseNo,Model,Number\n" +
	"S1,2024-01-01,C1,L1,M-1,10\n" +
	"S1,2024-01-02,C2,L1,M-2,20\n" +
	"S2,2024-01-03,C1,L2,M-1,30\n"

func TestKPIs(t *testing.T) {
	k := analytics.KPIs(table(t, sample))
	if k.Rows != 3 || k.Suppliers != 2 || k.Customers != 2 || k.TotalUnits != 60 {
		t.Fatalf("kpis = %+v", k)
	}
}

func TestFilterBySupplier(t *testing.T) {
	got := analytics.Filter(table(t, sample), analytics.FilterSpec{Suppliers: []string{"S1"}})
	if got.RowCount() != 2 {
		t.Fatalf("rows = %d", got.RowCount())
	}
}

func TestFilterConjunctive(t *testing.T) {
	got := analytics.Filter(table(t, sample), analytics.FilterSpec{
		Suppliers: []string{"S1"},
		Customers: []string{"C1"},
	})
	if got.RowCount() != 1 {
		t.Fatalf("rows = %d", got.RowCount())
	}
	if got.Cells["Model"][0] != "M-1" {
		t.Fatalf("wrong row kept")
	}
}

func TestFilterDateBoundsInclusive(t *testing.T) {
	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	got := analytics.Filter(table(t, sample), analytics.FilterSpec{DateFrom: &from, DateTo: &to})
	if got.RowCount() != 2 {
		t.Fatalf("rows = %d", got.RowCount())
	}
}

func TestFilterQtyRange(t *testing.T) {
	lo, hi := 10.0, 20.0
	got := analytics.Filter(table(t, sample), analytics.FilterSpec{MinQty: &lo, MaxQty: &hi})
	if got.RowCount() != 2 {
		t.Fatalf("rows = %d", got.RowCount())
	}
}

func TestGiniBounds(t *testing.T) {
	if g := analytics.Gini(nil); g != 0 {
		t.Fatalf("empty gini = %v", g)
	}
	if g := analytics.Gini([]float64{0, 0, 0}); g != 0 {
		t.Fatalf("all-zero gini = %v", g)
	}
	if g := analytics.Gini([]float64{5, 5, 5, 5}); math.Abs(g) > 1e-9 {
		t.Fatalf("equal distribution gini = %v", g)
	}
	g := analytics.Gini([]float64{0, 0, 0, 100})
	if g <= 0.5 || g > 1 {
		t.Fatalf("concentrated gini = %v", g)
	}
}

func TestLorenzCurve(t *testing.T) {
	pts := analytics.Lorenz([]float64{1, 1, 2})
	if len(pts) != 4 {
		t.Fatalf("points = %d", len(pts))
	}
	if pts[0].Population != 0 || pts[0].Share != 0 {
		t.Fatalf("curve must start at origin: %+v", pts[0])
	}
	last := pts[len(pts)-1]
	if math.Abs(last.Population-1) > 1e-9 || math.Abs(last.Share-1) > 1e-9 {
		t.Fatalf("curve must end at (1,1): %+v", last)
	}
}

func TestPareto(t *testing.T) {
	entries, head := analytics.Pareto(table(t, sample), "CustomerID", 0.6)
	if len(entries) != 2 {
		t.Fatalf("entries = %v", entries)
	}
	if entries[0].Label != "C1" || entries[0].Units != 40 {
		t.Fatalf("top entry = %+v", entries[0])
	}
	if math.Abs(entries[1].Cumulative-1) > 1e-9 {
		t.Fatalf("cumulative = %v", entries[1].Cumulative)
	}
	if head != 1 {
		t.Fatalf("head = %d", head)
	}
}

func TestConcentrate(t *testing.T) {
	c := analytics.Concentrate(table(t, sample))
	if c == nil {
		t.Fatalf("nil concentration")
	}
	if c.TopCustomer != "C1" || math.Abs(c.CustomerShare-40.0/60.0) > 1e-9 {
		t.Fatalf("concentration = %+v", c)
	}
	empty := analytics.Concentrate(table(t, ""))
	if empty != nil {
		t.Fatalf("expected nil for zero volume")
	}
}

func TestHealthScore(t *testing.T) {
	s := quality.Summarize(table(t, sample), nil)
	if got := analytics.HealthScore(s); got != 100 {
		t.Fatalf("clean dataset score = %d", got)
	}
	empty := quality.Summarize(table(t, ""), nil)
	if got := analytics.HealthScore(empty); got != 0 {
		t.Fatalf("empty dataset score = %d", got)
	}
}

func TestDailySeriesFillsGaps(t *testing.T) {
	in := "SupplierID,Deliverdate,CustomerID,Model,Number\n" +
		"S1,2024-01-01,C1,M-1,5\n" +
		"S1,2024-01-04,C1,M-1,5\n"
	series := analytics.DailySeries(table(t, in))
	if len(series) != 4 {
		t.Fatalf("series length = %d", len(series))
	}
	if series[1].Units != 0 || series[2].Units != 0 {
		t.Fatalf("gap days not zero-filled: %+v", series)
	}
}

func TestAnomalyCountFlagsSpike(t *testing.T) {
	var b strings.Builder
	b.WriteString("SupplierID,Deliverdate,CustomerID,Model,Number\n")
	for day := 1; day <= 20; day++ {
		units := 10
		if day == 15 {
			units = 500
		}
		fmt.Fprintf(&b, "S1,2024-01-%02d,C1,M-1,%d\n", day, units)
	}
	tb := table(t, b.String())
	if got := analytics.AnomalyCount(tb, 7, 2.5); got < 1 {
		t.Fatalf("spike not detected, anomalies = %d", got)
	}
	flat := analytics.AnomalyCount(table(t, sample), 7, 2.5)
	if flat != 0 {
		t.Fatalf("flat series anomalies = %d", flat)
	}
}
