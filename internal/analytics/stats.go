package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/distlab-cli/internal/standardize"
)

// DailyPoint is one day of the resampled unit series.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Units float64   `json:"units"`
}

// DailySeries sums units per calendar day over rows with a parsed date and
// fills gaps between the first and last day with zeros. Rows without a date
// are excluded.
func DailySeries(t *standardize.Table) []DailyPoint {
	byDay := make(map[time.Time]float64)
	var min, max time.Time
	for i := 0; i < t.RowCount(); i++ {
		d := t.Meta[i].ParsedDate
		if d == nil {
			continue
		}
		day := d.Truncate(24 * time.Hour)
		byDay[day] += t.Numbers[i]
		if min.IsZero() || day.Before(min) {
			min = day
		}
		if max.IsZero() || day.After(max) {
			max = day
		}
	}
	if len(byDay) == 0 {
		return nil
	}
	var series []DailyPoint
	for day := min; !day.After(max); day = day.AddDate(0, 0, 1) {
		series = append(series, DailyPoint{Date: day, Units: byDay[day]})
	}
	return series
}

// Pulse is the temporal anomaly analysis over the daily series: the rolling
// mean, standardized residuals, and the indices flagged as anomalous.
type Pulse struct {
	Series    []DailyPoint
	Rolling   []float64
	Z         []float64
	Anomalies []int
}

// ComputePulse runs the anomaly pass: a rolling mean over the daily series
// (window points, at least two to produce a value, overall mean before
// that), residuals standardized by their sample deviation (1.0 when the
// deviation is zero or undefined), and |z| at or above threshold flagged.
func ComputePulse(t *standardize.Table, window int, threshold float64) Pulse {
	series := DailySeries(t)
	p := Pulse{Series: series}
	n := len(series)
	if n == 0 {
		return p
	}

	overall := 0.0
	for _, pt := range series {
		overall += pt.Units
	}
	overall /= float64(n)

	p.Rolling = make([]float64, n)
	for i := range series {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		count := i - lo + 1
		if count < 2 {
			p.Rolling[i] = overall
			continue
		}
		sum := 0.0
		for j := lo; j <= i; j++ {
			sum += series[j].Units
		}
		p.Rolling[i] = sum / float64(count)
	}

	residuals := make([]float64, n)
	for i := range series {
		residuals[i] = series[i].Units - p.Rolling[i]
	}
	sd := sampleStdDev(residuals)
	if sd == 0 || math.IsNaN(sd) {
		sd = 1.0
	}

	p.Z = make([]float64, n)
	for i, r := range residuals {
		p.Z[i] = r / sd
		if math.Abs(p.Z[i]) >= threshold {
			p.Anomalies = append(p.Anomalies, i)
		}
	}
	return p
}

// AnomalyCount counts days whose standardized residual meets the threshold.
func AnomalyCount(t *standardize.Table, window int, threshold float64) int {
	return len(ComputePulse(t, window, threshold).Anomalies)
}

func sampleStdDev(vals []float64) float64 {
	n := len(vals)
	if n < 2 {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(n)
	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Gini computes the Gini coefficient of a value distribution, clamped to
// [0, 1]. Empty input or a non-positive total yields 0.
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	total := 0.0
	weighted := 0.0
	for i, v := range sorted {
		total += v
		weighted += float64(2*(i+1)-n-1) * v
	}
	if total <= 0 {
		return 0
	}
	g := weighted / (float64(n) * total)
	if g < 0 {
		return 0
	}
	if g > 1 {
		return 1
	}
	return g
}

// LorenzPoint is one point of the Lorenz curve: cumulative population share
// against cumulative value share.
type LorenzPoint struct {
	Population float64 `json:"population"`
	Share      float64 `json:"share"`
}

// Lorenz returns the Lorenz curve for a value distribution, starting at the
// origin. Nil for empty input or a non-positive total.
func Lorenz(values []float64) []LorenzPoint {
	n := len(values)
	if n == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	total := 0.0
	for _, v := range sorted {
		total += v
	}
	if total <= 0 {
		return nil
	}
	points := make([]LorenzPoint, 0, n+1)
	points = append(points, LorenzPoint{})
	cum := 0.0
	for i, v := range sorted {
		cum += v
		points = append(points, LorenzPoint{
			Population: float64(i+1) / float64(n),
			Share:      cum / total,
		})
	}
	return points
}

// ParetoEntry is one group in a descending Pareto breakdown.
type ParetoEntry struct {
	Label      string  `json:"label"`
	Units      float64 `json:"units"`
	Cumulative float64 `json:"cumulative"` // cumulative share of total
}

// Pareto groups units by the given column, sorts descending, and annotates
// cumulative shares. head is how many leading groups are needed to reach the
// cutoff share (e.g. 0.8). Ties sort by label for determinism.
func Pareto(t *standardize.Table, column string, cutoff float64) (entries []ParetoEntry, head int) {
	vals := t.Cells[column]
	if vals == nil {
		return nil, 0
	}
	sums := make(map[string]float64)
	total := 0.0
	for i := 0; i < t.RowCount(); i++ {
		sums[vals[i]] += t.Numbers[i]
		total += t.Numbers[i]
	}
	if total <= 0 {
		return nil, 0
	}
	for label, units := range sums {
		entries = append(entries, ParetoEntry{Label: label, Units: units})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Units != entries[j].Units {
			return entries[i].Units > entries[j].Units
		}
		return entries[i].Label < entries[j].Label
	})
	cum := 0.0
	for i := range entries {
		cum += entries[i].Units
		entries[i].Cumulative = cum / total
		if head == 0 && entries[i].Cumulative >= cutoff {
			head = i + 1
		}
	}
	return entries, head
}
