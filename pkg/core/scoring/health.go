// Package scoring combines one representative ratio per major category into
// a 0-100 financial health score.
package scoring

import (
	"math"

	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
)

// CategoryCap is the maximum contribution of one category.
const CategoryCap = 25.0

// Component is one scored category.
type Component struct {
	Category  string     `json:"category"`
	Metric    string     `json:"metric"`
	Value     calc.Value `json:"value"`
	Benchmark float64    `json:"benchmark"`
	Score     float64    `json:"score"`
	Max       float64    `json:"max"`
}

// Representative names the ratio scored for a category.
type Representative struct {
	Category string
	Metric   string
	Inverted bool
}

// Representatives is the fixed scoring subset, in output order.
var Representatives = []Representative{
	{Category: "liquidity", Metric: "current_ratio"},
	{Category: "profitability", Metric: "net_profit_margin"},
	{Category: "activity", Metric: "asset_turnover"},
	{Category: "leverage", Metric: "debt_to_equity", Inverted: true},
}

// Band is a score range with its label.
type Band struct {
	Min    float64
	Label  string
	Rating string
}

// Bands cover [0, 100] without gaps, highest first.
var Bands = []Band{
	{85, "excellent", "A+"},
	{75, "very good", "A"},
	{65, "good", "B"},
	{55, "acceptable", "C"},
	{math.Inf(-1), "needs improvement", "D"},
}

// HealthScore is the composite result.
type HealthScore struct {
	Score      float64     `json:"score"`
	Rating     string      `json:"rating"`
	Label      string      `json:"label"`
	Components []Component `json:"components"`
}

// Score computes the composite health score. An Undefined ratio or a missing
// benchmark contributes zero instead of failing the score.
func Score(results *calc.Results, benchmarks benchmark.Set) HealthScore {
	hs := HealthScore{Components: make([]Component, 0, len(Representatives))}
	for _, rep := range Representatives {
		value := results.Value(rep.Metric)
		bench, _ := benchmarks.Get(rep.Metric)

		var pts float64
		if rep.Inverted {
			pts = invertedPoints(value, bench)
		} else {
			pts = points(value, bench)
		}

		hs.Components = append(hs.Components, Component{
			Category:  rep.Category,
			Metric:    rep.Metric,
			Value:     value,
			Benchmark: bench,
			Score:     pts,
			Max:       CategoryCap,
		})
		hs.Score += pts
	}
	hs.Score = clamp(hs.Score, 0, 100)
	band := BandFor(hs.Score)
	hs.Label, hs.Rating = band.Label, band.Rating
	return hs
}

// points = min(value / benchmark x cap, cap), floored at zero.
func points(value calc.Value, bench float64) float64 {
	v, ok := value.Float()
	if !ok || !(bench > 0) {
		return 0
	}
	return clamp(v/bench*CategoryCap, 0, CategoryCap)
}

// invertedPoints scores a lower-is-better ratio: min(benchmark / value x cap, cap).
// A zero ratio (no debt) earns the full cap, a negative one nothing.
func invertedPoints(value calc.Value, bench float64) float64 {
	v, ok := value.Float()
	if !ok || !(bench > 0) || v < 0 {
		return 0
	}
	if v == 0 {
		return CategoryCap
	}
	return clamp(bench/v*CategoryCap, 0, CategoryCap)
}

// BandFor returns the band containing score.
func BandFor(score float64) Band {
	for _, b := range Bands {
		if score >= b.Min {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(hi, x))
}
