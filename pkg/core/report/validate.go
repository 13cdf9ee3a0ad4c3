package report

import (
	"fmt"
	"math"

	"financial_analysis/pkg/core/calc"
)

// Validate is the completeness and safety check run before a report leaves
// the engine. Every failure wraps ErrInvariantViolation.
func (r *Report) Validate() error {
	if r.Categories == nil || r.CategoryCounts == nil {
		return violation("categories missing")
	}

	order := calc.Categories()
	if r.Categories.Len() != len(order) {
		return violation("expected %d categories, got %d", len(order), r.Categories.Len())
	}

	i, entries, defined, compared := 0, 0, 0, 0
	for pair := r.Categories.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != string(order[i]) {
			return violation("category %d is %s, want %s", i, pair.Key, order[i])
		}
		i++

		cr := pair.Value
		if cr == nil || cr.Metrics == nil {
			return violation("category %s is empty", pair.Key)
		}
		if cr.Count != cr.Metrics.Len() {
			return violation("category %s declares %d metrics, has %d", pair.Key, cr.Count, cr.Metrics.Len())
		}
		if n, _ := r.CategoryCounts.Get(pair.Key); n != cr.Count {
			return violation("category count for %s is %d, has %d", pair.Key, n, cr.Count)
		}

		for mp := cr.Metrics.Oldest(); mp != nil; mp = mp.Next() {
			entries++
			res := mp.Value
			m, ok := calc.Lookup(mp.Key)
			if !ok || string(m.Category) != pair.Key {
				return violation("metric %s misplaced in %s", mp.Key, pair.Key)
			}
			if !finite(res.Value) {
				return violation("metric %s is not finite", mp.Key)
			}
			if res.Value.Defined() {
				defined++
			}
			if c := res.Comparison; c != nil {
				if !res.Value.Defined() {
					return violation("metric %s compared without a value", mp.Key)
				}
				if !finiteFloats(c.Benchmark, c.Difference, c.PercentageDifference) {
					return violation("comparison for %s is not finite", mp.Key)
				}
				compared++
			}
		}
	}

	if r.CategoryCounts.Len() != len(order) {
		return violation("category counts cover %d categories", r.CategoryCounts.Len())
	}
	if r.TotalMetricCount != entries {
		return violation("declared %d metrics, produced %d", r.TotalMetricCount, entries)
	}
	if r.DefinedMetricCount != defined {
		return violation("declared %d defined metrics, found %d", r.DefinedMetricCount, defined)
	}
	if r.ComparedMetricCount != compared {
		return violation("declared %d compared metrics, found %d", r.ComparedMetricCount, compared)
	}

	hs := r.HealthScore
	if !finiteFloats(hs.Score) || hs.Score < 0 || hs.Score > 100 {
		return violation("health score %v out of range", hs.Score)
	}
	for _, c := range hs.Components {
		if !finite(c.Value) || !finiteFloats(c.Benchmark, c.Score, c.Max) {
			return violation("health component %s is not finite", c.Metric)
		}
	}

	for _, row := range r.ExecutiveSummary.SummaryTable {
		if !finite(row.Value) || !finite(row.Benchmark) {
			return violation("summary row %s is not finite", row.Metric)
		}
	}
	f := r.ExecutiveSummary.Forecast
	if !finite(f.NextYearRevenue) || !finite(f.RevenueGrowth) || !finite(f.ExpectedNetMargin) || !finite(f.ExpectedNetIncome) {
		return violation("forecast is not finite")
	}
	for _, c := range r.IntegrityChecks {
		if !finiteFloats(c.Gap) {
			return violation("integrity check %s is not finite", c.Name)
		}
	}
	return nil
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

func finite(v calc.Value) bool {
	f, ok := v.Float()
	return !ok || finiteFloats(f)
}

func finiteFloats(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
