package benchmark

import "financial_analysis/pkg/core/calc"

// Tier is a performance bucket derived from the deviation from benchmark.
type Tier struct {
	Performance string `json:"performance"`
	Rating      string `json:"rating"`
}

var (
	TierExcellent  = Tier{"excellent", "A+"}
	TierVeryGood   = Tier{"very good", "A"}
	TierGood       = Tier{"good", "B"}
	TierAcceptable = Tier{"acceptable", "C"}
	TierWeak       = Tier{"weak", "D"}
)

// Classify maps a percentage deviation to a tier. Bounds are strict, so a
// value exactly at benchmark (0%) is "good".
//
//	> +10%        excellent  A+
//	  0% .. 10%   very good  A
//	-10% .. 0%    good       B
//	-20% .. -10%  acceptable C
//	< -20%        weak       D
func Classify(pct float64) Tier {
	switch {
	case pct > 10:
		return TierExcellent
	case pct > 0:
		return TierVeryGood
	case pct > -10:
		return TierGood
	case pct > -20:
		return TierAcceptable
	default:
		return TierWeak
	}
}

// Comparison is the outcome of comparing one metric with its benchmark.
type Comparison struct {
	Benchmark            float64 `json:"benchmark"`
	Difference           float64 `json:"difference"`
	PercentageDifference float64 `json:"percentage_difference"`
	Tier
}

// Compare returns the comparison of value against benchmark. ok is false
// when the value is Undefined or the benchmark is not positive; missing data
// never produces a tier.
//
// For lower-is-better metrics the tier is taken from the negated deviation;
// the reported percentage difference keeps its sign.
func Compare(value calc.Value, benchmark float64, dir calc.Direction) (Comparison, bool) {
	v, ok := value.Float()
	if !ok || !(benchmark > 0) {
		return Comparison{}, false
	}
	diff := v - benchmark
	pct := diff / benchmark * 100

	tierPct := pct
	if dir == calc.LowerIsBetter {
		tierPct = -pct
	}
	return Comparison{
		Benchmark:            benchmark,
		Difference:           diff,
		PercentageDifference: pct,
		Tier:                 Classify(tierPct),
	}, true
}

// CompareAll compares every defined result that has a benchmark in set.
func CompareAll(results *calc.Results, set Set) map[string]Comparison {
	out := make(map[string]Comparison)
	for _, r := range results.All() {
		bench, ok := set.Get(r.Metric.Name)
		if !ok {
			continue
		}
		if cmp, ok := Compare(r.Value, bench, r.Metric.Direction); ok {
			out[r.Metric.Name] = cmp
		}
	}
	return out
}
