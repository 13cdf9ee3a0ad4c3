package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
	"financial_analysis/pkg/models"
)

func resultsFor(t *testing.T, payload models.Payload) *calc.Results {
	t.Helper()
	rec, err := models.NewFinancialRecord(models.CompanyInfo{}, payload)
	require.NoError(t, err)
	return calc.Compute(rec)
}

func TestScore_AtBenchmarkEveryCategoryScoresCap(t *testing.T) {
	// current 2.0, net margin 12%, asset turnover 1.2, D/E 0.5
	res := resultsFor(t, models.Payload{
		models.GroupBalanceSheet: {
			"current_assets":      2000,
			"current_liabilities": 1000,
			"total_assets":        10000,
			"total_debt":          2000,
			"total_equity":        4000,
		},
		models.GroupIncomeStatement: {"revenue": 12000, "net_income": 1440},
	})

	hs := Score(res, benchmark.Default().For("", nil))
	require.Len(t, hs.Components, 4)
	for _, c := range hs.Components {
		assert.InDelta(t, CategoryCap, c.Score, 1e-9, c.Metric)
	}
	assert.InDelta(t, 100.0, hs.Score, 1e-9)
	assert.Equal(t, "A+", hs.Rating)
	assert.Equal(t, "excellent", hs.Label)
}

func TestScore_UndefinedContributesZero(t *testing.T) {
	res := resultsFor(t, nil)
	hs := Score(res, benchmark.Default().For("", nil))

	assert.Equal(t, 0.0, hs.Score)
	assert.Equal(t, "needs improvement", hs.Label)
	assert.Equal(t, "D", hs.Rating)
	for _, c := range hs.Components {
		assert.False(t, c.Value.Defined())
	}
}

func TestScore_PartialCredit(t *testing.T) {
	// current ratio 1.0 vs 2.0 -> 12.5 points; everything else undefined
	res := resultsFor(t, models.Payload{
		models.GroupBalanceSheet: {"current_assets": 1000, "current_liabilities": 1000},
	})
	hs := Score(res, benchmark.Default().For("", nil))
	assert.InDelta(t, 12.5, hs.Score, 1e-9)
}

func TestInvertedPoints(t *testing.T) {
	assert.InDelta(t, 25.0, invertedPoints(calc.Of(0.5), 0.5), 1e-9)
	assert.InDelta(t, 12.5, invertedPoints(calc.Of(1.0), 0.5), 1e-9)
	assert.InDelta(t, 25.0, invertedPoints(calc.Of(0.1), 0.5), 1e-9, "capped")
	assert.Equal(t, 25.0, invertedPoints(calc.Of(0), 0.5), "no debt")
	assert.Equal(t, 0.0, invertedPoints(calc.Of(-0.4), 0.5))
	assert.Equal(t, 0.0, invertedPoints(calc.Undefined, 0.5))
	assert.Equal(t, 0.0, invertedPoints(calc.Of(0.5), 0))
}

func TestPoints_NegativeValueFloorsAtZero(t *testing.T) {
	assert.Equal(t, 0.0, points(calc.Of(-5), 12))
	assert.Equal(t, 25.0, points(calc.Of(48), 12))
}

func TestBandFor_CoversRange(t *testing.T) {
	cases := map[float64]string{
		100:   "excellent",
		85:    "excellent",
		84.99: "very good",
		75:    "very good",
		65:    "good",
		55:    "acceptable",
		54.99: "needs improvement",
		0:     "needs improvement",
	}
	for score, label := range cases {
		assert.Equal(t, label, BandFor(score).Label, "score %v", score)
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	set := benchmark.Default().For("", nil)
	for i := 0; i < 500; i++ {
		r := func() float64 { return (rng.Float64() - 0.4) * 1e6 }
		res := resultsFor(t, models.Payload{
			models.GroupBalanceSheet: {
				"current_assets":      r(),
				"current_liabilities": r(),
				"total_assets":        r(),
				"total_debt":          r(),
				"total_equity":        r(),
			},
			models.GroupIncomeStatement: {"revenue": r(), "net_income": r()},
		})
		hs := Score(res, set)
		assert.GreaterOrEqual(t, hs.Score, 0.0)
		assert.LessOrEqual(t, hs.Score, 100.0)
	}
}

func TestScore_NegativeEquityEarnsNoLeveragePoints(t *testing.T) {
	res := resultsFor(t, models.Payload{
		models.GroupBalanceSheet: {"total_assets": 6000, "total_debt": 8000, "total_equity": -2000},
	})
	hs := Score(res, benchmark.Default().For("", nil))
	require.Len(t, hs.Components, 4)
	lev := hs.Components[3]
	assert.Equal(t, "debt_to_equity", lev.Metric)
	assert.False(t, lev.Value.Defined())
	assert.Equal(t, 0.0, lev.Score)
}
