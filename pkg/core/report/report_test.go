package report

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
	"financial_analysis/pkg/core/narrative"
	"financial_analysis/pkg/core/scoring"
	"financial_analysis/pkg/models"
)

var fixedTime = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func samplePayload() models.Payload {
	return models.Payload{
		models.GroupBalanceSheet: {
			"current_assets":      5000000,
			"cash":                1000000,
			"accounts_receivable": 1500000,
			"inventory":           2000000,
			"fixed_assets":        8000000,
			"total_assets":        13000000,
			"current_liabilities": 2000000,
			"accounts_payable":    800000,
			"short_term_debt":     1200000,
			"long_term_debt":      4000000,
			"total_debt":          5200000,
			"retained_earnings":   2800000,
			"total_equity":        7000000,
		},
		models.GroupIncomeStatement: {
			"revenue":            10000000,
			"cost_of_goods_sold": 6000000,
			"gross_profit":       4000000,
			"operating_expenses": 2500000,
			"operating_profit":   1500000,
			"interest_expense":   200000,
			"pre_tax_income":     1300000,
			"tax_expense":        100000,
			"net_income":         1200000,
		},
		models.GroupCashFlow: {
			"operating_cash_flow": 1800000,
			"investing_cash_flow": -500000,
			"financing_cash_flow": -300000,
		},
	}
}

func build(t *testing.T, payload models.Payload) *Report {
	t.Helper()
	rec, err := models.NewFinancialRecord(models.CompanyInfo{Name: "Acme"}, payload)
	require.NoError(t, err)

	results := calc.Compute(rec)
	set := benchmark.Default().For("", rec.IndustryAverages())
	cmps := benchmark.CompareAll(results, set)
	n, err := narrative.NewGenerator(nil).Generate(results, cmps)
	require.NoError(t, err)

	r, err := Build(Input{
		Metadata: Metadata{
			CompanyName:   "Acme",
			AnalysisYears: 1,
			Language:      "en",
			GeneratedAt:   fixedTime,
		},
		Record:      rec,
		Results:     results,
		Comparisons: cmps,
		Health:      scoring.Score(results, set),
		Narrative:   n,
	})
	require.NoError(t, err)
	return r
}

func metricValue(t *testing.T, r *Report, name string) float64 {
	t.Helper()
	entry, ok := r.Metric(name)
	require.True(t, ok, name)
	v, ok := entry.Value.Float()
	require.True(t, ok, "%s is undefined", name)
	return v
}

func TestBuild_CountsAreComputed(t *testing.T) {
	r := build(t, samplePayload())

	assert.Equal(t, calc.Total(), r.TotalMetricCount)
	sum := 0
	for pair := r.CategoryCounts.Oldest(); pair != nil; pair = pair.Next() {
		sum += pair.Value
	}
	assert.Equal(t, r.TotalMetricCount, sum)

	var keys []string
	for pair := r.Categories.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	var want []string
	for _, c := range calc.Categories() {
		want = append(want, string(c))
	}
	assert.Equal(t, want, keys)
	assert.Positive(t, r.ComparedMetricCount)
	assert.LessOrEqual(t, r.ComparedMetricCount, r.DefinedMetricCount)
}

func TestBuild_CurrentRatioAtBenchmark(t *testing.T) {
	r := build(t, models.Payload{
		models.GroupBalanceSheet: {"current_assets": 5000000, "current_liabilities": 2500000},
	})
	entry, ok := r.Metric("current_ratio")
	require.True(t, ok)
	v, _ := entry.Value.Float()
	assert.Equal(t, 2.0, v)
	require.NotNil(t, entry.Comparison)
	assert.Equal(t, 0.0, entry.Comparison.PercentageDifference)
	assert.Equal(t, benchmark.TierGood, entry.Comparison.Tier)
}

func TestBuild_ZeroLiabilitiesExcludedFromComparison(t *testing.T) {
	r := build(t, models.Payload{
		models.GroupBalanceSheet: {"current_assets": 5000000},
	})
	entry, ok := r.Metric("current_ratio")
	require.True(t, ok)
	assert.False(t, entry.Value.Defined())
	assert.Nil(t, entry.Comparison)
}

func TestBuild_NetProfitMargin(t *testing.T) {
	r := build(t, models.Payload{
		models.GroupIncomeStatement: {"revenue": 10000000, "net_income": 1200000},
	})
	assert.Equal(t, 12.0, metricValue(t, r, "net_profit_margin"))
}

func TestBuild_DisplayRounding(t *testing.T) {
	r := build(t, samplePayload())
	assert.Equal(t, 122.0, metricValue(t, r, "days_inventory_outstanding"))
	assert.Equal(t, 0.77, metricValue(t, r, "asset_turnover"))
	assert.Equal(t, 17.14, metricValue(t, r, "roe"))
	assert.Equal(t, 3000000.0, metricValue(t, r, "working_capital"))
}

func TestBuild_AllZeroRecordIsComplete(t *testing.T) {
	r := build(t, nil)

	assert.Equal(t, calc.Total(), r.TotalMetricCount)
	assert.Equal(t, 0, r.ComparedMetricCount)
	assert.Equal(t, 0.0, r.HealthScore.Score)
	for pair := r.Categories.Oldest(); pair != nil; pair = pair.Next() {
		for mp := pair.Value.Metrics.Oldest(); mp != nil; mp = mp.Next() {
			if mp.Value.Kind != calc.KindAmount {
				assert.False(t, mp.Value.Value.Defined(), mp.Key)
			}
		}
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "NaN")
	assert.NotContains(t, string(data), "Inf")
	assert.Contains(t, string(data), `"current_ratio":{"name":"current_ratio","label":"Current Ratio","kind":"ratio","direction":"higher_is_better","value":null}`)
}

func TestBuild_ByteIdenticalJSON(t *testing.T) {
	first, err := json.Marshal(build(t, samplePayload()))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(build(t, samplePayload()))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestBuild_JSONKeepsCategoryOrder(t *testing.T) {
	data, err := json.Marshal(build(t, samplePayload()))
	require.NoError(t, err)
	s := string(data)

	last := -1
	for _, c := range calc.Categories() {
		idx := strings.Index(s, `"`+string(c)+`":{"name":"`+string(c)+`"`)
		require.Greater(t, idx, last, "category %s out of order", c)
		last = idx
	}
}

func TestBuild_Forecast(t *testing.T) {
	payload := samplePayload()
	payload[models.GroupPriorYear] = map[string]float64{"revenue": 8000000}
	r := build(t, payload)

	fc := r.ExecutiveSummary.Forecast
	rev, ok := fc.NextYearRevenue.Float()
	require.True(t, ok)
	assert.Equal(t, 12500000.0, rev)
	ni, ok := fc.ExpectedNetIncome.Float()
	require.True(t, ok)
	assert.Equal(t, 1500000.0, ni)
	assert.True(t, r.Metadata.HasPriorYear)

	noPrior := build(t, samplePayload())
	assert.False(t, noPrior.ExecutiveSummary.Forecast.NextYearRevenue.Defined())
}

func TestBuild_ExecutiveSummary(t *testing.T) {
	r := build(t, samplePayload())
	es := r.ExecutiveSummary

	require.Len(t, es.SummaryTable, len(scoring.Representatives))
	assert.Equal(t, "current_ratio", es.SummaryTable[0].Metric)
	assert.Equal(t, "excellent", es.SummaryTable[0].Performance)
	assert.LessOrEqual(t, len(es.TopRecommendations), narrative.SummaryRecommendations)
	assert.Contains(t, es.KeyFindings, "Liquidity: Current Ratio 2.50 (excellent against benchmark 2.00).")
	assert.Equal(t, r.Narrative.SWOT, es.SWOT)
}

func TestValidate_DetectsViolations(t *testing.T) {
	cases := map[string]func(r *Report){
		"declared total": func(r *Report) { r.TotalMetricCount++ },
		"category count": func(r *Report) {
			cr, _ := r.Categories.Get("liquidity")
			cr.Count--
		},
		"category order": func(r *Report) {
			cr, _ := r.Categories.Delete("liquidity")
			r.Categories.Set("liquidity", cr)
		},
		"non-finite comparison": func(r *Report) {
			cr, _ := r.Categories.Get("liquidity")
			entry, _ := cr.Metrics.Get("current_ratio")
			cmp := *entry.Comparison
			cmp.PercentageDifference = math.NaN()
			entry.Comparison = &cmp
			cr.Metrics.Set("current_ratio", entry)
		},
		"score range":    func(r *Report) { r.HealthScore.Score = 101 },
		"compared count": func(r *Report) { r.ComparedMetricCount = 0 },
	}
	for name, mutate := range cases {
		r := build(t, samplePayload())
		require.NoError(t, r.Validate(), name)
		mutate(r)
		err := r.Validate()
		assert.True(t, errors.Is(err, ErrInvariantViolation), "%s: %v", name, err)
	}
}

func TestRoundAndFormat(t *testing.T) {
	v, _ := Round(calc.Of(2.675), calc.KindRatio).Float()
	assert.Equal(t, 2.68, v)
	v, _ = Round(calc.Of(-2.5), calc.KindDays).Float()
	assert.Equal(t, -3.0, v)
	assert.False(t, Round(calc.Undefined, calc.KindRatio).Defined())

	assert.Equal(t, "12.00%", Format(calc.Of(12), calc.KindPercent))
	assert.Equal(t, "122 days", Format(calc.Of(121.6667), calc.KindDays))
	assert.Equal(t, "n/a", Format(calc.Undefined, calc.KindRatio))
}

func TestMarkdownAndHTML(t *testing.T) {
	r := build(t, samplePayload())

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Financial Analysis: Acme\n"))
	assert.Contains(t, md, "| Liquidity | Current Ratio | 2.50 | 2.00 | excellent | A+ |")
	assert.Contains(t, md, "### Strengths")
	assert.Contains(t, md, "Generated: 2026-03-31 12:00 UTC")

	html, err := r.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Financial Analysis: Acme</h1>")
	assert.Contains(t, html, "<table>")
}

func TestBuild_NilResults(t *testing.T) {
	_, err := Build(Input{})
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestBuild_IntegrityChecks(t *testing.T) {
	r := build(t, models.Payload{
		models.GroupBalanceSheet: {"total_assets": 1000, "total_liabilities": 300, "total_equity": 500},
	})
	require.Len(t, r.IntegrityChecks, 1)
	assert.False(t, r.IntegrityChecks[0].Balanced)
	assert.Equal(t, 200.0, r.IntegrityChecks[0].Gap)
	assert.Contains(t, r.ExecutiveSummary.KeyFindings,
		"Data check: balance sheet out of balance by 200.00 (assets 1000.00, liabilities 300.00, equity 500.00).")

	r = build(t, nil)
	assert.NotNil(t, r.IntegrityChecks)
	assert.Empty(t, r.IntegrityChecks)
}
