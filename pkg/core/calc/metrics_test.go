package calc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial_analysis/pkg/models"
)

// samplePayload mirrors the demo company used by the analysis API.
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
			"net_cash_flow":       1000000,
		},
	}
}

func computeFor(t *testing.T, payload models.Payload) *Results {
	t.Helper()
	rec, err := models.NewFinancialRecord(models.CompanyInfo{Name: "Test"}, payload)
	require.NoError(t, err)
	return Compute(rec)
}

func requireValue(t *testing.T, r *Results, name string) float64 {
	t.Helper()
	v, ok := r.Value(name).Float()
	require.True(t, ok, "%s is undefined", name)
	return v
}

func TestCompute_SampleCompany(t *testing.T) {
	r := computeFor(t, samplePayload())

	cases := map[string]float64{
		"current_ratio":              2.5,
		"quick_ratio":                1.5,
		"cash_ratio":                 0.5,
		"working_capital":            3000000,
		"inventory_turnover":         3,
		"days_inventory_outstanding": 365.0 / 3,
		"days_sales_outstanding":     54.75,
		"cash_conversion_cycle":      365.0/3 + 54.75 - 365.0/7.5,
		"gross_profit_margin":        40,
		"operating_profit_margin":    15,
		"net_profit_margin":          12,
		"ebit":                       1500000,
		"roa":                        1200000.0 / 13000000 * 100,
		"roe":                        1200000.0 / 7000000 * 100,
		"debt_to_equity":             5200000.0 / 7000000,
		"debt_ratio":                 6000000.0 / 13000000,
		"interest_coverage":          7.5,
		"asset_turnover":             10.0 / 13,
		"free_cash_flow":             1800000,
		"operating_cash_flow_ratio":  0.9,
		"contribution_margin_ratio":  40,
		"break_even_revenue":         6250000,
		"margin_of_safety":           37.5,
		"vertical_net_income":        12,
		"vertical_total_equity":      7000000.0 / 13000000 * 100,
	}
	for name, want := range cases {
		assert.InDelta(t, want, requireValue(t, r, name), 1e-6, name)
	}
}

func TestCompute_DuPontReconcilesWithROE(t *testing.T) {
	r := computeFor(t, samplePayload())

	roe := requireValue(t, r, "roe")
	assert.InDelta(t, roe, requireValue(t, r, "dupont_roe"), 1e-9)
	assert.InDelta(t, roe, requireValue(t, r, "dupont_five_step_roe"), 1e-9)
	assert.InDelta(t, requireValue(t, r, "roa"), requireValue(t, r, "dupont_roa"), 1e-9)
}

func TestCompute_AltmanUsesBookEquityWithoutMarketCap(t *testing.T) {
	r := computeFor(t, samplePayload())

	x4 := requireValue(t, r, "altman_x4")
	assert.InDelta(t, 7.0/6.0, x4, 1e-9)

	want := 1.2*(3.0/13) + 1.4*(2.8/13) + 3.3*(1.5/13) + 0.6*(7.0/6) + 10.0/13
	assert.InDelta(t, want, requireValue(t, r, "altman_z_score"), 1e-9)
}

func TestCompute_MarketMetricsNeedMarketData(t *testing.T) {
	r := computeFor(t, samplePayload())
	for _, name := range []string{"price_to_earnings", "price_to_book", "market_to_book", "dividend_yield", "enterprise_value", "ev_to_ebitda"} {
		assert.False(t, r.Value(name).Defined(), name)
	}

	p := samplePayload()
	p[models.GroupIncomeStatement]["shares_outstanding"] = 1000000
	p[models.GroupMarketData] = map[string]float64{"share_price": 18}
	r = computeFor(t, p)

	assert.InDelta(t, 1.2, requireValue(t, r, "earnings_per_share"), 1e-9)
	assert.InDelta(t, 15.0, requireValue(t, r, "price_to_earnings"), 1e-9)
	assert.InDelta(t, 18000000.0+5200000-1000000, requireValue(t, r, "enterprise_value"), 1e-6)
	assert.InDelta(t, 18.0/7.0, requireValue(t, r, "price_to_book"), 1e-9)
}

func TestCompute_CurrentRatioUndefinedWithoutLiabilities(t *testing.T) {
	r := computeFor(t, models.Payload{
		models.GroupBalanceSheet: {"current_assets": 5000000, "current_liabilities": 0},
	})
	assert.False(t, r.Value("current_ratio").Defined())
	assert.False(t, r.Value("quick_ratio").Defined())
}

func TestCompute_GrowthAndHorizontal(t *testing.T) {
	p := samplePayload()
	p[models.GroupPriorYear] = map[string]float64{
		"revenue":    8000000,
		"net_income": 1500000,
	}
	r := computeFor(t, p)

	assert.InDelta(t, 25.0, requireValue(t, r, "revenue_growth"), 1e-9)
	assert.InDelta(t, -20.0, requireValue(t, r, "net_income_growth"), 1e-9)
	assert.InDelta(t, 125.0, requireValue(t, r, "horizontal_revenue"), 1e-9)
	assert.False(t, r.Value("total_assets_growth").Defined())
	assert.False(t, r.Value("horizontal_total_assets").Defined())
}

func TestCompute_BeneishWithUnchangedYear(t *testing.T) {
	p := samplePayload()
	p[models.GroupIncomeStatement]["depreciation_amortization"] = 400000
	p[models.GroupIncomeStatement]["selling_general_admin"] = 1500000
	p[models.GroupPriorYear] = map[string]float64{
		"accounts_receivable":       1500000,
		"revenue":                   10000000,
		"gross_profit":              4000000,
		"current_assets":            5000000,
		"fixed_assets":              8000000,
		"total_assets":              13000000,
		"depreciation_amortization": 400000,
		"selling_general_admin":     1500000,
		"total_liabilities":         6000000,
	}
	r := computeFor(t, p)

	for _, name := range []string{"beneish_dsri", "beneish_gmi", "beneish_aqi", "beneish_sgi", "beneish_depi", "beneish_sgai", "beneish_lvgi"} {
		assert.InDelta(t, 1.0, requireValue(t, r, name), 1e-9, name)
	}
	tata := (1200000.0 - 1800000.0) / 13000000.0
	assert.InDelta(t, tata, requireValue(t, r, "beneish_tata"), 1e-12)

	want := -4.84 + 0.92 + 0.528 + 0.404 + 0.892 + 0.115 - 0.172 + 4.679*tata - 0.327
	assert.InDelta(t, want, requireValue(t, r, "beneish_m_score"), 1e-9)
}

func TestCompute_EconomicValue(t *testing.T) {
	p := samplePayload()
	p[models.GroupMarketData] = map[string]float64{"cost_of_capital": 0.1}
	r := computeFor(t, p)

	nopat := 1500000 * (1 - 100000.0/1300000.0)
	invested := 5200000.0 + 7000000 - 1000000
	assert.InDelta(t, nopat, requireValue(t, r, "nopat"), 1e-6)
	assert.InDelta(t, 10.0, requireValue(t, r, "wacc"), 1e-9)
	assert.InDelta(t, nopat-0.1*invested, requireValue(t, r, "economic_value_added"), 1e-6)

	// Without rates there is no cost of equity and no EVA.
	r = computeFor(t, samplePayload())
	assert.False(t, r.Value("cost_of_equity").Defined())
	assert.False(t, r.Value("economic_value_added").Defined())
}

func TestCompute_CAPMWacc(t *testing.T) {
	p := samplePayload()
	p[models.GroupMarketData] = map[string]float64{"risk_free_rate": 0.04, "beta": 1.2, "market_risk_premium": 0.05}
	r := computeFor(t, p)

	re := CostOfEquityCAPM(0.04, 1.2, 0.05) * 100
	assert.InDelta(t, 10.0, re, 1e-9)
	assert.InDelta(t, re, requireValue(t, r, "cost_of_equity"), 1e-9)

	rd := 200000.0 / 5200000 * 100
	tax := 100000.0 / 1300000
	dw := 5200000.0 / 12200000
	assert.InDelta(t, WACC(rd, tax, dw, re, 1-dw), requireValue(t, r, "wacc"), 1e-9)
}

func TestCompute_AllZeroRecord(t *testing.T) {
	r := computeFor(t, nil)
	require.Equal(t, Total(), r.Len())

	for _, res := range r.All() {
		v, ok := res.Value.Float()
		if res.Metric.Kind == KindAmount {
			// Sums and differences of zero figures are a defined zero.
			if ok {
				assert.Equal(t, 0.0, v, res.Metric.Name)
			}
			continue
		}
		assert.False(t, ok, "%s should be undefined, got %v", res.Metric.Name, v)
	}
}

func TestCompute_NeverNonFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pick := []float64{0, 0, 1, -1, 1e-300, -1e-300, 1e300, -1e300, math.MaxFloat64, -math.MaxFloat64}

	for i := 0; i < 200; i++ {
		payload := models.Payload{}
		prior := map[string]float64{}
		for _, name := range models.FieldNames() {
			if rng.Intn(3) == 0 {
				continue
			}
			var v float64
			if rng.Intn(2) == 0 {
				v = pick[rng.Intn(len(pick))]
			} else {
				v = (rng.Float64() - 0.3) * 1e7
			}
			group, _ := models.GroupOf(name)
			if payload[group] == nil {
				payload[group] = map[string]float64{}
			}
			payload[group][name] = v
			if rng.Intn(2) == 0 {
				prior[name] = pick[rng.Intn(len(pick))]
			}
		}
		payload[models.GroupPriorYear] = prior

		rec, err := models.NewFinancialRecord(models.CompanyInfo{}, payload)
		require.NoError(t, err)
		res := Compute(rec)
		require.Equal(t, Total(), res.Len())
		for _, r := range res.All() {
			if v, ok := r.Value.Float(); ok {
				require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s = %v", r.Metric.Name, v)
			}
		}
	}
}

func TestContext_MetricMemoisesAndRejectsUnknown(t *testing.T) {
	rec, err := models.NewFinancialRecord(models.CompanyInfo{}, samplePayload())
	require.NoError(t, err)
	ctx := NewContext(rec)

	first := ctx.Metric("roic")
	assert.Equal(t, first, ctx.Metric("roic"))
	assert.Panics(t, func() { ctx.Metric("not_a_metric") })
	assert.Panics(t, func() { ctx.Prior("not_a_field") })
}

func TestCompute_NonPositiveBasesAreUndefined(t *testing.T) {
	p := samplePayload()
	p[models.GroupBalanceSheet]["total_equity"] = -2000000
	p[models.GroupIncomeStatement]["net_income"] = -500000
	p[models.GroupIncomeStatement]["shares_outstanding"] = 1000000
	p[models.GroupMarketData] = map[string]float64{"share_price": 18}
	r := computeFor(t, p)

	for _, name := range []string{
		"debt_to_equity", "liabilities_to_equity", "equity_multiplier", "long_term_debt_to_equity",
		"roe", "return_on_tangible_equity", "equity_turnover", "price_to_earnings", "price_to_book",
		"market_to_book", "dupont_equity_multiplier", "dupont_roe", "dupont_five_step_roe",
	} {
		assert.False(t, r.Value(name).Defined(), name)
	}
	assert.InDelta(t, -0.5, requireValue(t, r, "earnings_per_share"), 1e-9)
	assert.InDelta(t, -500000.0/13000000*100, requireValue(t, r, "roa"), 1e-9, "asset base stays positive")
}

func TestCompute_EPSGrowthDerivesPriorEPS(t *testing.T) {
	p := samplePayload()
	p[models.GroupIncomeStatement]["shares_outstanding"] = 1000000
	p[models.GroupMarketData] = map[string]float64{"share_price": 18}
	p[models.GroupPriorYear] = map[string]float64{"net_income": 1000000}
	r := computeFor(t, p)

	// 1.2 now against 1.0 derived from prior net income over current shares
	assert.InDelta(t, 20.0, requireValue(t, r, "eps_growth"), 1e-9)
	assert.InDelta(t, 15.0/20.0, requireValue(t, r, "peg_ratio"), 1e-9)

	p[models.GroupPriorYear] = map[string]float64{"net_income": 1000000, "shares_outstanding": 800000}
	r = computeFor(t, p)
	assert.InDelta(t, (1.2-1.25)/1.25*100, requireValue(t, r, "eps_growth"), 1e-9)
	assert.False(t, r.Value("peg_ratio").Defined(), "negative growth has no PEG")

	p[models.GroupPriorYear] = map[string]float64{"eps": 0.8, "net_income": 1000000}
	r = computeFor(t, p)
	assert.InDelta(t, 50.0, requireValue(t, r, "eps_growth"), 1e-9, "reported prior EPS wins")
}
