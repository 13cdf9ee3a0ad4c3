package calc

// Beneish M-Score variables. Each index compares the current period with
// the prior year, so all of them are Undefined without prior-year figures.
//
// M = -4.84 + 0.92*DSRI + 0.528*GMI + 0.404*AQI + 0.892*SGI + 0.115*DEPI - 0.172*SGAI + 4.679*TATA - 0.327*LVGI
// Scores above -1.78 suggest earnings manipulation.

// BeneishThreshold is the conventional cut-off for the 8-variable model.
const BeneishThreshold = -1.78

func beneishMetrics() []Metric {
	return []Metric{
		// DSRI: (Receivables_t / Sales_t) / (Receivables_t-1 / Sales_t-1)
		metric("beneish_dsri", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(
				Div(c.Current("accounts_receivable"), c.Current("revenue")),
				Div(c.Prior("accounts_receivable"), c.Prior("revenue")))
		}),
		// GMI: Gross Margin_t-1 / Gross Margin_t
		metric("beneish_gmi", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(
				Div(c.Prior("gross_profit"), c.Prior("revenue")),
				Div(c.Current("gross_profit"), c.Current("revenue")))
		}),
		// AQI: share of soft assets, 1 - (CA + PP&E) / TA, current over prior
		metric("beneish_aqi", KindRatio, LowerIsBetter, func(c *Context) Value {
			soft := func(get func(string) Value) Value {
				return Sub(Of(1), Div(Add(get("current_assets"), get("fixed_assets")), get("total_assets")))
			}
			return Div(soft(c.Current), soft(c.Prior))
		}),
		// SGI: Sales_t / Sales_t-1
		metric("beneish_sgi", KindRatio, Neutral, func(c *Context) Value {
			return Div(c.Current("revenue"), c.Prior("revenue"))
		}),
		// DEPI: depreciation rate prior over current, rate = Dep / (PP&E + Dep)
		metric("beneish_depi", KindRatio, LowerIsBetter, func(c *Context) Value {
			rate := func(get func(string) Value) Value {
				dep := get("depreciation_amortization")
				return Div(dep, Add(get("fixed_assets"), dep))
			}
			return Div(rate(c.Prior), rate(c.Current))
		}),
		// SGAI: (SGA_t / Sales_t) / (SGA_t-1 / Sales_t-1)
		metric("beneish_sgai", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(
				Div(c.Current("selling_general_admin"), c.Current("revenue")),
				Div(c.Prior("selling_general_admin"), c.Prior("revenue")))
		}),
		// LVGI: (TL_t / TA_t) / (TL_t-1 / TA_t-1)
		metric("beneish_lvgi", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(
				Div(c.Current("total_liabilities"), c.Current("total_assets")),
				Div(c.Prior("total_liabilities"), c.Prior("total_assets")))
		}),
		// TATA: (Net Income - Operating Cash Flow) / Total Assets
		metric("beneish_tata", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.is().NetIncome-c.cf().OperatingCashFlow), Of(c.bs().TotalAssets))
		}),
		metric("beneish_m_score", KindScore, LowerIsBetter, func(c *Context) Value {
			return BeneishMScore(BeneishInput{
				DSRI: c.Metric("beneish_dsri"),
				GMI:  c.Metric("beneish_gmi"),
				AQI:  c.Metric("beneish_aqi"),
				SGI:  c.Metric("beneish_sgi"),
				DEPI: c.Metric("beneish_depi"),
				SGAI: c.Metric("beneish_sgai"),
				LVGI: c.Metric("beneish_lvgi"),
				TATA: c.Metric("beneish_tata"),
			})
		}),
	}
}

// BeneishInput holds the eight model variables.
type BeneishInput struct {
	DSRI Value // Days Sales in Receivables Index
	GMI  Value // Gross Margin Index
	AQI  Value // Asset Quality Index
	SGI  Value // Sales Growth Index
	DEPI Value // Depreciation Index
	SGAI Value // SGA Index
	LVGI Value // Leverage Index
	TATA Value // Total Accruals to Total Assets
}

// BeneishMScore combines the variables; any Undefined variable makes the score Undefined.
func BeneishMScore(i BeneishInput) Value {
	return Add(
		Of(-4.84),
		i.DSRI.Scale(0.92),
		i.GMI.Scale(0.528),
		i.AQI.Scale(0.404),
		i.SGI.Scale(0.892),
		i.DEPI.Scale(0.115),
		i.SGAI.Scale(-0.172),
		i.TATA.Scale(4.679),
		i.LVGI.Scale(-0.327),
	)
}
