package calc

// =============================================================================
// DUPONT DECOMPOSITION
// Built from already computed margins and turnovers.
//   3-step: ROE = Net Margin x Asset Turnover x Equity Multiplier
//   5-step: ROE = Tax Burden x Interest Burden x EBIT Margin x AT x EM
// =============================================================================

func dupontMetrics() []Metric {
	return []Metric{
		metric("dupont_profit_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return c.Metric("net_profit_margin")
		}),
		metric("dupont_asset_turnover", KindRatio, HigherIsBetter, func(c *Context) Value {
			return c.Metric("asset_turnover")
		}),
		metric("dupont_equity_multiplier", KindRatio, Neutral, func(c *Context) Value {
			return c.Metric("equity_multiplier")
		}),
		metric("dupont_roe", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Mul(Mul(c.Metric("dupont_profit_margin"), c.Metric("dupont_asset_turnover")),
				c.Metric("dupont_equity_multiplier"))
		}),
		// Tax Burden = Net Income / Pre-tax Income
		metric("tax_burden", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().NetIncome), Of(c.is().PreTaxIncome))
		}),
		// Interest Burden = Pre-tax Income / EBIT
		metric("interest_burden", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().PreTaxIncome), c.Metric("ebit"))
		}),
		metric("dupont_five_step_roe", KindPercent, HigherIsBetter, func(c *Context) Value {
			burdens := Mul(c.Metric("tax_burden"), c.Metric("interest_burden"))
			return Mul(Mul(burdens, c.Metric("ebit_margin")),
				Mul(c.Metric("dupont_asset_turnover"), c.Metric("dupont_equity_multiplier")))
		}),
		metric("dupont_roa", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Mul(c.Metric("dupont_profit_margin"), c.Metric("dupont_asset_turnover"))
		}),
	}
}
