package calc

import "math"

// =============================================================================
// GROWTH
// Year-over-year change against prior_year figures:
// (current - prior) / |prior| x 100. Undefined without a prior figure.
// =============================================================================

func growthMetrics() []Metric {
	field := func(name, f string, dir Direction) Metric {
		return metric(name, KindPercent, dir, func(c *Context) Value {
			return Growth(c.Current(f), c.Prior(f))
		})
	}
	return []Metric{
		field("revenue_growth", "revenue", HigherIsBetter),
		field("gross_profit_growth", "gross_profit", HigherIsBetter),
		field("operating_profit_growth", "operating_profit", HigherIsBetter),
		field("net_income_growth", "net_income", HigherIsBetter),
		metric("eps_growth", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Growth(c.Metric("earnings_per_share"), priorEPS(c))
		}),
		field("total_assets_growth", "total_assets", HigherIsBetter),
		field("total_equity_growth", "total_equity", HigherIsBetter),
		field("total_liabilities_growth", "total_liabilities", LowerIsBetter),
		field("operating_cash_flow_growth", "operating_cash_flow", HigherIsBetter),
		metric("free_cash_flow_growth", KindPercent, HigherIsBetter, func(c *Context) Value {
			prior := freeCashFlow(c.Prior("operating_cash_flow"), c.Prior("capital_expenditures"))
			return Growth(c.Metric("free_cash_flow"), prior)
		}),
		metric("dividend_growth", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Growth(Of(math.Abs(c.cf().DividendsPaid)), c.Prior("dividends_paid").Abs())
		}),
		// SGR = ROE x retention ratio
		metric("sustainable_growth_rate", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Mul(c.Metric("roe"), c.Metric("retention_ratio")).Scale(0.01)
		}),
		// IGR = ROA x b / (1 - ROA x b)
		metric("internal_growth_rate", KindPercent, HigherIsBetter, func(c *Context) Value {
			rb := Mul(c.Metric("roa"), c.Metric("retention_ratio")).Scale(0.0001)
			return Percent(rb, Sub(Of(1), rb))
		}),
	}
}

// priorEPS is the prior-year EPS: reported when given, otherwise
// (NI - preferred dividends) / shares. Prior shares default to current shares.
func priorEPS(c *Context) Value {
	if eps := c.Prior("eps"); eps.Or(0) != 0 {
		return eps
	}
	shares := c.Prior("shares_outstanding")
	if !shares.Defined() {
		shares = Of(c.is().SharesOutstanding)
	}
	earnings := Sub(c.Prior("net_income"), Of(c.Prior("preferred_dividends").Or(0)))
	return Div(earnings, shares)
}
