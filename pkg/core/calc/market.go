package calc

import "math"

// =============================================================================
// MARKET / VALUATION
// Price-based metrics are Undefined when share price or market cap is zero,
// and multiples are Undefined over non-positive earnings or book value.
// =============================================================================

func marketMetrics() []Metric {
	return []Metric{
		// Reported EPS when given, otherwise (NI - preferred dividends) / shares
		metric("earnings_per_share", KindPerShare, HigherIsBetter, func(c *Context) Value {
			is := c.is()
			if is.EPS != 0 {
				return Of(is.EPS)
			}
			return Div(Of(is.NetIncome-is.PreferredDividends), Of(is.SharesOutstanding))
		}),
		metric("book_value_per_share", KindPerShare, HigherIsBetter, func(c *Context) Value {
			if bvps := c.mkt().BookValuePerShare; bvps != 0 {
				return Of(bvps)
			}
			return Div(Of(c.bs().TotalEquity), Of(c.is().SharesOutstanding))
		}),
		metric("price_to_earnings", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(sharePrice(c), Positive(c.Metric("earnings_per_share")))
		}),
		metric("price_to_book", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(sharePrice(c), Positive(c.Metric("book_value_per_share")))
		}),
		metric("market_to_book", KindRatio, Neutral, func(c *Context) Value {
			return Div(marketCap(c), equityBase(c))
		}),
		metric("price_to_sales", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(marketCap(c), Of(c.is().Revenue))
		}),
		metric("price_to_cash_flow", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(marketCap(c), Of(c.cf().OperatingCashFlow))
		}),
		metric("price_to_free_cash_flow", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(marketCap(c), c.Metric("free_cash_flow"))
		}),
		metric("dividend_yield", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().DividendsPerShare), sharePrice(c))
		}),
		metric("dividend_payout_ratio", KindPercent, Neutral, func(c *Context) Value {
			return Percent(Of(math.Abs(c.cf().DividendsPaid)), Of(c.is().NetIncome))
		}),
		metric("earnings_yield", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(c.Metric("earnings_per_share"), sharePrice(c))
		}),
		// EV = Market Cap + Total Debt - Cash
		metric("enterprise_value", KindAmount, Neutral, func(c *Context) Value {
			return Add(marketCap(c), Of(c.bs().TotalDebt-c.bs().Cash))
		}),
		metric("ev_to_ebitda", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(c.Metric("enterprise_value"), c.Metric("ebitda"))
		}),
		metric("ev_to_sales", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(c.Metric("enterprise_value"), Of(c.is().Revenue))
		}),
		metric("ev_to_ebit", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(c.Metric("enterprise_value"), c.Metric("ebit"))
		}),
		// PEG = P/E / EPS growth (in percent)
		metric("peg_ratio", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(c.Metric("price_to_earnings"), Positive(c.Metric("eps_growth")))
		}),
		metric("retention_ratio", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Sub(Of(100), c.Metric("dividend_payout_ratio"))
		}),
	}
}

func sharePrice(c *Context) Value {
	if p := c.mkt().SharePrice; p != 0 {
		return Of(p)
	}
	return Undefined
}

func marketCap(c *Context) Value {
	if mc := c.mkt().MarketCap; mc != 0 {
		return Of(mc)
	}
	return Undefined
}
