package calc

// =============================================================================
// LEVERAGE / SOLVENCY
// =============================================================================

func leverageMetrics() []Metric {
	return []Metric{
		metric("total_debt", KindAmount, LowerIsBetter, func(c *Context) Value {
			return Of(c.bs().TotalDebt)
		}),
		// Net Debt = Total Debt - Cash - Short-term Investments
		metric("net_debt", KindAmount, LowerIsBetter, func(c *Context) Value {
			bs := c.bs()
			return Of(bs.TotalDebt - bs.Cash - bs.ShortTermInvestments)
		}),
		// Equity-based ratios are Undefined when equity is not positive.
		metric("debt_to_equity", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().TotalDebt), equityBase(c))
		}),
		metric("debt_to_assets", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().TotalDebt), Of(c.bs().TotalAssets))
		}),
		metric("debt_ratio", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().TotalLiabilities), Of(c.bs().TotalAssets))
		}),
		metric("liabilities_to_equity", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().TotalLiabilities), equityBase(c))
		}),
		metric("equity_ratio", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().TotalEquity), Of(c.bs().TotalAssets))
		}),
		metric("equity_multiplier", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().TotalAssets), equityBase(c))
		}),
		metric("long_term_debt_to_equity", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().LongTermDebt), equityBase(c))
		}),
		metric("long_term_debt_to_capitalization", KindRatio, LowerIsBetter, func(c *Context) Value {
			bs := c.bs()
			return Div(Of(bs.LongTermDebt), Positive(Of(bs.LongTermDebt+bs.TotalEquity)))
		}),
		metric("debt_to_capital", KindRatio, LowerIsBetter, func(c *Context) Value {
			bs := c.bs()
			return Div(Of(bs.TotalDebt), Positive(Of(bs.TotalDebt+bs.TotalEquity)))
		}),
		// Interest Coverage = EBIT / Interest Expense
		metric("interest_coverage", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(c.Metric("ebit"), Of(c.is().InterestExpense))
		}),
		metric("ebitda_interest_coverage", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(c.Metric("ebitda"), Of(c.is().InterestExpense))
		}),
		metric("net_debt_to_ebitda", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(c.Metric("net_debt"), c.Metric("ebitda"))
		}),
		// DSCR = EBITDA / (Interest + debt due within a year)
		metric("debt_service_coverage", KindRatio, HigherIsBetter, func(c *Context) Value {
			bs := c.bs()
			service := c.is().InterestExpense + bs.ShortTermDebt + bs.CurrentPortionLongTermDebt
			return Div(c.Metric("ebitda"), Of(service))
		}),
	}
}

func equityBase(c *Context) Value {
	return Positive(Of(c.bs().TotalEquity))
}
