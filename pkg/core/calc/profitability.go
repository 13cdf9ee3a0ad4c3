package calc

// =============================================================================
// PROFITABILITY
// Margins are income over revenue, returns are income over a capital base.
// Both are expressed x100.
// =============================================================================

func profitabilityMetrics() []Metric {
	return []Metric{
		metric("gross_profit_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().GrossProfit), Of(c.is().Revenue))
		}),
		metric("operating_profit_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().OperatingProfit), Of(c.is().Revenue))
		}),
		metric("net_profit_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().NetIncome), Of(c.is().Revenue))
		}),
		// EBIT = Pre-tax Income + Interest Expense
		metric("ebit", KindAmount, HigherIsBetter, func(c *Context) Value {
			return Of(c.is().PreTaxIncome + c.is().InterestExpense)
		}),
		metric("ebitda", KindAmount, HigherIsBetter, func(c *Context) Value {
			return Add(c.Metric("ebit"), Of(c.is().DepreciationAmortization))
		}),
		metric("ebit_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(c.Metric("ebit"), Of(c.is().Revenue))
		}),
		metric("ebitda_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(c.Metric("ebitda"), Of(c.is().Revenue))
		}),
		metric("pre_tax_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().PreTaxIncome), Of(c.is().Revenue))
		}),
		metric("effective_tax_rate", KindPercent, Neutral, func(c *Context) Value {
			return Percent(Of(c.is().TaxExpense), Of(c.is().PreTaxIncome))
		}),
		// NOPAT = Operating Profit x (1 - Tax Expense / Pre-tax Income)
		metric("nopat", KindAmount, HigherIsBetter, func(c *Context) Value {
			return Mul(Of(c.is().OperatingProfit), Sub(Of(1), taxRate(c)))
		}),
		metric("roa", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().NetIncome), Of(c.bs().TotalAssets))
		}),
		metric("roe", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().NetIncome), equityBase(c))
		}),
		// Invested Capital = Total Debt + Total Equity - Cash
		metric("invested_capital", KindAmount, Neutral, func(c *Context) Value {
			bs := c.bs()
			return Of(bs.TotalDebt + bs.TotalEquity - bs.Cash)
		}),
		metric("roic", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(c.Metric("nopat"), Positive(c.Metric("invested_capital")))
		}),
		// ROCE = EBIT / (Total Assets - Current Liabilities)
		metric("roce", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(c.Metric("ebit"), capitalEmployed(c))
		}),
		metric("operating_expense_ratio", KindPercent, LowerIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().OperatingExpenses), Of(c.is().Revenue))
		}),
		metric("cost_of_revenue_ratio", KindPercent, LowerIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().CostOfGoodsSold), Of(c.is().Revenue))
		}),
		metric("return_on_tangible_equity", KindPercent, HigherIsBetter, func(c *Context) Value {
			bs := c.bs()
			return Percent(Of(c.is().NetIncome), Positive(Of(bs.TotalEquity-bs.IntangibleAssets-bs.Goodwill)))
		}),
		metric("operating_return_on_assets", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().OperatingProfit), Of(c.bs().TotalAssets))
		}),
		metric("sga_to_revenue", KindPercent, LowerIsBetter, func(c *Context) Value {
			return Percent(Of(c.is().SellingGeneralAdmin), Of(c.is().Revenue))
		}),
	}
}

// taxRate is the effective rate as a fraction, Undefined when pre-tax income is zero.
func taxRate(c *Context) Value {
	return Div(Of(c.is().TaxExpense), Of(c.is().PreTaxIncome))
}
