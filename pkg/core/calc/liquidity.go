package calc

// =============================================================================
// LIQUIDITY
// Ability to meet short-term obligations from short-term resources.
// =============================================================================

func liquidityMetrics() []Metric {
	return []Metric{
		// Current Ratio = Current Assets / Current Liabilities
		metric("current_ratio", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().CurrentAssets), Of(c.bs().CurrentLiabilities))
		}),
		// Quick Ratio = (Current Assets - Inventory) / Current Liabilities
		metric("quick_ratio", KindRatio, HigherIsBetter, func(c *Context) Value {
			bs := c.bs()
			return Div(Of(bs.CurrentAssets-bs.Inventory), Of(bs.CurrentLiabilities))
		}),
		metric("cash_ratio", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().Cash), Of(c.bs().CurrentLiabilities))
		}),
		metric("absolute_liquidity_ratio", KindRatio, HigherIsBetter, func(c *Context) Value {
			bs := c.bs()
			return Div(Of(bs.Cash+bs.ShortTermInvestments), Of(bs.CurrentLiabilities))
		}),
		// Acid test without prepaid and other current assets
		metric("conservative_quick_ratio", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(quickAssets(c), Of(c.bs().CurrentLiabilities))
		}),
		metric("working_capital", KindAmount, HigherIsBetter, func(c *Context) Value {
			return Of(c.bs().CurrentAssets - c.bs().CurrentLiabilities)
		}),
		metric("working_capital_to_assets", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(c.Metric("working_capital"), Of(c.bs().TotalAssets))
		}),
		metric("working_capital_to_revenue", KindRatio, Neutral, func(c *Context) Value {
			return Div(c.Metric("working_capital"), Of(c.is().Revenue))
		}),
		metric("cash_to_current_assets", KindRatio, Neutral, func(c *Context) Value {
			return Div(Of(c.bs().Cash), Of(c.bs().CurrentAssets))
		}),
		metric("cash_to_total_assets", KindRatio, Neutral, func(c *Context) Value {
			return Div(Of(c.bs().Cash), Of(c.bs().TotalAssets))
		}),
		metric("current_assets_to_total_assets", KindRatio, Neutral, func(c *Context) Value {
			return Div(Of(c.bs().CurrentAssets), Of(c.bs().TotalAssets))
		}),
		metric("inventory_to_working_capital", KindRatio, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().Inventory), c.Metric("working_capital"))
		}),
		// Days the quick assets cover cash operating expenses.
		metric("defensive_interval_days", KindDays, HigherIsBetter, func(c *Context) Value {
			is := c.is()
			daily := Of(is.CostOfGoodsSold + is.OperatingExpenses - is.DepreciationAmortization).Scale(1.0 / daysInYear)
			return Div(quickAssets(c), daily)
		}),
		metric("net_liquid_balance", KindAmount, HigherIsBetter, func(c *Context) Value {
			bs := c.bs()
			return Of(bs.Cash + bs.ShortTermInvestments - bs.ShortTermDebt - bs.CurrentPortionLongTermDebt)
		}),
		// Cash Conversion Cycle = DIO + DSO - DPO
		metric("cash_conversion_cycle", KindDays, LowerIsBetter, func(c *Context) Value {
			return Sub(Add(c.Metric("days_inventory_outstanding"), c.Metric("days_sales_outstanding")),
				c.Metric("days_payables_outstanding"))
		}),
	}
}

const daysInYear = 365.0

// quickAssets = cash + short-term investments + receivables
func quickAssets(c *Context) Value {
	bs := c.bs()
	return Of(bs.Cash + bs.ShortTermInvestments + bs.AccountsReceivable)
}
