package calc

// =============================================================================
// ACTIVITY / EFFICIENCY
// Turnover ratios and their "days outstanding" duals (365 / turnover).
// Balances are period-end figures; no averaging is attempted.
// =============================================================================

func activityMetrics() []Metric {
	return []Metric{
		metric("inventory_turnover", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().CostOfGoodsSold), Of(c.bs().Inventory))
		}),
		metric("days_inventory_outstanding", KindDays, LowerIsBetter, func(c *Context) Value {
			return days(c.Metric("inventory_turnover"))
		}),
		metric("receivables_turnover", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().Revenue), Of(c.bs().AccountsReceivable))
		}),
		metric("days_sales_outstanding", KindDays, LowerIsBetter, func(c *Context) Value {
			return days(c.Metric("receivables_turnover"))
		}),
		metric("payables_turnover", KindRatio, Neutral, func(c *Context) Value {
			return Div(Of(c.is().CostOfGoodsSold), Of(c.bs().AccountsPayable))
		}),
		metric("days_payables_outstanding", KindDays, Neutral, func(c *Context) Value {
			return days(c.Metric("payables_turnover"))
		}),
		metric("asset_turnover", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().Revenue), Of(c.bs().TotalAssets))
		}),
		metric("fixed_asset_turnover", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().Revenue), Of(c.bs().FixedAssets))
		}),
		metric("current_asset_turnover", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().Revenue), Of(c.bs().CurrentAssets))
		}),
		metric("working_capital_turnover", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().Revenue), c.Metric("working_capital"))
		}),
		metric("equity_turnover", KindRatio, Neutral, func(c *Context) Value {
			return Div(Of(c.is().Revenue), equityBase(c))
		}),
		metric("cash_turnover", KindRatio, Neutral, func(c *Context) Value {
			return Div(Of(c.is().Revenue), Of(c.bs().Cash))
		}),
		metric("asset_turnover_days", KindDays, LowerIsBetter, func(c *Context) Value {
			return days(c.Metric("asset_turnover"))
		}),
		// Operating Cycle = DIO + DSO
		metric("operating_cycle", KindDays, LowerIsBetter, func(c *Context) Value {
			return Add(c.Metric("days_inventory_outstanding"), c.Metric("days_sales_outstanding"))
		}),
		metric("capital_employed_turnover", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.is().Revenue), capitalEmployed(c))
		}),
		metric("inventory_to_revenue", KindPercent, LowerIsBetter, func(c *Context) Value {
			return Percent(Of(c.bs().Inventory), Of(c.is().Revenue))
		}),
		metric("receivables_to_revenue", KindPercent, LowerIsBetter, func(c *Context) Value {
			return Percent(Of(c.bs().AccountsReceivable), Of(c.is().Revenue))
		}),
		metric("payables_to_revenue", KindPercent, Neutral, func(c *Context) Value {
			return Percent(Of(c.bs().AccountsPayable), Of(c.is().Revenue))
		}),
	}
}

// days converts a turnover into a day count.
func days(turnover Value) Value {
	return Div(Of(daysInYear), turnover)
}

// capitalEmployed = Total Assets - Current Liabilities
func capitalEmployed(c *Context) Value {
	return Of(c.bs().TotalAssets - c.bs().CurrentLiabilities)
}
