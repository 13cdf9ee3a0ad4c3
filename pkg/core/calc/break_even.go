package calc

// =============================================================================
// BREAK-EVEN
// Fixed costs default to operating expenses and variable costs to COGS
// when the payload does not split the cost structure.
// =============================================================================

func breakEvenMetrics() []Metric {
	return []Metric{
		metric("contribution_margin", KindAmount, HigherIsBetter, func(c *Context) Value {
			return Of(c.is().Revenue - c.is().VariableCosts)
		}),
		metric("contribution_margin_ratio", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(c.Metric("contribution_margin"), Of(c.is().Revenue))
		}),
		// Break-even Revenue = Fixed Costs / CM ratio
		metric("break_even_revenue", KindAmount, LowerIsBetter, func(c *Context) Value {
			return Div(Of(c.is().FixedCosts), c.Metric("contribution_margin_ratio").Scale(0.01))
		}),
		metric("margin_of_safety", KindPercent, HigherIsBetter, func(c *Context) Value {
			revenue := Of(c.is().Revenue)
			return Percent(Sub(revenue, c.Metric("break_even_revenue")), revenue)
		}),
		// DOL = Contribution Margin / Operating Profit
		metric("degree_of_operating_leverage", KindRatio, Neutral, func(c *Context) Value {
			return Div(c.Metric("contribution_margin"), Of(c.is().OperatingProfit))
		}),
		metric("cash_break_even_revenue", KindAmount, LowerIsBetter, func(c *Context) Value {
			is := c.is()
			return Div(Of(is.FixedCosts-is.DepreciationAmortization), c.Metric("contribution_margin_ratio").Scale(0.01))
		}),
	}
}
