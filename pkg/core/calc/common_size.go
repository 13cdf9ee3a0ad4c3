package calc

// =============================================================================
// COMMON SIZE ANALYSIS
// Vertical: line item as % of revenue (income statement) or total assets
// (balance sheet). Horizontal: current as % of prior year (index, prior = 100).
// =============================================================================

func verticalMetrics() []Metric {
	ofRevenue := func(name, field string) Metric {
		return metric(name, KindPercent, Neutral, func(c *Context) Value {
			return Percent(c.Current(field), Of(c.is().Revenue))
		})
	}
	ofAssets := func(name, field string) Metric {
		return metric(name, KindPercent, Neutral, func(c *Context) Value {
			return Percent(c.Current(field), Of(c.bs().TotalAssets))
		})
	}
	reuse := func(name, source string, scale float64) Metric {
		return metric(name, KindPercent, Neutral, func(c *Context) Value {
			return c.Metric(source).Scale(scale)
		})
	}
	return []Metric{
		reuse("vertical_cost_of_goods_sold", "cost_of_revenue_ratio", 1),
		reuse("vertical_operating_expenses", "operating_expense_ratio", 1),
		ofRevenue("vertical_interest_expense", "interest_expense"),
		ofRevenue("vertical_tax_expense", "tax_expense"),
		reuse("vertical_net_income", "net_profit_margin", 1),
		reuse("vertical_cash", "cash_to_total_assets", 100),
		ofAssets("vertical_accounts_receivable", "accounts_receivable"),
		ofAssets("vertical_inventory", "inventory"),
		ofAssets("vertical_fixed_assets", "fixed_assets"),
		metric("vertical_intangible_assets", KindPercent, Neutral, func(c *Context) Value {
			bs := c.bs()
			return Percent(Of(bs.IntangibleAssets+bs.Goodwill), Of(bs.TotalAssets))
		}),
		ofAssets("vertical_current_liabilities", "current_liabilities"),
		ofAssets("vertical_long_term_debt", "long_term_debt"),
		reuse("vertical_total_liabilities", "debt_ratio", 100),
		reuse("vertical_total_equity", "equity_ratio", 100),
	}
}

func horizontalMetrics() []Metric {
	index := func(field string) Metric {
		return metric("horizontal_"+field, KindPercent, Neutral, func(c *Context) Value {
			return Percent(c.Current(field), c.Prior(field))
		})
	}
	return []Metric{
		index("revenue"),
		index("cost_of_goods_sold"),
		index("gross_profit"),
		index("operating_profit"),
		index("net_income"),
		index("current_assets"),
		index("current_liabilities"),
		index("total_assets"),
		index("total_liabilities"),
		index("total_equity"),
	}
}
