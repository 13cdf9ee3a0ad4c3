package calc

import "math"

// =============================================================================
// CASH FLOW
// Outflow lines (capex, dividends) are taken as magnitudes.
// =============================================================================

func cashFlowMetrics() []Metric {
	return []Metric{
		metric("operating_cash_flow_ratio", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.cf().OperatingCashFlow), Of(c.bs().CurrentLiabilities))
		}),
		// FCF = Operating Cash Flow - |Capital Expenditures|
		metric("free_cash_flow", KindAmount, HigherIsBetter, func(c *Context) Value {
			return freeCashFlow(Of(c.cf().OperatingCashFlow), Of(c.cf().CapitalExpenditures))
		}),
		metric("free_cash_flow_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(c.Metric("free_cash_flow"), Of(c.is().Revenue))
		}),
		metric("cash_flow_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.cf().OperatingCashFlow), Of(c.is().Revenue))
		}),
		metric("cash_flow_coverage", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.cf().OperatingCashFlow), Of(c.bs().TotalDebt))
		}),
		metric("capex_to_operating_cash_flow", KindPercent, Neutral, func(c *Context) Value {
			return Percent(Of(math.Abs(c.cf().CapitalExpenditures)), Of(c.cf().OperatingCashFlow))
		}),
		metric("cash_return_on_assets", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(Of(c.cf().OperatingCashFlow), Of(c.bs().TotalAssets))
		}),
		// Earnings quality: operating cash generated per unit of net income
		metric("cash_flow_to_net_income", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.cf().OperatingCashFlow), Of(c.is().NetIncome))
		}),
		metric("free_cash_flow_per_share", KindPerShare, HigherIsBetter, func(c *Context) Value {
			return Div(c.Metric("free_cash_flow"), Of(c.is().SharesOutstanding))
		}),
		metric("cash_flow_per_share", KindPerShare, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.cf().OperatingCashFlow), Of(c.is().SharesOutstanding))
		}),
		metric("dividend_coverage", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.cf().OperatingCashFlow), Of(math.Abs(c.cf().DividendsPaid)))
		}),
		metric("capex_to_depreciation", KindRatio, Neutral, func(c *Context) Value {
			return Div(Of(math.Abs(c.cf().CapitalExpenditures)), Of(c.is().DepreciationAmortization))
		}),
		metric("net_cash_flow", KindAmount, HigherIsBetter, func(c *Context) Value {
			return Of(c.cf().NetCashFlow)
		}),
	}
}

func freeCashFlow(ocf, capex Value) Value {
	return Sub(ocf, capex.Abs())
}
