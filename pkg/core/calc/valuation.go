package calc

// =============================================================================
// ECONOMIC VALUE
// Cost of capital and economic value added (EVA = NOPAT - WACC x Invested Capital).
// Market rates in the record are fractions; metrics here are x100.
// =============================================================================

// CostOfEquityCAPM calculates required return on equity using CAPM.
//
// FORMULA: r_e = r_f + β × MRP
func CostOfEquityCAPM(riskFreeRate, beta, marketRiskPremium float64) float64 {
	return riskFreeRate + beta*marketRiskPremium
}

// WACC calculates Weighted Average Cost of Capital.
//
// FORMULA: WACC = r_d × (1 - T) × (D/V) + r_e × (E/V)
func WACC(costOfDebt, taxRate, debtWeight, costOfEquity, equityWeight float64) float64 {
	afterTaxDebtCost := costOfDebt * (1 - taxRate) * debtWeight
	equityCost := costOfEquity * equityWeight
	return afterTaxDebtCost + equityCost
}

func economicValueMetrics() []Metric {
	return []Metric{
		// Undefined when no market rates were supplied
		metric("cost_of_equity", KindPercent, Neutral, func(c *Context) Value {
			m := c.mkt()
			if m.RiskFreeRate == 0 && m.MarketRiskPremium == 0 {
				return Undefined
			}
			return Of(CostOfEquityCAPM(m.RiskFreeRate, m.Beta, m.MarketRiskPremium)).Scale(100)
		}),
		// r_d × (1 - T), r_d = Interest Expense / Total Debt
		metric("after_tax_cost_of_debt", KindPercent, Neutral, func(c *Context) Value {
			rd := Div(Of(c.is().InterestExpense), Of(c.bs().TotalDebt))
			return Mul(rd, Sub(Of(1), taxRate(c))).Scale(100)
		}),
		// Supplied cost of capital wins; otherwise book-weighted WACC.
		metric("wacc", KindPercent, LowerIsBetter, func(c *Context) Value {
			if k := c.mkt().CostOfCapital; k != 0 {
				return Of(k).Scale(100)
			}
			return bookWACC(c)
		}),
		metric("capital_charge", KindAmount, LowerIsBetter, func(c *Context) Value {
			return Mul(c.Metric("invested_capital"), c.Metric("wacc")).Scale(0.01)
		}),
		metric("economic_value_added", KindAmount, HigherIsBetter, func(c *Context) Value {
			return Sub(c.Metric("nopat"), c.Metric("capital_charge"))
		}),
		// EVA Spread = ROIC - WACC
		metric("eva_spread", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Sub(c.Metric("roic"), c.Metric("wacc"))
		}),
		metric("eva_margin", KindPercent, HigherIsBetter, func(c *Context) Value {
			return Percent(c.Metric("economic_value_added"), Of(c.is().Revenue))
		}),
	}
}

func bookWACC(c *Context) Value {
	bs := c.bs()
	capital := bs.TotalDebt + bs.TotalEquity
	if capital == 0 {
		return Undefined
	}
	re, ok := c.Metric("cost_of_equity").Float()
	if !ok {
		return Undefined
	}
	debtWeight := bs.TotalDebt / capital
	if bs.TotalDebt == 0 {
		return Of(re)
	}
	rd, ok1 := Div(Of(c.is().InterestExpense), Of(bs.TotalDebt)).Float()
	t, ok2 := taxRate(c).Float()
	if !ok1 || !ok2 {
		return Undefined
	}
	return Of(WACC(rd*100, t, debtWeight, re, 1-debtWeight))
}
