package calc

// =============================================================================
// RISK MODELS
// Altman Z-Score (public manufacturing form) and the Beneish M-Score.
// =============================================================================

// Altman zones for the manufacturing Z-Score.
const (
	AltmanSafeZone     = 2.99
	AltmanDistressZone = 1.81
)

func riskMetrics() []Metric {
	altman := []Metric{
		// A = Working Capital / Total Assets
		metric("altman_x1", KindRatio, HigherIsBetter, func(c *Context) Value {
			return c.Metric("working_capital_to_assets")
		}),
		// B = Retained Earnings / Total Assets
		metric("altman_x2", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(Of(c.bs().RetainedEarnings), Of(c.bs().TotalAssets))
		}),
		// C = EBIT / Total Assets
		metric("altman_x3", KindRatio, HigherIsBetter, func(c *Context) Value {
			return Div(c.Metric("ebit"), Of(c.bs().TotalAssets))
		}),
		// D = Market Value of Equity / Total Liabilities, book equity when no market cap
		metric("altman_x4", KindRatio, HigherIsBetter, func(c *Context) Value {
			equity := marketCap(c)
			if !equity.Defined() {
				equity = Of(c.bs().TotalEquity)
			}
			return Div(equity, Of(c.bs().TotalLiabilities))
		}),
		// E = Sales / Total Assets
		metric("altman_x5", KindRatio, HigherIsBetter, func(c *Context) Value {
			return c.Metric("asset_turnover")
		}),
		// Z = 1.2A + 1.4B + 3.3C + 0.6D + 1.0E
		metric("altman_z_score", KindScore, HigherIsBetter, func(c *Context) Value {
			return AltmanZScore(c.Metric("altman_x1"), c.Metric("altman_x2"), c.Metric("altman_x3"),
				c.Metric("altman_x4"), c.Metric("altman_x5"))
		}),
		// DFL = EBIT / (EBIT - Interest)
		metric("degree_of_financial_leverage", KindRatio, LowerIsBetter, func(c *Context) Value {
			ebit := c.Metric("ebit")
			return Div(ebit, Sub(ebit, Of(c.is().InterestExpense)))
		}),
	}
	return append(altman, beneishMetrics()...)
}

// AltmanZScore weights the five Altman ratios.
func AltmanZScore(a, b, cc, d, e Value) Value {
	return Add(a.Scale(1.2), b.Scale(1.4), cc.Scale(3.3), d.Scale(0.6), e)
}
