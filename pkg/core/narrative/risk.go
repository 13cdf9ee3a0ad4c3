package narrative

import (
	"fmt"

	"financial_analysis/pkg/core/calc"
)

// Risk levels. Unknown means the driving metric was undefined.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskUnknown = "unknown"
)

var riskRank = map[string]int{RiskLow: 1, RiskMedium: 2, RiskHigh: 3}

// RiskAssessment rates four risk areas; Overall is the worst known level.
type RiskAssessment struct {
	Liquidity   string `json:"liquidity_risk"`
	Credit      string `json:"credit_risk"`
	Solvency    string `json:"solvency_risk"`
	Operational string `json:"operational_risk"`
	Overall     string `json:"overall_risk"`
}

// AssessRisk derives risk levels from the current ratio, debt to equity,
// the Altman Z-Score and the operating margin.
func AssessRisk(results *calc.Results) RiskAssessment {
	ra := RiskAssessment{
		Liquidity: level(results.Value("current_ratio"), func(v float64) string {
			switch {
			case v < 1:
				return RiskHigh
			case v < 1.5:
				return RiskMedium
			}
			return RiskLow
		}),
		Credit: creditRisk(results),
		Solvency: level(results.Value("altman_z_score"), func(v float64) string {
			switch {
			case v > calc.AltmanSafeZone:
				return RiskLow
			case v >= calc.AltmanDistressZone:
				return RiskMedium
			}
			return RiskHigh
		}),
		Operational: level(results.Value("operating_profit_margin"), func(v float64) string {
			switch {
			case v < 0:
				return RiskHigh
			case v < 5:
				return RiskMedium
			}
			return RiskLow
		}),
	}

	ra.Overall = RiskUnknown
	for _, l := range []string{ra.Liquidity, ra.Credit, ra.Solvency, ra.Operational} {
		if riskRank[l] > riskRank[ra.Overall] {
			ra.Overall = l
		}
	}
	return ra
}

// creditRisk rates debt to equity. Equity at or below zero against positive
// assets is high risk although the ratio itself is then Undefined.
func creditRisk(results *calc.Results) string {
	if eq, ok := results.Value("equity_ratio").Float(); ok && eq <= 0 {
		return RiskHigh
	}
	return level(results.Value("debt_to_equity"), func(v float64) string {
		switch {
		case v > 2:
			return RiskHigh
		case v > 1:
			return RiskMedium
		}
		return RiskLow
	})
}

func level(v calc.Value, rate func(float64) string) string {
	f, ok := v.Float()
	if !ok {
		return RiskUnknown
	}
	return rate(f)
}

// Trend directions.
const (
	TrendPositive    = "positive"
	TrendNegative    = "negative"
	TrendMixed       = "mixed"
	TrendUnavailable = "not available"
)

// Trend summarises year-over-year movement. It needs prior-year data.
type Trend struct {
	Revenue   string `json:"revenue_trend"`
	Profit    string `json:"profit_trend"`
	Debt      string `json:"debt_trend"`
	Overall   string `json:"overall_trend"`
	Paragraph string `json:"summary"`
}

// AnalyzeTrend reads the revenue, net income and total liabilities growth metrics.
func AnalyzeTrend(results *calc.Results) Trend {
	rev, revOK := results.Value("revenue_growth").Float()
	ni, niOK := results.Value("net_income_growth").Float()
	debt, debtOK := results.Value("total_liabilities_growth").Float()

	t := Trend{
		Revenue: describe("Revenue", rev, revOK),
		Profit:  describe("Net income", ni, niOK),
		Debt:    describe("Total liabilities", debt, debtOK),
	}

	switch {
	case !revOK && !niOK:
		t.Overall = TrendUnavailable
	case revOK && niOK && rev > 0 && ni > 0:
		t.Overall = TrendPositive
	case revOK && niOK && rev < 0 && ni < 0:
		t.Overall = TrendNegative
	case !niOK && rev > 0, !revOK && ni > 0:
		t.Overall = TrendPositive
	case !niOK && rev < 0, !revOK && ni < 0:
		t.Overall = TrendNegative
	default:
		t.Overall = TrendMixed
	}

	if t.Overall == TrendUnavailable {
		t.Paragraph = "Year-over-year trends are not available without prior-year figures."
	} else {
		t.Paragraph = fmt.Sprintf("%s %s %s Overall trend: %s.", t.Revenue, t.Profit, t.Debt, t.Overall)
	}
	return t
}

func describe(subject string, pct float64, ok bool) string {
	switch {
	case !ok:
		return subject + " change not available."
	case pct > 0:
		return fmt.Sprintf("%s grew %.1f%% year over year.", subject, pct)
	case pct < 0:
		return fmt.Sprintf("%s declined %.1f%% year over year.", subject, -pct)
	}
	return subject + " was unchanged year over year."
}
