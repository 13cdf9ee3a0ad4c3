package calc

import (
	"fmt"
	"math"

	"financial_analysis/pkg/models"
)

// IntegrityTolerance is the absolute gap accepted by the integrity checks.
const IntegrityTolerance = 0.5

// IntegrityCheck is the outcome of one accounting identity check.
type IntegrityCheck struct {
	Name     string  `json:"name"`
	Balanced bool    `json:"balanced"`
	Gap      float64 `json:"gap"`
	Warning  string  `json:"warning,omitempty"`
}

// CheckBalanceSheet verifies assets = liabilities + equity. It is skipped
// (ok false) when the record carries no total assets.
func CheckBalanceSheet(rec *models.FinancialRecord) (IntegrityCheck, bool) {
	bs := rec.BalanceSheet
	if bs.TotalAssets == 0 {
		return IntegrityCheck{}, false
	}
	gap := bs.TotalAssets - (bs.TotalLiabilities + bs.TotalEquity)
	return newCheck("balance_sheet", gap,
		"balance sheet out of balance by %.2f (assets %.2f, liabilities %.2f, equity %.2f)",
		gap, bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity), true
}

// CheckCashFlow verifies that the net cash flow matches the change in cash.
// It is skipped when neither beginning nor ending cash is present.
func CheckCashFlow(rec *models.FinancialRecord) (IntegrityCheck, bool) {
	cf := rec.CashFlow
	if cf.BeginningCash == 0 && cf.EndingCash == 0 {
		return IntegrityCheck{}, false
	}
	gap := (cf.EndingCash - cf.BeginningCash) - cf.NetCashFlow
	return newCheck("cash_flow", gap,
		"cash flow statement inconsistent by %.2f (net cash flow %.2f, change in cash %.2f)",
		gap, cf.NetCashFlow, cf.EndingCash-cf.BeginningCash), true
}

// Verify runs every applicable integrity check. Checks whose gap overflows
// are dropped.
func Verify(rec *models.FinancialRecord) []IntegrityCheck {
	out := []IntegrityCheck{}
	for _, check := range []func(*models.FinancialRecord) (IntegrityCheck, bool){CheckBalanceSheet, CheckCashFlow} {
		if c, ok := check(rec); ok && !math.IsInf(c.Gap, 0) && !math.IsNaN(c.Gap) {
			out = append(out, c)
		}
	}
	return out
}

func newCheck(name string, gap float64, format string, args ...any) IntegrityCheck {
	c := IntegrityCheck{Name: name, Gap: gap, Balanced: math.Abs(gap) <= IntegrityTolerance}
	if !c.Balanced {
		c.Warning = fmt.Sprintf(format, args...)
	}
	return c
}
