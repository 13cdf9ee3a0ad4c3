package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"financial_analysis/pkg/core/utils"
)

// ErrMalformedInput marks a payload that cannot be turned into a FinancialRecord.
// Callers surface it as a validation failure; no partial analysis is attempted.
var ErrMalformedInput = errors.New("malformed financial input")

// Payload group names.
const (
	GroupBalanceSheet     = "balance_sheet"
	GroupIncomeStatement  = "income_statement"
	GroupCashFlow         = "cash_flow"
	GroupMarketData       = "market_data"
	GroupPriorYear        = "prior_year"
	GroupIndustryAverages = "industry_averages"
)

// CompanyInfo identifies the analysed company. It carries no figures.
type CompanyInfo struct {
	Name        string `json:"name"`
	Sector      string `json:"sector,omitempty"`
	Activity    string `json:"activity,omitempty"`
	LegalEntity string `json:"legal_entity,omitempty"`
}

type BalanceSheet struct {
	// Current assets
	Cash                 float64 `json:"cash"`
	ShortTermInvestments float64 `json:"short_term_investments"`
	AccountsReceivable   float64 `json:"accounts_receivable"`
	Inventory            float64 `json:"inventory"`
	PrepaidExpenses      float64 `json:"prepaid_expenses"`
	OtherCurrentAssets   float64 `json:"other_current_assets"`
	CurrentAssets        float64 `json:"current_assets"`

	// Non-current assets (fixed assets are net of depreciation)
	FixedAssets           float64 `json:"fixed_assets"`
	IntangibleAssets      float64 `json:"intangible_assets"`
	Goodwill              float64 `json:"goodwill"`
	LongTermInvestments   float64 `json:"long_term_investments"`
	OtherNonCurrentAssets float64 `json:"other_non_current_assets"`
	NonCurrentAssets      float64 `json:"non_current_assets"`
	TotalAssets           float64 `json:"total_assets"`

	// Current liabilities
	AccountsPayable            float64 `json:"accounts_payable"`
	ShortTermDebt              float64 `json:"short_term_debt"`
	CurrentPortionLongTermDebt float64 `json:"current_portion_long_term_debt"`
	AccruedLiabilities         float64 `json:"accrued_liabilities"`
	DeferredRevenue            float64 `json:"deferred_revenue"`
	OtherCurrentLiabilities    float64 `json:"other_current_liabilities"`
	CurrentLiabilities         float64 `json:"current_liabilities"`

	// Non-current liabilities
	LongTermDebt               float64 `json:"long_term_debt"`
	DeferredTaxLiabilities     float64 `json:"deferred_tax_liabilities"`
	LeaseLiabilities           float64 `json:"lease_liabilities"`
	OtherNonCurrentLiabilities float64 `json:"other_non_current_liabilities"`
	NonCurrentLiabilities      float64 `json:"non_current_liabilities"`
	TotalLiabilities           float64 `json:"total_liabilities"`
	TotalDebt                  float64 `json:"total_debt"`

	// Equity
	CommonStock             float64 `json:"common_stock"`
	AdditionalPaidInCapital float64 `json:"additional_paid_in_capital"`
	RetainedEarnings        float64 `json:"retained_earnings"`
	TreasuryStock           float64 `json:"treasury_stock"`
	MinorityInterest        float64 `json:"minority_interest"`
	TotalEquity             float64 `json:"total_equity"`
}

type IncomeStatement struct {
	Revenue                  float64 `json:"revenue"`
	CostOfGoodsSold          float64 `json:"cost_of_goods_sold"`
	GrossProfit              float64 `json:"gross_profit"`
	SellingGeneralAdmin      float64 `json:"selling_general_admin"`
	ResearchDevelopment      float64 `json:"research_development"`
	DepreciationAmortization float64 `json:"depreciation_amortization"`
	OtherOperatingExpenses   float64 `json:"other_operating_expenses"`
	OperatingExpenses        float64 `json:"operating_expenses"`
	OperatingProfit          float64 `json:"operating_profit"`
	InterestIncome           float64 `json:"interest_income"`
	InterestExpense          float64 `json:"interest_expense"`
	OtherIncome              float64 `json:"other_income"`
	PreTaxIncome             float64 `json:"pre_tax_income"`
	TaxExpense               float64 `json:"tax_expense"`
	NetIncome                float64 `json:"net_income"`
	PreferredDividends       float64 `json:"preferred_dividends"`

	EPS                      float64 `json:"eps"`
	DividendsPerShare        float64 `json:"dividends_per_share"`
	SharesOutstanding        float64 `json:"shares_outstanding"`
	DilutedSharesOutstanding float64 `json:"diluted_shares_outstanding"`

	// Cost structure used by break-even analysis
	FixedCosts    float64 `json:"fixed_costs"`
	VariableCosts float64 `json:"variable_costs"`
}

// CashFlow holds signed section totals. Capital expenditures, dividends,
// buybacks and debt repayment are outflow amounts and may be given with
// either sign; formulas use their magnitude.
type CashFlow struct {
	OperatingCashFlow   float64 `json:"operating_cash_flow"`
	InvestingCashFlow   float64 `json:"investing_cash_flow"`
	FinancingCashFlow   float64 `json:"financing_cash_flow"`
	CapitalExpenditures float64 `json:"capital_expenditures"`
	DividendsPaid       float64 `json:"dividends_paid"`
	ShareBuybacks       float64 `json:"share_buybacks"`
	DebtRepayment       float64 `json:"debt_repayment"`
	DebtIssuance        float64 `json:"debt_issuance"`
	NetCashFlow         float64 `json:"net_cash_flow"`
	BeginningCash       float64 `json:"beginning_cash"`
	EndingCash          float64 `json:"ending_cash"`
}

// Market rates (risk_free_rate, market_risk_premium, cost_of_capital) are fractions.
type Market struct {
	MarketCap         float64 `json:"market_cap"`
	SharePrice        float64 `json:"share_price"`
	BookValuePerShare float64 `json:"book_value_per_share"`
	Beta              float64 `json:"beta"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	CostOfCapital     float64 `json:"cost_of_capital"`
}

// FinancialRecord is one period's snapshot of a company. Every figure
// defaults to zero. A record is built once per analysis run and must be
// treated as read-only afterwards.
type FinancialRecord struct {
	Company         CompanyInfo     `json:"company"`
	BalanceSheet    BalanceSheet    `json:"balance_sheet"`
	IncomeStatement IncomeStatement `json:"income_statement"`
	CashFlow        CashFlow        `json:"cash_flow"`
	Market          Market          `json:"market_data"`

	priorYear        map[string]float64
	industryAverages map[string]float64
}

// Payload is the wire form of the financial data: group name -> field name -> value.
type Payload map[string]map[string]float64

// ParsePayload decodes a financial-data document. Strict JSON is tried
// first, then repaired JSON, then Hjson.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if err := utils.SmartParse(string(data), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return p, nil
}

type fieldRef struct {
	group string
	index int
}

var (
	statementGroups = []string{GroupBalanceSheet, GroupIncomeStatement, GroupCashFlow, GroupMarketData}
	groupTypes      = map[string]reflect.Type{
		GroupBalanceSheet:    reflect.TypeOf(BalanceSheet{}),
		GroupIncomeStatement: reflect.TypeOf(IncomeStatement{}),
		GroupCashFlow:        reflect.TypeOf(CashFlow{}),
		GroupMarketData:      reflect.TypeOf(Market{}),
	}
	fieldIndex = buildFieldIndex()
)

func buildFieldIndex() map[string]fieldRef {
	idx := make(map[string]fieldRef)
	for _, group := range statementGroups {
		t := groupTypes[group]
		for i := 0; i < t.NumField(); i++ {
			name := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
			if _, dup := idx[name]; dup {
				panic("models: duplicate field name " + name)
			}
			idx[name] = fieldRef{group: group, index: i}
		}
	}
	return idx
}

// FieldNames lists every statement field name in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(fieldIndex))
	for n := range fieldIndex {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GroupOf returns the statement group that owns a field.
func GroupOf(name string) (string, bool) {
	ref, ok := fieldIndex[name]
	return ref.group, ok
}

// IsField reports whether name is a known statement field.
func IsField(name string) bool {
	_, ok := fieldIndex[name]
	return ok
}

func (r *FinancialRecord) groupValue(group string) reflect.Value {
	switch group {
	case GroupBalanceSheet:
		return reflect.ValueOf(&r.BalanceSheet).Elem()
	case GroupIncomeStatement:
		return reflect.ValueOf(&r.IncomeStatement).Elem()
	case GroupCashFlow:
		return reflect.ValueOf(&r.CashFlow).Elem()
	default:
		return reflect.ValueOf(&r.Market).Elem()
	}
}

// Field returns the current-period value of a statement field by name.
func (r *FinancialRecord) Field(name string) (float64, bool) {
	ref, ok := fieldIndex[name]
	if !ok {
		return 0, false
	}
	return r.groupValue(ref.group).Field(ref.index).Float(), true
}

func (r *FinancialRecord) set(name string, v float64) {
	ref := fieldIndex[name]
	r.groupValue(ref.group).Field(ref.index).SetFloat(v)
}

// Prior returns the prior-year value of a statement field, if supplied.
func (r *FinancialRecord) Prior(name string) (float64, bool) {
	v, ok := r.priorYear[name]
	return v, ok
}

// HasPriorYear reports whether any prior-year figure was supplied.
func (r *FinancialRecord) HasPriorYear() bool {
	return len(r.priorYear) > 0
}

// IndustryAverage returns a caller-supplied benchmark for a metric.
func (r *FinancialRecord) IndustryAverage(metric string) (float64, bool) {
	v, ok := r.industryAverages[metric]
	return v, ok
}

// IndustryAverages returns a copy of the caller-supplied benchmarks.
func (r *FinancialRecord) IndustryAverages() map[string]float64 {
	return copyMap(r.industryAverages)
}

// NewFinancialRecord layers payload values over zero defaults. Unknown
// groups or fields and non-finite values are rejected with ErrMalformedInput.
// Subtotals missing from the payload are derived from supplied components.
func NewFinancialRecord(company CompanyInfo, payload Payload) (*FinancialRecord, error) {
	rec := &FinancialRecord{Company: company}
	supplied := make(map[string]bool)

	groups := make([]string, 0, len(payload))
	for g := range payload {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, group := range groups {
		values := payload[group]
		switch group {
		case GroupPriorYear:
			for name, v := range values {
				if !IsField(name) {
					return nil, fmt.Errorf("%w: unknown prior-year field %q", ErrMalformedInput, name)
				}
				if !finite(v) {
					return nil, fmt.Errorf("%w: non-finite prior-year value for %q", ErrMalformedInput, name)
				}
			}
			rec.priorYear = copyMap(values)
		case GroupIndustryAverages:
			for name, v := range values {
				if !finite(v) {
					return nil, fmt.Errorf("%w: non-finite industry average for %q", ErrMalformedInput, name)
				}
			}
			rec.industryAverages = copyMap(values)
		case GroupBalanceSheet, GroupIncomeStatement, GroupCashFlow, GroupMarketData:
			for name, v := range values {
				ref, ok := fieldIndex[name]
				if !ok || ref.group != group {
					return nil, fmt.Errorf("%w: unknown field %q in %s", ErrMalformedInput, name, group)
				}
				if !finite(v) {
					return nil, fmt.Errorf("%w: non-finite value for %s.%s", ErrMalformedInput, group, name)
				}
				rec.set(name, v)
				supplied[name] = true
			}
		default:
			return nil, fmt.Errorf("%w: unknown group %q", ErrMalformedInput, group)
		}
	}

	rec.deriveSubtotals(supplied)
	return rec, nil
}

type term struct {
	field     string
	sign      float64
	magnitude bool
}

// derivation fills target from terms. With all set, every term must have
// been supplied; otherwise one supplied term is enough and the rest count as zero.
type derivation struct {
	target string
	all    bool
	terms  []term
}

func plus(fields ...string) []term {
	out := make([]term, len(fields))
	for i, f := range fields {
		out[i] = term{field: f, sign: 1}
	}
	return out
}

func less(a, b string) []term {
	return []term{{field: a, sign: 1}, {field: b, sign: -1}}
}

// subtotalRules are applied in order so later subtotals can use earlier ones.
var subtotalRules = []derivation{
	{"current_assets", false, plus("cash", "short_term_investments", "accounts_receivable", "inventory", "prepaid_expenses", "other_current_assets")},
	{"non_current_assets", false, plus("fixed_assets", "intangible_assets", "goodwill", "long_term_investments", "other_non_current_assets")},
	{"total_assets", true, plus("current_assets", "non_current_assets")},
	{"current_liabilities", false, plus("accounts_payable", "short_term_debt", "current_portion_long_term_debt", "accrued_liabilities", "deferred_revenue", "other_current_liabilities")},
	{"non_current_liabilities", false, plus("long_term_debt", "deferred_tax_liabilities", "lease_liabilities", "other_non_current_liabilities")},
	{"total_liabilities", true, plus("current_liabilities", "non_current_liabilities")},
	{"total_debt", false, plus("short_term_debt", "current_portion_long_term_debt", "long_term_debt")},
	{"total_equity", false, append(plus("common_stock", "additional_paid_in_capital", "retained_earnings", "minority_interest"),
		term{field: "treasury_stock", sign: -1, magnitude: true})},
	{"gross_profit", true, less("revenue", "cost_of_goods_sold")},
	{"operating_expenses", false, plus("selling_general_admin", "research_development", "depreciation_amortization", "other_operating_expenses")},
	{"operating_profit", true, less("gross_profit", "operating_expenses")},
	{"pre_tax_income", true, less("operating_profit", "interest_expense")},
	{"net_income", true, less("pre_tax_income", "tax_expense")},
	{"fixed_costs", true, plus("operating_expenses")},
	{"variable_costs", true, plus("cost_of_goods_sold")},
	{"net_cash_flow", true, plus("operating_cash_flow", "investing_cash_flow", "financing_cash_flow")},
}

func (r *FinancialRecord) deriveSubtotals(supplied map[string]bool) {
	for _, d := range subtotalRules {
		if supplied[d.target] {
			continue
		}
		seen, missing := 0, 0
		sum := 0.0
		for _, t := range d.terms {
			if supplied[t.field] {
				seen++
			} else {
				missing++
			}
			v, _ := r.Field(t.field)
			if t.magnitude {
				v = math.Abs(v)
			}
			sum += t.sign * v
		}
		if seen == 0 || (d.all && missing > 0) {
			continue
		}
		if d.target == "pre_tax_income" {
			sum += r.IncomeStatement.InterestIncome + r.IncomeStatement.OtherIncome
		}
		if !finite(sum) {
			continue
		}
		r.set(d.target, sum)
		supplied[d.target] = true
	}

	shares := r.IncomeStatement.SharesOutstanding
	derive := func(name string, needs string, v float64) {
		if supplied[name] || !supplied[needs] || shares == 0 || !finite(v) {
			return
		}
		r.set(name, v)
	}
	derive("market_cap", "share_price", r.Market.SharePrice*shares)
	derive("eps", "net_income", (r.IncomeStatement.NetIncome-r.IncomeStatement.PreferredDividends)/shares)
	derive("dividends_per_share", "dividends_paid", math.Abs(r.CashFlow.DividendsPaid)/shares)
	derive("book_value_per_share", "total_equity", r.BalanceSheet.TotalEquity/shares)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func copyMap(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
