package calc

import (
	"fmt"
	"strings"
)

// Category groups metrics in the report. The order of Categories() is the
// output order.
type Category string

const (
	CategoryLiquidity     Category = "liquidity"
	CategoryActivity      Category = "activity"
	CategoryProfitability Category = "profitability"
	CategoryLeverage      Category = "leverage"
	CategoryMarket        Category = "market"
	CategoryCashFlow      Category = "cash_flow"
	CategoryRisk          Category = "risk"
	CategoryGrowth        Category = "growth"
	CategoryDuPont        Category = "dupont"
	CategoryEconomicValue Category = "economic_value"
	CategoryBreakEven     Category = "break_even"
	CategoryVertical      Category = "vertical_analysis"
	CategoryHorizontal    Category = "horizontal_analysis"
)

// Kind is the unit of a metric and fixes its display precision.
type Kind string

const (
	KindRatio    Kind = "ratio"     // plain multiple, 2 dp
	KindPercent  Kind = "percent"   // already x100, 2 dp
	KindDays     Kind = "days"      // whole days
	KindAmount   Kind = "amount"    // currency units, whole
	KindPerShare Kind = "per_share" // currency per share, 2 dp
	KindScore    Kind = "score"     // model score, 2 dp
)

// Decimals returns the display precision of the kind.
func (k Kind) Decimals() int32 {
	switch k {
	case KindDays, KindAmount:
		return 0
	default:
		return 2
	}
}

// Direction tells the comparator which side of a benchmark is favourable.
type Direction int

const (
	Neutral Direction = iota
	HigherIsBetter
	LowerIsBetter
)

func (d Direction) String() string {
	switch d {
	case HigherIsBetter:
		return "higher_is_better"
	case LowerIsBetter:
		return "lower_is_better"
	default:
		return "neutral"
	}
}

// Formula computes one metric. It must not panic on numeric edge cases.
type Formula func(c *Context) Value

// Metric is one roster entry.
type Metric struct {
	Name      string
	Category  Category
	Kind      Kind
	Direction Direction
	Formula   Formula
}

// Label is a human-readable title for the metric name.
func (m Metric) Label() string {
	words := strings.Split(m.Name, "_")
	for i, w := range words {
		switch w {
		case "roa", "roe", "roic", "roce", "eps", "ebit", "ebitda", "ev", "eva", "nopat", "peg", "wacc",
			"dsri", "gmi", "aqi", "sgi", "depi", "sgai", "lvgi", "tata", "sga", "x1", "x2", "x3", "x4", "x5":
			words[i] = strings.ToUpper(w)
		case "to", "of", "on":
		default:
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
	}
	return strings.Join(words, " ")
}

type categoryGroup struct {
	category Category
	metrics  func() []Metric
}

var (
	categoryGroups = []categoryGroup{
		{CategoryLiquidity, liquidityMetrics},
		{CategoryActivity, activityMetrics},
		{CategoryProfitability, profitabilityMetrics},
		{CategoryLeverage, leverageMetrics},
		{CategoryMarket, marketMetrics},
		{CategoryCashFlow, cashFlowMetrics},
		{CategoryRisk, riskMetrics},
		{CategoryGrowth, growthMetrics},
		{CategoryDuPont, dupontMetrics},
		{CategoryEconomicValue, economicValueMetrics},
		{CategoryBreakEven, breakEvenMetrics},
		{CategoryVertical, verticalMetrics},
		{CategoryHorizontal, horizontalMetrics},
	}
	roster      []Metric
	rosterIndex map[string]int
)

// The roster is built in init because formulas refer back to it through
// Context.Metric.
func init() {
	roster, rosterIndex = buildRoster()
}

func buildRoster() ([]Metric, map[string]int) {
	var all []Metric
	index := make(map[string]int)
	for _, g := range categoryGroups {
		for _, m := range g.metrics() {
			m.Category = g.category
			if _, dup := index[m.Name]; dup {
				panic(fmt.Sprintf("calc: duplicate metric %q", m.Name))
			}
			if m.Formula == nil {
				panic(fmt.Sprintf("calc: metric %q has no formula", m.Name))
			}
			index[m.Name] = len(all)
			all = append(all, m)
		}
	}
	return all, index
}

// Categories returns every category in output order.
func Categories() []Category {
	out := make([]Category, len(categoryGroups))
	for i, g := range categoryGroups {
		out[i] = g.category
	}
	return out
}

// CategoryIndex returns the output position of a category name.
func CategoryIndex(name string) (int, bool) {
	for i, g := range categoryGroups {
		if string(g.category) == name {
			return i, true
		}
	}
	return 0, false
}

// Roster returns a copy of every metric in output order.
func Roster() []Metric {
	out := make([]Metric, len(roster))
	copy(out, roster)
	return out
}

// Lookup finds a metric by name.
func Lookup(name string) (Metric, bool) {
	i, ok := rosterIndex[name]
	if !ok {
		return Metric{}, false
	}
	return roster[i], true
}

// CategoryCounts returns the number of metrics per category.
func CategoryCounts() map[Category]int {
	counts := make(map[Category]int, len(categoryGroups))
	for _, m := range roster {
		counts[m.Category]++
	}
	return counts
}

// Total is the size of the roster.
func Total() int { return len(roster) }

// metric is shorthand used by the roster tables.
func metric(name string, kind Kind, dir Direction, f Formula) Metric {
	return Metric{Name: name, Kind: kind, Direction: dir, Formula: f}
}
