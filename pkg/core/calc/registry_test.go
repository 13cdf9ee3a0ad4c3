package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_CategoryPartition(t *testing.T) {
	counts := CategoryCounts()
	sum := 0
	for _, cat := range Categories() {
		assert.Positive(t, counts[cat], "category %s is empty", cat)
		sum += counts[cat]
	}
	assert.Equal(t, Total(), sum)
	assert.Len(t, counts, len(Categories()))
}

func TestRoster_Size(t *testing.T) {
	assert.Equal(t, 172, Total())

	expected := map[Category]int{
		CategoryLiquidity:     15,
		CategoryActivity:      18,
		CategoryProfitability: 20,
		CategoryLeverage:      15,
		CategoryMarket:        17,
		CategoryCashFlow:      13,
		CategoryRisk:          16,
		CategoryGrowth:        13,
		CategoryDuPont:        8,
		CategoryEconomicValue: 7,
		CategoryBreakEven:     6,
		CategoryVertical:      14,
		CategoryHorizontal:    10,
	}
	assert.Equal(t, expected, CategoryCounts())
}

func TestRoster_OrderFollowsCategories(t *testing.T) {
	order := make(map[Category]int)
	for i, c := range Categories() {
		order[c] = i
	}

	last := -1
	for _, m := range Roster() {
		pos, ok := order[m.Category]
		require.True(t, ok, "metric %s has unknown category %s", m.Name, m.Category)
		assert.GreaterOrEqual(t, pos, last, "metric %s is out of category order", m.Name)
		last = pos
	}
}

func TestRoster_Lookup(t *testing.T) {
	m, ok := Lookup("current_ratio")
	require.True(t, ok)
	assert.Equal(t, CategoryLiquidity, m.Category)
	assert.Equal(t, KindRatio, m.Kind)
	assert.Equal(t, HigherIsBetter, m.Direction)

	m, ok = Lookup("debt_to_equity")
	require.True(t, ok)
	assert.Equal(t, LowerIsBetter, m.Direction)

	_, ok = Lookup("no_such_metric")
	assert.False(t, ok)
}

func TestRoster_KindsAreKnown(t *testing.T) {
	known := map[Kind]bool{
		KindRatio: true, KindPercent: true, KindDays: true,
		KindAmount: true, KindPerShare: true, KindScore: true,
	}
	for _, m := range Roster() {
		assert.True(t, known[m.Kind], "metric %s has kind %q", m.Name, m.Kind)
	}
}

func TestMetric_Label(t *testing.T) {
	assert.Equal(t, "Current Ratio", Metric{Name: "current_ratio"}.Label())
	assert.Equal(t, "Debt to Equity", Metric{Name: "debt_to_equity"}.Label())
	assert.Equal(t, "EV to EBITDA", Metric{Name: "ev_to_ebitda"}.Label())
	assert.Equal(t, "ROE", Metric{Name: "roe"}.Label())
}

func TestKind_Decimals(t *testing.T) {
	assert.Equal(t, int32(2), KindRatio.Decimals())
	assert.Equal(t, int32(2), KindPercent.Decimals())
	assert.Equal(t, int32(0), KindDays.Decimals())
	assert.Equal(t, int32(0), KindAmount.Decimals())
}

func TestCategoryIndex(t *testing.T) {
	i, ok := CategoryIndex("liquidity")
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = CategoryIndex("horizontal_analysis")
	assert.True(t, ok)
	assert.Equal(t, len(Categories())-1, i)

	_, ok = CategoryIndex("astrology")
	assert.False(t, ok)
}
