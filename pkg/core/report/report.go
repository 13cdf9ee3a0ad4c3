// Package report assembles computed ratios, benchmark comparisons, the
// health score and the narrative into one JSON-safe Report. Display rounding
// happens here and nowhere else.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
	"financial_analysis/pkg/core/narrative"
	"financial_analysis/pkg/core/scoring"
	"financial_analysis/pkg/models"
)

// ErrInvariantViolation marks a report that failed its safety check. It is a
// programming error; the run fails and no partial report is returned.
var ErrInvariantViolation = errors.New("report invariant violation")

// Metadata describes the analysis request.
type Metadata struct {
	CompanyName     string    `json:"company_name"`
	Sector          string    `json:"sector,omitempty"`
	Activity        string    `json:"activity,omitempty"`
	LegalEntity     string    `json:"legal_entity,omitempty"`
	ComparisonLevel string    `json:"comparison_level,omitempty"`
	AnalysisYears   int       `json:"analysis_years"`
	Language        string    `json:"language"`
	AnalysisTypes   []string  `json:"analysis_types,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
	HasPriorYear    bool      `json:"has_prior_year"`
}

// RatioResult is one metric as it appears in the report.
type RatioResult struct {
	Name       string                `json:"name"`
	Label      string                `json:"label"`
	Kind       calc.Kind             `json:"kind"`
	Direction  string                `json:"direction"`
	Value      calc.Value            `json:"value"`
	Comparison *benchmark.Comparison `json:"comparison,omitempty"`
}

// CategoryResult lists one category's metrics in roster order.
type CategoryResult struct {
	Name    string                                      `json:"name"`
	Count   int                                         `json:"count"`
	Metrics *orderedmap.OrderedMap[string, RatioResult] `json:"metrics"`
}

// SummaryRow is one line of the executive summary table.
type SummaryRow struct {
	Category    string     `json:"category"`
	Metric      string     `json:"metric"`
	Label       string     `json:"label"`
	Kind        calc.Kind  `json:"kind"`
	Value       calc.Value `json:"value"`
	Benchmark   calc.Value `json:"benchmark"`
	Performance string     `json:"performance"`
	Rating      string     `json:"rating"`
}

// Forecast is a naive one-year projection from current growth and margin.
type Forecast struct {
	NextYearRevenue   calc.Value `json:"next_year_revenue"`
	RevenueGrowth     calc.Value `json:"revenue_growth"`
	ExpectedNetMargin calc.Value `json:"expected_net_margin"`
	ExpectedNetIncome calc.Value `json:"expected_net_income"`
}

// ExecutiveSummary is the condensed view of the report.
type ExecutiveSummary struct {
	KeyFindings        []string                   `json:"key_findings"`
	SummaryTable       []SummaryRow               `json:"summary_table"`
	SWOT               narrative.SWOT             `json:"swot"`
	TopRecommendations []narrative.Recommendation `json:"top_recommendations"`
	Forecast           Forecast                   `json:"forecast"`
}

// Report is the result of one analysis run.
type Report struct {
	ID                  string                                          `json:"id,omitempty"`
	Metadata            Metadata                                        `json:"metadata"`
	Categories          *orderedmap.OrderedMap[string, *CategoryResult] `json:"categories"`
	HealthScore         scoring.HealthScore                             `json:"health_score"`
	Narrative           narrative.Narrative                             `json:"narrative"`
	ExecutiveSummary    ExecutiveSummary                                `json:"executive_summary"`
	CategoryCounts      *orderedmap.OrderedMap[string, int]             `json:"category_counts"`
	TotalMetricCount    int                                             `json:"total_metric_count"`
	DefinedMetricCount  int                                             `json:"defined_metric_count"`
	ComparedMetricCount int                                             `json:"compared_metric_count"`
	IntegrityChecks     []calc.IntegrityCheck                           `json:"integrity_checks"`
}

// Input is everything the aggregator composes.
type Input struct {
	Metadata    Metadata
	Record      *models.FinancialRecord
	Results     *calc.Results
	Comparisons map[string]benchmark.Comparison
	Health      scoring.HealthScore
	Narrative   narrative.Narrative
}

// Build composes and validates a report. Counts are taken from the entries
// actually produced.
func Build(in Input) (*Report, error) {
	if in.Results == nil {
		return nil, fmt.Errorf("%w: no results", ErrInvariantViolation)
	}

	r := &Report{
		Metadata:       in.Metadata,
		Categories:     orderedmap.New[string, *CategoryResult](),
		CategoryCounts: orderedmap.New[string, int](),
		Narrative:      in.Narrative,
	}
	r.IntegrityChecks = []calc.IntegrityCheck{}
	if in.Record != nil {
		r.Metadata.HasPriorYear = in.Record.HasPriorYear()
		r.IntegrityChecks = calc.Verify(in.Record)
	}

	for _, cat := range calc.Categories() {
		r.Categories.Set(string(cat), &CategoryResult{
			Name:    string(cat),
			Metrics: orderedmap.New[string, RatioResult](),
		})
	}
	for _, res := range in.Results.All() {
		m := res.Metric
		entry := RatioResult{
			Name:      m.Name,
			Label:     m.Label(),
			Kind:      m.Kind,
			Direction: m.Direction.String(),
			Value:     Round(res.Value, m.Kind),
		}
		if cmp, ok := in.Comparisons[m.Name]; ok && res.Value.Defined() {
			rounded := roundComparison(cmp, m.Kind)
			entry.Comparison = &rounded
			r.ComparedMetricCount++
		}
		if res.Value.Defined() {
			r.DefinedMetricCount++
		}

		cr, ok := r.Categories.Get(string(m.Category))
		if !ok {
			return nil, fmt.Errorf("%w: metric %s has unknown category %s", ErrInvariantViolation, m.Name, m.Category)
		}
		cr.Metrics.Set(m.Name, entry)
	}

	for pair := r.Categories.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Count = pair.Value.Metrics.Len()
		r.CategoryCounts.Set(pair.Key, pair.Value.Count)
		r.TotalMetricCount += pair.Value.Count
	}

	r.HealthScore = roundHealth(in.Health)
	r.ExecutiveSummary = r.summarize(in)

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Metric returns the report entry for a metric name.
func (r *Report) Metric(name string) (RatioResult, bool) {
	m, ok := calc.Lookup(name)
	if !ok {
		return RatioResult{}, false
	}
	cr, ok := r.Categories.Get(string(m.Category))
	if !ok {
		return RatioResult{}, false
	}
	return cr.Metrics.Get(name)
}

func (r *Report) summarize(in Input) ExecutiveSummary {
	es := ExecutiveSummary{
		SWOT:               in.Narrative.SWOT,
		TopRecommendations: in.Narrative.TopRecommendations(narrative.SummaryRecommendations),
		SummaryTable:       make([]SummaryRow, 0, len(scoring.Representatives)),
	}

	hs := r.HealthScore
	es.KeyFindings = append(es.KeyFindings,
		fmt.Sprintf("Financial health score: %s/100 (%s, %s).", Format(calc.Of(hs.Score), calc.KindScore), hs.Label, hs.Rating))

	for _, rep := range scoring.Representatives {
		entry, _ := r.Metric(rep.Metric)
		row := SummaryRow{
			Category:    rep.Category,
			Metric:      rep.Metric,
			Label:       entry.Label,
			Kind:        entry.Kind,
			Value:       entry.Value,
			Performance: "not available",
			Rating:      "-",
		}
		if entry.Comparison != nil {
			row.Benchmark = calc.Of(entry.Comparison.Benchmark)
			row.Performance = entry.Comparison.Performance
			row.Rating = entry.Comparison.Rating
		}
		es.SummaryTable = append(es.SummaryTable, row)

		switch {
		case !entry.Value.Defined():
			es.KeyFindings = append(es.KeyFindings, fmt.Sprintf("%s: %s not available.", title(rep.Category), entry.Label))
		case entry.Comparison != nil:
			es.KeyFindings = append(es.KeyFindings, fmt.Sprintf("%s: %s %s (%s against benchmark %s).",
				title(rep.Category), entry.Label, Format(entry.Value, entry.Kind), entry.Comparison.Performance,
				Format(calc.Of(entry.Comparison.Benchmark), entry.Kind)))
		default:
			es.KeyFindings = append(es.KeyFindings, fmt.Sprintf("%s: %s %s.", title(rep.Category), entry.Label, Format(entry.Value, entry.Kind)))
		}
	}

	es.KeyFindings = append(es.KeyFindings,
		fmt.Sprintf("Overall risk: %s.", in.Narrative.Risk.Overall),
		fmt.Sprintf("%d of %d metrics computed; %d compared with benchmarks.",
			r.DefinedMetricCount, r.TotalMetricCount, r.ComparedMetricCount))
	for _, c := range r.IntegrityChecks {
		if !c.Balanced {
			es.KeyFindings = append(es.KeyFindings, "Data check: "+c.Warning+".")
		}
	}

	es.Forecast = forecast(in.Record, in.Results)
	return es
}

// forecast projects revenue one year ahead at the current growth rate and
// applies the current net margin.
func forecast(rec *models.FinancialRecord, results *calc.Results) Forecast {
	growth := results.Value("revenue_growth")
	margin := results.Value("net_profit_margin")
	revenue := calc.Undefined
	if rec != nil && rec.IncomeStatement.Revenue != 0 {
		revenue = calc.Of(rec.IncomeStatement.Revenue)
	}
	next := calc.Mul(revenue, calc.Add(calc.Of(1), growth.Scale(0.01)))
	return Forecast{
		NextYearRevenue:   Round(next, calc.KindAmount),
		RevenueGrowth:     Round(growth, calc.KindPercent),
		ExpectedNetMargin: Round(margin, calc.KindPercent),
		ExpectedNetIncome: Round(calc.Mul(next, margin.Scale(0.01)), calc.KindAmount),
	}
}

// Round applies the display precision of kind, half away from zero.
func Round(v calc.Value, kind calc.Kind) calc.Value {
	f, ok := v.Float()
	if !ok {
		return calc.Undefined
	}
	return calc.Of(round(f, kind.Decimals()))
}

func round(f float64, places int32) float64 {
	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}

// Format renders a value for text output; Undefined reads "n/a".
func Format(v calc.Value, kind calc.Kind) string {
	f, ok := v.Float()
	if !ok {
		return "n/a"
	}
	s := decimal.NewFromFloat(f).StringFixed(kind.Decimals())
	switch kind {
	case calc.KindPercent:
		return s + "%"
	case calc.KindDays:
		return s + " days"
	}
	return s
}

func roundComparison(c benchmark.Comparison, kind calc.Kind) benchmark.Comparison {
	places := kind.Decimals()
	if places == 0 {
		places = 2
	}
	c.Benchmark = round(c.Benchmark, places)
	c.Difference = round(c.Difference, places)
	c.PercentageDifference = round(c.PercentageDifference, 2)
	return c
}

func roundHealth(hs scoring.HealthScore) scoring.HealthScore {
	out := hs
	out.Score = round(hs.Score, 2)
	out.Components = make([]scoring.Component, len(hs.Components))
	for i, c := range hs.Components {
		m, _ := calc.Lookup(c.Metric)
		c.Value = Round(c.Value, m.Kind)
		c.Score = round(c.Score, 2)
		out.Components[i] = c
	}
	return out
}

func title(category string) string {
	if category == "" {
		return ""
	}
	return string(category[0]-'a'+'A') + category[1:]
}
