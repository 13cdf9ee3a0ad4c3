package narrative

import (
	"bytes"
	"fmt"
	"sort"

	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
)

// SummaryRecommendations is how many recommendations the executive summary shows.
const SummaryRecommendations = 3

// SWOT holds rule-derived findings in rule order.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Recommendation is one fired recommendation rule.
type Recommendation struct {
	Category       string `json:"category"`
	Metric         string `json:"metric"`
	Recommendation string `json:"recommendation"`
	Priority       string `json:"priority"`
	ExpectedImpact string `json:"expected_impact"`

	order int
}

// Status is a one-word reading of the main scored areas.
type Status struct {
	Liquidity     string `json:"liquidity_status"`
	Profitability string `json:"profitability_status"`
	Activity      string `json:"activity_status"`
	Debt          string `json:"debt_management"`
}

// Narrative is the text part of a report.
type Narrative struct {
	Status          Status           `json:"status"`
	SWOT            SWOT             `json:"swot"`
	Recommendations []Recommendation `json:"recommendations"`
	Risk            RiskAssessment   `json:"risk_assessment"`
	Trend           Trend            `json:"trend_analysis"`
}

// TopRecommendations returns at most n recommendations, highest priority first.
func (n Narrative) TopRecommendations(limit int) []Recommendation {
	if limit > len(n.Recommendations) {
		limit = len(n.Recommendations)
	}
	out := make([]Recommendation, limit)
	copy(out, n.Recommendations[:limit])
	return out
}

// Generator evaluates a RuleSet against computed results.
type Generator struct {
	rules *RuleSet
}

// NewGenerator returns a generator over rules; nil means the embedded defaults.
func NewGenerator(rules *RuleSet) *Generator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Generator{rules: rules}
}

// Rules returns the rule table in use.
func (g *Generator) Rules() *RuleSet { return g.rules }

// messageData is what rule message templates see.
type messageData struct {
	Metric    string
	Label     string
	Value     float64
	Threshold float64
}

// Generate builds the narrative. comparisons holds benchmark comparisons by
// metric name; metrics without a comparison read as "not available".
func (g *Generator) Generate(results *calc.Results, comparisons map[string]benchmark.Comparison) (Narrative, error) {
	n := Narrative{
		SWOT: SWOT{
			Strengths:     []string{},
			Weaknesses:    []string{},
			Opportunities: []string{},
			Threats:       []string{},
		},
		Recommendations: []Recommendation{},
	}

	for i, r := range g.rules.SWOT {
		v, ok := results.Value(r.Metric).Float()
		if !ok {
			continue
		}
		key := fmt.Sprintf("swot[%d]", i)
		if good, threshold := r.good(v); good && r.Strength != "" {
			msg, err := g.render(key+".strength", r.Metric, v, threshold)
			if err != nil {
				return Narrative{}, err
			}
			n.SWOT.Strengths = append(n.SWOT.Strengths, msg)
		}
		if concern, threshold := r.concern(v); concern && r.Weakness != "" {
			msg, err := g.render(key+".weakness", r.Metric, v, threshold)
			if err != nil {
				return Narrative{}, err
			}
			n.SWOT.Weaknesses = append(n.SWOT.Weaknesses, msg)
		}
	}

	var err error
	if n.SWOT.Opportunities, err = g.conditions("opportunities", g.rules.Opportunities, results); err != nil {
		return Narrative{}, err
	}
	if n.SWOT.Threats, err = g.conditions("threats", g.rules.Threats, results); err != nil {
		return Narrative{}, err
	}

	for i, r := range g.rules.Recommendations {
		v, ok := results.Value(r.Metric).Float()
		if !ok || !holds(v, r.Op, r.Threshold) {
			continue
		}
		msg, err := g.render(fmt.Sprintf("recommendations[%d]", i), r.Metric, v, r.Threshold)
		if err != nil {
			return Narrative{}, err
		}
		n.Recommendations = append(n.Recommendations, Recommendation{
			Category:       r.Category,
			Metric:         r.Metric,
			Recommendation: msg,
			Priority:       r.Priority,
			ExpectedImpact: r.Impact,
			order:          i,
		})
	}
	sort.SliceStable(n.Recommendations, func(a, b int) bool {
		ra, rb := n.Recommendations[a], n.Recommendations[b]
		if priorityRank[ra.Priority] != priorityRank[rb.Priority] {
			return priorityRank[ra.Priority] < priorityRank[rb.Priority]
		}
		return ra.order < rb.order
	})

	n.Status = Status{
		Liquidity:     status(comparisons, "current_ratio"),
		Profitability: status(comparisons, "net_profit_margin"),
		Activity:      status(comparisons, "asset_turnover"),
		Debt:          status(comparisons, "debt_to_equity"),
	}
	n.Risk = AssessRisk(results)
	n.Trend = AnalyzeTrend(results)
	return n, nil
}

func (g *Generator) conditions(section string, rules []ConditionRule, results *calc.Results) ([]string, error) {
	out := []string{}
	for i, r := range rules {
		v, ok := results.Value(r.Metric).Float()
		if !ok || !holds(v, r.Op, r.Threshold) {
			continue
		}
		msg, err := g.render(fmt.Sprintf("%s[%d]", section, i), r.Metric, v, r.Threshold)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func (g *Generator) render(key, metric string, v, threshold float64) (string, error) {
	tmpl, ok := g.rules.templates[key]
	if !ok {
		return "", fmt.Errorf("rule %s: template not compiled", key)
	}
	m, _ := calc.Lookup(metric)
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, messageData{
		Metric:    metric,
		Label:     m.Label(),
		Value:     v,
		Threshold: threshold,
	}); err != nil {
		return "", fmt.Errorf("rule %s: %w", key, err)
	}
	return buf.String(), nil
}

func (r SWOTRule) good(v float64) (bool, float64) {
	switch {
	case r.GoodAbove != nil:
		return v > *r.GoodAbove, *r.GoodAbove
	case r.GoodBelow != nil:
		return v < *r.GoodBelow, *r.GoodBelow
	}
	return false, 0
}

func (r SWOTRule) concern(v float64) (bool, float64) {
	switch {
	case r.ConcernBelow != nil:
		return v < *r.ConcernBelow, *r.ConcernBelow
	case r.ConcernAbove != nil:
		return v > *r.ConcernAbove, *r.ConcernAbove
	}
	return false, 0
}

func status(comparisons map[string]benchmark.Comparison, metric string) string {
	if c, ok := comparisons[metric]; ok {
		return c.Performance
	}
	return "not available"
}
