// Package narrative turns computed ratios into rule-based text: SWOT items,
// prioritised recommendations, a risk assessment and a trend summary.
// Rules are ordered data; no randomness or model calls are involved.
package narrative

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v2"

	"financial_analysis/pkg/core/calc"
)

//go:embed rules.yaml
var defaultRules []byte

// Comparison operators accepted by condition rules.
const (
	OpGT  = "gt"
	OpGTE = "gte"
	OpLT  = "lt"
	OpLTE = "lte"
)

// Recommendation priorities, highest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// SWOTRule adds a strength when the metric is on the good side of its
// threshold and a weakness when it crosses the concern threshold.
type SWOTRule struct {
	Metric       string   `yaml:"metric"`
	GoodAbove    *float64 `yaml:"good_above"`
	GoodBelow    *float64 `yaml:"good_below"`
	ConcernBelow *float64 `yaml:"concern_below"`
	ConcernAbove *float64 `yaml:"concern_above"`
	Strength     string   `yaml:"strength"`
	Weakness     string   `yaml:"weakness"`
}

// ConditionRule fires its message when `metric op threshold` holds.
type ConditionRule struct {
	Metric    string  `yaml:"metric"`
	Op        string  `yaml:"op"`
	Threshold float64 `yaml:"threshold"`
	Message   string  `yaml:"message"`
}

// RecommendationRule is a condition with a category, priority and expected impact.
type RecommendationRule struct {
	Category  string  `yaml:"category"`
	Metric    string  `yaml:"metric"`
	Op        string  `yaml:"op"`
	Threshold float64 `yaml:"threshold"`
	Message   string  `yaml:"message"`
	Priority  string  `yaml:"priority"`
	Impact    string  `yaml:"impact"`
}

// RuleSet is the full ordered rule table.
type RuleSet struct {
	SWOT            []SWOTRule           `yaml:"swot"`
	Opportunities   []ConditionRule      `yaml:"opportunities"`
	Threats         []ConditionRule      `yaml:"threats"`
	Recommendations []RecommendationRule `yaml:"recommendations"`

	templates map[string]*template.Template
}

// DefaultRules returns the embedded rule table. It panics if the embedded
// file is invalid, which is a build defect.
func DefaultRules() *RuleSet {
	rs, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("narrative: embedded rules: %v", err))
	}
	return rs
}

// Parse decodes and validates a YAML rule table.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.UnmarshalStrict(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := rs.compile(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// LoadFromDirectory reads every .yaml/.yml file under dir in lexical path
// order and concatenates their rule lists, so later files append to earlier
// ones. An empty dir yields the embedded defaults.
func LoadFromDirectory(dir string) (*RuleSet, error) {
	if dir == "" {
		return DefaultRules(), nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("rules directory not found: %s", dir)
	}

	merged := &RuleSet{}
	files := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if info.IsDir() || (ext != ".yaml" && ext != ".yml") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		var rs RuleSet
		if err := yaml.UnmarshalStrict(data, &rs); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merged.SWOT = append(merged.SWOT, rs.SWOT...)
		merged.Opportunities = append(merged.Opportunities, rs.Opportunities...)
		merged.Threats = append(merged.Threats, rs.Threats...)
		merged.Recommendations = append(merged.Recommendations, rs.Recommendations...)
		files++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if files == 0 {
		return nil, fmt.Errorf("no rule files in %s", dir)
	}
	if err := merged.compile(); err != nil {
		return nil, err
	}
	return merged, nil
}

var templateFuncs = template.FuncMap{
	"mul": func(a, b float64) float64 { return a * b },
	"neg": func(a float64) float64 { return -a },
}

// compile validates every rule and parses its message templates.
func (rs *RuleSet) compile() error {
	rs.templates = make(map[string]*template.Template)
	add := func(key, text string) error {
		if text == "" {
			return nil
		}
		tmpl, err := template.New(key).Funcs(templateFuncs).Option("missingkey=error").Parse(text)
		if err != nil {
			return fmt.Errorf("rule %s: bad message template: %w", key, err)
		}
		rs.templates[key] = tmpl
		return nil
	}

	for i, r := range rs.SWOT {
		key := fmt.Sprintf("swot[%d]", i)
		if err := checkMetric(key, r.Metric); err != nil {
			return err
		}
		if r.GoodAbove != nil && r.GoodBelow != nil {
			return fmt.Errorf("rule %s: good_above and good_below are exclusive", key)
		}
		if r.ConcernAbove != nil && r.ConcernBelow != nil {
			return fmt.Errorf("rule %s: concern_above and concern_below are exclusive", key)
		}
		if r.GoodAbove == nil && r.GoodBelow == nil && r.ConcernAbove == nil && r.ConcernBelow == nil {
			return fmt.Errorf("rule %s: no threshold", key)
		}
		if err := add(key+".strength", r.Strength); err != nil {
			return err
		}
		if err := add(key+".weakness", r.Weakness); err != nil {
			return err
		}
	}
	for i, r := range rs.Opportunities {
		key := fmt.Sprintf("opportunities[%d]", i)
		if err := checkCondition(key, r.Metric, r.Op); err != nil {
			return err
		}
		if err := add(key, r.Message); err != nil {
			return err
		}
	}
	for i, r := range rs.Threats {
		key := fmt.Sprintf("threats[%d]", i)
		if err := checkCondition(key, r.Metric, r.Op); err != nil {
			return err
		}
		if err := add(key, r.Message); err != nil {
			return err
		}
	}
	for i, r := range rs.Recommendations {
		key := fmt.Sprintf("recommendations[%d]", i)
		if err := checkCondition(key, r.Metric, r.Op); err != nil {
			return err
		}
		if _, ok := priorityRank[r.Priority]; !ok {
			return fmt.Errorf("rule %s: unknown priority %q", key, r.Priority)
		}
		if _, ok := calc.CategoryIndex(r.Category); !ok {
			return fmt.Errorf("rule %s: unknown category %q", key, r.Category)
		}
		if err := add(key, r.Message); err != nil {
			return err
		}
	}
	return nil
}

func checkMetric(key, name string) error {
	if _, ok := calc.Lookup(name); !ok {
		return fmt.Errorf("rule %s: unknown metric %q", key, name)
	}
	return nil
}

func checkCondition(key, metric, op string) error {
	if err := checkMetric(key, metric); err != nil {
		return err
	}
	switch op {
	case OpGT, OpGTE, OpLT, OpLTE:
		return nil
	}
	return fmt.Errorf("rule %s: unknown op %q", key, op)
}

// holds evaluates `v op threshold`.
func holds(v float64, op string, threshold float64) bool {
	switch op {
	case OpGT:
		return v > threshold
	case OpGTE:
		return v >= threshold
	case OpLT:
		return v < threshold
	case OpLTE:
		return v <= threshold
	}
	return false
}
