// Package benchmark compares computed metrics with industry reference values
// and maps the deviation to a performance tier.
package benchmark

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"financial_analysis/pkg/core/calc"
)

//go:embed benchmarks.yaml
var defaultTable []byte

// Table holds default benchmarks and per-sector overrides.
type Table struct {
	Defaults map[string]float64            `yaml:"defaults"`
	Sectors  map[string]map[string]float64 `yaml:"sectors"`
}

// Default returns the built-in table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("benchmark: embedded table is invalid: %v", err))
	}
	return t
}

// Parse decodes a YAML table and checks that every key names a roster metric.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse benchmark table: %w", err)
	}
	if err := validate("defaults", t.Defaults); err != nil {
		return nil, err
	}
	for sector, values := range t.Sectors {
		if err := validate("sector "+sector, values); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// LoadFile reads an external table. An empty path yields the built-in table.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmark file %s: %w", path, err)
	}
	return Parse(data)
}

func validate(scope string, values map[string]float64) error {
	for name := range values {
		if _, ok := calc.Lookup(name); !ok {
			return fmt.Errorf("benchmark %s: unknown metric %q", scope, name)
		}
	}
	return nil
}

// Set is the resolved benchmark set for one analysis.
type Set map[string]float64

// For layers defaults, then the sector overrides, then caller-supplied
// industry averages.
func (t *Table) For(sector string, overrides map[string]float64) Set {
	out := make(Set, len(t.Defaults))
	for k, v := range t.Defaults {
		out[k] = v
	}
	for k, v := range t.Sectors[sector] {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Get returns the benchmark for a metric.
func (s Set) Get(metric string) (float64, bool) {
	v, ok := s[metric]
	return v, ok
}

// Names returns the benchmarked metric names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// UnknownMetrics lists names in values that are not roster metrics.
func UnknownMetrics(values map[string]float64) []string {
	var unknown []string
	for name := range values {
		if _, ok := calc.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
