package calc

import (
	"fmt"

	"financial_analysis/pkg/models"
)

const (
	pending = iota + 1
	done
)

// Context is the per-run evaluation state. Composite formulas read other
// metrics through Metric so each value is computed once per run.
type Context struct {
	rec    *models.FinancialRecord
	values map[string]Value
	state  map[string]int
}

// NewContext prepares an evaluation over rec. The record is only read.
func NewContext(rec *models.FinancialRecord) *Context {
	return &Context{
		rec:    rec,
		values: make(map[string]Value, len(roster)),
		state:  make(map[string]int, len(roster)),
	}
}

func (c *Context) Record() *models.FinancialRecord { return c.rec }

func (c *Context) bs() *models.BalanceSheet    { return &c.rec.BalanceSheet }
func (c *Context) is() *models.IncomeStatement { return &c.rec.IncomeStatement }
func (c *Context) cf() *models.CashFlow        { return &c.rec.CashFlow }
func (c *Context) mkt() *models.Market         { return &c.rec.Market }

// Prior returns the prior-year value of a statement field, Undefined when absent.
func (c *Context) Prior(field string) Value {
	if !models.IsField(field) {
		panic(fmt.Sprintf("calc: unknown field %q", field))
	}
	v, ok := c.rec.Prior(field)
	if !ok {
		return Undefined
	}
	return Of(v)
}

// Current returns the current-period value of a statement field.
func (c *Context) Current(field string) Value {
	v, ok := c.rec.Field(field)
	if !ok {
		panic(fmt.Sprintf("calc: unknown field %q", field))
	}
	return Of(v)
}

// Metric evaluates a roster metric, memoised for the run. Unknown names and
// dependency cycles are programming errors and panic.
func (c *Context) Metric(name string) Value {
	switch c.state[name] {
	case done:
		return c.values[name]
	case pending:
		panic(fmt.Sprintf("calc: cyclic dependency through %q", name))
	}
	i, ok := rosterIndex[name]
	if !ok {
		panic(fmt.Sprintf("calc: unknown metric %q", name))
	}
	c.state[name] = pending
	v := roster[i].Formula(c)
	c.values[name] = v
	c.state[name] = done
	return v
}

// Result pairs a roster entry with its computed value.
type Result struct {
	Metric Metric
	Value  Value
}

// Results holds one value per roster metric, in roster order.
type Results struct {
	list  []Result
	index map[string]int
}

// Compute evaluates the whole roster over rec.
func Compute(rec *models.FinancialRecord) *Results {
	ctx := NewContext(rec)
	res := &Results{
		list:  make([]Result, 0, len(roster)),
		index: make(map[string]int, len(roster)),
	}
	for _, m := range roster {
		res.index[m.Name] = len(res.list)
		res.list = append(res.list, Result{Metric: m, Value: ctx.Metric(m.Name)})
	}
	return res
}

// All returns the results in roster order.
func (r *Results) All() []Result {
	out := make([]Result, len(r.list))
	copy(out, r.list)
	return out
}

// Value returns the computed value for name, Undefined if unknown.
func (r *Results) Value(name string) Value {
	i, ok := r.index[name]
	if !ok {
		return Undefined
	}
	return r.list[i].Value
}

func (r *Results) Len() int { return len(r.list) }
