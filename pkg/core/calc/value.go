// Package calc provides deterministic financial ratio calculations.
// Every formula is total: a zero denominator or a missing input yields
// Undefined instead of a sentinel float.
package calc

import (
	"bytes"
	"encoding/json"
	"math"
)

// Value is a metric result. The zero value is Undefined.
type Value struct {
	v  float64
	ok bool
}

// Undefined is the "no valid numeric result" value. It is distinct from
// zero and is serialized as JSON null.
var Undefined = Value{}

// Of wraps a float. Non-finite input becomes Undefined.
func Of(x float64) Value {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Undefined
	}
	return Value{v: x, ok: true}
}

// Defined reports whether the value holds a finite number.
func (x Value) Defined() bool { return x.ok }

// Float returns the number and whether it is defined.
func (x Value) Float() (float64, bool) { return x.v, x.ok }

// Or returns the number, or def when Undefined.
func (x Value) Or(def float64) float64 {
	if !x.ok {
		return def
	}
	return x.v
}

// Scale multiplies by a constant.
func (x Value) Scale(k float64) Value {
	if !x.ok {
		return Undefined
	}
	return Of(x.v * k)
}

// Abs returns the magnitude.
func (x Value) Abs() Value {
	if !x.ok {
		return Undefined
	}
	return Value{v: math.Abs(x.v), ok: true}
}

// Add sums its arguments. Any Undefined operand makes the sum Undefined.
func Add(xs ...Value) Value {
	sum := 0.0
	for _, x := range xs {
		if !x.ok {
			return Undefined
		}
		sum += x.v
	}
	return Of(sum)
}

func Sub(a, b Value) Value {
	if !a.ok || !b.ok {
		return Undefined
	}
	return Of(a.v - b.v)
}

func Mul(a, b Value) Value {
	if !a.ok || !b.ok {
		return Undefined
	}
	return Of(a.v * b.v)
}

// Div returns a/b, or Undefined when b is zero.
func Div(a, b Value) Value {
	if !a.ok || !b.ok || b.v == 0 {
		return Undefined
	}
	return Of(a.v / b.v)
}

// Positive returns x when it is strictly positive, Undefined otherwise. It
// guards ratio bases whose sign carries no meaning below zero.
func Positive(x Value) Value {
	if !x.ok || x.v <= 0 {
		return Undefined
	}
	return x
}

// Percent returns a/b expressed x100.
func Percent(a, b Value) Value {
	return Div(a, b).Scale(100)
}

// Growth is the change from prior to current relative to |prior|, x100.
func Growth(current, prior Value) Value {
	return Div(Sub(current, prior), prior.Abs()).Scale(100)
}

func (x Value) MarshalJSON() ([]byte, error) {
	if !x.ok {
		return []byte("null"), nil
	}
	return json.Marshal(x.v)
}

func (x *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*x = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*x = Of(f)
	return nil
}
