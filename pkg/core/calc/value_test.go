package calc

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf_NonFiniteIsUndefined(t *testing.T) {
	assert.False(t, Of(math.NaN()).Defined())
	assert.False(t, Of(math.Inf(1)).Defined())
	assert.False(t, Of(math.Inf(-1)).Defined())
	assert.True(t, Of(0).Defined())
	assert.Equal(t, Undefined, Value{})
}

func TestDiv_ZeroDenominator(t *testing.T) {
	assert.False(t, Div(Of(5), Of(0)).Defined())
	assert.False(t, Div(Of(0), Of(0)).Defined())

	v, ok := Div(Of(5000000), Of(2500000)).Float()
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestArithmetic_PropagatesUndefined(t *testing.T) {
	u := Undefined
	one := Of(1)

	assert.False(t, Add(one, u).Defined())
	assert.False(t, Sub(u, one).Defined())
	assert.False(t, Mul(one, u).Defined())
	assert.False(t, Div(u, one).Defined())
	assert.False(t, u.Scale(100).Defined())
	assert.False(t, u.Abs().Defined())
	assert.False(t, Growth(one, u).Defined())
	assert.Equal(t, 7.0, u.Or(7))
}

func TestArithmetic_OverflowIsUndefined(t *testing.T) {
	huge := Of(math.MaxFloat64)
	assert.False(t, Mul(huge, huge).Defined())
	assert.False(t, Add(huge, huge).Defined())
	assert.False(t, huge.Scale(10).Defined())
	assert.False(t, Div(huge, Of(1e-300)).Defined())
}

func TestGrowth_UsesAbsolutePrior(t *testing.T) {
	v, ok := Growth(Of(10000000), Of(8000000)).Float()
	require.True(t, ok)
	assert.InDelta(t, 25.0, v, 1e-9)

	// A loss narrowing from -100 to -50 is an improvement.
	v, ok = Growth(Of(-50), Of(-100)).Float()
	require.True(t, ok)
	assert.InDelta(t, 50.0, v, 1e-9)

	assert.False(t, Growth(Of(10), Of(0)).Defined())
}

func TestValue_JSON(t *testing.T) {
	type row struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}

	out, err := json.Marshal(row{A: Of(1.25), B: Undefined})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.25,"b":null}`, string(out))

	var back row
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, Of(1.25), back.A)
	assert.False(t, back.B.Defined())
}

func TestPositive(t *testing.T) {
	assert.Equal(t, Of(2), Positive(Of(2)))
	assert.False(t, Positive(Of(0)).Defined())
	assert.False(t, Positive(Of(-3)).Defined())
	assert.False(t, Positive(Undefined).Defined())
}
