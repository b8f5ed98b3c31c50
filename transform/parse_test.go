package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/rotation"
)

func TestSplit(t *testing.T) {
	vs := []struct {
		line string
		want []string
	}{
		{"Tx(alpha)", []string{"Tx", "(", "alpha", ")"}},
		{"Rz(0.3).T * [1, -2,3e2]", []string{"Rz", "(", "0.3", ")", ".", "T", "*", "[", "1", ",", "-", "2", ",", "3e2", "]"}},
		{"Ty(15deg)+x", []string{"Ty", "(", "15", "deg", ")", "+", "x"}},
		{"A # b", []string{"A", "# b"}},
	}
	for i, v := range vs {
		assert.Equal(t, v.want, split(v.line), "[%d] %q", i, v.line)
	}
}

func TestParse(t *testing.T) {
	ab := must(Tx(alpha).Mul(Ty(beta)))
	env := map[string]*Transform{"AB": ab}
	vs := []struct {
		expr   string
		params []string
		args   []any
		want   *Transform
	}{
		{
			expr:   "Tx(alpha)*Ty(beta)",
			params: []string{"beta", "alpha"},
			args:   []any{0.2, 0.5},
			want:   must(Tx(Val(0.5)).Mul(Ty(Val(0.2)))),
		},
		{
			expr:   "Tx(alpha) * Ty(15deg)",
			params: []string{"alpha"},
			args:   []any{0.5},
			want:   must(Tx(Val(0.5)).Mul(Ty(Val(rotation.Rad(15))))),
		},
		{
			expr: "Rz(0.3).T*[1,1,1]",
			want: must(Rz(Val(0.3)).T().Mul([]float64{1, 1, 1})),
		},
		{
			expr: "Rz(-0.3) * Rx(2rad).Inv",
			want: must(Rz(Val(-0.3)).Mul(Rx(Val(2)).Inv())),
		},
		{
			expr:   "(AB).C * [x, 2*x, 1]",
			params: []string{"beta", "alpha", "x"},
			args:   []any{0.2, 0.5, 3},
			want:   must(must(Tx(Val(-0.5)).Mul(Ty(Val(-0.2)))).Mul([]float64{3, 6, 1})),
		},
		{
			expr:   "Tx(alpha)*[0,1,0] + [1, 1, 1]",
			params: []string{"alpha"},
			args:   []any{0.5},
			want:   must(must(Tx(Val(0.5)).Mul([]float64{0, 1, 0})).Add([]float64{1, 1, 1})),
		},
		{
			expr:   "Tx(alpha)*[0,1,0] - [1, 1, 1]",
			params: []string{"alpha"},
			args:   []any{0.5},
			want:   must(must(Tx(Val(0.5)).Mul([]float64{0, 1, 0})).Sub([]float64{1, 1, 1})),
		},
	}
	for i, v := range vs {
		got, err := Parse(v.expr, env)
		require.NoError(t, err, "[%d] %q", i, v.expr)
		if v.params == nil {
			assert.False(t, got.IsSymbolic(), "[%d] %q", i, v.expr)
		}
		assert.Equal(t, len(v.params), len(got.Params()), "[%d] %q", i, v.expr)
		if len(v.params) != 0 {
			assert.Equal(t, v.params, got.Params(), "[%d] %q", i, v.expr)
		}
		r, err := got.Call(v.args...)
		require.NoError(t, err, "[%d] %q", i, v.expr)
		assertMatrix(t, v.want.Matrix().(*Numeric).Dense(), r.Matrix())
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"Tx(",
		"Tx(alpha",
		"Tx(-alpha)",
		"Qx(alpha)",
		"Tx(alpha).X",
		"[1,2,3]",
		"[1,2,3]*Tx(alpha)",
		"Tx(alpha) Ty(beta)",
		"Tx(alpha)*[1,,2]",
		"Tx(alpha)*[1,2",
		"(Tx(alpha)",
	} {
		_, err := Parse(expr, nil)
		assert.ErrorIs(t, err, ErrSyntax, "%q", expr)
	}

	_, err := Parse("Tx(alpha)*[1,2]", nil)
	assert.ErrorIs(t, err, ErrShape)
}

func TestParserSuppress(t *testing.T) {
	p := &Parser{Suppress: true}
	x, err := p.Parse("Tx(alpha) * Ty(0.1)")
	require.NoError(t, err)
	assert.True(t, x.Suppress)
	assert.Equal(t, []string{"alpha"}, x.Params())
	got, err := x.Eval(0.4)
	require.NoError(t, err)
	assertMatrix(t, mat.DenseCopyOf(must(Tx(Val(0.4)).Mul(Ty(Val(0.1)))).Matrix().(*Numeric).Dense()), got)
}
