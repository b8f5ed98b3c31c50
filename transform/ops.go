package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/matrix"
	"zappem.net/pub/math/transforms/terms"
)

// operand converts the right hand side of an operator to a
// representation. Accepted are:
//
//	*Transform               its matrix
//	[]float64                a numeric column vector
//	mat.Matrix               a numeric matrix
//	*matrix.Matrix           a symbolic matrix
//	[]*terms.Exp             a symbolic column vector
//	*Symbolic, *Numeric      as is
func operand(other any) (Matrix, error) {
	switch o := other.(type) {
	case *Transform:
		return o.m, nil
	case *Symbolic:
		return o, nil
	case *Numeric:
		return o, nil
	case []float64:
		if len(o) == 0 {
			return nil, fmt.Errorf("%w: empty vector", ErrShape)
		}
		return &Numeric{d: mat.NewDense(len(o), 1, append([]float64(nil), o...))}, nil
	case mat.Matrix:
		return NewNumeric(o), nil
	case *matrix.Matrix:
		return NewSymbolic(o), nil
	case []*terms.Exp:
		m, err := matrix.Column(o...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShape, err)
		}
		return NewSymbolic(m), nil
	}
	return nil, fmt.Errorf("%T: %w", other, ErrInvalidOperand)
}

// Mul multiplies t by other, which is a *Transform (see Compose), a
// numeric array or a symbolic array (see operand). Multiplying by a
// numeric array keeps the parameters of t. Multiplying by a symbolic
// array appends the free parameters of the array and keeps the product
// symbolic.
func (t *Transform) Mul(other any) (*Transform, error) {
	if o, ok := other.(*Transform); ok {
		return t.Compose(o)
	}
	m, err := operand(other)
	if err != nil {
		return nil, err
	}
	p, err := mul(t.m, m)
	if err != nil {
		return nil, err
	}
	return t.derived(p, orderedParams(p, t.params, m.Params())), nil
}

// Compose returns the transform t*o: o is applied first. The parameters
// of the result are those of o followed by those of t, which is the
// order of the arguments when evaluating it.
//
// When exactly one of t and o is symbolic, a warning is logged unless
// t.Suppress is set, and the numeric matrix is converted to exact
// rationals so the product is symbolic. The result then takes the
// parameters of t first.
func (t *Transform) Compose(o *Transform) (*Transform, error) {
	p, err := mul(t.m, o.m)
	if err != nil {
		return nil, err
	}
	if t.IsSymbolic() != o.IsSymbolic() {
		if !t.Suppress {
			t.logger.Warn("transform representation mismatch, multiplying as symbolic",
				"left", t.variant, "left_symbolic", t.IsSymbolic(),
				"right", o.variant, "right_symbolic", o.IsSymbolic())
		}
		return t.derived(p, orderedParams(p, t.params)), nil
	}
	return t.derived(p, orderedParams(p, o.params, t.params)), nil
}

// Add combines t with other, accepting the operands of Mul.
//
// Compatibility note: when both operands are square matrices of the same
// size, Add composes them exactly like Mul and does not add elementwise.
// Only operands of different shapes but the same number of entries,
// such as a transformed vector and a vector, are added elementwise.
func (t *Transform) Add(other any) (*Transform, error) {
	return t.combine(other, false)
}

// Sub is Add with elementwise subtraction. The compatibility note of
// Add applies: same sized square operands are composed, not subtracted.
func (t *Transform) Sub(other any) (*Transform, error) {
	return t.combine(other, true)
}

func (t *Transform) combine(other any, sub bool) (*Transform, error) {
	m, err := operand(other)
	if err != nil {
		return nil, err
	}
	r, c := t.Dims()
	or, oc := m.Dims()
	if r == c && or == oc && r == or {
		if !t.Suppress {
			t.logger.Debug("possible confusion: same shaped operands of Add or Sub are composed", "variant", t.variant)
		}
		return t.Mul(other)
	}
	if m, err = reshape(m, r, c); err != nil {
		return nil, err
	}
	s, err := add(t.m, m, sub)
	if err != nil {
		return nil, err
	}
	return t.derived(s, orderedParams(s, t.params, m.Params())), nil
}
