package transform

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/matrix"
	"zappem.net/pub/math/transforms/terms"
)

// Matrix is the representation behind a Transform. It is either a
// *Symbolic matrix of expressions or a *Numeric matrix of floats.
type Matrix interface {
	// Dims returns the row and column count.
	Dims() (rows, cols int)
	// IsSymbolic reports whether the entries are expressions.
	IsSymbolic() bool
	// Params returns the sorted free parameters of the entries.
	Params() []string
	// Transpose returns the transposed matrix.
	Transpose() Matrix
	String() string
	LaTeX() string
}

// Symbolic is a matrix of expressions.
type Symbolic struct {
	m *matrix.Matrix
}

// NewSymbolic wraps a matrix of expressions.
func NewSymbolic(m *matrix.Matrix) *Symbolic {
	return &Symbolic{m: m}
}

// Matrix returns the underlying matrix of expressions.
func (s *Symbolic) Matrix() *matrix.Matrix         { return s.m }
func (s *Symbolic) Dims() (int, int)               { return s.m.Dims() }
func (s *Symbolic) IsSymbolic() bool               { return true }
func (s *Symbolic) Params() []string               { return s.m.Params() }
func (s *Symbolic) Transpose() Matrix              { return &Symbolic{m: s.m.Transpose()} }
func (s *Symbolic) String() string                 { return s.m.String() }
func (s *Symbolic) LaTeX() string                  { return s.m.LaTeX() }
func (s *Symbolic) negated(param string) *Symbolic { return &Symbolic{m: s.m.Negated(param)} }

// Numeric is a dense matrix of floats.
type Numeric struct {
	d *mat.Dense
}

// NewNumeric copies a gonum matrix.
func NewNumeric(m mat.Matrix) *Numeric {
	return &Numeric{d: mat.DenseCopyOf(m)}
}

// Dense returns a copy of the underlying matrix.
func (n *Numeric) Dense() *mat.Dense { return mat.DenseCopyOf(n.d) }
func (n *Numeric) Dims() (int, int)  { return n.d.Dims() }
func (n *Numeric) IsSymbolic() bool  { return false }
func (n *Numeric) Params() []string  { return nil }
func (n *Numeric) Transpose() Matrix { return &Numeric{d: mat.DenseCopyOf(n.d.T())} }

func (n *Numeric) String() string {
	return fmt.Sprintf("%v", mat.Formatted(n.d, mat.Squeeze()))
}

func (n *Numeric) LaTeX() string {
	r, c := n.d.Dims()
	rs := make([]string, r)
	for i := 0; i < r; i++ {
		cs := make([]string, c)
		for j := 0; j < c; j++ {
			x := n.d.At(i, j)
			if x == 0 {
				x = 0 // drop the sign of -0
			}
			cs[j] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		rs[i] = strings.Join(cs, " & ")
	}
	return `\left[\begin{matrix}` + strings.Join(rs, `\\`) + `\end{matrix}\right]`
}

// lift returns the symbolic form of any representation. Numbers become
// exact rationals.
func lift(m Matrix) (*matrix.Matrix, error) {
	switch x := m.(type) {
	case *Symbolic:
		return x.m, nil
	case *Numeric:
		return matrix.FromDense(x.d)
	}
	return nil, fmt.Errorf("%T: %w", m, ErrInvalidOperand)
}

// mul multiplies two representations. The product is numeric only
// when both factors are.
func mul(a, b Matrix) (Matrix, error) {
	_, ac := a.Dims()
	br, _ := b.Dims()
	if ac != br {
		return nil, fmt.Errorf("%w: cols(%d) != rows(%d)", ErrShape, ac, br)
	}
	if x, ok := a.(*Numeric); ok {
		if y, ok := b.(*Numeric); ok {
			var d mat.Dense
			d.Mul(x.d, y.d)
			return &Numeric{d: &d}, nil
		}
	}
	x, err := lift(a)
	if err != nil {
		return nil, err
	}
	y, err := lift(b)
	if err != nil {
		return nil, err
	}
	p, err := x.Mul(y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	return &Symbolic{m: p}, nil
}

// add computes a+b, or a-b when sub is true. The operands must have the
// same shape.
func add(a, b Matrix, sub bool) (Matrix, error) {
	if x, ok := a.(*Numeric); ok {
		if y, ok := b.(*Numeric); ok {
			var d mat.Dense
			if sub {
				d.Sub(x.d, y.d)
			} else {
				d.Add(x.d, y.d)
			}
			return &Numeric{d: &d}, nil
		}
	}
	x, err := lift(a)
	if err != nil {
		return nil, err
	}
	y, err := lift(b)
	if err != nil {
		return nil, err
	}
	scale := terms.Int(bigOne)
	if sub {
		scale = terms.Int(bigMinusOne)
	}
	s, err := x.Sum(y, scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	return &Symbolic{m: s}, nil
}

// reshape returns m with rows x cols dimensions, keeping the row-major
// order of the entries.
func reshape(m Matrix, rows, cols int) (Matrix, error) {
	r, c := m.Dims()
	if r == rows && c == cols {
		return m, nil
	}
	if r*c != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d cannot be viewed as %dx%d", ErrShape, r, c, rows, cols)
	}
	switch x := m.(type) {
	case *Numeric:
		d := mat.NewDense(rows, cols, nil)
		for k := 0; k < r*c; k++ {
			d.Set(k/cols, k%cols, x.d.At(k/c, k%c))
		}
		return &Numeric{d: d}, nil
	case *Symbolic:
		n, err := matrix.NewMatrix(rows, cols)
		if err != nil {
			return nil, err
		}
		for k := 0; k < r*c; k++ {
			n.Set(k/cols, k%cols, x.m.El(k/c, k%c))
		}
		return &Symbolic{m: n}, nil
	}
	return nil, fmt.Errorf("%T: %w", m, ErrInvalidOperand)
}
