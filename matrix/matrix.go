// Package matrix manages matrices of expressions.
package matrix

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/factor"
	"zappem.net/pub/math/transforms/terms"
)

type Matrix struct {
	// row count and col count
	rows, cols int
	// The matrix elements arranged, [r=0,c=0], [0,1], [0,2] ...
	data []*terms.Exp
}

// NewMatrix creates a rows x cols matrix of zeros.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("need positive dimensions, not %dx%d", rows, cols)
	}
	m := &Matrix{
		rows: rows,
		cols: cols,
		data: make([]*terms.Exp, rows*cols),
	}
	for i := range m.data {
		m.data[i] = terms.NewExp()
	}
	return m, nil
}

// Column creates a column vector from a list of expressions.
func Column(es ...*terms.Exp) (*Matrix, error) {
	m, err := NewMatrix(len(es), 1)
	if err != nil {
		return nil, err
	}
	for i, e := range es {
		m.Set(i, 0, e)
	}
	return m, nil
}

// FromDense converts a numerical matrix into a matrix of exact
// rational expressions.
func FromDense(d mat.Matrix) (*Matrix, error) {
	r, c := d.Dims()
	m, err := NewMatrix(r, c)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			e, err := terms.Float(d.At(i, j))
			if err != nil {
				return nil, fmt.Errorf("cell [%d,%d]: %w", i, j, err)
			}
			m.Set(i, j, e)
		}
	}
	return m, nil
}

// Dims returns the row and column count of the matrix.
func (m *Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// String serializes a matrix for displaying.
func (m *Matrix) String() string {
	var rs []string
	for r := 0; r < m.rows; r++ {
		var cs []string
		for c := 0; c < m.cols; c++ {
			cs = append(cs, m.data[c+m.cols*r].String())
		}
		rs = append(rs, "["+strings.Join(cs, ", ")+"]")
	}
	return "[" + strings.Join(rs, ", ") + "]"
}

// LaTeX renders the matrix in the LaTeX matrix environment.
func (m *Matrix) LaTeX() string {
	var rs []string
	for r := 0; r < m.rows; r++ {
		var cs []string
		for c := 0; c < m.cols; c++ {
			cs = append(cs, m.El(r, c).LaTeX())
		}
		rs = append(rs, strings.Join(cs, " & "))
	}
	return `\left[\begin{matrix}` + strings.Join(rs, `\\`) + `\end{matrix}\right]`
}

// Set sets the value of a matrix element.
func (m *Matrix) Set(row, col int, e *terms.Exp) error {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return fmt.Errorf("bad cell: [%d,%d] in %dx%d matrix", row, col, m.rows, m.cols)
	}
	if e == nil {
		e = terms.NewExp()
	}
	m.data[col+m.cols*row] = e
	return nil
}

// El returns the row,col element of the matrix.
func (m *Matrix) El(row, col int) *terms.Exp {
	return m.data[col+m.cols*row]
}

// Transpose returns the transpose of a specified matrix.
func (m *Matrix) Transpose() *Matrix {
	n, err := NewMatrix(m.cols, m.rows)
	if err != nil {
		panic(err)
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			n.Set(j, i, m.El(i, j))
		}
	}
	return n
}

// Mul multiplies m x n with conventional matrix multiplication.
func (m *Matrix) Mul(n *Matrix) (*Matrix, error) {
	if m.cols != n.rows {
		return nil, fmt.Errorf("a cols(%d) != b rows(%d)", m.cols, n.rows)
	}
	a, err := NewMatrix(m.rows, n.cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			var e []*terms.Exp
			for i := 0; i < m.cols; i++ {
				x, y := m.El(r, i), n.El(i, c)
				if !x.IsZero() && !y.IsZero() {
					e = append(e, terms.Mul(x, y))
				}
			}
			a.Set(r, c, terms.Sum(e...))
		}
	}
	return a, nil
}

// Sum adds two matrices.
func (m *Matrix) Sum(n *Matrix, scale *terms.Exp) (*Matrix, error) {
	if m.rows != n.rows || m.cols != n.cols {
		return nil, fmt.Errorf("inequivalent dimensions %dx%d != %dx%d", m.rows, m.cols, n.rows, n.cols)
	}
	a, _ := NewMatrix(m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			a.Set(r, c, m.El(r, c).Add(terms.Mul(n.El(r, c), scale)))
		}
	}
	return a, nil
}

// apply builds a matrix of the same shape with f applied to every
// element.
func (m *Matrix) apply(f func(*terms.Exp) *terms.Exp) *Matrix {
	n, _ := NewMatrix(m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			n.Set(r, c, f(m.El(r, c)))
		}
	}
	return n
}

// Performs a substitution on all elements of a matrix.
func (m *Matrix) Substitute(b []factor.Value, s *terms.Exp) *Matrix {
	return m.apply(func(e *terms.Exp) *terms.Exp {
		return e.Substitute(b, s)
	})
}

// Negated replaces param with -param in all elements of a matrix.
func (m *Matrix) Negated(param string) *Matrix {
	return m.apply(func(e *terms.Exp) *terms.Exp {
		return e.Negated(param)
	})
}

// Derive differentiates all elements of a matrix with the chain rules
// of terms.Derive.
func (m *Matrix) Derive(rules map[string]*terms.Exp) *Matrix {
	return m.apply(func(e *terms.Exp) *terms.Exp {
		return e.Derive(rules)
	})
}

// Equals confirms two matrices have the same shape and equal elements.
func (m *Matrix) Equals(n *Matrix) bool {
	if m.rows != n.rows || m.cols != n.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equals(n.data[i]) {
			return false
		}
	}
	return true
}

// Params returns the sorted free parameters of all matrix elements.
func (m *Matrix) Params() []string {
	seen := make(map[string]bool)
	var ps []string
	for _, e := range m.data {
		for _, p := range e.Params() {
			if !seen[p] {
				seen[p] = true
				ps = append(ps, p)
			}
		}
	}
	sort.Strings(ps)
	return ps
}

// Program is a matrix compiled for repeated numerical evaluation.
type Program struct {
	rows, cols int
	cells      []*terms.Program
}

// Compile compiles every element of m against the ordered params.
func (m *Matrix) Compile(params []string) (*Program, error) {
	p := &Program{
		rows:  m.rows,
		cols:  m.cols,
		cells: make([]*terms.Program, len(m.data)),
	}
	for i, e := range m.data {
		c, err := e.Compile(params)
		if err != nil {
			return nil, fmt.Errorf("cell [%d,%d]: %w", i/m.cols, i%m.cols, err)
		}
		p.cells[i] = c
	}
	return p, nil
}

// Dims returns the shape of the compiled matrix.
func (p *Program) Dims() (rows, cols int) {
	return p.rows, p.cols
}

// Eval evaluates the program on slots computed by terms.Bind. The
// result is written to dst when it is non-nil.
func (p *Program) Eval(dst *mat.Dense, slots []float64) *mat.Dense {
	if dst == nil {
		dst = mat.NewDense(p.rows, p.cols, nil)
	}
	for i, c := range p.cells {
		dst.Set(i/p.cols, i%p.cols, c.Eval(slots))
	}
	return dst
}
