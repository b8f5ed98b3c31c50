// Package transform composes rotation and frame transformation
// matrices and evaluates them numerically.
//
// A Transform is built from a single angle about one axis, either a
// named symbolic parameter or a number of radians, and is combined with
// other transforms and with vectors. A symbolic result is compiled once
// by Lambda and then evaluated for scalar, array or named parameter
// values:
//
//	a, b := transform.Tx(transform.Sym("alpha")), transform.Ty(transform.Sym("beta"))
//	ab, _ := a.Mul(b)             // params: [beta alpha]
//	r, _ := ab.Call(rotation.Rad(10), rotation.Rad(15))
//	fmt.Println(mat.Formatted(r.Matrix()))
//
// Transforms are immutable; every operation returns a new one.
package transform

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"sort"

	"github.com/muesli/termenv"
	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/factor"
	"zappem.net/pub/math/transforms/rotation"
	"zappem.net/pub/math/transforms/terms"
)

var (
	bigOne      = big.NewInt(1)
	bigMinusOne = big.NewInt(-1)
)

// Angle is the angle of a single axis transform: a named symbolic
// parameter or a value in radians.
type Angle struct {
	sym      string
	val      float64
	symbolic bool
}

// Sym is the symbolic angle called name.
func Sym(name string) Angle {
	return Angle{sym: name, symbolic: true}
}

// Val is the numeric angle of rad radians.
func Val(rad float64) Angle {
	return Angle{val: rad}
}

// Deg is the numeric angle of deg degrees.
func Deg(deg float64) Angle {
	return Val(rotation.Rad(deg))
}

// IsSymbolic reports whether a is a named parameter.
func (a Angle) IsSymbolic() bool {
	return a.symbolic
}

func (a Angle) String() string {
	if a.symbolic {
		return a.sym
	}
	return fmt.Sprint(a.val)
}

// Config describes a transform for Build. Exactly one of Delta or
// Matrix must be set.
type Config struct {
	Variant Variant
	// Delta is the angle of a single axis transform.
	Delta *Angle
	// Matrix and Params give an explicit matrix. Params is the
	// evaluation order of the free parameters of Matrix; when nil the
	// sorted free parameters are used.
	Matrix Matrix
	Params []string
	// Logger receives diagnostics. It defaults to slog.Default().
	Logger *slog.Logger
}

// Transform is a rotation or coordinate transformation about one axis,
// or a composition of such transforms with each other and with
// vectors.
type Transform struct {
	variant Variant
	m       Matrix
	params  []string
	logger  *slog.Logger

	// Suppress silences the non-fatal diagnostics of this transform.
	Suppress bool
}

// Build constructs a transform from a Config.
func Build(c Config) (*Transform, error) {
	if !c.Variant.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrBadVariant, c.Variant)
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	t := &Transform{
		variant: c.Variant,
		logger:  logger,
	}
	switch {
	case c.Delta != nil && c.Matrix != nil:
		return nil, ErrAmbiguousConfig
	case c.Delta != nil:
		a := *c.Delta
		if a.symbolic {
			if !factor.ValidSymbol(a.sym) {
				return nil, fmt.Errorf("%w: %q", ErrBadSymbol, a.sym)
			}
			m, err := rotation.Symbolic(c.Variant.Kind(), c.Variant.Axis(), a.sym)
			if err != nil {
				return nil, err
			}
			t.m = NewSymbolic(m)
			t.params = []string{a.sym}
			return t, nil
		}
		if math.IsNaN(a.val) || math.IsInf(a.val, 0) {
			return nil, fmt.Errorf("angle %v: %w", a.val, factor.ErrNotFinite)
		}
		d, err := rotation.Numeric(c.Variant.Kind(), c.Variant.Axis(), a.val)
		if err != nil {
			return nil, err
		}
		t.m = &Numeric{d: d}
		return t, nil
	case c.Matrix != nil:
		if r, cols := c.Matrix.Dims(); r <= 0 || cols <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", ErrShape, r, cols)
		}
		free := c.Matrix.Params()
		params := c.Params
		if params == nil {
			params = free
		}
		if !sameSet(params, free) {
			return nil, fmt.Errorf("%w: got %v, matrix has %v", ErrParamMismatch, params, free)
		}
		t.m = c.Matrix
		t.params = append([]string(nil), params...)
		return t, nil
	}
	return nil, ErrNoAngleOrMatrix
}

// New constructs a single axis transform of variant v.
func New(v Variant, a Angle) (*Transform, error) {
	return Build(Config{Variant: v, Delta: &a})
}

// FromMatrix constructs a transform from an explicit matrix and the
// evaluation order of its parameters. A nil params uses the sorted
// free parameters of m.
func FromMatrix(v Variant, m Matrix, params []string) (*Transform, error) {
	return Build(Config{Variant: v, Matrix: m, Params: params})
}

// must panics if err is not nil.
func must(t *Transform, err error) *Transform {
	if err != nil {
		panic(err)
	}
	return t
}

// Rx rotates anticlockwise about the X-axis. It panics on an invalid
// angle.
func Rx(a Angle) *Transform { return must(New(RotationX, a)) }

// Ry rotates anticlockwise about the Y-axis.
func Ry(a Angle) *Transform { return must(New(RotationY, a)) }

// Rz rotates anticlockwise about the Z-axis.
func Rz(a Angle) *Transform { return must(New(RotationZ, a)) }

// Tx maps inertial coordinates to a frame rotated about the X-axis.
func Tx(a Angle) *Transform { return must(New(TransformX, a)) }

// Ty maps inertial coordinates to a frame rotated about the Y-axis.
func Ty(a Angle) *Transform { return must(New(TransformY, a)) }

// Tz maps inertial coordinates to a frame rotated about the Z-axis.
func Tz(a Angle) *Transform { return must(New(TransformZ, a)) }

// derived returns a transform of the same variant, logger and
// verbosity as t.
func (t *Transform) derived(m Matrix, params []string) *Transform {
	return &Transform{
		variant:  t.variant,
		m:        m,
		params:   params,
		logger:   t.logger,
		Suppress: t.Suppress,
	}
}

// Variant returns the variant tag of t.
func (t *Transform) Variant() Variant {
	return t.variant
}

// Matrix returns the representation of t.
func (t *Transform) Matrix() Matrix {
	return t.m
}

// Params returns the parameters of t in evaluation order.
func (t *Transform) Params() []string {
	return append([]string(nil), t.params...)
}

// IsSymbolic reports whether the entries of t are expressions.
func (t *Transform) IsSymbolic() bool {
	return t.m.IsSymbolic()
}

// Dims returns the shape of the matrix of t.
func (t *Transform) Dims() (rows, cols int) {
	return t.m.Dims()
}

// IsVector reports whether t holds a transformed vector rather than a
// square transform.
func (t *Transform) IsVector() bool {
	_, c := t.Dims()
	return c == 1
}

// El returns the row,col entry of t as an expression. Numeric entries
// are converted to exact rationals; a non-finite one returns nil.
func (t *Transform) El(row, col int) *terms.Exp {
	switch x := t.m.(type) {
	case *Symbolic:
		return x.m.El(row, col)
	case *Numeric:
		e, err := terms.Float(x.d.At(row, col))
		if err != nil {
			return nil
		}
		return e
	}
	return nil
}

// Value returns the row,col entry of t as a number. The boolean is
// false when the entry depends on a parameter.
func (t *Transform) Value(row, col int) (float64, bool) {
	switch x := t.m.(type) {
	case *Numeric:
		return x.d.At(row, col), true
	case *Symbolic:
		n, ok := x.m.El(row, col).AsNumber()
		if !ok {
			return math.NaN(), false
		}
		f, _ := n.Float64()
		return f, true
	}
	return math.NaN(), false
}

// T returns the transpose of t: the mapping in the opposite direction,
// from the rotating frame back to the inertial one.
func (t *Transform) T() *Transform {
	return t.derived(t.m.Transpose(), t.Params())
}

// negated replaces every parameter of m with its negation.
func (t *Transform) negated(m Matrix) Matrix {
	s, ok := m.(*Symbolic)
	if !ok {
		return m
	}
	for _, p := range t.params {
		s = s.negated(p)
	}
	return s
}

// Inv returns the transpose of t with every parameter negated, the
// physical counter-rotation. Numeric transforms have no parameters, so
// their inverse is their transpose.
func (t *Transform) Inv() *Transform {
	return t.derived(t.negated(t.m.Transpose()), t.Params())
}

// C returns the counter-rotation matrix of t: every parameter is
// negated, without transposing.
func (t *Transform) C() *Transform {
	return t.derived(t.negated(t.m), t.Params())
}

// Diff returns the partial derivative of t with respect to param.
func (t *Transform) Diff(param string) (*Transform, error) {
	s, ok := t.m.(*Symbolic)
	if !ok || !contains(t.params, param) {
		return nil, fmt.Errorf("%w: %q not in %v", ErrUnknownParam, param, t.params)
	}
	d := &Symbolic{m: s.m.Derive(terms.TrigRules(param))}
	return t.derived(d, orderedParams(d, t.params)), nil
}

// Subs binds param to v, leaving t symbolic in its other parameters.
// The value and its cosine and sine enter the matrix as exact
// rationals.
func (t *Transform) Subs(param string, v float64) (*Transform, error) {
	s, ok := t.m.(*Symbolic)
	if !ok || !contains(t.params, param) {
		return nil, fmt.Errorf("%w: %q not in %v", ErrUnknownParam, param, t.params)
	}
	m := s.m
	for _, b := range []struct {
		sym factor.Value
		val float64
	}{
		{factor.S(param), v},
		{factor.Cos(param), math.Cos(v)},
		{factor.Sin(param), math.Sin(v)},
	} {
		e, err := terms.Float(b.val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", param, ErrInvalidArgument)
		}
		m = m.Substitute([]factor.Value{b.sym}, e)
	}
	d := &Symbolic{m: m}
	return t.derived(d, orderedParams(d, t.params)), nil
}

func (t *Transform) String() string {
	return t.m.String()
}

// LaTeX renders t as a LaTeX equation assigning it to name, "T" when
// name is empty.
func (t *Transform) LaTeX(name string) string {
	if name == "" {
		name = "T"
	}
	return "\n" + `\begin{equation}` + "\n   " + name + " = " + t.m.LaTeX() + "\n" + `\end{equation}`
}

// PrintLaTeX writes the LaTeX form of t to w in blue, when w is a
// terminal that supports colour, and returns it.
func (t *Transform) PrintLaTeX(w io.Writer, name string) (string, error) {
	lx := t.LaTeX(name)
	out := termenv.NewOutput(w)
	_, err := fmt.Fprintln(w, out.String(lx).Foreground(out.Color("4")))
	return lx, err
}

// Eval evaluates t for one scalar value per parameter.
func (t *Transform) Eval(vals ...float64) (*mat.Dense, error) {
	l, err := t.Lambda()
	if err != nil {
		return nil, err
	}
	return l.Eval(vals...)
}

// Call evaluates t. See Lambda.Call for the accepted arguments.
func (t *Transform) Call(args ...any) (*Result, error) {
	l, err := t.Lambda()
	if err != nil {
		return nil, err
	}
	return l.Call(args...)
}

// orderedParams lists the free parameters of m: first those named in
// lists, in order and without duplicates, then any remaining ones
// sorted.
func orderedParams(m Matrix, lists ...[]string) []string {
	free := m.Params()
	occurs := make(map[string]bool)
	for _, p := range free {
		occurs[p] = true
	}
	seen := make(map[string]bool)
	ps := []string{}
	for _, l := range lists {
		for _, p := range l {
			if occurs[p] && !seen[p] {
				seen[p] = true
				ps = append(ps, p)
			}
		}
	}
	for _, p := range free {
		if !seen[p] {
			seen[p] = true
			ps = append(ps, p)
		}
	}
	return ps
}

func contains(ps []string, p string) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}

// sameSet confirms a and b hold the same names, and a no duplicates.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
