package transform

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/matrix"
	"zappem.net/pub/math/transforms/terms"
)

// Kw binds parameter values by name. A value is a scalar or an array,
// with the same types accepted as positional arguments of Call.
type Kw map[string]any

// Lambda is a transform compiled for repeated evaluation. Compiling
// resolves every entry once, so a Lambda should be reused across
// argument sets.
type Lambda struct {
	params   []string
	prog     *matrix.Program
	constant *mat.Dense
	logger   *slog.Logger
	suppress bool
}

// Lambda compiles t against its parameters in evaluation order.
func (t *Transform) Lambda() (*Lambda, error) {
	l := &Lambda{
		params:   t.Params(),
		logger:   t.logger,
		suppress: t.Suppress,
	}
	switch x := t.m.(type) {
	case *Numeric:
		l.constant = x.d
	case *Symbolic:
		prog, err := x.m.Compile(l.params)
		if err != nil {
			return nil, fmt.Errorf("lambda: %w", err)
		}
		l.prog = prog
	default:
		return nil, fmt.Errorf("%T: %w", t.m, ErrInvalidOperand)
	}
	return l, nil
}

// Params returns the parameter order of positional arguments.
func (l *Lambda) Params() []string {
	return append([]string(nil), l.params...)
}

func (l *Lambda) argCount(n int) error {
	names := "none"
	if len(l.params) != 0 {
		names = strings.Join(l.params, ", ")
	}
	return fmt.Errorf("%w: got %d, arguments in the matrix: %s", ErrArgCount, n, names)
}

// eval evaluates one sample into a fresh matrix. The slots are reused.
func (l *Lambda) eval(slots *[]float64, vals []float64) *mat.Dense {
	if l.prog == nil {
		return mat.DenseCopyOf(l.constant)
	}
	*slots = terms.Bind(*slots, vals...)
	return l.prog.Eval(nil, *slots)
}

// Eval evaluates l for one value per parameter.
func (l *Lambda) Eval(vals ...float64) (*mat.Dense, error) {
	if len(vals) != len(l.params) {
		return nil, l.argCount(len(vals))
	}
	var slots []float64
	return l.eval(&slots, vals), nil
}

// Call evaluates l. The arguments are either one per parameter, in the
// order of Params, or one or more Kw maps naming every parameter. Each
// value is a scalar (float64, float32, int, int64) or an array
// ([]float64, mat.Vector). Scalars alone give a single sample; arrays
// of equal length N give N samples, with any scalars repeated for every
// sample.
func (l *Lambda) Call(args ...any) (*Result, error) {
	cols, err := l.bind(args)
	if err != nil {
		return nil, err
	}
	n, batched := 1, false
	for i, c := range cols {
		if c.scalar {
			continue
		}
		if !batched {
			n, batched = len(c.vals), true
			continue
		}
		if len(c.vals) != n {
			return nil, fmt.Errorf("%w: %s has %d values, want %d", ErrLengthMismatch, l.params[i], len(c.vals), n)
		}
	}
	if !l.suppress {
		attrs := []any{"params", l.params, "samples", n, "batched", batched}
		if n > 0 {
			for i, c := range cols {
				attrs = append(attrs, l.params[i], c.at(0))
			}
		}
		l.logger.Debug("evaluating transform", attrs...)
	}
	r := &Result{
		Samples: make([]*mat.Dense, n),
		batched: batched,
	}
	var slots []float64
	vals := make([]float64, len(cols))
	for k := 0; k < n; k++ {
		for i, c := range cols {
			vals[i] = c.at(k)
		}
		r.Samples[k] = l.eval(&slots, vals)
	}
	return r, nil
}

// bind orders the arguments of Call by parameter.
func (l *Lambda) bind(args []any) ([]column, error) {
	var kws []Kw
	for _, a := range args {
		if kw, ok := a.(Kw); ok {
			kws = append(kws, kw)
		}
	}
	if len(kws) == 0 {
		if len(args) != len(l.params) {
			return nil, l.argCount(len(args))
		}
		cols := make([]column, len(args))
		for i, a := range args {
			c, err := newColumn(a)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", l.params[i], err)
			}
			cols[i] = c
		}
		return cols, nil
	}
	if len(kws) != len(args) {
		return nil, ErrMixedArgs
	}
	index := make(map[string]int)
	for i, p := range l.params {
		index[p] = i
	}
	cols := make([]column, len(l.params))
	bound := 0
	for _, kw := range kws {
		for name, v := range kw {
			i, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q, arguments in the matrix: %s", ErrUnknownParam, name, strings.Join(l.params, ", "))
			}
			if cols[i].vals != nil {
				return nil, fmt.Errorf("%w: %q bound more than once", ErrInvalidArgument, name)
			}
			c, err := newColumn(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			cols[i] = c
			bound++
		}
	}
	if bound != len(l.params) {
		return nil, l.argCount(bound)
	}
	return cols, nil
}

// column is the values of one parameter.
type column struct {
	vals   []float64
	scalar bool
}

func (c column) at(k int) float64 {
	if c.scalar {
		return c.vals[0]
	}
	return c.vals[k]
}

func newColumn(v any) (column, error) {
	switch x := v.(type) {
	case float64:
		return column{vals: []float64{x}, scalar: true}, nil
	case float32:
		return column{vals: []float64{float64(x)}, scalar: true}, nil
	case int:
		return column{vals: []float64{float64(x)}, scalar: true}, nil
	case int64:
		return column{vals: []float64{float64(x)}, scalar: true}, nil
	case []float64:
		return column{vals: append([]float64{}, x...)}, nil
	case mat.Vector:
		if isNil(x) {
			return column{}, fmt.Errorf("nil %T: %w", v, ErrInvalidArgument)
		}
		vals := make([]float64, x.Len())
		for i := range vals {
			vals[i] = x.AtVec(i)
		}
		return column{vals: vals}, nil
	}
	return column{}, fmt.Errorf("%T: %w", v, ErrInvalidArgument)
}

// isNil reports whether v holds a nil pointer.
func isNil(v mat.Vector) bool {
	r := reflect.ValueOf(v)
	return r.Kind() == reflect.Pointer && r.IsNil()
}

// Result holds the numeric samples of a Call.
type Result struct {
	Samples []*mat.Dense
	batched bool
}

// Len returns the number of samples.
func (r *Result) Len() int {
	return len(r.Samples)
}

// Batched reports whether the call had array arguments.
func (r *Result) Batched() bool {
	return r.batched
}

// Matrix returns the first sample, or nil if there are none.
func (r *Result) Matrix() *mat.Dense {
	if len(r.Samples) == 0 {
		return nil
	}
	return r.Samples[0]
}

// Vector returns the first column of the first sample, the transformed
// vector of a transform multiplied by a vector.
func (r *Result) Vector() *mat.VecDense {
	m := r.Matrix()
	if m == nil {
		return nil
	}
	return mat.VecDenseCopyOf(m.ColView(0))
}

// Components returns one array per matrix entry, in row-major order,
// holding the value of that entry in every sample. For a transformed
// vector these are the x, y and z components.
func (r *Result) Components() [][]float64 {
	if len(r.Samples) == 0 {
		return nil
	}
	rows, cols := r.Samples[0].Dims()
	cs := make([][]float64, rows*cols)
	for i := range cs {
		cs[i] = make([]float64, len(r.Samples))
		for k, s := range r.Samples {
			cs[i][k] = s.At(i/cols, i%cols)
		}
	}
	return cs
}
