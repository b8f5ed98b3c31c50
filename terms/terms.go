// Package terms abstracts sums of products of factors.
package terms

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"zappem.net/pub/math/transforms/factor"
)

// Term is a product of a coefficient and a set of non-numerical factors.
type Term struct {
	Coeff *big.Rat
	Fact  []factor.Value
}

// Exp is a an expression or sum of terms.
type Exp struct {
	terms map[string]Term
}

// NewExp creates a new expression.
func NewExp(ts ...[]factor.Value) *Exp {
	e := &Exp{
		terms: make(map[string]Term),
	}
	for _, t := range ts {
		n, fs, s := factor.Segment(t...)
		if n == nil {
			continue
		}
		e.insert(n, fs, s)
	}
	return e
}

// IsZero confirms a simplified expression is zero.
func (e *Exp) IsZero() bool {
	return e == nil || len(e.terms) == 0
}

// keys returns the sorted term keys of e.
func (e *Exp) keys() []string {
	var s []string
	for x := range e.terms {
		s = append(s, x)
	}
	sort.Strings(s)
	return s
}

// String represents an expression of Terms as a string.
func (e *Exp) String() string {
	if e.IsZero() {
		return "0"
	}
	s := e.keys()
	for i, x := range s {
		f := e.terms[x]
		var t string
		if wideRat(f.Coeff) {
			c, _ := f.Coeff.Float64()
			t = fmt.Sprintf("%g", c)
			if len(f.Fact) != 0 {
				t += "*" + factor.Prod(f.Fact...)
			}
		} else {
			v := []factor.Value{factor.R(f.Coeff)}
			t = factor.Prod(append(v, f.Fact...)...)
		}
		if i != 0 && t[0] != '-' {
			s[i] = "+" + t
		} else {
			s[i] = t
		}
	}
	return strings.Join(s, "")
}

// Int generates an expression of a constant integer.
func Int(n *big.Int) *Exp {
	return NewExp([]factor.Value{factor.I(n)})
}

// Rat generates an expression of a rational number.
func Rat(r *big.Rat) *Exp {
	return NewExp([]factor.Value{factor.R(r)})
}

// Float generates an expression of the rational equivalent of f.
func Float(f float64) (*Exp, error) {
	v, err := factor.F(f)
	if err != nil {
		return nil, err
	}
	return NewExp([]factor.Value{v}), nil
}

// Sym generates an expression of a single symbol.
func Sym(s string) *Exp {
	return NewExp([]factor.Value{factor.S(s)})
}

// insert merges a coefficient, a product of factors to an expression
// indexed by s.
func (e *Exp) insert(n *big.Rat, fs []factor.Value, s string) {
	old, ok := e.terms[s]
	if !ok {
		e.terms[s] = Term{
			Coeff: n,
			Fact:  fs,
		}
		return
	}
	// Combine with existing term.
	old.Coeff = n.Add(n, e.terms[s].Coeff)
	if old.Coeff.Cmp(&big.Rat{}) == 0 {
		delete(e.terms, s)
		return
	}
	e.terms[s] = old
}

// Exp converts a Term into a stand alone expression.
func (term Term) Exp() *Exp {
	e := &Exp{
		terms: make(map[string]Term),
	}
	e.insert(new(big.Rat).Set(term.Coeff), term.Fact, factor.Prod(term.Fact...))
	return e
}

// Sum adds together expressions. With only one argument, Add is a
// simple duplicate function.
func Sum(as ...*Exp) *Exp {
	e := &Exp{
		terms: make(map[string]Term),
	}
	for _, a := range as {
		if a == nil {
			continue
		}
		for s, t := range a.terms {
			m := &big.Rat{}
			e.insert(m.Set(t.Coeff), t.Fact, s)
		}
	}
	return e
}

// Add adds together two expressions and returns a single expression:
// a+b.
func (a *Exp) Add(b *Exp) *Exp {
	return Sum(a, b)
}

// Sub subtracts b from a into a new expression.
func (a *Exp) Sub(b *Exp) *Exp {
	e := &Exp{
		terms: make(map[string]Term),
	}
	if a != nil {
		for s, t := range a.terms {
			m := &big.Rat{}
			e.insert(m.Set(t.Coeff), t.Fact, s)
		}
	}
	if b != nil {
		for s, t := range b.terms {
			m := big.NewRat(-1, 1)
			e.insert(m.Mul(m, t.Coeff), t.Fact, s)
		}
	}
	return e
}

var zero = []factor.Value{factor.R(&big.Rat{})}

// Mul computes the product of a series of expressions.
func Mul(as ...*Exp) *Exp {
	var e *Exp
	for i, a := range as {
		if i == 0 {
			e = Sum(a)
			continue
		}
		f := &Exp{
			terms: make(map[string]Term),
		}
		if a != nil {
			for _, p := range a.terms {
				for _, q := range e.terms {
					x := []factor.Value{factor.R(p.Coeff), factor.R(q.Coeff)}
					n, fs, s := factor.Segment(append(x, append(p.Fact, q.Fact...)...)...)
					if n == nil {
						continue
					}
					f.insert(n, fs, s)
				}
			}
		}
		e = f
	}
	return e
}

// Mul computes the product of this expression with some others.
func (e *Exp) Mul(es ...*Exp) *Exp {
	return Mul(append([]*Exp{e}, es...)...)
}

// Substituted replaces each occurrence of b in an expression with the
// expression c. If the returned boolean is true, then something was
// substituted. The expression c must not itself contain b.
func (e *Exp) Substituted(b []factor.Value, c *Exp) (*Exp, bool) {
	if len(b) == 0 || e == nil {
		return e, false
	}
	s := [][]factor.Value{}
	for _, t := range c.terms {
		s = append(s, append([]factor.Value{factor.R(t.Coeff)}, t.Fact...))
	}
	g := e
	acted := false
	for {
		again := false
		f := &Exp{
			terms: make(map[string]Term),
		}
		for _, x := range g.terms {
			a := append([]factor.Value{factor.R(x.Coeff)}, x.Fact...)
			hit, y := factor.Replace(a, b, zero, 1)
			if hit == 0 {
				n, fs, tag := factor.Segment(y...)
				f.insert(n, fs, tag)
				// If nothing substituted, then only insert once.
				continue
			}
			if len(s) == 0 {
				// If we are substituting 0 then we won't need anything.
				continue
			}
			again = true
			for _, t := range s {
				_, y := factor.Replace(a, b, t, 1)
				n, fs, tag := factor.Segment(y...)
				if n == nil {
					continue
				}
				f.insert(n, fs, tag)
			}
		}
		g = f
		if !again {
			break
		}
		acted = true
	}
	return g, acted
}

// Substitute unconditionally attempts to substitute occurences of b
// in e with expression c. Consider using e.Substituted() to understand
// if any change was made.
func (e *Exp) Substitute(b []factor.Value, c *Exp) *Exp {
	e2, _ := e.Substituted(b, c)
	return e2
}

// AsNumber ignores all terms that contain symbols, and just returns
// the value of the constant term. The returned boolean is true only
// when there are no non-constant terms.
func (e *Exp) AsNumber() (*big.Rat, bool) {
	ok := e.IsZero()
	if !ok {
		for _, t := range e.terms {
			if len(t.Fact) == 0 {
				return t.Coeff, len(e.terms) == 1
			}
		}
	}
	return zero[0].Num(), ok
}

// Terms returns the prevailing coefficient and array of unsorted
// simplified terms associated with an expression.
func (e *Exp) Terms() map[string]Term {
	if e == nil {
		return nil
	}
	return e.terms
}

// ParseExp parses an expression in the form of a string. Only simple
// expressions are parsed: nothing involving parentheses.
func ParseExp(s string) (*Exp, error) {
	s = strings.TrimRight(s, " \t")
	if len(s) == 0 {
		return nil, factor.ErrSyntax
	}
	e := NewExp()
	for i := 0; i < len(s); {
		vs, d, err := factor.Parse(s[i:])
		switch err {
		case factor.ErrSyntax:
			return nil, fmt.Errorf("%q, %w", s[i:], err)
		case factor.ErrDone:
			if i != len(s) && len(vs) == 0 {
				return nil, fmt.Errorf("%q, %w", s[i:], factor.ErrSyntax)
			}
		case nil:
		default:
			return nil, fmt.Errorf("unexpected error, %q: %w", s[i:], err)
		}
		i += d
		e = e.Add(NewExp(vs))
		if i != len(s) && s[i] == '+' {
			i++
			if i == len(s) {
				return nil, factor.ErrSyntax
			}
		}
	}
	return e, nil
}

// Equals compares two expressions and determines if they are always
// equal.
func (e *Exp) Equals(x *Exp) bool {
	return e.Sub(x).IsZero()
}

// Symbols returns a sorted array of unique symbols found in an
// expression. The returned array should be considered a list and not
// a meaninful product of factors.
func (e *Exp) Symbols() (syms []factor.Value) {
	if e == nil {
		return nil
	}
	ss := make(map[string]bool)
	for _, t := range e.terms {
		for _, v := range t.Fact {
			if s := v.Symbol(); s != "" && !ss[s] {
				ss[s] = true
				syms = append(syms, factor.S(s))
			}
		}
	}
	sort.Sort(factor.ByAlpha(syms))
	return
}

// Params returns the sorted free parameters of an expression. Both
// x and the trigonometric symbols of x have the free parameter x.
func (e *Exp) Params() []string {
	seen := make(map[string]bool)
	var ps []string
	for _, v := range e.Symbols() {
		if p := v.Param(); !seen[p] {
			seen[p] = true
			ps = append(ps, p)
		}
	}
	sort.Strings(ps)
	return ps
}

// Negated returns the expression with param replaced by -param. The
// cosine of param is even and its sine is odd, so each term only
// changes sign when the combined power of param and sin(param) is odd.
func (e *Exp) Negated(param string) *Exp {
	n := &Exp{
		terms: make(map[string]Term),
	}
	if e == nil {
		return n
	}
	sin := factor.Trig(factor.FnSin, param)
	for s, t := range e.terms {
		odd := 0
		for _, v := range t.Fact {
			if sym := v.Symbol(); sym == param || sym == sin {
				odd += v.Pow()
			}
		}
		c := new(big.Rat).Set(t.Coeff)
		if odd%2 != 0 {
			c.Neg(c)
		}
		n.terms[s] = Term{
			Coeff: c,
			Fact:  t.Fact,
		}
	}
	return n
}

// Derive differentiates an expression by the chain rule. The rules map
// gives the derivative of each symbol that depends on the variable of
// differentiation; all other symbols are treated as constants.
func (e *Exp) Derive(rules map[string]*Exp) *Exp {
	d := NewExp()
	if e == nil {
		return d
	}
	for _, t := range e.terms {
		for i, v := range t.Fact {
			r, ok := rules[v.Symbol()]
			if !ok || r.IsZero() {
				continue
			}
			fs := []factor.Value{factor.R(t.Coeff), factor.D(int64(v.Pow()), 1)}
			fs = append(fs, t.Fact[:i]...)
			fs = append(fs, t.Fact[i+1:]...)
			fs = append(fs, factor.Sp(v.Symbol(), v.Pow()-1))
			d = d.Add(Mul(NewExp(fs), r))
		}
	}
	return d
}

// TrigRules returns the derivative rules for differentiating by
// param: d(param) = 1, d(cos(param)) = -sin(param) and
// d(sin(param)) = cos(param).
func TrigRules(param string) map[string]*Exp {
	return map[string]*Exp{
		param: NewExp([]factor.Value{factor.D(1, 1)}),
		factor.Trig(factor.FnCos, param): NewExp([]factor.Value{factor.D(-1, 1), factor.Sin(param)}),
		factor.Trig(factor.FnSin, param): NewExp([]factor.Value{factor.Cos(param)}),
	}
}

// latexMaxDen is the largest denominator rendered as a fraction. Larger
// ones come from lifted floats and read better as decimals.
const latexMaxDen = 1000

// wideRat reports whether r has a denominator above latexMaxDen.
func wideRat(r *big.Rat) bool {
	return !r.IsInt() && r.Denom().Cmp(big.NewInt(latexMaxDen)) > 0
}

// ratLaTeX renders a non-negative rational.
func ratLaTeX(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	if wideRat(r) {
		f, _ := r.Float64()
		return fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf(`\frac{%s}{%s}`, r.Num(), r.Denom())
}

// LaTeX renders an expression in LaTeX notation.
func (e *Exp) LaTeX() string {
	if e.IsZero() {
		return "0"
	}
	var b strings.Builder
	for i, x := range e.keys() {
		t := e.terms[x]
		c := new(big.Rat).Set(t.Coeff)
		neg := c.Sign() < 0
		if neg {
			c.Neg(c)
		}
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i != 0 && neg:
			b.WriteString(" - ")
		case i != 0:
			b.WriteString(" + ")
		}
		var fs []string
		if len(t.Fact) == 0 || c.Cmp(big.NewRat(1, 1)) != 0 {
			fs = append(fs, ratLaTeX(c))
		}
		for _, v := range t.Fact {
			fs = append(fs, v.LaTeX())
		}
		b.WriteString(strings.Join(fs, " "))
	}
	return b.String()
}

// ErrUnbound indicates an expression symbol with no matching parameter.
var ErrUnbound = errors.New("symbol not bound to a parameter")

// Slots per parameter of a compiled program: the value, its cosine
// and its sine.
const (
	slotValue = iota
	slotCos
	slotSin
	slotsPerParam
)

type slot struct {
	i, pow int
}

type compiled struct {
	coeff float64
	slots []slot
}

// Program is an expression compiled against an ordered list of
// parameters. It is evaluated on the slice returned by Bind.
type Program struct {
	n     int
	terms []compiled
}

// Compile prepares e for repeated numerical evaluation. Every symbol
// of e must be a parameter or a trigonometric function of one.
func (e *Exp) Compile(params []string) (*Program, error) {
	index := make(map[string]int)
	for i, p := range params {
		index[p] = i
	}
	p := &Program{n: len(params)}
	if e == nil {
		return p, nil
	}
	for _, x := range e.keys() {
		t := e.terms[x]
		c, _ := t.Coeff.Float64()
		ct := compiled{coeff: c}
		for _, v := range t.Fact {
			fn, param := factor.Func(v.Symbol())
			i, ok := index[param]
			if !ok {
				return nil, fmt.Errorf("%q: %w", v.Symbol(), ErrUnbound)
			}
			s := slot{i: i*slotsPerParam + slotValue, pow: v.Pow()}
			switch fn {
			case factor.FnCos:
				s.i = i*slotsPerParam + slotCos
			case factor.FnSin:
				s.i = i*slotsPerParam + slotSin
			}
			ct.slots = append(ct.slots, s)
		}
		p.terms = append(p.terms, ct)
	}
	return p, nil
}

// Bind computes the evaluation slots for the parameter values vals,
// reusing dst when it has sufficient capacity.
func Bind(dst []float64, vals ...float64) []float64 {
	n := len(vals) * slotsPerParam
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i, v := range vals {
		s, c := math.Sincos(v)
		dst[i*slotsPerParam+slotValue] = v
		dst[i*slotsPerParam+slotCos] = c
		dst[i*slotsPerParam+slotSin] = s
	}
	return dst
}

// Params returns the number of parameters the program was compiled for.
func (p *Program) Params() int {
	return p.n
}

// Eval evaluates a compiled program on slots returned by Bind.
func (p *Program) Eval(slots []float64) float64 {
	var sum float64
	for _, t := range p.terms {
		x := t.coeff
		for _, s := range t.slots {
			x *= pow(slots[s.i], s.pow)
		}
		sum += x
	}
	return sum
}

// pow raises x to an integer power.
func pow(x float64, n int) float64 {
	switch n {
	case 1:
		return x
	case 2:
		return x * x
	}
	return math.Pow(x, float64(n))
}
