package transform

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"zappem.net/pub/math/transforms/terms"
)

var (
	tok   = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9_]*|[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?|[-+*/^(),\[\].]|\s*)`)
	space = regexp.MustCompile(`^\s+$`)
)

// split tokenizes an expression. An unrecognized remainder is returned
// as the final token.
func split(line string) (toks []string) {
	for i := 0; i < len(line); i++ {
		loc := tok.FindStringIndex(line[i:])
		if loc == nil || loc[1] == 0 {
			toks = append(toks, line[i:])
			break
		}
		start := i + loc[0]
		end := i + loc[1]
		i = end - 1
		if space.MatchString(line[start:end]) {
			continue
		}
		toks = append(toks, line[start:end])
	}
	return toks
}

// Parser parses transform chains such as
//
//	Tx(alpha)*Ty(15deg)*Rz(0.3).T*[1,1,1]
//
// A factor is a variant applied to an angle (a symbol, radians or
// degrees with a "deg" suffix), a name bound in Env, a parenthesized
// chain or a bracketed vector. Factors take the suffixes .T, .Inv and
// .C. The operators *, + and - map to Mul, Add and Sub.
type Parser struct {
	Env      map[string]*Transform
	Logger   *slog.Logger
	Suppress bool
}

// Parse parses expr with names bound in env.
func Parse(expr string, env map[string]*Transform) (*Transform, error) {
	p := &Parser{Env: env}
	return p.Parse(expr)
}

// Parse parses expr into a transform.
func (p *Parser) Parse(expr string) (*Transform, error) {
	s := &scan{p: p, toks: split(expr)}
	if len(s.toks) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	v, err := s.expr()
	if err != nil {
		return nil, err
	}
	if s.pos != len(s.toks) {
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, s.toks[s.pos])
	}
	if v.t == nil {
		return nil, fmt.Errorf("%w: %q is not a transform", ErrSyntax, expr)
	}
	return v.t, nil
}

// value is a parsed factor: a transform, or a vector operand when t
// is nil.
type value struct {
	t *Transform
	v any
}

func (v value) operand() any {
	if v.t != nil {
		return v.t
	}
	return v.v
}

type scan struct {
	p    *Parser
	toks []string
	pos  int
}

func (s *scan) peek() string {
	if s.pos < len(s.toks) {
		return s.toks[s.pos]
	}
	return ""
}

func (s *scan) next() string {
	t := s.peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

func (s *scan) expect(want string) error {
	if got := s.next(); got != want {
		if got == "" {
			return fmt.Errorf("%w: missing %q", ErrSyntax, want)
		}
		return fmt.Errorf("%w: got %q, want %q", ErrSyntax, got, want)
	}
	return nil
}

func (s *scan) expr() (value, error) {
	left, err := s.term()
	if err != nil {
		return value{}, err
	}
	for {
		op := s.peek()
		if op != "+" && op != "-" {
			return left, nil
		}
		s.next()
		right, err := s.term()
		if err != nil {
			return value{}, err
		}
		if left.t == nil {
			return value{}, fmt.Errorf("%w: %q needs a transform on its left", ErrSyntax, op)
		}
		if op == "+" {
			left.t, err = left.t.Add(right.operand())
		} else {
			left.t, err = left.t.Sub(right.operand())
		}
		if err != nil {
			return value{}, err
		}
	}
}

func (s *scan) term() (value, error) {
	left, err := s.factor()
	if err != nil {
		return value{}, err
	}
	for s.peek() == "*" {
		s.next()
		right, err := s.factor()
		if err != nil {
			return value{}, err
		}
		if left.t == nil {
			return value{}, fmt.Errorf("%w: \"*\" needs a transform on its left", ErrSyntax)
		}
		if left.t, err = left.t.Mul(right.operand()); err != nil {
			return value{}, err
		}
	}
	return left, nil
}

func (s *scan) factor() (value, error) {
	var v value
	switch t := s.next(); {
	case t == "":
		return v, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	case t == "(":
		x, err := s.expr()
		if err != nil {
			return v, err
		}
		if err := s.expect(")"); err != nil {
			return v, err
		}
		v = x
	case t == "[":
		x, err := s.vector()
		if err != nil {
			return v, err
		}
		v.v = x
	default:
		if variant, ok := ParseVariant(t); ok && s.peek() == "(" {
			x, err := s.call(variant)
			if err != nil {
				return v, err
			}
			v.t = x
			break
		}
		x, ok := s.p.Env[t]
		if !ok {
			return v, fmt.Errorf("%w: unknown name %q", ErrSyntax, t)
		}
		v.t = x
	}
	for s.peek() == "." {
		s.next()
		suffix := s.next()
		if v.t == nil {
			return v, fmt.Errorf("%w: .%s needs a transform", ErrSyntax, suffix)
		}
		switch suffix {
		case "T":
			v.t = v.t.T()
		case "Inv":
			v.t = v.t.Inv()
		case "C":
			v.t = v.t.C()
		default:
			return v, fmt.Errorf("%w: unknown suffix .%s", ErrSyntax, suffix)
		}
	}
	return v, nil
}

// call parses the parenthesized angle of a variant.
func (s *scan) call(variant Variant) (*Transform, error) {
	if err := s.expect("("); err != nil {
		return nil, err
	}
	a, err := s.angle()
	if err != nil {
		return nil, err
	}
	if err := s.expect(")"); err != nil {
		return nil, err
	}
	t, err := Build(Config{Variant: variant, Delta: &a, Logger: s.p.Logger})
	if err != nil {
		return nil, err
	}
	t.Suppress = s.p.Suppress
	return t, nil
}

func (s *scan) angle() (Angle, error) {
	neg := false
	if s.peek() == "-" {
		s.next()
		neg = true
	}
	t := s.next()
	x, err := strconv.ParseFloat(t, 64)
	if err != nil {
		if neg || t == "" || t == ")" {
			return Angle{}, fmt.Errorf("%w: invalid angle %q", ErrSyntax, t)
		}
		return Sym(t), nil
	}
	if neg {
		x = -x
	}
	switch s.peek() {
	case "deg":
		s.next()
		return Deg(x), nil
	case "rad":
		s.next()
	}
	return Val(x), nil
}

// vector parses the comma separated entries up to "]". Entries that
// are all numbers give a []float64, otherwise a []*terms.Exp.
func (s *scan) vector() (any, error) {
	var entries []string
	var cur []string
	for {
		t := s.next()
		switch t {
		case "":
			return nil, fmt.Errorf("%w: missing \"]\"", ErrSyntax)
		case ",", "]":
			if len(cur) == 0 {
				return nil, fmt.Errorf("%w: empty vector entry", ErrSyntax)
			}
			entries = append(entries, strings.Join(cur, ""))
			cur = nil
			if t == "]" {
				return vectorOperand(entries)
			}
		default:
			cur = append(cur, t)
		}
	}
}

func vectorOperand(entries []string) (any, error) {
	fs := make([]float64, len(entries))
	numeric := true
	for i, e := range entries {
		f, err := strconv.ParseFloat(e, 64)
		if err != nil {
			numeric = false
			break
		}
		fs[i] = f
	}
	if numeric {
		return fs, nil
	}
	es := make([]*terms.Exp, len(entries))
	for i, e := range entries {
		x, err := terms.ParseExp(e)
		if err != nil {
			return nil, fmt.Errorf("%w: vector entry %q: %v", ErrSyntax, e, err)
		}
		es[i] = x
	}
	return es, nil
}
