package rotation

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/factor"
	"zappem.net/pub/math/transforms/matrix"
	"zappem.net/pub/math/transforms/terms"
)

func TestR(t *testing.T) {
	for i, r := range []*matrix.Matrix{RX("t"), RY("t"), RZ("t"), TX("t"), TY("t"), TZ("t")} {
		r2, err := r.Mul(r)
		if err != nil {
			t.Fatalf("[%d] failed to square %v: %v", i, r, err)
		}
		ans := r2.Substitute(
			[]factor.Value{factor.Sp(factor.Trig(factor.FnCos, "t"), 2)},
			terms.NewExp([]factor.Value{factor.S("c2t")},
				[]factor.Value{factor.Sp(factor.Trig(factor.FnSin, "t"), 2)}),
		).Substitute(
			[]factor.Value{factor.Cos("t"), factor.Sin("t")},
			terms.NewExp([]factor.Value{factor.D(1, 2), factor.S("s2t")}),
		)
		// Should equal r if 2t -> t.
		diff, err := r.Sum(ans, terms.NewExp([]factor.Value{factor.D(-1, 1)}))
		if err != nil {
			t.Fatalf("[%d] failed to subtract: %v", i, err)
		}
		cf := diff.Substitute(
			[]factor.Value{factor.S("c2t")},
			terms.NewExp([]factor.Value{factor.Cos("t")}),
		).Substitute(
			[]factor.Value{factor.S("s2t")},
			terms.NewExp([]factor.Value{factor.Sin("t")}),
		)
		if cf.String() != "[[0, 0, 0], [0, 0, 0], [0, 0, 0]]" {
			t.Errorf("[%d] got=%v, want=zero", i, cf)
		}
	}
}

func TestNumeric(t *testing.T) {
	theta := Rad(20)
	s, c := math.Sincos(theta)
	vs := []struct {
		k    Kind
		a    Axis
		want []float64
	}{
		{Rotation, X, []float64{1, 0, 0, 0, c, -s, 0, s, c}},
		{Rotation, Y, []float64{c, 0, s, 0, 1, 0, -s, 0, c}},
		{Rotation, Z, []float64{c, -s, 0, s, c, 0, 0, 0, 1}},
		{Transformation, X, []float64{1, 0, 0, 0, c, s, 0, -s, c}},
		{Transformation, Y, []float64{c, 0, -s, 0, 1, 0, s, 0, c}},
		{Transformation, Z, []float64{c, s, 0, -s, c, 0, 0, 0, 1}},
	}
	for i, v := range vs {
		got, err := Numeric(v.k, v.a, theta)
		if err != nil {
			t.Fatalf("[%d] %v%v failed: %v", i, v.k, v.a, err)
		}
		if want := mat.NewDense(3, 3, v.want); !mat.EqualApprox(got, want, 1e-15) {
			t.Errorf("[%d] %v%v got=%v want=%v", i, v.k, v.a, mat.Formatted(got), mat.Formatted(want))
		}
	}
}

func TestSymbolicMatchesNumeric(t *testing.T) {
	for _, k := range []Kind{Rotation, Transformation} {
		for _, a := range []Axis{X, Y, Z} {
			m, err := Symbolic(k, a, "q")
			if err != nil {
				t.Fatalf("%v%v: %v", k, a, err)
			}
			p, err := m.Compile([]string{"q"})
			if err != nil {
				t.Fatalf("%v%v compile: %v", k, a, err)
			}
			for _, theta := range []float64{-2.5, 0, 0.3491, math.Pi / 2, 3} {
				got := p.Eval(nil, terms.Bind(nil, theta))
				want, _ := Numeric(k, a, theta)
				if !mat.EqualApprox(got, want, 1e-12) {
					t.Errorf("%v%v(%v) got=%v want=%v", k, a, theta, mat.Formatted(got), mat.Formatted(want))
				}
			}
		}
	}
}

func TestTransformationIsTranspose(t *testing.T) {
	for _, a := range []Axis{X, Y, Z} {
		r, _ := Symbolic(Rotation, a, "t")
		tr, _ := Symbolic(Transformation, a, "t")
		if !tr.Equals(r.Transpose()) {
			t.Errorf("T%v=%v is not the transpose of R%v=%v", a, tr, a, r)
		}
	}
}

func TestInvalid(t *testing.T) {
	if _, err := Symbolic(Rotation, Axis(7), "t"); err == nil {
		t.Error("invalid axis accepted")
	}
	if _, err := Numeric(Kind(4), X, 1); err == nil {
		t.Error("invalid kind accepted")
	}
}
