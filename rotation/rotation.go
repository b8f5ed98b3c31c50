// Package rotation generates matrices for 3D rotations and frame
// transformations about a single axis.
//
// A rotation matrix turns a vector anticlockwise about an axis. A
// transformation matrix maps the coordinates of a point in an inertial
// frame to its coordinates in a frame rotated by the same angle; it is
// the rotation matrix with the sign of every sine flipped.
//
// Symbolic matrices use the factors cos(theta) and sin(theta) of the
// factor package, numerical ones are gonum dense matrices. Both are
// filled from the same layout table.
package rotation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/factor"
	"zappem.net/pub/math/transforms/matrix"
	"zappem.net/pub/math/transforms/terms"
)

// Kind selects between rotation and transformation matrices.
type Kind int

const (
	Rotation Kind = iota
	Transformation
)

func (k Kind) String() string {
	switch k {
	case Rotation:
		return "R"
	case Transformation:
		return "T"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Axis is the axis of a rotation.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// cell is one entry of a layout.
type cell int

const (
	zero cell = iota
	one
	cos
	sin
	negSin
)

// layouts are the anticlockwise rotation layouts of each axis.
var layouts = map[Axis][3][3]cell{
	X: {
		{one, zero, zero},
		{zero, cos, negSin},
		{zero, sin, cos},
	},
	Y: {
		{cos, zero, sin},
		{zero, one, zero},
		{negSin, zero, cos},
	},
	Z: {
		{cos, negSin, zero},
		{sin, cos, zero},
		{zero, zero, one},
	},
}

// layout returns the cells for a kind of matrix about an axis.
func layout(k Kind, a Axis) ([3][3]cell, error) {
	l, ok := layouts[a]
	if !ok {
		return l, fmt.Errorf("invalid axis %v", a)
	}
	switch k {
	case Rotation:
	case Transformation:
		for i := range l {
			for j, c := range l[i] {
				switch c {
				case sin:
					l[i][j] = negSin
				case negSin:
					l[i][j] = sin
				}
			}
		}
	default:
		return l, fmt.Errorf("invalid kind %v", k)
	}
	return l, nil
}

// Symbolic returns the k matrix about axis a for the angle theta.
func Symbolic(k Kind, a Axis, theta string) (*matrix.Matrix, error) {
	l, err := layout(k, a)
	if err != nil {
		return nil, err
	}
	m, _ := matrix.NewMatrix(3, 3)
	for i := range l {
		for j, c := range l[i] {
			var e *terms.Exp
			switch c {
			case zero:
				e = terms.NewExp()
			case one:
				e = terms.NewExp([]factor.Value{factor.D(1, 1)})
			case cos:
				e = terms.NewExp([]factor.Value{factor.Cos(theta)})
			case sin:
				e = terms.NewExp([]factor.Value{factor.Sin(theta)})
			case negSin:
				e = terms.NewExp([]factor.Value{factor.D(-1, 1), factor.Sin(theta)})
			}
			m.Set(i, j, e)
		}
	}
	return m, nil
}

// Numeric returns the k matrix about axis a for theta radians.
func Numeric(k Kind, a Axis, theta float64) (*mat.Dense, error) {
	l, err := layout(k, a)
	if err != nil {
		return nil, err
	}
	s, c := math.Sincos(theta)
	d := mat.NewDense(3, 3, nil)
	for i := range l {
		for j, x := range l[i] {
			switch x {
			case one:
				d.Set(i, j, 1)
			case cos:
				d.Set(i, j, c)
			case sin:
				d.Set(i, j, s)
			case negSin:
				d.Set(i, j, -s)
			}
		}
	}
	return d, nil
}

func must(m *matrix.Matrix, err error) *matrix.Matrix {
	if err != nil {
		panic(err)
	}
	return m
}

// A matrix for rotating anticlockwise around the X-axis.
func RX(theta string) *matrix.Matrix {
	return must(Symbolic(Rotation, X, theta))
}

// A matrix for rotating anticlockwise around the Y-axis.
func RY(theta string) *matrix.Matrix {
	return must(Symbolic(Rotation, Y, theta))
}

// A matrix for rotating anticlockwise around the Z-axis.
func RZ(theta string) *matrix.Matrix {
	return must(Symbolic(Rotation, Z, theta))
}

// TX maps inertial coordinates into a frame rotated about the X-axis.
func TX(theta string) *matrix.Matrix {
	return must(Symbolic(Transformation, X, theta))
}

// TY maps inertial coordinates into a frame rotated about the Y-axis.
func TY(theta string) *matrix.Matrix {
	return must(Symbolic(Transformation, Y, theta))
}

// TZ maps inertial coordinates into a frame rotated about the Z-axis.
func TZ(theta string) *matrix.Matrix {
	return must(Symbolic(Transformation, Z, theta))
}

// Rad converts degrees to radians.
func Rad(deg float64) float64 {
	return deg * math.Pi / 180
}
