package transform

import (
	"fmt"

	"zappem.net/pub/math/transforms/rotation"
)

// Variant tags the kind and axis of a transform. A composed transform
// keeps the variant of its left operand.
type Variant int

const (
	RotationX Variant = iota
	RotationY
	RotationZ
	TransformX
	TransformY
	TransformZ
)

var variantNames = [...]string{"Rx", "Ry", "Rz", "Tx", "Ty", "Tz"}

// Valid reports whether v is one of the defined variants.
func (v Variant) Valid() bool {
	return v >= RotationX && v <= TransformZ
}

// Kind is the rotation or transformation convention of v.
func (v Variant) Kind() rotation.Kind {
	if v >= TransformX {
		return rotation.Transformation
	}
	return rotation.Rotation
}

// Axis is the axis of v.
func (v Variant) Axis() rotation.Axis {
	return rotation.Axis(int(v) % 3)
}

func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return variantNames[v]
}

// ParseVariant maps a name such as "Tx" to its variant.
func ParseVariant(name string) (Variant, bool) {
	for i, n := range variantNames {
		if n == name {
			return Variant(i), true
		}
	}
	return 0, false
}
