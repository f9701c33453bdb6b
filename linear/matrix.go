// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// Transpose sets m to contain the transpose of n.
func (m *M3) Transpose(n *M3) {
	t := *n
	for i := range m {
		for j := range m {
			m[i][j] = t[j][i]
		}
	}
}

// Invert sets m to contain the inverse of n.
// It returns false and leaves m unchanged if n is
// singular or the inverse is not finite.
func (m *M3) Invert(n *M3) bool {
	s0 := n[1][1]*n[2][2] - n[1][2]*n[2][1]
	s1 := n[1][0]*n[2][2] - n[1][2]*n[2][0]
	s2 := n[1][0]*n[2][1] - n[1][1]*n[2][0]
	det := n[0][0]*s0 - n[0][1]*s1 + n[0][2]*s2
	if det == 0 || !finite(det) {
		return false
	}
	idet := 1 / det
	var r M3
	r[0][0] = s0 * idet
	r[0][1] = -(n[0][1]*n[2][2] - n[0][2]*n[2][1]) * idet
	r[0][2] = (n[0][1]*n[1][2] - n[0][2]*n[1][1]) * idet
	r[1][0] = -s1 * idet
	r[1][1] = (n[0][0]*n[2][2] - n[0][2]*n[2][0]) * idet
	r[1][2] = -(n[0][0]*n[1][2] - n[0][2]*n[1][0]) * idet
	r[2][0] = s2 * idet
	r[2][1] = -(n[0][0]*n[2][1] - n[0][1]*n[2][0]) * idet
	r[2][2] = (n[0][0]*n[1][1] - n[0][1]*n[1][0]) * idet
	for i := range r {
		if !r[i].Finite() {
			return false
		}
	}
	*m = r
	return true
}

// FromM4 sets m to contain the upper-left 3x3 block of n.
func (m *M3) FromM4(n *M4) {
	for i := range m {
		m[i] = V3{n[i][0], n[i][1], n[i][2]}
	}
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Translate sets m to contain a translation matrix.
func (m *M4) Translate(x, y, z float32) {
	m.I()
	m[3] = V4{x, y, z, 1}
}

// Scale sets m to contain a scale matrix.
func (m *M4) Scale(x, y, z float32) { *m = M4{{x}, {1: y}, {2: z}, {3: 1}} }

// RotateQ sets m to contain the rotation matrix of
// unit quaternion q.
func (m *M4) RotateQ(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	*m = M4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{3: 1},
	}
}

func finite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// sincos32 is math.Sincos for float32.
func sincos32(x float32) (sin, cos float32) {
	s, c := math.Sincos(float64(x))
	return float32(s), float32(c)
}
