// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements math for 3D graphics.
package linear

import (
	"math"
)

// V2 is a 2-component vector of float32.
type V2 [2]float32

// V3 is a 3-component vector of float32.
type V3 [3]float32

// Scale sets v to contain s ⋅ w.
func (v *V3) Scale(s float32, w *V3) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V3) Dot(w *V3) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *V3) Len() float32 { return float32(math.Sqrt(float64(v.Dot(v)))) }

// Norm sets v to contain w normalized.
// w must not be the zero vector.
func (v *V3) Norm(w *V3) { v.Scale(1/w.Len(), w) }

// Finite reports whether every component of v is
// neither NaN nor infinite.
func (v *V3) Finite() bool { return finite(v[0]) && finite(v[1]) && finite(v[2]) }

// Mul sets v to contain m ⋅ w.
func (v *V3) Mul(m *M3, w *V3) {
	var u V3
	for i := range u {
		for j := range u {
			u[i] += m[j][i] * w[j]
		}
	}
	*v = u
}

// V4 is a 4-component vector of float32.
type V4 [4]float32

// Mul sets v to contain m ⋅ w.
func (v *V4) Mul(m *M4, w *V4) {
	var u V4
	for i := range u {
		for j := range u {
			u[i] += m[j][i] * w[j]
		}
	}
	*v = u
}

// Point returns v as a homogeneous point (w = 1).
func (v V3) Point() V4 { return V4{v[0], v[1], v[2], 1} }

// XYZ returns the first three components of v.
func (v V4) XYZ() V3 { return V3{v[0], v[1], v[2]} }
