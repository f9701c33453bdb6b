// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package transform implements the per-mesh transform
// applied when joining meshes.
package transform

import (
	"github.com/gviegas/plymesh/linear"
)

// Transform is a T⋅R⋅S transform.
// The zero value is not valid; use New.
type Transform struct {
	t linear.V3
	r linear.Q
	s linear.V3

	local   linear.M4
	stale   bool // local must be recomputed.
	changed bool
}

// New creates an identity transform.
func New() *Transform {
	var t Transform
	t.r.I()
	t.s = linear.V3{1, 1, 1}
	t.local.I()
	return &t
}

// NewScale creates a transform that only scales.
func NewScale(x, y, z float32) *Transform {
	t := New()
	t.SetScale(x, y, z)
	t.changed = false
	return t
}

// SetScale sets the scale component.
func (t *Transform) SetScale(x, y, z float32) {
	t.s = linear.V3{x, y, z}
	t.touch()
}

// SetTranslation sets the translation component.
func (t *Transform) SetTranslation(x, y, z float32) {
	t.t = linear.V3{x, y, z}
	t.touch()
}

// SetRotation sets the rotation component.
// q must be a unit quaternion.
func (t *Transform) SetRotation(q linear.Q) {
	t.r = q
	t.touch()
}

// Scale returns the scale component.
func (t *Transform) Scale() linear.V3 { return t.s }

// Translation returns the translation component.
func (t *Transform) Translation() linear.V3 { return t.t }

// Rotation returns the rotation component.
func (t *Transform) Rotation() linear.Q { return t.r }

// SetMatrix replaces the transform with m.
// The T, R and S components are ignored until one of
// them is set again.
func (t *Transform) SetMatrix(m *linear.M4) {
	t.local = *m
	t.stale = false
	t.changed = true
}

func (t *Transform) touch() {
	t.stale = true
	t.changed = true
}

// Local returns the T⋅R⋅S matrix, or the matrix given
// to SetMatrix.
func (t *Transform) Local() *linear.M4 {
	if t.stale {
		var r, s linear.M4
		t.local.Translate(t.t[0], t.t[1], t.t[2])
		r.RotateQ(&t.r)
		s.Scale(t.s[0], t.s[1], t.s[2])
		t.local.Mul(&t.local, &r)
		t.local.Mul(&t.local, &s)
		t.stale = false
	}
	return &t.local
}

// Changed returns whether the local transform has
// changed since the last ClearChanged.
func (t *Transform) Changed() bool { return t.changed }

// ClearChanged resets the flag that Changed reports.
func (t *Transform) ClearChanged() { t.changed = false }

// Point transforms v as a point (w = 1).
func (t *Transform) Point(v linear.V3) linear.V3 {
	p := v.Point()
	p.Mul(t.Local(), &p)
	return p.XYZ()
}

// Normal transforms v as a normal, using the
// inverse-transpose of the upper 3x3 block, and
// normalizes the result.
// v is returned unchanged if it is the zero vector or if
// the upper 3x3 block is singular, as in a zero scale.
func (t *Transform) Normal(v linear.V3) linear.V3 {
	m, ok := t.NormalMatrix()
	if !ok {
		return v
	}
	return MulNormal(&m, v)
}

// NormalMatrix returns the inverse-transpose of the
// upper 3x3 block of Local.
// It returns false if the block has no finite inverse.
func (t *Transform) NormalMatrix() (m linear.M3, ok bool) {
	m.FromM4(t.Local())
	if !m.Invert(&m) {
		return m, false
	}
	m.Transpose(&m)
	return m, true
}

// MulNormal multiplies v by the normal matrix m and
// normalizes the result.
// v is returned unchanged if it is the zero vector or if
// the result is zero or not finite.
func MulNormal(m *linear.M3, v linear.V3) linear.V3 {
	if v == (linear.V3{}) {
		return v
	}
	var n linear.V3
	n.Mul(m, &v)
	if n == (linear.V3{}) || !n.Finite() {
		return v
	}
	n.Norm(&n)
	if !n.Finite() {
		return v
	}
	return n
}
