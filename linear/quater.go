// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Rotate sets q to contain a rotation of angle radians
// about axis. axis must be normalized.
func (q *Q) Rotate(angle float32, axis *V3) {
	s, c := sincos32(angle * 0.5)
	q.V.Scale(s, axis)
	q.R = c
}
