// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"testing"
)

func BenchmarkDot(b *testing.B) {
	v := V3{-2, 3, 9}
	w := V3{6, -3, 7}
	var d, e float32
	b.Run("V3.Dot", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			d = v.Dot(&w)
		}
	})
	b.Run("V3.bDotValue", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			e = v.bDotValue(w)
		}
	})
	b.Log(d, e)
}

// v and w passed on the stack.
func (v V3) bDotValue(w V3) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

func BenchmarkPoint(b *testing.B) {
	var m M4
	m.Scale(2, 3, 4)
	m[3] = V4{1, 1, 1, 1}
	v := V3{1, 2, 3}
	var u, w V4
	b.Run("V4.Mul", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			u = v.Point()
			u.Mul(&m, &u)
		}
	})
	b.Run("bMulValue", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			w = bMulValue(m, v.Point())
		}
	})
	b.Log(u, w)
}

// m and v passed on the stack.
func bMulValue(m M4, v V4) (u V4) {
	for i := range u {
		for j := range u {
			u[i] += m[j][i] * v[j]
		}
	}
	return
}
