// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package mesh implements the vertex data representation
// shared by the loader and the joiner.
package mesh

import (
	"unsafe"

	"github.com/gviegas/plymesh/linear"
)

// Vertex is a single vertex record.
type Vertex struct {
	Position linear.V3
	Normal   linear.V3
	TexCoord linear.V2
	Color    linear.V4
}

// White is the opaque white color.
var White = linear.V4{1, 1, 1, 1}

// Mesh is an ordered sequence of vertex records stored
// as one array per attribute.
// The arrays always have the same length.
//
// A Mesh is not safe for concurrent mutation.
type Mesh struct {
	Positions []linear.V3
	Normals   []linear.V3
	TexCoords []linear.V2
	Colors    []linear.V4
}

// Len returns the number of vertex records in m.
func (m *Mesh) Len() int { return len(m.Positions) }

// Alloc resizes m to contain exactly n records.
// Existing records in [0, min(n, m.Len())) are kept and
// new records are zeroed.
func (m *Mesh) Alloc(n int) {
	m.Positions = resize(m.Positions, n)
	m.Normals = resize(m.Normals, n)
	m.TexCoords = resize(m.TexCoords, n)
	m.Colors = resize(m.Colors, n)
}

// Grow ensures that at least n more records can be
// appended without reallocation.
func (m *Mesh) Grow(n int) {
	m.Positions = grow(m.Positions, n)
	m.Normals = grow(m.Normals, n)
	m.TexCoords = grow(m.TexCoords, n)
	m.Colors = grow(m.Colors, n)
}

// Append appends vertex records to m.
func (m *Mesh) Append(vs ...Vertex) {
	for i := range vs {
		m.Positions = append(m.Positions, vs[i].Position)
		m.Normals = append(m.Normals, vs[i].Normal)
		m.TexCoords = append(m.TexCoords, vs[i].TexCoord)
		m.Colors = append(m.Colors, vs[i].Color)
	}
}

// AppendFrom appends the record at index i of src to m.
func (m *Mesh) AppendFrom(src *Mesh, i int) {
	m.Positions = append(m.Positions, src.Positions[i])
	m.Normals = append(m.Normals, src.Normals[i])
	m.TexCoords = append(m.TexCoords, src.TexCoords[i])
	m.Colors = append(m.Colors, src.Colors[i])
}

// Vertex returns a copy of the record at index i.
func (m *Mesh) Vertex(i int) Vertex {
	return Vertex{
		Position: m.Positions[i],
		Normal:   m.Normals[i],
		TexCoord: m.TexCoords[i],
		Color:    m.Colors[i],
	}
}

// Fill sets the color of every record to c.
func (m *Mesh) Fill(c linear.V4) {
	for i := range m.Colors {
		m.Colors[i] = c
	}
}

// Truncate discards all records but keeps the storage.
func (m *Mesh) Truncate() {
	m.Positions = m.Positions[:0]
	m.Normals = m.Normals[:0]
	m.TexCoords = m.TexCoords[:0]
	m.Colors = m.Colors[:0]
}

// Free releases m's storage.
// m can be reused afterwards.
func (m *Mesh) Free() { *m = Mesh{} }

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Positions: append([]linear.V3(nil), m.Positions...),
		Normals:   append([]linear.V3(nil), m.Normals...),
		TexCoords: append([]linear.V2(nil), m.TexCoords...),
		Colors:    append([]linear.V4(nil), m.Colors...),
	}
}

// Bytes returns the raw bytes of the array that holds
// sem's data, in host byte order, without copying.
// It returns nil for semantics that a Mesh does not store
// (i.e., TexLayer).
// The slice is only valid until m is modified.
func (m *Mesh) Bytes(sem Semantic) []byte {
	switch sem {
	case Position:
		return asBytes(m.Positions)
	case Normal:
		return asBytes(m.Normals)
	case TexCoord0:
		return asBytes(m.TexCoords)
	case Color0:
		return asBytes(m.Colors)
	default:
		return nil
	}
}

func asBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var z T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(z)))
}

func resize[T any](s []T, n int) []T {
	if n <= cap(s) {
		old := len(s)
		s = s[:n]
		if n > old {
			clear(s[old:])
		}
		return s
	}
	t := make([]T, n)
	copy(t, s)
	return t
}

func grow[T any](s []T, n int) []T {
	if n <= cap(s)-len(s) {
		return s
	}
	t := make([]T, len(s), len(s)+n)
	copy(t, s)
	return t
}
