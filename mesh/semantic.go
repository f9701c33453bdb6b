// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mesh

// Semantic specifies the intended use of a vertex attribute.
type Semantic int

// Semantics.
// They are ordered by shader input location.
const (
	Position Semantic = 1 << iota
	Color0
	Normal
	TexCoord0
	// TexLayer is the per-vertex texture layer that
	// the joiner maintains alongside the joined mesh.
	TexLayer

	MaxSemantic int = iota
)

// I computes log₂(s).
// This value is the shader input location of s.
func (s Semantic) I() (i int) {
	for s > 1 {
		s >>= 1
		i++
	}
	return
}

// Components returns the number of float32 components
// that s uses per vertex.
func (s Semantic) Components() int {
	switch s {
	case Position, Normal:
		return 3
	case Color0:
		return 4
	case TexCoord0:
		return 2
	case TexLayer:
		return 1
	default:
		panic("undefined Semantic constant")
	}
}

// String implements fmt.Stringer.
func (s Semantic) String() string {
	switch s {
	case Position:
		return "Position"
	case Color0:
		return "Color0"
	case Normal:
		return "Normal"
	case TexCoord0:
		return "TexCoord0"
	case TexLayer:
		return "TexLayer"
	default:
		return "!mesh.Semantic"
	}
}
