// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package join implements the aggregation of many meshes,
// each with its own transform, into a single joined mesh
// that can be drawn with one call.
package join

import (
	"log/slog"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/gviegas/plymesh/linear"
	"github.com/gviegas/plymesh/mesh"
	"github.com/gviegas/plymesh/transform"
)

const prefix = "join: "

// ErrTextureID means that a texture ID is neither a valid
// layer nor NoTexture.
var ErrTextureID = errors.New(prefix + "texture ID out of range")

// MaxLayer is the number of texture layers.
// Valid texture IDs are in the range [0, MaxLayer).
const MaxLayer = 32

// NoTexture is the texture ID of vertices that use their
// vertex color instead of a texture layer.
const NoTexture = MaxLayer + 1

// Group is an ordered collection of sub-meshes and their
// transforms, plus the joined mesh that concatenates all
// of them in insertion order.
//
// The joined positions are the sub-mesh positions
// multiplied by the sub-mesh's transform. Normals are
// copied verbatim unless TransformNormals is set.
// Texture coordinates and colors are always copied
// verbatim.
//
// A Group keeps references to the meshes it is given.
// Changes to them are picked up by the next Rejoin.
// The zero value is an empty Group ready for use.
// A Group is not safe for concurrent use.
type Group struct {
	// TransformNormals makes the joiner transform
	// normals using the inverse-transpose of the
	// sub-mesh transform.
	// Sub-meshes whose transform is singular, such as
	// one with a zero scale, keep their normals verbatim.
	// So does any normal whose transformed value is not
	// finite.
	// It takes effect in the next AddMesh or Rejoin.
	TransformNormals bool
	// Logger receives debug messages. If nil,
	// slog.Default() is used.
	Logger *slog.Logger

	meshes  []*mesh.Mesh
	xforms  []*transform.Transform
	layers  []int
	offsets []int

	joined mesh.Mesh
	texIDs []float32
}

func (g *Group) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// AddMesh adds m to g with an identity transform and
// NoTexture as its texture ID.
// m's transformed records are appended to the joined
// mesh; prior sub-meshes are not touched.
// It returns the sub-mesh index of m.
func (g *Group) AddMesh(m *mesh.Mesh) int {
	i := len(g.meshes)
	g.meshes = append(g.meshes, m)
	g.xforms = append(g.xforms, transform.NewScale(1, 1, 1))
	g.layers = append(g.layers, NoTexture)
	g.offsets = append(g.offsets, g.joined.Len())
	g.appendSub(i)
	return i
}

// appendSub appends the transformed records of sub-mesh i
// to the joined mesh.
func (g *Group) appendSub(i int) {
	m := g.meshes[i]
	local := g.xforms[i].Local()
	var nm linear.M3
	normals := g.TransformNormals
	if normals {
		var ok bool
		if nm, ok = g.xforms[i].NormalMatrix(); !ok {
			g.logger().Debug("singular transform, normals kept", "mesh", i)
			normals = false
		}
	}
	id := float32(g.layers[i])

	g.joined.Grow(m.Len())
	for j := 0; j < m.Len(); j++ {
		v := m.Vertex(j)
		p := v.Position.Point()
		p.Mul(local, &p)
		v.Position = p.XYZ()
		if normals {
			v.Normal = transform.MulNormal(&nm, v.Normal)
		}
		g.joined.Append(v)
		g.texIDs = append(g.texIDs, id)
	}
}

// Rejoin discards and rebuilds the joined mesh, the
// texture IDs and the offsets from the current sub-meshes
// and transforms.
func (g *Group) Rejoin() {
	g.joined.Truncate()
	g.texIDs = g.texIDs[:0]
	g.offsets = g.offsets[:0]
	for i := range g.meshes {
		g.offsets = append(g.offsets, g.joined.Len())
		g.appendSub(i)
	}
	g.logger().Debug("rejoined", "meshes", len(g.meshes), "vertices", g.joined.Len())
}

// Sync calls Rejoin if any transform has changed or any
// sub-mesh has changed size since the last join.
// It then clears the transforms' change flags.
// It returns whether the joined mesh was rebuilt.
func (g *Group) Sync() bool {
	dirty := false
	for i, x := range g.xforms {
		if x.Changed() {
			dirty = true
		}
		if start, end := g.Range(i); end-start != g.meshes[i].Len() {
			dirty = true
		}
	}
	if dirty {
		g.Rejoin()
	}
	for _, x := range g.xforms {
		x.ClearChanged()
	}
	return dirty
}

// SetTextureID sets the texture ID of sub-mesh i.
// id must be in the range [0, MaxLayer) or be NoTexture.
// The joined texture IDs are updated in place.
func (g *Group) SetTextureID(i, id int) error {
	if id != NoTexture && (id < 0 || id >= MaxLayer) {
		return errors.Wrapf(ErrTextureID, "%d", id)
	}
	g.layers[i] = id
	start, end := g.Range(i)
	for j := start; j < end; j++ {
		g.texIDs[j] = float32(id)
	}
	return nil
}

// TextureID returns the texture ID of sub-mesh i.
func (g *Group) TextureID(i int) int { return g.layers[i] }

// Len returns the number of sub-meshes.
func (g *Group) Len() int { return len(g.meshes) }

// Mesh returns sub-mesh i.
func (g *Group) Mesh(i int) *mesh.Mesh { return g.meshes[i] }

// Transform returns the transform of sub-mesh i.
// Changes to it are applied by Sync or Rejoin.
func (g *Group) Transform(i int) *transform.Transform { return g.xforms[i] }

// Joined returns the joined mesh.
// It must not be modified.
func (g *Group) Joined() *mesh.Mesh { return &g.joined }

// TextureIDs returns the per-vertex texture IDs of the
// joined mesh.
func (g *Group) TextureIDs() []float32 { return g.texIDs }

// Offsets returns the index of the first record of each
// sub-mesh in the joined mesh.
func (g *Group) Offsets() []int { return g.offsets }

// Range returns the half-open range of records that
// sub-mesh i occupies in the joined mesh.
func (g *Group) Range(i int) (start, end int) {
	start = g.offsets[i]
	if i+1 < len(g.offsets) {
		end = g.offsets[i+1]
	} else {
		end = g.joined.Len()
	}
	return
}

// Free releases all of g's storage.
// The meshes themselves are not freed.
func (g *Group) Free() {
	*g = Group{TransformNormals: g.TransformNormals, Logger: g.Logger}
}

// Attrib is the data of one vertex attribute of the
// joined mesh, ready for upload.
type Attrib struct {
	Semantic   mesh.Semantic
	Components int
	// Data is a view of g's storage in host byte
	// order. It is only valid until g changes.
	Data []byte
}

// Attribs returns the attributes of the joined mesh
// ordered by shader input location.
func (g *Group) Attribs() []Attrib {
	as := make([]Attrib, mesh.MaxSemantic)
	for i := range as {
		sem := mesh.Semantic(1 << i)
		as[i] = Attrib{
			Semantic:   sem,
			Components: sem.Components(),
		}
		if sem == mesh.TexLayer {
			as[i].Data = floatBytes(g.texIDs)
		} else {
			as[i].Data = g.joined.Bytes(sem)
		}
	}
	return as
}

func floatBytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*4)
}
