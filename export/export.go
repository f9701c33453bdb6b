// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package export writes joined meshes as glTF 2.0 assets.
package export

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gviegas/plymesh/join"
	"github.com/gviegas/plymesh/linear"
)

const prefix = "export: "

// Errors.
var (
	ErrEmpty  = errors.New(prefix + "group has no vertices")
	ErrFormat = errors.New(prefix + "unknown file extension (want .gltf or .glb)")
)

// ExtraLayer is the key of the primitive extras entry that
// holds the sub-mesh's texture ID.
const ExtraLayer = "textureLayer"

// Document converts g into a glTF document.
// The document has a single node referencing a single
// mesh, and the mesh has one triangle-list primitive per
// non-empty sub-mesh, in sub-mesh order. Vertex data is
// taken from the joined mesh, so sub-mesh transforms are
// already applied.
func Document(g *join.Group) (*gltf.Document, error) {
	j := g.Joined()
	if j.Len() == 0 {
		return nil, ErrEmpty
	}
	doc := gltf.NewDocument()
	gm := &gltf.Mesh{Name: "joined"}
	for i := 0; i < g.Len(); i++ {
		start, end := g.Range(i)
		if start == end {
			continue
		}
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Mode: gltf.PrimitiveTriangles,
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION:   modeler.WritePosition(doc, vec3s(j.Positions[start:end])),
				gltf.NORMAL:     modeler.WriteNormal(doc, vec3s(j.Normals[start:end])),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, vec2s(j.TexCoords[start:end])),
				gltf.COLOR_0:    modeler.WriteColor(doc, vec4s(j.Colors[start:end])),
			},
			Extras: map[string]any{ExtraLayer: g.TextureID(i)},
		})
	}
	doc.Meshes = []*gltf.Mesh{gm}
	doc.Nodes = []*gltf.Node{{Name: "joined", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}
	return doc, nil
}

// Save writes g to path.
// The extension selects the encoding: ".glb" writes a
// binary glTF and ".gltf" writes JSON with the buffer
// embedded as a data URI.
func Save(g *join.Group, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".glb" && ext != ".gltf" {
		return errors.Wrap(ErrFormat, path)
	}
	doc, err := Document(g)
	if err != nil {
		return err
	}
	if ext == ".glb" {
		err = gltf.SaveBinary(doc, path)
	} else {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
		err = gltf.Save(doc, path)
	}
	return errors.Wrapf(err, prefix+"saving %s", path)
}

// The modeler package only accepts unnamed array types.

func vec2s(s []linear.V2) [][2]float32 {
	d := make([][2]float32, len(s))
	for i := range s {
		d[i] = s[i]
	}
	return d
}

func vec3s(s []linear.V3) [][3]float32 {
	d := make([][3]float32, len(s))
	for i := range s {
		d[i] = s[i]
	}
	return d
}

func vec4s(s []linear.V4) [][4]float32 {
	d := make([][4]float32, len(s))
	for i := range s {
		d[i] = s[i]
	}
	return d
}
