// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package export

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gviegas/plymesh/internal/clog"
	"github.com/gviegas/plymesh/join"
	"github.com/gviegas/plymesh/mesh"
	"github.com/gviegas/plymesh/ply"
)

func cubes(t *testing.T) *join.Group {
	log := slog.New(clog.New(io.Discard, nil))
	var m mesh.Mesh
	d := ply.Decoder{Logger: log}
	if err := d.Load("../ply/testdata/cube.ply", &m); err != nil {
		t.Fatalf("ply.Decoder.Load: unexpected error: %v", err)
	}
	g := &join.Group{Logger: log}
	g.AddMesh(&m)
	g.AddMesh(new(mesh.Mesh))
	g.AddMesh(&m)
	g.Transform(2).SetTranslation(3, 0, 0)
	g.Sync()
	if err := g.SetTextureID(2, 4); err != nil {
		t.Fatalf("join.Group.SetTextureID: unexpected error: %v", err)
	}
	return g
}

func checkDoc(t *testing.T, doc *gltf.Document) {
	if len(doc.Meshes) != 1 {
		t.Fatalf("Meshes: len\nhave %d\nwant 1", len(doc.Meshes))
	}
	prims := doc.Meshes[0].Primitives
	if len(prims) != 2 {
		t.Fatalf("Primitives: len\nhave %d\nwant 2", len(prims))
	}
	for i, p := range prims {
		for _, a := range [...]string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0, gltf.COLOR_0} {
			x, ok := p.Attributes[a]
			if !ok {
				t.Fatalf("Primitives[%d]: missing %s", i, a)
			}
			if n := doc.Accessors[x].Count; n != 36 {
				t.Fatalf("Primitives[%d]: %s count\nhave %d\nwant 36", i, a, n)
			}
		}
	}
	pos, err := modeler.ReadPosition(doc, doc.Accessors[prims[1].Attributes[gltf.POSITION]], nil)
	if err != nil {
		t.Fatalf("modeler.ReadPosition: unexpected error: %v", err)
	}
	if pos[0] != [3]float32{2, -1, -1} {
		t.Fatalf("Primitives[1]: POSITION[0]\nhave %v\nwant [2 -1 -1]", pos[0])
	}
}

func TestDocument(t *testing.T) {
	g := cubes(t)
	doc, err := Document(g)
	if err != nil {
		t.Fatalf("Document: unexpected error: %v", err)
	}
	checkDoc(t, doc)
	prims := doc.Meshes[0].Primitives
	for i, want := range [...]int{join.NoTexture, 4} {
		ex, _ := prims[i].Extras.(map[string]any)
		if id := ex[ExtraLayer]; id != want {
			t.Fatalf("Primitives[%d]: %s\nhave %v\nwant %d", i, ExtraLayer, id, want)
		}
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Mesh == nil || *doc.Nodes[0].Mesh != 0 {
		t.Fatalf("Nodes\nhave %v\nwant one node with mesh 0", doc.Nodes)
	}

	if _, err := Document(new(join.Group)); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Document (empty): error\nhave %v\nwant %v", err, ErrEmpty)
	}
}

func TestSave(t *testing.T) {
	g := cubes(t)
	dir := t.TempDir()
	for _, name := range [...]string{"cubes.glb", "cubes.gltf", "CUBES.GLB"} {
		path := filepath.Join(dir, name)
		if err := Save(g, path); err != nil {
			t.Fatalf("Save(%s): unexpected error: %v", name, err)
		}
		doc, err := gltf.Open(path)
		if err != nil {
			t.Fatalf("gltf.Open(%s): unexpected error: %v", name, err)
		}
		checkDoc(t, doc)
	}
	if err := Save(g, filepath.Join(dir, "cubes.obj")); !errors.Is(err, ErrFormat) {
		t.Fatalf("Save(cubes.obj): error\nhave %v\nwant %v", err, ErrFormat)
	}
	if err := Save(new(join.Group), filepath.Join(dir, "empty.glb")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Save(empty.glb): error\nhave %v\nwant %v", err, ErrEmpty)
	}
}
