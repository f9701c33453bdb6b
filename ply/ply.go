// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package ply implements decoding of PLY (Polygon File
// Format) models into triangulated meshes.
//
// Both ASCII and binary bodies are supported. Vertex
// properties are limited to position (x y z), normal
// (nx ny nz) and texture coordinates (s t), which must
// be declared as float and appear in that order. Faces
// must be triangles or quads.
package ply

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/gviegas/plymesh/mesh"
)

const prefix = "ply: "

// Errors.
var (
	ErrNotPLY     = errors.New(prefix + "not a PLY file")
	ErrNoHeader   = errors.New(prefix + "missing end_header")
	ErrHeader     = errors.New(prefix + "invalid header")
	ErrFaceSize   = errors.New(prefix + "face is neither a triangle nor a quad")
	ErrIndexRange = errors.New(prefix + "face index out of range")
	ErrShort      = errors.New(prefix + "unexpected end of data")
)

// QuadSplit selects how quads are split into triangles.
type QuadSplit int

// Quad splits.
const (
	// SplitLegacy emits (0,1,2) and (0,1,3).
	// The second triangle shares the 0-1 edge with the
	// first, so the (0,2,3) half of a planar quad is
	// left uncovered.
	SplitLegacy QuadSplit = iota
	// SplitStandard emits (0,1,2) and (0,2,3).
	SplitStandard
)

// String implements fmt.Stringer.
func (s QuadSplit) String() string {
	switch s {
	case SplitLegacy:
		return "legacy"
	case SplitStandard:
		return "standard"
	default:
		return "!ply.QuadSplit"
	}
}

// Decoder decodes PLY data.
// The zero value is ready for use.
type Decoder struct {
	Split QuadSplit
	// Logger receives diagnostics. If nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

func (d *Decoder) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Load decodes the PLY file at path into dst.
// See Decoder.Decode.
func (d *Decoder) Load(path string, dst *mesh.Mesh) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, prefix+"open")
	}
	defer f.Close()
	d2 := *d
	d2.Logger = d.logger().With("path", path)
	return d2.Decode(f, dst)
}

// Decode decodes PLY data from r and appends the resulting
// triangle list to dst. Every appended record is colored
// opaque white.
//
// If r does not start with the PLY magic, a warning is
// logged and ErrNotPLY is returned. On any error, dst is
// left unchanged.
func (d *Decoder) Decode(r io.Reader, dst *mesh.Mesh) error {
	log := d.logger()
	br := bufio.NewReader(r)
	if b, _ := br.Peek(3); !IsPLY(b) {
		log.Warn("cannot load model because it's not a ply model")
		return ErrNotPLY
	}
	h, err := readHeader(br)
	if err != nil {
		return err
	}
	if h.Format != ASCII {
		log.Info("binary body assumed", "format", h.Format)
	}
	if h.MissingVertex {
		log.Info("no vertex element in header")
	}
	if h.MissingFace {
		log.Info("no face element in header")
	}
	if !h.HasNormal {
		log.Info("no normals data in model")
	}
	if !h.HasTexCoord {
		log.Info("no texture data in model")
	}
	log.Info("model data", "vertices", h.Vertices, "faces", h.Faces)

	var out mesh.Mesh
	out.Grow(prealloc(h.Faces * 3))
	if h.Format == ASCII {
		err = d.decodeASCII(br, h, &out)
	} else {
		err = d.decodeBinary(br, h, &out)
	}
	if err != nil {
		return err
	}
	out.Fill(mesh.White)

	if dst.Len() == 0 {
		*dst = out
		return nil
	}
	dst.Grow(out.Len())
	for i := 0; i < out.Len(); i++ {
		dst.AppendFrom(&out, i)
	}
	return nil
}

// Load decodes the PLY file at path into dst using a
// zero Decoder.
func Load(path string, dst *mesh.Mesh) error { return new(Decoder).Load(path, dst) }

// Decode decodes PLY data from r into dst using a zero
// Decoder.
func Decode(r io.Reader, dst *mesh.Mesh) error { return new(Decoder).Decode(r, dst) }

// Upper bound on records reserved from header counts
// alone, for each of the output and the vertex table.
// Larger meshes grow as data is read, so a header that
// declares more than the body holds costs at most
// 2 * maxPrealloc records (6 MiB).
const maxPrealloc = 1 << 16

func prealloc(n int) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return n
}

// newTable creates the scratch per-vertex table.
func newTable(n int) *mesh.Mesh {
	var m mesh.Mesh
	m.Grow(prealloc(n))
	return &m
}

// emit appends the triangles of face to out.
// idx holds 3 or 4 indices into verts.
func (d *Decoder) emit(out, verts *mesh.Mesh, idx []int, face int) error {
	for _, i := range idx {
		if i < 0 || i >= verts.Len() {
			return errors.Wrapf(ErrIndexRange, "face %d: index %d (vertices: %d)", face, i, verts.Len())
		}
	}
	out.AppendFrom(verts, idx[0])
	out.AppendFrom(verts, idx[1])
	out.AppendFrom(verts, idx[2])
	if len(idx) == 4 {
		switch d.Split {
		case SplitStandard:
			out.AppendFrom(verts, idx[0])
			out.AppendFrom(verts, idx[2])
			out.AppendFrom(verts, idx[3])
		default:
			out.AppendFrom(verts, idx[0])
			out.AppendFrom(verts, idx[1])
			out.AppendFrom(verts, idx[3])
		}
	}
	return nil
}
