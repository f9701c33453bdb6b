// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package ply

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/gviegas/plymesh/linear"
	"github.com/gviegas/plymesh/mesh"
)

// Byte order of every binary body.
// Both floats and face indices are read little-endian,
// whatever the header declares.
var order = binary.LittleEndian

// binReader reads fixed-size values from a binary body.
// The first error sticks.
type binReader struct {
	r   io.Reader
	buf [16]byte
	err error
}

func (b *binReader) fill(n int) []byte {
	if b.err != nil {
		return b.buf[:n]
	}
	if _, err := io.ReadFull(b.r, b.buf[:n]); err != nil {
		b.err = err
	}
	return b.buf[:n]
}

func (b *binReader) u8() uint8 { return b.fill(1)[0] }

func (b *binReader) u32() uint32 { return order.Uint32(b.fill(4)) }

func (b *binReader) v3() linear.V3 {
	p := b.fill(12)
	return linear.V3{
		math.Float32frombits(order.Uint32(p)),
		math.Float32frombits(order.Uint32(p[4:])),
		math.Float32frombits(order.Uint32(p[8:])),
	}
}

func (b *binReader) v2() linear.V2 {
	p := b.fill(8)
	return linear.V2{
		math.Float32frombits(order.Uint32(p)),
		math.Float32frombits(order.Uint32(p[4:])),
	}
}

// wrapErr converts a read error into the error that
// the decoder reports.
func (b *binReader) wrapErr(what string, i, n int) error {
	if b.err == io.EOF || b.err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrShort, "%s %d/%d", what, i, n)
	}
	return errors.Wrap(b.err, prefix+"reading body")
}

// decodeBinary reads the body of a binary PLY file.
// Each face record is a 1-byte count followed by 4-byte
// vertex indices.
func (d *Decoder) decodeBinary(r io.Reader, h *Header, out *mesh.Mesh) error {
	br := binReader{r: r}
	verts := newTable(h.Vertices)
	for i := 0; i < h.Vertices; i++ {
		var v mesh.Vertex
		if h.HasPosition {
			v.Position = br.v3()
		}
		if h.HasNormal {
			v.Normal = br.v3()
		}
		if h.HasTexCoord {
			v.TexCoord = br.v2()
		}
		if br.err != nil {
			return br.wrapErr("vertex", i, h.Vertices)
		}
		verts.Append(v)
	}
	var face [4]int
	for i := 0; i < h.Faces; i++ {
		n := int(br.u8())
		if br.err != nil {
			return br.wrapErr("face", i, h.Faces)
		}
		if n != 3 && n != 4 {
			return errors.Wrapf(ErrFaceSize, "face %d has %d indices", i, n)
		}
		for j := 0; j < n; j++ {
			face[j] = int(br.u32())
		}
		if br.err != nil {
			return br.wrapErr("face", i, h.Faces)
		}
		if err := d.emit(out, verts, face[:n], i); err != nil {
			return err
		}
	}
	return nil
}
