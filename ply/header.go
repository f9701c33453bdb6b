// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package ply

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Format is the encoding of a PLY body.
type Format int

// Formats.
const (
	ASCII Format = iota
	BinaryLittleEndian
	BinaryBigEndian
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case ASCII:
		return "ascii"
	case BinaryLittleEndian:
		return "binary_little_endian"
	case BinaryBigEndian:
		return "binary_big_endian"
	default:
		return "!ply.Format"
	}
}

// Header describes the contents of a PLY file.
// Only the markers that the decoder understands are
// recorded; other header lines are skipped.
type Header struct {
	Format   Format
	Vertices int
	Faces    int
	// Vertex properties, always read in this order:
	// x y z, nx ny nz, s t.
	HasPosition bool
	HasNormal   bool
	HasTexCoord bool
	// Markers that were absent from the header.
	// A missing element is read as a count of zero.
	MissingVertex bool
	MissingFace   bool
	MissingFormat bool
	Comments      []string
}

// Upper bound on header size.
const maxHeader = 1 << 16

// IsPLY returns whether b starts with the PLY magic.
func IsPLY(b []byte) bool { return len(b) >= 3 && b[0] == 'p' && b[1] == 'l' && b[2] == 'y' }

// ReadHeader reads a PLY header from r.
// If r is a *bufio.Reader, it is left positioned at the
// first byte of the body.
func ReadHeader(r io.Reader) (*Header, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	if b, _ := br.Peek(3); !IsPLY(b) {
		return nil, ErrNotPLY
	}
	return readHeader(br)
}

var errLong = errors.New(prefix + "line too long")

// readLine reads up to and including the next newline.
// It fails with errLong as soon as more than limit bytes
// have been read, so a line never buffers much more than
// limit bytes.
func readLine(br *bufio.Reader, limit int) (string, error) {
	var line []byte
	for {
		b, err := br.ReadSlice('\n')
		if len(line)+len(b) > limit {
			return "", errLong
		}
		line = append(line, b...)
		if err != bufio.ErrBufferFull {
			return string(line), err
		}
	}
}

// readHeader parses the header lines up to and including
// end_header. The magic must have been checked already.
func readHeader(br *bufio.Reader) (*Header, error) {
	h := &Header{
		MissingVertex: true,
		MissingFace:   true,
		MissingFormat: true,
		Format:        BinaryLittleEndian,
	}
	var n int
	for {
		line, err := readLine(br, maxHeader-n)
		n += len(line)
		if err != nil {
			if err == errLong {
				return nil, errors.Wrapf(ErrHeader, "longer than %d bytes", maxHeader)
			}
			if err == io.EOF {
				return nil, ErrNoHeader
			}
			return nil, errors.Wrap(err, prefix+"reading header")
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}
		fs := strings.Fields(line)
		if len(fs) == 0 {
			continue
		}
		switch fs[0] {
		case "format":
			h.MissingFormat = false
			switch {
			case line == "format ascii 1.0":
				h.Format = ASCII
			case len(fs) > 1 && fs[1] == "binary_big_endian":
				h.Format = BinaryBigEndian
			default:
				h.Format = BinaryLittleEndian
			}
		case "comment", "obj_info":
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, fs[0])))
		case "element":
			if len(fs) < 3 {
				continue
			}
			cnt := atoi(number(fs[2]))
			if cnt < 0 {
				return nil, errors.Wrapf(ErrHeader, "negative %s count", fs[1])
			}
			switch fs[1] {
			case "vertex":
				h.Vertices = cnt
				h.MissingVertex = false
			case "face":
				h.Faces = cnt
				h.MissingFace = false
			}
		case "property":
			switch line {
			case "property float x":
				h.HasPosition = true
			case "property float nx":
				h.HasNormal = true
			case "property float s":
				h.HasTexCoord = true
			}
		}
	}
	return h, nil
}
