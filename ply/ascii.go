// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package ply

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/gviegas/plymesh/linear"
	"github.com/gviegas/plymesh/mesh"
)

// Upper bound on the length of a body line.
const maxLine = 1 << 20

// number keeps only the characters of tok that can be
// part of a number: digits, '.' and '-'.
// Anything else is silently dropped.
func number(tok string) string {
	for i := 0; i < len(tok); i++ {
		if !isNumeric(tok[i]) {
			goto filter
		}
	}
	return tok
filter:
	b := make([]byte, 0, len(tok))
	for i := 0; i < len(tok); i++ {
		if isNumeric(tok[i]) {
			b = append(b, tok[i])
		}
	}
	return string(b)
}

func isNumeric(c byte) bool { return c >= '0' && c <= '9' || c == '.' || c == '-' }

// prefixLen returns the length of the longest prefix of s
// of the form -?[0-9]*(\.[0-9]*)?.
func prefixLen(s string, frac bool) (i int) {
	if i < len(s) && s[i] == '-' {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if frac && i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return
}

// atof parses the longest numeric prefix of s.
// It returns 0 when there is none.
func atof(s string) float32 {
	f, err := strconv.ParseFloat(s[:prefixLen(s, true)], 32)
	if err != nil {
		return 0
	}
	return float32(f)
}

// atoi parses the longest integer prefix of s.
// It returns 0 when there is none.
func atoi(s string) int {
	i, err := strconv.Atoi(s[:prefixLen(s, false)])
	if err != nil {
		return 0
	}
	return i
}

// tokens yields the numeric tokens of a body line.
// Missing tokens read as empty strings.
type tokens struct {
	fs [][]byte
}

func (t *tokens) next() string {
	if len(t.fs) == 0 {
		return ""
	}
	s := number(string(t.fs[0]))
	t.fs = t.fs[1:]
	return s
}

func (t *tokens) float() float32 { return atof(t.next()) }

func (t *tokens) int() int { return atoi(t.next()) }

// decodeASCII reads the body of an ASCII PLY file.
func (d *Decoder) decodeASCII(r io.Reader, h *Header, out *mesh.Mesh) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	verts := newTable(h.Vertices)
	var nf int
	var face [4]int
	for nf < h.Faces || verts.Len() < h.Vertices {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return errors.Wrap(err, prefix+"reading body")
			}
			return errors.Wrapf(ErrShort, "read %d/%d vertices, %d/%d faces",
				verts.Len(), h.Vertices, nf, h.Faces)
		}
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		t := tokens{bytes.Fields(line)}

		if verts.Len() < h.Vertices {
			var v mesh.Vertex
			if h.HasPosition {
				v.Position = linear.V3{t.float(), t.float(), t.float()}
			}
			if h.HasNormal {
				v.Normal = linear.V3{t.float(), t.float(), t.float()}
			}
			if h.HasTexCoord {
				v.TexCoord = linear.V2{t.float(), t.float()}
			}
			verts.Append(v)
			continue
		}

		n := t.int()
		if n != 3 && n != 4 {
			return errors.Wrapf(ErrFaceSize, "face %d has %d indices", nf, n)
		}
		for i := 0; i < n; i++ {
			face[i] = t.int()
		}
		if err := d.emit(out, verts, face[:n], nf); err != nil {
			return err
		}
		nf++
	}
	return nil
}
