// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package manifest parses the line-oriented files that
// list meshes to be joined.
//
// Each non-blank line that does not start with '#' names
// one mesh, optionally followed by keywords that set its
// transform and texture ID:
//
//	<path> [scale x y z] [translate x y z] [rotate deg ax ay az] [texture n]
//
// Lines are split using shell quoting rules, so paths
// containing spaces can be quoted. Each keyword may
// appear at most once per line.
package manifest

import (
	"bufio"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"

	"github.com/gviegas/plymesh/join"
	"github.com/gviegas/plymesh/linear"
	"github.com/gviegas/plymesh/transform"
)

const prefix = "manifest: "

// ErrSyntax is the error that Parse wraps when a line is
// malformed.
var ErrSyntax = errors.New(prefix + "syntax error")

// Entry is a manifest line.
type Entry struct {
	Path      string
	Scale     linear.V3
	Translate linear.V3
	Rotate    linear.Q
	// Texture is the texture ID (join.NoTexture if
	// the line has no texture keyword).
	Texture int
	// Line is the 1-based line number.
	Line int
}

// NewEntry returns an entry for path with an identity
// transform and no texture.
func NewEntry(path string) Entry {
	e := Entry{Path: path, Scale: linear.V3{1, 1, 1}, Texture: join.NoTexture}
	e.Rotate.I()
	return e
}

// Apply sets x's components to e's.
func (e *Entry) Apply(x *transform.Transform) {
	x.SetScale(e.Scale[0], e.Scale[1], e.Scale[2])
	x.SetRotation(e.Rotate)
	x.SetTranslation(e.Translate[0], e.Translate[1], e.Translate[2])
}

// Parse reads a manifest from r.
func Parse(r io.Reader) ([]Entry, error) {
	var es []Entry
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fs, err := shlex.Split(line)
		if err != nil {
			return nil, errors.Wrapf(ErrSyntax, "line %d: %v", n, err)
		}
		if len(fs) == 0 {
			continue
		}
		e, reason := parseEntry(fs)
		if reason != "" {
			return nil, errors.Wrapf(ErrSyntax, "line %d: %s", n, reason)
		}
		e.Line = n
		es = append(es, e)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, prefix+"reading")
	}
	return es, nil
}

// Load reads the manifest file at path.
// Relative mesh paths are resolved against the directory
// that contains the manifest.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, prefix+"open")
	}
	defer f.Close()
	es, err := Parse(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	dir := filepath.Dir(path)
	for i := range es {
		if !filepath.IsAbs(es[i].Path) {
			es[i].Path = filepath.Join(dir, es[i].Path)
		}
	}
	return es, nil
}

// parseEntry parses the fields of one line.
// It returns a non-empty reason on failure.
func parseEntry(fs []string) (e Entry, reason string) {
	e = NewEntry(fs[0])
	seen := make(map[string]bool)
	for i := 1; i < len(fs); {
		kw := fs[i]
		if seen[kw] {
			return e, "duplicate keyword " + strconv.Quote(kw)
		}
		seen[kw] = true
		var n int
		switch kw {
		case "scale", "translate":
			n = 3
		case "rotate":
			n = 4
		case "texture":
			n = 1
		default:
			return e, "unknown keyword " + strconv.Quote(kw)
		}
		if i+n >= len(fs) {
			return e, kw + " needs " + strconv.Itoa(n) + " arguments"
		}
		args := fs[i+1 : i+1+n]
		i += n + 1

		if kw == "texture" {
			id, err := strconv.Atoi(args[0])
			if err != nil || id != join.NoTexture && (id < 0 || id >= join.MaxLayer) {
				return e, "invalid texture ID " + strconv.Quote(args[0])
			}
			e.Texture = id
			continue
		}
		var v [4]float32
		for j, a := range args {
			f, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return e, "invalid number " + strconv.Quote(a)
			}
			v[j] = float32(f)
		}
		switch kw {
		case "scale":
			e.Scale = linear.V3{v[0], v[1], v[2]}
		case "translate":
			e.Translate = linear.V3{v[0], v[1], v[2]}
		case "rotate":
			axis := linear.V3{v[1], v[2], v[3]}
			if axis == (linear.V3{}) {
				return e, "zero rotation axis"
			}
			axis.Norm(&axis)
			e.Rotate.Rotate(v[0]*math.Pi/180, &axis)
		}
	}
	return e, ""
}
