// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package manifest

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/gviegas/plymesh/join"
	"github.com/gviegas/plymesh/linear"
	"github.com/gviegas/plymesh/transform"
)

const scene = `# scene
cube.ply
"my model.ply" scale 2 2 2 translate 1 0 -1 texture 3

/abs/thing.ply rotate 90 0 1 0 # trailing comment
`

func TestParse(t *testing.T) {
	es, err := Parse(strings.NewReader(scene))
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if len(es) != 3 {
		t.Fatalf("Parse: len\nhave %d\nwant 3", len(es))
	}

	var qi linear.Q
	qi.I()
	e := es[0]
	if e.Path != "cube.ply" || e.Line != 2 || e.Scale != (linear.V3{1, 1, 1}) ||
		e.Translate != (linear.V3{}) || e.Rotate != qi || e.Texture != join.NoTexture {
		t.Fatalf("Parse: entry 0\nhave %+v\nwant defaults", e)
	}

	e = es[1]
	if e.Path != "my model.ply" || e.Line != 3 {
		t.Fatalf("Parse: entry 1\nhave %q (line %d)\nwant \"my model.ply\" (line 3)", e.Path, e.Line)
	}
	if e.Scale != (linear.V3{2, 2, 2}) || e.Translate != (linear.V3{1, 0, -1}) || e.Texture != 3 {
		t.Fatalf("Parse: entry 1\nhave %+v\nwant scale 2, translate [1 0 -1], texture 3", e)
	}

	e = es[2]
	var q linear.Q
	q.Rotate(float32(90)*math.Pi/180, &linear.V3{0, 1, 0})
	if e.Path != "/abs/thing.ply" || e.Line != 5 || e.Rotate != q {
		t.Fatalf("Parse: entry 2\nhave %+v\nwant rotation %v", e, q)
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range [...]string{
		"a.ply scale 1 2",
		"a.ply bogus",
		"a.ply scale 1 1 1 scale 2 2 2",
		"a.ply texture 40",
		"a.ply texture -1",
		"a.ply texture x",
		"a.ply rotate 10 0 0 0",
		"a.ply translate x 0 0",
		`"a.ply`,
	} {
		_, err := Parse(strings.NewReader("# header\n" + s + "\n"))
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("Parse(%q): error\nhave %v\nwant %v", s, err, ErrSyntax)
		}
		if !strings.Contains(err.Error(), "line 2") {
			t.Fatalf("Parse(%q): error\nhave %q\nwant line 2", s, err)
		}
	}
	es, err := Parse(strings.NewReader("a.ply texture 33\nb.ply texture 0\n"))
	if err != nil || es[0].Texture != join.NoTexture || es[1].Texture != 0 {
		t.Fatalf("Parse (texture bounds)\nhave %v, %v\nwant 33 and 0", es, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.txt")
	if err := os.WriteFile(path, []byte(scene), 0o644); err != nil {
		t.Fatal(err)
	}
	es, err := Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	for i, want := range [...]string{
		filepath.Join(dir, "cube.ply"),
		filepath.Join(dir, "my model.ply"),
		"/abs/thing.ply",
	} {
		if es[i].Path != want {
			t.Fatalf("Load: Path[%d]\nhave %q\nwant %q", i, es[i].Path, want)
		}
	}
	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("Load (missing file): expected error")
	}
}

func TestApply(t *testing.T) {
	es, err := Parse(strings.NewReader("x.ply translate 1 0 -1 scale 2 2 2\n"))
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	x := transform.New()
	es[0].Apply(x)
	if !x.Changed() {
		t.Fatal("Entry.Apply: Changed\nhave false\nwant true")
	}
	if p := x.Point(linear.V3{1, 1, 1}); p != (linear.V3{3, 2, 1}) {
		t.Fatalf("Entry.Apply: Point\nhave %v\nwant [3 2 1]", p)
	}
}
