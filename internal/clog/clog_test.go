// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package clog

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(New(&buf, &Options{NoColor: true}))

	l.Info("model data", "vertices", 8, "faces", 6)
	l.Warn("cannot load model", "path", "some file.ply")
	l.Error("failed", "err", errors.New("boom"))
	l.Debug("not written")

	want := []string{
		"[INFO]: model data vertices=8 faces=6",
		`[WARN]: cannot load model path="some file.ply"`,
		"[ERROR]: failed err=boom",
	}
	have := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(have) != len(want) {
		t.Fatalf("Handler: line count\nhave %d (%q)\nwant %d", len(have), have, len(want))
	}
	for i := range want {
		if have[i] != want[i] {
			t.Fatalf("Handler: line %d\nhave %q\nwant %q", i, have[i], want[i])
		}
	}
}

func TestHandlerColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	l := slog.New(New(&buf, nil))
	l.Warn("x")
	if s := buf.String(); strings.Contains(s, "\x1b[") {
		t.Fatalf("Handler: NO_COLOR set\nhave %q\nwant no escapes", s)
	}
}

func TestHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(New(&buf, &Options{NoColor: true, Level: slog.LevelDebug}))
	l = l.With("pkg", "ply").WithGroup("mesh")
	l.Debug("loaded", "len", 36, slog.Group("off", "start", 0))
	want := "[DEBUG]: loaded pkg=ply mesh.len=36 mesh.off.start=0\n"
	if s := buf.String(); s != want {
		t.Fatalf("Handler.WithAttrs/WithGroup\nhave %q\nwant %q", s, want)
	}
}

func TestTag(t *testing.T) {
	for _, x := range [...]struct {
		level slog.Level
		name  string
		color string
	}{
		{slog.LevelError, "[ERROR]", red},
		{slog.LevelWarn, "[WARN]", yellow},
		{slog.LevelInfo, "[INFO]", blue},
		{slog.LevelDebug, "[DEBUG]", ""},
	} {
		if n, c := tag(x.level); n != x.name || c != x.color {
			t.Fatalf("tag(%v)\nhave %q %q\nwant %q %q", x.level, n, c, x.name, x.color)
		}
	}
}
