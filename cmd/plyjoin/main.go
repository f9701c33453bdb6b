// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Plyjoin loads PLY models, joins them into a single mesh
// and optionally exports the result as glTF.
//
// Usage:
//
//	plyjoin [flags] file.ply...
//	plyjoin [flags] -m manifest
//
// Files that are not PLY models are skipped with a
// warning. Any other failure exits with status 1.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gviegas/plymesh/export"
	"github.com/gviegas/plymesh/internal/clog"
	"github.com/gviegas/plymesh/join"
	"github.com/gviegas/plymesh/manifest"
	"github.com/gviegas/plymesh/mesh"
	"github.com/gviegas/plymesh/ply"
)

type config struct {
	manifest string
	out      string
	split    ply.QuadSplit
	normals  bool
	verbose  bool
	jobs     int
	files    []string
}

func parseFlags(args []string, output io.Writer) (*config, error) {
	var (
		cfg   config
		split string
		fs    = flag.NewFlagSet("plyjoin", flag.ContinueOnError)
	)
	fs.SetOutput(output)
	fs.StringVar(&cfg.manifest, "m", "", "Manifest listing the meshes to join.")
	fs.StringVar(&cfg.out, "o", "", "Output file (.glb or .gltf).")
	fs.StringVar(&split, "split", "legacy", "Quad split: legacy|standard.")
	fs.BoolVar(&cfg.normals, "normals", false, "Transform normals by the inverse-transpose.")
	fs.BoolVar(&cfg.verbose, "v", false, "Log debug messages.")
	fs.IntVar(&cfg.jobs, "j", runtime.NumCPU(), "Maximum number of parallel loads.")
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: plyjoin [flags] file.ply...\n       plyjoin [flags] -m manifest\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch split {
	case "legacy":
		cfg.split = ply.SplitLegacy
	case "standard":
		cfg.split = ply.SplitStandard
	default:
		return nil, errors.Errorf("invalid -split value %q", split)
	}
	if cfg.jobs < 1 {
		cfg.jobs = 1
	}
	cfg.files = fs.Args()
	if (cfg.manifest == "") == (len(cfg.files) == 0) {
		return nil, errors.New("either -m or a list of files is required")
	}
	return &cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	switch {
	case err == flag.ErrHelp:
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "plyjoin: %v\n", err)
		os.Exit(2)
	}
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	clog.SetDefault(level)

	if _, err := run(context.Background(), cfg, slog.Default()); err != nil {
		slog.Error("plyjoin failed", "err", err)
		os.Exit(1)
	}
}

// entries returns the meshes that cfg names.
func entries(cfg *config) ([]manifest.Entry, error) {
	if cfg.manifest != "" {
		return manifest.Load(cfg.manifest)
	}
	es := make([]manifest.Entry, len(cfg.files))
	for i, f := range cfg.files {
		es[i] = manifest.NewEntry(f)
	}
	return es, nil
}

// load decodes every entry's file, at most cfg.jobs at a
// time. Files that are not PLY models yield nil meshes.
func load(ctx context.Context, cfg *config, log *slog.Logger, es []manifest.Entry) ([]*mesh.Mesh, error) {
	d := ply.Decoder{Split: cfg.split, Logger: log}
	ms := make([]*mesh.Mesh, len(es))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.jobs)
	for i := range es {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var m mesh.Mesh
			switch err := d.Load(es[i].Path, &m); {
			case errors.Is(err, ply.ErrNotPLY):
				return nil
			case err != nil:
				return errors.WithMessage(err, es[i].Path)
			}
			ms[i] = &m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return ms, nil
}

// run loads, joins and optionally exports the meshes that
// cfg names.
func run(ctx context.Context, cfg *config, log *slog.Logger) (*join.Group, error) {
	es, err := entries(cfg)
	if err != nil {
		return nil, err
	}
	ms, err := load(ctx, cfg, log, es)
	if err != nil {
		return nil, err
	}

	g := &join.Group{TransformNormals: cfg.normals, Logger: log}
	var paths []string
	for i, m := range ms {
		if m == nil {
			continue
		}
		k := g.AddMesh(m)
		es[i].Apply(g.Transform(k))
		if err := g.SetTextureID(k, es[i].Texture); err != nil {
			return nil, errors.WithMessage(err, es[i].Path)
		}
		paths = append(paths, es[i].Path)
	}
	g.Sync()

	for k := 0; k < g.Len(); k++ {
		start, end := g.Range(k)
		log.Info("sub-mesh", "index", k, "path", paths[k], "start", start, "end", end, "texture", g.TextureID(k))
	}
	log.Info("joined", "meshes", g.Len(), "skipped", len(es)-g.Len(), "vertices", g.Joined().Len())

	if cfg.out != "" {
		if err := export.Save(g, cfg.out); err != nil {
			return nil, err
		}
		log.Info("exported", "path", cfg.out)
	}
	return g, nil
}
