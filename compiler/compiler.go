// Package compiler is the entry point of litegen: it loads a project file,
// resolves it into a graph and writes the SQLite adapters.
package compiler

import (
	"context"
	"path/filepath"

	"github.com/syssam/litegen/compiler/gen"
	"github.com/syssam/litegen/compiler/gen/sqlite"
	"github.com/syssam/litegen/compiler/load"
)

// LoadGraph loads the project file at path and resolves it. The settings of
// the project are applied before opts, so options given by the caller win.
// Relative directories of the project are relative to the project file.
//
// Configuration errors of the project do not fail LoadGraph; they are
// returned by the Err method of the graph.
func LoadGraph(path string, opts ...gen.Option) (*gen.Graph, error) {
	p, err := load.LoadProject(path)
	if err != nil {
		return nil, err
	}
	cfg, err := gen.NewConfig(projectOptions(p, filepath.Dir(path))...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}
	return gen.NewGraph(cfg, p)
}

// Check resolves the project file at path without writing anything. The
// graph is returned with its configuration errors joined.
func Check(path string, opts ...gen.Option) (*gen.Graph, error) {
	g, err := LoadGraph(path, opts...)
	if err != nil {
		return nil, err
	}
	return g, g.Err()
}

// Generate resolves the project file at path and writes its adapters.
// Nothing is written when the project has configuration errors.
func Generate(ctx context.Context, path string, opts ...gen.Option) (*gen.JenniferGenerator, error) {
	g, err := Check(path, opts...)
	if err != nil {
		return nil, err
	}
	w := gen.NewJenniferGenerator(g, sqlite.NewDialect(g))
	if err := w.Generate(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func projectOptions(p *load.Project, dir string) []gen.Option {
	var opts []gen.Option
	if p.Package != "" {
		opts = append(opts, gen.WithPackage(p.Package))
	}
	if p.Target != "" {
		opts = append(opts, gen.WithTarget(resolve(dir, p.Target)))
	}
	if p.Runtime != "" {
		opts = append(opts, gen.WithRuntimePackage(p.Runtime))
	}
	if p.ModelsDir != "" {
		opts = append(opts, gen.WithModelsDir(resolve(dir, p.ModelsDir)))
	}
	if p.HelperSeparator != nil {
		opts = append(opts, gen.WithHelperSeparator(*p.HelperSeparator))
	}
	return opts
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
