package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// JenniferGenerator writes the files emitted by a dialect in parallel.
// Every file is rendered into memory and formatted with goimports before
// it is written, so a file that fails to format never replaces a good one.
type JenniferGenerator struct {
	graph   *Graph
	dialect Dialect

	mu      sync.Mutex
	metrics Metrics
	diff    *SnapshotDiff
}

// Metrics counts the output of a generation run.
type Metrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewJenniferGenerator returns a generator writing the files of d for g.
func NewJenniferGenerator(g *Graph, d Dialect) *JenniferGenerator {
	return &JenniferGenerator{graph: g, dialect: d}
}

// Metrics returns the metrics of the last run.
func (g *JenniferGenerator) Metrics() Metrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.metrics
}

// Diff returns the schema changes since the previous snapshot, or nil when
// FeatureSnapshot is disabled.
func (g *JenniferGenerator) Diff() *SnapshotDiff {
	return g.diff
}

// Generate writes the adapter of every entity, the database file and the
// helper types. Nothing is written when the graph has configuration errors.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	cfg := g.graph.Config
	switch {
	case g.dialect == nil:
		return NewConfigError("Dialect", nil, "no dialect set")
	case cfg.Target == "":
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	if err := g.graph.Err(); err != nil {
		return NewGenerationError("resolve", "", "graph has errors", err)
	}
	if err := os.MkdirAll(cfg.Target, 0o755); err != nil {
		return NewGenerationError("write", cfg.Target, "create output directory", err)
	}
	var helpers []*HelperType
	if cfg.HasFeature(FeatureHelpers) {
		helpers = g.graph.Helpers.Helpers()
	}
	dirs := make([]string, len(helpers))
	for i, h := range helpers {
		dir, err := g.helperDir(h)
		if err != nil {
			return err
		}
		dirs[i] = dir
	}
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(cfg.WorkerCount())
	for _, e := range g.graph.Adapters() {
		errg.Go(func() error {
			return g.writeFile(ctx, g.dialect.GenAdapter(e), cfg.Target, strings.ToLower(e.Name)+"_adapter.go")
		})
	}
	if cfg.HasFeature(FeatureMigrations) {
		errg.Go(func() error {
			return g.writeFile(ctx, g.dialect.GenDatabase(), cfg.Target, "database.go")
		})
	}
	for i, h := range helpers {
		errg.Go(func() error {
			return g.writeFile(ctx, g.dialect.GenHelper(h), dirs[i], strings.ToLower(h.Entity)+"_helper.go")
		})
	}
	if err := errg.Wait(); err != nil {
		return err
	}
	if cfg.HasFeature(FeatureSnapshot) {
		if err := g.snapshot(); err != nil {
			return err
		}
	}
	for _, f := range AllFeatures {
		if cfg.HasFeature(f) {
			continue
		}
		if err := f.Cleanup(cfg); err != nil {
			return NewGenerationError("cleanup", f.Name, "remove feature output", err)
		}
	}
	m := g.Metrics()
	cfg.Log().Info("litegen: generated",
		"dialect", g.dialect.Name(), "files", m.FilesGenerated, "bytes", m.TotalBytes)
	return nil
}

// helperDir returns the directory of the model package of h.
func (g *JenniferGenerator) helperDir(h *HelperType) (string, error) {
	cfg := g.graph.Config
	switch {
	case cfg.ModelsDir != "":
		return cfg.ModelsDir, nil
	case h.PkgPath == cfg.Package:
		return cfg.Target, nil
	default:
		return "", NewConfigError("ModelsDir", h.PkgPath, fmt.Sprintf("helper %s needs the directory of its model package", h.Name))
	}
}

// snapshot compares the graph with the stored snapshot and replaces it.
func (g *JenniferGenerator) snapshot() error {
	path := g.graph.SnapshotPath()
	old, err := ReadSnapshot(path)
	if err != nil {
		return err
	}
	cur := g.graph.Snapshot()
	g.diff = DiffSnapshots(old, cur)
	if !g.diff.Empty() {
		g.graph.Log().Info("litegen: schema changed",
			"added", len(g.diff.Added), "removed", len(g.diff.Removed), "changed", len(g.diff.Changed))
	}
	return WriteSnapshot(path, cur)
}

// writeFile renders f, formats it and writes it to dir/name.
func (g *JenniferGenerator) writeFile(ctx context.Context, f *jen.File, dir, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", name, "render file", err)
	}
	path := filepath.Join(dir, name)
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		// Keep the unformatted output for debugging.
		debug := path + ".error"
		_ = os.MkdirAll(dir, 0o755)
		_ = os.WriteFile(debug, buf.Bytes(), 0o644)
		return NewGenerationError("format", name, "unformatted output written to "+debug, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewGenerationError("write", dir, "create directory", err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return NewGenerationError("write", name, "write file", err)
	}
	g.mu.Lock()
	g.metrics.FilesGenerated++
	g.metrics.TotalBytes += int64(len(formatted))
	g.mu.Unlock()
	g.graph.Log().Debug("litegen: file written", "path", path, "bytes", len(formatted))
	return nil
}

// NewFile returns a file of the generated package with the configured
// header.
func (g *Graph) NewFile() *jen.File {
	f := jen.NewFilePathName(g.Package, g.PackageName())
	f.HeaderComment(g.HeaderComment())
	return f
}

// Generate writes the files of the resolved graph g with the dialect
// returned by newDialect.
func Generate(ctx context.Context, g *Graph, newDialect DialectFactory) error {
	return NewJenniferGenerator(g, newDialect(g)).Generate(ctx)
}
