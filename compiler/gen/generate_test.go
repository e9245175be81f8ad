package gen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDialect writes one declaration per file.
type stubDialect struct{ g *Graph }

func newStubDialect(g *Graph) Dialect { return &stubDialect{g: g} }

func (d *stubDialect) Name() string { return "stub" }

func (d *stubDialect) GenAdapter(e *Entity) *jen.File {
	f := d.g.NewFile()
	f.Const().Id(e.TableVar() + "Name").Op("=").Lit(e.Table)
	return f
}

func (d *stubDialect) GenDatabase() *jen.File {
	f := d.g.NewFile()
	f.Const().Id("TableCount").Op("=").Lit(len(d.g.Tables()))
	return f
}

func (d *stubDialect) GenHelper(h *HelperType) *jen.File {
	f := jen.NewFilePath(h.PkgPath)
	f.Type().Id(h.Name).Struct()
	return f
}

// brokenDialect emits a file that does not parse.
type brokenDialect struct{ stubDialect }

func (d *brokenDialect) GenAdapter(e *Entity) *jen.File {
	f := d.g.NewFile()
	f.Op("func {")
	return f
}

func generateConfig(t *testing.T, opts ...Option) (string, []Option) {
	t.Helper()
	dir := t.TempDir()
	base := []Option{
		WithTarget(filepath.Join(dir, "db")),
		WithPackage("example.com/app/db"),
		WithModelsDir(filepath.Join(dir, "models")),
		WithWorkers(2),
	}
	return dir, append(base, opts...)
}

func TestGenerate(t *testing.T) {
	dir, opts := generateConfig(t, WithSnapshot(true))
	g := newValidGraph(t, blogProject, opts...)

	gen := NewJenniferGenerator(g, newStubDialect(g))
	require.NoError(t, gen.Generate(context.Background()))

	for _, name := range []string{"user_adapter.go", "post_adapter.go", "comment_adapter.go", "database.go", SnapshotFile} {
		assert.FileExists(t, filepath.Join(dir, "db", name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "db", "address_adapter.go"))
	assert.FileExists(t, filepath.Join(dir, "models", "user_helper.go"))

	b, err := os.ReadFile(filepath.Join(dir, "db", "user_adapter.go"))
	require.NoError(t, err)
	src := string(b)
	assert.True(t, strings.HasPrefix(src, "// "+DefaultHeader), src)
	assert.Contains(t, src, "package db")
	assert.Contains(t, src, `const UserTableName = "users"`)

	b, err = os.ReadFile(filepath.Join(dir, "db", "database.go"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "const TableCount = 3")

	m := gen.Metrics()
	assert.Equal(t, 5, m.FilesGenerated)
	assert.Positive(t, m.TotalBytes)
	require.NotNil(t, gen.Diff())
	assert.Equal(t, []string{"users", "posts", "comments"}, gen.Diff().Added)

	t.Run("second run has no schema changes", func(t *testing.T) {
		again := NewJenniferGenerator(g, newStubDialect(g))
		require.NoError(t, again.Generate(context.Background()))
		assert.True(t, again.Diff().Empty())
	})

	t.Run("disabled features remove their output", func(t *testing.T) {
		g := newValidGraph(t, blogProject, append(opts, WithoutFeatures(FeatureMigrations, FeatureSnapshot, FeatureHelpers))...)
		gen := NewJenniferGenerator(g, newStubDialect(g))
		require.NoError(t, gen.Generate(context.Background()))
		assert.NoFileExists(t, filepath.Join(dir, "db", "database.go"))
		assert.NoFileExists(t, filepath.Join(dir, "db", SnapshotFile))
		assert.FileExists(t, filepath.Join(dir, "db", "user_adapter.go"))
		assert.Nil(t, gen.Diff())
		assert.Equal(t, 3, gen.Metrics().FilesGenerated)
	})
}

func TestGenerateHelpersInGeneratedPackage(t *testing.T) {
	dir := t.TempDir()
	src := strings.ReplaceAll(blogProject, "package: example.com/app/models\n", "package: example.com/app/db\n")
	g := newValidGraph(t, src, WithTarget(dir), WithPackage("example.com/app/db"))
	require.NoError(t, Generate(context.Background(), g, newStubDialect))
	assert.FileExists(t, filepath.Join(dir, "user_helper.go"))
}

func TestGenerateErrors(t *testing.T) {
	t.Run("no dialect", func(t *testing.T) {
		_, opts := generateConfig(t)
		g := newValidGraph(t, blogProject, opts...)
		err := NewJenniferGenerator(g, nil).Generate(context.Background())
		assert.True(t, IsConfigError(err))
	})

	t.Run("no target", func(t *testing.T) {
		g := newValidGraph(t, blogProject)
		err := NewJenniferGenerator(g, newStubDialect(g)).Generate(context.Background())
		assert.True(t, IsConfigError(err))
	})

	t.Run("helpers need the models directory", func(t *testing.T) {
		dir := t.TempDir()
		g := newValidGraph(t, blogProject, WithTarget(dir), WithPackage("example.com/app/db"))
		err := NewJenniferGenerator(g, newStubDialect(g)).Generate(context.Background())
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), "UserHelper")
		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("graph errors stop generation", func(t *testing.T) {
		dir, opts := generateConfig(t)
		g := newTestGraph(t, blogProject+`
  - name: Broken
    table: broken
    fields:
      - name: Owner
        column: owner
        type: {kind: model, ident: Missing, nillable: true}
        reference: {entity: Missing}
`, opts...)
		require.Error(t, g.Err())
		err := NewJenniferGenerator(g, newStubDialect(g)).Generate(context.Background())
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.NoDirExists(t, filepath.Join(dir, "db"))
	})

	t.Run("invalid output is not written", func(t *testing.T) {
		dir, opts := generateConfig(t, WithoutFeatures(FeatureHelpers, FeatureMigrations))
		g := newValidGraph(t, blogProject, opts...)
		d := &brokenDialect{stubDialect{g: g}}
		err := NewJenniferGenerator(g, d).Generate(context.Background())
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.NoFileExists(t, filepath.Join(dir, "db", "user_adapter.go"))
	})

	t.Run("canceled context", func(t *testing.T) {
		_, opts := generateConfig(t)
		g := newValidGraph(t, blogProject, opts...)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewJenniferGenerator(g, newStubDialect(g)).Generate(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
