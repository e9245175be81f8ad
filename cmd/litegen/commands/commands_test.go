package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/litegen/cmd/litegen/output"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	output.Writer = &buf
	t.Cleanup(func() {
		output.Writer = os.Stdout
		configPath, verbose, workers = "litegen.yaml", false, 0
		target, modelsDir, snapshotPath, noForeignKey = "", "", "", false
	})
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

func project(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "..", "compiler", "load", "testdata", "blog.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "litegen.yaml")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func TestCheckCommand(t *testing.T) {
	path := project(t)
	out, err := run(t, "check", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Entities")
	assert.Contains(t, out, "User (table) User: 3 columns")
	assert.Contains(t, out, path+" is valid")
}

func TestCheckCommandErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "litegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
entities:
  - name: Post
    fields:
      - name: Author
        type: {kind: model, ident: User, nillable: true}
        reference: {entity: User}
      - name: Editor
        type: {kind: model, ident: Editor, nillable: true}
        reference: {entity: Editor}
`), 0o644))
	out, err := run(t, "check", "-c", path)
	require.Error(t, err)
	assert.Contains(t, out, `could not find referenced entity "User"`)
	assert.Contains(t, out, `could not find referenced entity "Editor"`)
}

func TestGenerateAndDiffCommands(t *testing.T) {
	path := project(t)
	dir := filepath.Dir(path)
	snap := filepath.Join(dir, "first.snapshot")

	out, err := run(t, "generate", "-c", path, "--snapshot", snap, "--no-foreign-keys")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 3 files")
	assert.Contains(t, out, "+ table User")
	assert.FileExists(t, filepath.Join(dir, "db", "post_adapter.go"))
	post, err := os.ReadFile(filepath.Join(dir, "db", "post_adapter.go"))
	require.NoError(t, err)
	assert.NotContains(t, string(post), "FOREIGN KEY")

	out, err = run(t, "snapshot", "diff", snap, snap)
	require.NoError(t, err)
	assert.Contains(t, out, "No schema changes")

	out, err = run(t, "snapshot", "diff", filepath.Join(dir, "missing.snapshot"), snap)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema changes")
	assert.Contains(t, out, "+ table Post")
}
