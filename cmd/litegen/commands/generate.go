package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/litegen/cmd/litegen/output"
	"github.com/syssam/litegen/compiler"
	"github.com/syssam/litegen/compiler/gen"
)

var (
	// Generate flags
	target       string
	modelsDir    string
	snapshotPath string
	noForeignKey bool
)

// generateCmd writes the adapters of a project
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the SQLite adapters of a project",
	Long: `Resolve the project file and write one adapter per model, the
database file and the helper types of unexported fields.

Nothing is written when the project has configuration errors.

Examples:
  litegen generate -c litegen.yaml
  litegen generate -c litegen.yaml --target ./db
  litegen generate -c litegen.yaml --snapshot ./db/schema.snapshot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&target, "target", "t", "", "Output directory (overrides the project)")
	generateCmd.Flags().StringVar(&modelsDir, "models-dir", "", "Directory of the model package for helper types")
	generateCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Store a schema snapshot at this path and report changes")
	generateCmd.Flags().BoolVar(&noForeignKey, "no-foreign-keys", false, "Omit FOREIGN KEY constraints")
}

func generateOptions() []gen.Option {
	opts := options()
	if target != "" {
		opts = append(opts, gen.WithTarget(target))
	}
	if modelsDir != "" {
		opts = append(opts, gen.WithModelsDir(modelsDir))
	}
	if snapshotPath != "" {
		opts = append(opts, gen.WithSnapshotPath(snapshotPath))
	}
	if noForeignKey {
		opts = append(opts, gen.WithForeignKeyConstraints(false))
	}
	return opts
}

func runGenerate(ctx context.Context) error {
	w, err := compiler.Generate(ctx, configPath, generateOptions()...)
	if err != nil {
		printErrors(err)
		return fmt.Errorf("generate %s: %w", configPath, err)
	}
	m := w.Metrics()
	output.Success("Generated %d files (%d bytes)", m.FilesGenerated, m.TotalBytes)
	if d := w.Diff(); d != nil && !d.Empty() {
		output.Section("Schema changes")
		output.Diff(d.String())
	}
	return nil
}

// printErrors prints each configuration error joined into err.
func printErrors(err error) {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		output.Error("%v", err)
		return
	}
	for _, e := range joined.Unwrap() {
		printErrors(e)
	}
}
