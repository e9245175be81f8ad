package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/litegen/cmd/litegen/output"
	"github.com/syssam/litegen/compiler"
)

// checkCmd resolves a project without writing anything
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Resolve a project and print its configuration errors",
	Long: `Resolve every model and relationship of the project file and print the
configuration errors found. Nothing is written.

Examples:
  litegen check -c litegen.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck() error {
	g, err := compiler.Check(configPath, options()...)
	if err != nil {
		printErrors(err)
		return fmt.Errorf("check %s: %w", configPath, err)
	}
	output.Section("Entities")
	for _, e := range g.Entities {
		output.Info("%s (%s) %s: %d columns", e.Name, e.Kind, e.Table, len(e.PhysicalColumns()))
	}
	output.Success("%s is valid", configPath)
	return nil
}
