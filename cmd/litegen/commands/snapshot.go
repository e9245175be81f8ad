package commands

import (
	"github.com/spf13/cobra"

	"github.com/syssam/litegen/cmd/litegen/output"
	"github.com/syssam/litegen/compiler/gen"
)

// snapshotCmd groups the snapshot commands
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect schema snapshots",
}

// snapshotDiffCmd compares two snapshots
var snapshotDiffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Show the table changes between two snapshots",
	Long: `Compare two snapshots written by "litegen generate --snapshot" and print
the tables and columns that were added, removed or changed.

Examples:
  litegen snapshot diff old.snapshot db/schema.snapshot`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSnapshotDiff(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotDiffCmd)
}

func runSnapshotDiff(oldPath, newPath string) error {
	old, err := gen.ReadSnapshot(oldPath)
	if err != nil {
		return err
	}
	cur, err := gen.ReadSnapshot(newPath)
	if err != nil {
		return err
	}
	d := gen.DiffSnapshots(old, cur)
	if d.Empty() {
		output.Success("No schema changes between %s and %s", oldPath, newPath)
		return nil
	}
	output.Section("Schema changes")
	output.Diff(d.String())
	return nil
}
