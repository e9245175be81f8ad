package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/litegen/compiler/gen"
)

var (
	// Global flags
	configPath string
	verbose    bool
	workers    int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "litegen",
	Short: "litegen - SQLite adapter generator for Go models",
	Long: `litegen generates SQLite adapters for annotated Go models.

A project file lists the models, their fields and relationships. For every
model litegen writes an adapter holding the creation, insert, update and
delete queries, and the code binding models to statements and reading them
back from cursors.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "litegen.yaml", "Project file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Files written in parallel (default GOMAXPROCS)")
}

// logger returns the logger of the generator for the verbosity flag.
func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// options returns the generator options shared by all commands.
func options() []gen.Option {
	opts := []gen.Option{gen.WithLogger(logger())}
	if workers > 0 {
		opts = append(opts, gen.WithWorkers(workers))
	}
	return opts
}
