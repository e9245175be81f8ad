package gen

import (
	"log/slog"
	"path"
	"path/filepath"
	"runtime"
	"slices"
)

// DefaultRuntime is the import path of the package the generated code runs on.
const DefaultRuntime = "github.com/syssam/litegen/runtime"

// DefaultHeader is the comment written at the top of every generated file.
const DefaultHeader = "Code generated by litegen. DO NOT EDIT."

// Config holds the configuration of one generation run.
type Config struct {
	// Target is the directory the adapters are written to.
	Target string
	// Package is the import path of the generated package.
	Package string
	// Header is the comment at the top of each generated file.
	Header string
	// Runtime is the import path of the runtime package.
	Runtime string
	// ModelsDir is the directory of the model package. Helper types for
	// package-visible fields are written there.
	ModelsDir string
	// HelperSeparator is placed between the entity name and "Helper" in the
	// names of helper types.
	HelperSeparator string
	// Snapshot is the path of the resolution snapshot. It defaults to
	// SnapshotFile in Target.
	Snapshot string
	// Workers limits the files written in parallel.
	Workers int
	// Features enabled in addition to the default ones.
	Features []Feature
	// Disabled lists the names of default features that are turned off.
	Disabled []string
	// Logger receives progress and diagnostics.
	Logger *slog.Logger
}

// OutputConfig groups the settings that control where and how files are written.
type OutputConfig struct {
	Target  string
	Package string
	Header  string
}

// Output returns the output settings of the config.
func (c *Config) Output() OutputConfig {
	return OutputConfig{Target: c.Target, Package: c.Package, Header: c.Header}
}

// PackageName returns the name of the generated package.
func (c *Config) PackageName() string {
	switch {
	case c.Package != "":
		return path.Base(c.Package)
	case c.Target != "":
		return path.Base(c.Target)
	default:
		return "db"
	}
}

// RuntimePkg returns the import path of the runtime package.
func (c *Config) RuntimePkg() string {
	if c.Runtime == "" {
		return DefaultRuntime
	}
	return c.Runtime
}

// HeaderComment returns the header of generated files.
func (c *Config) HeaderComment() string {
	if c.Header == "" {
		return DefaultHeader
	}
	return c.Header
}

// Log returns the configured logger, or the default one.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// SnapshotPath returns the path of the resolution snapshot.
func (c *Config) SnapshotPath() string {
	if c.Snapshot != "" {
		return c.Snapshot
	}
	return filepath.Join(c.Target, SnapshotFile)
}

// WorkerCount returns the number of parallel file writers.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// FeatureEnabled reports if the given feature name is enabled. An unknown
// name returns an error.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	f, ok := FeatureByName(name)
	if !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	if slices.Contains(c.Disabled, name) {
		return false, nil
	}
	if f.Default {
		return true, nil
	}
	for _, e := range c.Features {
		if e.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// HasFeature is FeatureEnabled for a known feature.
func (c *Config) HasFeature(f Feature) bool {
	enabled, _ := c.FeatureEnabled(f.Name)
	return enabled
}
