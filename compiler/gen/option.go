package gen

import (
	"errors"
	"log/slog"
	"slices"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the output package import path.
// For example: "github.com/org/project/db".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithRuntimePackage sets the import path of the runtime package used by
// the generated code.
func WithRuntimePackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Runtime", nil, "runtime package cannot be empty")
		}
		c.Runtime = pkg
		return nil
	}
}

// WithModelsDir sets the directory helper types are written to.
func WithModelsDir(dir string) Option {
	return func(c *Config) error {
		c.ModelsDir = dir
		return nil
	}
}

// WithHelperSeparator sets the separator of helper type names,
// e.g. "_" gives User_Helper.
func WithHelperSeparator(sep string) Option {
	return func(c *Config) error {
		for _, r := range sep {
			if r != '_' && (r < '0' || r > '9') && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return NewConfigError("HelperSeparator", sep, "separator must be a valid identifier part")
			}
		}
		c.HelperSeparator = sep
		return nil
	}
}

// WithWorkers sets the number of files written in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger receiving progress and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if _, ok := FeatureByName(f.Name); !ok {
				return NewConfigError("Features", f.Name, "unknown feature")
			}
			c.Disabled = slices.DeleteFunc(c.Disabled, func(n string) bool { return n == f.Name })
		}
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithoutFeatures turns off features, including ones enabled by default.
func WithoutFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if _, ok := FeatureByName(f.Name); !ok {
				return NewConfigError("Features", f.Name, "unknown feature")
			}
			c.Features = slices.DeleteFunc(c.Features, func(e Feature) bool { return e.Name == f.Name })
			if !slices.Contains(c.Disabled, f.Name) {
				c.Disabled = append(c.Disabled, f.Name)
			}
		}
		return nil
	}
}

// WithSnapshot toggles FeatureSnapshot.
func WithSnapshot(enabled bool) Option {
	return toggle(FeatureSnapshot, enabled)
}

// WithSnapshotPath enables FeatureSnapshot and stores the snapshot at path.
func WithSnapshotPath(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Snapshot", nil, "snapshot path cannot be empty")
		}
		c.Snapshot = path
		return toggle(FeatureSnapshot, true)(c)
	}
}

// WithForeignKeyConstraints toggles FeatureForeignKeys.
func WithForeignKeyConstraints(enabled bool) Option {
	return toggle(FeatureForeignKeys, enabled)
}

func toggle(f Feature, enabled bool) Option {
	if enabled {
		return WithFeatures(f)
	}
	return WithoutFeatures(f)
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
