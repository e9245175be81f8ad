package gen

import (
	"os"
	"path/filepath"
)

// SnapshotFile is the name of the resolution snapshot written into the target
// directory when FeatureSnapshot is enabled.
const SnapshotFile = "schema.snapshot"

var (
	// FeatureForeignKeys emits FOREIGN KEY constraints for foreign-key
	// references in the creation queries.
	FeatureForeignKeys = Feature{
		Name:        "sql/foreignkeys",
		Stage:       Stable,
		Default:     true,
		Description: "Emits FOREIGN KEY constraints for foreign-key references",
	}

	// FeatureHelpers writes the helper types that give the adapters access to
	// unexported model fields into the models directory.
	FeatureHelpers = Feature{
		Name:        "helpers",
		Stage:       Stable,
		Default:     true,
		Description: "Writes helper types for package-visible model fields into the models directory",
	}

	// FeatureMigrations generates database.go listing the creation and index
	// queries of all tables.
	FeatureMigrations = Feature{
		Name:        "migrations",
		Stage:       Beta,
		Default:     true,
		Description: "Generates the list of creation and index queries of all tables",
		cleanup: func(c *Config) error {
			return remove(c.Target, "database.go")
		},
	}

	// FeatureSnapshot stores a snapshot of the resolved tables next to the
	// generated code, so schema changes between runs can be diffed.
	FeatureSnapshot = Feature{
		Name:        "schema/snapshot",
		Stage:       Experimental,
		Default:     false,
		Description: "Stores a snapshot of the resolved tables for diffing schema changes between runs",
		cleanup: func(c *Config) error {
			return remove(c.Target, SnapshotFile)
		},
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureForeignKeys,
		FeatureHelpers,
		FeatureMigrations,
		FeatureSnapshot,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development.
	Experimental

	// Alpha features are complete, but their output may still change.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features are Beta features that were in use for a while.
	Stable
)

// A Feature of the litegen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup removes the output of previous runs when the feature is off.
	cleanup func(*Config) error
}

// Cleanup removes the files a disabled feature produced in earlier runs.
func (f Feature) Cleanup(c *Config) error {
	if f.cleanup == nil {
		return nil
	}
	return f.cleanup(c)
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
