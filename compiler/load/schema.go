package load

import (
	"fmt"

	"github.com/syssam/litegen/schema/field"
)

// Kind is the kind of model an annotated type is mapped to.
type Kind string

// Supported entity kinds.
const (
	KindTable     Kind = "table"
	KindView      Kind = "view"
	KindQuery     Kind = "query"
	KindColumnMap Kind = "column_map"
)

// Visibility describes how generated code can reach a field of the model.
type Visibility string

// Supported field visibilities.
const (
	// VisibilityPublic fields are exported struct fields.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate fields are unexported and reached through getter and setter methods.
	VisibilityPrivate Visibility = "private"
	// VisibilityPackage fields are unexported without accessors and are reached
	// through a helper generated into the model package.
	VisibilityPackage Visibility = "package"
)

// RelationKind is the kind of a relationship field.
type RelationKind string

// Supported relationship kinds.
const (
	RelationForeignKey RelationKind = "foreign_key"
	RelationColumnMap  RelationKind = "column_map"
)

// Schema represents an annotated model type as handed over by the schema
// harness. It is plain data and is never re-parsed by the generator.
type Schema struct {
	Name                string         `json:"name" yaml:"name"`
	Table               string         `json:"table,omitempty" yaml:"table,omitempty"`
	Kind                Kind           `json:"kind,omitempty" yaml:"kind,omitempty"`
	Package             string         `json:"package,omitempty" yaml:"package,omitempty"`
	Database            string         `json:"database,omitempty" yaml:"database,omitempty"`
	PrimaryKeyConflict  string         `json:"primary_key_conflict,omitempty" yaml:"primary_key_conflict,omitempty"`
	InsertConflict      string         `json:"insert_conflict,omitempty" yaml:"insert_conflict,omitempty"`
	UpdateConflict      string         `json:"update_conflict,omitempty" yaml:"update_conflict,omitempty"`
	OrderedCursorLookup bool           `json:"ordered_cursor_lookup,omitempty" yaml:"ordered_cursor_lookup,omitempty"`
	AssignDefaultValues *bool          `json:"assign_default_values,omitempty" yaml:"assign_default_values,omitempty"`
	BooleanIsGetters    bool           `json:"boolean_is_getters,omitempty" yaml:"boolean_is_getters,omitempty"`
	UniqueGroups        []*UniqueGroup `json:"unique_groups,omitempty" yaml:"unique_groups,omitempty"`
	IndexGroups         []*IndexGroup  `json:"index_groups,omitempty" yaml:"index_groups,omitempty"`
	Fields              []*Field       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Pos                 string         `json:"-" yaml:"-"`
}

// UniqueGroup is a table-level UNIQUE constraint spanning the fields that
// reference its number.
type UniqueGroup struct {
	Number   int    `json:"number" yaml:"number"`
	Conflict string `json:"conflict,omitempty" yaml:"conflict,omitempty"`
}

// IndexGroup is a named index spanning the fields that reference its number.
type IndexGroup struct {
	Number int    `json:"number" yaml:"number"`
	Name   string `json:"name" yaml:"name"`
	Unique bool   `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// Field represents one declared property of a schema.
type Field struct {
	Name           string          `json:"name" yaml:"name"`
	Column         string          `json:"column,omitempty" yaml:"column,omitempty"`
	Info           *field.TypeInfo `json:"type,omitempty" yaml:"type,omitempty"`
	Visibility     Visibility      `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Getter         string          `json:"getter,omitempty" yaml:"getter,omitempty"`
	Setter         string          `json:"setter,omitempty" yaml:"setter,omitempty"`
	NotNull        bool            `json:"not_null,omitempty" yaml:"not_null,omitempty"`
	NullConflict   string          `json:"null_conflict,omitempty" yaml:"null_conflict,omitempty"`
	Unique         bool            `json:"unique,omitempty" yaml:"unique,omitempty"`
	UniqueConflict string          `json:"unique_conflict,omitempty" yaml:"unique_conflict,omitempty"`
	UniqueGroups   []int           `json:"unique_groups,omitempty" yaml:"unique_groups,omitempty"`
	IndexGroups    []int           `json:"index_groups,omitempty" yaml:"index_groups,omitempty"`
	Length         int             `json:"length,omitempty" yaml:"length,omitempty"`
	Collate        string          `json:"collate,omitempty" yaml:"collate,omitempty"`
	Default        string          `json:"default,omitempty" yaml:"default,omitempty"`
	Converter      string          `json:"converter,omitempty" yaml:"converter,omitempty"`
	PrimaryKey     *PrimaryKey     `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Reference      *Reference      `json:"reference,omitempty" yaml:"reference,omitempty"`
	Pos            string          `json:"-" yaml:"-"`
}

// PrimaryKey marks a field as part of the primary key.
type PrimaryKey struct {
	AutoIncrement bool `json:"auto_increment,omitempty" yaml:"auto_increment,omitempty"`
	QuickCheck    bool `json:"quick_check,omitempty" yaml:"quick_check,omitempty"`
	RowID         bool `json:"row_id,omitempty" yaml:"row_id,omitempty"`
}

// Reference marks a field as a relationship to another schema.
type Reference struct {
	Kind          RelationKind     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Entity        string           `json:"entity" yaml:"entity"`
	References    []*ReferenceSpec `json:"references,omitempty" yaml:"references,omitempty"`
	Stubbed       bool             `json:"stubbed,omitempty" yaml:"stubbed,omitempty"`
	OnUpdate      string           `json:"on_update,omitempty" yaml:"on_update,omitempty"`
	OnDelete      string           `json:"on_delete,omitempty" yaml:"on_delete,omitempty"`
	Deferred      bool             `json:"deferred,omitempty" yaml:"deferred,omitempty"`
	SaveCascade   bool             `json:"save_cascade,omitempty" yaml:"save_cascade,omitempty"`
	DeleteCascade bool             `json:"delete_cascade,omitempty" yaml:"delete_cascade,omitempty"`
}

// ReferenceSpec is one explicit (local column, referenced column) pair.
type ReferenceSpec struct {
	Column       string `json:"column" yaml:"column"`
	Referenced   string `json:"referenced" yaml:"referenced"`
	NotNull      bool   `json:"not_null,omitempty" yaml:"not_null,omitempty"`
	NullConflict string `json:"null_conflict,omitempty" yaml:"null_conflict,omitempty"`
	Default      string `json:"default,omitempty" yaml:"default,omitempty"`
	Converter    string `json:"converter,omitempty" yaml:"converter,omitempty"`
}

// Converter declares a type converter between a model type and a type
// SQLite can store.
type Converter struct {
	Name    string         `json:"name" yaml:"name"`
	Package string         `json:"package,omitempty" yaml:"package,omitempty"`
	Model   field.TypeInfo `json:"model" yaml:"model"`
	DB      field.TypeInfo `json:"db" yaml:"db"`
	Global  bool           `json:"global,omitempty" yaml:"global,omitempty"`
	Pos     string         `json:"-" yaml:"-"`
}

// ColumnName returns the physical column name of the field. An explicit
// column wins over the property name.
func (f *Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// IsReference reports if the field is a relationship.
func (f *Field) IsReference() bool { return f.Reference != nil }

// RelationKind returns the relationship kind, defaulting to a foreign key.
func (r *Reference) RelationKind() RelationKind {
	if r.Kind == "" {
		return RelationForeignKey
	}
	return r.Kind
}

// TableName returns the table name of the schema.
func (s *Schema) TableName() string {
	if s.Table != "" {
		return s.Table
	}
	return s.Name
}

// EntityKind returns the kind of the schema, defaulting to a table.
func (s *Schema) EntityKind() Kind {
	if s.Kind == "" {
		return KindTable
	}
	return s.Kind
}

// AssignDefaults reports if cursor loading assigns declared defaults to
// columns that are NULL or missing. It is enabled unless turned off explicitly.
func (s *Schema) AssignDefaults() bool {
	return s.AssignDefaultValues == nil || *s.AssignDefaultValues
}

// FieldVisibility returns the declared visibility, defaulting to public.
func (f *Field) FieldVisibility() Visibility {
	if f.Visibility == "" {
		return VisibilityPublic
	}
	return f.Visibility
}

// check validates the structure of the schema. Semantic problems (missing
// referenced columns, unresolvable converters) are left to the generator,
// which reports them per element and keeps going.
func (s *Schema) check() error {
	if s.Name == "" {
		return fmt.Errorf("schema at %s: missing name", s.Pos)
	}
	switch s.EntityKind() {
	case KindTable, KindView, KindQuery, KindColumnMap:
	default:
		return fmt.Errorf("schema %q: unknown kind %q", s.Name, s.Kind)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %q: field at %s: missing name", s.Name, f.Pos)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("schema %q: duplicate field %q", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Info == nil || !f.Info.Type.Valid() {
			return fmt.Errorf("schema %q: field %q: missing type info", s.Name, f.Name)
		}
		switch f.FieldVisibility() {
		case VisibilityPublic, VisibilityPrivate, VisibilityPackage:
		default:
			return fmt.Errorf("schema %q: field %q: unknown visibility %q", s.Name, f.Name, f.Visibility)
		}
		if r := f.Reference; r != nil {
			switch r.RelationKind() {
			case RelationForeignKey, RelationColumnMap:
			default:
				return fmt.Errorf("schema %q: field %q: unknown relation kind %q", s.Name, f.Name, r.Kind)
			}
		}
	}
	return nil
}

func (c *Converter) check() error {
	if c.Name == "" {
		return fmt.Errorf("converter at %s: missing name", c.Pos)
	}
	if !c.Model.Type.Valid() || !c.DB.Type.Valid() {
		return fmt.Errorf("converter %q: missing model or db type", c.Name)
	}
	return nil
}
