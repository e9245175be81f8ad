package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a schema definition error.
	ErrInvalidSchema = errors.New("litegen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("litegen: missing configuration")
	// ErrInvalidReference indicates a foreign key or column map that cannot be resolved.
	ErrInvalidReference = errors.New("litegen: invalid reference")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("litegen: code generation failed")
	// ErrValidationFailed indicates a validation failure.
	ErrValidationFailed = errors.New("litegen: validation failed")
	// ErrCircularReference indicates a reference whose resolution depends on itself.
	ErrCircularReference = errors.New("litegen: circular reference")
	// ErrUnsupportedNesting indicates an accessor chain deeper than field, wrapper and sub-wrapper.
	ErrUnsupportedNesting = errors.New("litegen: unsupported accessor nesting")
	// ErrUnresolvedConverter indicates a field type with no converter and no native storage.
	ErrUnresolvedConverter = errors.New("litegen: unresolved type converter")
)

// SchemaError represents a schema definition error.
type SchemaError struct {
	Type    string // Entity name
	Field   string // Field name (if applicable)
	Pos     string // Position in the project file (if known)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("litegen: schema error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Pos != "" {
		b.WriteString(" (")
		b.WriteString(e.Pos)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(typeName, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("litegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("litegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// ReferenceError represents a foreign key or column map resolution error.
type ReferenceError struct {
	From    string // Referencing entity
	To      string // Referenced entity
	Field   string // Reference field
	Pos     string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	var b strings.Builder
	b.WriteString("litegen: reference error")
	if e.Field != "" {
		b.WriteString(" on field ")
		b.WriteString(e.Field)
	}
	if e.From != "" && e.To != "" {
		fmt.Fprintf(&b, " (%s -> %s)", e.From, e.To)
	} else if e.From != "" {
		b.WriteString(" from ")
		b.WriteString(e.From)
	}
	if e.Pos != "" {
		b.WriteString(" at ")
		b.WriteString(e.Pos)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ReferenceError.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

// NewReferenceError creates a new ReferenceError.
func NewReferenceError(from, to, fieldName, message string, cause error) *ReferenceError {
	return &ReferenceError{
		From:    from,
		To:      to,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "adapter", "helper", "database", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("litegen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError reports a resolved entity whose table layout is not
// valid, such as a missing primary key or a duplicate column.
type ValidationError struct {
	Type    string
	Field   string
	Pos     string
	Value   any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("litegen: validation error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Pos != "" {
		b.WriteString(" (")
		b.WriteString(e.Pos)
		b.WriteString(")")
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new ValidationError.
func NewValidationError(typeName, field string, value any, message string) *ValidationError {
	return &ValidationError{
		Type:    typeName,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsReferenceError reports whether the error is a ReferenceError.
func IsReferenceError(err error) bool {
	var refErr *ReferenceError
	return errors.As(err, &refErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsValidationError reports whether the error is a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
