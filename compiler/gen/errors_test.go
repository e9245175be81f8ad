package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("no converter for time.Time")
		err := NewSchemaError("Post", "created", "cannot store field", cause)
		err.Pos = "blog.yaml:30"

		assert.Contains(t, err.Error(), "litegen: schema error")
		assert.Contains(t, err.Error(), "type Post")
		assert.Contains(t, err.Error(), "field created")
		assert.Contains(t, err.Error(), "(blog.yaml:30)")
		assert.Contains(t, err.Error(), "cannot store field")
		assert.Contains(t, err.Error(), "no converter for time.Time")
	})

	t.Run("Error message with type only", func(t *testing.T) {
		err := &SchemaError{Type: "User"}
		assert.Contains(t, err.Error(), "type User")
		assert.NotContains(t, err.Error(), "field")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		err := NewSchemaError("Post", "created", "", ErrUnresolvedConverter)
		assert.True(t, errors.Is(err, ErrUnresolvedConverter))
		assert.True(t, errors.Is(err, ErrInvalidSchema))
	})

	t.Run("IsSchemaError helper", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewSchemaError("User", "email", "test", nil))
		assert.True(t, IsSchemaError(err))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", -1, "must be positive")

		assert.Contains(t, err.Error(), "litegen: config error")
		assert.Contains(t, err.Error(), `"Workers"`)
		assert.Contains(t, err.Error(), "value: -1")
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Package", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		assert.ErrorIs(t, NewConfigError("Target", nil, "missing"), ErrMissingConfig)
	})
}

func TestReferenceError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewReferenceError("Post", "User", "author", "could not find referenced column", errors.New("uid"))
		err.Pos = "blog.yaml:27"

		assert.Contains(t, err.Error(), "litegen: reference error")
		assert.Contains(t, err.Error(), "field author")
		assert.Contains(t, err.Error(), "Post -> User")
		assert.Contains(t, err.Error(), "at blog.yaml:27")
		assert.Contains(t, err.Error(), "could not find referenced column: uid")
	})

	t.Run("Error message with from only", func(t *testing.T) {
		err := &ReferenceError{From: "Post", Field: "author"}
		assert.Contains(t, err.Error(), "from Post")
		assert.NotContains(t, err.Error(), "->")
	})

	t.Run("Circular cause", func(t *testing.T) {
		err := NewReferenceError("A", "B", "b", "", ErrCircularReference)
		assert.ErrorIs(t, err, ErrCircularReference)
		assert.ErrorIs(t, err, ErrInvalidReference)
		assert.True(t, IsReferenceError(err))
	})
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("write failed")
	err := NewGenerationError("adapter", "user_adapter.go", "cannot write file", cause)

	assert.Contains(t, err.Error(), "phase adapter")
	assert.Contains(t, err.Error(), "file: user_adapter.go")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("User", "", nil, "no primary key")

	assert.Contains(t, err.Error(), "litegen: validation error on type User: no primary key")
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.True(t, IsValidationError(err))

	err = NewValidationError("Log", "ID", "string", "must be an integer")
	err.Pos = "blog.yaml:4:9"
	assert.Equal(t, "litegen: validation error on type Log field ID (blog.yaml:4:9) (value: string): must be an integer", err.Error())
}

func TestErrorTypeChecking(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isSchema bool
		isConfig bool
		isRef    bool
		isGen    bool
		isVal    bool
	}{
		{name: "SchemaError", err: NewSchemaError("User", "", "", nil), isSchema: true},
		{name: "ConfigError", err: NewConfigError("Package", nil, ""), isConfig: true},
		{name: "ReferenceError", err: NewReferenceError("Post", "User", "author", "", nil), isRef: true},
		{name: "GenerationError", err: NewGenerationError("adapter", "", "", nil), isGen: true},
		{name: "ValidationError", err: NewValidationError("User", "id", nil, ""), isVal: true},
		{name: "Other error", err: errors.New("other")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isSchema, IsSchemaError(tt.err))
			assert.Equal(t, tt.isConfig, IsConfigError(tt.err))
			assert.Equal(t, tt.isRef, IsReferenceError(tt.err))
			assert.Equal(t, tt.isGen, IsGenerationError(tt.err))
			assert.Equal(t, tt.isVal, IsValidationError(tt.err))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NewReferenceError("Post", "User", "author", "invalid", nil))
	var refErr *ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "Post", refErr.From)
	assert.Equal(t, "User", refErr.To)
	assert.Equal(t, "author", refErr.Field)
}
