package field

import (
	"fmt"
	"regexp"
)

// Type is the indexing type of a field.
type Type string

// Field type constants.
const (
	// Text is a full-text field; suggestions match against text fields.
	Text    Type = "text"
	Tag     Type = "tag"
	Numeric Type = "numeric"
)

// IsValid reports whether t is a supported field type.
func (t Type) IsValid() bool {
	return t == Text || t == Tag || t == Numeric
}

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Field is an immutable value object describing an indexed field.
type Field struct {
	name      string
	fieldType Type
}

// New validates and creates a Field.
// Name must be non-empty, max 64 chars, made of letters, digits, '_', '.' or '-'.
// Names starting with "__" are reserved for the backend.
func New(name string, ft Type) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 64 {
		return Field{}, fmt.Errorf("field name %q too long (max 64)", name)
	}
	if !nameRegex.MatchString(name) {
		return Field{}, fmt.Errorf("field name %q contains invalid characters", name)
	}
	if len(name) >= 2 && name[:2] == "__" {
		return Field{}, fmt.Errorf("field name %q is reserved", name)
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	return Field{name: name, fieldType: ft}, nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's indexing type.
func (f Field) FieldType() Type { return f.fieldType }
