package document

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// MaxFieldSize is the maximum size of a single field value in bytes.
const MaxFieldSize = 65536

// Document is a suggestion source document (immutable value object).
type Document struct {
	id     string
	fields map[string]string
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_.:-]+$, 1-256 chars. Fields: at least one, values max 64KB.
// Fields are checked against the index schema in the service layer.
func New(id string, fields map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID %q contains invalid characters", id)
	}
	if len(fields) == 0 {
		return Document{}, fmt.Errorf("document %q has no fields", id)
	}
	for k, v := range fields {
		if k == "" {
			return Document{}, fmt.Errorf("document %q has an empty field name", id)
		}
		if len(v) > MaxFieldSize {
			return Document{}, fmt.Errorf("field %q of document %q too large (max %d bytes)", k, id, MaxFieldSize)
		}
	}

	return Document{id: id, fields: cloneStringMap(fields)}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Fields returns the field values.
func (d *Document) Fields() map[string]string { return d.fields }

func cloneStringMap(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
