// Package index holds the suggestion index aggregate and the naming scheme
// that maps an index database and base onto backend index and key names.
package index

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/suggestd/internal/domain"
	"github.com/kailas-cloud/suggestd/internal/domain/index/field"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Base selects one of the two physical indexes kept per database.
// The stable base serves queries while genesis is rebuilt next to it.
type Base string

const (
	// BaseStable is the live index.
	BaseStable Base = "stable"
	// BaseGenesis is the index under construction.
	BaseGenesis Base = "genesis"
)

// IsValid checks if the base is supported.
func (b Base) IsValid() bool {
	return b == BaseStable || b == BaseGenesis
}

// ParseBase parses a base name case-insensitively. An empty string yields BaseStable.
func ParseBase(s string) (Base, error) {
	if s == "" {
		return BaseStable, nil
	}
	b := Base(strings.ToLower(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", fmt.Errorf("%w: unknown index base %q (want stable or genesis)", domain.ErrInvalidConfiguration, s)
	}
	return b, nil
}

// ValidateName checks a database name: ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("index name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("index name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("index name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// Ref addresses one physical index: <keyPrefix><database>:<base>.
type Ref struct {
	keyPrefix string
	database  string
	base      Base
}

// NewRef validates and creates a Ref.
func NewRef(keyPrefix, database string, base Base) (Ref, error) {
	if err := ValidateName(database); err != nil {
		return Ref{}, err
	}
	if base == "" {
		base = BaseStable
	}
	if !base.IsValid() {
		return Ref{}, fmt.Errorf("invalid index base %q", base)
	}
	return Ref{keyPrefix: keyPrefix, database: database, base: base}, nil
}

// Database returns the logical index name.
func (r Ref) Database() string { return r.database }

// Base returns the physical base.
func (r Ref) Base() Base { return r.base }

// KeyPrefix returns the namespace prefix shared by all indexes.
func (r Ref) KeyPrefix() string { return r.keyPrefix }

// WithBase returns a copy of r pointing at another base.
func (r Ref) WithBase(b Base) Ref {
	r.base = b
	return r
}

// IndexName returns the backend index name.
func (r Ref) IndexName() string {
	return r.keyPrefix + r.database + ":" + string(r.base) + ":idx"
}

// DocPrefix returns the key prefix of documents covered by the index.
func (r Ref) DocPrefix() string {
	return r.keyPrefix + r.database + ":" + string(r.base) + ":doc:"
}

// DocKey returns the storage key of document id.
func (r Ref) DocKey(id string) string { return r.DocPrefix() + id }

// DocID strips the document prefix from a storage key.
func (r Ref) DocID(key string) string { return strings.TrimPrefix(key, r.DocPrefix()) }

func (r Ref) String() string { return r.database + "/" + string(r.base) }

// Index is the suggestion index aggregate (immutable value object).
type Index struct {
	ref    Ref
	fields []field.Field
}

// New validates and creates an Index.
// Fields: unique names, max 64, at least one text field.
func New(ref Ref, fields []field.Field) (Index, error) {
	if ref.database == "" {
		return Index{}, fmt.Errorf("index reference is required")
	}
	if len(fields) == 0 {
		return Index{}, fmt.Errorf("at least one field is required")
	}
	if len(fields) > 64 {
		return Index{}, fmt.Errorf("too many fields (max 64)")
	}
	seen := make(map[string]bool, len(fields))
	hasText := false
	for _, f := range fields {
		if seen[f.Name()] {
			return Index{}, fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
		if f.FieldType() == field.Text {
			hasText = true
		}
	}
	if !hasText {
		return Index{}, fmt.Errorf("at least one text field is required")
	}

	return Index{ref: ref, fields: append([]field.Field(nil), fields...)}, nil
}

// Ref returns the index address.
func (i Index) Ref() Ref { return i.ref }

// Fields returns the indexed field definitions.
func (i Index) Fields() []field.Field { return i.fields }

// TextFields returns the names of the full-text fields.
func (i Index) TextFields() []string {
	var out []string
	for _, f := range i.fields {
		if f.FieldType() == field.Text {
			out = append(out, f.Name())
		}
	}
	return out
}

// Stats describes a provisioned index.
type Stats struct {
	Ref       Ref
	Exists    bool
	Documents int
}
