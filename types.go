package suggestd

import (
	"fmt"

	"github.com/kailas-cloud/suggestd/internal/domain"
	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/index/field"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
)

// Base selects one of the two physical indexes kept per database.
type Base string

// Base constants.
const (
	BaseStable  Base = "stable"
	BaseGenesis Base = "genesis"
)

// Operator joins per-field renderings when fields are restricted.
type Operator string

// Operator constants.
const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
)

// FieldType defines the type of an index field.
type FieldType string

// Field type constants. Suggestions match against text fields only.
const (
	FieldText    FieldType = "text"
	FieldTag     FieldType = "tag"
	FieldNumeric FieldType = "numeric"
)

// Field is an index schema entry.
type Field struct {
	Name string
	Type FieldType
}

// IndexInfo describes a created index.
type IndexInfo struct {
	Name   string
	Base   Base
	Fields []Field
}

// IndexStats describes an existing index.
type IndexStats struct {
	Name      string
	Base      Base
	Documents int
}

// Document is a suggestion source: an id plus the stored fields.
type Document struct {
	ID     string
	Fields map[string]string
}

// Hit is one suggestion.
type Hit struct {
	ID     string
	Score  float64
	Fields map[string]string
}

// SuggestResult is the outcome of a lookup.
type SuggestResult struct {
	// Query is the expression that was executed.
	Query string
	Hits  []Hit
	// Total is the number of matches reported by the engine, before the limit.
	Total int
}

// QueryOptions controls query construction. Zero values keep the defaults:
// min prefix length 3, limit 3, no field restriction, OR.
type QueryOptions struct {
	MinPrefixLength int
	ResultLimit     int
	// Fields restricts matching to these fields. Nil keeps the current restriction.
	Fields []string
	// Operator is case-insensitive.
	Operator Operator
}

func (o QueryOptions) apply(base options.Options) (options.Options, error) {
	var op options.Operator
	if o.Operator != "" {
		var err error
		if op, err = options.ParseOperator(string(o.Operator)); err != nil {
			return options.Options{}, err
		}
	}
	return base.With(o.MinPrefixLength, o.ResultLimit, o.Fields, op)
}

func (o QueryOptions) isZero() bool {
	return o.MinPrefixLength == 0 && o.ResultLimit == 0 && o.Fields == nil && o.Operator == ""
}

func resolveBase(b, fallback Base) (domidx.Base, error) {
	if b == "" {
		b = fallback
	}
	base, err := domidx.ParseBase(string(b))
	if err != nil {
		return "", fmt.Errorf("base: %w", err)
	}
	return base, nil
}

func toInternalFields(fields []Field) ([]field.Field, error) {
	out := make([]field.Field, 0, len(fields))
	for _, f := range fields {
		ff, err := field.New(f.Name, field.Type(f.Type))
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", domain.ErrInvalidConfiguration, f.Name, err)
		}
		out = append(out, ff)
	}
	return out, nil
}

func fromInternalIndex(idx domidx.Index) IndexInfo {
	ref := idx.Ref()
	info := IndexInfo{
		Name:   ref.Database(),
		Base:   Base(ref.Base()),
		Fields: make([]Field, 0, len(idx.Fields())),
	}
	for _, f := range idx.Fields() {
		info.Fields = append(info.Fields, Field{Name: f.Name(), Type: FieldType(f.FieldType())})
	}
	return info
}

func fromInternalHits(hits []hit.Hit) []Hit {
	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = Hit{ID: h.ID(), Score: h.Score(), Fields: h.Fields()}
	}
	return out
}

func toInternalHits(hits []Hit) []hit.Hit {
	if hits == nil {
		return nil
	}
	out := make([]hit.Hit, len(hits))
	for i, h := range hits {
		out[i] = hit.New(h.ID, h.Score, h.Fields)
	}
	return out
}
