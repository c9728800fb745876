package options

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/suggestd/internal/domain"
)

// Operator joins per-field renderings of the query.
type Operator string

const (
	// OperatorAnd requires every restricted field to match.
	OperatorAnd Operator = "AND"
	// OperatorOr requires at least one restricted field to match.
	OperatorOr Operator = "OR"
)

// Default option values.
const (
	DefaultMinPrefixLength = 3
	DefaultResultLimit     = 3
	DefaultOperator        = OperatorOr
)

// ParseOperator normalizes s (case-insensitive) into an Operator.
func ParseOperator(s string) (Operator, error) {
	switch Operator(strings.ToUpper(strings.TrimSpace(s))) {
	case OperatorAnd:
		return OperatorAnd, nil
	case OperatorOr:
		return OperatorOr, nil
	default:
		return "", fmt.Errorf("%w: operator must be AND or OR, got %q", domain.ErrInvalidConfiguration, s)
	}
}

// IsValid reports whether o is AND or OR.
func (o Operator) IsValid() bool {
	return o == OperatorAnd || o == OperatorOr
}

// Options controls query construction and backend limits for one suggestion request.
type Options struct {
	minPrefixLength int
	resultLimit     int
	fields          []string
	operator        Operator
}

// New validates and returns suggestion options.
func New(minPrefixLength, resultLimit int, fields []string, operator Operator) (Options, error) {
	if minPrefixLength < 1 {
		return Options{}, fmt.Errorf(
			"%w: min_prefix_length must be >= 1, got %d", domain.ErrInvalidConfiguration, minPrefixLength,
		)
	}
	if resultLimit < 1 {
		return Options{}, fmt.Errorf(
			"%w: result_limit must be >= 1, got %d", domain.ErrInvalidConfiguration, resultLimit,
		)
	}
	if !operator.IsValid() {
		return Options{}, fmt.Errorf(
			"%w: operator must be AND or OR, got %q", domain.ErrInvalidConfiguration, operator,
		)
	}
	for i, f := range fields {
		if f == "" || strings.IndexFunc(f, unicode.IsSpace) >= 0 {
			return Options{}, fmt.Errorf(
				"%w: restrict_search_fields[%d] is not a valid field name: %q", domain.ErrInvalidConfiguration, i, f,
			)
		}
	}

	var copied []string
	if len(fields) > 0 {
		copied = make([]string, len(fields))
		copy(copied, fields)
	}

	return Options{
		minPrefixLength: minPrefixLength,
		resultLimit:     resultLimit,
		fields:          copied,
		operator:        operator,
	}, nil
}

// Default returns options with min_prefix_length=3, result_limit=3, no field restriction and OR.
func Default() Options {
	return Options{
		minPrefixLength: DefaultMinPrefixLength,
		resultLimit:     DefaultResultLimit,
		operator:        DefaultOperator,
	}
}

// MinPrefixLength returns the minimum term length. Zero-value options report 1.
func (o Options) MinPrefixLength() int {
	if o.minPrefixLength < 1 {
		return 1
	}
	return o.minPrefixLength
}

// ResultLimit returns the backend result cap. Zero-value options report the default.
func (o Options) ResultLimit() int {
	if o.resultLimit < 1 {
		return DefaultResultLimit
	}
	return o.resultLimit
}

// RestrictSearchFields returns a copy of the restricted field names.
func (o Options) RestrictSearchFields() []string {
	if len(o.fields) == 0 {
		return nil
	}
	out := make([]string, len(o.fields))
	copy(out, o.fields)
	return out
}

// Operator returns the join operator for restricted fields.
func (o Options) Operator() Operator {
	if !o.operator.IsValid() {
		return DefaultOperator
	}
	return o.operator
}

// With returns a copy of o with non-zero overrides applied and re-validated.
// An empty operator or nil fields keep the current value.
func (o Options) With(minPrefixLength, resultLimit int, fields []string, operator Operator) (Options, error) {
	if minPrefixLength == 0 {
		minPrefixLength = o.MinPrefixLength()
	}
	if resultLimit == 0 {
		resultLimit = o.ResultLimit()
	}
	if fields == nil {
		fields = o.fields
	}
	if operator == "" {
		operator = o.Operator()
	}
	return New(minPrefixLength, resultLimit, fields, operator)
}
