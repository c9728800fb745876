package options

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/suggestd/internal/domain"
)

func TestDefault(t *testing.T) {
	o := Default()
	if o.MinPrefixLength() != 3 {
		t.Errorf("MinPrefixLength = %d, want 3", o.MinPrefixLength())
	}
	if o.ResultLimit() != 3 {
		t.Errorf("ResultLimit = %d, want 3", o.ResultLimit())
	}
	if len(o.RestrictSearchFields()) != 0 {
		t.Errorf("RestrictSearchFields = %v, want empty", o.RestrictSearchFields())
	}
	if o.Operator() != OperatorOr {
		t.Errorf("Operator = %q, want OR", o.Operator())
	}
}

func TestNew_Valid(t *testing.T) {
	o, err := New(4, 10, []string{"title", "body"}, OperatorAnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.MinPrefixLength() != 4 || o.ResultLimit() != 10 || o.Operator() != OperatorAnd {
		t.Errorf("unexpected options: %+v", o)
	}
	fields := o.RestrictSearchFields()
	if len(fields) != 2 || fields[0] != "title" || fields[1] != "body" {
		t.Errorf("RestrictSearchFields = %v", fields)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		minPrefix int
		limit     int
		fields    []string
		op        Operator
	}{
		{"zero min prefix", 0, 3, nil, OperatorOr},
		{"negative min prefix", -1, 3, nil, OperatorOr},
		{"zero limit", 3, 0, nil, OperatorOr},
		{"unknown operator", 3, 3, nil, Operator("XOR")},
		{"empty operator", 3, 3, nil, Operator("")},
		{"empty field", 3, 3, []string{"title", ""}, OperatorOr},
		{"field with space", 3, 3, []string{"page title"}, OperatorOr},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.minPrefix, tc.limit, tc.fields, tc.op)
			if !errors.Is(err, domain.ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestNew_CopiesFields(t *testing.T) {
	fields := []string{"title"}
	o, err := New(3, 3, fields, OperatorOr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields[0] = "mutated"
	if got := o.RestrictSearchFields()[0]; got != "title" {
		t.Errorf("options share caller slice: got %q", got)
	}

	out := o.RestrictSearchFields()
	out[0] = "mutated"
	if got := o.RestrictSearchFields()[0]; got != "title" {
		t.Errorf("getter leaks internal slice: got %q", got)
	}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in      string
		want    Operator
		wantErr bool
	}{
		{"AND", OperatorAnd, false},
		{"and", OperatorAnd, false},
		{" Or ", OperatorOr, false},
		{"NOT", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := ParseOperator(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseOperator(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseOperator(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestZeroValue(t *testing.T) {
	var o Options
	if o.MinPrefixLength() != 1 {
		t.Errorf("zero MinPrefixLength = %d, want 1", o.MinPrefixLength())
	}
	if o.ResultLimit() != DefaultResultLimit {
		t.Errorf("zero ResultLimit = %d, want %d", o.ResultLimit(), DefaultResultLimit)
	}
	if o.Operator() != OperatorOr {
		t.Errorf("zero Operator = %q, want OR", o.Operator())
	}
}

func TestWith(t *testing.T) {
	base, err := New(3, 5, []string{"title"}, OperatorAnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o, err := base.With(0, 10, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.MinPrefixLength() != 3 || o.ResultLimit() != 10 || o.Operator() != OperatorAnd {
		t.Errorf("unexpected override result: %+v", o)
	}
	if f := o.RestrictSearchFields(); len(f) != 1 || f[0] != "title" {
		t.Errorf("fields = %v, want [title]", f)
	}

	cleared, err := base.With(0, 0, []string{}, OperatorOr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cleared.RestrictSearchFields()) != 0 {
		t.Errorf("expected fields cleared, got %v", cleared.RestrictSearchFields())
	}

	if _, err := base.With(-2, 0, nil, ""); !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
