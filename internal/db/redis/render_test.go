package redis

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/suggestd/internal/domain"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
)

func TestRenderQuery(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"builder output", `+"cat" +"dog" +elephant*`, `"cat" "dog" elephant*`},
		{"single prefix", `+hel*`, `hel*`},
		{"fields AND", `title:+"cat" +dog* AND body:+"cat" +dog*`, `(@title:"cat" @title:dog*) (@body:"cat" @body:dog*)`},
		{"fields OR", `title:+"cat" +dog* OR body:+"cat" +dog*`, `((@title:"cat" @title:dog*) | (@body:"cat" @body:dog*))`},
		{"single term fields OR", `title:+news* OR body:+news*`, `(@title:news* | @body:news*)`},
		{"should only", `cat dog`, `(cat | dog)`},
		{"should next to must", `+cat dog`, `cat ~dog`},
		{"negation", `+cat -dog`, `cat -dog`},
		{"phrase", `"big red car"`, `"big red car"`},
		{"group", `+(red OR blue) +car*`, `(red | blue) car*`},
		{"field group", `title:(red blue)`, `(@title:red | @title:blue)`},
		{"escaped term", `c\:d c++`, `(c\:d | c\+\+)`},
		{"empty field clause skipped", `title: OR body:cat`, `@body:cat`},
		{"multibyte prefix", `+straße*`, `straße*`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := lucene.Parse(tc.expr)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.expr, err)
			}
			got, err := renderQuery(lucene.Required(tree), 3)
			if err != nil {
				t.Fatalf("renderQuery: %v", err)
			}
			if got != tc.want {
				t.Errorf("renderQuery(%q) = %q, want %q", tc.expr, got, tc.want)
			}
		})
	}
}

func TestRenderQuery_MatchesNothing(t *testing.T) {
	for _, expr := range []string{``, `title: OR body:`, `-cat`, `+"" +dog*`} {
		tree, err := lucene.Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", expr, err)
		}
		got, err := renderQuery(lucene.Required(tree), 3)
		if err != nil {
			t.Fatalf("renderQuery(%q): %v", expr, err)
		}
		if got != "" {
			t.Errorf("renderQuery(%q) = %q, want empty", expr, got)
		}
	}
}

func TestRenderQuery_NilTree(t *testing.T) {
	got, err := renderQuery(nil, 3)
	if err != nil || got != "" {
		t.Errorf("renderQuery(nil) = %q, %v", got, err)
	}
}

func TestRenderQuery_MinPrefix(t *testing.T) {
	tree, err := lucene.Parse(`+äö*`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := renderQuery(tree, 3); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery for 2-character prefix, got %v", err)
	}
	if got, err := renderQuery(tree, 2); err != nil || got != "äö*" {
		t.Errorf("renderQuery(min 2) = %q, %v", got, err)
	}
	if got, err := renderQuery(tree, 0); err != nil || got != "äö*" {
		t.Errorf("renderQuery(min 0) = %q, %v", got, err)
	}
}

func TestEscapeToken(t *testing.T) {
	tests := map[string]string{
		"plain":     "plain",
		"c++":       `c\+\+`,
		"a-b":       `a\-b`,
		"@user":     `\@user`,
		"x y":       `x\ y`,
		`back\s`:    `back\\s`,
		"{tag}":     `\{tag\}`,
		"e-mail.io": `e\-mail\.io`,
	}
	for in, want := range tests {
		if got := escapeToken(in); got != want {
			t.Errorf("escapeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
