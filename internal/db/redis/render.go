package redis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/suggestd/internal/domain"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
)

// renderQuery translates a parsed query tree into FT.SEARCH (DIALECT 2) syntax.
//
//	Must clauses      -> intersection: a b
//	Should clauses    -> union (a | b) when no Must clause is present,
//	                     optional ~a next to Must clauses
//	MustNot clauses   -> -a
//	field restriction -> @field:a
//	phrase            -> "a b"
//	prefix            -> a*  (rejected when shorter than minPrefix characters)
//
// An empty string means the tree matches nothing.
func renderQuery(q *lucene.Boolean, minPrefix int) (string, error) {
	if minPrefix < 1 {
		minPrefix = 1
	}
	r := renderer{minPrefix: minPrefix}
	parts, err := r.boolean(unwrap(q))
	if err != nil {
		return "", err
	}
	return strings.Join(parts, " "), nil
}

type renderer struct {
	minPrefix int
}

// unwrap drops Boolean levels that only hold one non-negated Boolean clause.
func unwrap(b *lucene.Boolean) *lucene.Boolean {
	for b != nil && len(b.Clauses) == 1 && b.Clauses[0].Occur != lucene.MustNot {
		inner, ok := b.Clauses[0].Query.(*lucene.Boolean)
		if !ok {
			break
		}
		b = inner
	}
	return b
}

// boolean renders b as space-separated parts; nil means b matches nothing.
func (r renderer) boolean(b *lucene.Boolean) ([]string, error) {
	if b == nil {
		return nil, nil
	}

	var must, should, mustNot []string
	for _, c := range b.Clauses {
		s, err := r.clause(c.Query)
		if err != nil {
			return nil, err
		}
		if s == "" {
			if c.Occur == lucene.Must {
				return nil, nil
			}
			continue
		}
		switch c.Occur {
		case lucene.Must:
			must = append(must, s)
		case lucene.MustNot:
			mustNot = append(mustNot, "-"+s)
		default:
			should = append(should, s)
		}
	}

	parts := must
	switch {
	case len(must) > 0:
		for _, s := range should {
			parts = append(parts, "~"+s)
		}
	case len(should) == 1:
		parts = append(parts, should[0])
	case len(should) > 1:
		parts = append(parts, "("+strings.Join(should, " | ")+")")
	default:
		// nothing positive to match
		return nil, nil
	}
	return append(parts, mustNot...), nil
}

func (r renderer) clause(q lucene.Query) (string, error) {
	switch n := q.(type) {
	case *lucene.Boolean:
		parts, err := r.boolean(unwrap(n))
		switch {
		case err != nil:
			return "", err
		case len(parts) == 1:
			return parts[0], nil
		case len(parts) > 1:
			return "(" + strings.Join(parts, " ") + ")", nil
		}
		return "", nil

	case *lucene.Term:
		if n.Text == "" {
			return "", nil
		}
		return withField(n.Field, escapeToken(n.Text)), nil

	case *lucene.Phrase:
		if len(n.Words) == 0 {
			return "", nil
		}
		words := make([]string, len(n.Words))
		for i, w := range n.Words {
			words[i] = escapeToken(w)
		}
		return withField(n.Field, `"`+strings.Join(words, " ")+`"`), nil

	case *lucene.Prefix:
		if n.Prefix == "" {
			return "", nil
		}
		if l := utf8.RuneCountInString(n.Prefix); l < r.minPrefix {
			return "", fmt.Errorf("%w: prefix %q has %d characters, at least %d required",
				domain.ErrInvalidQuery, n.Prefix, l, r.minPrefix)
		}
		return withField(n.Field, escapeToken(n.Prefix)+"*"), nil

	default:
		return "", fmt.Errorf("%w: unsupported query node %T", domain.ErrInvalidQuery, q)
	}
}

func withField(field, expr string) string {
	if field == "" {
		return expr
	}
	return "@" + escapeToken(field) + ":" + expr
}

// escapeToken backslash-escapes the characters the query engine treats as
// token separators or syntax.
func escapeToken(s string) string {
	return tokenEscaper.Replace(s)
}

var tokenEscaper = func() *strings.Replacer {
	const special = `\,.<>{}[]"':;!@#$%^&*()-+=~|/? `
	pairs := make([]string, 0, 2*len(special))
	for _, c := range special {
		pairs = append(pairs, string(c), `\`+string(c))
	}
	return strings.NewReplacer(pairs...)
}()
