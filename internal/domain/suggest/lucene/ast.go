// Package lucene parses Lucene-style boolean query expressions into a query tree.
package lucene

import "strings"

// Occur states how a clause participates in a Boolean query.
type Occur int

const (
	// Should clauses are optional; a Boolean with no Must clause needs one of them.
	Should Occur = iota
	// Must clauses are required.
	Must
	// MustNot clauses exclude matching documents.
	MustNot
)

func (o Occur) prefix() string {
	switch o {
	case Must:
		return "+"
	case MustNot:
		return "-"
	default:
		return ""
	}
}

// Query is a node of the parsed query tree.
type Query interface {
	// String renders the node back into expression syntax.
	String() string
	isQuery()
}

// Term matches a single word.
type Term struct {
	Field string
	Text  string
}

// Phrase matches consecutive words.
type Phrase struct {
	Field string
	Words []string
}

// Prefix matches words starting with Prefix.
type Prefix struct {
	Field  string
	Prefix string
}

// Clause is a Boolean sub-query with its occurrence.
type Clause struct {
	Query Query
	Occur Occur
}

// Boolean combines clauses.
type Boolean struct {
	Clauses []Clause
}

func (*Term) isQuery()    {}
func (*Phrase) isQuery()  {}
func (*Prefix) isQuery()  {}
func (*Boolean) isQuery() {}

func fieldPrefix(field string) string {
	if field == "" {
		return ""
	}
	return field + ":"
}

func (t *Term) String() string { return fieldPrefix(t.Field) + escape(t.Text) }

func (p *Phrase) String() string {
	return fieldPrefix(p.Field) + `"` + phraseEscaper.Replace(strings.Join(p.Words, " ")) + `"`
}

var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (p *Prefix) String() string { return fieldPrefix(p.Field) + escape(p.Prefix) + "*" }

func (b *Boolean) String() string {
	parts := make([]string, 0, len(b.Clauses))
	for _, c := range b.Clauses {
		s := c.Query.String()
		if _, nested := c.Query.(*Boolean); nested {
			s = "(" + s + ")"
		}
		parts = append(parts, c.Occur.prefix()+s)
	}
	return strings.Join(parts, " ")
}

// Add appends a clause and returns b.
func (b *Boolean) Add(q Query, occur Occur) *Boolean {
	b.Clauses = append(b.Clauses, Clause{Query: q, Occur: occur})
	return b
}

// IsEmpty reports whether b has no clauses.
func (b *Boolean) IsEmpty() bool { return len(b.Clauses) == 0 }

// MatchesNothing reports whether b can never match a document: it has no
// positive clause, or a required clause that itself matches nothing.
func (b *Boolean) MatchesNothing() bool {
	positive := false
	for _, c := range b.Clauses {
		switch c.Occur {
		case Must:
			if matchesNothing(c.Query) {
				return true
			}
			positive = true
		case Should:
			if !matchesNothing(c.Query) {
				positive = true
			}
		}
	}
	return !positive
}

func matchesNothing(q Query) bool {
	switch n := q.(type) {
	case *Boolean:
		return n.MatchesNothing()
	case *Phrase:
		return len(n.Words) == 0
	case *Term:
		return n.Text == ""
	case *Prefix:
		return n.Prefix == ""
	default:
		return q == nil
	}
}

// Required wraps q as the single required clause of a new Boolean query.
func Required(q Query) *Boolean {
	return (&Boolean{}).Add(q, Must)
}

// Walk calls fn for every leaf (Term, Phrase, Prefix) in q, depth first.
func Walk(q Query, fn func(Query)) {
	if b, ok := q.(*Boolean); ok {
		for _, c := range b.Clauses {
			Walk(c.Query, fn)
		}
		return
	}
	if q != nil {
		fn(q)
	}
}

var specialChars = `+-&|!(){}[]^"~*?:\/ `

func escape(s string) string {
	if !strings.ContainsAny(s, specialChars) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
