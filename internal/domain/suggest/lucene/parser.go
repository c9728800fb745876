package lucene

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/suggestd/internal/domain"
)

// Parse parses expr into a Boolean query tree.
//
// Supported syntax: words, "quoted phrases", a single trailing '*' for prefix
// matches, +/- signs, field: prefixes, parentheses and the AND / OR / NOT
// operators (also && and ||). A field applies to the next clause, except when
// it is directly followed by a sign: then it restricts the whole run of
// clauses up to the next AND, OR or ')', which becomes one grouped clause.
// An empty expression yields an empty Boolean.
func Parse(expr string) (*Boolean, error) {
	return parse(expr, false)
}

// ParseLenient parses expr like Parse, with two relaxations. Wildcards the
// engine cannot run are dropped from the word: a word ending in '*' after
// them stays a prefix match, a word with a wildcard in the middle matches
// exactly. Any other syntax error falls back to a Boolean of optional terms
// built from the letter and digit runs of expr.
func ParseLenient(expr string) (*Boolean, error) {
	b, err := parse(expr, true)
	if err == nil {
		return b, nil
	}

	fallback := &Boolean{}
	for _, w := range plainWords(expr) {
		fallback.Add(&Term{Text: w}, Should)
	}
	return fallback, nil
}

func parse(expr string, dropWildcards bool) (*Boolean, error) {
	lx := &lexer{src: expr}
	toks, err := lx.tokens()
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks, dropWildcards: dropWildcards}
	b, err := p.parseBoolean(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, syntaxError(tok.pos, "unexpected %s", tok.kind)
	}
	return b, nil
}

var errUnsupportedWildcard = errors.New("only a single trailing '*' wildcard is supported")

func plainWords(s string) []string {
	var words []string
	start := -1
	for i, r := range s {
		isWordRune := unicode.IsLetter(r) || unicode.IsDigit(r)
		switch {
		case isWordRune && start < 0:
			start = i
		case !isWordRune && start >= 0:
			words = append(words, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}

type parser struct {
	toks []token
	pos  int

	dropWildcards bool
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

type parsedClause struct {
	Clause
	explicit bool
}

func (p *parser) parseBoolean(depth int) (*Boolean, error) {
	var (
		clauses []parsedClause
		conj    tokenKind // tokAnd, tokOr or tokEOF for none
		conjPos int
	)

	for {
		tok := p.peek()
		if tok.kind == tokEOF || (tok.kind == tokRParen && depth > 0) {
			break
		}

		if tok.kind == tokAnd || tok.kind == tokOr {
			if len(clauses) == 0 {
				return nil, syntaxError(tok.pos, "%s without left operand", tok.kind)
			}
			if conj != tokEOF {
				return nil, syntaxError(tok.pos, "%s follows %s", tok.kind, conj)
			}
			conj, conjPos = tok.kind, tok.pos
			p.advance()
			continue
		}

		negate := false
		if tok.kind == tokNot {
			negate = true
			p.advance()
		}

		c, err := p.parseClause(depth)
		if err != nil {
			return nil, err
		}
		if negate {
			c.Occur, c.explicit = MustNot, true
		}

		if conj == tokAnd {
			last := &clauses[len(clauses)-1]
			if !last.explicit {
				last.Occur = Must
			}
			if !c.explicit {
				c.Occur = Must
			}
		}
		conj = tokEOF
		clauses = append(clauses, c)
	}

	if conj != tokEOF {
		return nil, syntaxError(conjPos, "%s without right operand", conj)
	}

	b := &Boolean{Clauses: make([]Clause, len(clauses))}
	for i, c := range clauses {
		b.Clauses[i] = c.Clause
	}
	return b, nil
}

func (p *parser) parseClause(depth int) (parsedClause, error) {
	var c parsedClause
	c.Occur = Should

	switch p.peek().kind {
	case tokPlus:
		c.Occur, c.explicit = Must, true
		p.advance()
	case tokMinus:
		c.Occur, c.explicit = MustNot, true
		p.advance()
	}

	field := ""
	if tok := p.peek(); tok.kind == tokField {
		field = tok.text
		p.advance()
		if next := p.peek().kind; !c.explicit && (next == tokPlus || next == tokMinus) {
			run, err := p.parseRun(depth)
			if err != nil {
				return c, err
			}
			applyField(run, field)
			c.Query = run
			return c, nil
		}
	}

	tok := p.peek()
	switch tok.kind {
	case tokEOF, tokRParen, tokAnd, tokOr:
		if field == "" {
			return c, syntaxError(tok.pos, "unexpected %s", tok.kind)
		}
		// "title:" with nothing after it restricts an empty clause.
		c.Query = &Phrase{Field: field}
		return c, nil
	}
	p.advance()

	switch tok.kind {
	case tokWord:
		q, err := p.wordQuery(tok, field)
		if err != nil {
			return c, err
		}
		c.Query = q

	case tokPhrase:
		c.Query = &Phrase{Field: field, Words: strings.Fields(tok.text)}

	case tokLParen:
		sub, err := p.parseBoolean(depth + 1)
		if err != nil {
			return c, err
		}
		if closing := p.advance(); closing.kind != tokRParen {
			return c, syntaxError(closing.pos, "missing ')'")
		}
		if field != "" {
			applyField(sub, field)
		}
		c.Query = sub

	default:
		return c, syntaxError(tok.pos, "unexpected %s", tok.kind)
	}

	return c, nil
}

// parseRun parses the clauses up to the next AND, OR, ')' or the end of input.
func (p *parser) parseRun(depth int) (*Boolean, error) {
	run := &Boolean{}
	for {
		switch p.peek().kind {
		case tokEOF, tokRParen, tokAnd, tokOr:
			return run, nil
		}

		negate := false
		if p.peek().kind == tokNot {
			negate = true
			p.advance()
		}
		c, err := p.parseClause(depth)
		if err != nil {
			return nil, err
		}
		if negate {
			c.Occur = MustNot
		}
		run.Add(c.Query, c.Occur)
	}
}

func (p *parser) wordQuery(tok token, field string) (Query, error) {
	if tok.innerWildcard {
		if p.dropWildcards {
			return withoutWildcards(tok, field)
		}
		return nil, fmt.Errorf("%w: at offset %d: %w in %q",
			domain.ErrInvalidQuery, tok.pos, errUnsupportedWildcard, tok.text)
	}
	if tok.prefix {
		if tok.text == "" {
			return nil, syntaxError(tok.pos, "wildcard without prefix")
		}
		return &Prefix{Field: field, Prefix: tok.text}, nil
	}
	return &Term{Field: field, Text: tok.text}, nil
}

// withoutWildcards strips '*' and '?' from tok. Trailing wildcards that
// include a '*' keep the prefix match.
func withoutWildcards(tok token, field string) (Query, error) {
	body := strings.TrimRight(tok.text, "*?")
	text := wildcardStripper.Replace(body)
	if text == "" {
		return nil, syntaxError(tok.pos, "wildcard without text")
	}
	if text == body && strings.Contains(tok.text[len(body):], "*") {
		return &Prefix{Field: field, Prefix: text}, nil
	}
	return &Term{Field: field, Text: text}, nil
}

var wildcardStripper = strings.NewReplacer("*", "", "?", "")

func applyField(b *Boolean, field string) {
	for _, c := range b.Clauses {
		switch n := c.Query.(type) {
		case *Boolean:
			applyField(n, field)
		case *Term:
			if n.Field == "" {
				n.Field = field
			}
		case *Phrase:
			if n.Field == "" {
				n.Field = field
			}
		case *Prefix:
			if n.Field == "" {
				n.Field = field
			}
		}
	}
}
