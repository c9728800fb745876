package lucene

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/suggestd/internal/domain"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokPhrase
	tokField
	tokPlus
	tokMinus
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of query"
	case tokWord:
		return "word"
	case tokPhrase:
		return "phrase"
	case tokField:
		return "field"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokNot:
		return "NOT"
	default:
		return "unknown"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int

	// word tokens only
	prefix        bool // single trailing unescaped '*'
	innerWildcard bool // '*' or '?' anywhere else
}

type lexer struct {
	src string
	pos int
	// afterSign lets a word start with '+' or '-' right after a sign token.
	afterSign bool
}

func syntaxError(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: at offset %d: %s", domain.ErrInvalidQuery, pos, fmt.Sprintf(format, args...))
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos:])
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	for {
		r, size := l.peekRune()
		if size == 0 || !unicode.IsSpace(r) {
			break
		}
		l.pos += size
		l.afterSign = false
	}

	start := l.pos
	r, size := l.peekRune()
	if size == 0 {
		return token{kind: tokEOF, pos: start}, nil
	}

	signAllowed := !l.afterSign
	l.afterSign = false

	switch {
	case r == '(':
		l.pos += size
		return token{kind: tokLParen, pos: start}, nil
	case r == ')':
		l.pos += size
		return token{kind: tokRParen, pos: start}, nil
	case r == '"':
		return l.phrase()
	case (r == '+' || r == '-') && signAllowed && l.signFollowedByOperand():
		l.pos += size
		l.afterSign = true
		if r == '+' {
			return token{kind: tokPlus, pos: start}, nil
		}
		return token{kind: tokMinus, pos: start}, nil
	case strings.HasPrefix(l.src[l.pos:], "&&"):
		l.pos += 2
		return token{kind: tokAnd, pos: start}, nil
	case strings.HasPrefix(l.src[l.pos:], "||"):
		l.pos += 2
		return token{kind: tokOr, pos: start}, nil
	}

	return l.word()
}

// signFollowedByOperand reports whether the sign at l.pos directly precedes
// something other than whitespace or the end of input.
func (l *lexer) signFollowedByOperand() bool {
	if l.pos+1 >= len(l.src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+1:])
	return !unicode.IsSpace(r)
}

func (l *lexer) phrase() (token, error) {
	start := l.pos
	l.pos++ // opening quote

	var b strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 {
			return token{}, syntaxError(start, "unterminated phrase")
		}
		l.pos += size
		switch r {
		case '"':
			return token{kind: tokPhrase, text: b.String(), pos: start}, nil
		case '\\':
			esc, escSize := l.peekRune()
			if escSize == 0 {
				return token{}, syntaxError(l.pos, "dangling escape")
			}
			l.pos += escSize
			b.WriteRune(esc)
		default:
			b.WriteRune(r)
		}
	}
}

func (l *lexer) word() (token, error) {
	start := l.pos

	var b strings.Builder
	escaped := false
	wildcards := 0
	trailingStar := false

	for {
		r, size := l.peekRune()
		if size == 0 || unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' {
			break
		}
		if r == '\\' {
			l.pos += size
			esc, escSize := l.peekRune()
			if escSize == 0 {
				return token{}, syntaxError(l.pos, "dangling escape")
			}
			l.pos += escSize
			b.WriteRune(esc)
			escaped = true
			trailingStar = false
			continue
		}
		if r == ':' && b.Len() > 0 && !escaped && wildcards == 0 && isFieldName(b.String()) {
			l.pos += size
			return token{kind: tokField, text: b.String(), pos: start}, nil
		}
		l.pos += size
		b.WriteRune(r)
		trailingStar = false
		if r == '*' || r == '?' {
			wildcards++
			trailingStar = r == '*'
		}
	}

	text := b.String()
	if !escaped && wildcards == 0 {
		switch text {
		case "AND":
			return token{kind: tokAnd, pos: start}, nil
		case "OR":
			return token{kind: tokOr, pos: start}, nil
		case "NOT":
			return token{kind: tokNot, pos: start}, nil
		}
	}

	tok := token{kind: tokWord, text: text, pos: start}
	switch {
	case wildcards == 1 && trailingStar:
		tok.prefix = true
		tok.text = strings.TrimSuffix(text, "*")
	case wildcards > 0:
		tok.innerWildcard = true
	}
	return tok, nil
}

func isFieldName(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return false
		}
	}
	return s != ""
}
