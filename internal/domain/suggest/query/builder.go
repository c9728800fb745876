// Package query turns raw search-as-you-type input into a boolean query expression.
//
// Every surviving term but the last is rendered as a required phrase; the last
// one is rendered as a required prefix match because the user is assumed to
// still be typing it.
package query

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
)

const termSeparator = " "

// Terms splits raw on single spaces and drops tokens shorter than the
// minimum prefix length. Order is preserved; empty tokens never survive.
func Terms(raw string, opts options.Options) []string {
	minLen := opts.MinPrefixLength()
	tokens := strings.Split(raw, termSeparator)

	terms := tokens[:0]
	for _, t := range tokens {
		if utf8.RuneCountInString(t) >= minLen {
			terms = append(terms, t)
		}
	}
	return terms
}

// Build renders raw into the backend's boolean query syntax.
//
//	Build("cat dog elephant", opts)        -> +"cat" +"dog" +elephant*
//	Build("cat dog", title,body with AND)  -> title:+"cat" +dog* AND body:+"cat" +dog*
//
// Zero surviving terms yield an empty terms expression.
func Build(raw string, opts options.Options) string {
	termsExpr := renderTerms(Terms(raw, opts))

	fields := opts.RestrictSearchFields()
	if len(fields) == 0 {
		return termsExpr
	}

	perField := make([]string, len(fields))
	for i, f := range fields {
		perField[i] = f + ":" + termsExpr
	}
	return strings.Join(perField, " "+string(opts.Operator())+" ")
}

func renderTerms(terms []string) string {
	var b strings.Builder
	last := len(terms) - 1
	for i, t := range terms {
		if i > 0 {
			b.WriteString(termSeparator)
		}
		if i == last {
			b.WriteString("+")
			b.WriteString(t)
			b.WriteString("*")
			continue
		}
		b.WriteString(`+"`)
		b.WriteString(t)
		b.WriteString(`"`)
	}
	return b.String()
}
