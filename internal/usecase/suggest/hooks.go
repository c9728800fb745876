package suggest

import (
	"context"

	"github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
)

// Hooks are extension points called by Service in a fixed order:
// PreExecute, CleanTerm, PostParse, PostBuild, PostExecute.
// Any of them may be nil.
type Hooks struct {
	// PreExecute may swap the index a request runs against.
	PreExecute func(ctx context.Context, ref index.Ref) index.Ref
	// CleanTerm normalizes the raw query before the expression is built.
	CleanTerm func(ctx context.Context, raw string) string
	// PostParse may replace the built expression.
	PostParse func(ctx context.Context, cleanTerm, expr string) string
	// PostBuild may rewrite the query tree before it is submitted.
	// Returning nil drops the query.
	PostBuild func(ctx context.Context, q *lucene.Boolean, cleanTerm string) *lucene.Boolean
	// PostExecute may filter or reorder the hits.
	PostExecute func(ctx context.Context, hits []hit.Hit) []hit.Hit
}

// Chain composes hooks left to right: each hook receives the output of the previous one.
func Chain(hooks ...Hooks) Hooks {
	var out Hooks
	for _, h := range hooks {
		if h.PreExecute != nil {
			prev, next := out.PreExecute, h.PreExecute
			out.PreExecute = func(ctx context.Context, ref index.Ref) index.Ref {
				if prev != nil {
					ref = prev(ctx, ref)
				}
				return next(ctx, ref)
			}
		}
		if h.CleanTerm != nil {
			prev, next := out.CleanTerm, h.CleanTerm
			out.CleanTerm = func(ctx context.Context, raw string) string {
				if prev != nil {
					raw = prev(ctx, raw)
				}
				return next(ctx, raw)
			}
		}
		if h.PostParse != nil {
			prev, next := out.PostParse, h.PostParse
			out.PostParse = func(ctx context.Context, cleanTerm, expr string) string {
				if prev != nil {
					expr = prev(ctx, cleanTerm, expr)
				}
				return next(ctx, cleanTerm, expr)
			}
		}
		if h.PostBuild != nil {
			prev, next := out.PostBuild, h.PostBuild
			out.PostBuild = func(ctx context.Context, q *lucene.Boolean, cleanTerm string) *lucene.Boolean {
				if prev != nil {
					q = prev(ctx, q, cleanTerm)
				}
				return next(ctx, q, cleanTerm)
			}
		}
		if h.PostExecute != nil {
			prev, next := out.PostExecute, h.PostExecute
			out.PostExecute = func(ctx context.Context, hits []hit.Hit) []hit.Hit {
				if prev != nil {
					hits = prev(ctx, hits)
				}
				return next(ctx, hits)
			}
		}
	}
	return out
}

func (h Hooks) preExecute(ctx context.Context, ref index.Ref) index.Ref {
	if h.PreExecute == nil {
		return ref
	}
	return h.PreExecute(ctx, ref)
}

func (h Hooks) cleanTerm(ctx context.Context, raw string) string {
	if h.CleanTerm == nil {
		return raw
	}
	return h.CleanTerm(ctx, raw)
}

func (h Hooks) postParse(ctx context.Context, cleanTerm, expr string) string {
	if h.PostParse == nil {
		return expr
	}
	return h.PostParse(ctx, cleanTerm, expr)
}

func (h Hooks) postBuild(ctx context.Context, q *lucene.Boolean, cleanTerm string) *lucene.Boolean {
	if h.PostBuild == nil {
		return q
	}
	return h.PostBuild(ctx, q, cleanTerm)
}

func (h Hooks) postExecute(ctx context.Context, hits []hit.Hit) []hit.Hit {
	if h.PostExecute == nil {
		return hits
	}
	return h.PostExecute(ctx, hits)
}
