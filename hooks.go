package suggestd

import (
	"context"
	"strings"

	"github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
	suggestuc "github.com/kailas-cloud/suggestd/internal/usecase/suggest"
)

// IndexRef names the index a lookup runs against.
type IndexRef struct {
	Name string
	Base Base
}

// Hooks are extension points around every lookup, called in this order:
// PreExecute, CleanTerm, PostParse, PostBuild, PostExecute. Any of them may be nil.
type Hooks struct {
	// PreExecute may redirect the lookup to another index. An invalid
	// reference is ignored.
	PreExecute func(ctx context.Context, ref IndexRef) IndexRef
	// CleanTerm normalizes the raw input before the expression is built.
	CleanTerm func(ctx context.Context, raw string) string
	// PostParse may replace the built expression.
	PostParse func(ctx context.Context, cleanTerm, expr string) string
	// PostBuild sees the parsed query in canonical form and may rewrite it.
	// An empty or unparseable result drops the query: no hits, no backend call.
	PostBuild func(ctx context.Context, query, cleanTerm string) string
	// PostExecute may filter or reorder the hits.
	PostExecute func(ctx context.Context, hits []Hit) []Hit
}

func (h Hooks) internal() suggestuc.Hooks {
	var out suggestuc.Hooks
	out.CleanTerm = h.CleanTerm
	out.PostParse = h.PostParse

	if pre := h.PreExecute; pre != nil {
		out.PreExecute = func(ctx context.Context, ref index.Ref) index.Ref {
			next := pre(ctx, IndexRef{Name: ref.Database(), Base: Base(ref.Base())})
			redirected, err := index.NewRef(ref.KeyPrefix(), next.Name, index.Base(next.Base))
			if err != nil {
				return ref
			}
			return redirected
		}
	}

	if post := h.PostBuild; post != nil {
		out.PostBuild = func(ctx context.Context, q *lucene.Boolean, cleanTerm string) *lucene.Boolean {
			if q == nil {
				return nil
			}
			in := q.String()
			rewritten := post(ctx, in, cleanTerm)
			if rewritten == in {
				return q
			}
			if strings.TrimSpace(rewritten) == "" {
				return nil
			}
			tree, err := lucene.Parse(rewritten)
			if err != nil {
				return nil
			}
			return tree
		}
	}

	if post := h.PostExecute; post != nil {
		out.PostExecute = func(ctx context.Context, hits []hit.Hit) []hit.Hit {
			return toInternalHits(post(ctx, fromInternalHits(hits)))
		}
	}
	return out
}

func chainHooks(hooks []Hooks) suggestuc.Hooks {
	converted := make([]suggestuc.Hooks, len(hooks))
	for i, h := range hooks {
		converted[i] = h.internal()
	}
	return suggestuc.Chain(converted...)
}
