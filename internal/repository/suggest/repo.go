package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/suggestd/internal/db"
	"github.com/kailas-cloud/suggestd/internal/domain"
	"github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
)

// store is the consumer interface for suggestion lookups (ISP).
type store interface {
	Suggest(ctx context.Context, q *db.SuggestQuery) (*db.SearchResult, error)
}

// Repo implements usecase/suggest.Repository.
type Repo struct {
	store        store
	returnFields []string
}

// New creates a suggestion repository. returnFields limits the stored fields
// returned with each hit; empty returns all of them.
func New(s store, returnFields ...string) *Repo {
	return &Repo{store: s, returnFields: returnFields}
}

// Suggest runs the query tree against the index addressed by ref.
// minPrefixLength and limit are sent with the request.
func (r *Repo) Suggest(
	ctx context.Context, ref index.Ref, tree *lucene.Boolean, minPrefixLength, limit int,
) ([]hit.Hit, int, error) {
	q := &db.SuggestQuery{
		IndexName:       ref.IndexName(),
		Query:           tree,
		MinPrefixLength: minPrefixLength,
		Limit:           limit,
		ReturnFields:    r.returnFields,
	}

	sr, err := r.store.Suggest(ctx, q)
	if err != nil {
		return nil, 0, mapError(ref, err)
	}
	if sr == nil {
		return nil, 0, nil
	}

	hits := make([]hit.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hits = append(hits, hit.New(ref.DocID(e.Key), e.Score, e.Fields))
	}
	return hits, sr.Total, nil
}

func mapError(ref index.Ref, err error) error {
	switch {
	case errors.Is(err, db.ErrIndexNotFound):
		return fmt.Errorf("%w: %s", domain.ErrIndexNotFound, ref)
	case errors.Is(err, domain.ErrInvalidQuery):
		return err
	case errors.Is(err, db.ErrSyntax):
		return fmt.Errorf("%w: %w", domain.ErrInvalidQuery, domain.NewBackendError("query rejected", err))
	default:
		return domain.NewBackendError(fmt.Sprintf("suggest %s", ref), err)
	}
}
