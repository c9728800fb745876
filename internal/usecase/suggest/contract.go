package suggest

import (
	"context"

	"github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
)

// Repository defines the storage contract for suggestion lookups.
type Repository interface {
	Suggest(
		ctx context.Context, ref index.Ref, tree *lucene.Boolean,
		minPrefixLength, limit int,
	) ([]hit.Hit, int, error)
}

// Suggester is implemented by Service and its decorators.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (Result, error)
}
