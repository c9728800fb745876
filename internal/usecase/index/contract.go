package index

import (
	"context"

	domdoc "github.com/kailas-cloud/suggestd/internal/domain/document"
	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
)

// Repository defines the storage contract for index provisioning.
type Repository interface {
	Create(ctx context.Context, idx domidx.Index) error
	Drop(ctx context.Context, ref domidx.Ref, deleteDocs bool) error
	Stats(ctx context.Context, ref domidx.Ref) (domidx.Stats, error)
	Upsert(ctx context.Context, ref domidx.Ref, docs []domdoc.Document) error
	DeleteDocument(ctx context.Context, ref domidx.Ref, id string) (bool, error)
}
