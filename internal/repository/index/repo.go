package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/suggestd/internal/db"
	"github.com/kailas-cloud/suggestd/internal/domain"
	domdoc "github.com/kailas-cloud/suggestd/internal/domain/document"
	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/index/field"
)

// store is the consumer interface for index provisioning (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create runs FT.CREATE over the document prefix of idx.
func (r *Repo) Create(ctx context.Context, idx domidx.Index) error {
	def, err := buildIndex(idx)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("%w: %s", domain.ErrIndexExists, idx.Ref())
		}
		return domain.NewBackendError(fmt.Sprintf("create index %s", idx.Ref()), err)
	}
	return nil
}

// Drop removes the index and, with deleteDocs, every document it covers.
func (r *Repo) Drop(ctx context.Context, ref domidx.Ref, deleteDocs bool) error {
	if err := r.store.DropIndex(ctx, ref.IndexName(), deleteDocs); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrIndexNotFound, ref)
		}
		return domain.NewBackendError(fmt.Sprintf("drop index %s", ref), err)
	}
	return nil
}

// Stats reports whether the index exists and how many documents it holds.
func (r *Repo) Stats(ctx context.Context, ref domidx.Ref) (domidx.Stats, error) {
	stats := domidx.Stats{Ref: ref}

	exists, err := r.store.IndexExists(ctx, ref.IndexName())
	if err != nil {
		return stats, domain.NewBackendError(fmt.Sprintf("inspect index %s", ref), err)
	}
	if !exists {
		return stats, nil
	}
	stats.Exists = true

	count, err := r.store.SearchCount(ctx, ref.IndexName(), "*")
	if err != nil {
		return stats, domain.NewBackendError(fmt.Sprintf("count documents %s", ref), err)
	}
	stats.Documents = count
	return stats, nil
}

// Upsert stores documents as hashes under the index document prefix in one pipeline.
func (r *Repo) Upsert(ctx context.Context, ref domidx.Ref, docs []domdoc.Document) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(docs))
	for i := range docs {
		items[i] = db.HashSetItem{Key: ref.DocKey(docs[i].ID()), Fields: docs[i].Fields()}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return domain.NewBackendError(fmt.Sprintf("store %d documents in %s", len(docs), ref), err)
	}
	return nil
}

// DeleteDocument removes one document and reports whether it existed.
func (r *Repo) DeleteDocument(ctx context.Context, ref domidx.Ref, id string) (bool, error) {
	removed, err := r.store.Del(ctx, ref.DocKey(id))
	if err != nil {
		return false, domain.NewBackendError(fmt.Sprintf("delete document %s in %s", id, ref), err)
	}
	return removed, nil
}

// buildIndex maps the domain schema onto an FT.CREATE definition.
func buildIndex(idx domidx.Index) (*db.IndexDefinition, error) {
	ref := idx.Ref()
	b := db.NewIndex(ref.IndexName()).Prefix(ref.DocPrefix())

	for _, f := range idx.Fields() {
		switch f.FieldType() {
		case field.Text:
			b.Text(f.Name())
		case field.Tag:
			b.Tag(f.Name())
		case field.Numeric:
			b.Numeric(f.Name())
		default:
			return nil, fmt.Errorf("unsupported field type %q for %q", f.FieldType(), f.Name())
		}
	}

	return b.Build()
}
