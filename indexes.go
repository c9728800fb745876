package suggestd

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/suggestd/internal/domain/document"
)

// IndexService provisions suggestion indexes and the documents they cover.
// An empty Base selects the client default.
type IndexService struct {
	svc         indexUseCase
	defaultBase Base
	obs         *observer
}

// Create creates an index with the given schema.
func (s *IndexService) Create(
	ctx context.Context, name string, base Base, fields ...Field,
) (_ IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.create", start, err, "index", name) }()

	b, err := resolveBase(base, s.defaultBase)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create index: %w", err)
	}
	ff, err := toInternalFields(fields)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create index: %w", err)
	}

	idx, err := s.svc.Create(ctx, name, b, ff)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create index: %w", err)
	}
	return fromInternalIndex(idx), nil
}

// Drop removes the index. With deleteDocs its documents are removed too.
func (s *IndexService) Drop(ctx context.Context, name string, base Base, deleteDocs bool) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.drop", start, err, "index", name) }()

	b, err := resolveBase(base, s.defaultBase)
	if err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	if err := s.svc.Drop(ctx, name, b, deleteDocs); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// Stats returns the document count of an existing index.
func (s *IndexService) Stats(ctx context.Context, name string, base Base) (_ IndexStats, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.stats", start, err, "index", name) }()

	b, err := resolveBase(base, s.defaultBase)
	if err != nil {
		return IndexStats{}, fmt.Errorf("index stats: %w", err)
	}
	st, err := s.svc.Stats(ctx, name, b)
	if err != nil {
		return IndexStats{}, fmt.Errorf("index stats: %w", err)
	}
	return IndexStats{Name: st.Ref.Database(), Base: Base(st.Ref.Base()), Documents: st.Documents}, nil
}

// Upsert stores documents and returns how many were written.
// On failure the count covers the batches already stored.
func (s *IndexService) Upsert(ctx context.Context, name string, base Base, docs []Document) (_ int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.upsert", start, err, "index", name, "documents", len(docs)) }()

	b, err := resolveBase(base, s.defaultBase)
	if err != nil {
		return 0, fmt.Errorf("upsert documents: %w", err)
	}

	domDocs := make([]domdoc.Document, 0, len(docs))
	for i, d := range docs {
		dd, err := domdoc.New(d.ID, d.Fields)
		if err != nil {
			return 0, fmt.Errorf("upsert documents: %w: document %d: %v", ErrInvalidDocument, i, err)
		}
		domDocs = append(domDocs, dd)
	}

	stored, err := s.svc.Upsert(ctx, name, b, domDocs)
	if err != nil {
		return stored, fmt.Errorf("upsert documents: %w", err)
	}
	return stored, nil
}

// DeleteDocument removes one document.
func (s *IndexService) DeleteDocument(ctx context.Context, name string, base Base, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.delete_document", start, err, "index", name) }()

	b, err := resolveBase(base, s.defaultBase)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if err := s.svc.DeleteDocument(ctx, name, b, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
