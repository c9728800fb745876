package suggestd

import (
	"context"

	domdoc "github.com/kailas-cloud/suggestd/internal/domain/document"
	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/index/field"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
	suggestuc "github.com/kailas-cloud/suggestd/internal/usecase/suggest"
)

// --- suggestUseCase mock ---

type mockSuggestUC struct {
	suggestFn func(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error)
}

func (m *mockSuggestUC) Suggest(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error) {
	return m.suggestFn(ctx, req)
}

// --- indexUseCase mock ---

type mockIndexUC struct {
	createFn func(ctx context.Context, database string, base domidx.Base, fields []field.Field) (domidx.Index, error)
	dropFn   func(ctx context.Context, database string, base domidx.Base, deleteDocs bool) error
	statsFn  func(ctx context.Context, database string, base domidx.Base) (domidx.Stats, error)
	upsertFn func(ctx context.Context, database string, base domidx.Base, docs []domdoc.Document) (int, error)
	deleteFn func(ctx context.Context, database string, base domidx.Base, id string) error
}

func (m *mockIndexUC) Create(
	ctx context.Context, database string, base domidx.Base, fields []field.Field,
) (domidx.Index, error) {
	return m.createFn(ctx, database, base, fields)
}

func (m *mockIndexUC) Drop(ctx context.Context, database string, base domidx.Base, deleteDocs bool) error {
	return m.dropFn(ctx, database, base, deleteDocs)
}

func (m *mockIndexUC) Stats(ctx context.Context, database string, base domidx.Base) (domidx.Stats, error) {
	return m.statsFn(ctx, database, base)
}

func (m *mockIndexUC) Upsert(
	ctx context.Context, database string, base domidx.Base, docs []domdoc.Document,
) (int, error) {
	return m.upsertFn(ctx, database, base, docs)
}

func (m *mockIndexUC) DeleteDocument(ctx context.Context, database string, base domidx.Base, id string) error {
	return m.deleteFn(ctx, database, base, id)
}

// --- backend mock ---

type mockBackend struct {
	pingErr error
	closed  bool
}

func (m *mockBackend) Ping(context.Context) error { return m.pingErr }

func (m *mockBackend) Close() { m.closed = true }

// --- suggestuc.Repository mock, for running the real pipeline ---

type mockSuggestRepo struct {
	calls int
	ref   domidx.Ref
	tree  *lucene.Boolean
	hits  []hit.Hit
	err   error
}

func (m *mockSuggestRepo) Suggest(
	_ context.Context, ref domidx.Ref, tree *lucene.Boolean, _, _ int,
) ([]hit.Hit, int, error) {
	m.calls++
	m.ref, m.tree = ref, tree
	return m.hits, len(m.hits), m.err
}

// --- helpers ---

func testClient(suggestSvc suggestUseCase, indexSvc indexUseCase) *Client {
	return &Client{
		suggestSvc:  suggestSvc,
		indexSvc:    indexSvc,
		defaults:    options.Default(),
		defaultBase: BaseStable,
	}
}

func pipelineClient(repo *mockSuggestRepo, hooks ...Hooks) *Client {
	svc := suggestuc.New(repo, suggestuc.Config{
		KeyPrefix: "test:",
		Defaults:  options.Default(),
		Hooks:     chainHooks(hooks),
	})
	return testClient(svc, nil)
}
