package index

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/suggestd/internal/domain"
	domdoc "github.com/kailas-cloud/suggestd/internal/domain/document"
	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/index/field"
)

// --- Mocks ---

type mockRepo struct {
	createErr error
	dropErr   error
	stats     domidx.Stats
	statsErr  error
	upsertErr error
	failAt    int
	removed   bool
	deleteErr error

	created     domidx.Index
	droppedRef  domidx.Ref
	droppedDocs bool
	chunks      [][]domdoc.Document
	lastRef     domidx.Ref
}

func (m *mockRepo) Create(_ context.Context, idx domidx.Index) error {
	m.created = idx
	return m.createErr
}

func (m *mockRepo) Drop(_ context.Context, ref domidx.Ref, deleteDocs bool) error {
	m.droppedRef, m.droppedDocs = ref, deleteDocs
	return m.dropErr
}

func (m *mockRepo) Stats(_ context.Context, ref domidx.Ref) (domidx.Stats, error) {
	m.lastRef = ref
	return m.stats, m.statsErr
}

func (m *mockRepo) Upsert(_ context.Context, ref domidx.Ref, docs []domdoc.Document) error {
	m.lastRef = ref
	if m.upsertErr != nil && len(m.chunks) == m.failAt {
		return m.upsertErr
	}
	m.chunks = append(m.chunks, docs)
	return nil
}

func (m *mockRepo) DeleteDocument(_ context.Context, ref domidx.Ref, _ string) (bool, error) {
	m.lastRef = ref
	return m.removed, m.deleteErr
}

func testFields(t *testing.T) []field.Field {
	t.Helper()
	title, err := field.New("title", field.Text)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	lang, err := field.New("lang", field.Tag)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return []field.Field{title, lang}
}

func testDocs(t *testing.T, n int) []domdoc.Document {
	t.Helper()
	docs := make([]domdoc.Document, n)
	for i := range docs {
		d, err := domdoc.New(fmt.Sprintf("sku-%d", i), map[string]string{"title": "item"})
		if err != nil {
			t.Fatalf("document.New: %v", err)
		}
		docs[i] = d
	}
	return docs
}

// --- Tests ---

func TestCreate(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, "suggestd:")

	idx, err := svc.Create(context.Background(), "products", "", testFields(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Ref().IndexName() != "suggestd:products:stable:idx" {
		t.Errorf("index name = %q", idx.Ref().IndexName())
	}
	if repo.created.Ref() != idx.Ref() {
		t.Error("index not passed to repository")
	}
}

func TestCreate_InvalidSchema(t *testing.T) {
	tag, _ := field.New("lang", field.Tag)
	tests := []struct {
		name     string
		database string
		fields   []field.Field
	}{
		{"no fields", "products", nil},
		{"no text field", "products", []field.Field{tag}},
		{"bad name", "bad name", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(&mockRepo{}, "suggestd:").Create(context.Background(), tc.database, "", tc.fields)
			if !errors.Is(err, domain.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestCreate_Exists(t *testing.T) {
	repo := &mockRepo{createErr: fmt.Errorf("%w: products/stable", domain.ErrIndexExists)}
	_, err := New(repo, "").Create(context.Background(), "products", "", testFields(t))
	if !errors.Is(err, domain.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestDrop(t *testing.T) {
	repo := &mockRepo{}
	if err := New(repo, "").Drop(context.Background(), "products", domidx.BaseGenesis, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.droppedRef.Base() != domidx.BaseGenesis || !repo.droppedDocs {
		t.Errorf("Drop(%s, %v)", repo.droppedRef, repo.droppedDocs)
	}
}

func TestStats(t *testing.T) {
	repo := &mockRepo{stats: domidx.Stats{Exists: true, Documents: 42}}
	stats, err := New(repo, "").Stats(context.Background(), "products", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Documents != 42 {
		t.Errorf("documents = %d", stats.Documents)
	}
}

func TestStats_Missing(t *testing.T) {
	_, err := New(&mockRepo{}, "").Stats(context.Background(), "products", "")
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestUpsert_Chunks(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, "").WithMaxBatchSize(2)

	stored, err := svc.Upsert(context.Background(), "products", "", testDocs(t, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != 5 {
		t.Errorf("stored = %d, want 5", stored)
	}
	sizes := make([]int, len(repo.chunks))
	for i, c := range repo.chunks {
		sizes[i] = len(c)
	}
	if fmt.Sprint(sizes) != "[2 2 1]" {
		t.Errorf("chunk sizes = %v", sizes)
	}
	if repo.chunks[2][0].ID() != "sku-4" {
		t.Errorf("last chunk starts with %q", repo.chunks[2][0].ID())
	}
}

func TestUpsert_PartialFailure(t *testing.T) {
	cause := domain.NewBackendError("store", context.DeadlineExceeded)
	repo := &mockRepo{upsertErr: cause, failAt: 1}
	svc := New(repo, "").WithMaxBatchSize(2)

	stored, err := svc.Upsert(context.Background(), "products", "", testDocs(t, 5))
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if stored != 2 {
		t.Errorf("stored = %d, want 2", stored)
	}
}

func TestWithMaxBatchSize_IgnoresNonPositive(t *testing.T) {
	svc := New(&mockRepo{}, "").WithMaxBatchSize(0)
	if svc.maxBatchSize != DefaultMaxBatchSize {
		t.Errorf("maxBatchSize = %d", svc.maxBatchSize)
	}
}

func TestDeleteDocument(t *testing.T) {
	repo := &mockRepo{removed: true}
	if err := New(repo, "").DeleteDocument(context.Background(), "products", "", "sku-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.removed = false
	err := New(repo, "").DeleteDocument(context.Background(), "products", "", "sku-1")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}
