package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/suggestd/internal/domain"
	domdoc "github.com/kailas-cloud/suggestd/internal/domain/document"
	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/index/field"
	"github.com/kailas-cloud/suggestd/internal/logger"
	"github.com/kailas-cloud/suggestd/internal/metrics"
)

// DefaultMaxBatchSize is the number of documents written per pipeline.
const DefaultMaxBatchSize = 100

// Service provisions suggestion indexes and the documents they cover.
type Service struct {
	repo         Repository
	keyPrefix    string
	maxBatchSize int
}

// New creates an index service. keyPrefix is prepended to every index and document key.
func New(repo Repository, keyPrefix string) *Service {
	return &Service{repo: repo, keyPrefix: keyPrefix, maxBatchSize: DefaultMaxBatchSize}
}

// WithMaxBatchSize configures the number of documents per write pipeline.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Ref resolves a database name and base into an index reference.
func (s *Service) Ref(database string, base domidx.Base) (domidx.Ref, error) {
	ref, err := domidx.NewRef(s.keyPrefix, database, base)
	if err != nil {
		return domidx.Ref{}, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	return ref, nil
}

// Create validates the schema and creates the index.
func (s *Service) Create(
	ctx context.Context, database string, base domidx.Base, fields []field.Field,
) (domidx.Index, error) {
	ref, err := s.Ref(database, base)
	if err != nil {
		return domidx.Index{}, err
	}

	idx, err := domidx.New(ref, fields)
	if err != nil {
		return domidx.Index{}, fmt.Errorf("validate index: %w: %w", domain.ErrInvalidConfiguration, err)
	}

	if err := s.repo.Create(ctx, idx); err != nil {
		return domidx.Index{}, fmt.Errorf("create index: %w", err)
	}

	logger.FromContext(ctx).Info("Index created",
		zap.String("index", ref.String()),
		zap.Int("fields", len(fields)),
	)
	return idx, nil
}

// Drop removes the index. With deleteDocs the documents it covers are removed too.
func (s *Service) Drop(ctx context.Context, database string, base domidx.Base, deleteDocs bool) error {
	ref, err := s.Ref(database, base)
	if err != nil {
		return err
	}
	if err := s.repo.Drop(ctx, ref, deleteDocs); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}

	logger.FromContext(ctx).Info("Index dropped",
		zap.String("index", ref.String()),
		zap.Bool("delete_docs", deleteDocs),
	)
	return nil
}

// Stats reports whether the index exists and how many documents it holds.
// A missing index is reported as domain.ErrIndexNotFound.
func (s *Service) Stats(ctx context.Context, database string, base domidx.Base) (domidx.Stats, error) {
	ref, err := s.Ref(database, base)
	if err != nil {
		return domidx.Stats{}, err
	}

	stats, err := s.repo.Stats(ctx, ref)
	if err != nil {
		return domidx.Stats{}, fmt.Errorf("index stats: %w", err)
	}
	if !stats.Exists {
		return stats, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, ref)
	}
	return stats, nil
}

// Upsert stores documents in chunks of the configured batch size and returns
// how many were written. On failure the count covers the chunks already stored.
func (s *Service) Upsert(
	ctx context.Context, database string, base domidx.Base, docs []domdoc.Document,
) (int, error) {
	ref, err := s.Ref(database, base)
	if err != nil {
		return 0, err
	}

	stored := 0
	for offset := 0; offset < len(docs); offset += s.maxBatchSize {
		end := min(offset+s.maxBatchSize, len(docs))
		chunk := docs[offset:end]

		if err := s.repo.Upsert(ctx, ref, chunk); err != nil {
			logger.FromContext(ctx).Error("Document upsert failed",
				zap.String("index", ref.String()),
				zap.Int("chunk_offset", offset),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return stored, fmt.Errorf("upsert documents %d-%d: %w", offset, end-1, err)
		}
		stored += len(chunk)
		metrics.DocumentsUpsertedTotal.WithLabelValues(database).Add(float64(len(chunk)))
	}
	return stored, nil
}

// DeleteDocument removes one document. A missing document is reported as
// domain.ErrDocumentNotFound.
func (s *Service) DeleteDocument(ctx context.Context, database string, base domidx.Base, id string) error {
	ref, err := s.Ref(database, base)
	if err != nil {
		return err
	}

	removed, err := s.repo.DeleteDocument(ctx, ref, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: %s in %s", domain.ErrDocumentNotFound, id, ref)
	}
	return nil
}
