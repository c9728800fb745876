package suggest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/suggestd/internal/domain"
	"github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/query"
	"github.com/kailas-cloud/suggestd/internal/logger"
)

// Request is one search-as-you-type lookup.
type Request struct {
	// Index is the database name the suggestion index was created for.
	Index string
	// Base selects the physical index. Empty uses Config.DefaultBase.
	Base index.Base
	// Query is the raw user input.
	Query string
	// Options overrides Config.Defaults when set.
	Options *options.Options
}

// Result holds the expression that was executed and the hits it produced.
type Result struct {
	Query string
	Hits  []hit.Hit
	Total int
}

// Config configures a Service.
type Config struct {
	KeyPrefix     string
	DefaultBase   index.Base
	Defaults      options.Options
	StrictParsing bool
	Hooks         Hooks
}

// Service turns raw user input into a query and runs it against a suggestion index.
type Service struct {
	repo Repository
	cfg  Config
}

// New creates a suggestion service.
func New(repo Repository, cfg Config) *Service {
	if cfg.DefaultBase == "" {
		cfg.DefaultBase = index.BaseStable
	}
	return &Service{repo: repo, cfg: cfg}
}

// Suggest builds the query for req.Query, runs it and returns the hits.
// A query that cannot match anything returns no hits without touching the backend.
func (s *Service) Suggest(ctx context.Context, req Request) (Result, error) {
	base := req.Base
	if base == "" {
		base = s.cfg.DefaultBase
	}
	ref, err := index.NewRef(s.cfg.KeyPrefix, req.Index, base)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}

	opts := s.cfg.Defaults
	if req.Options != nil {
		opts = *req.Options
	}

	ref = s.cfg.Hooks.preExecute(ctx, ref)
	ctx = logger.WithFields(ctx, zap.String("index", ref.IndexName()))
	clean := s.cfg.Hooks.cleanTerm(ctx, req.Query)
	expr := s.cfg.Hooks.postParse(ctx, clean, query.Build(clean, opts))

	tree, err := s.parse(expr)
	if err != nil {
		return Result{Query: expr}, fmt.Errorf("parse %q: %w", expr, err)
	}
	q := s.cfg.Hooks.postBuild(ctx, lucene.Required(tree), clean)

	var (
		hits  []hit.Hit
		total int
	)
	if q == nil || q.MatchesNothing() {
		logger.FromContext(ctx).Debug("Query matches nothing, skipping backend", zap.String("query", expr))
	} else {
		hits, total, err = s.repo.Suggest(ctx, ref, q, opts.MinPrefixLength(), opts.ResultLimit())
		if err != nil {
			return Result{Query: expr}, fmt.Errorf("suggest: %w", err)
		}
	}

	hits = s.cfg.Hooks.postExecute(ctx, hits)
	if hits == nil {
		hits = []hit.Hit{}
	}
	return Result{Query: expr, Hits: hits, Total: total}, nil
}

func (s *Service) parse(expr string) (*lucene.Boolean, error) {
	if s.cfg.StrictParsing {
		return lucene.Parse(expr)
	}
	return lucene.ParseLenient(expr)
}
