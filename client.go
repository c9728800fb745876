package suggestd

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/suggestd/internal/db/redis"
	domdoc "github.com/kailas-cloud/suggestd/internal/domain/document"
	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/index/field"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
	indexrepo "github.com/kailas-cloud/suggestd/internal/repository/index"
	suggestrepo "github.com/kailas-cloud/suggestd/internal/repository/suggest"
	indexuc "github.com/kailas-cloud/suggestd/internal/usecase/index"
	suggestuc "github.com/kailas-cloud/suggestd/internal/usecase/suggest"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "suggestd:"
)

// Internal interfaces, substituted in tests.
type suggestUseCase interface {
	Suggest(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error)
}

type indexUseCase interface {
	Create(ctx context.Context, database string, base domidx.Base, fields []field.Field) (domidx.Index, error)
	Drop(ctx context.Context, database string, base domidx.Base, deleteDocs bool) error
	Stats(ctx context.Context, database string, base domidx.Base) (domidx.Stats, error)
	Upsert(ctx context.Context, database string, base domidx.Base, docs []domdoc.Document) (int, error)
	DeleteDocument(ctx context.Context, database string, base domidx.Base, id string) error
}

type backend interface {
	Ping(ctx context.Context) error
	Close()
}

// Client is the suggestd SDK entry point.
type Client struct {
	store       backend
	suggestSvc  suggestUseCase
	indexSvc    indexUseCase
	defaults    options.Options
	defaultBase Base
	obs         *observer
}

// New creates a Client and connects to Redis.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("suggestd: database address required (use WithRedis)")
	}

	defaults, err := cfg.defaults.apply(options.Default())
	if err != nil {
		return nil, fmt.Errorf("suggestd: default query options: %w", err)
	}
	defaultBase, err := resolveBase(cfg.defaultBase, BaseStable)
	if err != nil {
		return nil, fmt.Errorf("suggestd: default %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("suggestd: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("suggestd: database not ready: %w", err)
	}

	suggestSvc := suggestuc.New(suggestrepo.New(store, cfg.returnFields...), suggestuc.Config{
		KeyPrefix:     cfg.keyPrefix,
		DefaultBase:   defaultBase,
		Defaults:      defaults,
		StrictParsing: cfg.strictParsing,
		Hooks:         chainHooks(cfg.hooks),
	})
	indexSvc := indexuc.New(indexrepo.New(store), cfg.keyPrefix)
	if cfg.maxBatchSize > 0 {
		indexSvc = indexSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	return &Client{
		store:       store,
		suggestSvc:  suggestSvc,
		indexSvc:    indexSvc,
		defaults:    defaults,
		defaultBase: Base(defaultBase),
		obs:         obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Suggest starts a lookup against the named index.
func (c *Client) Suggest(index string) *SuggestBuilder {
	return &SuggestBuilder{
		index:    index,
		svc:      c.suggestSvc,
		defaults: c.defaults,
		obs:      c.obs,
	}
}

// Indexes returns the index management service.
func (c *Client) Indexes() *IndexService {
	return &IndexService{svc: c.indexSvc, defaultBase: c.defaultBase, obs: c.obs}
}
