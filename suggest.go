package suggestd

import (
	"context"
	"fmt"
	"time"

	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
	suggestuc "github.com/kailas-cloud/suggestd/internal/usecase/suggest"
)

// SuggestBuilder is a fluent builder for one lookup.
type SuggestBuilder struct {
	svc      suggestUseCase
	defaults options.Options
	obs      *observer

	index     string
	base      Base
	query     string
	overrides QueryOptions
}

// Query sets the raw user input.
func (b *SuggestBuilder) Query(q string) *SuggestBuilder {
	b.query = q
	return b
}

// Base selects the physical index. The client default is used otherwise.
func (b *SuggestBuilder) Base(base Base) *SuggestBuilder {
	b.base = base
	return b
}

// MinPrefixLength drops input terms shorter than n characters.
func (b *SuggestBuilder) MinPrefixLength(n int) *SuggestBuilder {
	b.overrides.MinPrefixLength = n
	return b
}

// Limit sets the maximum number of hits.
func (b *SuggestBuilder) Limit(n int) *SuggestBuilder {
	b.overrides.ResultLimit = n
	return b
}

// Fields restricts matching to the given fields. Calling it without
// arguments lifts a restriction set in the client defaults.
func (b *SuggestBuilder) Fields(fields ...string) *SuggestBuilder {
	if fields == nil {
		fields = []string{}
	}
	b.overrides.Fields = fields
	return b
}

// Operator sets how restricted fields are joined.
func (b *SuggestBuilder) Operator(op Operator) *SuggestBuilder {
	b.overrides.Operator = op
	return b
}

// Do runs the lookup.
func (b *SuggestBuilder) Do(ctx context.Context) (_ SuggestResult, err error) {
	start := time.Now()
	defer func() { b.obs.observe("suggest", start, err, "index", b.index) }()

	req := suggestuc.Request{Index: b.index, Query: b.query}

	if b.base != "" {
		base, err := resolveBase(b.base, BaseStable)
		if err != nil {
			return SuggestResult{}, fmt.Errorf("suggest: %w", err)
		}
		req.Base = domidx.Base(base)
	}

	if !b.overrides.isZero() {
		opts, err := b.overrides.apply(b.defaults)
		if err != nil {
			return SuggestResult{}, fmt.Errorf("suggest: %w", err)
		}
		req.Options = &opts
	}

	res, err := b.svc.Suggest(ctx, req)
	if err != nil {
		return SuggestResult{Query: res.Query}, fmt.Errorf("suggest: %w", err)
	}
	return SuggestResult{
		Query: res.Query,
		Hits:  fromInternalHits(res.Hits),
		Total: res.Total,
	}, nil
}
