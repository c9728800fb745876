package db

import "github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"

// SuggestQuery is the input for a suggestion search.
// MinPrefixLength and Limit travel with every request; the store keeps no
// per-process query settings.
type SuggestQuery struct {
	IndexName       string
	Query           *lucene.Boolean
	MinPrefixLength int
	Limit           int
	ReturnFields    []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
