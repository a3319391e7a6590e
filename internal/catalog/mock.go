package catalog

import (
	"context"

	"merchlist/internal/model"
)

// Mock implements Searcher for testing.
// Configure via the function field; the default is an empty catalog.
type Mock struct {
	SearchFunc func(ctx context.Context, query string, page int) ([]model.Product, error)

	// Calls records every (query, page) pair in order when non-nil
	// tracking is wanted; enable with TrackCalls.
	Calls      []SearchCall
	TrackCalls bool
}

// SearchCall is one recorded Search invocation.
type SearchCall struct {
	Query string
	Page  int
}

// Search calls the configured SearchFunc or returns an empty page.
func (m *Mock) Search(ctx context.Context, query string, page int) ([]model.Product, error) {
	if m.TrackCalls {
		m.Calls = append(m.Calls, SearchCall{Query: query, Page: page})
	}
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, page)
	}
	return nil, nil
}

// Paged returns a SearchFunc that slices a fixed corpus into PageSize
// pages, ignoring the query. Handy for resolver walk tests.
func Paged(corpus []model.Product) func(ctx context.Context, query string, page int) ([]model.Product, error) {
	return func(_ context.Context, _ string, page int) ([]model.Product, error) {
		start := (page - 1) * PageSize
		if start >= len(corpus) {
			return nil, nil
		}
		end := start + PageSize
		if end > len(corpus) {
			end = len(corpus)
		}
		return model.CloneProducts(corpus[start:end]), nil
	}
}

// Verify Mock implements Searcher at compile time.
var _ Searcher = (*Mock)(nil)
