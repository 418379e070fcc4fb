// Package search defines the search-provider contract. Backends (individual
// search engines, directory reverse-lookup services) implement Provider and
// are treated as named sources by the rate limiter.
package search

import "context"

// Result is one search hit.
type Result struct {
	URL     string
	Title   string
	Snippet string
}

// Provider answers text queries with ranked results. Name identifies the
// backend as a rate-limiter source and in logs.
//
//go:generate mockgen -package mocksearch -source=interface.go -destination=mock/mocksearch.go *
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}
