// Package fetch defines the page-fetcher contract the discovery engine uses
// to retrieve candidate pages, and the Page value it consumes. Rendering
// backends (plain HTTP, headless browser) implement Fetcher behind this
// interface.
package fetch

import "context"

// Page is the outcome of fetching one URL.
type Page struct {
	// FinalURL is the URL after following redirects.
	FinalURL string
	// StatusCode is the final HTTP status.
	StatusCode int
	// HTML is the raw markup, bounded by the fetcher's body limit.
	HTML string
	// VisibleText is the rendered text with markup, scripts and styles
	// stripped.
	VisibleText string
	// Title is the document title.
	Title string
}

// Fetcher retrieves pages. Implementations must tolerate redirects and report
// navigation failures (DNS, TLS, timeouts) as errors distinct from
// content-validity issues, using serrors kinds where applicable.
//
//go:generate mockgen -package mockfetch -source=interface.go -destination=mock/mockfetch.go *
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}
