// Package discovery implements the layered waterfall that resolves a
// business record to its official website: candidate generation and
// collection from multiple sources, per-source rate limiting, cached
// confidence evaluation, mode-dependent acceptance thresholds, and a single
// deterministic decision per run.
package discovery

import (
	"context"

	"sitefinder/pkg/domain"
)

//go:generate mockgen -package mockdiscovery -source=interface.go -destination=mock/mockdiscovery.go *
type Discoverer interface {
	// Discover runs the discovery waterfall for one business record under the
	// given mode profile. It always returns a DiscoveryResult, never panics
	// through, and maps internal failures to Status ERROR.
	Discover(ctx context.Context, record domain.BusinessRecord, mode domain.Mode) domain.DiscoveryResult

	// Verify evaluates a single, caller-provided URL against the record,
	// using the verification cache. Used by upstream pre-filtering scripts
	// that already hold a candidate.
	Verify(ctx context.Context, url string, record domain.BusinessRecord) (domain.Evaluation, error)
}
