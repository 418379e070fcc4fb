// Package presence defines the optional physical-presence fallback contract:
// a locator that finds a business through its physical footprint (maps
// listings, local registries) and may surface a website URL. Used only by
// the exhaustive discovery layer.
package presence

import (
	"context"

	"sitefinder/pkg/domain"
)

// Locator finds a website URL through physical-presence sources. An empty
// URL with nil error means no listing was found.
//
//go:generate mockgen -package mockpresence -source=interface.go -destination=mock/mockpresence.go *
type Locator interface {
	Locate(ctx context.Context, record domain.BusinessRecord) (string, error)
}
