// Package identity defines the optional legal-identity resolver contract.
// A resolver looks a business up in an official register and returns its
// legal name and tax ID; absence of a resolver degrades discovery gracefully
// by skipping the identity-anchored layer.
package identity

import (
	"context"

	"sitefinder/pkg/domain"
)

// LegalIdentity is a register-confirmed view of a business.
type LegalIdentity struct {
	// LegalName is the registered company name.
	LegalName string
	// TaxID is the registered 11-digit identifier.
	TaxID string
	// Confidence expresses how certain the resolver is that this is the same
	// business as the queried record.
	Confidence float64
}

// Resolver resolves a business record against a legal register. A nil result
// with nil error means the register has no confident match.
//
//go:generate mockgen -package mockidentity -source=interface.go -destination=mock/mockidentity.go *
type Resolver interface {
	Resolve(ctx context.Context, record domain.BusinessRecord) (*LegalIdentity, error)
}
