package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RunID uniquely identifies one discovery run. It wraps uuid.UUID to provide
// type safety at the domain layer and is attached to every log line emitted
// during the run.
type RunID uuid.UUID

// NewRunID returns a fresh random RunID.
func NewRunID() RunID { return RunID(uuid.New()) }

// String returns the canonical textual form of the RunID.
func (id RunID) String() string { return uuid.UUID(id).String() }

// MarshalText serializes the RunID in canonical UUID form.
func (id RunID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText parses a canonical UUID form into the RunID.
func (id *RunID) UnmarshalText(text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("could not parse run ID: %w", err)
	}
	*id = RunID(u)

	return nil
}

// BusinessRecord is the identity under resolution. It is an immutable input:
// the discovery engine only borrows it for the duration of one call and never
// writes enrichment results back into it.
type BusinessRecord struct {
	// Name is the company name as registered or listed. Required; every other
	// field may be empty.
	Name string `json:"name"`
	// City and Province locate the business; Province is the 2-letter code
	// (e.g. "MI" for Milano).
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	// Address is the street address, free form.
	Address string `json:"address,omitempty"`
	// Phone is the contact number in any common national format.
	Phone string `json:"phone,omitempty"`
	// TaxID is the 11-digit national VAT-equivalent identifier. When present it
	// is the strongest disambiguating signal available.
	TaxID string `json:"taxId,omitempty"`
	// Category is a free-text sector hint (e.g. "edilizia", "ristorante").
	Category string `json:"category,omitempty"`
	// ExistingURL is an optional, unverified prior guess for the website.
	ExistingURL string `json:"existingUrl,omitempty"`
	// Email is a contact address; its domain part can seed candidate discovery.
	Email string `json:"email,omitempty"`
}

// Fingerprint returns a stable identity fingerprint used as part of
// verification-cache keys. Two records with the same name and tax ID share
// cached evaluations.
func (r BusinessRecord) Fingerprint() string {
	return strings.ToLower(strings.TrimSpace(r.Name)) + "|" + strings.TrimSpace(r.TaxID)
}
