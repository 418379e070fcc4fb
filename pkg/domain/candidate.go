package domain

// SourceTag names the strategy or source that proposed a candidate URL.
type SourceTag string

const (
	// SourceExisting marks the record's pre-existing, unverified URL.
	SourceExisting SourceTag = "existing-url"
	// SourceIdentity marks candidates from legal-identity anchored queries.
	SourceIdentity SourceTag = "identity-lookup"
	// SourceEmailDomain marks candidates derived from the record's email domain.
	SourceEmailDomain SourceTag = "email-domain"
	// SourceDomainGuess marks synthesized domain-name guesses.
	SourceDomainGuess SourceTag = "domain-guess"
	// SourceSearchEngine marks candidates returned by a search provider.
	SourceSearchEngine SourceTag = "search-engine"
	// SourcePhoneDirectory marks candidates from directory reverse phone lookup.
	SourcePhoneDirectory SourceTag = "phone-directory"
	// SourceExhaustive marks candidates produced by the exhaustive fallback.
	SourceExhaustive SourceTag = "exhaustive"
)

// sourcePriority orders sources for deterministic tie-breaking when two
// candidates end up with equal confidence. Lower is better.
var sourcePriority = map[SourceTag]int{
	SourceIdentity:       0,
	SourceEmailDomain:    1,
	SourceExisting:       2,
	SourceSearchEngine:   3,
	SourceDomainGuess:    4,
	SourcePhoneDirectory: 5,
	SourceExhaustive:     6,
}

// Priority returns the tie-break rank of the source; unknown sources sort last.
func (t SourceTag) Priority() int {
	if p, ok := sourcePriority[t]; ok {
		return p
	}

	return len(sourcePriority)
}

// Candidate is a URL proposed by some generation or search strategy, prior to
// verification. Candidates are ephemeral: they live only within a single
// discovery run and are deduplicated by registrable domain before any fetch.
type Candidate struct {
	// URL is the full candidate URL including scheme.
	URL string `json:"url"`
	// Source identifies the strategy that proposed this URL.
	Source SourceTag `json:"source"`
	// Prior is the confidence the proposing source assigns before any page has
	// been fetched. Used to pick the surviving representative during dedup.
	Prior float64 `json:"prior"`
}
