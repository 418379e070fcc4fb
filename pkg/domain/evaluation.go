package domain

// Signals holds the raw, independent match signals computed by the confidence
// evaluator for one (candidate, record) pair. All coverage values are in
// [0, 1].
type Signals struct {
	// PhoneMatch is true when the record's normalized phone number matches a
	// number found in the page text.
	PhoneMatch bool `json:"phoneMatch"`
	// NameCoverage is the fraction of significant name tokens found in the page.
	NameCoverage float64 `json:"nameCoverage"`
	// CityMatch is true when every city token appears in the page text.
	CityMatch bool `json:"cityMatch"`
	// AddressCoverage is the fraction of address tokens found in the page.
	AddressCoverage float64 `json:"addressCoverage"`
	// DomainCoverage measures how much of the company name is embedded in the
	// candidate hostname; exact compact-name containment scores 1.0.
	DomainCoverage float64 `json:"domainCoverage"`
	// HasContactKeywords is true when the page carries typical company-site
	// navigation keywords ("contatti", "chi siamo", "privacy", ...).
	HasContactKeywords bool `json:"hasContactKeywords"`
	// ShortText is true when the visible page text is too short to carry
	// meaningful evidence on its own.
	ShortText bool `json:"shortText"`
}

// Evaluation is the confidence evaluator's verdict for one candidate URL
// against one business record. It is the single source of truth for
// "is this the right website"; orchestration only consumes it and never
// re-derives matching heuristics.
type Evaluation struct {
	// URL is the evaluated URL (normalized).
	URL string `json:"url"`
	// Confidence is the certainty in [0, 1] that URL is the record's official
	// site. 1.0 is reserved for an exact tax-ID content match.
	Confidence float64 `json:"confidence"`
	// ReasonTags lists the contributing signals in the order they fired.
	ReasonTags []string `json:"reasonTags,omitempty"`
	// MatchedTaxID is set to the record's tax ID when it was found verbatim in
	// the page text. Implies Confidence >= 0.95.
	MatchedTaxID string `json:"matchedTaxId,omitempty"`
	// MatchedPhone is set to the normalized phone number when it matched.
	MatchedPhone string `json:"matchedPhone,omitempty"`
	// Signals carries the raw signal values behind the confidence score.
	Signals Signals `json:"signals"`
}
