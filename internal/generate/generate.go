// Package generate synthesizes plausible domain names from a business
// identity. It is composed of independent strategies (base joins, phonetic
// variants, acronyms, sector suffixes, location suffixes) whose variants are
// unioned, ranked and capped. Generation is deterministic and performs no
// I/O; reachability filtering happens downstream.
package generate

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"sitefinder/internal/normalize"
	"sitefinder/pkg/logger"
)

// MaxCandidates caps how many domains a single Generate call may return.
const MaxCandidates = 150

// Identity is the normalized view of a business handed to strategies.
type Identity struct {
	// RawName is the company name as given, needed by strategies that look at
	// pre-tokenization features such as elisions and ampersands.
	RawName string
	// Tokens are the significant name tokens (legal suffixes and filler
	// removed, lowercase, accent-folded).
	Tokens []string
	// Compact is the tokens joined into one string.
	Compact string
	// City and Province are lowercase, accent-folded location hints; Province
	// is the 2-letter code.
	City     string
	Province string
	// Category is the lowercase free-text sector hint.
	Category string
}

// Strategy produces candidate domain bodies (no TLD) for an identity.
// Implementations must be pure functions of the identity; a strategy that
// panics contributes nothing and the rest of the set still runs.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string
	// Variants returns candidate domain bodies, e.g. "rossiimpianti".
	Variants(id Identity) []string
}

// TLDs lists the top-level domains candidates are expanded into, in
// preference order.
var TLDs = []string{".it", ".com", ".eu", ".net"}

// Generator runs a fixed, ordered set of strategies and merges their output.
// New strategies can be appended without touching existing ones.
type Generator struct {
	strategies []Strategy
}

// New returns a Generator with the default strategy set.
func New() *Generator {
	return &Generator{
		strategies: []Strategy{
			baseStrategy{},
			phoneticStrategy{},
			acronymStrategy{},
			sectorStrategy{},
			locationStrategy{},
		},
	}
}

// NewWithStrategies returns a Generator running exactly the given strategies,
// in order. Used by tests and by callers that want a reduced set.
func NewWithStrategies(strategies ...Strategy) *Generator {
	return &Generator{strategies: strategies}
}

// Generate returns ranked candidate domains (body + TLD) for a business
// identity. Output is deterministic for identical input, capped at
// MaxCandidates, and every returned domain is a syntactically valid hostname.
func (g *Generator) Generate(ctx context.Context, name, city, province, category string) []string {
	id := Identity{
		RawName:  name,
		Tokens:   normalize.NameTokens(name),
		Compact:  normalize.CompactName(name),
		City:     strings.ToLower(strings.Join(normalize.CityTokens(city), "")),
		Province: strings.ToLower(strings.TrimSpace(province)),
		Category: normalize.FoldDiacritics(category),
	}
	if id.Compact == "" {
		return nil
	}

	seen := make(map[string]bool)
	var bodies []string
	for _, s := range g.strategies {
		for _, body := range runStrategy(ctx, s, id) {
			body = sanitizeBody(body)
			if body == "" || seen[body] {
				continue
			}
			seen[body] = true
			bodies = append(bodies, body)
		}
	}

	domains := make([]string, 0, len(bodies)*len(TLDs))
	for _, body := range bodies {
		for _, tld := range TLDs {
			domains = append(domains, body+tld)
		}
	}

	rankDomains(domains)
	if len(domains) > MaxCandidates {
		domains = domains[:MaxCandidates]
	}

	return domains
}

// runStrategy executes one strategy, converting a panic into an empty
// contribution. A single broken strategy must never abort generation.
func runStrategy(ctx context.Context, s Strategy, id Identity) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn(ctx, "candidate strategy failed",
				zap.String("strategy", s.Name()), zap.Any("panic", r))
			out = nil
		}
	}()

	return s.Variants(id)
}

// sanitizeBody validates and cleans a domain body: lowercase letters, digits
// and inner hyphens only, at most 63 characters (the DNS label limit).
func sanitizeBody(body string) string {
	body = strings.Trim(strings.ToLower(body), "-")
	if body == "" || len(body) < 2 || len(body) > 63 {
		return ""
	}
	for _, r := range body {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return ""
		}
	}
	if strings.Contains(body, "--") {
		return ""
	}

	return body
}

// tldRank maps a domain's TLD to its preference order.
func tldRank(domain string) int {
	for i, tld := range TLDs {
		if strings.HasSuffix(domain, tld) {
			return i
		}
	}

	return len(TLDs)
}

// rankDomains sorts shortest-and-cleanest-first: fewer hyphens, then
// preferred TLD, then length, then lexicographic for a stable total order.
func rankDomains(domains []string) {
	sort.SliceStable(domains, func(i, j int) bool {
		hi, hj := strings.Count(domains[i], "-"), strings.Count(domains[j], "-")
		if hi != hj {
			return hi < hj
		}
		ti, tj := tldRank(domains[i]), tldRank(domains[j])
		if ti != tj {
			return ti < tj
		}
		if len(domains[i]) != len(domains[j]) {
			return len(domains[i]) < len(domains[j])
		}

		return domains[i] < domains[j]
	})
}

// URLs expands candidate domains into fetchable URLs: https with and without
// the www prefix. The discovery waterfall probes the bare form only, since
// its registrable-domain dedup collapses the www variant anyway; URLs serves
// callers that fetch hosts directly without that dedup.
func URLs(domains []string) []string {
	out := make([]string, 0, len(domains)*2)
	for _, d := range domains {
		out = append(out, "https://"+d, "https://www."+d)
	}

	return out
}
