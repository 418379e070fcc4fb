// Package dnscheck gates synthesized domain candidates before expensive
// verification: a guessed domain that does not resolve is dropped outright,
// and one that serves a parked placeholder page is filtered instead of
// scored.
package dnscheck

import (
	"context"
	"net"
	"strings"
	"time"

	"sitefinder/pkg/fetch"
)

// Checker answers reachability questions about candidate domains. Parked-page
// detection is the package-level LooksParked, applied to pages the caller has
// fetched anyway.
//
//go:generate mockgen -package mockdnscheck -source=dnscheck.go -destination=mock/mockdnscheck.go *
type Checker interface {
	// Resolves reports whether the domain has at least one DNS address record.
	Resolves(ctx context.Context, domain string) bool
}

// checker is the default Checker using the system resolver.
type checker struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// New returns a Checker backed by the system DNS resolver.
func New() Checker {
	return &checker{
		resolver: net.DefaultResolver,
		timeout:  3 * time.Second,
	}
}

func (c *checker) Resolves(ctx context.Context, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addrs, err := c.resolver.LookupHost(ctx, domain)

	return err == nil && len(addrs) > 0
}

// parkedMarkers are phrases that essentially only appear on parked or
// for-sale placeholder pages, in Italian and English.
var parkedMarkers = []string{
	"questo dominio e in vendita",
	"dominio in vendita",
	"this domain is for sale",
	"buy this domain",
	"domain is parked",
	"domain parking",
	"parked free, courtesy of",
	"acquista questo dominio",
	"il dominio e stato registrato",
	"sedo domain parking",
	"questo sito e in costruzione",
	"website coming soon",
}

// registrarHosts appearing in a near-empty page's links are a strong parking
// hint even without an explicit for-sale phrase.
var registrarHosts = []string{
	"sedo.com", "dan.com", "afternic.com", "godaddy.com",
	"aruba.it", "register.it", "domainmarket.com",
}

// LooksParked is the pure parked-page heuristic over an already-fetched
// page. Exported so the orchestrator can reuse a page it fetched anyway.
func LooksParked(page *fetch.Page) bool {
	if page == nil {
		return false
	}

	text := strings.ToLower(page.Title + " " + page.VisibleText)
	// Accent folding is deliberately cheap here: parked pages are templated
	// and the markers above cover the accented spellings that occur.
	text = strings.NewReplacer("è", "e", "é", "e", "à", "a").Replace(text)

	for _, m := range parkedMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}

	// Near-empty body mentioning a registrar: placeholder page.
	if len(page.VisibleText) < 400 {
		html := strings.ToLower(page.HTML)
		for _, h := range registrarHosts {
			if strings.Contains(html, h) {
				return true
			}
		}
	}

	return false
}
