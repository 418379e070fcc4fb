package discovery

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NormalizeURL returns a canonical representation of a candidate URL. The
// rules are intentionally strict to help with de-duplication and stable
// cache keys:
//   - Lower-case the scheme and host; only http/https are accepted
//   - Ensure path is present; empty path becomes "/"
//   - Clean the path and remove a trailing slash (except for the root)
//   - Drop default ports (http:80, https:443)
//   - Sort query parameters for stable ordering
//   - Remove the fragment
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("could not parse URL: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL %q has no host", raw)
	}

	if u.Path == "" {
		u.Path = "/"
	}
	cleaned := path.Clean(u.Path)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	u.Path = cleaned
	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	host := strings.ToLower(u.Host)
	port := ""
	if ph, pp, err := net.SplitHostPort(host); err == nil {
		host, port = ph, pp
	} // else: host without explicit port
	if port != "" && !((u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443")) {
		u.Host = net.JoinHostPort(host, port)
	} else {
		u.Host = host
	}

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			sort.Strings(q[k])
		}
		u.RawQuery = q.Encode()
	}

	u.Fragment = ""

	return u.String(), nil
}

// RegistrableDomain extracts the registrable domain of a URL or bare host:
// scheme and "www." are stripped and the public-suffix list collapses
// subdomains, so "https://www.shop.rossi.it/x" and "http://rossi.it" both
// map to "rossi.it".
func RegistrableDomain(rawURL string) (string, error) {
	host := rawURL
	if strings.Contains(rawURL, "://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("could not parse URL: %w", err)
		}
		host = u.Hostname()
	}
	host = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(host, "www."), "."))
	if host == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Hosts the suffix list cannot split (bare TLDs, IPs) fall back to
		// the host itself so dedup still has a usable key.
		return host, nil //nolint: nilerr
	}

	return registrable, nil
}
