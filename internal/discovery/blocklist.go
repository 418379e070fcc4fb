package discovery

import "strings"

// blockedDomains are registrable domains that can never be a business's own
// website: directories, social networks, marketplaces, registries and review
// platforms. Candidates on these domains are rejected before verification.
var blockedDomains = map[string]bool{
	// directories and registries
	"paginegialle.it": true, "paginebianche.it": true, "infoimprese.it": true,
	"registroimprese.it": true, "ufficiocamerale.it": true, "misterimprese.it": true,
	"reportaziende.it": true, "kompass.com": true, "europages.it": true,
	"europages.com": true, "cylex.it": true, "informazione-aziende.it": true,
	"aziende.it": true, "tuttocitta.it": true, "virgilio.it": true,

	// social networks
	"facebook.com": true, "instagram.com": true, "linkedin.com": true,
	"twitter.com": true, "x.com": true, "youtube.com": true, "tiktok.com": true,
	"pinterest.com": true, "pinterest.it": true,

	// marketplaces, review and booking platforms
	"amazon.it": true, "amazon.com": true, "ebay.it": true, "ebay.com": true,
	"subito.it": true, "tripadvisor.it": true, "tripadvisor.com": true,
	"thefork.it": true, "booking.com": true, "yelp.it": true, "yelp.com": true,
	"trustpilot.com": true, "glassdoor.it": true, "glassdoor.com": true,

	// generic platforms that host third-party content
	"wikipedia.org": true, "google.com": true, "google.it": true,
	"blogspot.com": true, "wordpress.com": true, "wixsite.com": true,
}

// IsDirectoryOrSocial reports whether the URL's registrable domain belongs
// to a known directory, social network or marketplace.
func IsDirectoryOrSocial(rawURL string) bool {
	registrable, err := RegistrableDomain(rawURL)
	if err != nil {
		return false
	}
	if blockedDomains[registrable] {
		return true
	}
	// Country mirrors (amazon.de, google.fr, ...) share the name label.
	if i := strings.IndexByte(registrable, '.'); i > 0 {
		switch registrable[:i] {
		case "amazon", "google", "ebay", "tripadvisor", "yelp", "glassdoor":
			return true
		}
	}

	return false
}
