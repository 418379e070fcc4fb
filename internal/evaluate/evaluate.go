// Package evaluate scores a fetched page against a business record, producing
// a confidence in [0, 1] and the named signals behind it. Evaluate is a pure
// function of its inputs and is the single source of truth for "is this the
// right website": orchestration only consumes its output and never re-derives
// matching heuristics.
package evaluate

import (
	"net/url"
	"regexp"
	"strings"

	"sitefinder/internal/normalize"
	"sitefinder/pkg/domain"
)

// Scoring calibration. The tax-ID short circuit aside, confidence is a
// weighted sum over independent signals starting from baseScore; the weights
// below are a starting calibration, kept as named constants so they can be
// tuned against the regression scenarios in the package tests.
const (
	baseScore = 0.05

	phoneWeight = 0.60

	nameHighBar, nameHighBonus = 0.85, 0.30
	nameMidBar, nameMidBonus   = 0.65, 0.20
	nameLowBar, nameLowBonus   = 0.40, 0.10

	domainExactBonus               = 0.25
	domainHighBar, domainHighBonus = 0.70, 0.15
	domainMidBar, domainMidBonus   = 0.40, 0.08

	addressHighBar, addressHighBonus = 0.65, 0.10
	addressLowBar, addressLowBonus   = 0.40, 0.05

	cityBonus    = 0.05
	contactBonus = 0.04
	synergyBonus = 0.06

	shortTextPenalty = 0.10
	// shortTextLimit is the visible-text length below which a page is too thin
	// to carry evidence on its own.
	shortTextLimit = 200

	// weakSignalCap bounds confidence when neither phone, name coverage nor
	// domain coverage clears its minimum bar. Weak-signal accumulation must
	// not fake a strong match.
	weakSignalCap = 0.35

	// maxNonGolden reserves 1.0 for the tax-ID golden signal.
	maxNonGolden = 0.99

	// goldenExact is returned when the record's tax ID appears as a standalone
	// or labeled number; goldenLoose when it only appears inside a longer
	// digit run.
	goldenExact = 1.0
	goldenLoose = 0.95
)

var (
	// standaloneTaxIDRe matches bare 11-digit numbers.
	standaloneTaxIDRe = regexp.MustCompile(`(?:^|[^0-9])([0-9]{11})(?:[^0-9]|$)`)
	// labeledTaxIDRe matches numbers labeled as P.IVA / Partita IVA / VAT,
	// possibly with an IT prefix and separators inside the label.
	labeledTaxIDRe = regexp.MustCompile(`(?:p\.?\s?iva|partita\s+iva|vat(?:\s+(?:number|no))?|cod(?:ice)?\.?\s*fisc(?:ale)?\.?)[:.\s]*(?:it\s?)?([0-9]{11})`)
	// itTaxIDRe matches IT-prefixed VAT forms.
	itTaxIDRe = regexp.MustCompile(`\bit\s?([0-9]{11})\b`)
	// phoneRunRe matches digit runs with common phone separators.
	phoneRunRe = regexp.MustCompile(`[0-9][0-9\s./()+-]{4,}[0-9]`)
)

// contactKeywords are navigation strings found on essentially every real
// Italian company site and almost never on parked or directory pages.
var contactKeywords = []string{
	"contatti", "chi siamo", "dove siamo", "lavora con noi",
	"privacy policy", "cookie policy", "richiedi un preventivo",
}

// Evaluate scores url's page content against the record. It performs no I/O
// and is deterministic: identical inputs always produce identical output.
func Evaluate(record domain.BusinessRecord, rawURL, pageText, pageTitle string) domain.Evaluation {
	text := normalize.FoldDiacritics(pageText + " " + pageTitle)

	ev := domain.Evaluation{URL: rawURL}

	// Golden signal: the record's tax ID found in the page settles identity
	// on its own, skip all other scoring.
	if want := normalize.TaxID(record.TaxID); want != "" {
		if conf, ok := matchTaxID(text, want); ok {
			ev.Confidence = conf
			ev.MatchedTaxID = want
			ev.ReasonTags = []string{"taxid-match"}
			ev.Signals = domain.Signals{ShortText: shortText(pageText)}

			return ev
		}
	}

	sig := domain.Signals{
		NameCoverage:       coverage(normalize.NameTokens(record.Name), text),
		AddressCoverage:    coverage(normalize.AddressTokens(record.Address), text),
		DomainCoverage:     domainCoverage(record.Name, rawURL),
		HasContactKeywords: hasContactKeywords(text),
		ShortText:          shortText(pageText),
	}
	sig.CityMatch = cityMatch(record.City, text)
	if matched, ok := matchPhone(record.Phone, pageText); ok {
		sig.PhoneMatch = true
		ev.MatchedPhone = matched
	}

	conf := baseScore
	var tags []string

	if sig.PhoneMatch {
		conf += phoneWeight
		tags = append(tags, "phone-match")
	}

	switch {
	case sig.NameCoverage >= nameHighBar:
		conf += nameHighBonus
		tags = append(tags, "name-coverage-high")
	case sig.NameCoverage >= nameMidBar:
		conf += nameMidBonus
		tags = append(tags, "name-coverage-mid")
	case sig.NameCoverage >= nameLowBar:
		conf += nameLowBonus
		tags = append(tags, "name-coverage-low")
	}

	switch {
	case sig.DomainCoverage >= 1.0:
		conf += domainExactBonus
		tags = append(tags, "domain-exact")
	case sig.DomainCoverage >= domainHighBar:
		conf += domainHighBonus
		tags = append(tags, "domain-coverage-high")
	case sig.DomainCoverage >= domainMidBar:
		conf += domainMidBonus
		tags = append(tags, "domain-coverage-mid")
	}

	switch {
	case sig.AddressCoverage >= addressHighBar:
		conf += addressHighBonus
		tags = append(tags, "address-coverage-high")
	case sig.AddressCoverage >= addressLowBar:
		conf += addressLowBonus
		tags = append(tags, "address-coverage-low")
	}

	if sig.CityMatch {
		conf += cityBonus
		tags = append(tags, "city-match")
	}
	if sig.HasContactKeywords {
		conf += contactBonus
		tags = append(tags, "contact-keywords")
	}

	// Name in the page and name in the domain reinforcing each other is worth
	// more than the sum of the parts.
	if sig.DomainCoverage >= domainHighBar && sig.NameCoverage >= nameMidBar {
		conf += synergyBonus
		tags = append(tags, "name-domain-synergy")
	}

	if sig.ShortText && !sig.PhoneMatch && sig.NameCoverage < nameHighBar {
		conf -= shortTextPenalty
		tags = append(tags, "short-text-penalty")
	}

	if !sig.PhoneMatch && sig.NameCoverage < nameLowBar && sig.DomainCoverage < 0.5 {
		if conf > weakSignalCap {
			conf = weakSignalCap
		}
		tags = append(tags, "weak-signal-cap")
	}

	if conf < 0 {
		conf = 0
	}
	if conf > maxNonGolden {
		conf = maxNonGolden
	}

	ev.Confidence = conf
	ev.ReasonTags = tags
	ev.Signals = sig

	return ev
}

// matchTaxID reports whether want appears in the folded page text, and with
// what confidence. Labeled, IT-prefixed and standalone occurrences count as
// exact; an occurrence buried in a longer digit run still counts, slightly
// lower.
func matchTaxID(text, want string) (float64, bool) {
	for _, re := range []*regexp.Regexp{labeledTaxIDRe, itTaxIDRe, standaloneTaxIDRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if m[1] == want {
				return goldenExact, true
			}
		}
	}

	// Fall back to a raw digit-stream search: separators inside the number
	// ("12 345 678 901") defeat the word-boundary patterns above.
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else {
			digits.WriteRune(' ')
		}
	}
	compact := strings.ReplaceAll(digits.String(), " ", "")
	if strings.Contains(compact, want) {
		return goldenLoose, true
	}

	return 0, false
}

// matchPhone reports whether the record's phone appears in the page text,
// tolerant of country-code variants and partial-prefix listings. Numbers
// shorter than 6 digits are too ambiguous to match.
func matchPhone(recordPhone, pageText string) (string, bool) {
	want := normalize.Phone(recordPhone)
	if len(want) < 6 {
		return "", false
	}

	for _, run := range phoneRunRe.FindAllString(pageText, -1) {
		got := normalize.Phone(run)
		if len(got) < 6 {
			continue
		}
		if got == want || strings.HasSuffix(got, want) || strings.HasSuffix(want, got) {
			return want, true
		}
	}

	return "", false
}

// coverage returns the fraction of tokens found in the folded text. Tokens
// match as whole words; tokens of 4+ characters also match as substrings
// (catches "impianti" inside "rossimpianti").
func coverage(tokens []string, text string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	words := wordSet(text)
	matched := 0
	for _, tok := range tokens {
		if words[tok] || (len(tok) >= 4 && strings.Contains(text, tok)) {
			matched++
		}
	}

	return float64(matched) / float64(len(tokens))
}

// cityMatch reports whether every city token appears in the text.
func cityMatch(city, text string) bool {
	tokens := normalize.CityTokens(city)
	if len(tokens) == 0 {
		return false
	}
	words := wordSet(text)
	for _, tok := range tokens {
		if !words[tok] && !(len(tok) >= 4 && strings.Contains(text, tok)) {
			return false
		}
	}

	return true
}

// domainCoverage measures how much of the company name is embedded in the
// candidate hostname. Exact compact-name containment scores 1.0; otherwise
// the fraction of name tokens contained in the host.
func domainCoverage(name, rawURL string) float64 {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return 0
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	// Drop the TLD and flatten hyphens so "rossi-impianti.it" compares as
	// "rossiimpianti".
	if i := strings.LastIndexByte(host, '.'); i > 0 {
		host = host[:i]
	}
	host = strings.ReplaceAll(host, ".", "")
	host = strings.ReplaceAll(host, "-", "")

	compact := normalize.CompactName(name)
	if compact == "" || host == "" {
		return 0
	}
	if strings.Contains(host, compact) {
		return 1.0
	}

	tokens := normalize.NameTokens(name)
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(host, tok) {
			matched++
		}
	}

	return float64(matched) / float64(len(tokens))
}

// hasContactKeywords reports whether the folded text carries any of the
// typical company-site navigation strings.
func hasContactKeywords(text string) bool {
	for _, kw := range contactKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	return false
}

// shortText reports whether the visible text is below the evidence limit.
func shortText(pageText string) bool {
	return len([]rune(strings.TrimSpace(pageText))) < shortTextLimit
}

// wordSet builds the set of folded word tokens of the text.
func wordSet(text string) map[string]bool {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}

	return set
}
