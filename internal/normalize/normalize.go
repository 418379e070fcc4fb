// Package normalize canonicalizes company names, phone numbers, tax
// identifiers and addresses into comparable tokens. Every function here is a
// pure function over its input; all downstream matching (candidate generation
// and confidence evaluation) is built on these primitives so the two sides
// always agree on what "the same name" means.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes are legal-entity designators stripped from company names.
// Dotted spellings are handled by tokenization (dots are separators).
var legalSuffixes = map[string]bool{
	"srl": true, "srls": true, "spa": true, "sapa": true,
	"snc": true, "sas": true, "ss": true, "sc": true, "scarl": true,
	"scrl": true, "scpa": true, "coop": true, "cooperativa": true,
	"societa": true, "soc": true, "sri": true, "ltd": true, "gmbh": true,
	"unipersonale": true, "società": true,
}

// fillerWords are generic words that carry no identity signal and are dropped
// from name tokens.
var fillerWords = map[string]bool{
	"di": true, "e": true, "ed": true, "il": true, "la": true, "lo": true,
	"le": true, "gli": true, "del": true, "della": true, "dello": true,
	"dei": true, "degli": true, "delle": true, "da": true, "dal": true,
	"and": true, "the": true, "of": true, "co": true, "c": true,
}

// streetNoise are street-type words excluded from address tokens; they appear
// on nearly every Italian page footer and would inflate address coverage.
var streetNoise = map[string]bool{
	"via": true, "viale": true, "piazza": true, "piazzale": true,
	"corso": true, "largo": true, "vicolo": true, "strada": true,
	"localita": true, "frazione": true, "contrada": true, "km": true,
	"snc": true, "n": true, "nr": true, "civ": true,
}

// diacriticsFolder removes combining marks after NFD decomposition, turning
// "società" into "societa" and "è" into "e".
var diacriticsFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics returns s lowercased with accents removed.
func FoldDiacritics(s string) string {
	out, _, err := transform.String(diacriticsFolder, strings.ToLower(s))
	if err != nil {
		// Transform failures only happen on broken UTF-8; fall back to the
		// lowercased input rather than dropping the value.
		return strings.ToLower(s)
	}

	return out
}

// Tokens splits s into lowercase, accent-folded word tokens. Any rune that is
// not a letter or digit acts as a separator.
func Tokens(s string) []string {
	folded := FoldDiacritics(s)

	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// NameTokens returns the significant tokens of a company name: lowercased,
// accent-folded, with legal-entity suffixes and filler words removed. Tokens
// shorter than 2 characters are dropped, but 2-character brand tokens (such
// as the "ab" in "AB Meccanica") are retained.
func NameTokens(name string) []string {
	raw := Tokens(name)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 && !unicode.IsDigit(rune(tok[0])) {
			continue
		}
		if legalSuffixes[tok] || fillerWords[tok] {
			continue
		}
		out = append(out, tok)
	}

	return out
}

// CompactName joins the significant name tokens into one lowercase string,
// e.g. "Rossi Impianti SRL" -> "rossiimpianti". Used for domain-coverage
// matching against candidate hostnames.
func CompactName(name string) string {
	return strings.Join(NameTokens(name), "")
}

// Phone reduces a phone number to its significant digits: everything except
// digits is stripped and the Italian country prefix ("+39", "0039") is
// removed. The leading zero of landline numbers is preserved since it is part
// of the national number.
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "0039"):
		digits = digits[4:]
	case strings.HasPrefix(digits, "39") && len(digits) > 10:
		digits = digits[2:]
	}

	return digits
}

// TaxID extracts the digits of an 11-digit tax identifier. Inputs with an
// "IT" prefix are accepted. Returns "" when the digits do not form an
// 11-digit number.
func TaxID(raw string) string {
	s := strings.TrimSpace(strings.ToUpper(raw))
	s = strings.TrimPrefix(s, "IT")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() != 11 {
		return ""
	}

	return b.String()
}

// PlausibleTaxID reports whether an 11-digit number could be a real tax ID:
// digits 8-10 encode the issuing office, which ranges 001-121 with a few
// special values reserved for non-resident registrations.
func PlausibleTaxID(id string) bool {
	if len(id) != 11 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}

	office := int(id[7]-'0')*100 + int(id[8]-'0')*10 + int(id[9]-'0')
	if office >= 1 && office <= 121 {
		return true
	}

	return office == 888 || office == 999
}

// AddressTokens returns the comparable tokens of a street address with
// street-type noise words removed, capped to the first 6 tokens.
func AddressTokens(addr string) []string {
	const maxTokens = 6

	raw := Tokens(addr)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if streetNoise[tok] {
			continue
		}
		out = append(out, tok)
		if len(out) == maxTokens {
			break
		}
	}

	return out
}

// CityTokens returns the comparable tokens of a city name.
func CityTokens(city string) []string { return Tokens(city) }

// freemailDomains are consumer mail providers whose domain says nothing about
// the business owning the mailbox.
var freemailDomains = map[string]bool{
	"gmail.com": true, "libero.it": true, "virgilio.it": true,
	"hotmail.com": true, "hotmail.it": true, "outlook.com": true,
	"outlook.it": true, "yahoo.com": true, "yahoo.it": true, "live.it": true,
	"live.com": true, "tiscali.it": true, "alice.it": true, "tin.it": true,
	"email.it": true, "pec.it": true, "legalmail.it": true, "icloud.com": true,
	"msn.com": true, "aruba.it": true, "arubapec.it": true,
}

// EmailDomain returns the lowercase domain part of an email address, or ""
// when the address is malformed or belongs to a consumer/PEC mail provider.
func EmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	dom := strings.ToLower(strings.TrimSpace(email[at+1:]))
	if dom == "" || freemailDomains[dom] || !strings.Contains(dom, ".") {
		return ""
	}

	return dom
}
