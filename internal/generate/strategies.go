package generate

import (
	"strings"

	"sitefinder/internal/normalize"
)

// baseStrategy emits the exact and hyphenated joins of the significant name
// tokens, plus the single tokens of short names.
type baseStrategy struct{}

func (baseStrategy) Name() string { return "base" }

func (baseStrategy) Variants(id Identity) []string {
	out := []string{id.Compact}
	if len(id.Tokens) > 1 {
		out = append(out, strings.Join(id.Tokens, "-"))
	}
	// For one- and two-token names the individual tokens are themselves
	// plausible domains ("rossi.it"); longer names produce too much noise.
	if len(id.Tokens) <= 2 {
		out = append(out, id.Tokens...)
	}

	return out
}

// phoneticStrategy expands Italian elisions ("l'angolo" -> "langolo" and
// "angolo"), ampersand variants, and doubled-consonant simplification.
type phoneticStrategy struct{}

func (phoneticStrategy) Name() string { return "phonetic" }

func (phoneticStrategy) Variants(id Identity) []string {
	var out []string

	raw := normalize.FoldDiacritics(id.RawName)

	// Elisions: join the article with the noun and also keep the bare noun.
	if strings.ContainsAny(raw, "'’") {
		joined := strings.NewReplacer("'", "", "’", "").Replace(raw)
		out = append(out, normalize.CompactName(joined))
	}

	// Ampersand: "c&b" reads as "ceb", and plain concatenation "cb".
	if strings.Contains(raw, "&") {
		out = append(out,
			normalize.CompactName(strings.ReplaceAll(raw, "&", "e")),
			normalize.CompactName(strings.ReplaceAll(raw, "&", "")))
	}

	// Doubled consonants are commonly simplified in domain names
	// ("ferretti" -> "fereti" is a stretch, but "zoccoli" -> "zocoli" is not).
	if simplified := collapseDoubles(id.Compact); simplified != id.Compact {
		out = append(out, simplified)
	}

	return out
}

// collapseDoubles removes the second letter of every doubled pair.
func collapseDoubles(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	return b.String()
}

// acronymStrategy emits the initials of the name tokens, optionally suffixed
// by city or province, and first+last-token joins for long names.
type acronymStrategy struct{}

func (acronymStrategy) Name() string { return "acronym" }

func (acronymStrategy) Variants(id Identity) []string {
	if len(id.Tokens) < 2 {
		return nil
	}

	var initials strings.Builder
	for _, tok := range id.Tokens {
		initials.WriteByte(tok[0])
	}
	acr := initials.String()

	var out []string
	// Bare 2-letter acronyms collide with country codes and real words far
	// too often to be useful on their own; anchor them with a location.
	if len(acr) >= 3 {
		out = append(out, acr)
	}
	if id.City != "" {
		out = append(out, acr+id.City)
	}
	if id.Province != "" && len(id.Province) == 2 {
		out = append(out, acr+id.Province)
	}

	if len(id.Tokens) >= 3 {
		first, last := id.Tokens[0], id.Tokens[len(id.Tokens)-1]
		out = append(out, first+last, first+"-"+last)
	}

	return out
}

// sectorSuffixes maps category keywords to the suffixes businesses of that
// sector commonly append to their domains.
var sectorSuffixes = []struct {
	keyword  string
	suffixes []string
}{
	{"edilizia", []string{"costruzioni", "edilizia", "edil"}},
	{"costruzioni", []string{"costruzioni", "edil"}},
	{"impianti", []string{"impianti", "service"}},
	{"idraulic", []string{"impianti", "idraulica"}},
	{"elettric", []string{"impianti", "elettrici"}},
	{"ristorante", []string{"ristorante", "cucina"}},
	{"pizzeria", []string{"pizzeria", "pizza"}},
	{"bar", []string{"caffe", "bar"}},
	{"hotel", []string{"hotel", "albergo"}},
	{"meccanica", []string{"meccanica", "officine"}},
	{"officina", []string{"officina", "auto"}},
	{"autofficina", []string{"auto", "service"}},
	{"trasporti", []string{"trasporti", "logistica"}},
	{"agricol", []string{"agricola", "azienda"}},
	{"immobiliare", []string{"immobiliare", "case"}},
	{"informatica", []string{"informatica", "software"}},
	{"studio", []string{"studio"}},
	{"avvocat", []string{"legale", "studiolegale"}},
	{"commercialist", []string{"studio"}},
	{"falegnameria", []string{"legno", "falegnameria"}},
	{"parrucchier", []string{"hair", "parrucchieri"}},
}

// sectorStrategy appends category-derived suffixes to the compact name and
// to the leading token.
type sectorStrategy struct{}

func (sectorStrategy) Name() string { return "sector" }

func (sectorStrategy) Variants(id Identity) []string {
	if id.Category == "" || len(id.Tokens) == 0 {
		return nil
	}

	var out []string
	first := id.Tokens[0]
	for _, entry := range sectorSuffixes {
		if !strings.Contains(id.Category, entry.keyword) {
			continue
		}
		for _, suf := range entry.suffixes {
			if strings.HasSuffix(id.Compact, suf) {
				continue
			}
			out = append(out, id.Compact+suf, first+suf)
			if first != id.Compact {
				out = append(out, suf+first)
			}
		}
	}

	return out
}

// locationStrategy appends and prepends the city and the 2-letter province
// code to the compact name.
type locationStrategy struct{}

func (locationStrategy) Name() string { return "location" }

func (locationStrategy) Variants(id Identity) []string {
	var out []string
	if id.City != "" && !strings.HasSuffix(id.Compact, id.City) {
		out = append(out,
			id.Compact+id.City,
			id.City+id.Compact,
			id.Compact+"-"+id.City)
	}
	if id.Province != "" && len(id.Province) == 2 {
		out = append(out, id.Compact+id.Province)
	}

	return out
}
