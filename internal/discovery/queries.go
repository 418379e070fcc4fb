package discovery

import (
	"strings"

	"sitefinder/internal/normalize"
	"sitefinder/pkg/domain"
	"sitefinder/pkg/identity"
)

// cleanName joins the significant name tokens back into a query-friendly
// form; "F.LLI Rossi S.R.L." becomes "flli rossi".
func cleanName(name string) string {
	return strings.Join(normalize.NameTokens(name), " ")
}

// identityQueries builds the register-anchored queries: the legal name with
// the tax ID, and the tax ID alone. Pages that publish the tax ID are exactly
// what the identity layer is after.
func identityQueries(legal *identity.LegalIdentity, record domain.BusinessRecord) []string {
	// A register ID with an out-of-range office code points at a mis-keyed
	// register row; the record's own ID is trusted verbatim.
	taxID := normalize.TaxID(legal.TaxID)
	if taxID == "" || !normalize.PlausibleTaxID(taxID) {
		taxID = normalize.TaxID(record.TaxID)
	}
	name := legal.LegalName
	if name == "" {
		name = record.Name
	}

	var queries []string
	if taxID != "" {
		queries = append(queries, "\""+name+"\" \""+taxID+"\"")
		queries = append(queries, "\"p.iva "+taxID+"\"")
	} else {
		queries = append(queries, "\""+name+"\" "+record.City)
	}

	return queries
}

// cheapQueries are the two queries of the cheap layer: exact name with city,
// and the cleaned name with the official-site hint.
func cheapQueries(record domain.BusinessRecord) []string {
	name := cleanName(record.Name)
	queries := []string{
		"\"" + strings.TrimSpace(record.Name) + "\" " + record.City,
	}
	if name != "" {
		queries = append(queries, name+" "+record.City+" sito ufficiale")
	}

	return dropEmpty(queries)
}

// swarmQueries broadens the search: location variants, the sector hint, the
// phone number and the compact name form.
func swarmQueries(record domain.BusinessRecord) []string {
	name := cleanName(record.Name)
	if name == "" {
		return nil
	}

	queries := []string{
		name + " " + record.City,
		name + " " + record.Province,
		name + " sito web",
	}
	if record.Category != "" {
		queries = append(queries, name+" "+record.Category+" "+record.City)
	}
	if phone := normalize.Phone(record.Phone); phone != "" {
		queries = append(queries, "\""+phone+"\"")
	}
	if compact := normalize.CompactName(record.Name); compact != "" && compact != strings.ReplaceAll(name, " ", "") {
		queries = append(queries, compact+" "+record.City)
	}

	return dropEmpty(queries)
}

// exhaustiveQueries are last-resort variants: contact-page phrasing and the
// bare name without any location constraint.
func exhaustiveQueries(record domain.BusinessRecord) []string {
	name := cleanName(record.Name)
	if name == "" {
		return nil
	}

	queries := []string{
		name + " contatti",
		name + " " + record.Address + " " + record.City,
		name,
	}

	return dropEmpty(queries)
}

// dropEmpty removes queries that collapsed to whitespace after assembly.
func dropEmpty(queries []string) []string {
	out := queries[:0]
	for _, q := range queries {
		if strings.TrimSpace(q) != "" {
			out = append(out, strings.Join(strings.Fields(q), " "))
		}
	}

	return out
}
