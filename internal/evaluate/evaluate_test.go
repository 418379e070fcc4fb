package evaluate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sitefinder/internal/evaluate"
	"sitefinder/pkg/domain"
)

func record() domain.BusinessRecord {
	return domain.BusinessRecord{
		Name:     "Rossi Impianti SRL",
		City:     "Milano",
		Province: "MI",
		Address:  "Via Garibaldi 12",
		Phone:    "+39 02 1234567",
		TaxID:    "12345678901",
	}
}

func TestGoldenTaxIDMatch(t *testing.T) {
	ev := evaluate.Evaluate(record(),
		"https://rossiimpianti.it",
		"Rossi Impianti SRL - Partita IVA 12345678901", "")

	require.Equal(t, 1.0, ev.Confidence)
	require.Equal(t, "12345678901", ev.MatchedTaxID)
	require.Equal(t, []string{"taxid-match"}, ev.ReasonTags)
}

func TestGoldenTaxIDVariants(t *testing.T) {
	cases := []struct {
		name string
		text string
		min  float64
	}{
		{"labeled P.IVA", "P.IVA 12345678901", 1.0},
		{"labeled P. IVA with colon", "p. iva: 12345678901", 1.0},
		{"IT prefixed", "VAT: IT12345678901", 1.0},
		{"standalone", "codice 12345678901 iscritta al registro", 1.0},
		{"spaced digits", "Partita IVA 12 345 678 901", 0.95},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := evaluate.Evaluate(record(), "https://example.it", tc.text, "")
			require.GreaterOrEqual(t, ev.Confidence, tc.min, "text %q", tc.text)
			require.GreaterOrEqual(t, ev.Confidence, 0.95, "golden signal invariant")
			require.Equal(t, "12345678901", ev.MatchedTaxID)
		})
	}
}

func TestWrongTaxIDDoesNotShortCircuit(t *testing.T) {
	ev := evaluate.Evaluate(record(), "https://altraditta.it", "Partita IVA 98765432109", "")
	require.Empty(t, ev.MatchedTaxID)
	require.Less(t, ev.Confidence, 0.95)
}

func TestPhoneMatchCarriesLargestWeight(t *testing.T) {
	rec := record()
	rec.TaxID = ""

	longText := strings.Repeat("azienda leader nel settore impiantistico. ", 10)

	with := evaluate.Evaluate(rec, "https://sito.it", longText+" Tel. 02/12.34.567", "")
	without := evaluate.Evaluate(rec, "https://sito.it", longText, "")

	require.True(t, with.Signals.PhoneMatch)
	require.Equal(t, "021234567", with.MatchedPhone)
	require.Contains(t, with.ReasonTags, "phone-match")
	require.Greater(t, with.Confidence-without.Confidence, 0.5, "phone weight should dominate")
}

func TestPhoneMatchToleratesCountryCode(t *testing.T) {
	rec := record()
	rec.TaxID = ""
	rec.Phone = "02 1234567"

	ev := evaluate.Evaluate(rec, "https://sito.it", "Chiamaci al +39 02 1234567", "")
	require.True(t, ev.Signals.PhoneMatch)
}

func TestHardCapOnWeakSignals(t *testing.T) {
	rec := domain.BusinessRecord{
		Name:    "Rossi Impianti SRL",
		City:    "Milano",
		Address: "Via Garibaldi 12",
	}
	// City and address match, contact keywords present, but no phone, no name
	// coverage and an unrelated domain: bonuses must not accumulate past the cap.
	text := strings.Repeat("lorem ipsum ", 30) +
		" milano via garibaldi 12 contatti privacy policy chi siamo"
	ev := evaluate.Evaluate(rec, "https://sitoqualunque.it", text, "")

	require.False(t, ev.Signals.PhoneMatch)
	require.Less(t, ev.Signals.NameCoverage, 0.4)
	require.Less(t, ev.Signals.DomainCoverage, 0.5)
	require.LessOrEqual(t, ev.Confidence, 0.35, "hard cap invariant")
	require.Contains(t, ev.ReasonTags, "weak-signal-cap")
}

func TestDomainExactCompactContainment(t *testing.T) {
	rec := record()
	rec.TaxID = ""

	ev := evaluate.Evaluate(rec, "https://www.rossi-impianti.it",
		strings.Repeat("impianti elettrici e idraulici a milano. ", 10)+"Rossi Impianti, contatti", "")

	require.Equal(t, 1.0, ev.Signals.DomainCoverage, "hyphenated host still contains compact name")
	require.Contains(t, ev.ReasonTags, "domain-exact")
}

func TestShortTextPenalty(t *testing.T) {
	rec := record()
	rec.TaxID = ""
	rec.Phone = ""

	short := evaluate.Evaluate(rec, "https://qualcosa.it", "benvenuti", "")
	require.True(t, short.Signals.ShortText)
	require.Contains(t, short.ReasonTags, "short-text-penalty")
}

func TestNonGoldenClampedBelowOne(t *testing.T) {
	rec := record()
	rec.TaxID = ""

	// Every non-golden signal fires at once.
	text := strings.Repeat("Rossi Impianti installazione impianti a Milano. ", 10) +
		" Via Garibaldi 12 Milano - Tel +39 02 1234567 - contatti - privacy policy"
	ev := evaluate.Evaluate(rec, "https://www.rossiimpianti.it", text, "Rossi Impianti Milano")

	require.LessOrEqual(t, ev.Confidence, 0.99, "1.0 is reserved for the tax-ID golden signal")
	require.Greater(t, ev.Confidence, 0.9)
}

func TestDeterminism(t *testing.T) {
	rec := record()
	text := "Rossi Impianti SRL, impianti elettrici a Milano. Contatti: 02 1234567"

	a := evaluate.Evaluate(rec, "https://rossiimpianti.it", text, "Rossi Impianti")
	b := evaluate.Evaluate(rec, "https://rossiimpianti.it", text, "Rossi Impianti")
	require.Equal(t, a, b)
}

func TestEmptyPage(t *testing.T) {
	ev := evaluate.Evaluate(record(), "https://vuoto.it", "", "")
	require.LessOrEqual(t, ev.Confidence, 0.35)
	require.Empty(t, ev.MatchedTaxID)
}
