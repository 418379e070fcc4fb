package normalize_test

import (
	"sitefinder/internal/normalize"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  []string
	}{
		{
			name: "legal suffix stripped",
			in:   "Rossi Impianti SRL",
			out:  []string{"rossi", "impianti"},
		},
		{
			name: "dotted legal suffix stripped",
			in:   "Bianchi Costruzioni S.p.A.",
			out:  []string{"bianchi", "costruzioni"},
		},
		{
			name: "two char brand tokens retained",
			in:   "AB Meccanica SRL",
			out:  []string{"ab", "meccanica"},
		},
		{
			name: "filler words removed",
			in:   "Officina di Mario e Figli SNC",
			out:  []string{"officina", "mario", "figli"},
		},
		{
			name: "accents folded",
			in:   "Società Agricola Perù",
			out:  []string{"agricola", "peru"},
		},
		{
			name: "elision splits into tokens",
			in:   "L'Angolo del Gusto",
			out:  []string{"angolo", "gusto"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, normalize.NameTokens(tc.in))
		})
	}
}

func TestCompactName(t *testing.T) {
	require.Equal(t, "rossiimpianti", normalize.CompactName("Rossi Impianti SRL"))
	require.Equal(t, "abmeccanica", normalize.CompactName("AB Meccanica S.r.l."))
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"+39 02 1234567", "021234567"},
		{"0039 333 1234567", "3331234567"},
		{"02/12.34.567", "021234567"},
		{"333-1234567", "3331234567"},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.out, normalize.Phone(tc.in), "input %q", tc.in)
	}
}

func TestTaxID(t *testing.T) {
	require.Equal(t, "12345678901", normalize.TaxID("12345678901"))
	require.Equal(t, "12345678901", normalize.TaxID("IT12345678901"))
	require.Equal(t, "12345678901", normalize.TaxID("IT 12345678901"))
	require.Equal(t, "", normalize.TaxID("1234567890"), "10 digits is not a tax ID")
	require.Equal(t, "", normalize.TaxID("123456789012"), "12 digits is not a tax ID")
}

func TestPlausibleTaxID(t *testing.T) {
	require.True(t, normalize.PlausibleTaxID("12345670017"), "office 001")
	require.True(t, normalize.PlausibleTaxID("12345671215"), "office 121")
	require.True(t, normalize.PlausibleTaxID("12345679991"), "office 999")
	require.False(t, normalize.PlausibleTaxID("12345678901"), "office 890 out of range")
	require.False(t, normalize.PlausibleTaxID("1234567"), "wrong length")
}

func TestAddressTokens(t *testing.T) {
	require.Equal(t,
		[]string{"giuseppe", "garibaldi", "12", "milano"},
		normalize.AddressTokens("Via Giuseppe Garibaldi, 12 - Milano"))

	// Capped to the first 6 meaningful tokens.
	long := normalize.AddressTokens("Via Uno Due Tre Quattro Cinque Sei Sette Otto")
	require.Len(t, long, 6)
}

func TestEmailDomain(t *testing.T) {
	require.Equal(t, "rossimpianti.it", normalize.EmailDomain("info@rossimpianti.it"))
	require.Equal(t, "", normalize.EmailDomain("mario.rossi@gmail.com"), "freemail ignored")
	require.Equal(t, "", normalize.EmailDomain("azienda@arubapec.it"), "PEC provider ignored")
	require.Equal(t, "", normalize.EmailDomain("not-an-email"))
	require.Equal(t, "", normalize.EmailDomain("user@"))
}
