package dnscheck_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sitefinder/pkg/dnscheck"
	"sitefinder/pkg/fetch"
)

func TestLooksParked(t *testing.T) {
	longText := strings.Repeat("Impianti elettrici civili e industriali a Milano. ", 20)

	tests := []struct {
		name string
		page *fetch.Page
		want bool
	}{
		{
			name: "nil page",
			page: nil,
			want: false,
		},
		{
			name: "italian for-sale phrase",
			page: &fetch.Page{Title: "Dominio in vendita", VisibleText: "Questo dominio è in vendita. Contattaci."},
			want: true,
		},
		{
			name: "english parking marker",
			page: &fetch.Page{VisibleText: "This domain is for sale. Buy now."},
			want: true,
		},
		{
			name: "registrar link on near-empty body",
			page: &fetch.Page{VisibleText: "Benvenuto", HTML: `<a href="https://sedo.com/buy">sedo</a>`},
			want: true,
		},
		{
			name: "registrar link on a real page",
			page: &fetch.Page{VisibleText: longText, HTML: `<a href="https://aruba.it">hosting</a>`},
			want: false,
		},
		{
			name: "real company page",
			page: &fetch.Page{Title: "Rossi Impianti", VisibleText: longText},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, dnscheck.LooksParked(tt.page))
		})
	}
}
