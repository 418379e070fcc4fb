package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sitefinder/internal/discovery"
	"sitefinder/pkg/domain"
)

func TestDedupeByDomain_collapsesVariants(t *testing.T) {
	in := []domain.Candidate{
		{URL: "https://a.it", Source: domain.SourceSearchEngine, Prior: 0.5},
		{URL: "https://www.a.it", Source: domain.SourceDomainGuess, Prior: 0.3},
		{URL: "https://b.it", Source: domain.SourceSearchEngine, Prior: 0.5},
	}

	out := discovery.DedupeByDomain(in)
	require.Len(t, out, 2)
	require.Equal(t, "https://a.it", out[0].URL)
	require.Equal(t, "https://b.it", out[1].URL)
}

func TestDedupeByDomain_highestPriorWins(t *testing.T) {
	in := []domain.Candidate{
		{URL: "https://a.it/x", Source: domain.SourceDomainGuess, Prior: 0.3},
		{URL: "https://a.it/y", Source: domain.SourceIdentity, Prior: 0.7},
		{URL: "https://a.it/z", Source: domain.SourceSearchEngine, Prior: 0.5},
	}

	out := discovery.DedupeByDomain(in)
	require.Len(t, out, 1)
	require.Equal(t, "https://a.it/y", out[0].URL)
	require.Equal(t, domain.SourceIdentity, out[0].Source)
}

func TestDedupeByDomain_firstSeenOrderPreserved(t *testing.T) {
	in := []domain.Candidate{
		{URL: "https://c.it", Prior: 0.1},
		{URL: "https://a.it", Prior: 0.1},
		{URL: "https://b.it", Prior: 0.1},
		{URL: "https://a.it/again", Prior: 0.9},
	}

	out := discovery.DedupeByDomain(in)
	require.Len(t, out, 3)
	require.Equal(t, "https://c.it", out[0].URL)
	require.Equal(t, "https://a.it", out[1].URL)
	require.Equal(t, "https://b.it", out[2].URL)
}

func TestDedupeByDomain_idempotent(t *testing.T) {
	in := []domain.Candidate{
		{URL: "https://a.it", Prior: 0.5},
		{URL: "https://www.a.it", Prior: 0.3},
		{URL: "https://b.it", Prior: 0.5},
	}

	once := discovery.DedupeByDomain(in)
	twice := discovery.DedupeByDomain(once)
	require.Equal(t, once, twice)
}

func TestDedupeByDomain_dropsUnparseable(t *testing.T) {
	in := []domain.Candidate{
		{URL: "https://a.it", Prior: 0.5},
		{URL: "https://", Prior: 0.5},
	}

	out := discovery.DedupeByDomain(in)
	require.Len(t, out, 1)
}

func TestIsDirectoryOrSocial(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{url: "https://www.paginegialle.it/milano/rossi", want: true},
		{url: "https://www.facebook.com/rossiimpianti", want: true},
		{url: "https://it.linkedin.com/company/rossi", want: true},
		{url: "https://www.amazon.de/shops/rossi", want: true},
		{url: "https://rossi-impianti.it", want: false},
		{url: "https://rossi.paginegialle.example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			require.Equal(t, tt.want, discovery.IsDirectoryOrSocial(tt.url))
		})
	}
}
