package discovery

import (
	"sitefinder/pkg/domain"
)

// DedupeByDomain collapses candidates to one representative per registrable
// domain. The representative with the highest prior wins; on equal priors
// the first-seen candidate is kept, so the operation is idempotent and
// order-stable. Candidates whose URL yields no registrable domain are
// dropped.
func DedupeByDomain(candidates []domain.Candidate) []domain.Candidate {
	type slot struct {
		idx  int
		cand domain.Candidate
	}

	byDomain := make(map[string]*slot, len(candidates))
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		registrable, err := RegistrableDomain(c.URL)
		if err != nil {
			continue
		}
		existing, ok := byDomain[registrable]
		if !ok {
			byDomain[registrable] = &slot{idx: len(order), cand: c}
			order = append(order, registrable)

			continue
		}
		if c.Prior > existing.cand.Prior {
			existing.cand = c
		}
	}

	out := make([]domain.Candidate, 0, len(order))
	for _, registrable := range order {
		out = append(out, byDomain[registrable].cand)
	}

	return out
}
