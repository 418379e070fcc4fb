package discovery

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sitefinder/internal/normalize"
	"sitefinder/pkg/domain"
	"sitefinder/pkg/logger"
	"sitefinder/pkg/metrics"
	"sitefinder/pkg/search"
)

// errAccepted aborts a concurrent verification group once a candidate has
// cleared the threshold. Never surfaces to callers.
var errAccepted = errors.New("candidate accepted")

// preCheck verifies the record's own priors: the existing URL claim and the
// domain of a non-freemail contact address. Cheapest layer, runs always.
func (o *orchestrator) preCheck(ctx context.Context, r *run) *domain.DiscoveryResult {
	var candidates []domain.Candidate

	if r.record.ExistingURL != "" {
		url := r.record.ExistingURL
		if !strings.Contains(url, "://") {
			url = "https://" + url
		}
		candidates = append(candidates, domain.Candidate{
			URL:    url,
			Source: domain.SourceExisting,
			Prior:  0.8,
		})
	}

	if emailDomain := normalize.EmailDomain(r.record.Email); emailDomain != "" {
		candidates = append(candidates, domain.Candidate{
			URL:    "https://" + emailDomain,
			Source: domain.SourceEmailDomain,
			Prior:  0.6,
		})
	}

	if len(candidates) == 0 {
		return nil
	}
	logger.Debug(ctx, "pre-check layer verifying record priors", zap.Int("candidates", len(candidates)))

	return o.verifySequential(ctx, r, candidates, domain.MethodPreCheck)
}

// identityCandidates anchors the search on the legal register: the record is
// resolved to its registered name and tax ID, and the search results for that
// legal identity are verified. A candidate from this layer is accepted only
// when the page carries the record's tax ID; a name-only match at this point
// could just as well be a homonym.
func (o *orchestrator) identityCandidates(ctx context.Context, r *run) *domain.DiscoveryResult {
	if o.deps.Identity == nil || len(o.deps.Searchers) == 0 {
		return nil
	}

	if err := o.limiter.WaitForSlot(ctx, "identity"); err != nil {
		return nil
	}
	legal, err := o.deps.Identity.Resolve(ctx, r.record)
	if err != nil {
		o.limiter.ReportFailure("identity")
		r.noteFailure(failureReason(err))
		logger.Warn(ctx, "identity resolution failed", zap.Error(err))

		return nil
	}
	o.limiter.ReportSuccess("identity")
	if legal == nil {
		logger.Debug(ctx, "identity resolver returned no match")

		return nil
	}

	logger.Debug(ctx, "identity resolved",
		zap.String("legalName", legal.LegalName), zap.Float64("confidence", legal.Confidence))

	var candidates []domain.Candidate
	for _, query := range identityQueries(legal, r.record) {
		for _, res := range o.collectSearch(ctx, r, o.deps.Searchers[0], query) {
			candidates = append(candidates, domain.Candidate{
				URL:    res.URL,
				Source: domain.SourceIdentity,
				Prior:  0.7,
			})
		}
	}

	candidates = DedupeByDomain(candidates)
	if len(candidates) > r.profile.CandidateCap {
		candidates = candidates[:r.profile.CandidateCap]
	}

	for _, cand := range candidates {
		s := o.verifyCandidate(ctx, r, cand, domain.MethodIdentityCandidates)
		if s == nil {
			continue
		}
		r.consider(s)
		if s.eval.MatchedTaxID != "" && s.eval.Confidence >= r.profile.AcceptThreshold() {
			res := o.accepted(r, s)

			return &res
		}
	}

	return nil
}

// cheapSearch runs the two cheapest name+city queries against the primary
// search backend and verifies their results sequentially.
func (o *orchestrator) cheapSearch(ctx context.Context, r *run) *domain.DiscoveryResult {
	if len(o.deps.Searchers) == 0 {
		return nil
	}

	var candidates []domain.Candidate
	for _, query := range cheapQueries(r.record) {
		for _, res := range o.collectSearch(ctx, r, o.deps.Searchers[0], query) {
			candidates = append(candidates, domain.Candidate{
				URL:    res.URL,
				Source: domain.SourceSearchEngine,
				Prior:  0.5,
			})
		}
	}

	return o.verifySequential(ctx, r, candidates, domain.MethodCheapSearch)
}

// swarmSearch is the wide layer: the full query set fans out across every
// search backend, the phone directory is reverse-looked-up, synthesized
// domain guesses join the pool, and verification runs concurrently under the
// swarm bound.
func (o *orchestrator) swarmSearch(ctx context.Context, r *run) *domain.DiscoveryResult {
	var candidates []domain.Candidate

	queries := swarmQueries(r.record)
	for i, query := range queries {
		if len(o.deps.Searchers) == 0 {
			break
		}
		// Round-robin across backends so no single source absorbs the whole
		// query load.
		provider := o.deps.Searchers[i%len(o.deps.Searchers)]
		for _, res := range o.collectSearch(ctx, r, provider, query) {
			candidates = append(candidates, domain.Candidate{
				URL:    res.URL,
				Source: domain.SourceSearchEngine,
				Prior:  0.5,
			})
		}
	}

	if o.deps.Directory != nil {
		if phone := normalize.Phone(r.record.Phone); phone != "" {
			for _, res := range o.collectSearch(ctx, r, o.deps.Directory, phone) {
				candidates = append(candidates, domain.Candidate{
					URL:    res.URL,
					Source: domain.SourcePhoneDirectory,
					Prior:  0.6,
				})
			}
		}
	}

	guesses := o.generator.Generate(ctx, r.record.Name, r.record.City, r.record.Province, r.record.Category)
	if len(guesses) > o.opts.GuessProbeLimit {
		guesses = guesses[:o.opts.GuessProbeLimit]
	}
	for _, guess := range guesses {
		// The www variant collapses with the bare form under registrable-domain
		// dedup, so guesses probe the bare host only.
		candidates = append(candidates, domain.Candidate{
			URL:    "https://" + guess,
			Source: domain.SourceDomainGuess,
			Prior:  0.3,
		})
	}

	return o.verifyConcurrent(ctx, r, candidates, domain.MethodSwarmSearch)
}

// exhaustiveFallback is the most expensive layer and only runs in exhaustive
// mode: the physical presence locator and a broadened query set.
func (o *orchestrator) exhaustiveFallback(ctx context.Context, r *run) *domain.DiscoveryResult {
	if !r.profile.RunExhaustive {
		return nil
	}

	var candidates []domain.Candidate

	if o.deps.Presence != nil {
		if err := o.limiter.WaitForSlot(ctx, "presence"); err == nil {
			url, err := o.deps.Presence.Locate(ctx, r.record)
			switch {
			case err != nil:
				o.limiter.ReportFailure("presence")
				r.noteFailure(failureReason(err))
				logger.Warn(ctx, "presence lookup failed", zap.Error(err))
			case url != "":
				o.limiter.ReportSuccess("presence")
				candidates = append(candidates, domain.Candidate{
					URL:    url,
					Source: domain.SourceExhaustive,
					Prior:  0.5,
				})
			default:
				o.limiter.ReportSuccess("presence")
			}
		}
	}

	for i, query := range exhaustiveQueries(r.record) {
		if len(o.deps.Searchers) == 0 {
			break
		}
		provider := o.deps.Searchers[i%len(o.deps.Searchers)]
		for _, res := range o.collectSearch(ctx, r, provider, query) {
			candidates = append(candidates, domain.Candidate{
				URL:    res.URL,
				Source: domain.SourceExhaustive,
				Prior:  0.4,
			})
		}
	}

	return o.verifyConcurrent(ctx, r, candidates, domain.MethodExhaustive)
}

// collectSearch runs one query against one backend under the shared rate
// limiter and returns at most ResultsPerQuery results. Failures are recorded
// and reported to the limiter so the source backs off.
func (o *orchestrator) collectSearch(ctx context.Context, r *run, provider search.Provider, query string) []search.Result {
	name := provider.Name()
	if err := o.limiter.WaitForSlot(ctx, name); err != nil {
		return nil
	}

	results, err := provider.Search(ctx, query)
	if err != nil {
		o.limiter.ReportFailure(name)
		metrics.SearchQueries.WithLabelValues(name, "error").Inc()
		r.noteFailure(failureReason(err))
		logger.Warn(ctx, "search query failed",
			zap.String("source", name), zap.String("query", query), zap.Error(err))

		return nil
	}
	o.limiter.ReportSuccess(name)
	metrics.SearchQueries.WithLabelValues(name, "ok").Inc()

	if len(results) > o.opts.ResultsPerQuery {
		results = results[:o.opts.ResultsPerQuery]
	}

	return results
}

// verifySequential dedupes, caps and verifies candidates one at a time, in
// order. Used by the cheap layers where latency matters less than cost.
func (o *orchestrator) verifySequential(ctx context.Context, r *run, candidates []domain.Candidate, method domain.DiscoveryMethod) *domain.DiscoveryResult {
	candidates = DedupeByDomain(candidates)
	if len(candidates) > r.profile.CandidateCap {
		candidates = candidates[:r.profile.CandidateCap]
	}

	for _, cand := range candidates {
		if ctx.Err() != nil {
			return nil
		}
		if res := o.acceptIfStrong(r, o.verifyCandidate(ctx, r, cand, method)); res != nil {
			return res
		}
	}

	return nil
}

// verifyConcurrent dedupes, caps and verifies candidates concurrently under
// the swarm bound. The first acceptance cancels the remaining verifications;
// the winner among concurrent acceptances is still chosen deterministically
// through the run's best tracking.
func (o *orchestrator) verifyConcurrent(ctx context.Context, r *run, candidates []domain.Candidate, method domain.DiscoveryMethod) *domain.DiscoveryResult {
	candidates = DedupeByDomain(candidates)
	if len(candidates) > r.profile.CandidateCap {
		candidates = candidates[:r.profile.CandidateCap]
	}
	if len(candidates) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.SwarmConcurrency)

	for _, cand := range candidates {
		cand := cand
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			s := o.verifyCandidate(gctx, r, cand, method)
			if s == nil {
				return nil
			}
			r.consider(s)
			if s.eval.Confidence >= r.profile.AcceptThreshold() {
				return errAccepted
			}

			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, errAccepted) {
		logger.Warn(ctx, "concurrent verification aborted", zap.Error(err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.best != nil && r.best.eval.Confidence >= r.profile.AcceptThreshold() {
		res := o.accepted(r, r.best)

		return &res
	}

	return nil
}
