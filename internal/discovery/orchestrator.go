package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"sitefinder/internal/config"
	"sitefinder/internal/evaluate"
	"sitefinder/internal/generate"
	"sitefinder/pkg/completion"
	"sitefinder/pkg/dnscheck"
	"sitefinder/pkg/domain"
	"sitefinder/pkg/fetch"
	"sitefinder/pkg/identity"
	"sitefinder/pkg/logger"
	"sitefinder/pkg/metrics"
	"sitefinder/pkg/presence"
	"sitefinder/pkg/ratelimit"
	"sitefinder/pkg/search"
	"sitefinder/pkg/serrors"
	"sitefinder/pkg/vercache"
)

// Deps are the collaborators a discovery orchestrator works against. Fetcher
// is required; every other collaborator is optional and its absence disables
// the corresponding source instead of failing the run.
type Deps struct {
	// Fetcher retrieves candidate pages. Required.
	Fetcher fetch.Fetcher
	// Searchers are the available search backends, each a named rate-limiter
	// source. The first one is used by the cheap layers; the swarm and
	// exhaustive layers fan out across all of them.
	Searchers []search.Provider
	// Directory resolves phone numbers to listing URLs. Optional.
	Directory search.Provider
	// Identity resolves the record against a legal register. Optional.
	Identity identity.Resolver
	// Completer is the text-completion escalation for ambiguous scores.
	// Optional.
	Completer completion.Completer
	// Presence locates a business through physical-presence sources in the
	// exhaustive layer. Optional.
	Presence presence.Locator
	// DNS gates synthesized domain guesses. Optional; when nil guesses are
	// verified without a reachability pre-check.
	DNS dnscheck.Checker
}

// Options hold runtime tunables of the orchestrator.
type Options struct {
	// Timeout is the per-call budget for one Discover invocation.
	Timeout time.Duration
	// SwarmConcurrency bounds concurrent candidate verifications in the swarm
	// and exhaustive layers.
	SwarmConcurrency int
	// RetryBackoff is the pause before the single retry of a failed fetch.
	RetryBackoff time.Duration
	// ResultsPerQuery bounds how many results of one search query become
	// candidates.
	ResultsPerQuery int
	// GuessProbeLimit bounds how many generated domains are probed per run.
	GuessProbeLimit int
}

// NewOptions constructs Options from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Timeout:          cfg.Discovery.Timeout,
		SwarmConcurrency: cfg.Discovery.SwarmConcurrency,
		RetryBackoff:     cfg.Discovery.RetryBackoff,
		ResultsPerQuery:  cfg.Discovery.ResultsPerQuery,
		GuessProbeLimit:  cfg.Discovery.GuessProbeLimit,
	}
}

// withDefaults fills zero fields with usable values.
func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 90 * time.Second
	}
	if o.SwarmConcurrency <= 0 {
		o.SwarmConcurrency = 8
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 500 * time.Millisecond
	}
	if o.ResultsPerQuery <= 0 {
		o.ResultsPerQuery = 5
	}
	if o.GuessProbeLimit <= 0 {
		o.GuessProbeLimit = 30
	}

	return o
}

// orchestrator is the concrete Discoverer. The limiter and cache it holds
// are shared, process-wide state across concurrent runs; everything else is
// call-local.
type orchestrator struct {
	deps      Deps
	opts      Options
	generator *generate.Generator
	limiter   *ratelimit.Limiter
	cache     *vercache.Cache
}

// New creates a Discoverer with the given collaborators, shared limiter and
// shared verification cache.
func New(deps Deps, limiter *ratelimit.Limiter, cache *vercache.Cache, opts Options) Discoverer {
	return &orchestrator{
		deps:      deps,
		opts:      opts.withDefaults(),
		generator: generate.New(),
		limiter:   limiter,
		cache:     cache,
	}
}

// scored is one verified candidate with its provenance.
type scored struct {
	eval   domain.Evaluation
	source domain.SourceTag
	method domain.DiscoveryMethod
}

// better reports whether a beats b under the deterministic selection order:
// confidence descending, then source priority, then URL for a total order.
func better(a, b *scored) bool {
	if b == nil {
		return true
	}
	if a.eval.Confidence != b.eval.Confidence {
		return a.eval.Confidence > b.eval.Confidence
	}
	if a.source.Priority() != b.source.Priority() {
		return a.source.Priority() < b.source.Priority()
	}

	return a.eval.URL < b.eval.URL
}

// run is the mutable state of one Discover call. The mutex only matters
// within the concurrently-verifying layers.
type run struct {
	record  domain.BusinessRecord
	profile domain.ModeProfile
	runID   domain.RunID

	mu           sync.Mutex
	best         *scored
	sawCandidate bool
	evaluated    int
	lastFailure  domain.ReasonCode
}

// consider records a verified candidate and returns the current best.
func (r *run) consider(s *scored) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evaluated++
	if better(s, r.best) {
		r.best = s
	}
}

// noteCandidate marks that at least one candidate survived dedup and
// blocklisting; distinguishes NOT_FOUND from NOT_FOUND_NO_CANDIDATES.
func (r *run) noteCandidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sawCandidate = true
}

// noteFailure remembers the most recent verification failure reason for
// runs that end with nothing evaluated.
func (r *run) noteFailure(reason domain.ReasonCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFailure = reason
}

// Discover runs the layered waterfall for one record. See the package
// comment for the layer sequence; each layer either terminates the run with
// an accepted result or contributes its best rejected candidate to the
// final best-effort selection.
func (o *orchestrator) Discover(ctx context.Context, record domain.BusinessRecord, mode domain.Mode) (res domain.DiscoveryResult) {
	start := time.Now()
	runID := domain.NewRunID()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "discovery run panicked", zap.Any("panic", p))
			res = domain.DiscoveryResult{
				RunID:  runID,
				Status: domain.StatusError,
				Method: domain.MethodNone,
				Reason: domain.ReasonErrorInternal,
				Cause:  fmt.Sprintf("panic: %v", p),
			}
		}
		metrics.DiscoveryRuns.With(prometheus.Labels{
			"status": string(res.Status),
			"method": string(res.Method),
			"mode":   string(mode),
		}).Inc()
		metrics.DiscoveryDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	profile, err := domain.ProfileFor(mode)
	if err != nil {
		return domain.DiscoveryResult{
			RunID:  runID,
			Status: domain.StatusError,
			Method: domain.MethodNone,
			Reason: domain.ReasonErrorConfigInvalid,
			Cause:  err.Error(),
		}
	}
	if strings.TrimSpace(record.Name) == "" {
		return domain.DiscoveryResult{
			RunID:  runID,
			Status: domain.StatusError,
			Method: domain.MethodNone,
			Reason: domain.ReasonErrorConfigInvalid,
			Cause:  "record has no name",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()
	ctx = logger.WithFields(ctx,
		zap.String("runID", runID.String()),
		zap.String("name", record.Name),
		zap.String("mode", string(mode)))

	logger.Info(ctx, "discovery run started",
		zap.Float64("threshold", profile.AcceptThreshold()),
		zap.Int("candidateCap", profile.CandidateCap))

	r := &run{record: record, profile: profile, runID: runID}

	layers := []struct {
		method domain.DiscoveryMethod
		fn     func(context.Context, *run) *domain.DiscoveryResult
	}{
		{domain.MethodPreCheck, o.preCheck},
		{domain.MethodIdentityCandidates, o.identityCandidates},
		{domain.MethodCheapSearch, o.cheapSearch},
		{domain.MethodSwarmSearch, o.swarmSearch},
		{domain.MethodExhaustive, o.exhaustiveFallback},
	}

	for _, layer := range layers {
		if ctx.Err() != nil {
			logger.Warn(ctx, "discovery budget exhausted, returning best effort",
				zap.String("layer", string(layer.method)))

			break
		}
		if accepted := layer.fn(ctx, r); accepted != nil {
			logger.Info(ctx, "discovery run accepted candidate",
				zap.String("url", accepted.URL),
				zap.Float64("confidence", accepted.Confidence),
				zap.String("method", string(accepted.Method)))

			return *accepted
		}
	}

	return o.finish(ctx, r)
}

// finish builds the terminal result when no layer accepted a candidate.
func (o *orchestrator) finish(ctx context.Context, r *run) domain.DiscoveryResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.best != nil && r.best.eval.Confidence >= r.profile.AcceptThreshold():
		// Reachable only when the budget ran out right after a concurrent
		// verification succeeded.
		return o.accepted(r, r.best)

	case r.best != nil && r.best.eval.Confidence >= domain.InvalidFloor:
		logger.Info(ctx, "discovery run ended with best-effort candidate",
			zap.String("url", r.best.eval.URL),
			zap.Float64("confidence", r.best.eval.Confidence))
		eval := r.best.eval

		return domain.DiscoveryResult{
			RunID:      r.runID,
			URL:        eval.URL,
			Status:     domain.StatusFoundInvalid,
			Confidence: eval.Confidence,
			Method:     r.best.method,
			Reason:     domain.ReasonRejectedNoMatchingSignals,
			Evaluation: &eval,
		}

	case !r.sawCandidate:
		logger.Info(ctx, "discovery run found no candidates")

		return domain.DiscoveryResult{
			RunID:  r.runID,
			Status: domain.StatusNotFound,
			Method: domain.MethodNone,
			Reason: domain.ReasonNotFoundNoCandidates,
		}

	default:
		reason := domain.ReasonRejectedNoMatchingSignals
		if r.evaluated == 0 && r.lastFailure != "" {
			// Every verification failed before producing an evaluation;
			// surface why instead of pretending the signals were weak.
			reason = r.lastFailure
		}
		logger.Info(ctx, "discovery run rejected all candidates", zap.String("reason", string(reason)))

		return domain.DiscoveryResult{
			RunID:  r.runID,
			Status: domain.StatusNotFound,
			Method: domain.MethodNone,
			Reason: reason,
		}
	}
}

// accepted builds a FOUND_VALID result from a winning candidate. Caller must
// hold r.mu or have exclusive access to r.
func (o *orchestrator) accepted(r *run, s *scored) domain.DiscoveryResult {
	eval := s.eval

	return domain.DiscoveryResult{
		RunID:      r.runID,
		URL:        eval.URL,
		Status:     domain.StatusFoundValid,
		Confidence: eval.Confidence,
		Method:     s.method,
		Evaluation: &eval,
	}
}

// acceptIfStrong records the candidate and terminates the layer when it
// clears the mode's effective threshold.
func (o *orchestrator) acceptIfStrong(r *run, s *scored) *domain.DiscoveryResult {
	if s == nil {
		return nil
	}
	r.consider(s)
	if s.eval.Confidence >= r.profile.AcceptThreshold() {
		res := o.accepted(r, s)

		return &res
	}

	return nil
}

// Verify evaluates one caller-provided URL against a record, through the
// verification cache. Directory and social URLs short-circuit to a zero
// evaluation without fetching.
func (o *orchestrator) Verify(ctx context.Context, rawURL string, record domain.BusinessRecord) (domain.Evaluation, error) {
	norm, err := NormalizeURL(rawURL)
	if err != nil {
		return domain.Evaluation{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid URL")
	}
	if IsDirectoryOrSocial(norm) {
		metrics.Verifications.WithLabelValues("blocklisted").Inc()

		return domain.Evaluation{URL: norm, ReasonTags: []string{"directory-or-social"}}, nil
	}

	ev, _, err := o.evaluateURL(ctx, record, norm)
	if err != nil {
		return domain.Evaluation{}, err
	}

	return ev, nil
}

// evaluateURL fetches (or recalls from cache) and scores one normalized URL.
// The bool reports whether the page looked parked.
func (o *orchestrator) evaluateURL(ctx context.Context, record domain.BusinessRecord, norm string) (domain.Evaluation, bool, error) {
	key := vercache.Key(norm, record)
	if ev, ok := o.cache.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()

		return ev, false, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	page, err := o.fetchWithRetry(ctx, norm)
	if err != nil {
		return domain.Evaluation{}, false, err
	}

	if dnscheck.LooksParked(page) {
		ev := domain.Evaluation{URL: norm, ReasonTags: []string{"parked-domain"}}
		o.cache.Set(key, ev)

		return ev, true, nil
	}

	ev := evaluate.Evaluate(record, norm, page.VisibleText, page.Title)
	ev = o.escalate(ctx, record, ev)
	o.cache.Set(key, ev)

	return ev, false, nil
}

// fetchWithRetry fetches a URL, retrying once with backoff on timeouts and
// transient unavailability. Blocked and rate-limited responses are not
// retried; hammering a source that just refused us only makes it worse.
func (o *orchestrator) fetchWithRetry(ctx context.Context, url string) (*fetch.Page, error) {
	page, err := o.deps.Fetcher.Fetch(ctx, url)
	if err == nil {
		return page, nil
	}
	if !errors.Is(err, serrors.ErrTimeout) && !errors.Is(err, serrors.ErrUnavailable) {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, serrors.Wrap(serrors.ErrTimeout, ctx.Err(), "fetch budget exhausted")
	case <-time.After(o.opts.RetryBackoff):
	}

	return o.deps.Fetcher.Fetch(ctx, url)
}

// verifyCandidate runs the full verification pipeline for one candidate and
// returns its scored evaluation, or nil when the candidate was skipped or
// failed. Failures are recorded on the run, never propagated.
func (o *orchestrator) verifyCandidate(ctx context.Context, r *run, cand domain.Candidate, method domain.DiscoveryMethod) *scored {
	norm, err := NormalizeURL(cand.URL)
	if err != nil {
		logger.Debug(ctx, "dropping malformed candidate", zap.String("url", cand.URL), zap.Error(err))

		return nil
	}
	if IsDirectoryOrSocial(norm) {
		metrics.Verifications.WithLabelValues("blocklisted").Inc()
		r.noteCandidate()
		r.noteFailure(domain.ReasonRejectedDirectoryOrSocial)

		return nil
	}

	// Synthesized guesses get a cheap reachability gate before any fetch. A
	// guess that does not even resolve never counts as a candidate.
	if cand.Source == domain.SourceDomainGuess && o.deps.DNS != nil {
		registrable, derr := RegistrableDomain(norm)
		if derr == nil && !o.deps.DNS.Resolves(ctx, registrable) {
			metrics.Verifications.WithLabelValues("unresolvable").Inc()

			return nil
		}
	}
	r.noteCandidate()

	ev, parked, err := o.evaluateURL(ctx, r.record, norm)
	if err != nil {
		metrics.Verifications.WithLabelValues("failed").Inc()
		r.noteFailure(failureReason(err))
		logger.Debug(ctx, "candidate verification failed",
			zap.String("url", norm), zap.String("source", string(cand.Source)), zap.Error(err))

		return nil
	}
	if parked {
		metrics.Verifications.WithLabelValues("parked").Inc()
		logger.Debug(ctx, "candidate page looks parked", zap.String("url", norm))

		return nil
	}

	metrics.Verifications.WithLabelValues("evaluated").Inc()
	logger.Debug(ctx, "candidate evaluated",
		zap.String("url", norm),
		zap.String("source", string(cand.Source)),
		zap.Float64("confidence", ev.Confidence),
		zap.Strings("reasons", ev.ReasonTags))

	return &scored{eval: ev, source: cand.Source, method: method}
}

// failureReason maps a verification error to the closed reason taxonomy.
func failureReason(err error) domain.ReasonCode {
	switch {
	case errors.Is(err, serrors.ErrTimeout):
		return domain.ReasonErrorTimeoutFetch
	case errors.Is(err, serrors.ErrBlocked):
		return domain.ReasonErrorBlocked
	case errors.Is(err, serrors.ErrRateLimited):
		return domain.ReasonErrorProviderRateLimit
	default:
		return domain.ReasonErrorInternal
	}
}

// escalationBand is the ambiguous confidence range in which the optional
// completion service is consulted.
const (
	escalationLow  = 0.20
	escalationHigh = 0.90
	// escalationFloor is the minimum rule-based confidence required before a
	// positive completion verdict may add anything: the completion service is
	// never the sole basis for a match.
	escalationFloor = 0.45
	escalationBoost = 0.08
	escalationDrop  = 0.15
)

// escalate consults the completion service for ambiguous scores and nudges
// the confidence, bounded in both directions.
func (o *orchestrator) escalate(ctx context.Context, record domain.BusinessRecord, ev domain.Evaluation) domain.Evaluation {
	if o.deps.Completer == nil || ev.MatchedTaxID != "" {
		return ev
	}
	if ev.Confidence < escalationLow || ev.Confidence >= escalationHigh {
		return ev
	}

	prompt := fmt.Sprintf(
		"Azienda: %s, città: %s. Il sito %s è il sito ufficiale di questa azienda? Rispondi solo SI o NO.",
		record.Name, record.City, ev.URL)
	answer, err := o.deps.Completer.Complete(ctx, prompt)
	if err != nil {
		logger.Debug(ctx, "completion escalation failed", zap.Error(err))

		return ev
	}

	switch {
	case affirmative(answer) && ev.Confidence >= escalationFloor:
		ev.Confidence += escalationBoost
		if ev.Confidence > escalationHigh {
			ev.Confidence = escalationHigh
		}
		ev.ReasonTags = append(ev.ReasonTags, "llm-confirm")
	case negative(answer):
		ev.Confidence -= escalationDrop
		if ev.Confidence < 0 {
			ev.Confidence = 0
		}
		ev.ReasonTags = append(ev.ReasonTags, "llm-reject")
	}

	return ev
}

// affirmative and negative parse the completion verdict leniently.
func affirmative(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))

	return strings.HasPrefix(a, "si") || strings.HasPrefix(a, "sì") || strings.HasPrefix(a, "yes")
}

func negative(answer string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "no")
}

// Ensure orchestrator conforms to the Discoverer interface at compile time.
var _ Discoverer = (*orchestrator)(nil)
