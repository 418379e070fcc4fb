package domain

// DiscoveryStatus is the terminal state of one discovery run.
type DiscoveryStatus string

const (
	// StatusFoundValid indicates a candidate cleared the mode's acceptance
	// threshold.
	StatusFoundValid DiscoveryStatus = "FOUND_VALID"
	// StatusFoundInvalid indicates no candidate cleared the acceptance
	// threshold, but the best one cleared the lower reporting floor and is
	// returned for manual review.
	StatusFoundInvalid DiscoveryStatus = "FOUND_INVALID"
	// StatusNotFound indicates no usable candidate was found at any layer.
	StatusNotFound DiscoveryStatus = "NOT_FOUND"
	// StatusError indicates the run failed for an internal reason; see
	// ReasonCode and Cause.
	StatusError DiscoveryStatus = "ERROR"
)

// ReasonCode is the closed taxonomy attached to every non-success result.
type ReasonCode string

const (
	ReasonRejectedDirectoryOrSocial ReasonCode = "REJECTED_DIRECTORY_OR_SOCIAL"
	ReasonRejectedNoMatchingSignals ReasonCode = "REJECTED_NO_MATCHING_SIGNALS"
	ReasonErrorTimeoutFetch         ReasonCode = "ERROR_TIMEOUT_FETCH"
	ReasonErrorBlocked              ReasonCode = "ERROR_BLOCKED"
	ReasonErrorProviderRateLimit    ReasonCode = "ERROR_PROVIDER_RATE_LIMIT"
	ReasonErrorConfigInvalid        ReasonCode = "ERROR_CONFIG_INVALID"
	ReasonNotFoundNoCandidates      ReasonCode = "NOT_FOUND_NO_CANDIDATES"
	ReasonErrorInternal             ReasonCode = "ERROR_INTERNAL"
)

// DiscoveryMethod names the layer or strategy that produced the final result.
type DiscoveryMethod string

const (
	MethodPreCheck           DiscoveryMethod = "pre-check"
	MethodIdentityCandidates DiscoveryMethod = "identity-candidates"
	MethodCheapSearch        DiscoveryMethod = "cheap-search"
	MethodSwarmSearch        DiscoveryMethod = "swarm-search"
	MethodExhaustive         DiscoveryMethod = "exhaustive-fallback"
	MethodNone               DiscoveryMethod = "none"
)

// DiscoveryResult is the terminal output of one discovery run. It is
// constructed once per call and never mutated after return.
type DiscoveryResult struct {
	// RunID correlates the result with the log lines of its run.
	RunID RunID `json:"runId"`
	// URL is the winning (or best-effort) URL; empty when Status is NOT_FOUND
	// or ERROR.
	URL string `json:"url,omitempty"`
	// Status is the terminal state of the run.
	Status DiscoveryStatus `json:"status"`
	// Confidence is the confidence of the returned URL, zero when none.
	Confidence float64 `json:"confidence"`
	// Method names the layer that produced the returned URL.
	Method DiscoveryMethod `json:"method"`
	// Reason explains non-success results using the closed taxonomy.
	Reason ReasonCode `json:"reason,omitempty"`
	// Evaluation carries the full evaluator verdict for the returned URL,
	// when one exists.
	Evaluation *Evaluation `json:"evaluation,omitempty"`
	// Cause carries the textual cause for ERROR results.
	Cause string `json:"cause,omitempty"`
}
