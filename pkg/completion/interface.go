// Package completion defines the optional text-completion contract used as
// an escalation path when rule-based confidence is ambiguous. A completion
// verdict is never the sole basis for accepting a URL.
package completion

import "context"

// Completer answers a free-text prompt with a free-text completion.
//
//go:generate mockgen -package mockcompletion -source=interface.go -destination=mock/mockcompletion.go *
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
