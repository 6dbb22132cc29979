// Package answer composes grounded answers from retrieved transcript
// chunks. It builds the prompt context, calls the hosted LLM through the
// Client interface and returns the answer text with timestamp citations
// in retrieval-rank order. LLM failures surface as distinct
// answer-generation errors, never silently swallowed.
package answer

import "context"

// Client generates text from a prompt. Implementations wrap hosted LLM
// services.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the client for logs and breaker metrics.
	Name() string
}
