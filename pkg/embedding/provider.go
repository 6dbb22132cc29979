// Package embedding wraps external sentence-embedding services behind a
// common Provider interface and layers caching, circuit breaking and
// bounded retry on top. The index builder and the retriever both embed
// through the same Provider instance; using different embedding spaces
// for build and query is a caller error this package does not detect.
package embedding

import "context"

// Provider maps text to a fixed-dimension embedding vector. Vectors are
// never mutated after creation.
type Provider interface {
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the fixed vector dimension of this provider.
	Dimensions() int
	// Name identifies the provider for logs and breaker metrics.
	Name() string
}
