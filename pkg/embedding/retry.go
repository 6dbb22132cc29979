package embedding

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

// DefaultMaxRetries bounds automatic retry of transient embedding
// failures: the first attempt plus at most this many retries, then the
// error surfaces to the caller.
const DefaultMaxRetries = 2

// RetryingProvider wraps a Provider with bounded exponential-backoff
// retry of transient failures. Permanent failures surface immediately.
type RetryingProvider struct {
	inner      Provider
	maxRetries uint64
}

// NewRetryingProvider wraps inner with the default retry budget.
func NewRetryingProvider(inner Provider) *RetryingProvider {
	return &RetryingProvider{inner: inner, maxRetries: DefaultMaxRetries}
}

// Embed implements Provider.Embed.
func (p *RetryingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	return backoff.RetryWithData(func() ([]float32, error) {
		vec, err := p.inner.Embed(ctx, text)
		if err != nil && !nexuserrors.IsTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return vec, err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, p.maxRetries), ctx))
}

// Dimensions implements Provider.Dimensions.
func (p *RetryingProvider) Dimensions() int {
	return p.inner.Dimensions()
}

// Name implements Provider.Name.
func (p *RetryingProvider) Name() string {
	return p.inner.Name()
}
