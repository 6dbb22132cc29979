package answer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

// DefaultMaxRetries bounds automatic retry of transient generation
// failures: the first attempt plus at most this many retries, then the
// error surfaces to the caller.
const DefaultMaxRetries = 2

// RetryingClient wraps a Client with bounded exponential-backoff retry
// of transient failures. Permanent failures surface immediately.
type RetryingClient struct {
	inner      Client
	maxRetries uint64
}

// NewRetryingClient wraps inner with the default retry budget.
func NewRetryingClient(inner Client) *RetryingClient {
	return &RetryingClient{inner: inner, maxRetries: DefaultMaxRetries}
}

// Generate implements Client.Generate.
func (c *RetryingClient) Generate(ctx context.Context, prompt string) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	return backoff.RetryWithData(func() (string, error) {
		text, err := c.inner.Generate(ctx, prompt)
		if err != nil && !nexuserrors.IsTransient(err) {
			return "", backoff.Permanent(err)
		}
		return text, err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
}

// Name implements Client.Name.
func (c *RetryingClient) Name() string {
	return c.inner.Name()
}
