package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

// BreakerProvider wraps a Provider with a circuit breaker so a failing
// embedding service sheds load instead of being hammered. Permanent
// errors (bad requests) do not count against the breaker.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps inner with a circuit breaker.
func NewBreakerProvider(inner Provider) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        inner.Name() + "-embedding",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !nexuserrors.IsTransient(err)
		},
	}
	return &BreakerProvider{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Embed implements Provider.Embed.
func (p *BreakerProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.inner.Embed(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, nexuserrors.WrapTransient(nexuserrors.CodeEmbeddingFailure, "embedding.BreakerProvider.Embed", err)
		}
		return nil, err
	}
	return result.([]float32), nil
}

// Dimensions implements Provider.Dimensions.
func (p *BreakerProvider) Dimensions() int {
	return p.inner.Dimensions()
}

// Name implements Provider.Name.
func (p *BreakerProvider) Name() string {
	return p.inner.Name()
}
