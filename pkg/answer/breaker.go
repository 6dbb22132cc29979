package answer

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

// BreakerClient wraps a Client with a circuit breaker so a failing LLM
// service sheds load instead of being hammered. Permanent errors (bad
// requests) do not count against the breaker.
type BreakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps inner with a circuit breaker.
func NewBreakerClient(inner Client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        inner.Name() + "-answer",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !nexuserrors.IsTransient(err)
		},
	}
	return &BreakerClient{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Generate implements Client.Generate.
func (c *BreakerClient) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.inner.Generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", nexuserrors.WrapTransient(nexuserrors.CodeAnswerGenerationFailure, "answer.BreakerClient.Generate", err)
		}
		return "", err
	}
	return result.(string), nil
}

// Name implements Client.Name.
func (c *BreakerClient) Name() string {
	return c.inner.Name()
}
