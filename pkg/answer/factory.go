package answer

import (
	"context"
	"fmt"
)

// Client name constants.
const (
	ClientOpenAI  = "openai"
	ClientBedrock = "bedrock"
)

// Config selects and configures an answer-generation client stack.
type Config struct {
	Provider string        `mapstructure:"provider"`
	OpenAI   OpenAIConfig  `mapstructure:"openai"`
	Bedrock  BedrockConfig `mapstructure:"bedrock"`
}

// NewClient builds the configured client wrapped, innermost first, with
// a circuit breaker and bounded retry.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	var base Client
	switch cfg.Provider {
	case ClientOpenAI, "":
		base = NewOpenAIClient(cfg.OpenAI)
	case ClientBedrock:
		c, err := NewBedrockClient(ctx, cfg.Bedrock)
		if err != nil {
			return nil, err
		}
		base = c
	default:
		return nil, fmt.Errorf("unknown answer provider %q", cfg.Provider)
	}
	return NewRetryingClient(NewBreakerClient(base)), nil
}
