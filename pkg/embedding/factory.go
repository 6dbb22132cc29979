package embedding

import (
	"context"
	"fmt"
)

// Provider name constants.
const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

// DefaultCacheSize is the default number of embedding vectors kept in
// the LRU cache.
const DefaultCacheSize = 2048

// Config selects and configures an embedding provider stack.
type Config struct {
	Provider  string        `mapstructure:"provider"`
	CacheSize int           `mapstructure:"cache_size"`
	OpenAI    OpenAIConfig  `mapstructure:"openai"`
	Bedrock   BedrockConfig `mapstructure:"bedrock"`
}

// NewProvider builds the configured provider wrapped, innermost first,
// with a circuit breaker, bounded retry, and an LRU cache.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	var base Provider
	switch cfg.Provider {
	case ProviderOpenAI, "":
		base = NewOpenAIProvider(cfg.OpenAI)
	case ProviderBedrock:
		p, err := NewBedrockProvider(ctx, cfg.Bedrock)
		if err != nil {
			return nil, err
		}
		base = p
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	return NewCachedProvider(NewRetryingProvider(NewBreakerProvider(base)), size)
}
