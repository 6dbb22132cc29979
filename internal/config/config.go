// Package config loads service configuration from a YAML file and
// NEXUS_-prefixed environment variables, with environment variables
// taking precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nexusai/nexus/internal/api"
	"github.com/nexusai/nexus/internal/core"
	"github.com/nexusai/nexus/pkg/answer"
	"github.com/nexusai/nexus/pkg/embedding"
	"github.com/nexusai/nexus/pkg/observability"
)

// LoggingConfig configures the service logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the full service configuration.
type Config struct {
	API       api.Config                  `mapstructure:"api"`
	Core      core.Config                 `mapstructure:"core"`
	Embedding embedding.Config            `mapstructure:"embedding"`
	Answer    answer.Config               `mapstructure:"answer"`
	Tracing   observability.TracingConfig `mapstructure:"tracing"`
	Logging   LoggingConfig               `mapstructure:"logging"`
}

// Load reads configuration from the given file path (optional) and the
// environment, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NEXUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Core.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// API
	v.SetDefault("api.listen_address", ":8080")
	v.SetDefault("api.read_timeout", "30s")
	v.SetDefault("api.write_timeout", "90s")
	v.SetDefault("api.shutdown_timeout", "10s")
	v.SetDefault("api.enable_tracing", false)
	v.SetDefault("api.rate_limit.enabled", true)
	v.SetDefault("api.rate_limit.rps", 10)
	v.SetDefault("api.rate_limit.burst", 20)

	// Core pipeline
	v.SetDefault("core.chunking.max_chars", 1000)
	v.SetDefault("core.chunking.overlap_chars", 200)
	v.SetDefault("core.top_k", 3)
	v.SetDefault("core.default_language", "en")
	v.SetDefault("core.embed_workers", 4)
	v.SetDefault("core.fetch_timeout", "10s")
	v.SetDefault("core.build_timeout", "30s")
	v.SetDefault("core.answer_timeout", "30s")

	// Embedding
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.cache_size", 2048)
	v.SetDefault("embedding.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.openai.model", "text-embedding-3-small")
	v.SetDefault("embedding.openai.dimensions", 1536)
	v.SetDefault("embedding.openai.timeout", "30s")
	v.SetDefault("embedding.bedrock.region", "us-east-1")
	v.SetDefault("embedding.bedrock.model", "amazon.titan-embed-text-v2:0")
	v.SetDefault("embedding.bedrock.dimensions", 1024)

	// Answer generation
	v.SetDefault("answer.provider", "openai")
	v.SetDefault("answer.openai.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("answer.openai.model", "llama3-8b-8192")
	v.SetDefault("answer.openai.temperature", 0.7)
	v.SetDefault("answer.openai.max_tokens", 1024)
	v.SetDefault("answer.openai.timeout", "30s")
	v.SetDefault("answer.bedrock.region", "us-east-1")
	v.SetDefault("answer.bedrock.model", "anthropic.claude-3-haiku-20240307-v1:0")
	v.SetDefault("answer.bedrock.temperature", 0.7)
	v.SetDefault("answer.bedrock.max_tokens", 1024)

	// Observability
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "nexus")
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("logging.level", "INFO")
}
