package core

import (
	"fmt"
	"time"

	"github.com/nexusai/nexus/pkg/chunking"
	nexuserrors "github.com/nexusai/nexus/pkg/errors"
	"github.com/nexusai/nexus/pkg/retrieval"
)

// Config configures the question-answering engine.
type Config struct {
	Chunking        chunking.Config `mapstructure:"chunking"`
	TopK            int             `mapstructure:"top_k"`
	DefaultLanguage string          `mapstructure:"default_language"`
	EmbedWorkers    int             `mapstructure:"embed_workers"`
	FetchTimeout    time.Duration   `mapstructure:"fetch_timeout"`
	BuildTimeout    time.Duration   `mapstructure:"build_timeout"`
	AnswerTimeout   time.Duration   `mapstructure:"answer_timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Chunking:        chunking.DefaultConfig(),
		TopK:            retrieval.DefaultTopK,
		DefaultLanguage: "en",
		EmbedWorkers:    4,
		FetchTimeout:    10 * time.Second,
		BuildTimeout:    30 * time.Second,
		AnswerTimeout:   30 * time.Second,
	}
}

// Validate checks the engine configuration.
func (c Config) Validate() error {
	if err := c.Chunking.Validate(); err != nil {
		return err
	}
	if c.TopK <= 0 {
		return nexuserrors.New(nexuserrors.CodeInvalidConfiguration, "core.Validate",
			fmt.Sprintf("top_k must be > 0, got %d", c.TopK))
	}
	if c.EmbedWorkers <= 0 {
		return nexuserrors.New(nexuserrors.CodeInvalidConfiguration, "core.Validate",
			fmt.Sprintf("embed_workers must be > 0, got %d", c.EmbedWorkers))
	}
	return nil
}
