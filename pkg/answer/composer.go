package answer

import (
	"context"

	"github.com/nexusai/nexus/pkg/models"
	"github.com/nexusai/nexus/pkg/observability"
)

// Composer turns a question and its retrieved chunks into a grounded
// answer with timestamp citations.
type Composer struct {
	llm    Client
	logger observability.Logger
}

// NewComposer creates a Composer.
func NewComposer(llm Client, logger observability.Logger) *Composer {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	return &Composer{llm: llm, logger: logger}
}

// Compose builds the grounded prompt from the retrieved chunks, calls
// the LLM and returns the answer with one citation per retrieved chunk
// in rank order. Citations reflect what was offered as context, not
// which passages the model actually used.
func (c *Composer) Compose(ctx context.Context, question string, retrieved models.RetrievalResult) (models.Answer, error) {
	prompt := BuildPrompt(question, retrieved)

	text, err := c.llm.Generate(ctx, prompt)
	if err != nil {
		return models.Answer{}, err
	}

	citations := make([]models.Citation, 0, len(retrieved))
	for _, sc := range retrieved {
		citations = append(citations, models.Citation{Start: sc.Chunk.Start, End: sc.Chunk.End})
	}

	c.logger.Debug("composed answer", map[string]interface{}{
		"llm":        c.llm.Name(),
		"chunks":     len(retrieved),
		"answer_len": len(text),
	})

	return models.Answer{Text: text, Citations: citations}, nil
}
