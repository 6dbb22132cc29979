// Package retrieval turns a natural-language question into a ranked list
// of relevant transcript chunks by combining an embedder with a built
// vector index.
package retrieval

import (
	"context"

	"github.com/nexusai/nexus/pkg/models"
	"github.com/nexusai/nexus/pkg/observability"
	"github.com/nexusai/nexus/pkg/vectorstore"
)

// DefaultTopK is the default number of chunks retrieved per question.
const DefaultTopK = 3

// Retriever embeds questions and searches a vector index.
//
// Precondition: the question must be embedded with the same embedder the
// index was built with. Mixing embedding spaces is a caller error the
// retriever cannot detect beyond a dimension check.
type Retriever struct {
	embedder vectorstore.Embedder
	logger   observability.Logger
}

// New creates a Retriever.
func New(embedder vectorstore.Embedder, logger observability.Logger) *Retriever {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	return &Retriever{embedder: embedder, logger: logger}
}

// Retrieve embeds the question and returns the k most similar chunks.
// Repeated calls with the same question against an unchanged index
// return the same ranking.
func (r *Retriever) Retrieve(ctx context.Context, question string, index *vectorstore.Index, k int) (models.RetrievalResult, error) {
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	result, err := index.Search(vec, k)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("retrieved chunks", map[string]interface{}{
		"question_len": len(question),
		"k":            k,
		"results":      len(result),
	})
	return result, nil
}
