package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
	"github.com/nexusai/nexus/pkg/models"
	"github.com/nexusai/nexus/pkg/vectorstore"
)

// mapEmbedder returns fixed vectors per text.
type mapEmbedder struct {
	dims    int
	vectors map[string][]float32
	err     error
}

func (m *mapEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return make([]float32, m.dims), nil
}

func (m *mapEmbedder) Dimensions() int { return m.dims }

func buildIndex(t *testing.T, embedder vectorstore.Embedder, texts ...string) *vectorstore.Index {
	t.Helper()
	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.Chunk{ID: i, Text: text, Start: float64(i), End: float64(i + 1)}
	}
	ix, err := vectorstore.Build(context.Background(), chunks, embedder, 2)
	require.NoError(t, err)
	return ix
}

func TestRetrieveRanksBySimilarity(t *testing.T) {
	embedder := &mapEmbedder{
		dims: 3,
		vectors: map[string][]float32{
			"cats":             {1, 0, 0},
			"dogs":             {0, 1, 0},
			"weather":          {0, 0, 1},
			"what about cats?": {0.9, 0.1, 0},
		},
	}
	ix := buildIndex(t, embedder, "cats", "dogs", "weather")
	r := New(embedder, nil)

	result, err := r.Retrieve(context.Background(), "what about cats?", ix, 2)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "cats", result[0].Chunk.Text)
	assert.Equal(t, "dogs", result[1].Chunk.Text)
}

func TestRetrieveIdempotent(t *testing.T) {
	embedder := &mapEmbedder{
		dims: 2,
		vectors: map[string][]float32{
			"a": {1, 0},
			"b": {0, 1},
			"q": {1, 1},
		},
	}
	ix := buildIndex(t, embedder, "a", "b")
	r := New(embedder, nil)

	first, err := r.Retrieve(context.Background(), "q", ix, 2)
	require.NoError(t, err)
	second, err := r.Retrieve(context.Background(), "q", ix, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRetrieveEmbedFailure(t *testing.T) {
	embedder := &mapEmbedder{dims: 2, vectors: map[string][]float32{"a": {1, 0}}}
	ix := buildIndex(t, embedder, "a")

	embedder.err = nexuserrors.NewTransient(nexuserrors.CodeEmbeddingFailure, "test", "down")
	r := New(embedder, nil)

	_, err := r.Retrieve(context.Background(), "q", ix, 3)
	require.Error(t, err)
	assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeEmbeddingFailure))
}

func TestRetrieveKZero(t *testing.T) {
	embedder := &mapEmbedder{dims: 2, vectors: map[string][]float32{"a": {1, 0}}}
	ix := buildIndex(t, embedder, "a")
	r := New(embedder, nil)

	result, err := r.Retrieve(context.Background(), "q", ix, 0)
	require.NoError(t, err)
	assert.Empty(t, result)
}
