// Package vectorstore provides an in-memory vector index over the chunks
// of a single video. The index is built once, is read-only afterwards,
// and is discarded when another video is loaded. Search is exact flat
// cosine similarity: index sizes here are at most a few hundred vectors,
// so an approximate structure buys nothing.
package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
	"github.com/nexusai/nexus/pkg/models"
)

// Embedder maps text to a fixed-dimension vector. Implementations live in
// pkg/embedding; the index only needs this surface.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Index owns the (vector, chunk) pairs for one video. Concurrent Search
// calls against a built index are safe; an Index is never mutated after
// Build returns it.
type Index struct {
	dims    int
	chunks  []models.Chunk
	vectors [][]float32
	norms   []float64
}

// Build embeds every chunk and assembles the index. Embedding runs across
// the given number of workers; vectors are written at their chunk's
// position, so the stored content does not depend on completion order.
// Any embedding error or dimension mismatch aborts the build and the
// partial index is discarded.
func Build(ctx context.Context, chunks []models.Chunk, embedder Embedder, workers int) (*Index, error) {
	dims := embedder.Dimensions()
	if dims <= 0 {
		return nil, nexuserrors.New(nexuserrors.CodeEmbeddingFailure, "vectorstore.Build",
			fmt.Sprintf("embedder reports invalid dimension %d", dims))
	}

	ix := &Index{
		dims:    dims,
		chunks:  chunks,
		vectors: make([][]float32, len(chunks)),
		norms:   make([]float64, len(chunks)),
	}
	if len(chunks) == 0 {
		return ix, nil
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var wg sync.WaitGroup
	var once sync.Once
	var buildErr error

	fail := func(err error) {
		once.Do(func() {
			buildErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				vec, err := embedder.Embed(ctx, ix.chunks[i].Text)
				if err != nil {
					fail(classifyEmbedErr(err))
					return
				}
				if len(vec) != dims {
					fail(nexuserrors.New(nexuserrors.CodeEmbeddingFailure, "vectorstore.Build",
						fmt.Sprintf("chunk %d: expected vector of dimension %d, got %d", ix.chunks[i].ID, dims, len(vec))))
					return
				}
				ix.vectors[i] = vec
				ix.norms[i] = norm(vec)
			}
		}()
	}

feed:
	for i := range chunks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if buildErr != nil {
		return nil, buildErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Dimensions returns the vector dimension of the index.
func (ix *Index) Dimensions() int {
	return ix.dims
}

// Chunks returns the indexed chunks in original order.
func (ix *Index) Chunks() []models.Chunk {
	return ix.chunks
}

// Search returns the k stored chunks most similar to the query vector,
// ranked by cosine similarity with ties broken by original chunk order.
// k is clamped to the number of stored vectors; k <= 0 or an empty index
// yields an empty result.
func (ix *Index) Search(query []float32, k int) (models.RetrievalResult, error) {
	if len(query) != ix.dims {
		return nil, nexuserrors.New(nexuserrors.CodeEmbeddingFailure, "vectorstore.Search",
			fmt.Sprintf("query vector has dimension %d, index has %d", len(query), ix.dims))
	}
	if k <= 0 || len(ix.vectors) == 0 {
		return models.RetrievalResult{}, nil
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	qnorm := norm(query)
	scored := make(models.RetrievalResult, len(ix.vectors))
	for i, vec := range ix.vectors {
		scored[i] = models.ScoredChunk{Chunk: ix.chunks[i], Score: cosine(query, qnorm, vec, ix.norms[i])}
	}
	// Stable sort over chunk order gives the earliest-chunk tie-break.
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	return scored[:k], nil
}

func classifyEmbedErr(err error) error {
	if nexuserrors.CodeOf(err) != "" {
		return err
	}
	return nexuserrors.Wrap(nexuserrors.CodeEmbeddingFailure, "vectorstore.Build", err)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine is the dot product divided by the product of norms; a zero
// vector on either side scores 0.
func cosine(q []float32, qnorm float64, v []float32, vnorm float64) float64 {
	if qnorm == 0 || vnorm == 0 {
		return 0
	}
	var dot float64
	for i := range q {
		dot += float64(q[i]) * float64(v[i])
	}
	return dot / (qnorm * vnorm)
}
