// Package models defines the typed records shared across the transcript
// question-answering pipeline. Collaborator responses (transcript tracks,
// embedding vectors, LLM output) are converted into these types at the
// boundary and validated there.
package models

// TranscriptSegment is a single timed caption line as returned by a
// transcript source. Segments are immutable and ordered by Start.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the end time of the segment in seconds.
func (s TranscriptSegment) End() float64 {
	return s.Start + s.Duration
}

// Chunk is a contiguous, timestamp-bounded span of transcript text sized
// for embedding. Chunks for a video are totally ordered by Start and
// Start <= End holds for every chunk.
type Chunk struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ScoredChunk pairs a chunk with its similarity score against a query.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// RetrievalResult is an ordered sequence of scored chunks, highest
// similarity first.
type RetrievalResult []ScoredChunk

// Chunks returns the retrieved chunks in rank order.
func (r RetrievalResult) Chunks() []Chunk {
	chunks := make([]Chunk, len(r))
	for i, sc := range r {
		chunks[i] = sc.Chunk
	}
	return chunks
}

// Citation is a timestamp range in the source video backing part of an
// answer.
type Citation struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Answer is a grounded natural-language answer with timestamp citations
// in retrieval-rank order.
type Answer struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}
