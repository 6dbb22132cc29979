package chunking

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
	"github.com/nexusai/nexus/pkg/models"
)

func mustChunker(t *testing.T, maxChars, overlapChars int) *Chunker {
	t.Helper()
	c, err := New(Config{MaxChars: maxChars, OverlapChars: overlapChars})
	require.NoError(t, err)
	return c
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("negative overlap rejected", func(t *testing.T) {
		err := Config{MaxChars: 100, OverlapChars: -1}.Validate()
		require.Error(t, err)
		assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeInvalidConfiguration))
	})

	t.Run("overlap equal to max rejected", func(t *testing.T) {
		err := Config{MaxChars: 100, OverlapChars: 100}.Validate()
		require.Error(t, err)
		assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeInvalidConfiguration))
	})

	t.Run("overlap above max rejected", func(t *testing.T) {
		_, err := New(Config{MaxChars: 100, OverlapChars: 150})
		require.Error(t, err)
		assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeInvalidConfiguration))
	})
}

func TestChunkEmptyInput(t *testing.T) {
	c := mustChunker(t, 150, 20)

	chunks, err := c.Chunk(nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = c.Chunk([]models.TranscriptSegment{})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkThreeSegments(t *testing.T) {
	// Three 100-character segments with max 150 and overlap 20 produce
	// exactly two chunks: the first closes after the second segment
	// crosses the limit, the third rides on the carried overlap.
	segments := []models.TranscriptSegment{
		{Text: strings.Repeat("a", 100), Start: 0, Duration: 10},
		{Text: strings.Repeat("b", 100), Start: 10, Duration: 10},
		{Text: strings.Repeat("c", 100), Start: 20, Duration: 10},
	}
	c := mustChunker(t, 150, 20)

	chunks, err := c.Chunk(segments)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	first, second := chunks[0], chunks[1]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, strings.Repeat("a", 100)+" "+strings.Repeat("b", 100), first.Text)
	assert.Equal(t, 0.0, first.Start)
	assert.Equal(t, 20.0, first.End)

	assert.Equal(t, 1, second.ID)
	assert.Equal(t, strings.Repeat("b", 20)+" "+strings.Repeat("c", 100), second.Text)
	// The carried overlap comes from the second segment, so the chunk
	// starts there.
	assert.Equal(t, 10.0, second.Start)
	assert.Equal(t, 30.0, second.End)
}

func TestChunkZeroOverlap(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Text: strings.Repeat("a", 100), Start: 0, Duration: 10},
		{Text: strings.Repeat("b", 100), Start: 10, Duration: 10},
		{Text: strings.Repeat("c", 100), Start: 20, Duration: 10},
	}
	c := mustChunker(t, 150, 0)

	chunks, err := c.Chunk(segments)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 100)+" "+strings.Repeat("b", 100), chunks[0].Text)
	assert.Equal(t, strings.Repeat("c", 100), chunks[1].Text)
	assert.Equal(t, 20.0, chunks[1].Start)
}

func TestChunkSingleShortSegment(t *testing.T) {
	c := mustChunker(t, 150, 20)

	chunks, err := c.Chunk([]models.TranscriptSegment{
		{Text: "hello world", Start: 3, Duration: 2},
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
	assert.Equal(t, 3.0, chunks[0].Start)
	assert.Equal(t, 5.0, chunks[0].End)
}

func TestChunkOversizedSegment(t *testing.T) {
	// A segment at or above MaxChars becomes its own chunk, unsplit and
	// without a carried overlap prefix.
	big := strings.Repeat("x", 300)
	segments := []models.TranscriptSegment{
		{Text: strings.Repeat("a", 100), Start: 0, Duration: 10},
		{Text: big, Start: 10, Duration: 30},
		{Text: strings.Repeat("c", 50), Start: 40, Duration: 5},
	}
	c := mustChunker(t, 150, 20)

	chunks, err := c.Chunk(segments)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, strings.Repeat("a", 100), chunks[0].Text)
	assert.Equal(t, big, chunks[1].Text)
	assert.Equal(t, 10.0, chunks[1].Start)
	assert.Equal(t, 40.0, chunks[1].End)
	assert.Equal(t, strings.Repeat("x", 20)+" "+strings.Repeat("c", 50), chunks[2].Text)
}

func TestChunkInvariants(t *testing.T) {
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	var segments []models.TranscriptSegment
	start := 0.0
	for i := 0; i < 40; i++ {
		text := strings.Repeat(words[i%len(words)]+" ", 5)
		segments = append(segments, models.TranscriptSegment{
			Text:     strings.TrimSpace(text),
			Start:    start,
			Duration: 4,
		})
		start += 4
	}
	c := mustChunker(t, 120, 30)

	chunks, err := c.Chunk(segments)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.ID)
		assert.LessOrEqual(t, ch.Start, ch.End)
		if i > 0 {
			assert.GreaterOrEqual(t, ch.Start, chunks[i-1].Start, "chunk starts must not regress")
		}
		if i < len(chunks)-1 {
			assert.GreaterOrEqual(t, utf8.RuneCountInString(ch.Text), 120,
				"every chunk but the last closes at or above MaxChars")
		}
	}

	// Stripping each chunk's carried overlap prefix and concatenating
	// reconstructs the full transcript text.
	var rebuilt strings.Builder
	for i, ch := range chunks {
		text := ch.Text
		if i > 0 {
			prev := []rune(chunks[i-1].Text)
			overlap := 30
			if overlap > len(prev) {
				overlap = len(prev)
			}
			text = strings.TrimPrefix(text, string(prev[len(prev)-overlap:]))
			text = strings.TrimPrefix(text, " ")
			rebuilt.WriteString(" ")
		}
		rebuilt.WriteString(text)
	}
	var full strings.Builder
	for i, seg := range segments {
		if i > 0 {
			full.WriteString(" ")
		}
		full.WriteString(seg.Text)
	}
	assert.Equal(t, full.String(), rebuilt.String())
}

func TestChunkStaleConfigRejected(t *testing.T) {
	c := &Chunker{cfg: Config{MaxChars: 10, OverlapChars: 10}}
	_, err := c.Chunk([]models.TranscriptSegment{{Text: "hi"}})
	require.Error(t, err)
	assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeInvalidConfiguration))
}
