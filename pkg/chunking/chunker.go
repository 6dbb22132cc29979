// Package chunking splits an ordered transcript into overlapping,
// timestamp-bounded text chunks sized for embedding. Segments are never
// split mid-segment so every chunk maps cleanly back to video timestamps.
package chunking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
	"github.com/nexusai/nexus/pkg/models"
)

// Defaults chosen to match a 1000-character window with 200 characters of
// shared context between neighbors.
const (
	DefaultMaxChars     = 1000
	DefaultOverlapChars = 200
)

// Config configures a Chunker. MaxChars > OverlapChars >= 0 is required.
type Config struct {
	MaxChars     int `mapstructure:"max_chars"`
	OverlapChars int `mapstructure:"overlap_chars"`
}

// DefaultConfig returns the default chunking configuration.
func DefaultConfig() Config {
	return Config{MaxChars: DefaultMaxChars, OverlapChars: DefaultOverlapChars}
}

// Validate checks the chunk/overlap size precondition.
func (c Config) Validate() error {
	if c.OverlapChars < 0 {
		return nexuserrors.New(nexuserrors.CodeInvalidConfiguration, "chunking.Validate",
			fmt.Sprintf("overlap_chars must be >= 0, got %d", c.OverlapChars))
	}
	if c.MaxChars <= c.OverlapChars {
		return nexuserrors.New(nexuserrors.CodeInvalidConfiguration, "chunking.Validate",
			fmt.Sprintf("max_chars (%d) must be greater than overlap_chars (%d)", c.MaxChars, c.OverlapChars))
	}
	return nil
}

// Chunker produces overlapping chunks from transcript segments.
type Chunker struct {
	cfg Config
}

// New creates a Chunker, validating the configuration.
func New(cfg Config) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{cfg: cfg}, nil
}

// piece is a run of text inside the chunk being accumulated. The first
// piece of a chunk may be the overlap tail carried from the previous
// chunk; its start is the start of the earliest segment covering that
// tail.
type piece struct {
	text  []rune
	start float64
}

// Chunk walks the segments in order, accumulating text until the current
// chunk reaches MaxChars, then closes it and seeds the next chunk with
// the trailing OverlapChars of the closed chunk. A single segment at or
// above MaxChars becomes its own chunk. An empty segment sequence yields
// an empty chunk sequence.
func (c *Chunker) Chunk(segments []models.TranscriptSegment) ([]models.Chunk, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	chunks := []models.Chunk{}
	var pieces []piece
	var length int      // rune length of the joined pieces
	var end float64     // end time of the last segment in the chunk
	segsInChunk := 0    // segments added since the last close

	appendPiece := func(p piece) {
		if len(pieces) > 0 {
			length++ // joiner
		}
		pieces = append(pieces, p)
		length += len(p.text)
	}

	flush := func(carry bool) {
		closed := pieces
		parts := make([]string, len(closed))
		for i, p := range closed {
			parts[i] = string(p.text)
		}
		text := strings.Join(parts, " ")
		chunks = append(chunks, models.Chunk{
			ID:    len(chunks),
			Text:  text,
			Start: closed[0].start,
			End:   end,
		})

		pieces = nil
		length = 0
		segsInChunk = 0

		if !carry || c.cfg.OverlapChars == 0 {
			return
		}
		runes := []rune(text)
		carryLen := c.cfg.OverlapChars
		if carryLen > len(runes) {
			carryLen = len(runes)
		}
		if carryLen == 0 {
			return
		}
		off := len(runes) - carryLen
		appendPiece(piece{
			text:  runes[off:],
			start: coveringStart(closed, off),
		})
	}

	for _, seg := range segments {
		oversized := utf8.RuneCountInString(seg.Text) >= c.cfg.MaxChars
		if oversized && segsInChunk > 0 {
			flush(true)
		}
		if oversized {
			// Oversized segments stand alone, unsplit; drop any carried
			// overlap so the chunk text is the segment text unmodified.
			pieces = nil
			length = 0
		}
		appendPiece(piece{text: []rune(seg.Text), start: seg.Start})
		segsInChunk++
		end = seg.End()

		if length >= c.cfg.MaxChars {
			flush(true)
		}
	}
	if segsInChunk > 0 {
		flush(false)
	}

	return chunks, nil
}

// coveringStart returns the start time of the earliest piece whose text
// covers the rune offset off in the joined chunk text. This keeps the
// carried overlap's timestamp anchored to the segment it came from.
func coveringStart(pieces []piece, off int) float64 {
	pos := 0
	for _, p := range pieces {
		// A piece spans [pos, pos+len); an offset landing on the joiner
		// after it belongs to the following piece.
		if off < pos+len(p.text) {
			return p.start
		}
		pos += len(p.text) + 1
	}
	return pieces[len(pieces)-1].start
}
