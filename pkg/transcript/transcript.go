// Package transcript fetches ordered, timed transcripts for videos.
// The YouTube implementation talks to the public timedtext endpoint,
// tries the requested language with an English fallback chain, and
// retries transient network failures within a bounded budget.
package transcript

import (
	"context"

	"github.com/nexusai/nexus/pkg/models"
)

// Source returns the ordered transcript of a video. Implementations fail
// with a transcript-unavailable error when no transcript exists for the
// video/language combination and with an invalid-video-ID error when the
// identifier is malformed.
type Source interface {
	Fetch(ctx context.Context, videoID, language string) ([]models.TranscriptSegment, error)
}
