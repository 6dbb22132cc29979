package transcript

import (
	"fmt"
	"regexp"
	"strings"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

// videoIDPattern matches a bare 11-character YouTube video ID.
var videoIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// urlPatterns cover the common YouTube URL shapes: watch, youtu.be,
// embed, /v/ and shorts.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)youtube\.com/.*[?&]v=([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?i)youtu\.be/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?i)youtube\.com/embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?i)youtube\.com/v/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?i)youtube\.com/shorts/([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID extracts the 11-character video ID from a YouTube URL or
// returns the input unchanged when it already is a valid ID. A string
// that is neither fails with an invalid-video-ID error.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nexuserrors.New(nexuserrors.CodeInvalidVideoID, "transcript.ExtractVideoID", "empty video URL or ID")
	}
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}
	for _, pattern := range urlPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return m[1], nil
		}
	}
	return "", nexuserrors.New(nexuserrors.CodeInvalidVideoID, "transcript.ExtractVideoID",
		fmt.Sprintf("could not extract a video ID from %q", raw))
}
