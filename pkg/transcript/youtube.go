package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
	"github.com/nexusai/nexus/pkg/models"
	"github.com/nexusai/nexus/pkg/observability"
)

// maxFetchRetries bounds retry of transient failures per HTTP call: one
// attempt plus at most two retries.
const maxFetchRetries = 2

// YouTubeSource fetches transcripts from the YouTube timedtext endpoint.
type YouTubeSource struct {
	baseURL    string
	httpClient *http.Client
	logger     observability.Logger
}

// YouTubeOption configures a YouTubeSource.
type YouTubeOption func(*YouTubeSource)

// WithBaseURL overrides the YouTube endpoint, used by tests.
func WithBaseURL(baseURL string) YouTubeOption {
	return func(s *YouTubeSource) { s.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) YouTubeOption {
	return func(s *YouTubeSource) { s.httpClient = client }
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) YouTubeOption {
	return func(s *YouTubeSource) { s.logger = logger }
}

// NewYouTubeSource creates a YouTube transcript source. Proxies are
// honored through the standard HTTP_PROXY/HTTPS_PROXY environment
// variables of the default transport.
func NewYouTubeSource(opts ...YouTubeOption) *YouTubeSource {
	s := &YouTubeSource{
		baseURL:    "https://www.youtube.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     observability.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// trackList is the XML track listing returned by the timedtext endpoint.
type trackList struct {
	XMLName xml.Name        `xml:"transcript_list"`
	Tracks  []trackListItem `xml:"track"`
}

type trackListItem struct {
	LangCode string `xml:"lang_code,attr"`
	Kind     string `xml:"kind,attr"`
}

// json3Events is the fmt=json3 transcript payload.
type json3Events struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Fetch implements Source. It lists the available caption tracks, picks
// the requested language (falling back through en, en-US, en-GB, then
// any available track) and parses the timed events into segments.
func (s *YouTubeSource) Fetch(ctx context.Context, videoID, language string) ([]models.TranscriptSegment, error) {
	const op = "transcript.YouTubeSource.Fetch"

	if !videoIDPattern.MatchString(videoID) {
		return nil, nexuserrors.New(nexuserrors.CodeInvalidVideoID, op,
			fmt.Sprintf("malformed video ID %q", videoID))
	}

	available, err := s.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, nexuserrors.New(nexuserrors.CodeTranscriptUnavailable, op,
			fmt.Sprintf("no transcript tracks for video %s", videoID))
	}

	lang := pickLanguage(language, available)
	s.logger.Debug("fetching transcript track", map[string]interface{}{
		"video_id": videoID,
		"language": lang,
	})

	segments, err := s.fetchTrack(ctx, videoID, lang)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, nexuserrors.New(nexuserrors.CodeTranscriptUnavailable, op,
			fmt.Sprintf("transcript track %s for video %s is empty", lang, videoID))
	}
	return segments, nil
}

// pickLanguage returns the first language of the fallback chain present
// in available, or the first available track when none match.
func pickLanguage(requested string, available []string) string {
	chain := []string{requested, "en", "en-US", "en-GB"}
	seen := map[string]bool{}
	for _, lang := range chain {
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		for _, avail := range available {
			if strings.EqualFold(avail, lang) {
				return avail
			}
		}
	}
	return available[0]
}

func (s *YouTubeSource) listTracks(ctx context.Context, videoID string) ([]string, error) {
	query := url.Values{"type": {"list"}, "v": {videoID}}
	body, err := s.get(ctx, "/api/timedtext?"+query.Encode())
	if err != nil {
		return nil, err
	}
	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, nexuserrors.Wrap(nexuserrors.CodeTranscriptUnavailable, "transcript.YouTubeSource.listTracks", err)
	}
	langs := make([]string, 0, len(list.Tracks))
	for _, track := range list.Tracks {
		langs = append(langs, track.LangCode)
	}
	return langs, nil
}

func (s *YouTubeSource) fetchTrack(ctx context.Context, videoID, lang string) ([]models.TranscriptSegment, error) {
	query := url.Values{"v": {videoID}, "lang": {lang}, "fmt": {"json3"}}
	body, err := s.get(ctx, "/api/timedtext?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var events json3Events
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, nexuserrors.Wrap(nexuserrors.CodeTranscriptUnavailable, "transcript.YouTubeSource.fetchTrack", err)
	}

	segments := make([]models.TranscriptSegment, 0, len(events.Events))
	for _, ev := range events.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		segments = append(segments, models.TranscriptSegment{
			Text:     text,
			Start:    float64(ev.StartMs) / 1000.0,
			Duration: float64(ev.DurationMs) / 1000.0,
		})
	}
	return segments, nil
}

// get performs a GET with bounded retry of transient failures.
func (s *YouTubeSource) get(ctx context.Context, path string) ([]byte, error) {
	const op = "transcript.YouTubeSource.get"

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	return backoff.RetryWithData(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
		if err != nil {
			return nil, backoff.Permanent(nexuserrors.Wrap(nexuserrors.CodeTranscriptUnavailable, op, err))
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
				return nil, nexuserrors.WrapTransient(nexuserrors.CodeTimeout, op, err)
			}
			return nil, nexuserrors.WrapTransient(nexuserrors.CodeTranscriptUnavailable, op, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			msg := fmt.Sprintf("timedtext returned status %d", resp.StatusCode)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				return nil, nexuserrors.NewTransient(nexuserrors.CodeTranscriptUnavailable, op, msg)
			}
			return nil, backoff.Permanent(nexuserrors.New(nexuserrors.CodeTranscriptUnavailable, op, msg))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, nexuserrors.WrapTransient(nexuserrors.CodeTranscriptUnavailable, op, err)
		}
		return body, nil
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxFetchRetries), ctx))
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
