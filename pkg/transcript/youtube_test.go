package transcript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

const testVideoID = "dQw4w9WgXcQ"

// timedtextServer fakes the YouTube timedtext endpoint for a fixed set
// of caption tracks.
func timedtextServer(t *testing.T, langs []string, events string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/timedtext", r.URL.Path)
		require.Equal(t, testVideoID, r.URL.Query().Get("v"))

		if r.URL.Query().Get("type") == "list" {
			fmt.Fprint(w, `<?xml version="1.0" encoding="utf-8"?><transcript_list>`)
			for _, lang := range langs {
				fmt.Fprintf(w, `<track lang_code=%q name="" />`, lang)
			}
			fmt.Fprint(w, `</transcript_list>`)
			return
		}
		fmt.Fprint(w, events)
	}))
}

const sampleEvents = `{"events":[
	{"tStartMs":0,"dDurationMs":2500,"segs":[{"utf8":"hello "},{"utf8":"world"}]},
	{"tStartMs":2500,"dDurationMs":1000,"segs":[{"utf8":"\n"}]},
	{"tStartMs":3500,"dDurationMs":2000,"segs":[{"utf8":"second\nline"}]}
]}`

func TestFetchParsesSegments(t *testing.T) {
	server := timedtextServer(t, []string{"en"}, sampleEvents)
	defer server.Close()

	source := NewYouTubeSource(WithBaseURL(server.URL))
	segments, err := source.Fetch(context.Background(), testVideoID, "en")
	require.NoError(t, err)
	require.Len(t, segments, 2, "whitespace-only events are dropped")

	assert.Equal(t, "hello world", segments[0].Text)
	assert.Equal(t, 0.0, segments[0].Start)
	assert.Equal(t, 2.5, segments[0].Duration)

	assert.Equal(t, "second line", segments[1].Text)
	assert.Equal(t, 3.5, segments[1].Start)
	assert.Equal(t, 5.5, segments[1].End())
}

func TestFetchMalformedVideoID(t *testing.T) {
	source := NewYouTubeSource()
	_, err := source.Fetch(context.Background(), "not-an-id", "en")
	require.Error(t, err)
	assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeInvalidVideoID))
}

func TestFetchNoTracks(t *testing.T) {
	server := timedtextServer(t, nil, "")
	defer server.Close()

	source := NewYouTubeSource(WithBaseURL(server.URL))
	_, err := source.Fetch(context.Background(), testVideoID, "en")
	require.Error(t, err)
	assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeTranscriptUnavailable))
}

func TestFetchEmptyTrack(t *testing.T) {
	server := timedtextServer(t, []string{"en"}, `{"events":[]}`)
	defer server.Close()

	source := NewYouTubeSource(WithBaseURL(server.URL))
	_, err := source.Fetch(context.Background(), testVideoID, "en")
	require.Error(t, err)
	assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeTranscriptUnavailable))
}

func TestFetchLanguageSelection(t *testing.T) {
	requestedLang := func(t *testing.T, available []string, requested string) string {
		t.Helper()
		var got atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("type") == "list" {
				fmt.Fprint(w, `<transcript_list>`)
				for _, lang := range available {
					fmt.Fprintf(w, `<track lang_code=%q />`, lang)
				}
				fmt.Fprint(w, `</transcript_list>`)
				return
			}
			got.Store(r.URL.Query().Get("lang"))
			fmt.Fprint(w, sampleEvents)
		}))
		defer server.Close()

		source := NewYouTubeSource(WithBaseURL(server.URL))
		_, err := source.Fetch(context.Background(), testVideoID, requested)
		require.NoError(t, err)
		return got.Load().(string)
	}

	t.Run("requested language wins", func(t *testing.T) {
		assert.Equal(t, "de", requestedLang(t, []string{"en", "de"}, "de"))
	})

	t.Run("falls back to en", func(t *testing.T) {
		assert.Equal(t, "en", requestedLang(t, []string{"fr", "en"}, "de"))
	})

	t.Run("falls back through en variants", func(t *testing.T) {
		assert.Equal(t, "en-GB", requestedLang(t, []string{"fr", "en-GB"}, "de"))
	})

	t.Run("case insensitive match", func(t *testing.T) {
		assert.Equal(t, "EN", requestedLang(t, []string{"EN"}, "en"))
	})

	t.Run("falls back to first available", func(t *testing.T) {
		assert.Equal(t, "ja", requestedLang(t, []string{"ja", "ko"}, "de"))
	})
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	var listCalls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") == "list" {
			if listCalls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, `<transcript_list><track lang_code="en" /></transcript_list>`)
			return
		}
		fmt.Fprint(w, sampleEvents)
	}))
	defer server.Close()

	source := NewYouTubeSource(WithBaseURL(server.URL))
	segments, err := source.Fetch(context.Background(), testVideoID, "en")
	require.NoError(t, err)
	assert.NotEmpty(t, segments)
	assert.Equal(t, int64(2), listCalls.Load())
}

func TestFetchDoesNotRetryPermanentStatus(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewYouTubeSource(WithBaseURL(server.URL))
	_, err := source.Fetch(context.Background(), testVideoID, "en")
	require.Error(t, err)
	assert.True(t, nexuserrors.HasCode(err, nexuserrors.CodeTranscriptUnavailable))
	assert.Equal(t, int64(1), calls.Load())
}

func TestFetchGivesUpAfterRetryBudget(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewYouTubeSource(WithBaseURL(server.URL))
	_, err := source.Fetch(context.Background(), testVideoID, "en")
	require.Error(t, err)
	assert.True(t, nexuserrors.IsTransient(err))
	assert.Equal(t, int64(1+maxFetchRetries), calls.Load())
}
