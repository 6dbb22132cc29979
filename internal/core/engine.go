// Package core wires the transcript pipeline together: it manages
// sessions, loads videos (fetch, chunk, embed, index) and answers
// questions against the session's installed index.
package core

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/nexusai/nexus/pkg/answer"
	"github.com/nexusai/nexus/pkg/chunking"
	"github.com/nexusai/nexus/pkg/embedding"
	"github.com/nexusai/nexus/pkg/models"
	"github.com/nexusai/nexus/pkg/observability"
	"github.com/nexusai/nexus/pkg/retrieval"
	"github.com/nexusai/nexus/pkg/transcript"
	"github.com/nexusai/nexus/pkg/vectorstore"
)

// Sentinel errors for session lookups and ordering violations. The API
// layer maps these to HTTP statuses.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoVideoLoaded   = errors.New("no video loaded")
)

// LoadResult reports the outcome of a completed video load.
type LoadResult struct {
	SessionID uuid.UUID `json:"session_id"`
	VideoID   string    `json:"video_id"`
	Language  string    `json:"language"`
	Chunks    int       `json:"chunks"`
	Segments  int       `json:"segments"`
}

// Engine orchestrates the pipeline. It is safe for concurrent use; each
// session serializes its own video loads, and loading a new video into a
// session cancels that session's in-flight build.
type Engine struct {
	cfg      Config
	source   transcript.Source
	chunker  *chunking.Chunker
	embedder embedding.Provider
	composer *answer.Composer
	retrieve *retrieval.Retriever
	logger   observability.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewEngine creates an Engine. The embedder is used for both index
// builds and question embedding so both sides share one vector space.
func NewEngine(cfg Config, source transcript.Source, embedder embedding.Provider, llm answer.Client, logger observability.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	chunker, err := chunking.New(cfg.Chunking)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		source:   source,
		chunker:  chunker,
		embedder: embedder,
		composer: answer.NewComposer(llm, logger.WithPrefix("composer")),
		retrieve: retrieval.New(embedder, logger.WithPrefix("retriever")),
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}, nil
}

// LoadVideo loads a video into a session and blocks until the index is
// installed or the load fails. A zero sessionID creates a new session;
// otherwise the video is loaded into the existing one, cancelling any
// build still in flight there. A failed load leaves the session's
// previously installed index intact.
func (e *Engine) LoadVideo(ctx context.Context, sessionID uuid.UUID, videoRef, language string) (LoadResult, error) {
	videoID, err := transcript.ExtractVideoID(videoRef)
	if err != nil {
		return LoadResult{}, err
	}
	if language == "" {
		language = e.cfg.DefaultLanguage
	}

	var sess *Session
	if sessionID == uuid.Nil {
		sess = newSession()
		e.mu.Lock()
		e.sessions[sess.id] = sess
		e.mu.Unlock()
	} else {
		sess, err = e.session(sessionID)
		if err != nil {
			return LoadResult{}, err
		}
	}

	loadCtx, gen := sess.beginLoad(ctx)

	result, index, err := e.buildIndex(loadCtx, videoID, language)
	if err != nil {
		sess.fail(gen, err)
		e.logger.Warn("video load failed", map[string]interface{}{
			"session_id": sess.id.String(),
			"video_id":   videoID,
			"error":      err.Error(),
		})
		return LoadResult{}, err
	}

	if !sess.install(gen, videoID, language, index) {
		// A newer load started while this one was building.
		return LoadResult{}, loadCtx.Err()
	}

	result.SessionID = sess.id
	e.logger.Info("video loaded", map[string]interface{}{
		"session_id": sess.id.String(),
		"video_id":   videoID,
		"language":   language,
		"segments":   result.Segments,
		"chunks":     result.Chunks,
	})
	return result, nil
}

// buildIndex runs the fetch, chunk and embed phases under their
// respective timeouts and returns the built index.
func (e *Engine) buildIndex(ctx context.Context, videoID, language string) (LoadResult, *vectorstore.Index, error) {
	fetchCtx, cancelFetch := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancelFetch()
	segments, err := e.source.Fetch(fetchCtx, videoID, language)
	if err != nil {
		return LoadResult{}, nil, err
	}

	chunks, err := e.chunker.Chunk(segments)
	if err != nil {
		return LoadResult{}, nil, err
	}

	buildCtx, cancelBuild := context.WithTimeout(ctx, e.cfg.BuildTimeout)
	defer cancelBuild()
	index, err := vectorstore.Build(buildCtx, chunks, e.embedder, e.cfg.EmbedWorkers)
	if err != nil {
		return LoadResult{}, nil, err
	}

	return LoadResult{
		VideoID:  videoID,
		Language: language,
		Segments: len(segments),
		Chunks:   len(chunks),
	}, index, nil
}

// Ask answers a question against the session's installed index. Asking
// before any successful load returns ErrNoVideoLoaded. The answer cites
// the timestamp ranges of the chunks offered as context, in rank order.
func (e *Engine) Ask(ctx context.Context, sessionID uuid.UUID, question string) (models.Answer, models.RetrievalResult, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return models.Answer{}, nil, err
	}
	index, videoID := sess.snapshot()
	if index == nil {
		return models.Answer{}, nil, ErrNoVideoLoaded
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.AnswerTimeout)
	defer cancel()

	retrieved, err := e.retrieve.Retrieve(ctx, question, index, e.cfg.TopK)
	if err != nil {
		return models.Answer{}, nil, err
	}
	ans, err := e.composer.Compose(ctx, question, retrieved)
	if err != nil {
		return models.Answer{}, nil, err
	}

	e.logger.Debug("question answered", map[string]interface{}{
		"session_id": sessionID.String(),
		"video_id":   videoID,
		"chunks":     len(retrieved),
	})
	return ans, retrieved, nil
}

// Status returns a snapshot of the session.
func (e *Engine) Status(sessionID uuid.UUID) (SessionStatus, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return SessionStatus{}, err
	}
	return sess.status(), nil
}

func (e *Engine) session(id uuid.UUID) (*Session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sess, ok := e.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
