package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexusai/nexus/pkg/vectorstore"
)

// State is the lifecycle state of a session.
type State string

// Session states.
const (
	// StateLoading means a video is being fetched and indexed.
	StateLoading State = "loading"
	// StateReady means an index is installed and questions can be asked.
	StateReady State = "ready"
	// StateFailed means no load has succeeded yet for this session.
	StateFailed State = "failed"
)

// Session holds the per-conversation state: at most one loaded video and
// its index. Loading a new video replaces the previous one; a failed
// load keeps the previously installed index usable.
type Session struct {
	id uuid.UUID

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
	videoID    string
	language   string
	index      *vectorstore.Index
	lastErr    error
	createdAt  time.Time
	updatedAt  time.Time
}

// SessionStatus is a point-in-time snapshot of a session for callers.
type SessionStatus struct {
	ID        uuid.UUID `json:"id"`
	VideoID   string    `json:"video_id,omitempty"`
	Language  string    `json:"language,omitempty"`
	State     State     `json:"state"`
	Chunks    int       `json:"chunks"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSession() *Session {
	now := time.Now().UTC()
	return &Session{
		id:        uuid.New(),
		state:     StateLoading,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// beginLoad starts a new load generation, cancelling any in-flight build
// for this session. The returned context governs the new build and the
// generation ticket decides whether its result may be installed.
func (s *Session) beginLoad(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	if s.index == nil {
		s.state = StateLoading
	}
	s.updatedAt = time.Now().UTC()
	return loadCtx, gen
}

// install publishes a built index. It is a no-op when a newer load has
// started since gen was issued.
func (s *Session) install(gen uint64, videoID, language string, index *vectorstore.Index) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.videoID = videoID
	s.language = language
	s.index = index
	s.state = StateReady
	s.lastErr = nil
	s.cancel = nil
	s.updatedAt = time.Now().UTC()
	return true
}

// fail records a load failure. The previously installed index, if any,
// stays in place and the session remains usable against it.
func (s *Session) fail(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.lastErr = err
	s.cancel = nil
	if s.index != nil {
		s.state = StateReady
	} else {
		s.state = StateFailed
	}
	s.updatedAt = time.Now().UTC()
}

// snapshot returns the installed index and its video ID for reads.
func (s *Session) snapshot() (*vectorstore.Index, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, s.videoID
}

// status returns a point-in-time snapshot of the session.
func (s *Session) status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SessionStatus{
		ID:        s.id,
		VideoID:   s.videoID,
		Language:  s.language,
		State:     s.state,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	if s.index != nil {
		st.Chunks = s.index.Len()
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}
