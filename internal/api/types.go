package api

import (
	"github.com/nexusai/nexus/internal/core"
	"github.com/nexusai/nexus/pkg/models"
)

// LoadVideoRequest loads a video into a session. SessionID is optional:
// when set, the video replaces the session's current one; when empty, a
// new session is created.
type LoadVideoRequest struct {
	URL       string `json:"url" binding:"required"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
}

// LoadVideoResponse reports the completed load.
type LoadVideoResponse struct {
	core.LoadResult
}

// AskRequest asks a question against a session's loaded video.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// RetrievedChunk is a retrieved transcript passage with its similarity
// score, returned alongside the answer for transparency.
type RetrievedChunk struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Score float64 `json:"score"`
}

// AskResponse is the grounded answer with citations and the chunks the
// answer was grounded on, in rank order.
type AskResponse struct {
	Answer    string            `json:"answer"`
	Citations []models.Citation `json:"citations"`
	Chunks    []RetrievedChunk  `json:"chunks"`
}

// ErrorResponse is the error payload for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
